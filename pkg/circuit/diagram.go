package circuit

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Diagram draws the circuit as text, one row per qubit and one column per
// gate, for terminals.
//
//	q0: ─H──●──M────
//	q1: ────⊕─────M─
func (c *Circuit) Diagram() string {
	rows := make([]strings.Builder, c.numQubits)
	digits := len(fmt.Sprint(c.numQubits - 1))
	for q := range rows {
		fmt.Fprintf(&rows[q], "q%-*d: ", digits, q)
	}

	for _, g := range c.gates {
		cells := make([]string, c.numQubits)
		lo, hi := g.Qubits[0], g.Qubits[0]
		for _, q := range g.Qubits {
			lo, hi = min(lo, q), max(hi, q)
		}
		for q := range cells {
			cells[q] = "─"
			if len(g.Qubits) > 1 && q > lo && q < hi {
				cells[q] = "┼"
			}
		}
		for i, q := range g.Qubits {
			cells[q] = glyph(g, i)
		}

		width := 0
		for _, s := range cells {
			width = max(width, utf8.RuneCountInString(s))
		}
		for q, s := range cells {
			rows[q].WriteString("─" + s + strings.Repeat("─", width-utf8.RuneCountInString(s)+1))
		}
	}

	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return strings.Join(lines, "\n")
}

// glyph is the symbol for the i-th qubit operand of g.
func glyph(g Gate, i int) string {
	switch g.Kind {
	case KindCX, KindCCX:
		if i == len(g.Qubits)-1 {
			return "⊕"
		}
		return "●"
	case KindCZ:
		return "●"
	case KindSWAP:
		return "x"
	}
	if g.Kind.IsRotation() {
		return fmt.Sprintf("%s(%.3g)", g.Kind, g.Angle)
	}
	return g.Kind.String()
}
