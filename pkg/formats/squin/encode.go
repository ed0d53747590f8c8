package squin

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/formats"
)

// Encode writes c as a squin kernel, one gate per line in circuit order.
func (Format) Encode(c *circuit.Circuit) ([]byte, error) {
	return []byte(Source(c) + "\n"), nil
}

// Source returns the kernel source for c without a trailing newline. It is
// what the logical layer shows in its code block.
//
// A circuit that ends by measuring every qubit in order gets a trailing
// "return squin.measure(q)"; other measurements are written in place.
func Source(c *circuit.Circuit) string {
	lines := []string{
		decoratorTag,
		fmt.Sprintf("def %s():", KernelName(c.Name())),
		fmt.Sprintf("    q = squin.qalloc(%d)", c.NumQubits()),
	}
	gates := c.Gates()
	tail := measureAllTail(gates, c.NumQubits())
	for _, g := range gates[:len(gates)-tail] {
		if g.IsMeasure() {
			lines = append(lines, fmt.Sprintf("    squin.measure(q[%d])", g.Qubits[0]))
			continue
		}
		lines = append(lines, "    "+call(g))
	}
	if tail > 0 {
		lines = append(lines, "    return squin.measure(q)")
	}
	return strings.Join(lines, "\n")
}

// measureAllTail returns n if gates end with M(0)..M(n-1), otherwise 0.
func measureAllTail(gates []circuit.Gate, n int) int {
	if len(gates) < n {
		return 0
	}
	for i, g := range gates[len(gates)-n:] {
		if !g.IsMeasure() || g.Qubits[0] != i {
			return 0
		}
	}
	return n
}

func call(g circuit.Gate) string {
	args := make([]string, 0, len(g.Qubits)+1)
	if g.Kind.IsRotation() {
		args = append(args, strings.ReplaceAll(formats.FormatAngle(g.Angle), "pi", "math.pi"))
	}
	for _, q := range g.Qubits {
		args = append(args, fmt.Sprintf("q[%d]", q))
	}
	return fmt.Sprintf("squin.%s(%s)", strings.ToLower(g.Kind.String()), strings.Join(args, ", "))
}

// KernelName turns a circuit name into a Python identifier: lower case with
// spaces and punctuation replaced by underscores, e.g. "GHZ State" becomes
// "ghz_state".
func KernelName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	s := strings.Trim(b.String(), "_")
	if s == "" {
		return "kernel"
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "circuit_" + s
	}
	return s
}
