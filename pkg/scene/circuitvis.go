package scene

import (
	"fmt"
	"math"

	"github.com/qrying/stackreel/pkg/circuit"
)

// CircuitVisual draws a circuit as horizontal wires with one slot per gate.
// Qubit 0 is the top wire at y = 0 before Offset is applied.
type CircuitVisual struct {
	ID          string
	Circuit     *circuit.Circuit
	WireSpacing float64
	SlotWidth   float64
	Padding     float64
	WireLength  float64
	Offset      Vec

	slot int
}

// NewCircuitVisual sizes the wires to fit every gate of c.
func NewCircuitVisual(id string, c *circuit.Circuit, wireSpacing float64) *CircuitVisual {
	cv := &CircuitVisual{ID: id, Circuit: c, WireSpacing: wireSpacing, SlotWidth: 0.6, Padding: 0.4}
	cv.WireLength = float64(c.Len())*cv.SlotWidth + 2*cv.Padding
	return cv
}

// SlotX is the x coordinate of the centre of a gate slot.
func (cv *CircuitVisual) SlotX(slot int) float64 {
	return cv.Offset.X - cv.WireLength/2 + cv.Padding + (float64(slot)+0.5)*cv.SlotWidth
}

// WireY is the y coordinate of a qubit's wire.
func (cv *CircuitVisual) WireY(q int) float64 {
	return cv.Offset.Y - float64(q)*cv.WireSpacing
}

// Bounds covers wires, labels and every gate slot.
func (cv *CircuitVisual) Bounds() Bounds {
	n := cv.Circuit.NumQubits()
	left := cv.Offset.X - cv.WireLength/2 - 0.15 - cv.labelWidth()
	return Bounds{
		Min: Vec{left, cv.WireY(n-1) - 0.25},
		Max: Vec{cv.Offset.X + cv.WireLength/2, cv.WireY(0) + 0.25},
	}
}

// MoveTo shifts the diagram so its bounds are centred on p.
func (cv *CircuitVisual) MoveTo(p Vec) {
	cv.Offset = cv.Offset.Add(p.Sub(cv.Bounds().Center()))
}

func (cv *CircuitVisual) labelWidth() float64 {
	return NewText("", qubitLabel(cv.Circuit.NumQubits()-1), Origin, 18, White).TextWidth()
}

func qubitLabel(q int) string { return fmt.Sprintf("|q%d>", q) }

// Wires returns the wires, addressed as ID/wires.
func (cv *CircuitVisual) Wires() Widget {
	id := cv.ID + "/wires"
	w := Widget{ID: id}
	for q := range cv.Circuit.NumQubits() {
		y := cv.WireY(q)
		w.Elements = append(w.Elements, NewLine(fmt.Sprintf("%s/%d", id, q),
			Vec{cv.Offset.X - cv.WireLength/2, y}, Vec{cv.Offset.X + cv.WireLength/2, y}))
	}
	return w
}

// Labels returns the ket labels left of each wire, addressed as ID/labels.
func (cv *CircuitVisual) Labels() Widget {
	id := cv.ID + "/labels"
	w := Widget{ID: id}
	for q := range cv.Circuit.NumQubits() {
		l := NewText(fmt.Sprintf("%s/%d", id, q), qubitLabel(q), Vec{}, 18, White)
		l = l.Shift(Vec{cv.Offset.X - cv.WireLength/2 - 0.15 - l.TextWidth()/2, cv.WireY(q)})
		w.Elements = append(w.Elements, l)
	}
	return w
}

// GateID is the target that addresses the glyph in a slot.
func (cv *CircuitVisual) GateID(slot int) string { return fmt.Sprintf("%s/gates/%d", cv.ID, slot) }

// AddGate draws g in the next free slot.
func (cv *CircuitVisual) AddGate(g circuit.Gate) Widget {
	slot := cv.slot
	cv.slot++
	id := cv.GateID(slot)
	x := cv.SlotX(slot)

	var els []Element
	switch g.Kind {
	case circuit.KindCX:
		cy, ty := cv.WireY(g.Qubits[0]), cv.WireY(g.Qubits[1])
		t := Vec{x, ty}
		els = []Element{
			NewLine(id+"/link", Vec{x, cy}, t),
			NewDot(id+"/control", Vec{x, cy}, 0.07, White),
			NewCircle(id+"/target", t, 0.12),
			NewLine(id+"/h", t.Add(Vec{-0.08, 0}), t.Add(Vec{0.08, 0})),
			NewLine(id+"/v", t.Add(Vec{0, -0.08}), t.Add(Vec{0, 0.08})),
		}
	case circuit.KindCZ:
		cy, ty := cv.WireY(g.Qubits[0]), cv.WireY(g.Qubits[1])
		els = []Element{
			NewLine(id+"/link", Vec{x, cy}, Vec{x, ty}),
			NewDot(id+"/control", Vec{x, cy}, 0.07, White),
			NewDot(id+"/target", Vec{x, ty}, 0.07, White),
		}
	case circuit.KindMeasure:
		els = measureGlyph(id, Vec{x, cv.WireY(g.Qubits[0])})
	default:
		label := "?"
		if g.IsSingleQubit() {
			label = g.Kind.String()
		}
		els = boxGlyph(id, Vec{x, cv.WireY(g.Qubits[0])}, label)
	}
	return Widget{ID: id, Elements: els}.WithZ(5)
}

// AddAll draws every gate of the circuit in order.
func (cv *CircuitVisual) AddAll() []Widget {
	ws := make([]Widget, 0, cv.Circuit.Len())
	for _, g := range cv.Circuit.All() {
		ws = append(ws, cv.AddGate(g))
	}
	return ws
}

func boxGlyph(id string, at Vec, label string) []Element {
	return []Element{
		NewRect(id+"/box", at, 0.4, 0.4).WithFill(Black),
		NewText(id+"/label", label, at, 16, White),
	}
}

func measureGlyph(id string, at Vec) []Element {
	arc := make([]Vec, 13)
	c := at.Add(Vec{0, -0.02})
	for i := range arc {
		a := math.Pi * float64(i) / float64(len(arc)-1)
		arc[i] = c.Add(Vec{0.1 * math.Cos(math.Pi-a), 0.1 * math.Sin(math.Pi-a)})
	}
	return []Element{
		NewRect(id+"/box", at, 0.4, 0.4).WithFill(Black),
		NewPolyline(id+"/arc", arc...),
		NewLine(id+"/needle", c, c.Add(Vec{0.06, 0.1})),
	}
}
