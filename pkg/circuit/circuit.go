package circuit

import (
	"iter"
	"math"

	"github.com/qrying/stackreel/pkg/errors"
)

// DefaultName is used when a circuit is created without a name.
const DefaultName = "Quantum Circuit"

// MaxQubits bounds the register size of any circuit.
const MaxQubits = 64

// Circuit is an ordered, append-only sequence of gates over a fixed number of
// qubits.
//
// The zero value is not usable - use [New] to create a Circuit.
type Circuit struct {
	numQubits int
	name      string
	gates     []Gate
	sealed    bool
}

// New creates an empty circuit over numQubits qubits. It fails with
// INVALID_INPUT if numQubits is outside [1, MaxQubits]. An empty name becomes
// [DefaultName].
func New(numQubits int, name string) (*Circuit, error) {
	if numQubits < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "circuit needs at least one qubit, got %d", numQubits)
	}
	if numQubits > MaxQubits {
		return nil, errors.New(errors.ErrCodeInvalidInput, "circuit has %d qubits, at most %d are supported", numQubits, MaxQubits)
	}
	if err := errors.ValidateCircuitName(name); err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultName
	}
	return &Circuit{numQubits: numQubits, name: name}, nil
}

// NumQubits returns the declared qubit count.
func (c *Circuit) NumQubits() int { return c.numQubits }

// Name returns the display name.
func (c *Circuit) Name() string { return c.name }

// Len returns the number of gate records, measurements included.
func (c *Circuit) Len() int { return len(c.gates) }

// Sealed reports whether the circuit has been sealed.
func (c *Circuit) Sealed() bool { return c.sealed }

// Seal freezes the circuit. Subsequent appends fail with CIRCUIT_SEALED.
// Sealing twice is a no-op.
func (c *Circuit) Seal() { c.sealed = true }

// Gates returns a copy of the gate sequence in insertion order.
func (c *Circuit) Gates() []Gate {
	out := make([]Gate, len(c.gates))
	for i, g := range c.gates {
		out[i] = g.clone()
	}
	return out
}

// Gate returns the i-th gate. It panics if i is out of range, like a slice
// index.
func (c *Circuit) Gate(i int) Gate { return c.gates[i].clone() }

// All iterates over the gate sequence in insertion order.
func (c *Circuit) All() iter.Seq2[int, Gate] {
	return func(yield func(int, Gate) bool) {
		for i, g := range c.gates {
			if !yield(i, g.clone()) {
				return
			}
		}
	}
}

// Clone returns an unsealed deep copy.
func (c *Circuit) Clone() *Circuit {
	return &Circuit{
		numQubits: c.numQubits,
		name:      c.name,
		gates:     c.Gates(),
	}
}

// Append validates g and appends it. On failure the gate sequence is left
// unchanged.
func (c *Circuit) Append(g Gate) error {
	if c.sealed {
		return errors.New(errors.ErrCodeCircuitSealed, "circuit %q is sealed", c.name)
	}
	if err := c.validate(g); err != nil {
		return err
	}
	c.gates = append(c.gates, g.clone())
	return nil
}

func (c *Circuit) validate(g Gate) error {
	if !g.Kind.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid gate kind %d", g.Kind)
	}
	if want := g.Kind.Arity(); len(g.Qubits) != want {
		return errors.New(errors.ErrCodeInvalidInput, "%s takes %d qubit(s), got %d", g.Kind, want, len(g.Qubits))
	}
	for _, q := range g.Qubits {
		if q < 0 || q >= c.numQubits {
			return errors.New(errors.ErrCodeQubitOutOfRange, "%s: qubit %d out of range [0, %d)", g.Kind, q, c.numQubits)
		}
	}
	for i := range g.Qubits {
		for j := i + 1; j < len(g.Qubits); j++ {
			if g.Qubits[i] == g.Qubits[j] {
				return errors.New(errors.ErrCodeInvalidInput, "%s: qubit %d used twice", g.Kind, g.Qubits[i])
			}
		}
	}
	if g.Kind.IsRotation() && (math.IsNaN(g.Angle) || math.IsInf(g.Angle, 0)) {
		return errors.New(errors.ErrCodeInvalidInput, "%s: angle must be finite", g.Kind)
	}
	return nil
}

// H appends a Hadamard gate.
func (c *Circuit) H(q int) error { return c.Append(NewGate(KindH, q)) }

// X appends a Pauli-X gate.
func (c *Circuit) X(q int) error { return c.Append(NewGate(KindX, q)) }

// Y appends a Pauli-Y gate.
func (c *Circuit) Y(q int) error { return c.Append(NewGate(KindY, q)) }

// Z appends a Pauli-Z gate.
func (c *Circuit) Z(q int) error { return c.Append(NewGate(KindZ, q)) }

// S appends an S (sqrt Z) gate.
func (c *Circuit) S(q int) error { return c.Append(NewGate(KindS, q)) }

// T appends a T (fourth root of Z) gate.
func (c *Circuit) T(q int) error { return c.Append(NewGate(KindT, q)) }

// RX appends an X rotation by angle radians.
func (c *Circuit) RX(q int, angle float64) error {
	return c.Append(Gate{Kind: KindRX, Qubits: []int{q}, Angle: angle})
}

// RY appends a Y rotation by angle radians.
func (c *Circuit) RY(q int, angle float64) error {
	return c.Append(Gate{Kind: KindRY, Qubits: []int{q}, Angle: angle})
}

// RZ appends a Z rotation by angle radians.
func (c *Circuit) RZ(q int, angle float64) error {
	return c.Append(Gate{Kind: KindRZ, Qubits: []int{q}, Angle: angle})
}

// CX appends a controlled-X with the given control and target.
func (c *Circuit) CX(control, target int) error {
	return c.Append(NewGate(KindCX, control, target))
}

// CNOT is an alias for [Circuit.CX].
func (c *Circuit) CNOT(control, target int) error { return c.CX(control, target) }

// CZ appends a controlled-Z.
func (c *Circuit) CZ(a, b int) error { return c.Append(NewGate(KindCZ, a, b)) }

// SWAP appends a swap.
func (c *Circuit) SWAP(a, b int) error { return c.Append(NewGate(KindSWAP, a, b)) }

// CCX appends a Toffoli gate.
func (c *Circuit) CCX(c1, c2, target int) error {
	return c.Append(NewGate(KindCCX, c1, c2, target))
}

// Measure appends a measurement marker on q.
func (c *Circuit) Measure(q int) error { return c.Append(NewGate(KindMeasure, q)) }

// MeasureAll appends Measure(0) through Measure(n-1) in order.
func (c *Circuit) MeasureAll() error {
	if c.sealed {
		return errors.New(errors.ErrCodeCircuitSealed, "circuit %q is sealed", c.name)
	}
	for q := 0; q < c.numQubits; q++ {
		c.gates = append(c.gates, NewGate(KindMeasure, q))
	}
	return nil
}

// HasMeasurement reports whether any gate is a measurement marker.
func (c *Circuit) HasMeasurement() bool {
	for _, g := range c.gates {
		if g.IsMeasure() {
			return true
		}
	}
	return false
}
