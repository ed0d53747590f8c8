package circuit

// Builder wraps a [Circuit] in a chaining API. The first failing call is
// remembered and every later call becomes a no-op.
type Builder struct {
	c   *Circuit
	err error
}

// NewBuilder starts a builder for a circuit of numQubits qubits.
func NewBuilder(numQubits int, name string) *Builder {
	c, err := New(numQubits, name)
	return &Builder{c: c, err: err}
}

func (b *Builder) do(f func(*Circuit) error) *Builder {
	if b.err == nil {
		b.err = f(b.c)
	}
	return b
}

// H appends a Hadamard on q.
func (b *Builder) H(q int) *Builder { return b.do(func(c *Circuit) error { return c.H(q) }) }

// X appends a Pauli-X on q.
func (b *Builder) X(q int) *Builder { return b.do(func(c *Circuit) error { return c.X(q) }) }

// Y appends a Pauli-Y on q.
func (b *Builder) Y(q int) *Builder { return b.do(func(c *Circuit) error { return c.Y(q) }) }

// Z appends a Pauli-Z on q.
func (b *Builder) Z(q int) *Builder { return b.do(func(c *Circuit) error { return c.Z(q) }) }

// S appends a phase gate on q.
func (b *Builder) S(q int) *Builder { return b.do(func(c *Circuit) error { return c.S(q) }) }

// T appends a T gate on q.
func (b *Builder) T(q int) *Builder { return b.do(func(c *Circuit) error { return c.T(q) }) }

// RX appends an X rotation by angle radians.
func (b *Builder) RX(q int, angle float64) *Builder {
	return b.do(func(c *Circuit) error { return c.RX(q, angle) })
}

// RY appends a Y rotation by angle radians.
func (b *Builder) RY(q int, angle float64) *Builder {
	return b.do(func(c *Circuit) error { return c.RY(q, angle) })
}

// RZ appends a Z rotation by angle radians.
func (b *Builder) RZ(q int, angle float64) *Builder {
	return b.do(func(c *Circuit) error { return c.RZ(q, angle) })
}

// CX appends a controlled-X.
func (b *Builder) CX(control, target int) *Builder {
	return b.do(func(c *Circuit) error { return c.CX(control, target) })
}

// CNOT is an alias for [Builder.CX].
func (b *Builder) CNOT(control, target int) *Builder { return b.CX(control, target) }

// CZ appends a controlled-Z.
func (b *Builder) CZ(a, q int) *Builder {
	return b.do(func(c *Circuit) error { return c.CZ(a, q) })
}

// SWAP exchanges two qubits.
func (b *Builder) SWAP(a, q int) *Builder {
	return b.do(func(c *Circuit) error { return c.SWAP(a, q) })
}

// CCX appends a Toffoli.
func (b *Builder) CCX(c1, c2, target int) *Builder {
	return b.do(func(c *Circuit) error { return c.CCX(c1, c2, target) })
}

// Measure appends a measurement of q.
func (b *Builder) Measure(q int) *Builder {
	return b.do(func(c *Circuit) error { return c.Measure(q) })
}

// MeasureAll appends one measurement per qubit.
func (b *Builder) MeasureAll() *Builder {
	return b.do(func(c *Circuit) error { return c.MeasureAll() })
}

// Append adds an arbitrary gate.
func (b *Builder) Append(g Gate) *Builder {
	return b.do(func(c *Circuit) error { return c.Append(g) })
}

// Err returns the first error recorded so far.
func (b *Builder) Err() error { return b.err }

// Build returns the circuit, or the first error and no circuit.
func (b *Builder) Build() (*Circuit, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.c, nil
}

// MustBuild is like Build but panics on error. It is meant for the
// hard-coded demo circuits.
func (b *Builder) MustBuild() *Circuit {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
