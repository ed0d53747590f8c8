// Package native implements stackreel's own circuit documents.
//
// A document names the circuit, declares its width and lists one operation
// per string:
//
//	name: GHZ State
//	qubits: 3
//	ops:
//	  - h 0
//	  - cx 0 1
//	  - rz pi/4 2
//	  - measure_all
//
// The same shape is accepted as JSON, YAML and TOML. Operation strings are a
// gate name (any spelling [circuit.ParseGateKind] accepts), an angle for the
// rotation gates and the qubit indices, separated by spaces or commas.
// "measure_all" measures every qubit.
package native

import (
	"strconv"
	"strings"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/formats"
)

// Document is the decoded form shared by every encoding.
type Document struct {
	Name   string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Qubits int      `json:"qubits" yaml:"qubits" toml:"qubits"`
	Ops    []string `json:"ops" yaml:"ops" toml:"ops"`
}

// MeasureAll is the operation string that measures every qubit.
const MeasureAll = "measure_all"

// Circuit builds the circuit the document describes. name overrides the
// document's own name when non-empty.
func (d Document) Circuit(name string) (*circuit.Circuit, error) {
	if name == "" {
		name = d.Name
	}
	c, err := circuit.New(d.Qubits, name)
	if err != nil {
		return nil, err
	}
	for i, op := range d.Ops {
		if err := apply(c, op); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "op %d %q", i+1, op)
		}
	}
	return c, nil
}

func apply(c *circuit.Circuit, op string) error {
	fields := strings.Fields(strings.ReplaceAll(op, ",", " "))
	if len(fields) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "empty operation")
	}
	if strings.EqualFold(fields[0], MeasureAll) {
		if len(fields) != 1 {
			return errors.New(errors.ErrCodeInvalidFormat, "%s takes no arguments", MeasureAll)
		}
		return c.MeasureAll()
	}

	kind, err := circuit.ParseGateKind(fields[0])
	if err != nil {
		return err
	}
	args := fields[1:]

	g := circuit.Gate{Kind: kind}
	if kind.IsRotation() {
		if len(args) == 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "%s needs an angle", kind)
		}
		angle, err := formats.Eval(args[0], nil)
		if err != nil {
			return err
		}
		g.Angle = angle
		args = args[1:]
	}
	for _, a := range args {
		q, err := strconv.Atoi(a)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidFormat, "bad qubit index %q", a)
		}
		g.Qubits = append(g.Qubits, q)
	}
	return c.Append(g)
}

// FromCircuit converts c into a document. A trailing run of measurements
// over every qubit in order is written as measure_all.
func FromCircuit(c *circuit.Circuit) Document {
	gates := c.Gates()
	n := c.NumQubits()

	tail := 0
	if len(gates) >= n {
		tail = n
		for i, g := range gates[len(gates)-n:] {
			if !g.IsMeasure() || g.Qubits[0] != i {
				tail = 0
				break
			}
		}
	}

	doc := Document{Name: c.Name(), Qubits: n, Ops: make([]string, 0, len(gates)-tail+1)}
	for _, g := range gates[:len(gates)-tail] {
		doc.Ops = append(doc.Ops, FormatOp(g))
	}
	if tail > 0 {
		doc.Ops = append(doc.Ops, MeasureAll)
	}
	return doc
}

// FormatOp renders one gate as an operation string.
func FormatOp(g circuit.Gate) string {
	parts := []string{strings.ToLower(g.Kind.String())}
	if g.IsMeasure() {
		parts[0] = "measure"
	}
	if g.Kind.IsRotation() {
		parts = append(parts, formats.FormatAngle(g.Angle))
	}
	for _, q := range g.Qubits {
		parts = append(parts, strconv.Itoa(q))
	}
	return strings.Join(parts, " ")
}
