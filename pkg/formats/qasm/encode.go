package qasm

import (
	"fmt"
	"strings"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/formats"
)

// Encode writes c as OpenQASM 2.0 over a single register q. A classical
// register c of the same width is declared when the circuit measures.
func (Format) Encode(c *circuit.Circuit) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "// %s\n", c.Name())
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.NumQubits())
	if c.HasMeasurement() {
		fmt.Fprintf(&sb, "creg c[%d];\n", c.NumQubits())
	}
	sb.WriteString("\n")

	for _, g := range c.All() {
		if g.IsMeasure() {
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", g.Qubits[0], g.Qubits[0])
			continue
		}
		sb.WriteString(strings.ToLower(g.Kind.String()))
		if g.Kind.IsRotation() {
			fmt.Fprintf(&sb, "(%s)", formats.FormatAngle(g.Angle))
		}
		for i, q := range g.Qubits {
			if i == 0 {
				sb.WriteByte(' ')
			} else {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "q[%d]", q)
		}
		sb.WriteString(";\n")
	}
	return []byte(sb.String()), nil
}
