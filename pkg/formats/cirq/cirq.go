// Package cirq reads and writes circuits serialized with Cirq's JSON protocol
// (cirq.to_json / cirq.read_json).
//
// Qubits are collected from every operation, sorted the way Cirq sorts them
// (by qubit class, then by coordinates or natural name order) and numbered
// 0..n-1. Only gates with an exact counterpart in the circuit model are
// accepted; anything else fails with UNSUPPORTED_GATE.
package cirq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/formats"
)

// DefaultName is used when neither the caller nor the document names the
// circuit.
const DefaultName = "Cirq Circuit"

const exponentTolerance = 1e-9

// Format implements [formats.Encoder] for Cirq JSON.
type Format struct{}

// Name returns "cirq".
func (Format) Name() string { return "cirq" }

// Supports matches *.cirq.json and *.json. Plain .json files are claimed only
// when [Format.Sniff] recognizes the content.
func (Format) Supports(filename string) bool {
	return formats.HasExt(filename, ".cirq.json", ".cirq", ".json")
}

// Sniff reports whether data looks like a Cirq JSON document.
func (Format) Sniff(data []byte) bool {
	return bytes.Contains(data, []byte(`"cirq_type"`))
}

// Extension returns ".cirq.json".
func (Format) Extension() string { return ".cirq.json" }

type object struct {
	CirqType     string          `json:"cirq_type"`
	Moments      []object        `json:"moments,omitempty"`
	Operations   []object        `json:"operations,omitempty"`
	Gate         *object         `json:"gate,omitempty"`
	Qubits       []object        `json:"qubits,omitempty"`
	SubOperation *object         `json:"sub_operation,omitempty"`
	Exponent     json.RawMessage `json:"exponent,omitempty"`
	GlobalShift  *float64        `json:"global_shift,omitempty"`
	Rads         json.RawMessage `json:"rads,omitempty"`
	NumQubits    int             `json:"num_qubits,omitempty"`
	Key          string          `json:"key,omitempty"`
	InvertMask   []bool          `json:"invert_mask,omitempty"`
	X            *int            `json:"x,omitempty"`
	Row          *int            `json:"row,omitempty"`
	Col          *int            `json:"col,omitempty"`
	QubitName    string          `json:"name,omitempty"`
}

// Decode parses a Cirq JSON circuit.
func (Format) Decode(data []byte, name string) (*circuit.Circuit, error) {
	var root object
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "cirq: parse JSON")
	}
	if root.CirqType != "Circuit" && root.CirqType != "FrozenCircuit" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cirq: expected a Circuit, got %q", root.CirqType)
	}

	var ops []object
	for _, m := range root.Moments {
		for _, op := range m.Operations {
			op, err := unwrap(op)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}

	index, err := indexQubits(ops)
	if err != nil {
		return nil, err
	}
	if len(index) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cirq: circuit acts on no qubits")
	}

	if name == "" {
		name = DefaultName
	}
	c, err := circuit.New(len(index), name)
	if err != nil {
		return nil, err
	}

	for _, op := range ops {
		qubits := make([]int, len(op.Qubits))
		for i, q := range op.Qubits {
			qubits[i] = index[qubitKey(q)]
		}
		gates, err := convert(*op.Gate, qubits)
		if err != nil {
			return nil, err
		}
		for _, g := range gates {
			if err := c.Append(g); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// unwrap strips tags and checks that the operation carries a gate.
func unwrap(op object) (object, error) {
	for op.CirqType == "TaggedOperation" && op.SubOperation != nil {
		op = *op.SubOperation
	}
	if op.Gate == nil {
		kind := op.CirqType
		if kind == "" {
			kind = "operation"
		}
		return op, formats.Unsupported("cirq", kind+" without a gate")
	}
	return op, nil
}

func convert(g object, qubits []int) ([]circuit.Gate, error) {
	one := func(k circuit.GateKind) ([]circuit.Gate, error) {
		return []circuit.Gate{{Kind: k, Qubits: qubits}}, nil
	}
	rot := func(k circuit.GateKind) ([]circuit.Gate, error) {
		if len(g.Rads) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "cirq: %s without rads", g.CirqType)
		}
		rads, err := number(g.Rads)
		if err != nil {
			return nil, formats.Unsupported("cirq", fmt.Sprintf("%s with symbolic angle", g.CirqType))
		}
		return []circuit.Gate{{Kind: k, Qubits: qubits, Angle: rads}}, nil
	}

	exp, expErr := number(g.Exponent)
	is := func(want float64) bool { return expErr == nil && math.Abs(exp-want) < exponentTolerance }

	switch g.CirqType {
	case "HPowGate":
		if is(1) {
			return one(circuit.KindH)
		}
	case "XPowGate":
		if is(1) {
			return one(circuit.KindX)
		}
	case "YPowGate":
		if is(1) {
			return one(circuit.KindY)
		}
	case "ZPowGate":
		switch {
		case is(1):
			return one(circuit.KindZ)
		case is(0.5):
			return one(circuit.KindS)
		case is(0.25):
			return one(circuit.KindT)
		}
	case "Rx":
		return rot(circuit.KindRX)
	case "Ry":
		return rot(circuit.KindRY)
	case "Rz":
		return rot(circuit.KindRZ)
	case "CXPowGate", "CNotPowGate":
		if is(1) {
			return one(circuit.KindCX)
		}
	case "CZPowGate":
		if is(1) {
			return one(circuit.KindCZ)
		}
	case "SwapPowGate":
		if is(1) {
			return one(circuit.KindSWAP)
		}
	case "CCXPowGate", "CCNotPowGate":
		if is(1) {
			return one(circuit.KindCCX)
		}
	case "MeasurementGate":
		out := make([]circuit.Gate, len(qubits))
		for i, q := range qubits {
			out[i] = circuit.NewGate(circuit.KindMeasure, q)
		}
		return out, nil
	default:
		return nil, formats.Unsupported("cirq", g.CirqType)
	}

	if expErr != nil {
		return nil, formats.Unsupported("cirq", fmt.Sprintf("%s with symbolic exponent", g.CirqType))
	}
	return nil, formats.Unsupported("cirq", fmt.Sprintf("%s**%s", g.CirqType, formats.FormatAngle(exp)))
}

// number decodes a JSON number. Symbolic values (sympy objects) fail.
func number(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 1, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	return f, nil
}

// qubitID identifies a qubit for sorting and lookup.
type qubitID struct {
	class    string
	row, col int
	name     string
}

func qubitKey(q object) qubitID {
	id := qubitID{class: q.CirqType, name: q.QubitName}
	switch q.CirqType {
	case "LineQubit":
		if q.X != nil {
			id.row = *q.X
		}
	case "GridQubit":
		if q.Row != nil {
			id.row = *q.Row
		}
		if q.Col != nil {
			id.col = *q.Col
		}
	}
	return id
}

func indexQubits(ops []object) (map[qubitID]int, error) {
	seen := map[qubitID]bool{}
	var ids []qubitID
	for _, op := range ops {
		for _, q := range op.Qubits {
			switch q.CirqType {
			case "LineQubit", "GridQubit", "NamedQubit":
			default:
				return nil, errors.New(errors.ErrCodeInvalidFormat, "cirq: unsupported qubit type %q", q.CirqType)
			}
			id := qubitKey(q)
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	slices.SortFunc(ids, compareQubits)
	index := make(map[qubitID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return index, nil
}

// compareQubits orders qubits by class name first, as Cirq does, then by
// coordinates or by name with embedded numbers compared numerically.
func compareQubits(a, b qubitID) int {
	if c := strings.Compare(a.class, b.class); c != 0 {
		return c
	}
	if a.row != b.row {
		return a.row - b.row
	}
	if a.col != b.col {
		return a.col - b.col
	}
	return naturalCompare(a.name, b.name)
}

func naturalCompare(a, b string) int {
	for a != "" && b != "" {
		da, ra := splitDigits(a)
		db, rb := splitDigits(b)
		if da != "" && db != "" {
			na := strings.TrimLeft(da, "0")
			nb := strings.TrimLeft(db, "0")
			if len(na) != len(nb) {
				return len(na) - len(nb)
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			a, b = ra, rb
			continue
		}
		if a[0] != b[0] {
			return int(a[0]) - int(b[0])
		}
		a, b = a[1:], b[1:]
	}
	return len(a) - len(b)
}

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i], s[i:]
}
