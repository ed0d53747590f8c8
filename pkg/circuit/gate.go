package circuit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/qrying/stackreel/pkg/errors"
)

// GateKind identifies one member of the closed gate set.
type GateKind uint8

const (
	KindH GateKind = iota + 1
	KindX
	KindY
	KindZ
	KindS
	KindT
	KindRX
	KindRY
	KindRZ
	KindCX
	KindCZ
	KindSWAP
	KindCCX
	KindMeasure
)

// Kinds lists every gate kind in declaration order.
var Kinds = []GateKind{
	KindH, KindX, KindY, KindZ, KindS, KindT,
	KindRX, KindRY, KindRZ,
	KindCX, KindCZ, KindSWAP, KindCCX,
	KindMeasure,
}

var kindNames = map[GateKind]string{
	KindH:       "H",
	KindX:       "X",
	KindY:       "Y",
	KindZ:       "Z",
	KindS:       "S",
	KindT:       "T",
	KindRX:      "RX",
	KindRY:      "RY",
	KindRZ:      "RZ",
	KindCX:      "CX",
	KindCZ:      "CZ",
	KindSWAP:    "SWAP",
	KindCCX:     "CCX",
	KindMeasure: "M",
}

// kindAliases maps accepted spellings (upper case) to kinds.
var kindAliases = map[string]GateKind{
	"CNOT":    KindCX,
	"TOFFOLI": KindCCX,
	"MEASURE": KindMeasure,
}

// String returns the short upper-case name of the kind, "M" for MEASURE.
func (k GateKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "GateKind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is a member of the gate set.
func (k GateKind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Arity returns the number of qubits a gate of this kind acts on, or 0 for an
// invalid kind.
func (k GateKind) Arity() int {
	switch k {
	case KindH, KindX, KindY, KindZ, KindS, KindT, KindRX, KindRY, KindRZ, KindMeasure:
		return 1
	case KindCX, KindCZ, KindSWAP:
		return 2
	case KindCCX:
		return 3
	default:
		return 0
	}
}

// IsRotation reports whether the kind carries an angle.
func (k GateKind) IsRotation() bool {
	return k == KindRX || k == KindRY || k == KindRZ
}

// ParseGateKind parses a gate name case-insensitively. Besides the canonical
// names it accepts MEASURE, CNOT and TOFFOLI.
func ParseGateKind(s string) (GateKind, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return 0, errors.New(errors.ErrCodeUnsupportedGate, "unknown gate %q", s)
}

// Gate is a single gate record. Qubits holds exactly Kind.Arity() indices;
// for CX and CCX the target is the last index. Angle is only meaningful for
// the rotation kinds and is expressed in radians.
type Gate struct {
	Kind   GateKind
	Qubits []int
	Angle  float64
}

// NewGate returns a gate of kind k on the given qubits. It does not validate;
// validation happens when the gate is appended to a [Circuit].
func NewGate(k GateKind, qubits ...int) Gate {
	return Gate{Kind: k, Qubits: qubits}
}

// IsSingleQubit reports whether the gate acts on one qubit. MEASURE counts.
func (g Gate) IsSingleQubit() bool { return len(g.Qubits) == 1 }

// IsTwoQubit reports whether the gate acts on two qubits.
func (g Gate) IsTwoQubit() bool { return len(g.Qubits) == 2 }

// IsThreeQubit reports whether the gate acts on three qubits.
func (g Gate) IsThreeQubit() bool { return len(g.Qubits) == 3 }

// IsMeasure reports whether the gate is a measurement marker.
func (g Gate) IsMeasure() bool { return g.Kind == KindMeasure }

// Touches reports whether the gate acts on qubit q.
func (g Gate) Touches(q int) bool {
	for _, x := range g.Qubits {
		if x == q {
			return true
		}
	}
	return false
}

// String renders the gate as e.g. "CX(0,1)" or "RZ(0.785)(2)".
func (g Gate) String() string {
	var b strings.Builder
	b.WriteString(g.Kind.String())
	if g.Kind.IsRotation() {
		fmt.Fprintf(&b, "(%s)", strconv.FormatFloat(g.Angle, 'g', 4, 64))
	}
	b.WriteByte('(')
	for i, q := range g.Qubits {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(q))
	}
	b.WriteByte(')')
	return b.String()
}

// Equal reports whether two gates have the same kind, qubits and angle.
func (g Gate) Equal(o Gate) bool {
	if g.Kind != o.Kind || g.Angle != o.Angle || len(g.Qubits) != len(o.Qubits) {
		return false
	}
	for i := range g.Qubits {
		if g.Qubits[i] != o.Qubits[i] {
			return false
		}
	}
	return true
}

func (g Gate) clone() Gate {
	g.Qubits = append([]int(nil), g.Qubits...)
	return g
}
