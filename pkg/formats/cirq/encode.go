package cirq

import (
	"encoding/json"
	"fmt"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
)

type outCircuit struct {
	CirqType string      `json:"cirq_type"`
	Moments  []outMoment `json:"moments"`
}

type outMoment struct {
	CirqType   string         `json:"cirq_type"`
	Operations []outOperation `json:"operations"`
}

type outOperation struct {
	CirqType string     `json:"cirq_type"`
	Gate     any        `json:"gate"`
	Qubits   []outQubit `json:"qubits"`
}

type outQubit struct {
	CirqType string `json:"cirq_type"`
	X        int    `json:"x"`
}

type powGate struct {
	CirqType    string  `json:"cirq_type"`
	Exponent    float64 `json:"exponent"`
	GlobalShift float64 `json:"global_shift"`
}

type rotGate struct {
	CirqType string  `json:"cirq_type"`
	Rads     float64 `json:"rads"`
}

type measurementGate struct {
	CirqType   string `json:"cirq_type"`
	NumQubits  int    `json:"num_qubits"`
	Key        string `json:"key"`
	InvertMask []bool `json:"invert_mask"`
	QidShape   []int  `json:"qid_shape"`
}

var powNames = map[circuit.GateKind]struct {
	name string
	exp  float64
}{
	circuit.KindH:    {"HPowGate", 1},
	circuit.KindX:    {"XPowGate", 1},
	circuit.KindY:    {"YPowGate", 1},
	circuit.KindZ:    {"ZPowGate", 1},
	circuit.KindS:    {"ZPowGate", 0.5},
	circuit.KindT:    {"ZPowGate", 0.25},
	circuit.KindCX:   {"CXPowGate", 1},
	circuit.KindCZ:   {"CZPowGate", 1},
	circuit.KindSWAP: {"SwapPowGate", 1},
	circuit.KindCCX:  {"CCXPowGate", 1},
}

var rotNames = map[circuit.GateKind]string{
	circuit.KindRX: "Rx",
	circuit.KindRY: "Ry",
	circuit.KindRZ: "Rz",
}

// Encode writes c as a Cirq JSON circuit over LineQubits, one moment per
// gate so that gate order survives a round trip.
func (Format) Encode(c *circuit.Circuit) ([]byte, error) {
	out := outCircuit{CirqType: "Circuit", Moments: []outMoment{}}
	for _, g := range c.All() {
		op := outOperation{CirqType: "GateOperation"}
		for _, q := range g.Qubits {
			op.Qubits = append(op.Qubits, outQubit{CirqType: "LineQubit", X: q})
		}

		switch {
		case g.IsMeasure():
			q := g.Qubits[0]
			op.Gate = measurementGate{
				CirqType:   "MeasurementGate",
				NumQubits:  1,
				Key:        fmt.Sprintf("q(%d)", q),
				InvertMask: []bool{},
				QidShape:   []int{2},
			}
		case g.Kind.IsRotation():
			op.Gate = rotGate{CirqType: rotNames[g.Kind], Rads: g.Angle}
		default:
			p, ok := powNames[g.Kind]
			if !ok {
				return nil, errors.New(errors.ErrCodeUnsupportedGate, "cirq: cannot encode %s", g.Kind)
			}
			op.Gate = powGate{CirqType: p.name, Exponent: p.exp}
		}

		out.Moments = append(out.Moments, outMoment{CirqType: "Moment", Operations: []outOperation{op}})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "cirq: encode")
	}
	return append(data, '\n'), nil
}
