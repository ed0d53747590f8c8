package cirq

import (
	"math"
	"slices"
	"testing"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
)

func line(x int) string {
	return `{"cirq_type": "LineQubit", "x": ` + string(rune('0'+x)) + `}`
}

func op(gate string, qubits ...string) string {
	q := ""
	for i, s := range qubits {
		if i > 0 {
			q += ", "
		}
		q += s
	}
	return `{"cirq_type": "GateOperation", "gate": ` + gate + `, "qubits": [` + q + `]}`
}

func doc(ops ...string) []byte {
	s := `{"cirq_type": "Circuit", "moments": [`
	for i, o := range ops {
		if i > 0 {
			s += ", "
		}
		s += `{"cirq_type": "Moment", "operations": [` + o + `]}`
	}
	return []byte(s + `]}`)
}

const (
	hGate    = `{"cirq_type": "HPowGate", "exponent": 1.0, "global_shift": 0.0}`
	cnotGate = `{"cirq_type": "CXPowGate", "exponent": 1.0, "global_shift": 0.0}`
	czGate   = `{"cirq_type": "CZPowGate", "exponent": 1, "global_shift": 0.0}`
	sGate    = `{"cirq_type": "ZPowGate", "exponent": 0.5, "global_shift": 0.0}`
	tGate    = `{"cirq_type": "ZPowGate", "exponent": 0.25, "global_shift": 0.0}`
	rxGate   = `{"cirq_type": "Rx", "rads": 0.5}`
	measure2 = `{"cirq_type": "MeasurementGate", "num_qubits": 2, "key": "m", "invert_mask": []}`
)

func gateStrings(c *circuit.Circuit) []string {
	var out []string
	for _, g := range c.All() {
		out = append(out, g.String())
	}
	return out
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		qubits int
		want   []string
	}{
		{
			name:   "bell",
			data:   doc(op(hGate, line(0)), op(cnotGate, line(0), line(1)), op(measure2, line(0), line(1))),
			qubits: 2,
			want:   []string{"H(0)", "CX(0,1)", "M(0)", "M(1)"},
		},
		{
			name:   "two-qubit gate keeps kind and order of indices",
			data:   doc(op(czGate, line(2), line(1))),
			qubits: 2,
			want:   []string{"CZ(1,0)"},
		},
		{
			name:   "phase gates",
			data:   doc(op(sGate, line(0)), op(tGate, line(0))),
			qubits: 1,
			want:   []string{"S(0)", "T(0)"},
		},
		{
			name:   "rotation",
			data:   doc(op(rxGate, line(0))),
			qubits: 1,
			want:   []string{"RX(0.5)(0)"},
		},
		{
			name: "grid qubits sorted by row then col",
			data: doc(op(cnotGate,
				`{"cirq_type": "GridQubit", "row": 1, "col": 0}`,
				`{"cirq_type": "GridQubit", "row": 0, "col": 3}`)),
			qubits: 2,
			want:   []string{"CX(1,0)"},
		},
		{
			name: "named qubits in natural order",
			data: doc(op(cnotGate,
				`{"cirq_type": "NamedQubit", "name": "q10"}`,
				`{"cirq_type": "NamedQubit", "name": "q9"}`)),
			qubits: 2,
			want:   []string{"CX(1,0)"},
		},
		{
			name: "tagged operation",
			data: doc(`{"cirq_type": "TaggedOperation", "sub_operation": ` + op(hGate, line(0)) + `, "tags": []}`),
			qubits: 1,
			want:   []string{"H(0)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Format{}.Decode(tt.data, "")
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if c.NumQubits() != tt.qubits {
				t.Errorf("NumQubits() = %d, want %d", c.NumQubits(), tt.qubits)
			}
			if got := gateStrings(c); !slices.Equal(got, tt.want) {
				t.Errorf("gates = %v, want %v", got, tt.want)
			}
			if c.Name() != DefaultName {
				t.Errorf("Name() = %q, want %q", c.Name(), DefaultName)
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		code errors.Code
	}{
		{
			name: "unknown gate type",
			data: doc(op(hGate, line(0)), op(`{"cirq_type": "FSimGate", "theta": 0.1, "phi": 0.2}`, line(0), line(1))),
			code: errors.ErrCodeUnsupportedGate,
		},
		{
			name: "fractional exponent",
			data: doc(op(`{"cirq_type": "XPowGate", "exponent": 0.5, "global_shift": 0.0}`, line(0))),
			code: errors.ErrCodeUnsupportedGate,
		},
		{
			name: "symbolic exponent",
			data: doc(op(`{"cirq_type": "ZPowGate", "exponent": {"cirq_type": "sympy.Symbol", "name": "t"}}`, line(0))),
			code: errors.ErrCodeUnsupportedGate,
		},
		{
			name: "operation without gate",
			data: doc(`{"cirq_type": "CircuitOperation", "qubits": [` + line(0) + `]}`),
			code: errors.ErrCodeUnsupportedGate,
		},
		{
			name: "not json",
			data: []byte("OPENQASM 2.0;"),
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "not a circuit",
			data: []byte(`{"cirq_type": "Moment", "operations": []}`),
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "empty circuit",
			data: doc(),
			code: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Format{}.Decode(tt.data, "x")
			if !errors.Is(err, tt.code) {
				t.Fatalf("Decode() error = %v, want code %s", err, tt.code)
			}
			if c != nil {
				t.Errorf("Decode() returned a partial circuit")
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	orig := circuit.NewBuilder(3, "Mixed").
		H(0).S(1).T(2).RZ(1, math.Pi/3).
		CX(0, 1).CZ(1, 2).SWAP(0, 2).CCX(0, 1, 2).
		MeasureAll().
		MustBuild()

	data, err := Format{}.Encode(orig)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !(Format{}).Sniff(data) {
		t.Error("Sniff() = false for encoded output")
	}

	back, err := Format{}.Decode(data, "Mixed")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !slices.EqualFunc(orig.Gates(), back.Gates(), circuit.Gate.Equal) {
		t.Errorf("round trip = %v, want %v", gateStrings(back), gateStrings(orig))
	}
}

func TestSupports(t *testing.T) {
	tests := []struct {
		file string
		want bool
	}{
		{"ghz.cirq.json", true},
		{"ghz.json", true},
		{"ghz.qasm", false},
	}
	for _, tt := range tests {
		if got := (Format{}).Supports(tt.file); got != tt.want {
			t.Errorf("Supports(%q) = %v, want %v", tt.file, got, tt.want)
		}
	}
}
