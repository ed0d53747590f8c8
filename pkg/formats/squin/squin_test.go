package squin

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
)

func gateStrings(c *circuit.Circuit) []string {
	var out []string
	for _, g := range c.All() {
		out = append(out, g.String())
	}
	return out
}

const ghzKernel = `from bloqade import squin

@squin.kernel
def ghz_kernel():
    """3-qubit GHZ state: |000> + |111>"""
    q = squin.qalloc(3)
    squin.h(q[0])
    squin.cx(q[0], q[1])  # entangle
    squin.cx(q[1], q[2])
    return squin.measure(q)
`

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantName string
		qubits   int
		want     []string
	}{
		{
			name:     "ghz",
			src:      ghzKernel,
			wantName: "ghz_kernel",
			qubits:   3,
			want:     []string{"H(0)", "CX(0,1)", "CX(1,2)", "M(0)", "M(1)", "M(2)"},
		},
		{
			name: "loop with range bounds",
			src: `@squin.kernel
def chain():
    q = squin.qalloc(4)
    for i in range(4):
        squin.h(q[i])
    for i in range(1, 4):
        squin.cz(q[i - 1], q[i])
`,
			wantName: "chain",
			qubits:   4,
			want:     []string{"H(0)", "H(1)", "H(2)", "H(3)", "CZ(0,1)", "CZ(1,2)", "CZ(2,3)"},
		},
		{
			name: "nested loops and len",
			src: `@squin.kernel
def grid():
    q = squin.qalloc(3)
    for i in range(len(q)):
        for j in range(i + 1, 3):
            squin.cz(q[i], q[j])
    squin.measure(q[2])
`,
			wantName: "grid",
			qubits:   3,
			want:     []string{"CZ(0,1)", "CZ(0,2)", "CZ(1,2)", "M(2)"},
		},
		{
			name: "rotations and multi-line docstring",
			src: `@squin.kernel
def rot():
    """
    Rotations.
    """
    q = squin.qalloc(2)
    squin.rx(0.5, q[0])
    squin.rz(math.pi / 2, q[1])
`,
			wantName: "rot",
			qubits:   2,
			want:     []string{"RX(0.5)(0)", "RZ(1.571)(1)"},
		},
		{
			name: "undecorated function",
			src: `def plain():
	q = squin.qalloc(2)
	squin.cnot(q[0], q[1])
`,
			wantName: "plain",
			qubits:   2,
			want:     []string{"CX(0,1)"},
		},
		{
			name: "code after return is unreachable",
			src: `@squin.kernel
def early():
    q = squin.qalloc(2)
    squin.h(q[0])
    return squin.measure(q)
    squin.x(q[1])
`,
			wantName: "early",
			qubits:   2,
			want:     []string{"H(0)", "M(0)", "M(1)"},
		},
		{
			name: "return inside loop",
			src: `@squin.kernel
def stop():
    q = squin.qalloc(3)
    for i in range(3):
        squin.h(q[i])
        return
    squin.z(q[2])
`,
			wantName: "stop",
			qubits:   3,
			want:     []string{"H(0)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Format{}.Decode([]byte(tt.src), "")
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if c.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", c.Name(), tt.wantName)
			}
			if c.NumQubits() != tt.qubits {
				t.Errorf("NumQubits() = %d, want %d", c.NumQubits(), tt.qubits)
			}
			if got := gateStrings(c); !slices.Equal(got, tt.want) {
				t.Errorf("gates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeNameOverride(t *testing.T) {
	c, err := Format{}.Decode([]byte(ghzKernel), "GHZ State")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if c.Name() != "GHZ State" {
		t.Errorf("Name() = %q, want %q", c.Name(), "GHZ State")
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{
			name: "unknown squin call",
			src:  "def k():\n    q = squin.qalloc(2)\n    squin.u3(0.1, 0.2, 0.3, q[0])\n",
			code: errors.ErrCodeUnsupportedGate,
		},
		{
			name: "index out of range",
			src:  "def k():\n    q = squin.qalloc(2)\n    for i in range(2):\n        squin.cx(q[i], q[i + 1])\n",
			code: errors.ErrCodeQubitOutOfRange,
		},
		{
			name: "gate before alloc",
			src:  "def k():\n    squin.h(q[0])\n",
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "arbitrary python",
			src:  "def k():\n    q = squin.qalloc(2)\n    if True:\n        squin.h(q[0])\n",
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "no function",
			src:  "q = squin.qalloc(2)\n",
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "zero qubits",
			src:  "def k():\n    q = squin.qalloc(0)\n",
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "oversized register",
			src:  "def k():\n    q = squin.qalloc(1000000000000)\n    squin.h(q[0])\n",
			code: errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Format{}.Decode([]byte(tt.src), "")
			if !errors.Is(err, tt.code) {
				t.Fatalf("Decode() error = %v, want code %s", err, tt.code)
			}
			if c != nil {
				t.Error("Decode() returned a partial circuit")
			}
		})
	}
}

func TestSourceMatchesGeneratedKernel(t *testing.T) {
	want := strings.Join([]string{
		"@squin.kernel",
		"def ghz_state():",
		"    q = squin.qalloc(3)",
		"    squin.h(q[0])",
		"    squin.cx(q[0], q[1])",
		"    squin.cx(q[1], q[2])",
		"    return squin.measure(q)",
	}, "\n")
	if got := Source(circuit.GHZ()); got != want {
		t.Errorf("Source() =\n%s\nwant\n%s", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	circuits := []*circuit.Circuit{
		circuit.GHZ(),
		circuit.Bell(),
		circuit.FourQubitStar(),
		circuit.QFTStyle(),
		circuit.Custom(),
		circuit.NewBuilder(3, "Rotations").RX(0, math.Pi/2).RY(1, 0.25).RZ(2, -math.Pi/4).Measure(1).SWAP(0, 2).CCX(0, 1, 2).MustBuild(),
	}

	for _, orig := range circuits {
		t.Run(orig.Name(), func(t *testing.T) {
			data, err := Format{}.Encode(orig)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			back, err := Format{}.Decode(data, orig.Name())
			if err != nil {
				t.Fatalf("Decode() error = %v\n%s", err, data)
			}
			if back.NumQubits() != orig.NumQubits() {
				t.Errorf("NumQubits() = %d, want %d", back.NumQubits(), orig.NumQubits())
			}
			if !slices.EqualFunc(back.Gates(), orig.Gates(), circuit.Gate.Equal) {
				t.Errorf("round trip = %v, want %v", gateStrings(back), gateStrings(orig))
			}
		})
	}
}

func TestKernelName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"GHZ State", "ghz_state"},
		{"4-Qubit Star", "circuit_4_qubit_star"},
		{"QFT-Style", "qft_style"},
		{"  ", "kernel"},
	}
	for _, tt := range tests {
		if got := KernelName(tt.in); got != tt.want {
			t.Errorf("KernelName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
