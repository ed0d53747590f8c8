package layers

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/scene"
)

func TestEverySceneBuilds(t *testing.T) {
	for _, s := range Scenes() {
		t.Run(s.Name, func(t *testing.T) {
			var c *circuit.Circuit
			if s.NeedsCircuit() {
				c = circuit.Custom()
			}
			sb, err := s.Build(c)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if sb.Duration <= 0 || len(sb.Steps) == 0 {
				t.Fatalf("empty storyboard: duration %g, %d steps", sb.Duration, len(sb.Steps))
			}
			if len(sb.Sections) != len(s.Drivers) {
				t.Errorf("sections = %d, want one per driver (%d)", len(sb.Sections), len(s.Drivers))
			}
			if f := sb.At(sb.Duration); len(f.Items) != 0 {
				t.Errorf("%d elements still visible at the end, first %q", len(f.Items), f.Items[0].ID)
			}
		})
	}
}

func TestPipelineSections(t *testing.T) {
	sb, err := Build("GHZCircuitDemo", nil)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, s := range sb.Sections {
		got = append(got, s.Title)
	}
	want := []string{
		"Title",
		"Layer 1: Logical Circuit",
		"Layer 2: Gate Decomposition",
		"Layer 3: Spatial Routing",
		"Layer 4: Pulse Control",
		"Layer 5: Hardware Execution",
		"Summary",
	}
	if !slices.Equal(got, want) {
		t.Errorf("sections = %v, want %v", got, want)
	}
	if !strings.Contains(sb.Title, "GHZ State") {
		t.Errorf("Title = %q, want the circuit name in it", sb.Title)
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		name string
		code errors.Code
	}{
		{"Layer3Demo", ""},
		{"Compilation", ""},
		{"NoSuchDemo", errors.ErrCodeInvalidScene},
		{"", errors.ErrCodeInvalidScene},
		{"ghz demo", errors.ErrCodeInvalidScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Find(tt.name)
			if tt.code == "" {
				if err != nil || s.Name != tt.name {
					t.Fatalf("Find(%q) = %q, %v", tt.name, s.Name, err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("Find(%q) error = %v, want %s", tt.name, err, tt.code)
			}
		})
	}

	_, err := Find("NoSuchDemo")
	if !strings.Contains(err.Error(), "GHZCircuitDemo") {
		t.Errorf("error %q should list the available scenes", err)
	}
}

func TestBuildSealsCircuit(t *testing.T) {
	c := circuit.NewBuilder(2, "bell").H(0).CX(0, 1).MustBuild()
	s, err := Find("Compilation")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Build(c); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !c.Sealed() {
		t.Fatal("circuit not sealed after Build")
	}
	if err := c.X(1); !errors.Is(err, errors.ErrCodeCircuitSealed) {
		t.Errorf("append after Build error = %v, want CIRCUIT_SEALED", err)
	}
}

func TestCompilationNeedsCircuit(t *testing.T) {
	if _, err := Build("Compilation", nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Build(Compilation, nil) error = %v, want INVALID_INPUT", err)
	}
}

func TestDriversHandleEdgeCircuits(t *testing.T) {
	circuits := []*circuit.Circuit{
		circuit.NewBuilder(1, "single").H(0).Measure(0).MustBuild(),
		circuit.NewBuilder(2, "empty").MustBuild(),
		circuit.NewBuilder(3, "toffoli").CCX(0, 1, 2).SWAP(0, 2).RZ(1, math.Pi/4).MustBuild(),
	}
	for _, c := range circuits {
		t.Run(c.Name(), func(t *testing.T) {
			b := scene.NewBuilder(c.Name())
			for _, d := range Pipeline {
				d(b, c)
			}
			if _, err := b.Build(); err != nil {
				t.Fatalf("Build() error = %v", err)
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a, err := Build("CustomCircuitDemo", nil)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Build("CustomCircuitDemo", nil)
	if a.Duration != b.Duration || len(a.Steps) != len(b.Steps) {
		t.Fatalf("durations %g vs %g", a.Duration, b.Duration)
	}
	for _, at := range []float64{0.5, a.Duration / 3, a.Duration / 2} {
		fa, fb := a.At(at), b.At(at)
		if len(fa.Items) != len(fb.Items) {
			t.Errorf("t=%g: %d vs %d items", at, len(fa.Items), len(fb.Items))
		}
	}
}

func TestSchedule(t *testing.T) {
	tests := []struct {
		name  string
		c     *circuit.Circuit
		spans int
	}{
		{"GHZ has two layers", circuit.GHZ(), 6},
		{"no CZ still plots one triple", circuit.NewBuilder(1, "h").H(0).MustBuild(), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := Schedule(tt.c)
			if len(spans) != tt.spans {
				t.Fatalf("len = %d, want %d", len(spans), tt.spans)
			}
			for i, s := range spans {
				if s.Target != (i%3 == 1) {
					t.Errorf("span %d: Target = %v", i, s.Target)
				}
				if i > 0 && math.Abs(s.Start-spans[i-1].End) > 1e-9 {
					t.Errorf("span %d starts at %g, previous ends at %g", i, s.Start, spans[i-1].End)
				}
			}
			if last := spans[len(spans)-1].End; math.Abs(last-9) > 1e-9 {
				t.Errorf("schedule ends at %g, want 9", last)
			}
		})
	}
}

func TestBlackman(t *testing.T) {
	f := Blackman(1, 3, 1)
	if f(0.5) != 0 || f(3.5) != 0 {
		t.Error("window should be zero outside its span")
	}
	if got := f(2); math.Abs(got-1) > 1e-9 {
		t.Errorf("peak = %g, want 1", got)
	}
	if got := f(1); math.Abs(got) > 1e-9 {
		t.Errorf("edge = %g, want 0", got)
	}
}

func TestHandlesAndPlural(t *testing.T) {
	if got := handles(5); got != "q[0], q[1], q[2]" {
		t.Errorf("handles(5) = %q", got)
	}
	if got := handles(2); got != "q[0], q[1]" {
		t.Errorf("handles(2) = %q", got)
	}
	if got := plural(1, "CZ gate"); got != "1 CZ gate" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(4, "parallel layer"); got != "4 parallel layers" {
		t.Errorf("plural(4) = %q", got)
	}
}
