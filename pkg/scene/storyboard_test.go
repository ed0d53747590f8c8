package scene

import (
	"math"
	"reflect"
	"testing"

	"github.com/qrying/stackreel/pkg/errors"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func itemByID(f Frame, id string) (Item, bool) {
	for _, it := range f.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func buildDemo(t *testing.T) *Storyboard {
	t.Helper()
	b := NewBuilder("demo")
	b.Add(
		NewCircle("atom/ring", V(-2, 0), 0.3),
		NewDot("atom/core", V(-2, 0), 0.1, Purple),
		NewLine("wire", V(-1, 1), V(1, 1)),
	)
	b.Section("intro").Caption("atoms appear")
	b.Play(FadeIn("atom"))
	b.Wait(0.5)
	b.Section("motion").Caption("atoms move")
	b.Play(MoveTo(V(2, 0), "atom").For(2), Create("wire").WithRate(Linear))
	b.Play(FadeOut("atom"))
	sb, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return sb
}

func TestStoryboardTimeline(t *testing.T) {
	sb := buildDemo(t)

	if !near(sb.Duration, 4.5) {
		t.Errorf("Duration = %g, want 4.5", sb.Duration)
	}
	if len(sb.Steps) != 4 {
		t.Fatalf("len(Steps) = %d, want 4", len(sb.Steps))
	}
	wantStarts := []float64{0, 1, 1.5, 3.5}
	for i, s := range sb.Steps {
		if !near(s.Start, wantStarts[i]) {
			t.Errorf("Steps[%d].Start = %g, want %g", i, s.Start, wantStarts[i])
		}
	}
	if len(sb.Sections) != 2 || !near(sb.Sections[0].End, 1.5) || !near(sb.Sections[1].End, 4.5) {
		t.Errorf("Sections = %+v", sb.Sections)
	}
}

func TestStoryboardAt(t *testing.T) {
	sb := buildDemo(t)

	tests := []struct {
		name    string
		t       float64
		visible []string
		check   func(t *testing.T, f Frame)
	}{
		{
			name:    "start of fade in",
			t:       0,
			visible: nil,
		},
		{
			name:    "mid fade in",
			t:       0.5,
			visible: []string{"atom/ring", "atom/core"},
			check: func(t *testing.T, f Frame) {
				it, _ := itemByID(f, "atom/core")
				if !near(it.Opacity, 0.5) {
					t.Errorf("opacity = %g, want 0.5", it.Opacity)
				}
				if f.Section != "intro" || f.Caption != "atoms appear" {
					t.Errorf("section/caption = %q/%q", f.Section, f.Caption)
				}
			},
		},
		{
			name:    "mid move",
			t:       2.5,
			visible: []string{"atom/ring", "atom/core", "wire"},
			check: func(t *testing.T, f Frame) {
				it, _ := itemByID(f, "atom/core")
				if !near(it.Pos.X, 0) {
					t.Errorf("atom x = %g, want 0", it.Pos.X)
				}
				w, _ := itemByID(f, "wire")
				if !near(w.Progress, 1) {
					t.Errorf("wire progress = %g, want 1 after its own run time", w.Progress)
				}
			},
		},
		{
			name:    "create in progress",
			t:       1.75,
			visible: []string{"atom/ring", "atom/core", "wire"},
			check: func(t *testing.T, f Frame) {
				w, _ := itemByID(f, "wire")
				if !near(w.Progress, 0.25) {
					t.Errorf("wire progress = %g, want 0.25", w.Progress)
				}
			},
		},
		{
			name:    "after fade out",
			t:       10,
			visible: []string{"wire"},
			check: func(t *testing.T, f Frame) {
				if !near(f.Time, 4.5) {
					t.Errorf("Time = %g, want clamped 4.5", f.Time)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sb.At(tt.t)
			var ids []string
			for _, it := range f.Items {
				ids = append(ids, it.ID)
			}
			if !reflect.DeepEqual(ids, tt.visible) {
				t.Errorf("visible = %v, want %v", ids, tt.visible)
			}
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestStoryboardDeterministic(t *testing.T) {
	a, b := buildDemo(t), buildDemo(t)
	fa, fb := a.Frames(12), b.Frames(12)
	if len(fa) != a.FrameCount(12) || len(fa) != 54 {
		t.Fatalf("len(Frames) = %d, want 54", len(fa))
	}
	if !reflect.DeepEqual(fa, fb) {
		t.Error("two builds of the same storyboard sample differently")
	}
	if !reflect.DeepEqual(a.At(2.2), a.At(2.2)) {
		t.Error("sampling the same instant twice differs")
	}
}

func TestPulseReturnsToRest(t *testing.T) {
	b := NewBuilder("pulse")
	q := AnimatedQubit("q", Origin, 0.15, Purple)
	b.AddWidget(q.Widget).Show("q")
	b.Play(q.PulseOnce(0.5))
	sb, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	peak, _ := itemByID(sb.At(0.25), "q/glow")
	if !near(peak.Radius, 0.15*2.5*1.4) {
		t.Errorf("peak radius = %g, want %g", peak.Radius, 0.15*2.5*1.4)
	}
	if got := peak.FillColor().Opacity(); got < 0.45 {
		t.Errorf("peak glow opacity = %g, want about 0.5", got)
	}
	end, _ := itemByID(sb.At(0.5), "q/glow")
	if !near(end.Radius, 0.15*2.5) {
		t.Errorf("final radius = %g, want %g", end.Radius, 0.15*2.5)
	}
}

func TestExciteRecolorsKeepingAlpha(t *testing.T) {
	b := NewBuilder("excite")
	q := AnimatedQubit("q", Origin, 0.2, Purple)
	b.AddWidget(q.Widget).Show("q")
	b.Play(q.Excite())
	sb, _ := b.Build()

	f := sb.At(sb.Duration)
	glow, _ := itemByID(f, "q/glow")
	dot, _ := itemByID(f, "q/dot")
	if glow.Fill.Hex() != Red.Hex() || dot.Fill.Hex() != Red.Hex() {
		t.Errorf("fills = %s, %s; want red", glow.Fill, dot.Fill)
	}
	if glow.Fill.A != Purple.Alpha(0.25).A {
		t.Errorf("glow alpha = %d, want it unchanged", glow.Fill.A)
	}
}

func TestScaleAboutGroupCentre(t *testing.T) {
	b := NewBuilder("scale")
	b.Add(NewDot("g/a", V(-1, 0), 0.1, White), NewDot("g/b", V(1, 0), 0.1, White)).Show("g")
	b.Play(Scale(2, "g"))
	sb, _ := b.Build()

	f := sb.At(sb.Duration)
	a, _ := itemByID(f, "g/a")
	bb, _ := itemByID(f, "g/b")
	if !near(a.Pos.X, -2) || !near(bb.Pos.X, 2) || !near(a.Radius, 0.2) {
		t.Errorf("scaled positions = %v, %v radius %g", a.Pos, bb.Pos, a.Radius)
	}
}

func TestKeyFrames(t *testing.T) {
	sb := buildDemo(t)
	frames := sb.KeyFrames()
	if len(frames) != 2 {
		t.Fatalf("len(KeyFrames) = %d, want 2", len(frames))
	}
	if frames[0].Section != "intro" || frames[1].Section != "motion" {
		t.Errorf("sections = %q, %q", frames[0].Section, frames[1].Section)
	}
	if _, ok := itemByID(frames[1], "atom/core"); !ok {
		t.Error("motion key frame should show the atom before it fades out")
	}
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
	}{
		{"duplicate id", func(b *Builder) { b.Add(NewDot("a", Origin, 1, White), NewDot("a", Origin, 1, White)) }},
		{"empty id", func(b *Builder) { b.Add(NewDot("", Origin, 1, White)) }},
		{"unknown target", func(b *Builder) { b.Play(FadeIn("ghost")) }},
		{"bad wait", func(b *Builder) { b.Wait(0) }},
		{"bad scale", func(b *Builder) { b.Add(NewDot("a", Origin, 1, White)).Play(Scale(0, "a")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("bad")
			tt.build(b)
			b.Wait(1)
			if _, err := b.Build(); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Build() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestRates(t *testing.T) {
	for _, r := range []Rate{Smooth, Linear} {
		if r.Apply(0) != 0 || r.Apply(1) != 1 || !near(r.Apply(0.5), 0.5) {
			t.Errorf("%s: endpoints or midpoint wrong", r)
		}
	}
	if ThereAndBack.Apply(0) != 0 || ThereAndBack.Apply(1) != 0 || ThereAndBack.Apply(0.5) != 1 {
		t.Error("there_and_back should peak at the midpoint and return")
	}
	if _, err := ParseRate("bounce"); err == nil {
		t.Error("ParseRate(bounce) should fail")
	}
}

func TestShowAndRemove(t *testing.T) {
	b := NewBuilder("show")
	b.Add(NewCircle("atom", V(0, 0), 0.3), NewLine("wire", V(-1, 0), V(1, 0)))
	b.Show("wire")
	b.Play(FadeIn("atom"))
	b.Remove("atom", "wire")
	b.Wait(1)
	sb, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, ok := itemByID(sb.At(0), "wire"); !ok {
		t.Error("shown element should be visible from the start")
	}
	if _, ok := itemByID(sb.At(0.99), "atom"); !ok {
		t.Error("atom should be visible while fading in")
	}
	f := sb.At(1.5)
	for _, id := range []string{"atom", "wire"} {
		if _, ok := itemByID(f, id); ok {
			t.Errorf("%s should be hidden after Remove", id)
		}
	}
}
