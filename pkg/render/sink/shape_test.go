package sink

import (
	"math"
	"slices"
	"testing"

	"github.com/qrying/stackreel/pkg/scene"
)

func TestPartial(t *testing.T) {
	square := []scene.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	tests := []struct {
		name   string
		pts    []scene.Vec
		closed bool
		p      float64
		want   []scene.Vec
	}{
		{"nothing yet", square, false, 0, nil},
		{"empty", nil, true, 1, nil},
		{"open half", square, false, 0.5, []scene.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0.5}}},
		{"closed half", square, true, 0.5, []scene.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}},
		{"closed full returns to start", square, true, 1, append(slices.Clone(square), square[0])},
		{"open full", square, false, 1, square},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := partial(tt.pts, tt.closed, tt.p)
			if len(got) != len(tt.want) {
				t.Fatalf("partial() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i].Sub(tt.want[i]).Len() > 1e-9 {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}

	// The input slice must not grow into its spare capacity.
	buf := make([]scene.Vec, 4, 8)
	copy(buf, square)
	partial(buf, true, 1)
	if buf[:5][4] != (scene.Vec{}) {
		t.Error("partial() wrote into the caller's backing array")
	}
}

func TestOutline(t *testing.T) {
	tests := []struct {
		name   string
		e      scene.Element
		points int
		closed bool
	}{
		{"rect", scene.NewRect("r", scene.V(0, 0), 2, 1), 4, true},
		{"circle", scene.NewCircle("c", scene.V(0, 0), 1), circleSegments, true},
		{"polygon", scene.NewPolygon("p", scene.V(0, 0), scene.V(1, 0), scene.V(0, 1)), 3, true},
		{"line", scene.NewLine("l", scene.V(0, 0), scene.V(1, 0)), 2, false},
		{"text", scene.NewText("t", "x", scene.V(0, 0), 12, scene.White), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts, closed := outline(tt.e)
			if len(pts) != tt.points || closed != tt.closed {
				t.Errorf("outline() = %d points closed=%v, want %d closed=%v", len(pts), closed, tt.points, tt.closed)
			}
		})
	}

	pts, _ := outline(scene.NewCircle("c", scene.V(1, 1), 2))
	for i, p := range pts {
		if d := p.Sub(scene.V(1, 1)).Len(); math.Abs(d-2) > 1e-9 {
			t.Fatalf("point %d is %g from the centre, want 2", i, d)
		}
	}
}

func TestArrowHead(t *testing.T) {
	head := arrowHead(scene.V(0, 0), scene.V(1, 0))
	if head[0] != scene.V(1, 0) {
		t.Errorf("tip = %v, want the segment end", head[0])
	}
	for _, p := range head[1:] {
		if math.Abs(p.X-(1-arrowTipLength)) > 1e-9 || math.Abs(math.Abs(p.Y)-arrowTipWidth/2) > 1e-9 {
			t.Errorf("base corner = %v", p)
		}
	}
	if got := arrowHead(scene.V(1, 1), scene.V(1, 1)); got[1] != scene.V(1, 1) {
		t.Errorf("degenerate arrow head = %v", got)
	}
}

func TestVisibleText(t *testing.T) {
	tests := []struct {
		text     string
		progress float64
		want     string
	}{
		{"hello", 1, "hello"},
		{"hello", 0, ""},
		{"hello", 0.4, "he"},
		{"Ωμσ", 0.67, "Ωμ"},
	}
	for _, tt := range tests {
		it := item(scene.NewText("t", tt.text, scene.V(0, 0), 12, scene.White), tt.progress)
		if got := visibleText(it); got != tt.want {
			t.Errorf("visibleText(%q, %g) = %q, want %q", tt.text, tt.progress, got, tt.want)
		}
	}
}

func TestFilled(t *testing.T) {
	box := scene.NewRect("b", scene.V(0, 0), 1, 1).WithFill(scene.Blue)
	tests := []struct {
		name string
		it   scene.Item
		want bool
	}{
		{"finished box", item(box, 1), true},
		{"box being traced", item(box, 0.9), false},
		{"no fill", item(scene.NewRect("b", scene.V(0, 0), 1, 1), 1), false},
		{"dot always", item(scene.NewDot("d", scene.V(0, 0), 0.1, scene.Red), 0), true},
		{"line never", item(scene.NewLine("l", scene.V(0, 0), scene.V(1, 0)).WithFill(scene.Red), 1), false},
	}
	for _, tt := range tests {
		if got := filled(tt.it); got != tt.want {
			t.Errorf("%s: filled() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCaptionLines(t *testing.T) {
	if got := captionLines("", 1280); got != nil {
		t.Errorf("empty caption = %v", got)
	}
	if got := captionLines("short caption", 1280); len(got) != 1 || got[0] != "short caption" {
		t.Errorf("short caption = %v", got)
	}
	long := "Entangling operations are implemented with Rydberg blockade pulse sequences and " +
		"pulses use smooth shapes like Blackman windows to prevent errors from abrupt switching"
	got := captionLines(long, 320)
	if len(got) != 2 {
		t.Fatalf("long caption wrapped to %d lines, want 2", len(got))
	}
	if last := got[1]; last[len(last)-len("…"):] != "…" {
		t.Errorf("truncated caption should end with an ellipsis, got %q", last)
	}
}
