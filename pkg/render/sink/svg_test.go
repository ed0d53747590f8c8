package sink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/qrying/stackreel/pkg/fonts"
	"github.com/qrying/stackreel/pkg/scene"
)

func TestRenderSVG(t *testing.T) {
	sb := demo(t)
	out := string(RenderSVG(sb.At(sb.Duration), WithSize(640, 360)))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 640 360" width="640" height="360">`,
		`fill="#000000"`,
		`<rect `,
		`<circle `,
		`<polyline `,
		`CZ &amp; H`,
		`font-family="` + fonts.FallbackMonoFamily + `"`,
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "@font-face") {
		t.Error("fonts embedded without WithEmbeddedFonts")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	sb := demo(t)
	f := sb.At(sb.Duration / 2)
	slate, _ := ParseTheme("slate")

	out := string(RenderSVG(f, WithCaptions(), WithEmbeddedFonts(), WithTheme(slate)))
	if !strings.Contains(out, `viewBox="0 0 1280 720"`) {
		t.Error("default size not applied")
	}
	if !strings.Contains(out, "@font-face") || !strings.Contains(out, "font-family: '"+fonts.MonoFamily+"'") {
		t.Error("embedded fonts missing")
	}
	if !strings.Contains(out, f.Caption) {
		t.Errorf("caption %q missing", f.Caption)
	}
	if !strings.Contains(out, `fill="#1e1e2e"`) {
		t.Error("theme background not used")
	}
}

func TestRenderItemProgress(t *testing.T) {
	vp := NewViewport(1280, 720)
	box := scene.NewRect("box", scene.V(0, 0), 2, 1).WithFill(scene.Blue)
	tests := []struct {
		name    string
		it      scene.Item
		want    []string
		notWant []string
	}{
		{
			name:    "finished rect is a rect",
			it:      item(box, 1),
			want:    []string{"<rect ", `fill="#3b82f6"`},
			notWant: []string{"<polyline"},
		},
		{
			name:    "rect being traced has no fill",
			it:      item(box, 0.5),
			want:    []string{"<polyline ", `fill="none"`},
			notWant: []string{"<rect"},
		},
		{
			name:    "arrow head only once complete",
			it:      item(scene.NewArrow("a", scene.V(0, 0), scene.V(2, 0), 0), 0.5),
			want:    []string{"<polyline "},
			notWant: []string{"<polygon"},
		},
		{
			name: "complete arrow has a head",
			it:   item(scene.NewArrow("a", scene.V(0, 0), scene.V(2, 0), 0), 1),
			want: []string{"<polyline ", "<polygon "},
		},
		{
			name:    "dot is drawn at any progress",
			it:      item(scene.NewDot("d", scene.V(0, 0), 0.1, scene.Red), 0),
			want:    []string{"<circle ", `fill="#ef4444"`},
			notWant: []string{"stroke="},
		},
		{
			name:    "untraced line draws nothing",
			it:      item(scene.NewLine("l", scene.V(0, 0), scene.V(1, 0)), 0),
			notWant: []string{"<"},
		},
		{
			name: "half written text",
			it:   item(scene.NewText("t", "abcd", scene.V(0, 0), 12, scene.White), 0.5),
			want: []string{">ab</text>"},
		},
		{
			name: "translucent stroke",
			it:   item(scene.NewCircle("c", scene.V(0, 0), 1).WithStroke(scene.White.Alpha(0.5), 2), 1),
			want: []string{`stroke-opacity="0.50"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			renderItem(&buf, tt.it, vp)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output %q missing %q", out, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output %q should not contain %q", out, w)
				}
			}
		})
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "dark", false},
		{"dark", "dark", false},
		{"Midnight", "midnight", false},
		{"neon", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			th, err := ParseTheme(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTheme(%q) error = %v", tt.in, err)
			}
			if th.Name != tt.want {
				t.Errorf("ParseTheme(%q) = %q, want %q", tt.in, th.Name, tt.want)
			}
		})
	}
}

func TestViewport(t *testing.T) {
	vp := NewViewport(1280, 720)
	if x, y := vp.P(scene.V(0, 0)); x != 640 || y != 360 {
		t.Errorf("origin = (%g, %g), want centre", x, y)
	}
	if _, y := vp.P(scene.V(0, 1)); y >= 360 {
		t.Errorf("y should grow upwards in world space, got pixel y %g", y)
	}
	if got := vp.L(scene.WorldHeight); got < 719.99 || got > 720.01 {
		t.Errorf("world height = %g px, want 720", got)
	}
}
