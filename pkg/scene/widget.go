package scene

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Widget is a named collection of elements laid out together. Its ID is the
// common prefix of the element IDs, so the ID works as an animation target.
type Widget struct {
	ID       string
	Elements []Element
}

// Bounds covers every element of the widget.
func (w Widget) Bounds() Bounds {
	b := emptyBounds()
	for _, e := range w.Elements {
		b = b.Union(e.Bounds())
	}
	return b
}

func (w Widget) Center() Vec { return w.Bounds().Center() }

// Get returns the element named id or id below the widget.
func (w Widget) Get(name string) Element {
	for _, e := range w.Elements {
		if e.ID == name || e.ID == w.ID+"/"+name {
			return e
		}
	}
	panic(fmt.Sprintf("scene: widget %q has no element %q", w.ID, name))
}

func (w Widget) apply(f func(Element) Element) Widget {
	out := Widget{ID: w.ID, Elements: make([]Element, len(w.Elements))}
	for i, e := range w.Elements {
		out.Elements[i] = f(e)
	}
	return out
}

func (w Widget) Shift(d Vec) Widget {
	return w.apply(func(e Element) Element { return e.Shift(d) })
}

// MoveTo centres the widget on p.
func (w Widget) MoveTo(p Vec) Widget { return w.Shift(p.Sub(w.Center())) }

// Scale scales the widget about its centre.
func (w Widget) Scale(f float64) Widget {
	c := w.Center()
	return w.apply(func(e Element) Element { return e.ScaleAbout(f, c) })
}

// ToEdge pushes the widget against the frame edge or corner named by dir.
func (w Widget) ToEdge(dir Vec, buff float64) Widget {
	return w.Shift(edgeShift(w.Bounds(), dir, buff))
}

// NextTo places the widget beside ref in direction dir.
func (w Widget) NextTo(ref Bounds, dir Vec, buff float64) Widget {
	return w.Shift(nextToShift(w.Bounds(), ref, dir, buff))
}

// WithZ sets the z-order of every element.
func (w Widget) WithZ(z int) Widget {
	return w.apply(func(e Element) Element { return e.WithZ(z) })
}

// Join groups widgets under a new ID for layout. Element IDs are unchanged.
func Join(id string, ws ...Widget) Widget {
	out := Widget{ID: id}
	for _, w := range ws {
		out.Elements = append(out.Elements, w.Elements...)
	}
	return out
}

// Single wraps one element as a widget.
func Single(e Element) Widget { return Widget{ID: e.ID, Elements: []Element{e}} }

// stackDown lays out text lines top to bottom with their left edges aligned.
func stackDown(lines []Element, gap float64) []Element {
	y := 0.0
	out := make([]Element, len(lines))
	for i, l := range lines {
		h := l.Em()
		l.Pos = Vec{0, y - h/2}
		out[i] = l
		y -= h + gap
	}
	return out
}

// Wrap breaks text into lines of at most maxChars characters at word
// boundaries. Newlines start new paragraphs and blank paragraphs are kept as
// empty lines. A word longer than maxChars gets a line of its own.
func Wrap(text string, maxChars int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		var cur []string
		n := 0
		for _, w := range words {
			wl := utf8.RuneCountInString(w)
			if n+wl+1 <= maxChars {
				cur = append(cur, w)
				n += wl + 1
				continue
			}
			if len(cur) > 0 {
				lines = append(lines, strings.Join(cur, " "))
			}
			cur = []string{w}
			n = wl
		}
		switch {
		case len(cur) > 0:
			lines = append(lines, strings.Join(cur, " "))
		case len(words) == 0:
			lines = append(lines, "")
		}
	}
	return lines
}

// ExplanationBox is a boxed paragraph wrapped at int(width*8) characters per
// line, centred on the origin.
func ExplanationBox(id, text string, width, fontSize float64, c Color) Widget {
	wrapped := Wrap(text, int(width*8))
	lines := make([]Element, len(wrapped))
	for i, l := range wrapped {
		lines[i] = NewText(fmt.Sprintf("%s/line/%d", id, i), l, Origin, fontSize, c)
		lines[i].Anchor = AnchorLeft
	}
	lines = stackDown(lines, 0.08)
	return framed(id, lines, c, 1, Black.Alpha(0.9))
}

// CodeBlock shows source code in a monospaced font. Tabs expand to tabWidth
// spaces and leading indentation is preserved.
func CodeBlock(id, code string, fontSize float64, c Color, tabWidth int) Widget {
	code = strings.ReplaceAll(code, "\t", strings.Repeat(" ", tabWidth))
	src := strings.Split(strings.TrimSpace(code), "\n")
	lines := make([]Element, len(src))
	for i, l := range src {
		text := strings.TrimLeft(l, " ")
		if text == "" {
			text = " "
		}
		lines[i] = NewCode(fmt.Sprintf("%s/line/%d", id, i), text, Origin, fontSize, White)
	}
	lines = stackDown(lines, 0.06)
	for i, l := range src {
		indent := len(l) - len(strings.TrimLeft(l, " "))
		lines[i].Pos.X += float64(indent) * monoCharWidth * lines[i].Em()
	}
	return framed(id, lines, c, 2, Black.Alpha(0.9))
}

// framed puts a background rectangle around content with a 0.15 margin.
func framed(id string, content []Element, stroke Color, width float64, fill Color) Widget {
	b := emptyBounds()
	for _, e := range content {
		b = b.Union(e.Bounds())
	}
	b = b.Pad(0.15)
	bg := NewRect(id+"/bg", b.Center(), b.Width(), b.Height()).WithStroke(stroke, width).WithFill(fill)
	w := Widget{ID: id, Elements: append([]Element{bg}, content...)}
	return w.MoveTo(Origin)
}

// LayerLabel is a bold title over a muted subtitle.
func LayerLabel(id, title, subtitle string, c Color) Widget {
	t := NewText(id+"/title", title, Origin, 24, c).Bolded()
	s := NewText(id+"/subtitle", subtitle, Origin, 14, Muted)
	s = s.Shift(nextToShift(s.Bounds(), t.Bounds(), Down, 0.08))
	return Widget{ID: id, Elements: []Element{t, s}}
}

// ZoneBox is a tinted rectangle with a label above it. The rectangle is the
// element named "box".
func ZoneBox(id string, width, height float64, label string, c Color) Widget {
	box := NewRect(id+"/box", Origin, width, height).WithStroke(c, 2).WithFill(c.Alpha(0.1))
	l := NewText(id+"/label", label, Origin, 14, c)
	l = l.Shift(nextToShift(l.Bounds(), box.Bounds(), Up, 0.08))
	return Widget{ID: id, Elements: []Element{box, l}}
}

// TextBlock stacks lines of text left-aligned, centred on the origin.
func TextBlock(id string, lines []string, fontSize float64, c Color) Widget {
	els := make([]Element, len(lines))
	for i, l := range lines {
		els[i] = NewText(fmt.Sprintf("%s/%d", id, i), l, Origin, fontSize, c)
		els[i].Anchor = AnchorLeft
	}
	return Widget{ID: id, Elements: stackDown(els, 0.1)}.MoveTo(Origin)
}

// Qubit is an atom drawn as a dot inside a soft glow.
type Qubit struct {
	Widget
	Base Color
}

// AnimatedQubit builds a qubit at pos. The glow is 2.5 times the dot radius.
func AnimatedQubit(id string, pos Vec, radius float64, c Color) Qubit {
	glow := NewDot(id+"/glow", pos, radius*2.5, c.Alpha(0.25))
	dot := NewDot(id+"/dot", pos, radius, c)
	return Qubit{Widget: Widget{ID: id, Elements: []Element{glow, dot}}, Base: c}
}

// PulseOnce swells the glow and lets it settle back.
func (q Qubit) PulseOnce(runTime float64) Animation {
	return Pulse(1.4, q.ID+"/glow").For(runTime)
}

// Excite turns the atom red, as when driven to the Rydberg state.
func (q Qubit) Excite() Animation { return Recolor(Red, q.ID) }

// Deexcite returns the atom to its base colour.
func (q Qubit) Deexcite() Animation { return Recolor(q.Base, q.ID) }

// Axes is a pair of plot axes mapping data coordinates into the world.
type Axes struct {
	ID            string
	XMin, XMax    float64
	YMin, YMax    float64
	XStep         float64
	Width, Height float64
	Origin        Vec // world position of (XMin, YMin)
	Color         Color
}

// NewAxes centres an axes box of the given size on the origin.
func NewAxes(id string, xr, yr [3]float64, width, height float64) Axes {
	return Axes{
		ID: id, XMin: xr[0], XMax: xr[1], XStep: xr[2], YMin: yr[0], YMax: yr[1],
		Width: width, Height: height, Origin: Vec{-width / 2, -height / 2}, Color: Muted,
	}
}

// Shift moves the axes by d.
func (a Axes) Shift(d Vec) Axes {
	a.Origin = a.Origin.Add(d)
	return a
}

// C2P converts data coordinates to a world point.
func (a Axes) C2P(x, y float64) Vec {
	return Vec{
		a.Origin.X + (x-a.XMin)/(a.XMax-a.XMin)*a.Width,
		a.Origin.Y + (y-a.YMin)/(a.YMax-a.YMin)*a.Height,
	}
}

// Bounds covers the axis lines.
func (a Axes) Bounds() Bounds {
	return Bounds{Min: a.Origin, Max: a.Origin.Add(Vec{a.Width, a.Height})}
}

// Widget draws both axes with ticks along x.
func (a Axes) Widget() Widget {
	els := []Element{
		NewArrow(a.ID+"/x", a.C2P(a.XMin, a.YMin), a.C2P(a.XMax, a.YMin).Add(Vec{0.2, 0}), 0).WithStroke(a.Color, 2),
		NewArrow(a.ID+"/y", a.C2P(a.XMin, a.YMin), a.C2P(a.XMin, a.YMax).Add(Vec{0, 0.2}), 0).WithStroke(a.Color, 2),
	}
	if a.XStep > 0 {
		for i, x := 0, a.XMin+a.XStep; x < a.XMax+1e-9; i, x = i+1, x+a.XStep {
			p := a.C2P(x, a.YMin)
			els = append(els, NewLine(fmt.Sprintf("%s/tick/%d", a.ID, i), p.Add(Vec{0, -0.06}), p.Add(Vec{0, 0.06})).WithStroke(a.Color, 2))
		}
	}
	return Widget{ID: a.ID, Elements: els}
}

// Graph samples f over the x range as a polyline.
func (a Axes) Graph(id string, f func(float64) float64, samples int, c Color) Element {
	pts := make([]Vec, samples+1)
	for i := range pts {
		x := a.XMin + (a.XMax-a.XMin)*float64(i)/float64(samples)
		pts[i] = a.C2P(x, f(x))
	}
	return NewPolyline(id, pts...).WithStroke(c, 3)
}
