package scene

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind identifies the shape an element draws.
type Kind uint8

const (
	KindRect Kind = iota + 1
	KindRoundRect
	KindCircle
	KindDot
	KindLine
	KindArrow
	KindPolygon
	KindPolyline
	KindText
	KindCode
)

var kindNames = [...]string{
	KindRect:      "rect",
	KindRoundRect: "roundrect",
	KindCircle:    "circle",
	KindDot:       "dot",
	KindLine:      "line",
	KindArrow:     "arrow",
	KindPolygon:   "polygon",
	KindPolyline:  "polyline",
	KindText:      "text",
	KindCode:      "code",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// IsPath reports whether the element's geometry is its point list.
func (k Kind) IsPath() bool {
	return k == KindLine || k == KindArrow || k == KindPolygon || k == KindPolyline
}

// IsText reports whether the element draws a string.
func (k Kind) IsText() bool { return k == KindText || k == KindCode }

// Anchor controls how a text element is positioned relative to Pos.
type Anchor uint8

const (
	AnchorCenter Anchor = iota
	AnchorLeft
)

// Element is a single drawable. Element IDs are slash separated paths; an
// animation target names either one element or every element below a path
// prefix, so "l1/label" addresses both "l1/label/title" and
// "l1/label/subtitle".
type Element struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	// Pos is the centre of shapes and centred text, or the left-middle
	// point of left-anchored text. Path kinds use Points instead.
	Pos    Vec     `json:"pos"`
	W      float64 `json:"w,omitempty"`
	H      float64 `json:"h,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Points []Vec   `json:"points,omitempty"`

	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"font_size,omitempty"`
	Anchor   Anchor  `json:"anchor,omitempty"`
	Bold     bool    `json:"bold,omitempty"`

	Stroke      Color   `json:"stroke"`
	Fill        Color   `json:"fill"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Z           int     `json:"z,omitempty"`
}

func NewRect(id string, center Vec, w, h float64) Element {
	return Element{ID: id, Kind: KindRect, Pos: center, W: w, H: h, Stroke: White, StrokeWidth: 2}
}

func NewRoundRect(id string, center Vec, w, h, corner float64) Element {
	return Element{ID: id, Kind: KindRoundRect, Pos: center, W: w, H: h, Radius: corner, Stroke: White, StrokeWidth: 2}
}

func NewCircle(id string, center Vec, r float64) Element {
	return Element{ID: id, Kind: KindCircle, Pos: center, Radius: r, Stroke: White, StrokeWidth: 2}
}

// NewDot is a filled circle without an outline.
func NewDot(id string, center Vec, r float64, c Color) Element {
	return Element{ID: id, Kind: KindDot, Pos: center, Radius: r, Fill: c}
}

func NewLine(id string, from, to Vec) Element {
	return Element{ID: id, Kind: KindLine, Points: []Vec{from, to}, Stroke: White, StrokeWidth: 2}
}

// NewArrow draws from "from" to "to", both ends pulled in by buff.
func NewArrow(id string, from, to Vec, buff float64) Element {
	d := to.Sub(from)
	if l := d.Len(); l > 2*buff && l > 0 {
		u := d.Mul(1 / l)
		from, to = from.Add(u.Mul(buff)), to.Sub(u.Mul(buff))
	}
	return Element{ID: id, Kind: KindArrow, Points: []Vec{from, to}, Stroke: White, StrokeWidth: 2}
}

func NewPolygon(id string, pts ...Vec) Element {
	return Element{ID: id, Kind: KindPolygon, Points: pts, Stroke: White, StrokeWidth: 2}
}

func NewPolyline(id string, pts ...Vec) Element {
	return Element{ID: id, Kind: KindPolyline, Points: pts, Stroke: White, StrokeWidth: 2}
}

// NewText places a single line of proportional text centred on pos.
func NewText(id, s string, pos Vec, size float64, c Color) Element {
	return Element{ID: id, Kind: KindText, Pos: pos, Text: s, FontSize: size, Fill: c}
}

// NewCode places a single line of monospaced text with its left edge at pos.
func NewCode(id, s string, pos Vec, size float64, c Color) Element {
	return Element{ID: id, Kind: KindCode, Pos: pos, Text: s, FontSize: size, Fill: c, Anchor: AnchorLeft}
}

func (e Element) WithStroke(c Color, width float64) Element {
	e.Stroke, e.StrokeWidth = c, width
	return e
}

func (e Element) WithFill(c Color) Element {
	e.Fill = c
	return e
}

func (e Element) WithZ(z int) Element {
	e.Z = z
	return e
}

func (e Element) LeftAligned() Element {
	if e.Anchor != AnchorLeft {
		e.Pos.X -= e.TextWidth() / 2
		e.Anchor = AnchorLeft
	}
	return e
}

func (e Element) Bolded() Element {
	e.Bold = true
	return e
}

// Em is the font size in world units.
func (e Element) Em() float64 { return e.FontSize * PointSize }

// TextWidth estimates the rendered width of the element's text.
func (e Element) TextWidth() float64 {
	w := charWidth
	if e.Kind == KindCode {
		w = monoCharWidth
	}
	return float64(utf8.RuneCountInString(e.Text)) * w * e.Em()
}

// Bounds returns the element's bounding box.
func (e Element) Bounds() Bounds {
	switch {
	case e.Kind.IsPath():
		return pointBounds(e.Points)
	case e.Kind.IsText():
		w, h := e.TextWidth(), e.Em()
		left := e.Pos.X - w/2
		if e.Anchor == AnchorLeft {
			left = e.Pos.X
		}
		return Bounds{Min: Vec{left, e.Pos.Y - h/2}, Max: Vec{left + w, e.Pos.Y + h/2}}
	case e.Kind == KindCircle || e.Kind == KindDot:
		r := Vec{e.Radius, e.Radius}
		return Bounds{Min: e.Pos.Sub(r), Max: e.Pos.Add(r)}
	default:
		h := Vec{e.W / 2, e.H / 2}
		return Bounds{Min: e.Pos.Sub(h), Max: e.Pos.Add(h)}
	}
}

// Center is the centre of the bounding box.
func (e Element) Center() Vec { return e.Bounds().Center() }

// Shift translates the element by d.
func (e Element) Shift(d Vec) Element {
	e.Pos = e.Pos.Add(d)
	if e.Points != nil {
		pts := make([]Vec, len(e.Points))
		for i, p := range e.Points {
			pts[i] = p.Add(d)
		}
		e.Points = pts
	}
	return e
}

// ScaleAbout scales geometry and font size by f around o. Stroke widths are
// left alone.
func (e Element) ScaleAbout(f float64, o Vec) Element {
	if f == 1 {
		return e
	}
	e.Pos = o.Add(e.Pos.Sub(o).Mul(f))
	e.W, e.H, e.Radius, e.FontSize = e.W*f, e.H*f, e.Radius*f, e.FontSize*f
	if e.Points != nil {
		pts := make([]Vec, len(e.Points))
		for i, p := range e.Points {
			pts[i] = o.Add(p.Sub(o).Mul(f))
		}
		e.Points = pts
	}
	return e
}

// under reports whether the element is target itself or lives below it.
func (e Element) under(target string) bool {
	return e.ID == target || strings.HasPrefix(e.ID, target+"/")
}
