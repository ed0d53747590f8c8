package sink

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/qrying/stackreel/pkg/fonts"
	"github.com/qrying/stackreel/pkg/scene"
)

// RenderPNG rasterises one frame and encodes it as PNG.
func RenderPNG(f scene.Frame, opts ...Option) ([]byte, error) {
	c := newConfig(opts...)
	r := newRaster(c)
	defer r.close()

	if err := r.draw(f); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Rasterize draws one frame into an image.
func Rasterize(f scene.Frame, opts ...Option) (image.Image, error) {
	r := newRaster(newConfig(opts...))
	defer r.close()
	if err := r.draw(f); err != nil {
		return nil, err
	}
	return r.dc.Image(), nil
}

type faceKey struct {
	style fonts.Style
	px    int
}

// raster is a gg canvas for a single frame. It keeps the first drawing error
// and skips the rest of the frame.
type raster struct {
	dc    *gg.Context
	vp    Viewport
	cfg   config
	faces map[faceKey]text.Face
	err   error
}

func newRaster(c config) *raster {
	return &raster{
		dc:    gg.NewContext(c.width, c.height),
		vp:    NewViewport(c.width, c.height),
		cfg:   c,
		faces: make(map[faceKey]text.Face),
	}
}

func (r *raster) close() { _ = r.dc.Close() }

func (r *raster) draw(f scene.Frame) error {
	r.dc.ClearWithColor(toRGBA(r.cfg.theme.Background))
	for _, it := range f.Items {
		if r.err != nil {
			break
		}
		r.item(it)
	}
	if r.err == nil && r.cfg.captions {
		r.caption(f.Caption)
	}
	return r.err
}

func (r *raster) setColor(c scene.Color) {
	r.dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, c.Opacity())
}

func toRGBA(c scene.Color) gg.RGBA {
	return gg.RGBA{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255, A: c.Opacity()}
}

func (r *raster) check(err error) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("rasterize: %w", err)
	}
}

// paint fills and then strokes the current path.
func (r *raster) paint(it scene.Item, fill bool) {
	stroke := it.StrokeColor()
	if fill {
		r.setColor(it.FillColor())
		if stroke.IsNone() {
			r.check(r.dc.Fill())
			return
		}
		r.check(r.dc.FillPreserve())
	}
	if stroke.IsNone() {
		r.dc.ClearPath()
		return
	}
	r.setColor(stroke)
	r.dc.SetLineWidth(r.vp.StrokePx(it.Element))
	r.check(r.dc.Stroke())
}

func (r *raster) item(it scene.Item) {
	if it.Kind.IsText() {
		r.text(it)
		return
	}

	full := it.Progress >= 1
	switch {
	case full && it.Kind == scene.KindRect, full && it.Kind == scene.KindRoundRect:
		b := it.Bounds()
		x, y := r.vp.P(scene.V(b.Min.X, b.Max.Y))
		if it.Kind == scene.KindRoundRect {
			r.dc.DrawRoundedRectangle(x, y, r.vp.L(b.Width()), r.vp.L(b.Height()), r.vp.L(it.Radius))
		} else {
			r.dc.DrawRectangle(x, y, r.vp.L(b.Width()), r.vp.L(b.Height()))
		}
		r.paint(it, filled(it))
	case it.Kind == scene.KindDot:
		x, y := r.vp.P(it.Pos)
		r.dc.DrawCircle(x, y, r.vp.L(it.Radius))
		r.setColor(it.FillColor())
		r.check(r.dc.Fill())
	case full && it.Kind == scene.KindCircle:
		x, y := r.vp.P(it.Pos)
		r.dc.DrawCircle(x, y, r.vp.L(it.Radius))
		r.paint(it, filled(it))
	default:
		pts, closed := outline(it.Element)
		pts = partial(pts, closed, it.Progress)
		if len(pts) < 2 {
			return
		}
		r.polyline(pts)
		fill := full && closed && filled(it)
		if fill {
			r.dc.ClosePath()
		}
		r.dc.SetLineCap(gg.LineCapRound)
		r.dc.SetLineJoin(gg.LineJoinRound)
		r.paint(it, fill)
		if it.Kind == scene.KindArrow && full {
			head := arrowHead(pts[len(pts)-2], pts[len(pts)-1])
			r.polyline(head[:])
			r.dc.ClosePath()
			r.setColor(it.StrokeColor())
			r.check(r.dc.Fill())
		}
	}
}

func (r *raster) polyline(pts []scene.Vec) {
	for i, p := range pts {
		x, y := r.vp.P(p)
		if i == 0 {
			r.dc.MoveTo(x, y)
			continue
		}
		r.dc.LineTo(x, y)
	}
}

func (r *raster) face(style fonts.Style, px float64) text.Face {
	key := faceKey{style, max(1, int(px+0.5))}
	if f, ok := r.faces[key]; ok {
		return f
	}
	src, err := fonts.Source(style)
	if err != nil {
		r.check(err)
		return nil
	}
	f := src.Face(float64(key.px))
	r.faces[key] = f
	return f
}

func (r *raster) text(it scene.Item) {
	s := visibleText(it)
	if s == "" {
		return
	}
	style := fonts.Regular
	switch {
	case it.Kind == scene.KindCode:
		style = fonts.Mono
	case it.Bold:
		style = fonts.Bold
	}
	face := r.face(style, r.vp.FontPx(it.Element))
	if face == nil {
		return
	}
	r.dc.SetFont(face)
	r.setColor(it.FillColor())
	x, y := r.vp.P(it.Pos)
	ax := 0.5
	if it.Anchor == scene.AnchorLeft {
		ax = 0
	}
	r.dc.DrawStringAnchored(s, x, y, ax, 0.35)
}

func (r *raster) caption(caption string) {
	lines := captionLines(caption, r.vp.Width)
	if len(lines) == 0 {
		return
	}
	w, h := float64(r.vp.Width), float64(r.vp.Height)
	size := h / 40
	barH := size * (float64(len(lines))*1.4 + 0.8)
	r.dc.DrawRectangle(0, h-barH, w, barH)
	r.setColor(scene.Black.Alpha(0.7))
	r.check(r.dc.Fill())

	face := r.face(fonts.Regular, size)
	if face == nil {
		return
	}
	r.dc.SetFont(face)
	r.setColor(r.cfg.theme.Caption)
	for i, l := range lines {
		r.dc.DrawStringAnchored(l, w/2, h-barH+size*(1.1+1.4*float64(i)), 0.5, 0.35)
	}
}
