package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/qrying/stackreel/pkg/fonts"
	"github.com/qrying/stackreel/pkg/scene"
)

// RenderSVG renders one frame as a standalone SVG document.
func RenderSVG(f scene.Frame, opts ...Option) []byte {
	c := newConfig(opts...)
	vp := NewViewport(c.width, c.height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		c.width, c.height, c.width, c.height)
	renderDefs(&buf, c.embedFonts)
	renderFrame(&buf, f, vp, c)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, embed bool) {
	if !embed {
		return
	}
	buf.WriteString("  <defs><style>\n")
	for _, ff := range []struct {
		family string
		weight string
		style  fonts.Style
	}{
		{fonts.FontFamily, "normal", fonts.Regular},
		{fonts.FontFamily, "bold", fonts.Bold},
		{fonts.MonoFamily, "normal", fonts.Mono},
	} {
		fmt.Fprintf(buf, "    @font-face { font-family: '%s'; font-weight: %s; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			ff.family, ff.weight, fonts.TTFBase64(ff.style))
	}
	buf.WriteString("  </style></defs>\n")
}

// renderFrame writes the background, every item and the caption bar.
func renderFrame(buf *bytes.Buffer, f scene.Frame, vp Viewport, c config) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n", vp.Width, vp.Height, c.theme.Background.Hex())
	for _, it := range f.Items {
		renderItem(buf, it, vp)
	}
	if c.captions {
		renderCaption(buf, f.Caption, vp, c.theme)
	}
}

func renderItem(buf *bytes.Buffer, it scene.Item, vp Viewport) {
	if it.Kind.IsText() {
		renderText(buf, it, vp)
		return
	}

	stroke, fill := it.StrokeColor(), it.FillColor()
	sw := vp.StrokePx(it.Element)
	full := it.Progress >= 1

	switch {
	case full && it.Kind == scene.KindRect, full && it.Kind == scene.KindRoundRect:
		b := it.Bounds()
		x, y := vp.P(scene.V(b.Min.X, b.Max.Y))
		rx := 0.0
		if it.Kind == scene.KindRoundRect {
			rx = vp.L(it.Radius)
		}
		fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f"%s%s/>`+"\n",
			x, y, vp.L(b.Width()), vp.L(b.Height()), rx, paint("fill", fill, filled(it)), strokeAttrs(stroke, sw))
	case it.Kind == scene.KindDot:
		x, y := vp.P(it.Pos)
		fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f"%s/>`+"\n", x, y, vp.L(it.Radius), paint("fill", fill, true))
	case full && it.Kind == scene.KindCircle:
		x, y := vp.P(it.Pos)
		fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f"%s%s/>`+"\n",
			x, y, vp.L(it.Radius), paint("fill", fill, filled(it)), strokeAttrs(stroke, sw))
	default:
		pts, closed := outline(it.Element)
		pts = partial(pts, closed, it.Progress)
		if len(pts) < 2 {
			return
		}
		tag := "polyline"
		if full && closed {
			tag, pts = "polygon", pts[:len(pts)-1]
		}
		fmt.Fprintf(buf, `  <%s points="%s"%s%s stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
			tag, svgPoints(pts, vp), paint("fill", fill, filled(it) && tag == "polygon"), strokeAttrs(stroke, sw))
		if it.Kind == scene.KindArrow && full {
			head := arrowHead(pts[len(pts)-2], pts[len(pts)-1])
			fmt.Fprintf(buf, `  <polygon points="%s"%s/>`+"\n", svgPoints(head[:], vp), paint("fill", stroke, true))
		}
	}
}

func renderText(buf *bytes.Buffer, it scene.Item, vp Viewport) {
	s := visibleText(it)
	if s == "" {
		return
	}
	x, y := vp.P(it.Pos)
	anchor := "middle"
	if it.Anchor == scene.AnchorLeft {
		anchor = "start"
	}
	family := fonts.FallbackFontFamily
	if it.Kind == scene.KindCode {
		family = fonts.FallbackMonoFamily
	}
	weight := ""
	if it.Bold {
		weight = ` font-weight="bold"`
	}
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="%.2f" text-anchor="%s" dominant-baseline="central"%s%s xml:space="preserve">%s</text>`+"\n",
		x, y, family, vp.FontPx(it.Element), anchor, weight, paint("fill", it.FillColor(), true), escapeXML(s))
}

func renderCaption(buf *bytes.Buffer, caption string, vp Viewport, t Theme) {
	lines := captionLines(caption, vp.Width)
	if len(lines) == 0 {
		return
	}
	size := float64(vp.Height) / 40
	barH := size * (float64(len(lines))*1.4 + 0.8)
	fmt.Fprintf(buf, `  <rect x="0" y="%.2f" width="%d" height="%.2f" fill="#000000" fill-opacity="0.70"/>`+"\n",
		float64(vp.Height)-barH, vp.Width, barH)
	for i, l := range lines {
		y := float64(vp.Height) - barH + size*(1.1+1.4*float64(i))
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="%.2f" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
			float64(vp.Width)/2, y, fonts.FallbackFontFamily, size, t.Caption.Hex(), escapeXML(l))
	}
}

// paint formats a colour attribute with its opacity, or "none".
func paint(attr string, c scene.Color, on bool) string {
	if !on || c.IsNone() {
		return fmt.Sprintf(` %s="none"`, attr)
	}
	if c.A == 255 {
		return fmt.Sprintf(` %s="%s"`, attr, c.Hex())
	}
	return fmt.Sprintf(` %s="%s" %s-opacity="%.2f"`, attr, c.Hex(), attr, c.Opacity())
}

func strokeAttrs(c scene.Color, width float64) string {
	if c.IsNone() {
		return ` stroke="none"`
	}
	return paint("stroke", c, true) + fmt.Sprintf(` stroke-width="%.2f"`, width)
}

func svgPoints(pts []scene.Vec, vp Viewport) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		x, y := vp.P(p)
		parts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
	}
	return strings.Join(parts, " ")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
