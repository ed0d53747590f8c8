package sink

import (
	"math"
	"unicode/utf8"

	"github.com/qrying/stackreel/pkg/scene"
)

const (
	circleSegments = 64
	arrowTipLength = 0.15
	arrowTipWidth  = 0.1
)

// outline returns the points traced by a shape, and whether the path closes
// back on its start. Text has no outline.
func outline(e scene.Element) ([]scene.Vec, bool) {
	switch e.Kind {
	case scene.KindRect, scene.KindRoundRect:
		b := e.Bounds()
		return []scene.Vec{
			{X: b.Min.X, Y: b.Max.Y}, b.Max, {X: b.Max.X, Y: b.Min.Y}, b.Min,
		}, true
	case scene.KindCircle, scene.KindDot:
		pts := make([]scene.Vec, circleSegments)
		for i := range pts {
			a := math.Pi/2 - 2*math.Pi*float64(i)/circleSegments
			pts[i] = e.Pos.Add(scene.V(e.Radius*math.Cos(a), e.Radius*math.Sin(a)))
		}
		return pts, true
	case scene.KindPolygon:
		return e.Points, true
	case scene.KindLine, scene.KindArrow, scene.KindPolyline:
		return e.Points, false
	}
	return nil, false
}

// partial cuts a traced outline after fraction p of its length. A closed
// outline is traced back to its start.
func partial(pts []scene.Vec, closed bool, p float64) []scene.Vec {
	if len(pts) == 0 || p <= 0 {
		return nil
	}
	if closed {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}
	if p >= 1 {
		return pts
	}
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i].Sub(pts[i-1]).Len()
	}
	left := total * p
	out := []scene.Vec{pts[0]}
	for i := 1; i < len(pts); i++ {
		seg := pts[i].Sub(pts[i-1]).Len()
		if seg >= left {
			if seg > 0 {
				out = append(out, pts[i-1].Lerp(pts[i], left/seg))
			}
			break
		}
		out = append(out, pts[i])
		left -= seg
	}
	return out
}

// arrowHead returns the triangle at the end of the segment from -> to.
func arrowHead(from, to scene.Vec) [3]scene.Vec {
	d := to.Sub(from)
	l := d.Len()
	if l == 0 {
		return [3]scene.Vec{to, to, to}
	}
	u := d.Mul(1 / l)
	n := scene.V(-u.Y, u.X)
	base := to.Sub(u.Mul(min(arrowTipLength, l)))
	return [3]scene.Vec{to, base.Add(n.Mul(arrowTipWidth / 2)), base.Sub(n.Mul(arrowTipWidth / 2))}
}

// visibleText is the part of a text item drawn so far by a Create.
func visibleText(it scene.Item) string {
	if it.Progress >= 1 {
		return it.Text
	}
	n := int(math.Round(float64(utf8.RuneCountInString(it.Text)) * it.Progress))
	if n <= 0 {
		return ""
	}
	return string([]rune(it.Text)[:n])
}

// filled reports whether an item's fill should be painted. Fills appear only
// once a Create has finished tracing the outline.
func filled(it scene.Item) bool {
	if it.Fill.IsNone() || it.Kind == scene.KindLine || it.Kind == scene.KindPolyline || it.Kind == scene.KindArrow {
		return false
	}
	return it.Progress >= 1 || it.Kind == scene.KindDot
}

// captionLines wraps a caption for the bottom bar, keeping at most two lines.
func captionLines(caption string, width int) []string {
	if caption == "" {
		return nil
	}
	lines := scene.Wrap(caption, max(20, width/11))
	if len(lines) > 2 {
		lines = lines[:2]
		lines[1] += " …"
	}
	return lines
}
