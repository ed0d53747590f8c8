package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/qrying/stackreel/pkg/fonts"
	"github.com/qrying/stackreel/pkg/render"
	"github.com/qrying/stackreel/pkg/scene"
)

// contact sheet layout, in pixels of the sheet
const (
	sheetGap     = 24.0
	sheetHeader  = 64.0
	sheetLabel   = 28.0
	sheetDivisor = 2.0
)

// RenderContactSheetSVG lays the storyboard's key frames out as a grid, one
// thumbnail per section with the section title underneath.
func RenderContactSheetSVG(sb *scene.Storyboard, opts ...Option) []byte {
	c := newConfig(opts...)
	frames := sb.KeyFrames()
	cols := min(c.columns, max(1, len(frames)))
	rows := (len(frames) + cols - 1) / cols

	tw, th := float64(c.width)/sheetDivisor, float64(c.height)/sheetDivisor
	width := float64(cols)*tw + float64(cols+1)*sheetGap
	height := sheetHeader + float64(rows)*(th+sheetLabel+sheetGap) + sheetGap

	vp := NewViewport(c.width, c.height)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	renderDefs(&buf, c.embedFonts)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#ffffff"/>`+"\n", width, height)
	fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="28" font-weight="bold" fill="#111111">%s</text>`+"\n",
		sheetGap, sheetHeader*0.6, fonts.FallbackFontFamily, escapeXML(sb.Title))

	for i, f := range frames {
		col, row := i%cols, i/cols
		x := sheetGap + float64(col)*(tw+sheetGap)
		y := sheetHeader + float64(row)*(th+sheetLabel+sheetGap)
		fmt.Fprintf(&buf, `  <svg x="%.1f" y="%.1f" width="%.1f" height="%.1f" viewBox="0 0 %d %d">`+"\n",
			x, y, tw, th, c.width, c.height)
		renderFrame(&buf, f, vp, config{theme: c.theme})
		buf.WriteString("  </svg>\n")
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-family="%s" font-size="16" fill="#333333">%d. %s (%.1fs)</text>`+"\n",
			x, y+th+sheetLabel*0.7, fonts.FallbackFontFamily, i+1, escapeXML(f.Section), f.Time)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderPDF renders the contact sheet as PDF. With librsvg installed the
// vector sheet is converted by rsvg-convert; otherwise each key frame is
// rasterised and placed on its own page.
func RenderPDF(ctx context.Context, sb *scene.Storyboard, opts ...Option) ([]byte, error) {
	if render.HasConverter() {
		return render.ToPDF(ctx, RenderContactSheetSVG(sb, opts...))
	}
	return RenderPDFPages(ctx, sb, opts...)
}

// RenderPDFPages rasterises the key frames and imports them as PDF pages,
// one per section, with pdfcpu.
func RenderPDFPages(ctx context.Context, sb *scene.Storyboard, opts ...Option) ([]byte, error) {
	frames := sb.KeyFrames()
	imgs := make([]io.Reader, 0, len(frames))
	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := RenderPNG(f, opts...)
		if err != nil {
			return nil, fmt.Errorf("page %q: %w", f.Section, err)
		}
		imgs = append(imgs, bytes.NewReader(data))
	}

	var buf bytes.Buffer
	if err := api.ImportImages(nil, &buf, imgs, pdfcpu.DefaultImportConfig(), model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return buf.Bytes(), nil
}
