package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed labels each edge with the qubits it carries and each CZ node
	// with its layer number.
	Detailed bool
}

// layerColors cycles across CZ layers.
var layerColors = []string{"#F97316", "#3B82F6", "#10B981", "#EF4444", "#6B4E9B", "#F59E0B"}

// ToDOT converts the gate dependency graph of c to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Gates are numbered in append order. Gates that contribute a CZ after native
// decomposition are filled with the colour of their first CZ layer;
// measurements are drawn as ellipses.
func ToDOT(c *circuit.Circuit, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	layers := GateLayers(c)
	for i, g := range c.All() {
		label := fmtLabel(i, g, layers[i], opts.Detailed)
		attrs := fmtAttrs(g, label, layers[i])
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(i), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, d := range c.Dependencies() {
		if opts.Detailed {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", nodeID(d.From), nodeID(d.To), qubitList(d.Qubits))
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(d.From), nodeID(d.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// GateLayers maps each gate of c to the CZ layer of the first CZ it
// decomposes into, or -1 for gates without one.
func GateLayers(c *circuit.Circuit) []int {
	var flat []int
	for k, layer := range c.CZLayers() {
		for range layer {
			flat = append(flat, k)
		}
	}

	out := make([]int, c.Len())
	next := 0
	for i, g := range c.All() {
		out[i] = -1
		n := nativeCZs(g)
		if n > 0 && next < len(flat) {
			out[i] = flat[next]
		}
		next += n
	}
	return out
}

// nativeCZs is how many CZs g becomes in the native gate set.
func nativeCZs(g circuit.Gate) int {
	switch g.Kind {
	case circuit.KindCX, circuit.KindCZ:
		return 1
	case circuit.KindSWAP:
		return 3
	}
	return 0
}

func nodeID(i int) string { return fmt.Sprintf("g%d", i) }

func qubitList(qs []int) string {
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = fmt.Sprintf("q%d", q)
	}
	return strings.Join(parts, ",")
}

func fmtLabel(i int, g circuit.Gate, layer int, detailed bool) string {
	label := fmt.Sprintf("%d: %s", i, g)
	if detailed && layer >= 0 {
		label += fmt.Sprintf("\nCZ layer %d", layer+1)
	}
	return label
}

func fmtAttrs(g circuit.Gate, label string, layer int) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case g.IsMeasure():
		attrs = append(attrs, "shape=ellipse", "fillcolor=lightgrey")
	case layer >= 0:
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", layerColors[layer%len(layerColors)]), "fontcolor=white")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the drawing starts at the origin
// and carries explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
