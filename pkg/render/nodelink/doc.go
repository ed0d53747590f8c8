// Package nodelink renders a circuit's gate dependency graph as a node-link
// diagram.
//
// Each gate is a node, numbered in append order, and each edge points from a
// gate to the next gate acting on a shared qubit. Gates that become CZs after
// native decomposition are coloured by CZ layer, so parallelism shows up as
// runs of one colour across the qubit lanes.
//
// # Usage
//
//	dot := nodelink.ToDOT(c, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
