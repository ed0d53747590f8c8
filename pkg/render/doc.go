// Package render turns storyboards and circuits into files.
//
// # Overview
//
// The rendering code is split by output family:
//
//   - Generic format conversion (SVG to PDF/PNG) in this package
//   - Storyboard frames and animations (in [sink] subpackage)
//   - Gate dependency graphs (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The PDF contact sheet and
// the dependency graph exports go through them.
//
//	svg := sink.RenderSVG(frame, opts...)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// Frame PNGs and GIF animations do not need librsvg: they are rasterised in
// process with gogpu/gg.
//
// [sink]: github.com/qrying/stackreel/pkg/render/sink
// [nodelink]: github.com/qrying/stackreel/pkg/render/nodelink
package render
