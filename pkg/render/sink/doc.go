// Package sink writes storyboards and their frames to output formats.
//
// # Formats
//
//   - [RenderSVG]: one frame as SVG, written directly to a buffer
//   - [RenderPNG]: one frame rasterised in process with gogpu/gg
//   - [RenderGIF]: the whole timeline as a looping animated GIF
//   - [RenderPDF]: a contact sheet of one key frame per section, converted
//     from SVG with rsvg-convert, or one raster page per key frame built
//     with pdfcpu when librsvg is missing
//   - [RenderJSON]: the timeline itself, for external players
//
// # Coordinates
//
// Storyboards live in a 16:9 world with the origin at the centre and y
// pointing up. A [Viewport] scales that world uniformly onto the pixel
// canvas, so fonts and strokes grow with the output size.
//
// # Options
//
// All sinks accept the same [Option] values; options a sink does not use
// are ignored.
//
//	svg := sink.RenderSVG(sb.At(12.5), sink.WithSize(1920, 1080), sink.WithCaptions())
//	gif, err := sink.RenderGIF(ctx, sb, sink.WithSize(640, 360), sink.WithFPS(10))
package sink
