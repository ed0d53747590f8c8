package pipeline

import (
	"context"
	"fmt"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/render/nodelink"
	"github.com/qrying/stackreel/pkg/render/sink"
	"github.com/qrying/stackreel/pkg/scene"
)

// Render writes sb in every format of opts.Formats. The dot and dag formats
// are drawn from c alone; sb may be nil when only those are requested.
// opts must have been through ValidateAndSetDefaults.
func Render(ctx context.Context, sb *scene.Storyboard, c *circuit.Circuit, opts Options) (map[string][]byte, error) {
	if sb == nil && opts.NeedsStoryboard() {
		return nil, fmt.Errorf("formats %v need a storyboard", opts.Formats)
	}
	sinkOpts := opts.SinkOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatGIF:
			data, err = sink.RenderGIF(ctx, sb, sinkOpts...)
		case FormatSVG:
			data = sink.RenderSVG(sb.At(opts.FrameTime(sb.Duration)), append(sinkOpts, sink.WithEmbeddedFonts())...)
		case FormatPNG:
			data, err = sink.RenderPNG(sb.At(opts.FrameTime(sb.Duration)), sinkOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, sb, sinkOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(sb, sinkOpts...)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(c, nodelink.Options{Detailed: opts.Detailed}))
		case FormatDAG:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(c, nodelink.Options{Detailed: opts.Detailed}))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
