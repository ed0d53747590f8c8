package sink

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/qrying/stackreel/pkg/scene"
)

// RenderGIF samples the storyboard at the configured frame rate and encodes
// the frames as a looping GIF. Frames are rasterised concurrently, bounded by
// WithWorkers, and assembled in timeline order.
func RenderGIF(ctx context.Context, sb *scene.Storyboard, opts ...Option) ([]byte, error) {
	c := newConfig(opts...)
	frames := sb.Frames(c.fps)
	images := make([]*image.Paletted, len(frames))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, f := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := Rasterize(f, opts...)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			images[i] = quantize(img)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	delay := max(2, int(math.Round(100/c.fps)))
	anim := &gif.GIF{
		Image: images,
		Delay: make([]int, len(images)),
	}
	for i := range anim.Delay {
		anim.Delay[i] = delay
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}

// quantize maps a frame onto the fixed Plan 9 palette. A shared palette keeps
// colours stable from frame to frame; no dithering, so flat areas stay flat.
func quantize(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.Draw(p, b, img, b.Min, draw.Src)
	return p
}
