package sink

import (
	"slices"
	"strings"

	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/scene"
)

// Default output size, a 16:9 frame.
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// Theme sets the colours that do not come from the storyboard.
type Theme struct {
	Name       string
	Background scene.Color
	Caption    scene.Color
}

// Themes lists the built-in themes. The first one is the default.
var Themes = []Theme{
	{Name: "dark", Background: scene.Black, Caption: scene.Muted},
	{Name: "slate", Background: scene.MustHex("#1E1E2E"), Caption: scene.Muted},
	{Name: "midnight", Background: scene.MustHex("#0B1021"), Caption: scene.Sky},
}

// ThemeNames lists the names accepted by [ParseTheme].
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// ParseTheme looks a theme up by name. The empty name selects the default.
func ParseTheme(name string) (Theme, error) {
	if name == "" {
		return Themes[0], nil
	}
	i := slices.IndexFunc(Themes, func(t Theme) bool { return strings.EqualFold(t.Name, name) })
	if i < 0 {
		return Theme{}, errors.New(errors.ErrCodeInvalidInput, "unknown theme %q (available: %s)",
			name, strings.Join(ThemeNames(), ", "))
	}
	return Themes[i], nil
}

// Option configures every sink in this package.
type Option func(*config)

type config struct {
	width, height int
	theme         Theme
	captions      bool
	embedFonts    bool
	fps           float64
	workers       int
	columns       int
}

func WithSize(width, height int) Option {
	return func(c *config) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
		}
	}
}

func WithTheme(t Theme) Option { return func(c *config) { c.theme = t } }

// WithCaptions draws the frame's caption along the bottom edge.
func WithCaptions() Option { return func(c *config) { c.captions = true } }

// WithEmbeddedFonts inlines the Go fonts into SVG output.
func WithEmbeddedFonts() Option { return func(c *config) { c.embedFonts = true } }

// WithFPS sets the GIF frame rate.
func WithFPS(fps float64) Option {
	return func(c *config) {
		if fps > 0 {
			c.fps = fps
		}
	}
}

// WithWorkers bounds how many frames are rasterised at once.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithColumns sets the number of frames per row of a contact sheet.
func WithColumns(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.columns = n
		}
	}
}

func newConfig(opts ...Option) config {
	c := config{
		width:   DefaultWidth,
		height:  DefaultHeight,
		theme:   Themes[0],
		fps:     12,
		workers: 4,
		columns: 2,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Viewport maps world coordinates onto a pixel canvas. The world is scaled
// uniformly to fit and centred; y is flipped so that it grows downwards.
type Viewport struct {
	Width, Height int
	Scale         float64
}

// NewViewport fits the world into a width x height canvas.
func NewViewport(width, height int) Viewport {
	s := min(float64(width)/scene.WorldWidth, float64(height)/scene.WorldHeight)
	return Viewport{Width: width, Height: height, Scale: s}
}

// P converts a world point to pixel coordinates.
func (v Viewport) P(p scene.Vec) (x, y float64) {
	return float64(v.Width)/2 + p.X*v.Scale, float64(v.Height)/2 - p.Y*v.Scale
}

// L converts a world length to pixels.
func (v Viewport) L(d float64) float64 { return d * v.Scale }

// FontPx is the pixel size of an element's font.
func (v Viewport) FontPx(e scene.Element) float64 { return v.L(e.Em()) }

// StrokePx is the pixel width of an element's stroke, never thinner than
// half a pixel.
func (v Viewport) StrokePx(e scene.Element) float64 {
	return max(0.5, v.L(e.StrokeWidth*scene.StrokeUnit))
}
