// Package pipeline turns a scene name and an optional circuit file into
// rendered artifacts.
//
// The CLI and the preview server both go through this package so that they
// share defaults, validation and caching.
//
// # Architecture
//
// A run has three stages:
//
//  1. Load: read and decode the circuit file, or take the scene's built-in
//     circuit
//  2. Build: record the scene's storyboard over the circuit
//  3. Render: write the storyboard in each requested format
//
// Loaded circuits, storyboard summaries and artifacts are cached. When every
// requested artifact is already cached the storyboard is never built.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Scene:   "GHZCircuitDemo",
//	    Formats: []string{"gif", "pdf"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gif := result.Artifacts["gif"]
package pipeline

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qrying/stackreel/pkg/cache"
	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/render/sink"
	"github.com/qrying/stackreel/pkg/scene"
	"github.com/qrying/stackreel/pkg/scene/layers"
)

// Defaults shared by the CLI, the config file and the preview server.
const (
	DefaultScene  = "GHZCircuitDemo"
	DefaultWidth  = sink.DefaultWidth
	DefaultHeight = sink.DefaultHeight
	DefaultFPS    = 12.0
	DefaultTheme  = "dark"

	// DefaultAt selects the midpoint of the timeline for single-frame
	// formats.
	DefaultAt = -1.0

	MaxWidth  = 3840
	MaxHeight = 2160
	MaxFPS    = 60.0
	MaxQubits = circuit.MaxQubits
)

// Output formats.
const (
	FormatGIF  = "gif"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	// FormatDOT is the gate dependency graph in Graphviz DOT.
	FormatDOT = "dot"
	// FormatDAG is the gate dependency graph laid out by Graphviz, as SVG.
	FormatDAG = "dag"
)

// Formats lists every output format in display order.
var Formats = []string{FormatGIF, FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT, FormatDAG}

// Extension returns the file extension written for format.
func Extension(format string) string {
	switch format {
	case FormatDAG:
		return ".dag.svg"
	default:
		return "." + format
	}
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures one pipeline run.
type Options struct {
	// Load options
	Scene       string `json:"scene"`
	CircuitPath string `json:"circuit,omitempty"`
	CircuitName string `json:"circuit_name,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	FPS      float64  `json:"fps,omitempty"`
	At       float64  `json:"at"`
	Theme    string   `json:"theme,omitempty"`
	Captions bool     `json:"captions,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Workers  int      `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	RunID uuid.UUID
	Scene string

	Circuit     *circuit.Circuit
	CircuitHash string

	// Storyboard is nil when every artifact came from the cache.
	Storyboard *scene.Storyboard
	Summary    Summary

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Summary describes a storyboard without its elements. It is cached so
// that fully cached runs can still report on the animation.
type Summary struct {
	Title    string   `json:"title"`
	Duration float64  `json:"duration"`
	Steps    int      `json:"steps"`
	Elements int      `json:"elements"`
	Sections []string `json:"sections"`
}

// Summarize describes sb.
func Summarize(sb *scene.Storyboard) Summary {
	s := Summary{
		Title:    sb.Title,
		Duration: sb.Duration,
		Steps:    len(sb.Steps),
		Elements: len(sb.Elements),
	}
	for _, sec := range sb.Sections {
		s.Sections = append(s.Sections, sec.Title)
	}
	return s
}

// Stats contains timing and size information.
type Stats struct {
	Qubits     int
	Gates      int
	CZLayers   int
	LoadTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	LoadHit   bool // circuit decoded from the cache
	BuildHit  bool // storyboard build skipped
	RenderHit bool // every artifact came from the cache
}

// ValidateAndSetDefaults checks every field and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Scene == "" {
		o.Scene = DefaultScene
	}
	s, err := layers.Find(o.Scene)
	if err != nil {
		return err
	}
	if s.NeedsCircuit() && o.CircuitPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "scene %s needs a circuit file", o.Scene)
	}
	if err := errors.ValidateCircuitName(o.CircuitName); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatGIF}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 16 || o.Height < 16 || o.Width > MaxWidth || o.Height > MaxHeight {
		return errors.New(errors.ErrCodeInvalidInput, "invalid size %dx%d (must be between 16x16 and %dx%d)",
			o.Width, o.Height, MaxWidth, MaxHeight)
	}
	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if math.IsNaN(o.FPS) || o.FPS < 1 || o.FPS > MaxFPS {
		return errors.New(errors.ErrCodeInvalidInput, "invalid fps %g (must be between 1 and %g)", o.FPS, MaxFPS)
	}
	if math.IsNaN(o.At) || math.IsInf(o.At, 0) || (o.At < 0 && o.At != DefaultAt) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid frame time %gs", o.At)
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if _, err := sink.ParseTheme(o.Theme); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// FrameTime resolves At against a storyboard of the given duration.
func (o *Options) FrameTime(duration float64) float64 {
	if o.At < 0 {
		return duration / 2
	}
	return min(o.At, duration)
}

// NeedsStoryboard reports whether any requested format is drawn from the
// storyboard rather than the circuit alone.
func (o *Options) NeedsStoryboard() bool {
	return slices.ContainsFunc(o.Formats, func(f string) bool { return f != FormatDOT && f != FormatDAG })
}

// ArtifactKeyOpts returns cache key options for one format, keeping only
// the settings that format depends on.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatDOT, FormatDAG:
		k.Detailed = o.Detailed
		return k
	case FormatJSON:
		k.Width, k.Height, k.FPS, k.Theme = o.Width, o.Height, o.FPS, o.Theme
		return k
	}
	k.Width, k.Height, k.Theme, k.Captions = o.Width, o.Height, o.Theme, o.Captions
	switch format {
	case FormatGIF:
		k.FPS = o.FPS
	case FormatSVG, FormatPNG:
		k.At = o.At
	}
	return k
}

// SinkOptions converts the render settings for the sink package.
func (o *Options) SinkOptions() []sink.Option {
	theme, _ := sink.ParseTheme(o.Theme)
	opts := []sink.Option{
		sink.WithSize(o.Width, o.Height),
		sink.WithTheme(theme),
		sink.WithFPS(o.FPS),
		sink.WithWorkers(o.Workers),
	}
	if o.Captions {
		opts = append(opts, sink.WithCaptions())
	}
	return opts
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
