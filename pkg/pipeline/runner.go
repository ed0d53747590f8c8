package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/qrying/stackreel/pkg/cache"
	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/formats/all"
	"github.com/qrying/stackreel/pkg/formats/native"
	"github.com/qrying/stackreel/pkg/observability"
	"github.com/qrying/stackreel/pkg/scene"
	"github.com/qrying/stackreel/pkg/scene/layers"
)

// Runner executes the pipeline with caching.
//
// A Runner holds no per-run state; goroutines may share one across runs
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the default keyer and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → build → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{
		RunID:     uuid.New(),
		Scene:     opts.Scene,
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("run", result.RunID.String()[:8])

	// Stage 1: Load
	loadStart := time.Now()
	c, hash, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Circuit, result.CircuitHash = c, hash
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Qubits = c.NumQubits()
	result.Stats.Gates = c.Len()
	result.Stats.CZLayers = len(c.CZLayers())
	result.CacheInfo.LoadHit = loadHit

	logger.Info("loaded circuit",
		"name", c.Name(),
		"qubits", c.NumQubits(),
		"gates", c.Len(),
		"cached", loadHit,
		"duration", result.Stats.LoadTime)

	// Stage 2: Build. Skipped when every artifact is cached.
	sbKey := r.Keyer.StoryboardKey(opts.Scene, hash)
	sbHash := cache.Hash([]byte(sbKey))
	cached := r.cachedArtifacts(ctx, sbHash, opts)
	summary, summaryHit := r.cachedSummary(ctx, sbKey, opts)

	if len(cached) == len(opts.Formats) && (summaryHit || !opts.NeedsStoryboard()) {
		result.Summary = summary
		result.Artifacts = cached
		result.CacheInfo.BuildHit = true
		result.CacheInfo.RenderHit = true
		logger.Info("served from cache", "formats", opts.Formats)
		return result, nil
	}

	var sb *scene.Storyboard
	if opts.NeedsStoryboard() {
		buildStart := time.Now()
		sb, err = r.Build(ctx, c, opts)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		result.Storyboard = sb
		result.Summary = Summarize(sb)
		result.Stats.BuildTime = time.Since(buildStart)
		if data, err := json.Marshal(result.Summary); err == nil {
			r.set(ctx, sbKey, data, cache.TTLStoryboard)
		}

		logger.Info("built storyboard",
			"title", sb.Title,
			"steps", len(sb.Steps),
			"length", fmt.Sprintf("%.1fs", sb.Duration),
			"duration", result.Stats.BuildTime)
	}

	// Stage 3: Render the formats the cache could not supply.
	renderStart := time.Now()
	var missing []string
	for _, f := range opts.Formats {
		if data, ok := cached[f]; ok {
			result.Artifacts[f] = data
		} else {
			missing = append(missing, f)
		}
	}
	rendered, err := r.render(ctx, sb, c, opts, missing)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	for f, data := range rendered {
		result.Artifacts[f] = data
		r.set(ctx, r.Keyer.ArtifactKey(sbHash, opts.ArtifactKeyOpts(f)), data, cache.TTLArtifact)
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = len(missing) == 0

	logger.Info("rendered outputs",
		"formats", missing,
		"cached", len(opts.Formats)-len(missing),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo returns the circuit for a run, its content hash and
// whether it was decoded from the cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*circuit.Circuit, string, bool, error) {
	source := opts.CircuitPath
	if source == "" {
		source = opts.Scene
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	c, hit, err := r.load(ctx, opts)
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, time.Since(start), err)
		return nil, "", false, err
	}
	c.Seal()
	doc, err := native.JSON{}.Encode(c)
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, time.Since(start), err)
		return nil, "", false, err
	}
	hooks.OnLoadComplete(ctx, source, c.Len(), time.Since(start), nil)
	return c, cache.Hash(doc), hit, nil
}

// Load is LoadWithCacheInfo without the hash and cache details.
func (r *Runner) Load(ctx context.Context, opts Options) (*circuit.Circuit, error) {
	c, _, _, err := r.LoadWithCacheInfo(ctx, opts)
	return c, err
}

func (r *Runner) load(ctx context.Context, opts Options) (*circuit.Circuit, bool, error) {
	if opts.CircuitPath == "" {
		s, err := layers.Find(opts.Scene)
		if err != nil {
			return nil, false, err
		}
		if s.NeedsCircuit() {
			return nil, false, errors.New(errors.ErrCodeInvalidInput, "scene %s needs a circuit file", s.Name)
		}
		return s.Circuit(), false, nil
	}

	data, err := os.ReadFile(opts.CircuitPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "circuit file %s", opts.CircuitPath)
		}
		return nil, false, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", opts.CircuitPath)
	}
	format, err := all.Detect(opts.CircuitPath, data)
	if err != nil {
		return nil, false, err
	}

	key := r.Keyer.CircuitKey(cache.Hash(data), cache.CircuitKeyOpts{
		Format: format.Name(),
		Name:   r.circuitName(opts),
	})
	if !opts.Refresh {
		if doc, ok := r.get(ctx, key); ok {
			if c, err := (native.JSON{}).Decode(doc, ""); err == nil {
				return c, true, nil
			}
		}
	}

	c, err := format.Decode(data, r.circuitName(opts))
	if err != nil {
		return nil, false, err
	}
	if doc, err := (native.JSON{}).Encode(c); err == nil {
		r.set(ctx, key, doc, cache.TTLCircuit)
	}
	return c, false, nil
}

// circuitName is the explicit name, or the file name without extension.
func (r *Runner) circuitName(opts Options) string {
	if opts.CircuitName != "" {
		return opts.CircuitName
	}
	base := filepath.Base(opts.CircuitPath)
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		base = base[:len(base)-len(ext)]
	}
	return base
}

// Build records the scene's storyboard over c.
func (r *Runner) Build(ctx context.Context, c *circuit.Circuit, opts Options) (*scene.Storyboard, error) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.Scene, c.NumQubits())
	start := time.Now()

	s, err := layers.Find(opts.Scene)
	if err != nil {
		hooks.OnBuildComplete(ctx, opts.Scene, 0, time.Since(start), err)
		return nil, err
	}
	sb, err := s.Build(c)
	steps := 0
	if sb != nil {
		steps = len(sb.Steps)
	}
	hooks.OnBuildComplete(ctx, opts.Scene, steps, time.Since(start), err)
	return sb, err
}

func (r *Runner) render(ctx context.Context, sb *scene.Storyboard, c *circuit.Circuit, opts Options, formats []string) (map[string][]byte, error) {
	if len(formats) == 0 {
		return nil, nil
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	opts.Formats = formats
	artifacts, err := Render(ctx, sb, c, opts)
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	return artifacts, err
}

func (r *Runner) cachedArtifacts(ctx context.Context, sbHash string, opts Options) map[string][]byte {
	out := make(map[string][]byte)
	if opts.Refresh {
		return out
	}
	for _, f := range opts.Formats {
		if data, ok := r.get(ctx, r.Keyer.ArtifactKey(sbHash, opts.ArtifactKeyOpts(f))); ok {
			out[f] = data
		}
	}
	return out
}

func (r *Runner) cachedSummary(ctx context.Context, key string, opts Options) (Summary, bool) {
	if opts.Refresh {
		return Summary{}, false
	}
	data, ok := r.get(ctx, key)
	if !ok {
		return Summary{}, false
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, false
	}
	return s, true
}

// get reads the cache, reporting the lookup to the cache hooks. Backend
// errors count as misses.
func (r *Runner) get(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cache.KindOf(key))
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cache.KindOf(key))
	return data, true
}

func (r *Runner) set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cache.KindOf(key), len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
