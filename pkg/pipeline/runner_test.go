package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/qrying/stackreel/pkg/cache"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/observability"
)

const bellQASM = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];
h q[0];
cx q[0], q[1];
measure q -> c;
`

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func writeCircuit(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	opts := Options{Scene: "Layer2Demo", Formats: []string{"svg", "json", "dot"}, Width: 320, Height: 180}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.Storyboard == nil {
		t.Fatal("first run should build a storyboard")
	}
	for _, f := range opts.Formats {
		if len(first.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if !strings.HasPrefix(string(first.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact is not SVG")
	}
	if first.Stats.Qubits != 3 || first.Stats.CZLayers == 0 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if first.Summary.Title == "" || len(first.Summary.Sections) != 1 {
		t.Errorf("Summary = %+v", first.Summary)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.BuildHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should be served from cache: %+v", second.CacheInfo)
	}
	if second.Storyboard != nil {
		t.Error("cached run should not build a storyboard")
	}
	if second.Summary.Duration != first.Summary.Duration || second.Summary.Steps != first.Summary.Steps {
		t.Errorf("cached summary %+v differs from %+v", second.Summary, first.Summary)
	}
	if string(second.Artifacts["json"]) != string(first.Artifacts["json"]) {
		t.Error("cached json differs")
	}
	if second.RunID == first.RunID {
		t.Error("every run needs its own id")
	}
}

func TestRunnerPartialCache(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	if _, err := r.Execute(ctx, Options{Scene: "Layer1Demo", Formats: []string{"json"}}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Scene: "Layer1Demo", Formats: []string{"json", "dot"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit || res.CacheInfo.BuildHit {
		t.Errorf("dot was never rendered, CacheInfo = %+v", res.CacheInfo)
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(res.Artifacts))
	}
}

func TestRunnerRefresh(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	opts := Options{Scene: "Layer4Demo", Formats: []string{"json"}}
	if _, err := r.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = true
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit || res.Storyboard == nil {
		t.Error("Refresh should bypass the cache")
	}
}

func TestRunnerCircuitFile(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	path := writeCircuit(t, "bell.qasm", bellQASM)
	opts := Options{Scene: "Compilation", CircuitPath: path, Formats: []string{"dot"}}

	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Circuit.Name() != "bell" {
		t.Errorf("circuit name = %q, want the file name", res.Circuit.Name())
	}
	if res.Stats.Gates != 4 || res.Stats.Qubits != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.CacheInfo.LoadHit {
		t.Error("first load should miss")
	}
	if res.Storyboard != nil {
		t.Error("dot alone should not build a storyboard")
	}
	if !strings.Contains(string(res.Artifacts["dot"]), "digraph") {
		t.Errorf("dot artifact = %q", res.Artifacts["dot"])
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LoadHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v", again.CacheInfo)
	}
	if again.CircuitHash != res.CircuitHash {
		t.Error("circuit hash should be stable across cache hits")
	}
	if !again.Circuit.Sealed() {
		t.Error("loaded circuits should be sealed")
	}

	named := opts
	named.CircuitName = "Bell pair"
	res, err = r.Execute(ctx, named)
	if err != nil {
		t.Fatal(err)
	}
	if res.Circuit.Name() != "Bell pair" || res.CacheInfo.LoadHit {
		t.Errorf("explicit name: %q, LoadHit %v", res.Circuit.Name(), res.CacheInfo.LoadHit)
	}
}

func TestRunnerErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	dir := t.TempDir()
	bad := writeCircuit(t, "bad.qasm", "qreg q[1];\nfoo q[0];\n")
	unknown := writeCircuit(t, "circuit.txt", "h 0")

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing file", Options{Scene: "Compilation", CircuitPath: filepath.Join(dir, "none.qasm"), Formats: []string{"dot"}}, errors.ErrCodeFileNotFound},
		{"unknown extension", Options{Scene: "Compilation", CircuitPath: unknown, Formats: []string{"dot"}}, errors.ErrCodeInvalidFormat},
		{"unsupported gate", Options{Scene: "Compilation", CircuitPath: bad, Formats: []string{"dot"}}, errors.ErrCodeUnsupportedGate},
		{"unknown scene", Options{Scene: "Layer9Demo"}, errors.ErrCodeInvalidScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	mu                sync.Mutex
	hits, misses, set map[string]int
}

func (h *countingHooks) OnCacheHit(_ context.Context, kind string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[kind]++
}

func (h *countingHooks) OnCacheMiss(_ context.Context, kind string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses[kind]++
}

func (h *countingHooks) OnCacheSet(_ context.Context, kind string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.set[kind]++
}

func TestRunnerReportsCacheEvents(t *testing.T) {
	hooks := &countingHooks{hits: map[string]int{}, misses: map[string]int{}, set: map[string]int{}}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	r := newTestRunner(t)
	opts := Options{Scene: "Layer5Demo", Formats: []string{"json"}}
	for range 2 {
		if _, err := r.Execute(ctx, opts); err != nil {
			t.Fatal(err)
		}
	}

	if hooks.misses[cache.KindArtifact] != 1 || hooks.hits[cache.KindArtifact] != 1 {
		t.Errorf("artifact hits/misses = %d/%d, want 1/1", hooks.hits[cache.KindArtifact], hooks.misses[cache.KindArtifact])
	}
	if hooks.set[cache.KindStoryboard] != 1 || hooks.hits[cache.KindStoryboard] != 1 {
		t.Errorf("storyboard set/hits = %d/%d, want 1/1", hooks.set[cache.KindStoryboard], hooks.hits[cache.KindStoryboard])
	}
}

func TestNewRunnerNilLoggerDiscards(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Default()
	log.SetDefault(log.New(&buf))
	t.Cleanup(func() { log.SetDefault(prev) })

	r := NewRunner(nil, nil, nil)
	r.Logger.Error("should not appear")
	if _, err := r.Execute(context.Background(), Options{Scene: "Layer2Demo", Formats: []string{FormatJSON}}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nil logger wrote to the default logger: %q", buf.String())
	}
}
