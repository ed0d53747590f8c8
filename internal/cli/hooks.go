package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/qrying/stackreel/pkg/observability"
)

// logHooks reports pipeline, cache and server events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
	_ observability.ServerHooks   = logHooks{}
)

// registerLogHooks routes every observability event to l.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

func (h logHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load start", "source", source)
}

func (h logHooks) OnLoadComplete(_ context.Context, source string, gates int, d time.Duration, err error) {
	h.done("load", d, err, "source", source, "gates", gates)
}

func (h logHooks) OnBuildStart(_ context.Context, scene string, qubits int) {
	h.logger.Debug("build start", "scene", scene, "qubits", qubits)
}

func (h logHooks) OnBuildComplete(_ context.Context, scene string, steps int, d time.Duration, err error) {
	h.done("build", d, err, "scene", scene, "steps", steps)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", d, err, "formats", formats)
}

func (h logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache set", "kind", kind, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status,
		"took", d.Round(time.Microsecond))
}

func (h logHooks) done(stage string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "took", d.Round(time.Millisecond))
	if err != nil {
		h.logger.Debug(stage+" failed", append(kv, "err", err)...)
		return
	}
	h.logger.Debug(stage+" done", kv...)
}
