// Package server implements the HTTP preview server behind "stackreel serve".
//
// Routes:
//
//	GET /healthz                      liveness and version
//	GET /scenes                       registered scenes
//	GET /scenes/{name}                storyboard summary of one scene
//	GET /scenes/{name}.gif            the animation (cached through the pipeline)
//	GET /scenes/{name}/frame.svg?t=   one frame as SVG
//	GET /scenes/{name}/frame.png?t=   one frame as PNG
//	GET /scenes/{name}/circuit.svg    gate dependency graph
//
// Render endpoints accept width, height, theme and captions query
// parameters; the GIF endpoint also accepts fps.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/singleflight"

	"github.com/qrying/stackreel/pkg/buildinfo"
	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/observability"
	"github.com/qrying/stackreel/pkg/pipeline"
	"github.com/qrying/stackreel/pkg/scene"
	"github.com/qrying/stackreel/pkg/scene/layers"
)

// Server serves scene previews. Storyboards of built-in scenes are built
// once and shared between requests; animations go through the pipeline
// runner and its cache.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger

	mu          sync.RWMutex
	storyboards map[string]built
	group       singleflight.Group
}

type built struct {
	circuit    *circuit.Circuit
	storyboard *scene.Storyboard
}

// New creates a server rendering through runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:      runner,
		logger:      logger,
		storyboards: make(map[string]built),
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/scenes", s.handleScenes)
	r.Route("/scenes/{name}", func(r chi.Router) {
		r.Get("/", s.handleScene)
		r.Get("/frame.svg", s.handleFrame(pipeline.FormatSVG))
		r.Get("/frame.png", s.handleFrame(pipeline.FormatPNG))
		r.Get("/circuit.svg", s.handleCircuit)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("preview server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// observe reports requests to the server hooks and logs them at debug level.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("Server", buildinfo.UserAgent())
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status,
			"bytes", ww.BytesWritten(), "id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// sceneInfo describes a registered scene.
type sceneInfo struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	NeedsCircuit bool   `json:"needs_circuit"`
	Circuit      string `json:"circuit,omitempty"`
	Qubits       int    `json:"qubits,omitempty"`
}

func (s *Server) handleScenes(w http.ResponseWriter, _ *http.Request) {
	var out []sceneInfo
	for _, sc := range layers.Scenes() {
		info := sceneInfo{Name: sc.Name, Description: sc.Description, NeedsCircuit: sc.NeedsCircuit()}
		if !sc.NeedsCircuit() {
			c := sc.Circuit()
			info.Circuit, info.Qubits = c.Name(), c.NumQubits()
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

// sceneDetail is the response of GET /scenes/{name}.
type sceneDetail struct {
	Name    string           `json:"name"`
	Summary pipeline.Summary `json:"summary"`
	Circuit circuitDetail    `json:"circuit"`
}

type circuitDetail struct {
	Name     string `json:"name"`
	Qubits   int    `json:"qubits"`
	Gates    int    `json:"gates"`
	Depth    int    `json:"depth"`
	CZLayers int    `json:"cz_layers"`
	Diagram  string `json:"diagram"`
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if base, ok := strings.CutSuffix(name, ".gif"); ok {
		s.handleGIF(w, r, base)
		return
	}

	b, err := s.storyboard(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	st := b.circuit.Stats()
	writeJSON(w, http.StatusOK, sceneDetail{
		Name:    name,
		Summary: pipeline.Summarize(b.storyboard),
		Circuit: circuitDetail{
			Name:     b.circuit.Name(),
			Qubits:   st.Qubits,
			Gates:    st.Gates,
			Depth:    st.Depth,
			CZLayers: st.CZLayers,
			Diagram:  b.circuit.Diagram(),
		},
	})
}

func (s *Server) handleFrame(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		opts, err := renderOptions(r, name, format)
		if err != nil {
			writeError(w, err)
			return
		}
		b, err := s.storyboard(r.Context(), name)
		if err != nil {
			writeError(w, err)
			return
		}
		artifacts, err := pipeline.Render(r.Context(), b.storyboard, b.circuit, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		writeBody(w, format, artifacts[format])
	}
}

func (s *Server) handleCircuit(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	opts, err := renderOptions(r, name, pipeline.FormatDAG)
	if err != nil {
		writeError(w, err)
		return
	}
	s.serveArtifact(w, r, opts)
}

func (s *Server) handleGIF(w http.ResponseWriter, r *http.Request, name string) {
	opts, err := renderOptions(r, name, pipeline.FormatGIF)
	if err != nil {
		writeError(w, err)
		return
	}
	s.serveArtifact(w, r, opts)
}

// serveArtifact runs the pipeline for the single format in opts. Concurrent
// identical requests share one run.
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	format := opts.Formats[0]
	key, _ := json.Marshal(opts)
	v, err, shared := s.group.Do(string(key), func() (any, error) {
		res, err := s.runner.Execute(context.WithoutCancel(r.Context()), opts)
		if err != nil {
			return nil, err
		}
		return res.Artifacts[format], nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if shared {
		s.logger.Debug("shared render", "scene", opts.Scene, "format", format)
	}
	writeBody(w, format, v.([]byte))
}

// storyboard returns the built storyboard of a scene's built-in circuit,
// building it on first use.
func (s *Server) storyboard(ctx context.Context, name string) (built, error) {
	s.mu.RLock()
	b, ok := s.storyboards[name]
	s.mu.RUnlock()
	if ok {
		return b, nil
	}

	ctx = context.WithoutCancel(ctx)
	v, err, _ := s.group.Do("storyboard:"+name, func() (any, error) {
		opts := pipeline.Options{Scene: name, Formats: []string{pipeline.FormatJSON}}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return built{}, err
		}
		c, err := s.runner.Load(ctx, opts)
		if err != nil {
			return built{}, err
		}
		sb, err := s.runner.Build(ctx, c, opts)
		if err != nil {
			return built{}, err
		}
		b := built{circuit: c, storyboard: sb}
		s.mu.Lock()
		s.storyboards[name] = b
		s.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return built{}, err
	}
	return v.(built), nil
}

// =============================================================================
// Request parsing
// =============================================================================

// renderOptions reads the render query parameters for one format.
func renderOptions(r *http.Request, name, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Scene:   name,
		Formats: []string{format},
		At:      pipeline.DefaultAt,
		Theme:   q.Get("theme"),
	}

	var err error
	if opts.Width, err = intParam(q.Get("width")); err != nil {
		return opts, err
	}
	if opts.Height, err = intParam(q.Get("height")); err != nil {
		return opts, err
	}
	if v := q.Get("fps"); v != "" {
		if opts.FPS, err = floatParam("fps", v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("t"); v != "" {
		if opts.At, err = floatParam("t", v); err != nil {
			return opts, err
		}
		if opts.At < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "t must not be negative")
		}
	}
	if v := q.Get("captions"); v != "" {
		if opts.Captions, err = strconv.ParseBool(v); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid captions value %q", v)
		}
	}
	if v := q.Get("detailed"); v != "" {
		opts.Detailed, _ = strconv.ParseBool(v)
	}
	return opts, opts.ValidateAndSetDefaults()
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid integer %q", v)
	}
	return n, nil
}

func floatParam(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, v)
	}
	return f, nil
}

// =============================================================================
// Responses
// =============================================================================

var contentTypes = map[string]string{
	pipeline.FormatGIF: "image/gif",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatDAG: "image/svg+xml",
}

func writeBody(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorBody{Error: errors.UserMessage(err), Code: string(code)})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidScene, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath,
		errors.ErrCodeQubitOutOfRange, errors.ErrCodeUnsupportedGate:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
