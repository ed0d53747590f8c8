package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/qrying/stackreel/pkg/cache"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	ts := httptest.NewServer(New(runner, logger).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got map[string]string
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ok" {
		t.Errorf("body = %s", body)
	}
	if !strings.HasPrefix(resp.Header.Get("Server"), "stackreel/") {
		t.Errorf("Server header = %q", resp.Header.Get("Server"))
	}
}

func TestScenes(t *testing.T) {
	ts := newTestServer(t)
	_, body := get(t, ts, "/scenes")

	var scenes []sceneInfo
	if err := json.Unmarshal(body, &scenes); err != nil {
		t.Fatal(err)
	}
	byName := map[string]sceneInfo{}
	for _, s := range scenes {
		byName[s.Name] = s
	}
	if ghz := byName["GHZCircuitDemo"]; ghz.Qubits != 3 || ghz.NeedsCircuit {
		t.Errorf("GHZCircuitDemo = %+v", ghz)
	}
	if !byName["Compilation"].NeedsCircuit {
		t.Error("Compilation should need a circuit")
	}
}

func TestSceneDetail(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/scenes/Layer2Demo")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var got sceneDetail
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Circuit.Qubits != 3 || got.Circuit.CZLayers == 0 {
		t.Errorf("circuit = %+v", got.Circuit)
	}
	if got.Summary.Duration <= 0 || len(got.Summary.Sections) == 0 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if !strings.Contains(got.Circuit.Diagram, "q0") {
		t.Errorf("diagram = %q", got.Circuit.Diagram)
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   errors.Code
	}{
		{"unknown scene", "/scenes/NoSuchDemo", http.StatusNotFound, errors.ErrCodeInvalidScene},
		{"unknown scene gif", "/scenes/NoSuchDemo.gif", http.StatusNotFound, errors.ErrCodeInvalidScene},
		{"scene without circuit", "/scenes/Compilation/frame.svg", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad frame time", "/scenes/Layer2Demo/frame.svg?t=soon", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"negative frame time", "/scenes/Layer2Demo/frame.svg?t=-2", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad width", "/scenes/Layer2Demo/frame.png?width=8", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown theme", "/scenes/Layer2Demo/frame.svg?theme=sepia", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			var got errorBody
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("error body is not JSON: %s", body)
			}
			if got.Error == "" {
				t.Error("error message is empty")
			}
			if tt.code != "" && got.Code != string(tt.code) {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
		})
	}
}

func TestFrames(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path        string
		contentType string
		prefix      []byte
	}{
		{"/scenes/Layer2Demo/frame.svg?t=1&width=320&height=180", "image/svg+xml", []byte("<svg")},
		{"/scenes/Layer2Demo/frame.png?width=320&height=180", "image/png", []byte("\x89PNG")},
		{"/scenes/Layer2Demo/circuit.svg", "image/svg+xml", nil},
		{"/scenes/BellStateDemo.gif?width=64&height=36&fps=1", "image/gif", []byte("GIF89a")},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if tt.prefix != nil && !bytes.HasPrefix(body, tt.prefix) {
				t.Errorf("body starts with %q, want %q", body[:min(len(body), 8)], tt.prefix)
			}
			if tt.prefix == nil && !bytes.Contains(body, []byte("<svg")) {
				t.Errorf("body is not SVG: %.80s", body)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidScene, http.StatusNotFound},
		{errors.ErrCodeFileNotFound, http.StatusNotFound},
		{errors.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errors.ErrCodeQubitOutOfRange, http.StatusBadRequest},
		{errors.ErrCodeUnsupported, http.StatusNotImplemented},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
