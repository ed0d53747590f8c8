package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/formats/all"
)

func TestConvertedPath(t *testing.T) {
	tests := []struct {
		input, ext, want string
	}{
		{"ghz.qasm", ".squin", "ghz.squin"},
		{"dir/ghz.cirq.json", ".qasm", "dir/ghz.qasm"},
		{"dir/ghz", ".yaml", "dir/ghz.yaml"},
		{".hidden", ".toml", ".hidden.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := convertedPath(tt.input, tt.ext); got != tt.want {
				t.Errorf("convertedPath(%q, %q) = %q, want %q", tt.input, tt.ext, got, tt.want)
			}
		})
	}
}

func TestRunConvert(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	in := writeCircuitFile(t, "bell.qasm", bellQASM)
	out := filepath.Join(t.TempDir(), "bell.yaml")

	if err := c.runConvert(context.Background(), in, "yaml", out, "Bell"); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	got, err := all.Load(out, "")
	if err != nil {
		t.Fatalf("converted file does not load: %v", err)
	}
	if got.NumQubits() != 2 || got.Len() != 4 {
		t.Errorf("converted circuit has %d qubits and %d gates, want 2 and 4", got.NumQubits(), got.Len())
	}
	if got.Name() != "Bell" {
		t.Errorf("Name() = %q, want Bell", got.Name())
	}
}

func TestRunConvertErrors(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	in := writeCircuitFile(t, "bell.qasm", bellQASM)

	tests := []struct {
		name   string
		to     string
		output string
		code   errors.Code
	}{
		{"unknown format", "quil", "", errors.ErrCodeInvalidFormat},
		{"overwrite input", "qasm", in, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.runConvert(context.Background(), in, tt.to, tt.output, "")
			if !errors.Is(err, tt.code) {
				t.Errorf("runConvert() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRunConvertDefaultOutput(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	in := writeCircuitFile(t, "bell.qasm", bellQASM)

	if err := c.runConvert(context.Background(), in, "json", "", ""); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	data, err := os.ReadFile(strings.TrimSuffix(in, ".qasm") + ".json")
	if err != nil {
		t.Fatalf("default output not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("default output is empty")
	}
}
