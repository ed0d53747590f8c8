package formats

import (
	"bytes"
	"testing"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
)

type stubFormat struct {
	name  string
	ext   string
	magic []byte
}

func (s stubFormat) Name() string                  { return s.name }
func (s stubFormat) Supports(filename string) bool { return HasExt(filename, s.ext) }
func (s stubFormat) Decode([]byte, string) (*circuit.Circuit, error) {
	return circuit.New(1, s.name)
}

type sniffingFormat struct{ stubFormat }

func (s sniffingFormat) Sniff(data []byte) bool { return bytes.Contains(data, s.magic) }

func TestDetect(t *testing.T) {
	a := stubFormat{name: "a", ext: ".a"}
	b := stubFormat{name: "b", ext: ".b"}

	f, err := Detect("dir/file.B", a, b)
	if err != nil || f.Name() != "b" {
		t.Errorf("Detect() = %v, %v; want b", f, err)
	}
	if _, err := Detect("file.c", a, b); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Detect(.c) error = %v, want INVALID_FORMAT", err)
	}
}

func TestDetectContent(t *testing.T) {
	sniff := sniffingFormat{stubFormat{name: "sniff", ext: ".json", magic: []byte("MAGIC")}}
	plain := stubFormat{name: "plain", ext: ".json"}

	tests := []struct {
		data string
		want string
	}{
		{`{"MAGIC": 1}`, "sniff"},
		{`{"other": 1}`, "plain"},
	}
	for _, tt := range tests {
		f, err := DetectContent("x.json", []byte(tt.data), sniff, plain)
		if err != nil {
			t.Fatalf("DetectContent(%s) error = %v", tt.data, err)
		}
		if f.Name() != tt.want {
			t.Errorf("DetectContent(%s) = %s, want %s", tt.data, f.Name(), tt.want)
		}
	}
}
