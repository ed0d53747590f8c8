// Package formats converts circuits between stackreel's [circuit.Circuit] and
// foreign representations.
//
// Each supported representation lives in its own subpackage and implements
// [Format]: Cirq JSON ([cirq]), squin kernel source ([squin]), OpenQASM 2.0
// ([qasm]) and the native JSON, YAML and TOML circuit documents ([native]).
// The [all] subpackage lists every format and loads files by name.
//
// Conversion is strict. A gate the circuit model cannot represent fails the
// whole conversion with UNSUPPORTED_GATE and no partial circuit is returned.
//
// [cirq]: github.com/qrying/stackreel/pkg/formats/cirq
// [squin]: github.com/qrying/stackreel/pkg/formats/squin
// [qasm]: github.com/qrying/stackreel/pkg/formats/qasm
// [native]: github.com/qrying/stackreel/pkg/formats/native
// [all]: github.com/qrying/stackreel/pkg/formats/all
package formats

import (
	"path/filepath"
	"strings"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
)

// Format decodes one foreign circuit representation.
type Format interface {
	// Name returns the format identifier (e.g., "cirq", "qasm").
	Name() string
	// Supports reports whether this format handles the given filename.
	Supports(filename string) bool
	// Decode parses data into a circuit. name overrides any name found in
	// the data; when both are empty the format's default name is used.
	Decode(data []byte, name string) (*circuit.Circuit, error)
}

// Encoder is a [Format] that can also write circuits.
type Encoder interface {
	Format
	// Encode serializes c.
	Encode(c *circuit.Circuit) ([]byte, error)
	// Extension returns the preferred file extension, including the dot.
	Extension() string
}

// Sniffer is implemented by formats that share a file extension with another
// format and need to look at the content to claim a file.
type Sniffer interface {
	Sniff(data []byte) bool
}

// Detect finds a format that supports the given file path.
// Returns an INVALID_FORMAT error if no format matches.
func Detect(path string, formats ...Format) (Format, error) {
	name := filepath.Base(path)
	for _, f := range formats {
		if f.Supports(name) {
			return f, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported circuit file: %s", name)
}

// DetectContent is like [Detect] but lets formats implementing [Sniffer]
// decline a file whose content they do not recognize.
func DetectContent(path string, data []byte, formats ...Format) (Format, error) {
	name := filepath.Base(path)
	for _, f := range formats {
		if !f.Supports(name) {
			continue
		}
		if s, ok := f.(Sniffer); ok && !s.Sniff(data) {
			continue
		}
		return f, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported circuit file: %s", name)
}

// HasExt reports whether filename ends in one of exts, case-insensitively.
func HasExt(filename string, exts ...string) bool {
	lower := strings.ToLower(filename)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

// Unsupported returns the UNSUPPORTED_GATE error used by every decoder.
func Unsupported(format, gate string) error {
	return errors.New(errors.ErrCodeUnsupportedGate, "%s: unsupported gate %s", format, gate)
}
