// Package all registers every circuit format.
//
// This package provides a convenient way to access all formats without
// importing each subpackage individually:
//
//	c, err := all.Load("ghz.qasm", "")
//	enc, err := all.FindEncoder("squin")
package all

import (
	"os"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/formats"
	"github.com/qrying/stackreel/pkg/formats/cirq"
	"github.com/qrying/stackreel/pkg/formats/native"
	"github.com/qrying/stackreel/pkg/formats/qasm"
	"github.com/qrying/stackreel/pkg/formats/squin"
)

// Formats lists every format in detection order. Cirq comes before native
// JSON so that Cirq documents saved as plain .json are recognized by content.
var Formats = []formats.Encoder{
	cirq.Format{},
	squin.Format{},
	qasm.Format{},
	native.JSON{},
	native.YAML{},
	native.TOML{},
}

// Names returns the format names in detection order.
func Names() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = f.Name()
	}
	return names
}

// FindEncoder looks up a format by name.
func FindEncoder(name string) (formats.Encoder, error) {
	for _, f := range Formats {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (available: %v)", name, Names())
}

// Find looks up a format by name.
func Find(name string) (formats.Format, error) {
	return FindEncoder(name)
}

// Detect picks the format for a file from its name and content.
func Detect(path string, data []byte) (formats.Format, error) {
	return formats.DetectContent(path, data, list()...)
}

// Decode converts data read from path. name overrides the circuit name.
func Decode(path string, data []byte, name string) (*circuit.Circuit, error) {
	f, err := Detect(path, data)
	if err != nil {
		return nil, err
	}
	return f.Decode(data, name)
}

// Load reads and converts the circuit file at path.
func Load(path, name string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "circuit file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return Decode(path, data, name)
}

func list() []formats.Format {
	out := make([]formats.Format, len(Formats))
	for i, f := range Formats {
		out[i] = f
	}
	return out
}
