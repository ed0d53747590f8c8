package native

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/formats"
)

// JSON is the native document encoded as JSON.
type JSON struct{}

func (JSON) Name() string                  { return "json" }
func (JSON) Extension() string             { return ".json" }
func (JSON) Supports(filename string) bool { return formats.HasExt(filename, ".json") }

func (JSON) Decode(data []byte, name string) (*circuit.Circuit, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "json: parse circuit document")
	}
	return doc.Circuit(name)
}

func (JSON) Encode(c *circuit.Circuit) ([]byte, error) {
	data, err := json.MarshalIndent(FromCircuit(c), "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "json: encode")
	}
	return append(data, '\n'), nil
}

// YAML is the native document encoded as YAML.
type YAML struct{}

func (YAML) Name() string                  { return "yaml" }
func (YAML) Extension() string             { return ".yaml" }
func (YAML) Supports(filename string) bool { return formats.HasExt(filename, ".yaml", ".yml") }

func (YAML) Decode(data []byte, name string) (*circuit.Circuit, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "yaml: parse circuit document")
	}
	return doc.Circuit(name)
}

func (YAML) Encode(c *circuit.Circuit) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromCircuit(c)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "yaml: encode")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "yaml: encode")
	}
	return buf.Bytes(), nil
}

// TOML is the native document encoded as TOML.
type TOML struct{}

func (TOML) Name() string                  { return "toml" }
func (TOML) Extension() string             { return ".toml" }
func (TOML) Supports(filename string) bool { return formats.HasExt(filename, ".toml") }

func (TOML) Decode(data []byte, name string) (*circuit.Circuit, error) {
	var doc Document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "toml: parse circuit document")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "toml: unknown keys %s", strings.Join(keys, ", "))
	}
	return doc.Circuit(name)
}

func (TOML) Encode(c *circuit.Circuit) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(FromCircuit(c)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "toml: encode")
	}
	return buf.Bytes(), nil
}
