package layers

import (
	"slices"
	"strings"

	"github.com/qrying/stackreel/pkg/circuit"
	"github.com/qrying/stackreel/pkg/errors"
	"github.com/qrying/stackreel/pkg/scene"
)

// Scene is a named, runnable walkthrough: a default circuit plus the drivers
// played over it.
type Scene struct {
	Name        string
	Description string

	// Circuit returns the default circuit. Nil means the scene needs one
	// supplied by the caller.
	Circuit func() *circuit.Circuit
	Drivers []Driver
}

// NeedsCircuit reports whether the scene has no built-in circuit.
func (s Scene) NeedsCircuit() bool { return s.Circuit == nil }

// Build records the scene over c, or over the default circuit when c is nil.
// The circuit is sealed before any driver sees it.
func (s Scene) Build(c *circuit.Circuit) (*scene.Storyboard, error) {
	if c == nil {
		if s.Circuit == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "scene %s needs a circuit file", s.Name)
		}
		c = s.Circuit()
	}
	c.Seal()
	b := scene.NewBuilder(s.Name + ": " + c.Name())
	for _, d := range s.Drivers {
		d(b, c)
	}
	return b.Build()
}

var registry = []Scene{
	{"GHZCircuitDemo", "full pipeline on the 3-qubit GHZ state", circuit.GHZ, Pipeline},
	{"BellStateDemo", "full pipeline on the 2-qubit Bell state", circuit.Bell, Pipeline},
	{"FourQubitDemo", "full pipeline on a 4-qubit star GHZ state", circuit.FourQubitStar, Pipeline},
	{"QFTStyleDemo", "full pipeline on a 3-qubit QFT-shaped circuit", circuit.QFTStyle, Pipeline},
	{"CustomCircuitDemo", "full pipeline on the 5-qubit showcase circuit", circuit.Custom, Pipeline},
	{"Layer1Demo", "logical circuit and squin IR (GHZ)", circuit.GHZ, []Driver{Logical}},
	{"Layer2Demo", "gate decomposition to CZ (GHZ)", circuit.GHZ, []Driver{Decomposition}},
	{"Layer3Demo", "spatial routing between zones (GHZ)", circuit.GHZ, []Driver{Spatial}},
	{"Layer4Demo", "pulse waveforms (GHZ)", circuit.GHZ, []Driver{Pulse}},
	{"Layer5Demo", "hardware execution (GHZ)", circuit.GHZ, []Driver{Hardware}},
	{"Compilation", "full pipeline on a circuit file given with --circuit", nil, Pipeline},
}

// Scenes lists every registered scene in display order.
func Scenes() []Scene { return slices.Clone(registry) }

// Names lists the registered scene names in display order.
func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name
	}
	return names
}

// Find looks a scene up by exact name.
func Find(name string) (Scene, error) {
	if err := errors.ValidateSceneName(name); err != nil {
		return Scene{}, err
	}
	for _, s := range registry {
		if s.Name == name {
			return s, nil
		}
	}
	return Scene{}, errors.New(errors.ErrCodeInvalidScene,
		"unknown scene %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Build finds the named scene and records it over c.
func Build(name string, c *circuit.Circuit) (*scene.Storyboard, error) {
	s, err := Find(name)
	if err != nil {
		return nil, err
	}
	return s.Build(c)
}
