package cache

import "strings"

// Key kinds, also used as the key prefix and reported to cache hooks.
const (
	KindCircuit    = "circuit"
	KindStoryboard = "storyboard"
	KindArtifact   = "artifact"
)

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// CircuitKey addresses a parsed circuit by the hash of its source file.
	CircuitKey(sourceHash string, opts CircuitKeyOpts) string
	// StoryboardKey addresses a storyboard summary.
	StoryboardKey(scene, circuitHash string) string
	// ArtifactKey addresses one rendered output of a storyboard.
	ArtifactKey(storyboardHash string, opts ArtifactKeyOpts) string
}

// CircuitKeyOpts holds the inputs besides the file content that change the
// parsed circuit.
type CircuitKeyOpts struct {
	Format string `json:"format"`
	Name   string `json:"name,omitempty"`
}

// ArtifactKeyOpts holds the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps,omitempty"`
	At       float64 `json:"at,omitempty"`
	Theme    string  `json:"theme,omitempty"`
	Captions bool    `json:"captions,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// DefaultKeyer hashes every key component with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) CircuitKey(sourceHash string, opts CircuitKeyOpts) string {
	return hashKey(KindCircuit, sourceHash, opts)
}

func (DefaultKeyer) StoryboardKey(scene, circuitHash string) string {
	return hashKey(KindStoryboard, scene, circuitHash)
}

func (DefaultKeyer) ArtifactKey(storyboardHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, storyboardHash, opts)
}

// KindOf returns the kind of a key built by a [Keyer], ignoring any scope
// prefix, or "unknown".
func KindOf(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	switch k := parts[len(parts)-2]; k {
	case KindCircuit, KindStoryboard, KindArtifact:
		return k
	}
	return "unknown"
}
