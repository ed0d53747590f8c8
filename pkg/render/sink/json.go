package sink

import (
	"encoding/json"

	"github.com/qrying/stackreel/pkg/scene"
)

// JSONVersion is bumped whenever the layout of [RenderJSON] output changes.
const JSONVersion = 1

type jsonOutput struct {
	Version  int             `json:"version"`
	Title    string          `json:"title"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	FPS      float64         `json:"fps"`
	Theme    string          `json:"theme"`
	World    jsonWorld       `json:"world"`
	Duration float64         `json:"duration"`
	Frames   int             `json:"frames"`
	Sections []scene.Section `json:"sections"`
	Steps    []scene.Step    `json:"steps"`
	Elements []scene.Element `json:"elements"`
}

type jsonWorld struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderJSON writes the storyboard timeline for external tools: every
// element in its rest state and every step with its animations. Sampling
// the timeline is left to the consumer.
func RenderJSON(sb *scene.Storyboard, opts ...Option) ([]byte, error) {
	c := newConfig(opts...)
	out := jsonOutput{
		Version:  JSONVersion,
		Title:    sb.Title,
		Width:    c.width,
		Height:   c.height,
		FPS:      c.fps,
		Theme:    c.theme.Name,
		World:    jsonWorld{Width: scene.WorldWidth, Height: scene.WorldHeight},
		Duration: sb.Duration,
		Frames:   sb.FrameCount(c.fps),
		Sections: sb.Sections,
		Steps:    sb.Steps,
		Elements: sb.Elements,
	}
	return json.MarshalIndent(out, "", "  ")
}
