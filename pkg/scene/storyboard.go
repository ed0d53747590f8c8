package scene

import (
	"math"
	"slices"
	"sort"
)

// StepKind distinguishes animated steps from pauses.
type StepKind uint8

const (
	StepPlay StepKind = iota + 1
	StepWait
)

func (k StepKind) String() string {
	if k == StepWait {
		return "wait"
	}
	return "play"
}

func (k StepKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Step is one entry of the timeline.
type Step struct {
	Kind       StepKind    `json:"kind"`
	Start      float64     `json:"start"`
	Duration   float64     `json:"duration"`
	Animations []Animation `json:"animations,omitempty"`
	Caption    string      `json:"caption,omitempty"`
	Section    int         `json:"section"`
}

// End is the time the step finishes.
func (s Step) End() float64 { return s.Start + s.Duration }

// Section is a titled span of the timeline, one per compilation layer.
type Section struct {
	Title     string  `json:"title"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	FirstStep int     `json:"first_step"`
}

// Storyboard is an immutable, sampled-on-demand animation.
type Storyboard struct {
	Title    string    `json:"title"`
	Elements []Element `json:"elements"`
	Steps    []Step    `json:"steps"`
	Sections []Section `json:"sections"`
	Duration float64   `json:"duration"`

	// keys[i] is the state at the start of step i; the last entry is the
	// state after the final step.
	keys [][]State
}

// Frame is the resolved picture at one instant.
type Frame struct {
	Time    float64 `json:"time"`
	Section string  `json:"section,omitempty"`
	Caption string  `json:"caption,omitempty"`
	Items   []Item  `json:"items"`
}

// Item is a visible element with its animated state applied to the geometry.
// Opacity multiplies the alpha of the element's colours; values above 1
// brighten translucent fills.
type Item struct {
	Element
	Opacity  float64 `json:"opacity"`
	Progress float64 `json:"progress"`
}

// StrokeColor is the stroke with the item's opacity applied.
func (it Item) StrokeColor() Color { return it.Stroke.Alpha(it.Stroke.Opacity() * it.Opacity) }

// FillColor is the fill with the item's opacity applied.
func (it Item) FillColor() Color { return it.Fill.Alpha(it.Fill.Opacity() * it.Opacity) }

// StepAt returns the index of the step running at t, or len(Steps) once the
// timeline is over.
func (s *Storyboard) StepAt(t float64) int {
	return sort.Search(len(s.Steps), func(i int) bool { return s.Steps[i].End() > t })
}

// SectionAt returns the index of the section containing t, or -1.
func (s *Storyboard) SectionAt(t float64) int {
	for i := len(s.Sections) - 1; i >= 0; i-- {
		if t >= s.Sections[i].Start {
			return i
		}
	}
	return -1
}

// At samples the storyboard at t seconds. t is clamped to the timeline.
func (s *Storyboard) At(t float64) Frame {
	t = max(0, min(t, s.Duration))
	i := s.StepAt(t)
	state := slices.Clone(s.keys[i])

	f := Frame{Time: t}
	if i < len(s.Steps) {
		step := s.Steps[i]
		f.Caption = step.Caption
		for _, a := range step.Animations {
			alpha := a.at(t - step.Start)
			for k, e := range a.elems {
				state[e] = a.blend(state[e], a.from[k], a.to[k], alpha)
			}
		}
	} else if n := len(s.Steps); n > 0 {
		f.Caption = s.Steps[n-1].Caption
	}
	if sec := s.SectionAt(t); sec >= 0 {
		f.Section = s.Sections[sec].Title
	}

	for j, st := range state {
		if !st.Visible || st.Opacity <= 0 {
			continue
		}
		f.Items = append(f.Items, resolve(s.Elements[j], st))
	}
	slices.SortStableFunc(f.Items, func(a, b Item) int { return a.Z - b.Z })
	return f
}

func resolve(e Element, st State) Item {
	e.Stroke, e.Fill = st.Stroke, st.Fill
	e = e.ScaleAbout(st.Scale, e.Center()).Shift(st.Offset)
	return Item{Element: e, Opacity: max(0, st.Opacity), Progress: clamp01(st.Progress)}
}

// FrameCount is the number of frames sampled at fps.
func (s *Storyboard) FrameCount(fps float64) int {
	return max(1, int(math.Ceil(s.Duration*fps)))
}

// Frames samples the whole timeline uniformly at fps.
func (s *Storyboard) Frames(fps float64) []Frame {
	n := s.FrameCount(fps)
	frames := make([]Frame, n)
	for i := range frames {
		frames[i] = s.At(float64(i) / fps)
	}
	return frames
}

// KeyFrames returns one frame per section, sampled just before the section's
// last step so that its content is fully on screen. Storyboards without
// sections yield the frame at the midpoint.
func (s *Storyboard) KeyFrames() []Frame {
	if len(s.Sections) == 0 {
		return []Frame{s.At(s.Duration / 2)}
	}
	frames := make([]Frame, 0, len(s.Sections))
	for _, sec := range s.Sections {
		t := sec.Start
		if last := s.StepAt(sec.End) - 1; last >= sec.FirstStep && last < len(s.Steps) {
			t = s.Steps[last].Start
		}
		frames = append(frames, s.At(t))
	}
	return frames
}
