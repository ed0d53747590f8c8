package scene

import (
	"slices"

	"github.com/qrying/stackreel/pkg/errors"
)

// Builder records a storyboard step by step. Like circuit.Builder it keeps
// the first error and turns later calls into no-ops; Build reports it.
type Builder struct {
	title    string
	elements []Element
	index    map[string]int
	state    []State
	steps    []Step
	keys     [][]State
	sections []Section
	caption  string
	now      float64
	err      error
}

// NewBuilder starts an empty storyboard.
func NewBuilder(title string) *Builder {
	return &Builder{title: title, index: make(map[string]int)}
}

func (b *Builder) fail(code errors.Code, format string, args ...any) *Builder {
	if b.err == nil {
		b.err = errors.New(code, format, args...)
	}
	return b
}

// Add registers elements. They stay hidden until shown or animated in.
func (b *Builder) Add(elems ...Element) *Builder {
	if b.err != nil {
		return b
	}
	for _, e := range elems {
		if e.ID == "" {
			return b.fail(errors.ErrCodeInvalidInput, "element of kind %s has no id", e.Kind)
		}
		if _, dup := b.index[e.ID]; dup {
			return b.fail(errors.ErrCodeInvalidInput, "duplicate element id %q", e.ID)
		}
		b.index[e.ID] = len(b.elements)
		b.elements = append(b.elements, e)
		b.state = append(b.state, restState(e))
	}
	return b
}

// AddWidget registers every element of the widgets.
func (b *Builder) AddWidget(ws ...Widget) *Builder {
	for _, w := range ws {
		b.Add(w.Elements...)
	}
	return b
}

// Show makes targets visible immediately.
func (b *Builder) Show(targets ...string) *Builder {
	idx, ok := b.resolve(targets)
	if !ok {
		return b
	}
	for _, i := range idx {
		b.state[i].Visible, b.state[i].Opacity = true, 1
	}
	return b
}

// Remove hides targets immediately and resets their animated state.
func (b *Builder) Remove(targets ...string) *Builder {
	idx, ok := b.resolve(targets)
	if !ok {
		return b
	}
	for _, i := range idx {
		b.state[i] = restState(b.elements[i])
	}
	return b
}

// Caption sets the narration attached to the following steps.
func (b *Builder) Caption(text string) *Builder {
	b.caption = text
	return b
}

// Section starts a named section at the current time.
func (b *Builder) Section(title string) *Builder {
	if b.err != nil {
		return b
	}
	if n := len(b.sections); n > 0 {
		b.sections[n-1].End = b.now
	}
	b.sections = append(b.sections, Section{Title: title, Start: b.now, End: b.now, FirstStep: len(b.steps)})
	return b
}

// Play runs animations together. The step lasts as long as the longest one.
func (b *Builder) Play(anims ...Animation) *Builder {
	if b.err != nil || len(anims) == 0 {
		return b
	}
	step := Step{Kind: StepPlay, Start: b.now, Caption: b.caption}
	for _, a := range anims {
		idx, ok := b.resolve(a.Targets)
		if !ok {
			return b
		}
		if a.Kind == AnimFadeOut {
			idx = slices.DeleteFunc(idx, func(i int) bool { return !b.state[i].Visible })
		}
		if a.Kind == AnimScale || a.Kind == AnimPulse || (a.Kind == AnimFadeIn && a.Factor != 0) {
			if a.Factor <= 0 {
				return b.fail(errors.ErrCodeInvalidInput, "%s: scale factor must be positive, got %g", a.Kind, a.Factor)
			}
		}
		a.Targets = slices.Clone(a.Targets)
		a.elems = idx
		a.from = make([]State, len(idx))
		a.to = make([]State, len(idx))
		pivot := b.pivot(idx)
		for k, i := range idx {
			center := b.centerOf(i)
			a.from[k] = a.sourceState(b.state[i], center, pivot)
			a.to[k] = a.targetState(a.from[k], center, pivot)
		}
		step.Duration = max(step.Duration, a.RunTime)
		step.Animations = append(step.Animations, a)
	}
	b.push(step)
	for _, a := range step.Animations {
		alpha := a.finalAlpha()
		for k, i := range a.elems {
			b.state[i] = a.blend(b.state[i], a.from[k], a.to[k], alpha)
		}
	}
	return b
}

// Wait holds the current frame for d seconds.
func (b *Builder) Wait(d float64) *Builder {
	if b.err != nil {
		return b
	}
	if d <= 0 {
		return b.fail(errors.ErrCodeInvalidInput, "wait duration must be positive, got %g", d)
	}
	b.push(Step{Kind: StepWait, Start: b.now, Duration: d, Caption: b.caption})
	return b
}

func (b *Builder) push(s Step) {
	s.Section = len(b.sections) - 1
	b.keys = append(b.keys, slices.Clone(b.state))
	b.steps = append(b.steps, s)
	b.now += s.Duration
}

// Now is the current end of the timeline in seconds.
func (b *Builder) Now() float64 { return b.now }

// Err returns the first error recorded.
func (b *Builder) Err() error { return b.err }

// Element returns the registered element with the given id.
func (b *Builder) Element(id string) (Element, bool) {
	i, ok := b.index[id]
	if !ok {
		return Element{}, false
	}
	return b.elements[i], true
}

// Visible lists the IDs of every element currently on screen.
func (b *Builder) Visible() []string {
	var ids []string
	for i, s := range b.state {
		if s.Visible {
			ids = append(ids, b.elements[i].ID)
		}
	}
	return ids
}

// Center returns the current joint centre of targets, including any moves
// already played.
func (b *Builder) Center(targets ...string) Vec {
	idx, ok := b.resolve(targets)
	if !ok || len(idx) == 0 {
		return Origin
	}
	return b.pivot(idx)
}

func (b *Builder) centerOf(i int) Vec {
	return b.elements[i].Center().Add(b.state[i].Offset)
}

func (b *Builder) pivot(idx []int) Vec {
	bb := emptyBounds()
	for _, i := range idx {
		eb := b.elements[i].Bounds()
		off := b.state[i].Offset
		bb = bb.Union(Bounds{Min: eb.Min.Add(off), Max: eb.Max.Add(off)})
	}
	return bb.Center()
}

// resolve expands targets into element indices in registration order.
func (b *Builder) resolve(targets []string) ([]int, bool) {
	if b.err != nil {
		return nil, false
	}
	seen := make(map[int]bool)
	var idx []int
	for _, t := range targets {
		if i, ok := b.index[t]; ok {
			if !seen[i] {
				seen[i] = true
				idx = append(idx, i)
			}
			continue
		}
		found := false
		for i, e := range b.elements {
			if e.under(t) {
				found = true
				if !seen[i] {
					seen[i] = true
					idx = append(idx, i)
				}
			}
		}
		if !found {
			b.fail(errors.ErrCodeInvalidInput, "unknown element %q", t)
			return nil, false
		}
	}
	slices.Sort(idx)
	return idx, true
}

// Build freezes the timeline into a storyboard.
func (b *Builder) Build() (*Storyboard, error) {
	if b.err != nil {
		return nil, b.err
	}
	sections := slices.Clone(b.sections)
	if n := len(sections); n > 0 {
		sections[n-1].End = b.now
	}
	keys := append(slices.Clone(b.keys), slices.Clone(b.state))
	return &Storyboard{
		Title:    b.title,
		Elements: slices.Clone(b.elements),
		Steps:    slices.Clone(b.steps),
		Sections: sections,
		Duration: b.now,
		keys:     keys,
	}, nil
}
