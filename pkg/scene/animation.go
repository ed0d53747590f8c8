package scene

import "fmt"

// DefaultRunTime is the length of an animation or wait when none is given.
const DefaultRunTime = 1.0

// Rate maps linear progress in [0, 1] to eased progress.
type Rate string

const (
	Smooth       Rate = "smooth"
	Linear       Rate = "linear"
	ThereAndBack Rate = "there_and_back"
)

// Apply evaluates the rate function at t, clamped to [0, 1].
func (r Rate) Apply(t float64) float64 {
	t = clamp01(t)
	switch r {
	case Linear:
		return t
	case ThereAndBack:
		if t < 0.5 {
			return smooth(2 * t)
		}
		return smooth(2 * (1 - t))
	default:
		return smooth(t)
	}
}

// smooth has zero first and second derivatives at both ends.
func smooth(t float64) float64 {
	return t * t * t * (t*(6*t-15) + 10)
}

// ParseRate accepts the rate names used in storyboard JSON.
func ParseRate(s string) (Rate, error) {
	switch r := Rate(s); r {
	case Smooth, Linear, ThereAndBack:
		return r, nil
	case "":
		return Smooth, nil
	}
	return "", fmt.Errorf("unknown rate function %q", s)
}

// AnimKind identifies what an animation changes.
type AnimKind uint8

const (
	AnimFadeIn AnimKind = iota + 1
	AnimFadeOut
	AnimCreate
	AnimMove
	AnimScale
	AnimPulse
	AnimRecolor
)

var animNames = [...]string{
	AnimFadeIn:  "fade_in",
	AnimFadeOut: "fade_out",
	AnimCreate:  "create",
	AnimMove:    "move",
	AnimScale:   "scale",
	AnimPulse:   "pulse",
	AnimRecolor: "recolor",
}

func (k AnimKind) String() string {
	if int(k) < len(animNames) && animNames[k] != "" {
		return animNames[k]
	}
	return fmt.Sprintf("anim(%d)", k)
}

func (k AnimKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Animation changes the state of its targets over RunTime seconds. Targets
// are element IDs or ID prefixes and are resolved when the animation is
// played.
type Animation struct {
	Kind    AnimKind `json:"kind"`
	Targets []string `json:"targets"`
	RunTime float64  `json:"run_time"`
	Rate    Rate     `json:"rate"`

	// To is the destination centre of an absolute move; By is the offset
	// of a relative one.
	To       *Vec    `json:"to,omitempty"`
	By       Vec     `json:"by,omitzero"`
	Factor   float64 `json:"factor,omitempty"`
	Color    Color   `json:"color,omitzero"`
	FillOnly bool    `json:"fill_only,omitempty"`

	elems []int
	from  []State
	to    []State
}

func newAnim(k AnimKind, targets []string) Animation {
	return Animation{Kind: k, Targets: targets, RunTime: DefaultRunTime, Rate: Smooth}
}

func FadeIn(targets ...string) Animation  { return newAnim(AnimFadeIn, targets) }
func FadeOut(targets ...string) Animation { return newAnim(AnimFadeOut, targets) }

// Create draws path elements progressively; other kinds fade in.
func Create(targets ...string) Animation { return newAnim(AnimCreate, targets) }

// FadeInScaled fades in while growing from factor to full size.
func FadeInScaled(factor float64, targets ...string) Animation {
	a := newAnim(AnimFadeIn, targets)
	a.Factor = factor
	return a
}

// MoveTo moves the targets so that their joint centre ends at p.
func MoveTo(p Vec, targets ...string) Animation {
	a := newAnim(AnimMove, targets)
	a.To = &p
	return a
}

// Shift moves the targets by d.
func Shift(d Vec, targets ...string) Animation {
	a := newAnim(AnimMove, targets)
	a.By = d
	return a
}

// Scale scales the targets about their joint centre.
func Scale(factor float64, targets ...string) Animation {
	a := newAnim(AnimScale, targets)
	a.Factor = factor
	return a
}

// Pulse swells the targets by factor, brightens them and returns.
func Pulse(factor float64, targets ...string) Animation {
	a := newAnim(AnimPulse, targets)
	a.Factor = factor
	a.Rate = ThereAndBack
	return a
}

// Recolor changes the stroke and fill hue of the targets, keeping their
// opacity.
func Recolor(c Color, targets ...string) Animation {
	a := newAnim(AnimRecolor, targets)
	a.Color = c
	return a
}

// Refill sets the fill of the targets, opacity included.
func Refill(c Color, targets ...string) Animation {
	a := newAnim(AnimRecolor, targets)
	a.Color = c
	a.FillOnly = true
	return a
}

// For returns a copy with the given run time.
func (a Animation) For(seconds float64) Animation {
	a.RunTime = seconds
	return a
}

// WithRate returns a copy with the given rate function.
func (a Animation) WithRate(r Rate) Animation {
	a.Rate = r
	return a
}

// State is the animated part of an element at one instant.
type State struct {
	Visible  bool    `json:"visible"`
	Opacity  float64 `json:"opacity"`
	Offset   Vec     `json:"offset"`
	Scale    float64 `json:"scale"`
	Stroke   Color   `json:"stroke"`
	Fill     Color   `json:"fill"`
	Progress float64 `json:"progress"`
}

func restState(e Element) State {
	return State{Opacity: 1, Scale: 1, Stroke: e.Stroke, Fill: e.Fill, Progress: 1}
}

// targetState returns where the animation leaves an element that starts at s.
// center is the element's current centre and pivot the joint centre of all
// targets.
func (a Animation) targetState(s State, center, pivot Vec) State {
	to := s
	switch a.Kind {
	case AnimFadeIn:
		to.Visible, to.Opacity = true, 1
	case AnimFadeOut:
		to.Opacity = 0
	case AnimCreate:
		to.Visible, to.Opacity, to.Progress = true, 1, 1
	case AnimMove:
		if a.To != nil {
			to.Offset = s.Offset.Add(a.To.Sub(pivot))
		} else {
			to.Offset = s.Offset.Add(a.By)
		}
	case AnimScale, AnimPulse:
		to.Scale = s.Scale * a.Factor
		to.Offset = s.Offset.Add(center.Sub(pivot).Mul(a.Factor - 1))
		if a.Kind == AnimPulse {
			to.Opacity = s.Opacity * 2
		}
	case AnimRecolor:
		if a.FillOnly {
			to.Fill = a.Color
		} else {
			to.Stroke, to.Fill = s.Stroke.WithRGB(a.Color), s.Fill.WithRGB(a.Color)
		}
	}
	return to
}

// sourceState returns where the animation starts an element that currently
// sits at s.
func (a Animation) sourceState(s State, center, pivot Vec) State {
	from := s
	switch a.Kind {
	case AnimFadeIn:
		if !s.Visible {
			from.Opacity = 0
		}
		from.Visible = true
		if a.Factor > 0 && a.Factor != 1 {
			from.Scale = s.Scale * a.Factor
			from.Offset = s.Offset.Add(center.Sub(pivot).Mul(a.Factor - 1))
		}
	case AnimCreate:
		from.Visible, from.Opacity, from.Progress = true, 1, 0
	}
	return from
}

// blend moves the fields this animation owns from "from" towards "to".
func (a Animation) blend(base, from, to State, t float64) State {
	switch a.Kind {
	case AnimFadeIn, AnimFadeOut:
		base.Visible = true
		base.Opacity = lerp(from.Opacity, to.Opacity, t)
		base.Scale = lerp(from.Scale, to.Scale, t)
		base.Offset = from.Offset.Lerp(to.Offset, t)
		if a.Kind == AnimFadeOut && t >= 1 {
			base.Visible, base.Opacity = false, 1
		}
	case AnimCreate:
		base.Visible, base.Opacity = true, 1
		base.Progress = lerp(from.Progress, to.Progress, t)
	case AnimMove:
		base.Offset = from.Offset.Lerp(to.Offset, t)
	case AnimScale, AnimPulse:
		base.Scale = lerp(from.Scale, to.Scale, t)
		base.Offset = from.Offset.Lerp(to.Offset, t)
		base.Opacity = lerp(from.Opacity, to.Opacity, t)
	case AnimRecolor:
		base.Stroke = from.Stroke.Lerp(to.Stroke, t)
		base.Fill = from.Fill.Lerp(to.Fill, t)
	}
	return base
}

// at evaluates the animation at elapsed seconds into its step.
func (a Animation) at(elapsed float64) float64 {
	if a.RunTime <= 0 {
		return a.Rate.Apply(1)
	}
	return a.Rate.Apply(elapsed / a.RunTime)
}

func (a Animation) finalAlpha() float64 { return a.Rate.Apply(1) }
