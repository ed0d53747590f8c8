package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a straight-alpha sRGB colour.
type Color struct {
	R, G, B, A uint8
}

// Palette.
var (
	Purple = MustHex("#6B4E9B")
	Blue   = MustHex("#3B82F6")
	Red    = MustHex("#EF4444")
	Yellow = MustHex("#F59E0B")
	Green  = MustHex("#10B981")
	Gray   = MustHex("#6B7280")
	Orange = MustHex("#F97316")
	Muted  = MustHex("#BBBBBB")
	Sky    = MustHex("#58C4DD")
	White  = Color{255, 255, 255, 255}
	Black  = Color{0, 0, 0, 255}
	None   = Color{}
)

// ParseHex parses #RGB, #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q", s)
	}
	return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// MustHex is ParseHex for package-level palettes.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Alpha returns c with opacity a in [0, 1].
func (c Color) Alpha(a float64) Color {
	c.A = uint8(clamp01(a)*255 + 0.5)
	return c
}

// Opacity is the alpha channel as a fraction.
func (c Color) Opacity() float64 { return float64(c.A) / 255 }

// IsNone reports whether the colour is fully transparent.
func (c Color) IsNone() bool { return c.A == 0 }

// Hex formats the RGB channels as #rrggbb.
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func (c Color) String() string {
	if c.A == 255 {
		return c.Hex()
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// WithRGB keeps the alpha of c and takes the channels of o.
func (c Color) WithRGB(o Color) Color {
	o.A = c.A
	return o
}

// Lerp blends every channel towards o.
func (c Color) Lerp(o Color, t float64) Color {
	ch := func(a, b uint8) uint8 { return uint8(lerp(float64(a), float64(b), t) + 0.5) }
	return Color{ch(c.R, o.R), ch(c.G, o.G), ch(c.B, o.B), ch(c.A, o.A)}
}
