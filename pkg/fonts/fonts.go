// Package fonts provides the Go font family for frame rendering.
//
// The TrueType data comes from golang.org/x/image/font/gofont and is compiled
// into the binary, so raster frames look the same on every machine. SVG
// frames embed the same data as base64 @font-face rules.
package fonts

import (
	"encoding/base64"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Style selects one face of the family.
type Style uint8

const (
	Regular Style = iota
	Bold
	Mono
)

// FontFamily is the CSS font-family name of the proportional faces.
const FontFamily = "Go"

// MonoFamily is the CSS font-family name of the monospaced face.
const MonoFamily = "Go Mono"

// FallbackFontFamily lists CSS fallbacks for viewers that ignore @font-face.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// FallbackMonoFamily lists CSS fallbacks for code.
const FallbackMonoFamily = `'Go Mono', 'DejaVu Sans Mono', Menlo, monospace`

// TTF returns the TrueType data of a style.
func TTF(s Style) []byte {
	switch s {
	case Bold:
		return gobold.TTF
	case Mono:
		return gomono.TTF
	}
	return goregular.TTF
}

// Cache for base64-encoded fonts (computed once on first access).
var (
	b64     [3]string
	b64Once [3]sync.Once
)

// TTFBase64 returns the TrueType data of a style as a base64 string.
// The result is cached after first computation.
func TTFBase64(s Style) string {
	b64Once[s].Do(func() {
		b64[s] = base64.StdEncoding.EncodeToString(TTF(s))
	})
	return b64[s]
}

// Parsed font sources, shared by every raster context.
var (
	sources    [3]*text.FontSource
	sourceErrs [3]error
	sourceOnce [3]sync.Once
)

// Source returns the parsed font source of a style. Sources are heavyweight
// and safe to share; faces are cheap and are created per size.
func Source(s Style) (*text.FontSource, error) {
	sourceOnce[s].Do(func() {
		sources[s], sourceErrs[s] = text.NewFontSource(TTF(s))
	})
	return sources[s], sourceErrs[s]
}
