package value

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/plotline/pkg/errors"
)

// Named colors accepted by [ParseColor].
var (
	Black = RGBA{0, 0, 0, 1}
	White = RGBA{1, 1, 1, 1}
	Red   = RGBA{1, 0, 0, 1}
	Green = RGBA{0, 1, 0, 1}
	Blue  = RGBA{0, 0, 1, 1}
)

var namedColors = map[string]RGBA{
	"black":       Black,
	"white":       White,
	"red":         Red,
	"green":       Green,
	"blue":        Blue,
	"transparent": {},
}

// HSL converts hue in degrees and saturation/lightness in 0..1 to an opaque
// color. Hue wraps; saturation and lightness are clamped.
func HSL(hue, saturation, lightness float64) RGBA {
	hue = math.Mod(hue, 360)
	if hue < 0 {
		hue += 360
	}
	c := colorful.Hsl(hue, clamp01(saturation), clamp01(lightness)).Clamped()
	return FromColorful(c)
}

// FromColorful converts a go-colorful color to an opaque RGBA.
func FromColorful(c colorful.Color) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: 1}
}

// Colorful returns c without its alpha channel.
func (c RGBA) Colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Hex formats c as "#rrggbb".
func (c RGBA) Hex() string {
	return c.Colorful().Clamped().Hex()
}

// ParseColor accepts a named color or a "#rgb"/"#rrggbb" hex string.
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid color %q", s)
	}
	return FromColorful(c), nil
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
