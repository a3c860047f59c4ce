package piefile

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// namedColors are the color names accepted in chart documents.
var namedColors = map[string]color.RGBA{
	"red":     {255, 0, 0, 255},
	"green":   {0, 255, 0, 255},
	"blue":    {0, 0, 255, 255},
	"purple":  {128, 0, 128, 255},
	"orange":  {255, 128, 0, 255},
	"yellow":  {255, 255, 0, 255},
	"cyan":    {0, 255, 255, 255},
	"magenta": {255, 0, 255, 255},
	"brown":   {153, 102, 51, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
	"black":   {0, 0, 0, 255},
	"white":   {255, 255, 255, 255},
}

// ParseColor parses "#rgb", "#rrggbb" (the "#" is optional) or a color name.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color")
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}, nil
}

// FormatColor returns the color name if it has one, else "#rrggbb".
func FormatColor(c color.RGBA) string {
	for _, name := range []string{"red", "green", "blue", "purple", "orange", "yellow",
		"cyan", "magenta", "brown", "gray", "black", "white"} {
		if namedColors[name] == c {
			return name
		}
	}
	cf := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
	return cf.Hex()
}

// Palette returns n distinct colors spread around the hue circle, for
// documents that leave slice colors out.
func Palette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		h := 360 * float64(i) / float64(max(n, 1))
		r, g, b := colorful.Hcl(h, 0.6, 0.65).Clamped().RGB255()
		out[i] = color.RGBA{r, g, b, 255}
	}
	return out
}
