package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Color is a 24-bit 0xRRGGBB color as written in configuration and hex literals.
type Color uint32

// ParseColor parses "#rrggbb", "0xrrggbb" or "rrggbb".
//
// Parameters:
//   - s: the color string
//
// Returns:
//   - Color: the parsed color
//   - error: error if the string is not a 24-bit hex color
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "#"), "0x")
	if len(hex) == 0 || len(hex) > 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(v), nil
}

// String formats the color as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// RGB returns the sRGB-encoded channels in [0, 1].
func (c Color) RGB() mgl32.Vec3 {
	return mgl32.Vec3{
		float32((c>>16)&0xff) / 255,
		float32((c>>8)&0xff) / 255,
		float32(c&0xff) / 255,
	}
}

// Linear returns the channels converted from sRGB to linear space for shading.
func (c Color) Linear() mgl32.Vec3 {
	rgb := c.RGB()
	return mgl32.Vec3{srgbToLinear(rgb[0]), srgbToLinear(rgb[1]), srgbToLinear(rgb[2])}
}

func srgbToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return float32(math.Pow((float64(v)+0.055)/1.055, 2.4))
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so colors can be written as strings in config files.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ColorFromLinear encodes linear channels in [0, 1] as an sRGB color. Channels outside the range are
// clamped.
func ColorFromLinear(r, g, b float32) Color {
	enc := func(v float32) Color {
		v = Clamp(v, 0, 1)
		if v <= 0.0031308 {
			v *= 12.92
		} else {
			v = float32(1.055*math.Pow(float64(v), 1/2.4) - 0.055)
		}
		return Color(math.Round(float64(v) * 255))
	}
	return enc(r)<<16 | enc(g)<<8 | enc(b)
}
