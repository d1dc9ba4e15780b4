package domain

import "fmt"

// RGB is an opaque 24-bit color.
type RGB struct {
	R, G, B uint8
}

// DefaultThemeColor is the meta bar color used until a photo color resolves.
var DefaultThemeColor = RGB{R: 0x33, G: 0x33, B: 0x33}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Scale multiplies each channel by f, truncating toward zero.
func (c RGB) Scale(f float64) RGB {
	scale := func(v uint8) uint8 {
		s := float64(v) * f
		switch {
		case s < 0:
			return 0
		case s > 255:
			return 255
		}
		return uint8(s)
	}
	return RGB{R: scale(c.R), G: scale(c.G), B: scale(c.B)}
}
