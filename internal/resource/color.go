package resource

import (
	"fmt"
	"math"
)

const (
	initialSeed = 0.54

	// Golden ratio conjugate. Stepping the hue by it keeps consecutive
	// colors far apart without knowing how many will be needed.
	hueStep = 0.618033988749895

	saturation = 0.5
	value      = 0.95
)

type Color struct {
	R, G, B uint8
}

func (c Color) Style() string {
	return fmt.Sprintf("background-color: rgb(%d,%d,%d);", c.R, c.G, c.B)
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Colorizer hands out a deterministic sequence of display colors.
// It is not safe for concurrent use.
type Colorizer struct {
	seed float64
}

func NewColorizer() *Colorizer {
	return &Colorizer{seed: initialSeed}
}

func (c *Colorizer) Reset() {
	c.seed = initialSeed
}

// Hue returns the hue the next call to Next would use.
func (c *Colorizer) Hue() float64 {
	return math.Mod(c.seed+hueStep, 1)
}

func (c *Colorizer) Next() Color {
	c.seed = c.Hue()
	return hsvToRGB(c.seed, saturation, value)
}

func hsvToRGB(h, s, v float64) Color {
	if s == 0 {
		return Color{R: channel(v), G: channel(v), B: channel(v)}
	}

	sector := math.Floor(h * 6)
	f := h*6 - sector
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(sector) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return Color{R: channel(r), G: channel(g), B: channel(b)}
}

func channel(x float64) uint8 {
	return uint8(math.Round(x * 255))
}
