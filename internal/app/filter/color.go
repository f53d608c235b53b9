package filter

import (
	"fmt"
	"strconv"
	"strings"

	"logviewer/internal/app/errors"
)

// Color is the RGB display tag of a filter; it plays no part in matching
type Color struct {
	R int
	G int
	B int
}

// RGB creates a color from its components
func RGB(r, g, b int) *Color {
	return &Color{R: r, G: g, B: b}
}

// ParseColor parses the R:G:B form used in filter records
func ParseColor(s string) (Color, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("%w: '%s'", errors.ErrInvalidColor, s)
	}

	var rgb [3]int

	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Color{}, fmt.Errorf("%w: '%s': %w", errors.ErrInvalidColor, s, err)
		}

		rgb[i] = v
	}

	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// String returns the R:G:B form
func (c Color) String() string {
	return fmt.Sprintf("%d:%d:%d", c.R, c.G, c.B)
}

// Hex returns the #rrggbb form with components clamped to 0-255
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.R), clamp(c.G), clamp(c.B))
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return v
	}
}
