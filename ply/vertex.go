package ply

import (
	"math"

	"github.com/EliCDavis/vector/vector3"
)

// DefaultColor is assigned to every vertex of a cloud without color.
var DefaultColor = [3]uint8{128, 128, 128}

// Vertex is one decoded point.
type Vertex struct {
	Position vector3.Float64
	Color    [3]uint8
}

// colorChannel converts a decoded channel value of any source type to an
// 8 bit channel, rounding to nearest and clamping to [0, 255].
func colorChannel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
