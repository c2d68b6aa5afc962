package heatgrid

import (
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

func Distance(a, b vec2d.T) float64 {
	d := vec2d.Sub(&a, &b)
	return d.Length()
}

func Clamp(p vec2d.T, area vec2d.Rect) vec2d.T {
	return vec2d.T{
		math.Max(area.Min[0], math.Min(area.Max[0], p[0])),
		math.Max(area.Min[1], math.Min(area.Max[1], p[1])),
	}
}
