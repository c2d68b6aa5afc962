package heatgrid

import (
	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"
)

// Sample is one sensor reading placed on the area. A nil Value means the
// sensor has not reported yet; such samples are kept for display but never
// interpolated.
type Sample struct {
	ID       string   `json:"id"`
	Position vec2d.T  `json:"position"`
	Value    *float64 `json:"value"`
}

func Float(v float64) *float64 {
	return &v
}

func (s Sample) Valid() bool {
	return s.Value != nil
}

type Samples []Sample

// FilterValid returns the samples carrying a value, in input order.
func FilterValid(samples []Sample) Samples {
	ret := make(Samples, 0, len(samples))
	for _, s := range samples {
		if s.Valid() {
			ret = append(ret, s)
		}
	}
	return ret
}

// Values, Xs and Ys assume every sample is valid.
func (s Samples) Values() []float64 {
	ret := make([]float64, len(s))
	for i := range s {
		ret[i] = *s[i].Value
	}
	return ret
}

func (s Samples) Xs() []float64 {
	ret := make([]float64, len(s))
	for i := range s {
		ret[i] = s[i].Position[0]
	}
	return ret
}

func (s Samples) Ys() []float64 {
	ret := make([]float64, len(s))
	for i := range s {
		ret[i] = s[i].Position[1]
	}
	return ret
}

func (s Samples) positions() []vec3d.T {
	ret := make([]vec3d.T, len(s))
	for i := range s {
		ret[i] = vec3d.T{s[i].Position[0], s[i].Position[1], *s[i].Value}
	}
	return ret
}

// uniform reports whether every value is exactly equal.
func (s Samples) uniform() bool {
	for i := 1; i < len(s); i++ {
		if *s[i].Value != *s[0].Value {
			return false
		}
	}
	return true
}
