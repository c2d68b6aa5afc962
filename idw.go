package heatgrid

import (
	vec2d "github.com/flywave/go3d/float64/vec2"
)

// IDWPredict estimates the value at target as the inverse-distance weighted
// mean of the valid samples. A sample sitting exactly on target wins outright.
// With no valid samples the result is 0.
func IDWPredict(target vec2d.T, samples []Sample, power Power) float64 {
	var numerator, denominator float64
	for i := range samples {
		if !samples[i].Valid() {
			continue
		}
		d := Distance(target, samples[i].Position)
		if d == 0 {
			return *samples[i].Value
		}
		w := idwWeight(d, power)
		numerator += w * *samples[i].Value
		denominator += w
	}
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func idwWeight(d float64, power Power) float64 {
	return 1.0 / powN(d, power)
}

type IDW struct {
	samples Samples
	power   Power
}

func NewIDW(samples []Sample, power Power) *IDW {
	return &IDW{samples: FilterValid(samples), power: power}
}

func (p *IDW) Predict(x, y float64) float64 {
	return IDWPredict(vec2d.T{x, y}, p.samples, p.power)
}
