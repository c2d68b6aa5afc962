package heatgrid

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Structural parameters shared by every trained variogram. They are not
// fitted from the data.
const (
	DefaultNugget = 0.0
	DefaultRange  = 100.0
)

type KrigingModel func(h, nugget, range_, sill float64) float64

func krigingGaussian(h, nugget, range_, sill float64) float64 {
	x := -pow2(h / range_)
	return nugget + (sill-nugget)*(1.0-exp(x))
}

func krigingExponential(h, nugget, range_, sill float64) float64 {
	x := -(h / range_)
	return nugget + (sill-nugget)*(1.0-exp(x))
}

func krigingSpherical(h, nugget, range_, sill float64) float64 {
	if h >= range_ {
		return sill
	}
	x := h / range_
	return nugget + (sill-nugget)*(1.5*x-0.5*pow3(x))
}

func modelFunc(model ModelType) (KrigingModel, error) {
	switch model {
	case Gaussian:
		return krigingGaussian, nil
	case Exponential:
		return krigingExponential, nil
	case Spherical:
		return krigingSpherical, nil
	}
	return nil, fmt.Errorf("%w: unknown kriging model %q", ErrInvalidAlgorithm, string(model))
}

// estimateSill uses the sample variance of the values.
func estimateSill(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.Variance(values, nil)
}

func (v *Variogram) Semivariance(h float64) float64 {
	return v.model(h, v.Nugget, v.Range, v.Sill)
}
