package heatgrid

import (
	"math"
)

func exp(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Exp(x)
}

func pow2(x float64) float64 {
	return x * x
}

func pow3(x float64) float64 {
	return x * x * x
}

func powN(x float64, p Power) float64 {
	switch p {
	case Single:
		return x
	case Double:
		return pow2(x)
	case Triple:
		return pow3(x)
	}
	return math.Pow(x, float64(p))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
