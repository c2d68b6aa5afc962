package heatgrid

import "fmt"

type ModelType string

const (
	Gaussian    ModelType = "gaussian"
	Exponential ModelType = "exponential"
	Spherical   ModelType = "spherical"
)

func ParseModelType(s string) (ModelType, error) {
	switch m := ModelType(s); m {
	case Gaussian, Exponential, Spherical:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown kriging model %q", ErrInvalidAlgorithm, s)
}

// Power is the IDW distance exponent.
type Power int

const (
	Single Power = 1
	Double Power = 2
	Triple Power = 3
)

func (p Power) Valid() bool {
	return p == Single || p == Double || p == Triple
}

func (p Power) String() string {
	switch p {
	case Single:
		return "single"
	case Double:
		return "double"
	case Triple:
		return "triple"
	}
	return fmt.Sprintf("power(%d)", int(p))
}
