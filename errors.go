package heatgrid

import "errors"

var (
	ErrInvalidGridSpec  = errors.New("invalid grid spec")
	ErrInvalidAlgorithm = errors.New("invalid algorithm")
	ErrSingularSystem   = errors.New("singular kriging system")
	ErrNotEnoughPoints  = errors.New("not enough points")
)
