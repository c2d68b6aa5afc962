package heatgrid

import (
	"gonum.org/v1/gonum/mat"
)

// Systems with a larger condition number are treated as singular.
const conditionLimit = 1e12

func matrixFactorize(x []float64, n int) (*mat.LU, bool) {
	var lu mat.LU
	lu.Factorize(mat.NewDense(n, n, x))

	if lu.Det() == 0 {
		return &lu, false
	}
	if c := lu.Cond(); !finite(c) || c > conditionLimit {
		return &lu, false
	}
	return &lu, true
}

func matrixSolve(lu *mat.LU, b []float64) ([]float64, bool) {
	rhs := make([]float64, len(b))
	copy(rhs, b)

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, mat.NewVecDense(len(rhs), rhs)); err != nil {
		return nil, false
	}

	ret := make([]float64, len(b))
	for i := range ret {
		ret[i] = x.AtVec(i)
		if !finite(ret[i]) {
			return nil, false
		}
	}
	return ret, true
}
