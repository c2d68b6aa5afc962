package heatgrid

import (
	"fmt"

	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Variogram is a trained ordinary kriging model over a fixed set of points.
// After Train it is read-only and safe for concurrent Predict calls.
type Variogram struct {
	pos []vec3d.T

	Model  ModelType `json:"model"`
	Nugget float64   `json:"nugget"`
	Range  float64   `json:"range"`
	Sill   float64   `json:"sill"`
	N      int       `json:"n"`

	// M is the kriging system inverse applied to the sample values; a
	// prediction is the dot product of the target's semivariance vector with M.
	M []float64 `json:"M"`

	model    KrigingModel
	lu       *mat.LU
	singular bool
}

// New takes (x, y, value) triples.
func New(pos []vec3d.T) *Variogram {
	return &Variogram{pos: pos}
}

func BuildVariogram(model ModelType, values, xs, ys []float64) (*Variogram, error) {
	if len(values) != len(xs) || len(values) != len(ys) {
		return nil, fmt.Errorf("mismatched input lengths: %d values, %d x, %d y", len(values), len(xs), len(ys))
	}
	pos := make([]vec3d.T, len(values))
	for i := range values {
		pos[i] = vec3d.T{xs[i], ys[i], values[i]}
	}
	return New(pos).Train(model)
}

func (kri *Variogram) Train(model ModelType) (*Variogram, error) {
	fn, err := modelFunc(model)
	if err != nil {
		return nil, err
	}
	n := len(kri.pos)
	if n == 0 {
		return nil, ErrNotEnoughPoints
	}

	values := make([]float64, n)
	for i := range kri.pos {
		values[i] = kri.pos[i][2]
	}

	kri.Model = model
	kri.model = fn
	kri.Nugget = DefaultNugget
	kri.Range = DefaultRange
	kri.Sill = estimateSill(values)
	kri.N = n

	// Ordinary kriging system: semivariances bordered by the unbiasedness
	// row and column, with the Lagrange multiplier in the corner.
	m := n + 1
	A := make([]float64, m*m)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			A[i*m+j] = kri.Semivariance(pointDistance(kri.pos[i], kri.pos[j]))
			A[j*m+i] = A[i*m+j]
		}
		A[i*m+i] = kri.Semivariance(0)
		A[i*m+n] = 1
		A[n*m+i] = 1
	}

	t := make([]float64, m)
	copy(t, values)

	var ok bool
	kri.lu, ok = matrixFactorize(A, m)
	if ok {
		kri.M, ok = matrixSolve(kri.lu, t)
	}
	kri.singular = !ok
	if !ok {
		kri.M = nil
	}
	return kri, nil
}

func (kri *Variogram) Singular() bool {
	return kri.singular
}

// Predict estimates the value at (x, y). A target on top of a sample returns
// that sample's value; a singular system falls back to the nearest sample.
func (kri *Variogram) Predict(x, y float64) float64 {
	target := vec2d.T{x, y}
	nearest, dist := kri.nearest(target)
	if dist == 0 || kri.singular {
		return kri.pos[nearest][2]
	}
	return floats.Dot(kri.rhs(target), kri.M)
}

// Weights returns the kriging weights of every sample for the target.
func (kri *Variogram) Weights(x, y float64) ([]float64, error) {
	if kri.singular {
		return nil, ErrSingularSystem
	}
	w, ok := matrixSolve(kri.lu, kri.rhs(vec2d.T{x, y}))
	if !ok {
		return nil, ErrSingularSystem
	}
	return w[:kri.N], nil
}

func (kri *Variogram) rhs(target vec2d.T) []float64 {
	k := make([]float64, kri.N+1)
	for i := 0; i < kri.N; i++ {
		k[i] = kri.Semivariance(Distance(target, vec2d.T{kri.pos[i][0], kri.pos[i][1]}))
	}
	k[kri.N] = 1
	return k
}

func (kri *Variogram) nearest(target vec2d.T) (int, float64) {
	best, bestDist := 0, Distance(target, vec2d.T{kri.pos[0][0], kri.pos[0][1]})
	for i := 1; i < kri.N; i++ {
		if d := Distance(target, vec2d.T{kri.pos[i][0], kri.pos[i][1]}); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

func pointDistance(a, b vec3d.T) float64 {
	return Distance(vec2d.T{a[0], a[1]}, vec2d.T{b[0], b[1]})
}

// KrigingPredict trains a variogram on the valid samples and predicts a single
// target.
func KrigingPredict(target vec2d.T, samples []Sample, model ModelType) (float64, error) {
	valid := FilterValid(samples)
	kri, err := BuildVariogram(model, valid.Values(), valid.Xs(), valid.Ys())
	if err != nil {
		return 0, err
	}
	return kri.Predict(target[0], target[1]), nil
}
