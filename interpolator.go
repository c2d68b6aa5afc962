package heatgrid

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// MinSamples is the smallest number of valid samples that can be
// interpolated. Fewer yields a Degenerate result.
const MinSamples = 3

type Interpolator interface {
	Predict(x, y float64) float64
}

var (
	_ Interpolator = &IDW{}
	_ Interpolator = &Variogram{}
)

// Algorithm is either KrigingAlgorithm or IDWAlgorithm.
type Algorithm interface {
	fmt.Stringer
	algorithm()
}

type KrigingAlgorithm struct {
	Model ModelType `json:"model"`
}

func (KrigingAlgorithm) algorithm() {}

func (a KrigingAlgorithm) String() string {
	return "kriging/" + string(a.Model)
}

type IDWAlgorithm struct {
	Power Power `json:"power"`
}

func (IDWAlgorithm) algorithm() {}

func (a IDWAlgorithm) String() string {
	return "idw/" + a.Power.String()
}

// ParseAlgorithm builds an algorithm from its configuration names. The model
// is only read for kriging and the power only for idw.
func ParseAlgorithm(name, model string, power int) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kriging":
		m, err := ParseModelType(strings.ToLower(strings.TrimSpace(model)))
		if err != nil {
			return nil, err
		}
		return KrigingAlgorithm{Model: m}, nil
	case "idw":
		p := Power(power)
		if !p.Valid() {
			return nil, fmt.Errorf("%w: idw power must be 1, 2 or 3, got %d", ErrInvalidAlgorithm, power)
		}
		return IDWAlgorithm{Power: p}, nil
	}
	return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidAlgorithm, name)
}

type DegenerateReason string

const (
	TooFewSamples DegenerateReason = "too_few_samples"
	UniformField  DegenerateReason = "uniform_field"
)

// Degenerate signals a field that cannot be interpolated. Callers render a
// flat background and the valid samples as points.
type Degenerate struct {
	Reason  DegenerateReason `json:"reason"`
	Samples Samples          `json:"samples"`
}

func (*Degenerate) result() {}

// Result is either *Grid or *Degenerate.
type Result interface {
	result()
}

type Report struct {
	Algorithm  string
	Cells      int
	Degenerate bool
	Singular   bool
	Duration   time.Duration
}

type Observer interface {
	ObserveEvaluation(Report)
}

// Evaluator runs grid evaluations. It holds no state between calls, so one
// Evaluator may serve several channels concurrently.
type Evaluator struct {
	// Workers bounds the number of rows evaluated in parallel, GOMAXPROCS
	// when zero.
	Workers  int
	Logger   *slog.Logger
	Observer Observer
}

var defaultEvaluator = &Evaluator{}

func Evaluate(samples []Sample, spec GridSpec, alg Algorithm) (Result, error) {
	return defaultEvaluator.Evaluate(samples, spec, alg)
}

func (e *Evaluator) Evaluate(samples []Sample, spec GridSpec, alg Algorithm) (Result, error) {
	start := time.Now()
	logger := e.logger()

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var train func(valid Samples) (Interpolator, bool, error)
	switch a := alg.(type) {
	case KrigingAlgorithm:
		if _, err := modelFunc(a.Model); err != nil {
			return nil, err
		}
		train = func(valid Samples) (Interpolator, bool, error) {
			kri, err := New(valid.positions()).Train(a.Model)
			if err != nil {
				return nil, false, err
			}
			return kri, kri.Singular(), nil
		}
	case IDWAlgorithm:
		if !a.Power.Valid() {
			return nil, fmt.Errorf("%w: idw power must be 1, 2 or 3, got %d", ErrInvalidAlgorithm, int(a.Power))
		}
		train = func(valid Samples) (Interpolator, bool, error) {
			return &IDW{samples: valid, power: a.Power}, false, nil
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidAlgorithm, alg)
	}

	valid := FilterValid(samples)

	if reason, ok := degeneracy(valid); ok {
		logger.Debug("degenerate field", "algorithm", alg.String(), "reason", string(reason), "samples", len(valid))
		e.observe(Report{Algorithm: alg.String(), Degenerate: true, Duration: time.Since(start)})
		return &Degenerate{Reason: reason, Samples: valid}, nil
	}

	inter, singular, err := train(valid)
	if err != nil {
		return nil, err
	}
	if singular {
		logger.Warn("singular kriging system, using nearest sample", "algorithm", alg.String(), "samples", len(valid))
	}

	grid := NewGrid(spec)
	e.resample(grid, inter)
	grid.updateRange()

	logger.Debug("grid evaluated", "algorithm", alg.String(), "rows", grid.Rows, "cols", grid.Cols, "elapsed", time.Since(start))
	e.observe(Report{
		Algorithm: alg.String(),
		Cells:     grid.Count(),
		Singular:  singular,
		Duration:  time.Since(start),
	})
	return grid, nil
}

func degeneracy(valid Samples) (DegenerateReason, bool) {
	if len(valid) < MinSamples {
		return TooFewSamples, true
	}
	if valid.uniform() {
		return UniformField, true
	}
	return "", false
}

// resample fills every cell. Rows are independent and each worker writes
// only its own slice of the grid.
func (e *Evaluator) resample(grid *Grid, inter Interpolator) {
	var g errgroup.Group
	g.SetLimit(e.workers())
	for i := 0; i < grid.Rows; i++ {
		row := grid.Coordinates[i*grid.Cols : (i+1)*grid.Cols]
		g.Go(func() error {
			for j := range row {
				row[j][2] = inter.Predict(row[j][0], row[j][1])
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Evaluator) workers() int {
	if e.Workers > 0 {
		return e.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (e *Evaluator) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return discardLogger
}

func (e *Evaluator) observe(r Report) {
	if e.Observer != nil {
		e.Observer.ObserveEvaluation(r)
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
