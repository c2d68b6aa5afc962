package heatgrid

import (
	"fmt"

	vec2d "github.com/flywave/go3d/float64/vec2"
)

var (
	corner = []Sample{
		{ID: "sensor1", Position: vec2d.T{0, 0}, Value: Float(10)},
		{ID: "sensor2", Position: vec2d.T{10, 0}, Value: Float(20)},
		{ID: "sensor3", Position: vec2d.T{0, 10}, Value: Float(30)},
	}
)

func ExampleEvaluate() {
	spec := GridSpec{Width: 10, Height: 10, CellSize: 10}

	for _, alg := range []Algorithm{IDWAlgorithm{Power: Double}, KrigingAlgorithm{Model: Exponential}} {
		res, err := Evaluate(corner, spec, alg)
		if err != nil {
			fmt.Println(err)
			return
		}
		grid := res.(*Grid)
		fmt.Println(alg, grid.Rows, grid.Cols, grid.Value(0, 0))
	}
	// Output:
	// idw/double 1 1 10
	// kriging/exponential 1 1 10
}

func ExampleEvaluate_degenerate() {
	samples := []Sample{
		{ID: "sensor1", Position: vec2d.T{0, 0}, Value: Float(5)},
		{ID: "sensor2", Position: vec2d.T{10, 10}, Value: Float(5)},
	}
	res, _ := Evaluate(samples, GridSpec{Width: 100, Height: 100, CellSize: 10}, KrigingAlgorithm{Model: Spherical})

	switch r := res.(type) {
	case *Degenerate:
		fmt.Println(r.Reason, len(r.Samples))
	case *Grid:
		fmt.Println("grid", r.Rows, r.Cols)
	}
	// Output:
	// too_few_samples 2
}

func ExampleVariogram_Semivariance() {
	kri, _ := BuildVariogram(Spherical, []float64{1, 2, 3}, []float64{0, 10, 0}, []float64{0, 0, 10})
	fmt.Println(kri.Sill, kri.Semivariance(0), kri.Semivariance(50), kri.Semivariance(100), kri.Semivariance(150))
	// Output:
	// 1 0 0.6875 1 1
}
