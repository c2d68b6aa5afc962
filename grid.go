package heatgrid

import (
	"fmt"
	"math"

	vec2d "github.com/flywave/go3d/float64/vec2"
	vec3d "github.com/flywave/go3d/float64/vec3"
	"gonum.org/v1/gonum/floats"
)

// MaxCells bounds the number of cells a single evaluation may produce.
const MaxCells = 1 << 24

// GridSpec describes the interpolated area in grid units. CellSize is the
// resolution ("accuracy") of the heat-map.
type GridSpec struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	CellSize float64 `json:"cellSize"`
}

func (s GridSpec) Validate() error {
	if !finite(s.Width) || !finite(s.Height) {
		return fmt.Errorf("%w: non-finite extents %gx%g", ErrInvalidGridSpec, s.Width, s.Height)
	}
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: negative extents %gx%g", ErrInvalidGridSpec, s.Width, s.Height)
	}
	if !finite(s.CellSize) || s.CellSize <= 0 {
		return fmt.Errorf("%w: cell size must be positive, got %g", ErrInvalidGridSpec, s.CellSize)
	}
	if s.Width/s.CellSize >= math.MaxInt32 || s.Height/s.CellSize >= math.MaxInt32 || s.Rows()*s.Cols() > MaxCells {
		return fmt.Errorf("%w: %gx%g at cell size %g exceeds %d cells", ErrInvalidGridSpec, s.Width, s.Height, s.CellSize, MaxCells)
	}
	return nil
}

// Rows is the number of evaluated cells along x. The lattice spanning the
// area has Rows()+1 lines, the last of which is never evaluated. When the
// width is a whole multiple of the cell size this is one more cell than the
// floor(width/cellSize)-1 the browser heat-map drew (50 rather than 49 for
// 500/10), so that a 10x10 area at cell size 10 still yields one cell.
func (s GridSpec) Rows() int {
	return cellCount(s.Width, s.CellSize)
}

func (s GridSpec) Cols() int {
	return cellCount(s.Height, s.CellSize)
}

func (s GridSpec) Area() vec2d.Rect {
	return vec2d.Rect{Max: vec2d.T{s.Width, s.Height}}
}

// Cell maps the cell index to its coordinate in grid units.
func (s GridSpec) Cell(i, j int) vec2d.T {
	return vec2d.T{float64(i) * s.CellSize, float64(j) * s.CellSize}
}

func cellCount(extent, cellSize float64) int {
	// absorbs rounding in quotients such as 0.3/0.1
	return int(math.Floor(extent/cellSize + 1e-9))
}

type Coordinates []vec3d.T

// Grid is a dense prediction grid. Coordinates are stored row-major, one
// (x, y, value) triple per cell.
type Grid struct {
	Rows        int         `json:"rows"`
	Cols        int         `json:"cols"`
	Coordinates Coordinates `json:"coordinates"`
	Minimum     float64     `json:"minimum"`
	Maximum     float64     `json:"maximum"`
}

func (*Grid) result() {}

func NewGrid(spec GridSpec) *Grid {
	rows, cols := spec.Rows(), spec.Cols()
	grid := &Grid{Rows: rows, Cols: cols, Coordinates: make(Coordinates, rows*cols)}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			c := spec.Cell(i, j)
			grid.Coordinates[i*cols+j] = vec3d.T{c[0], c[1], 0}
		}
	}
	return grid
}

func (h *Grid) Count() int {
	return len(h.Coordinates)
}

func (h *Grid) Value(row, column int) float64 {
	return h.Coordinates[row*h.Cols+column][2]
}

func (h *Grid) Values() [][]float64 {
	ret := make([][]float64, h.Rows)
	for i := range ret {
		ret[i] = make([]float64, h.Cols)
		for j := range ret[i] {
			ret[i][j] = h.Value(i, j)
		}
	}
	return ret
}

func (h *Grid) GetRange() float64 {
	return h.Maximum - h.Minimum
}

func (h *Grid) updateRange() {
	if len(h.Coordinates) == 0 {
		return
	}
	values := make([]float64, len(h.Coordinates))
	for i := range h.Coordinates {
		values[i] = h.Coordinates[i][2]
	}
	h.Minimum = floats.Min(values)
	h.Maximum = floats.Max(values)
}
