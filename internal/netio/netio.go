// Package netio converts between caller-side numeric containers and the
// single-precision rows evaluators work on.
package netio

import (
	"gonum.org/v1/gonum/mat"
)

// Evaluator is anything that maps an input row to an output row. Both the
// feedforward and the recurrent evaluators satisfy it.
type Evaluator interface {
	Evaluate(input []float32) []float32
}

// Adapter converts a caller type to an input row and an output row back to
// the caller type.
type Adapter[T any] interface {
	Input(v T) []float32
	Output(row []float32) T
}

// Evaluate runs e on in through adapter a.
func Evaluate[T any](e Evaluator, a Adapter[T], in T) T {
	return a.Output(e.Evaluate(a.Input(in)))
}

// Float32s passes rows through unchanged.
type Float32s struct{}

func (Float32s) Input(v []float32) []float32    { return v }
func (Float32s) Output(row []float32) []float32 { return row }

// Float64s narrows inputs to float32 and widens outputs to float64.
type Float64s struct{}

func (Float64s) Input(v []float64) []float32 {
	row := make([]float32, len(v))
	for i, x := range v {
		row[i] = float32(x)
	}
	return row
}

func (Float64s) Output(row []float32) []float64 {
	return widen(row)
}

// Vector adapts gonum column vectors.
type Vector struct{}

func (Vector) Input(v *mat.VecDense) []float32 {
	row := make([]float32, v.Len())
	for i := range row {
		row[i] = float32(v.AtVec(i))
	}
	return row
}

func (Vector) Output(row []float32) *mat.VecDense {
	if len(row) == 0 {
		return &mat.VecDense{}
	}
	return mat.NewVecDense(len(row), widen(row))
}

// RowMatrix adapts single-row gonum matrices. Input reads the first row only.
type RowMatrix struct{}

func (RowMatrix) Input(m *mat.Dense) []float32 {
	_, c := m.Dims()
	row := make([]float32, c)
	for j := range row {
		row[j] = float32(m.At(0, j))
	}
	return row
}

func (RowMatrix) Output(row []float32) *mat.Dense {
	if len(row) == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(1, len(row), widen(row))
}

func widen(row []float32) []float64 {
	out := make([]float64, len(row))
	for i, x := range row {
		out[i] = float64(x)
	}
	return out
}
