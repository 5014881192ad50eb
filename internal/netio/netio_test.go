package netio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/netfab/internal/feedforward"
	"github.com/vk/netfab/internal/network"
	"gonum.org/v1/gonum/mat"
)

// halving maps 0 -> 2 and 1 -> 3 with weight 0.5 each.
func halving(t *testing.T) *feedforward.Evaluator {
	t.Helper()
	net := network.FromCodes(2, 2, "llll",
		network.NewEdge(0, 2, 0.5), network.NewEdge(1, 3, 0.5))
	e, err := feedforward.Fabricate(context.Background(), net)
	require.NoError(t, err)
	return e
}

func TestEvaluate_Adapters(t *testing.T) {
	e := halving(t)

	t.Run("float32", func(t *testing.T) {
		got := Evaluate[[]float32](e, Float32s{}, []float32{4, 6})
		assert.Equal(t, []float32{2, 3}, got)
	})

	t.Run("float64", func(t *testing.T) {
		got := Evaluate[[]float64](e, Float64s{}, []float64{4, 6})
		assert.Equal(t, []float64{2, 3}, got)
	})

	t.Run("vector", func(t *testing.T) {
		got := Evaluate[*mat.VecDense](e, Vector{}, mat.NewVecDense(2, []float64{4, 6}))
		assert.True(t, mat.Equal(mat.NewVecDense(2, []float64{2, 3}), got))
	})

	t.Run("row matrix", func(t *testing.T) {
		got := Evaluate[*mat.Dense](e, RowMatrix{}, mat.NewDense(1, 2, []float64{4, 6}))
		assert.True(t, mat.Equal(mat.NewDense(1, 2, []float64{2, 3}), got))
	})
}

func TestRowMatrix_InputReadsFirstRow(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	assert.Equal(t, []float32{1, 2, 3}, RowMatrix{}.Input(m))
}

func TestEmptyOutputs(t *testing.T) {
	v := Vector{}.Output(nil)
	assert.Equal(t, 0, v.Len())

	r, c := RowMatrix{}.Output(nil).Dims()
	assert.Zero(t, r)
	assert.Zero(t, c)

	assert.Empty(t, Float64s{}.Output(nil))
}

type stateful struct{ calls int }

func (s *stateful) Evaluate(in []float32) []float32 {
	s.calls++
	return []float32{in[0] * float32(s.calls)}
}

func TestEvaluate_AnyEvaluator(t *testing.T) {
	s := &stateful{}
	assert.Equal(t, []float64{2}, Evaluate[[]float64](s, Float64s{}, []float64{2}))
	assert.Equal(t, []float64{4}, Evaluate[[]float64](s, Float64s{}, []float64{2}))
}
