package feedforward

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// Evaluator applies compiled stages to input rows. It never mutates itself
// and is safe for concurrent use.
type Evaluator struct {
	stages []Stage
}

// Evaluate runs input through every stage and returns the output row.
//
// The input row holds one value per declared input, ordered by ascending
// input id. The output row holds one value per declared output, ordered by
// ascending output id. A row of the wrong width is a contract violation and
// is not checked.
func (e *Evaluator) Evaluate(input []float32) []float32 {
	x := blas32.Vector{N: len(input), Data: input, Inc: 1}
	for _, s := range e.stages {
		y := blas32.Vector{N: s.matrix.Cols, Data: make([]float32, s.matrix.Cols), Inc: 1}
		if s.matrix.Rows > 0 && s.matrix.Cols > 0 {
			// y = Mᵀx, since columns of M are the per-node weight vectors.
			blas32.Gemv(blas.Trans, 1, s.matrix, x, 0, y)
		}
		for j, fn := range s.transforms {
			y.Data[j] = fn(y.Data[j])
		}
		x = y
	}
	return x.Data
}

// EvaluateBatch evaluates rows concurrently on at most workers goroutines.
// The result at index i belongs to rows[i]. It stops scheduling new rows once
// ctx is canceled and returns the context error.
func (e *Evaluator) EvaluateBatch(ctx context.Context, rows [][]float32, workers int) ([][]float32, error) {
	out := make([][]float32, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, row := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.Evaluate(row)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Stages returns a copy of the compiled stages in evaluation order.
func (e *Evaluator) Stages() []Stage {
	return slices.Clone(e.stages)
}

// Shapes returns the dimensions of every stage in evaluation order.
func (e *Evaluator) Shapes() []Shape {
	shapes := make([]Shape, len(e.stages))
	for i, s := range e.stages {
		shapes[i] = s.Shape()
	}
	return shapes
}

// InputWidth is the number of values Evaluate expects.
func (e *Evaluator) InputWidth() int {
	if len(e.stages) == 0 {
		return 0
	}
	return e.stages[0].matrix.Rows
}

// OutputWidth is the number of values Evaluate returns.
func (e *Evaluator) OutputWidth() int {
	if len(e.stages) == 0 {
		return 0
	}
	return e.stages[len(e.stages)-1].matrix.Cols
}
