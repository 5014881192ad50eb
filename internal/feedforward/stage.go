package feedforward

import (
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/vk/netfab/internal/activation"
	"github.com/vk/netfab/internal/network"
)

// Stage is one compiled step: a matrix whose columns are per-node weight
// vectors over the previous stage's values, and one transformation per column.
type Stage struct {
	matrix     blas32.General
	transforms []activation.Func
}

// Shape describes the dimensions of a compiled stage.
type Shape struct {
	// Rows is the number of values the stage consumes.
	Rows int
	// Cols is the number of values the stage produces.
	Cols int
}

// Shape returns the stage dimensions.
func (s Stage) Shape() Shape {
	return Shape{Rows: s.matrix.Rows, Cols: s.matrix.Cols}
}

// Column returns a copy of the weight vector at column j.
func (s Stage) Column(j int) []float32 {
	col := make([]float32, s.matrix.Rows)
	for i := range col {
		col[i] = s.matrix.Data[i*s.matrix.Stride+j]
	}
	return col
}

// stageBuilder accumulates the columns of one compilation round. Column
// positions index into available, the ids produced by the previous round.
type stageBuilder struct {
	available []uint64
	position  map[uint64]int

	columns    [][]float32
	transforms []activation.Func
	// ids holds the node produced or carried by each column, in construction
	// order. It becomes the available list of the next round.
	ids       []uint64
	scheduled map[uint64]struct{}
}

func newStageBuilder(available []uint64) *stageBuilder {
	position := make(map[uint64]int, len(available))
	for i, id := range available {
		position[id] = i
	}
	return &stageBuilder{
		available: available,
		position:  position,
		scheduled: make(map[uint64]struct{}),
	}
}

// weights builds the weight vector for a node with the given incoming edges.
// It reports false when some source is not available this round. Parallel
// edges from one source accumulate.
func (b *stageBuilder) weights(incoming []network.Edge) ([]float32, bool) {
	vec := make([]float32, len(b.available))
	for _, e := range incoming {
		i, ok := b.position[e.Start()]
		if !ok {
			return nil, false
		}
		vec[i] += e.Weight()
	}
	return vec, true
}

// compute schedules id as produced by this round.
func (b *stageBuilder) compute(id uint64, vec []float32, fn activation.Func) {
	b.columns = append(b.columns, vec)
	b.transforms = append(b.transforms, fn)
	b.ids = append(b.ids, id)
	b.scheduled[id] = struct{}{}
}

// carry schedules an available id to be passed through unchanged. Ids that
// are not available or already scheduled this round are ignored. It reports
// whether a column was added.
func (b *stageBuilder) carry(id uint64) bool {
	i, ok := b.position[id]
	if !ok {
		return false
	}
	if _, done := b.scheduled[id]; done {
		return false
	}
	vec := make([]float32, len(b.available))
	vec[i] = 1
	b.compute(id, vec, activation.Identity)
	return true
}

// selectColumns keeps only the columns of wanted, in wanted order. It reports
// false if some wanted id has no column.
func (b *stageBuilder) selectColumns(wanted []uint64) bool {
	index := make(map[uint64]int, len(b.ids))
	for j, id := range b.ids {
		index[id] = j
	}

	columns := make([][]float32, 0, len(wanted))
	transforms := make([]activation.Func, 0, len(wanted))
	for _, id := range wanted {
		j, ok := index[id]
		if !ok {
			return false
		}
		columns = append(columns, b.columns[j])
		transforms = append(transforms, b.transforms[j])
	}

	b.columns, b.transforms, b.ids = columns, transforms, wanted
	return true
}

// stage promotes the accumulated columns to a row-major matrix with one row
// per available id and one column per scheduled id.
func (b *stageBuilder) stage() Stage {
	rows, cols := len(b.available), len(b.columns)
	stride := max(cols, 1)
	data := make([]float32, rows*stride)
	for j, col := range b.columns {
		for i, w := range col {
			data[i*stride+j] = w
		}
	}
	return Stage{
		matrix: blas32.General{
			Rows:   rows,
			Cols:   cols,
			Stride: stride,
			Data:   data,
		},
		transforms: b.transforms,
	}
}
