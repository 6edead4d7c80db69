package mapping

// An Operator is a sparse weight matrix in compressed row form. Row r of the
// destination is the weighted sum of the source entries listed in
// Cols[RowStart[r]:RowStart[r+1]].
type Operator struct {
	NumRows  int
	NumCols  int
	RowStart []int
	Cols     []int
	Weights  []float64
}

// Mapped tells if a destination row receives any source value.
func (op *Operator) Mapped(r int) bool {
	return op.RowStart[r+1] > op.RowStart[r]
}

// Unmapped lists the rows without entries.
func (op *Operator) Unmapped() []int {
	var rows []int

	for r := 0; r < op.NumRows; r++ {
		if !op.Mapped(r) {
			rows = append(rows, r)
		}
	}

	return rows
}

// NumEntries returns the number of stored weights.
func (op *Operator) NumEntries() int {
	return len(op.Weights)
}

// Apply writes op * src into dst. Unmapped rows get fill.
func (op *Operator) Apply(src, dst []float64, fill float64) {
	for r := 0; r < op.NumRows; r++ {
		start, end := op.RowStart[r], op.RowStart[r+1]
		if start == end {
			dst[r] = fill
			continue
		}

		sum := 0.0
		for k := start; k < end; k++ {
			sum += op.Weights[k] * src[op.Cols[k]]
		}

		dst[r] = sum
	}
}

// operatorBuilder appends rows in order.
type operatorBuilder struct {
	op *Operator
}

func newOperatorBuilder(rows, cols int) *operatorBuilder {
	return &operatorBuilder{op: &Operator{
		NumRows:  rows,
		NumCols:  cols,
		RowStart: make([]int, 1, rows+1),
	}}
}

// addRow appends the next row. Zero weights are dropped.
func (b *operatorBuilder) addRow(cols []int, weights []float64) {
	for i, w := range weights {
		if w == 0 {
			continue
		}

		b.op.Cols = append(b.op.Cols, cols[i])
		b.op.Weights = append(b.op.Weights, w)
	}

	b.op.RowStart = append(b.op.RowStart, len(b.op.Cols))
}

func (b *operatorBuilder) build() *Operator {
	return b.op
}
