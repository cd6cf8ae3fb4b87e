package feature

// Matrix is a dense row-major feature matrix.
// Every row has exactly Cols() values.
type Matrix struct {
	data [][]float64
	cols int
}

// newMatrix allocates a zeroed matrix with one backing array.
func newMatrix(rows, cols int) *Matrix {
	backing := make([]float64, rows*cols)
	data := make([][]float64, rows)
	for i := range data {
		data[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return &Matrix{data: data, cols: cols}
}

// NewMatrix builds a matrix from rows. It returns ErrColumnOutOfRange if
// the rows are ragged. The rows are copied.
func NewMatrix(rows [][]float64, cols int) (*Matrix, error) {
	m := newMatrix(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, ErrColumnOutOfRange
		}
		copy(m.data[i], row)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int {
	return len(m.data)
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	return m.cols
}

// Row returns row i. Callers must not modify it.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i]
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i][j]
}
