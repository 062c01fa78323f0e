package score

import "fmt"

// Matrix is a dense row-major float64 table: one row per structure, one
// column per alignment column.
type Matrix struct {
	r, c int
	data []float64
}

// NewMatrix allocates an r×c matrix filled with v.
func NewMatrix(r, c int, v float64) *Matrix {
	m := &Matrix{r: r, c: c, data: make([]float64, r*c)}
	if v != 0 {
		for i := range m.data {
			m.data[i] = v
		}
	}

	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.c }

// At returns element (i, j).
func (m *Matrix) At(i, j int) (float64, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, fmt.Errorf("At(%d,%d) of %dx%d: %w", i, j, m.r, m.c, ErrOutOfRange)
	}

	return m.data[i*m.c+j], nil
}

// Set assigns element (i, j).
func (m *Matrix) Set(i, j int, v float64) error {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return fmt.Errorf("Set(%d,%d) of %dx%d: %w", i, j, m.r, m.c, ErrOutOfRange)
	}
	m.data[i*m.c+j] = v

	return nil
}

// Value is the unchecked accessor for hot loops; out-of-range indices panic.
func (m *Matrix) Value(i, j int) float64 { return m.data[i*m.c+j] }

func (m *Matrix) set(i, j int, v float64) { m.data[i*m.c+j] = v }
