// Package features holds the ordered-column numeric frame passed to
// regression models and the schema alignment that keeps heterogeneous model
// artifacts callable as their expected column sets drift.
package features

// Frame is a single observation as an ordered list of named columns.
// Column order is significant: a model without embedded feature names
// consumes the values positionally.
type Frame struct {
	columns []string
	values  map[string]float64
}

// New builds a frame from parallel column and value slices. Extra values
// are dropped; missing values default to zero.
func New(columns []string, values []float64) Frame {
	m := make(map[string]float64, len(columns))
	for i, c := range columns {
		if i < len(values) {
			m[c] = values[i]
		} else {
			m[c] = 0
		}
	}
	return Frame{columns: append([]string(nil), columns...), values: m}
}

// FromMap builds a frame with the given column order, taking values from m
// and zero-filling columns m lacks.
func FromMap(columns []string, m map[string]float64) Frame {
	values := make([]float64, len(columns))
	for i, c := range columns {
		values[i] = m[c]
	}
	return New(columns, values)
}

// Columns returns the column names in order. The slice must not be mutated.
func (f Frame) Columns() []string {
	return f.columns
}

// Values returns the column values in column order.
func (f Frame) Values() []float64 {
	out := make([]float64, len(f.columns))
	for i, c := range f.columns {
		out[i] = f.values[c]
	}
	return out
}

// Get returns the value of a column, or (0, false) if absent.
func (f Frame) Get(column string) (float64, bool) {
	v, ok := f.values[column]
	return v, ok
}

// Len returns the number of columns.
func (f Frame) Len() int {
	return len(f.columns)
}
