package grid

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

var (
	// ErrIndexOutOfBounds indicates a row or column outside [0, size).
	ErrIndexOutOfBounds = errors.New("grid: index out of bounds")

	// ErrSizeMismatch indicates two fields of different sizes were combined.
	ErrSizeMismatch = errors.New("grid: size mismatch")

	// ErrNotSquare indicates input rows that do not form a square grid.
	ErrNotSquare = errors.New("grid: rows do not form a square grid")
)

// Field stores a square grid of float64 values in row-major order.
type Field struct {
	size int
	data []float64
}

// New allocates a zero-filled size×size field.
func New(size int) *Field {
	if size < 1 {
		size = 1
	}
	return &Field{size: size, data: make([]float64, size*size)}
}

// NewRandom fills every cell, edges included, with a uniform value in [0,1).
func NewRandom(size int, rng *rand.Rand) *Field {
	f := New(size)
	for i := range f.data {
		f.data[i] = rng.Float64()
	}
	return f
}

// NewRNG returns a deterministic PCG source for the given seed.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// Filled returns a field where every cell equals c.
func Filled(size int, c float64) *Field {
	f := New(size)
	f.Fill(c)
	return f
}

// FromRows copies nested rows into a new field.
func FromRows(rows [][]float64) (*Field, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrNotSquare)
	}
	f := New(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrNotSquare, i, len(row), n)
		}
		copy(f.Row(i), row)
	}
	return f, nil
}

func (f *Field) Size() int { return f.size }

// Data exposes the backing slice for hot loops.
func (f *Field) Data() []float64 { return f.data }

// Index returns the linear offset of (i, j). It does not bounds check.
func (f *Field) Index(i, j int) int { return i*f.size + j }

// Row returns row i as a slice aliasing the field storage.
func (f *Field) Row(i int) []float64 {
	return f.data[i*f.size : (i+1)*f.size]
}

func (f *Field) inBounds(i, j int) bool {
	return i >= 0 && i < f.size && j >= 0 && j < f.size
}

func (f *Field) At(i, j int) (float64, error) {
	if !f.inBounds(i, j) {
		return 0, fmt.Errorf("%w: (%d, %d) in %dx%d field", ErrIndexOutOfBounds, i, j, f.size, f.size)
	}
	return f.data[i*f.size+j], nil
}

func (f *Field) Set(i, j int, v float64) error {
	if !f.inBounds(i, j) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d field", ErrIndexOutOfBounds, i, j, f.size, f.size)
	}
	f.data[i*f.size+j] = v
	return nil
}

func (f *Field) Fill(c float64) {
	for i := range f.data {
		f.data[i] = c
	}
}

func (f *Field) Clone() *Field {
	c := &Field{size: f.size, data: make([]float64, len(f.data))}
	copy(c.data, f.data)
	return c
}

// CopyFrom overwrites f with the contents of src.
func (f *Field) CopyFrom(src *Field) error {
	if src.size != f.size {
		return fmt.Errorf("%w: %d vs %d", ErrSizeMismatch, f.size, src.size)
	}
	copy(f.data, src.data)
	return nil
}

// Rows returns an independent row-major copy suitable for display or export.
func (f *Field) Rows() [][]float64 {
	rows := make([][]float64, f.size)
	for i := range rows {
		rows[i] = make([]float64, f.size)
		copy(rows[i], f.Row(i))
	}
	return rows
}

// IsFinite reports whether no cell holds NaN or ±Inf.
func (f *Field) IsFinite() bool {
	for _, v := range f.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Stats summarises the cell values of a field.
type Stats struct {
	Min, Max, Mean float64
}

func (s Stats) Range() float64 { return s.Max - s.Min }

func (f *Field) Stats() Stats {
	s := Stats{Min: f.data[0], Max: f.data[0]}
	sum := 0.0
	for _, v := range f.data {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += v
	}
	s.Mean = sum / float64(len(f.data))
	return s
}

// Equal reports whether both fields have the same size and identical bits.
func (f *Field) Equal(o *Field) bool {
	if f.size != o.size {
		return false
	}
	for i, v := range f.data {
		if math.Float64bits(v) != math.Float64bits(o.data[i]) {
			return false
		}
	}
	return true
}
