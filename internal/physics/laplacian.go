package physics

import (
	"github.com/san-kum/turingsim/internal/dynamo"
	"github.com/san-kum/turingsim/internal/grid"
)

// minRowsPerWorker keeps tiny grids on a single goroutine.
const minRowsPerWorker = 16

// Laplacian writes the five-point Laplacian of every interior cell of z into
// dst as an (n-2)×(n-2) row-major array, growing dst if it is too short.
// Edge cells are never evaluated.
func Laplacian(z *grid.Field, dx float64, dst []float64) []float64 {
	n := z.Size()
	dst = interiorBuffer(dst, n)
	LaplacianRows(z, dx, dst, 1, n-1)
	return dst
}

// ParallelLaplacian computes the same values as Laplacian with interior rows
// split across workers goroutines. Every goroutine writes a disjoint band of
// dst and only reads z.
func ParallelLaplacian(z *grid.Field, dx float64, dst []float64, workers int) []float64 {
	n := z.Size()
	dst = interiorBuffer(dst, n)
	dynamo.ParallelFor(n-2, workers, minRowsPerWorker, func(start, end int) {
		LaplacianRows(z, dx, dst, start+1, end+1)
	})
	return dst
}

// LaplacianRows fills the rows [rowStart, rowEnd) of the interior, using grid
// row indices (1 ≤ rowStart ≤ rowEnd ≤ n-1).
func LaplacianRows(z *grid.Field, dx float64, dst []float64, rowStart, rowEnd int) {
	n := z.Size()
	m := n - 2
	dx2 := dx * dx
	data := z.Data()

	for i := rowStart; i < rowEnd; i++ {
		up := data[(i-1)*n : i*n]
		row := data[i*n : (i+1)*n]
		down := data[(i+1)*n : (i+2)*n]
		out := dst[(i-1)*m : i*m]
		for j := 1; j <= m; j++ {
			out[j-1] = (up[j] + row[j-1] + down[j] + row[j+1] - 4*row[j]) / dx2
		}
	}
}

func interiorBuffer(dst []float64, n int) []float64 {
	m := n - 2
	if m < 0 {
		m = 0
	}
	if cap(dst) < m*m {
		return make([]float64, m*m)
	}
	return dst[:m*m]
}
