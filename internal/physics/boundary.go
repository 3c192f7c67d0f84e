package physics

import "github.com/san-kum/turingsim/internal/grid"

// EnforceNeumann imposes a zero normal derivative on every edge of z by
// copying the adjacent interior values outward. Rows are copied first, then
// columns over the row-updated array, so each corner ends up holding its
// diagonal interior neighbour, e.g. z[0][0] = z[1][1].
func EnforceNeumann(z *grid.Field) {
	n := z.Size()
	if n < 3 {
		return
	}
	copy(z.Row(0), z.Row(1))
	copy(z.Row(n-1), z.Row(n-2))

	data := z.Data()
	for i := 0; i < n; i++ {
		base := i * n
		data[base] = data[base+1]
		data[base+n-1] = data[base+n-2]
	}
}
