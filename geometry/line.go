// Package geometry rasterizes straight moves onto the track grid.
package geometry

// Point is a grid cell. X is the row and Y the column of the track.
type Point struct {
	X, Y int
}

// Traverse returns every cell crossed by the segment from (x0,y0) to (x1,y1), both
// endpoints included, in travel order. This is integer Bresenham: the axis with the larger
// displacement is stepped once per cell, and ties are treated as steep. Since the axis choice
// and error accumulator start from the origin, Traverse(a,b) is not always the reverse of
// Traverse(b,a); callers rely on travel order, so the origin must be the true origin.
func Traverse(x0, y0, x1, y1 int) []Point {
	dx := x1 - x0
	dy := y1 - y0

	xStep, yStep := sign(dx), sign(dy)
	major, minor := abs(dx), abs(dy)

	// Per major step, (majorX, majorY) moves along the major axis and (minorX, minorY)
	// along the minor one.
	majorX, majorY := xStep, 0
	minorX, minorY := 0, yStep
	if major <= minor {
		major, minor = minor, major
		majorX, majorY = 0, yStep
		minorX, minorY = xStep, 0
	}

	points := make([]Point, 0, major+1)
	delta := 2*minor - major
	m := 0
	for i := 0; i <= major; i++ {
		points = append(points, Point{
			X: x0 + i*majorX + m*minorX,
			Y: y0 + i*majorY + m*minorY,
		})
		if delta >= 0 {
			m++
			delta -= 2 * major
		}
		delta += 2 * minor
	}

	return points
}

// Contains reports whether p is one of points.
func Contains(points []Point, p Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}

func sign(n int) int {
	if n > 0 {
		return 1
	}
	return -1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
