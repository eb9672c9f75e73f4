package geometry

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func isAdjacent(a, b Point) bool {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	return dx <= 1 && dy <= 1 && !(dx == 0 && dy == 0)
}

func isWellFormed(path []Point, from, to Point) bool {
	if len(path) == 0 || path[0] != from || path[len(path)-1] != to {
		return false
	}
	seen := map[Point]bool{}
	for i, p := range path {
		if seen[p] {
			return false
		}
		seen[p] = true
		if i > 0 && !isAdjacent(path[i-1], p) {
			return false
		}
	}
	return true
}

func TestTraverse(t *testing.T) {
	Convey("When traversing between grid cells", t, func() {
		Convey("A zero-length move yields only the origin", func() {
			So(Traverse(3, 4, 3, 4), ShouldResemble, []Point{{3, 4}})
		})

		Convey("A horizontal move visits every column", func() {
			So(Traverse(0, 0, 0, 3), ShouldResemble, []Point{{0, 0}, {0, 1}, {0, 2}, {0, 3}})
		})

		Convey("A diagonal move steps both axes together", func() {
			So(Traverse(2, 2, -1, -1), ShouldResemble, []Point{{2, 2}, {1, 1}, {0, 0}, {-1, -1}})
		})

		Convey("A steep move keeps the origin's axis choice", func() {
			So(Traverse(1, 0, 0, 4), ShouldResemble, []Point{{1, 0}, {1, 1}, {0, 2}, {0, 3}, {0, 4}})
		})

		Convey("Reversing the endpoints is not guaranteed to mirror the path", func() {
			forward := Traverse(0, 0, 1, 2)
			backward := Traverse(1, 2, 0, 0)
			So(forward, ShouldResemble, []Point{{0, 0}, {1, 1}, {1, 2}})
			So(backward, ShouldResemble, []Point{{1, 2}, {0, 1}, {0, 0}})
		})

		Convey("Every path is connected, includes both endpoints and never repeats a cell", func() {
			broken := 0
			for x0 := -3; x0 <= 3; x0++ {
				for y0 := -3; y0 <= 3; y0++ {
					for x1 := -5; x1 <= 5; x1++ {
						for y1 := -5; y1 <= 5; y1++ {
							if !isWellFormed(Traverse(x0, y0, x1, y1), Point{x0, y0}, Point{x1, y1}) {
								broken++
							}
						}
					}
				}
			}
			So(broken, ShouldEqual, 0)
		})
	})
}

func TestContains(t *testing.T) {
	Convey("When checking membership of a point set", t, func() {
		points := []Point{{0, 1}, {2, 3}}
		So(Contains(points, Point{2, 3}), ShouldBeTrue)
		So(Contains(points, Point{3, 2}), ShouldBeFalse)
		So(Contains(nil, Point{0, 0}), ShouldBeFalse)
	})
}
