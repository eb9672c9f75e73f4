package cell_views

import (
	"testing"

	"racetrack/models"
	"racetrack/track"

	. "github.com/smartystreets/goconvey/convey"
)

// speedTable values states by how fast they head right.
type speedTable struct{}

func (speedTable) Value(s models.State) float64 {
	return float64(s.VY - abs(s.VX))
}

func (speedTable) Policy(models.State) models.Action {
	return models.Action{Dvx: 0, Dvy: 1}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestConvert(t *testing.T) {
	Convey("Given a small track and a table", t, func() {
		tr, err := track.FromLines([]string{
			"2,3",
			"S.F",
			"#..",
		})
		So(err, ShouldBeNil)
		cells := Convert(tr, speedTable{})

		Convey("Cells are indexed by row and column", func() {
			So(cells, ShouldHaveLength, 2)
			So(cells[1], ShouldHaveLength, 3)
			So(cells[1][2].Row, ShouldEqual, 1)
			So(cells[1][2].Col, ShouldEqual, 2)
		})

		Convey("Each cell shows its best velocity state", func() {
			c := cells[0][1]
			So(*c.Max, ShouldEqual, 5)
			So(c.VX, ShouldEqual, 0)
			So(c.VY, ShouldEqual, 5)
			So(c.Policy, ShouldResemble, models.Action{Dvx: 0, Dvy: 1})
			So(c.PolicyArrowRotation, ShouldEqual, 90)
			So(c.PolicyArrowScale, ShouldEqual, 5)
		})

		Convey("Walls have no value and every cell kind has its fill", func() {
			So(cells[1][0].Max, ShouldBeNil)
			So(cells[1][0].Fill, ShouldEqual, "lightgreen")
			So(cells[0][0].Fill, ShouldEqual, "lightblue")
			So(cells[0][2].Fill, ShouldEqual, "lightyellow")
			So(cells[0][1].Fill, ShouldEqual, "lightgray")
		})

		Convey("Arrows point along the velocity in track orientation", func() {
			So(getDegrees(models.State{VX: -1}), ShouldEqual, 0)
			So(getDegrees(models.State{VY: 1}), ShouldEqual, 90)
			So(getDegrees(models.State{VX: 1}), ShouldEqual, 180)
			So(getDegrees(models.State{VY: -1}), ShouldEqual, -90)
		})
	})
}
