// cell_views contains views derived from the Cell view-model.
package cell_views

import (
	"math"

	"racetrack/models"
	"racetrack/track"
)

// Table is the read side of a learned table.
type Table interface {
	Value(s models.State) float64
	Policy(s models.State) models.Action
}

// Cell projects the (x, y, vx, vy) table onto a single grid cell, keeping only the
// best velocity state. Row 0 is the top of the track, as in the track file, which is
// also svg's orientation. Cell fields should be immediately usable as view parameters.
type Cell struct {
	Row, Col int
	// Max is the largest value over the cell's velocity states, or nil for walls.
	Max *float64 `json:",omitempty"`
	// VX, VY is the velocity of the best state.
	VX, VY int
	// Policy is the greedy acceleration from the best state.
	Policy              models.Action
	PolicyArrowRotation int
	PolicyArrowScale    int
	Fill                string
}

// Convert projects table over every cell of tr, indexed [row][col].
func Convert(tr *track.Track, table Table) (cells [][]Cell) {
	cells = make([][]Cell, tr.Width())
	space := tr.Space()
	for x := range cells {
		cells[x] = make([]Cell, tr.Height())
		for y := range cells[x] {
			cell := Cell{Row: x, Col: y, Fill: getFill(tr, x, y)}
			if tr.Passable(x, y) {
				best := maxVelState(space, table, x, y)
				max := table.Value(best)
				cell.Max = &max
				cell.VX, cell.VY = best.VX, best.VY
				cell.Policy = table.Policy(best)
				cell.PolicyArrowRotation = getDegrees(best)
				cell.PolicyArrowScale = getScale(best)
			}
			cells[x][y] = cell
		}
	}
	return
}

// maxVelState returns the first maximal-valued velocity state at (x, y).
func maxVelState(space models.StateSpace, table Table, x, y int) (best models.State) {
	max := math.Inf(-1)
	space.VisitVelocities(x, y, func(s models.State) {
		if v := table.Value(s); v > max {
			max, best = v, s
		}
	})
	if math.IsInf(max, -1) {
		best = models.State{X: x, Y: y}
	}
	return
}

func getScale(s models.State) int {
	return int(math.Hypot(float64(s.VX), float64(s.VY)))
}

// getDegrees converts the velocity into the clockwise degrees passed to svg's rotate()
// for an upward arrow. vx points down the rows and vy along the columns.
func getDegrees(s models.State) int {
	if s.VX == 0 && s.VY == 0 {
		return 0
	}
	deg := math.Atan2(float64(s.VY), float64(-s.VX)) * 180 / math.Pi
	return int(math.Round(deg))
}

func getFill(tr *track.Track, x, y int) string {
	switch {
	case !tr.Passable(x, y):
		return "lightgreen"
	case tr.IsFinish(x, y):
		return "lightyellow"
	}
	for _, s := range tr.Starts() {
		if s.X == x && s.Y == y {
			return "lightblue"
		}
	}
	return "lightgray"
}
