// Package track holds the racetrack grid and answers collision and finish queries about
// straight moves across it.
package track

import (
	"errors"
	"math"

	"racetrack/geometry"
	"racetrack/models"
)

// StartPolicy selects which start cell a reset or a new episode uses.
type StartPolicy int

const (
	// FirstStart always uses the first start cell of the track.
	FirstStart StartPolicy = iota
	// RandomStart draws uniformly among all start cells.
	RandomStart
)

// ErrNoReachableCell is returned by NearestValid when no passable cell can be reached
// from the origin, which only happens when the origin itself is not passable.
var ErrNoReachableCell = errors.New("no passable cell reachable from origin")

// Track is an immutable grid of passable cells with its start and finish cells.
type Track struct {
	width, height int
	passable      [][]bool
	starts        []geometry.Point
	finishes      []geometry.Point
	finishSet     map[geometry.Point]struct{}
}

// New builds a track from a width x height grid indexed as passable[x][y].
func New(width, height int, passable [][]bool, starts, finishes []geometry.Point) (*Track, error) {
	if len(passable) != width {
		return nil, ErrDimensions
	}
	grid := make([][]bool, width)
	for x := range passable {
		if len(passable[x]) != height {
			return nil, ErrDimensions
		}
		grid[x] = append([]bool(nil), passable[x]...)
	}
	if len(starts) == 0 {
		return nil, ErrNoStart
	}
	if len(finishes) == 0 {
		return nil, ErrNoFinish
	}

	t := &Track{
		width:     width,
		height:    height,
		passable:  grid,
		starts:    append([]geometry.Point(nil), starts...),
		finishes:  append([]geometry.Point(nil), finishes...),
		finishSet: make(map[geometry.Point]struct{}, len(finishes)),
	}
	for _, p := range finishes {
		t.finishSet[p] = struct{}{}
	}
	return t, nil
}

// Width is the number of rows (X_MAX).
func (t *Track) Width() int { return t.width }

// Height is the number of columns (Y_MAX).
func (t *Track) Height() int { return t.height }

// Space returns the state space over this track.
func (t *Track) Space() models.StateSpace {
	return models.StateSpace{Width: t.width, Height: t.height}
}

// Starts returns a copy of the start cells.
func (t *Track) Starts() []geometry.Point {
	return append([]geometry.Point(nil), t.starts...)
}

// Finishes returns a copy of the finish cells.
func (t *Track) Finishes() []geometry.Point {
	return append([]geometry.Point(nil), t.finishes...)
}

// InBounds reports whether (x, y) lies on the grid.
func (t *Track) InBounds(x, y int) bool {
	return x >= 0 && x < t.width && y >= 0 && y < t.height
}

// Passable reports whether (x, y) is open track; cells off the grid never are.
func (t *Track) Passable(x, y int) bool {
	return t.InBounds(x, y) && t.passable[x][y]
}

// IsFinish reports whether (x, y) is a finish cell.
func (t *Track) IsFinish(x, y int) bool {
	_, ok := t.finishSet[geometry.Point{X: x, Y: y}]
	return ok
}

// IsValid reports whether the straight move from (x0,y0) to (x1,y1) stays on passable cells.
func (t *Track) IsValid(x0, y0, x1, y1 int) bool {
	if !t.InBounds(x1, y1) {
		return false
	}
	for _, p := range geometry.Traverse(x0, y0, x1, y1) {
		if !t.Passable(p.X, p.Y) {
			return false
		}
	}
	return true
}

// NearestValid returns the destination if the move is valid. Otherwise it scans the grid
// row by row for the passable cell reachable by a valid move from the origin that is
// closest (Euclidean) to the attempted destination; the first such cell wins ties.
func (t *Track) NearestValid(x0, y0, x1, y1 int) (geometry.Point, error) {
	if t.IsValid(x0, y0, x1, y1) {
		return geometry.Point{X: x1, Y: y1}, nil
	}

	best := geometry.Point{}
	minDistance := math.Inf(1)
	for x := 0; x < t.width; x++ {
		for y := 0; y < t.height; y++ {
			if !t.IsValid(x0, y0, x, y) {
				continue
			}
			if d := math.Hypot(float64(x-x1), float64(y-y1)); d < minDistance {
				minDistance = d
				best = geometry.Point{X: x, Y: y}
			}
		}
	}

	if math.IsInf(minDistance, 1) {
		return best, ErrNoReachableCell
	}
	return best, nil
}

// ReachedFinish reports whether any cell on the move from (x0,y0) to (x1,y1) is a finish cell.
func (t *Track) ReachedFinish(x0, y0, x1, y1 int) bool {
	for _, p := range geometry.Traverse(x0, y0, x1, y1) {
		if t.IsFinish(p.X, p.Y) {
			return true
		}
	}
	return false
}

// CrossesFinish is ReachedFinish for an attempted move: the move only counts up to the
// first impassable cell, so a car that reaches the line and then hits the wall beyond
// it still finishes, but one that hits a wall first does not.
func (t *Track) CrossesFinish(x0, y0, x1, y1 int) bool {
	for _, p := range geometry.Traverse(x0, y0, x1, y1) {
		if !t.Passable(p.X, p.Y) {
			return false
		}
		if t.IsFinish(p.X, p.Y) {
			return true
		}
	}
	return false
}

// StartingPoint returns a start cell per the start policy. RandomStart draws from rng only
// when there is more than one start cell.
func (t *Track) StartingPoint(policy StartPolicy, rng models.Rand) geometry.Point {
	if policy == RandomStart && len(t.starts) > 1 {
		return t.starts[rng.Intn(len(t.starts))]
	}
	return t.starts[0]
}
