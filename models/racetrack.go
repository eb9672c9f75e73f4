package models

import "fmt"

// The state consists of the position and current x/y velocity.
// Velocity is number of cells moved per time step. X is the track row and Y the column.
type State struct {
	X, Y, VX, VY int
}

// Action consists of a velocity increment/decrement in the x and y direction.
// In this problem, three accelerations (+1, -1, 0) yields 9 actions per step, e.g. |(+1, -1, 0)|**2.
type Action struct {
	Dvx, Dvy int
}

// Step is a single time step of the vehicle: in State, do Action, land in Successor.
type Step struct {
	State     State
	Action    Action
	Successor State
}

// Episode is a sequence of Steps. Its length is the loss of the episode.
type Episode []Step

const (
	// Kinematic bounds. The enumerated state space includes +/-MAX_VELOCITY, but the
	// acceleration rule keeps velocities strictly inside them.
	MAX_VELOCITY   = 5
	MIN_VELOCITY   = -MAX_VELOCITY
	NUM_VELOCITIES = MAX_VELOCITY - MIN_VELOCITY + 1

	MAX_ACCELERATION  = 1
	MIN_ACCELERATION  = -1
	NUM_ACCELERATIONS = MAX_ACCELERATION - MIN_ACCELERATION + 1
	NUM_ACTIONS       = NUM_ACCELERATIONS * NUM_ACCELERATIONS

	// IGNORE_PROBABILITY is the chance that a stochastic acceleration is discarded.
	IGNORE_PROBABILITY = 0.2

	// Rewards
	STEP_REWARD   = -1
	FINISH_REWARD = 0
)

// Rand is the single pseudo-random source shared by the vehicle, the track and a solver.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// ActionAt returns the action for a row-major action index: (Dvx+1)*3 + (Dvy+1).
func ActionAt(index int) Action {
	if index < 0 || index >= NUM_ACTIONS {
		panic(fmt.Sprintf("action index %d out of range", index))
	}
	return Action{
		Dvx: index/NUM_ACCELERATIONS + MIN_ACCELERATION,
		Dvy: index%NUM_ACCELERATIONS + MIN_ACCELERATION,
	}
}

// Index is the inverse of ActionAt.
func (a Action) Index() int {
	if a.Dvx < MIN_ACCELERATION || a.Dvx > MAX_ACCELERATION ||
		a.Dvy < MIN_ACCELERATION || a.Dvy > MAX_ACCELERATION {
		panic(fmt.Sprintf("invalid action %+v", a))
	}
	return (a.Dvx-MIN_ACCELERATION)*NUM_ACCELERATIONS + (a.Dvy - MIN_ACCELERATION)
}

// AllActions returns the 9 actions in index order.
func AllActions() []Action {
	actions := make([]Action, NUM_ACTIONS)
	for i := range actions {
		actions[i] = ActionAt(i)
	}
	return actions
}

// StateSpace enumerates every (x, y, vx, vy) of a width x height track. A state's index
// follows the nested x, y, vx, vy order, which is also the value-iteration sweep order.
// Note that this is just an (X x Y x VX x VY) size matrix, flattened.
type StateSpace struct {
	Width, Height int
}

// Size is the number of states.
func (sp StateSpace) Size() int {
	return sp.Width * sp.Height * NUM_VELOCITIES * NUM_VELOCITIES
}

// Contains reports whether s lies inside the space.
func (sp StateSpace) Contains(s State) bool {
	return s.X >= 0 && s.X < sp.Width &&
		s.Y >= 0 && s.Y < sp.Height &&
		s.VX >= MIN_VELOCITY && s.VX <= MAX_VELOCITY &&
		s.VY >= MIN_VELOCITY && s.VY <= MAX_VELOCITY
}

// Index encodes s as a flat table offset. States outside the space are a programming error.
func (sp StateSpace) Index(s State) int {
	if !sp.Contains(s) {
		panic(fmt.Sprintf("state %+v outside %dx%d space", s, sp.Width, sp.Height))
	}
	return ((s.X*sp.Height+s.Y)*NUM_VELOCITIES+(s.VX-MIN_VELOCITY))*NUM_VELOCITIES + (s.VY - MIN_VELOCITY)
}

// StateAt decodes a flat table offset.
func (sp StateSpace) StateAt(index int) State {
	if index < 0 || index >= sp.Size() {
		panic(fmt.Sprintf("state index %d out of range", index))
	}
	vy := index%NUM_VELOCITIES + MIN_VELOCITY
	index /= NUM_VELOCITIES
	vx := index%NUM_VELOCITIES + MIN_VELOCITY
	index /= NUM_VELOCITIES
	return State{
		X:  index / sp.Height,
		Y:  index % sp.Height,
		VX: vx,
		VY: vy,
	}
}

// Visits every state using the passed function, in index order.
func (sp StateSpace) Visit(fn func(index int, s State)) {
	for i := 0; i < sp.Size(); i++ {
		fn(i, sp.StateAt(i))
	}
}

// Visits the states sharing one x/y grid position, e.g. for projecting a table onto the grid.
func (sp StateSpace) VisitVelocities(x, y int, fn func(s State)) {
	for vx := MIN_VELOCITY; vx <= MAX_VELOCITY; vx++ {
		for vy := MIN_VELOCITY; vy <= MAX_VELOCITY; vy++ {
			fn(State{X: x, Y: y, VX: vx, VY: vy})
		}
	}
}
