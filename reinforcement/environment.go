package reinforcement

import (
	"fmt"

	"racetrack/geometry"
	"racetrack/models"
	"racetrack/track"
	"racetrack/vehicle"
)

// Environment is the transition model: it owns the car and applies actions to it against
// the track. Move is the only way a solver changes the car's state, other than
// resetting it to the start line or posing a what-if query.
type Environment struct {
	track   *track.Track
	car     *vehicle.Car
	rng     models.Rand
	harsh   bool
	start   track.StartPolicy
	history models.Episode
}

// NewEnvironment puts a stationary car on a start cell of the track.
func NewEnvironment(tr *track.Track, hp Hyperparameters, rng models.Rand) *Environment {
	env := &Environment{
		track: tr,
		rng:   rng,
		harsh: hp.Harsh,
		start: hp.Start,
	}
	p := tr.StartingPoint(hp.Start, rng)
	env.car = vehicle.NewCar(p.X, p.Y, rng)
	return env
}

// Track returns the (immutable) track.
func (env *Environment) Track() *track.Track {
	return env.track
}

// State returns the car's current state.
func (env *Environment) State() models.State {
	return env.car.State()
}

// Reset places a stationary car on a start cell and returns its state. History is kept.
func (env *Environment) Reset() models.State {
	p := env.track.StartingPoint(env.start, env.rng)
	env.car.Reseed(models.State{X: p.X, Y: p.Y})
	return env.car.State()
}

// History returns the steps recorded since the last ClearHistory.
func (env *Environment) History() models.Episode {
	return env.history
}

// ClearHistory starts a new episode's record.
func (env *Environment) ClearHistory() {
	env.history = nil
}

// Loss is the length of the current history.
func (env *Environment) Loss() int {
	return len(env.history)
}

// Move applies an action to the car, resets it if the swept path hits a wall or leaves
// the grid, records the step, and reports whether the attempted path crossed the finish.
func (env *Environment) Move(a models.Action, stochastic bool) (finished bool, err error) {
	before, after, finished, err := env.step(a, stochastic)
	if err != nil {
		return false, err
	}
	env.history = append(env.history, models.Step{State: before, Action: a, Successor: after})
	return finished, nil
}

// WhatIf returns the deterministic outcome of taking a in s without recording it.
// The car is left as it was.
func (env *Environment) WhatIf(s models.State, a models.Action) (successor models.State, finished bool, err error) {
	saved := env.car.State()
	defer env.car.Reseed(saved)

	env.car.Reseed(s)
	_, successor, finished, err = env.step(a, false)
	return
}

func (env *Environment) step(a models.Action, stochastic bool) (before, after models.State, finished bool, err error) {
	before = env.car.State()
	env.car.Accelerate(a, stochastic)
	attempted := env.car.State()

	finished = env.track.CrossesFinish(before.X, before.Y, attempted.X, attempted.Y)
	if !env.track.IsValid(before.X, before.Y, attempted.X, attempted.Y) {
		var p geometry.Point
		if env.harsh {
			p = env.track.StartingPoint(env.start, env.rng)
		} else if p, err = env.track.NearestValid(before.X, before.Y, attempted.X, attempted.Y); err != nil {
			return before, attempted, false, fmt.Errorf("reset after crash from %+v: %w", before, err)
		}
		env.car.Place(p.X, p.Y)
		env.car.Zeroize()
	}

	after = env.car.State()
	return
}
