// Package vehicle implements the point-mass car kinematics.
package vehicle

import "racetrack/models"

// Car is a point mass on the grid. Its velocity components always stay strictly between
// MIN_VELOCITY and MAX_VELOCITY; positions are only validated by the environment.
type Car struct {
	x, y, vx, vy int
	rng          models.Rand
}

// NewCar places a stationary car at (x, y). rng decides whether stochastic accelerations are ignored.
func NewCar(x, y int, rng models.Rand) *Car {
	return &Car{x: x, y: y, rng: rng}
}

// State returns the car's (x, y, vx, vy).
func (c *Car) State() models.State {
	return models.State{X: c.x, Y: c.y, VX: c.vx, VY: c.vy}
}

// Accelerate applies an action, then advances the position by the resulting velocity.
// When stochastic, the whole action is discarded with IGNORE_PROBABILITY (one draw
// covers both axes). Each axis commits its new velocity only when it stays strictly
// inside the velocity bounds.
func (c *Car) Accelerate(a models.Action, stochastic bool) {
	if !stochastic || c.rng.Float64() >= models.IGNORE_PROBABILITY {
		c.vx = accelerate(c.vx, a.Dvx)
		c.vy = accelerate(c.vy, a.Dvy)
	}
	c.x += c.vx
	c.y += c.vy
}

func accelerate(v, dv int) int {
	if next := v + dv; next > models.MIN_VELOCITY && next < models.MAX_VELOCITY {
		return next
	}
	return v
}

// Zeroize stops the car without moving it.
func (c *Car) Zeroize() {
	c.vx, c.vy = 0, 0
}

// Place moves the car to (x, y), keeping its velocity. Used for collision resets.
func (c *Car) Place(x, y int) {
	c.x, c.y = x, y
}

// Reseed forces the car into an exact state, for starting an episode or a what-if query.
func (c *Car) Reseed(s models.State) {
	c.x, c.y, c.vx, c.vy = s.X, s.Y, s.VX, s.VY
}
