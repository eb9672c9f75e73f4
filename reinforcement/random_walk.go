package reinforcement

import (
	"context"

	"racetrack/models"
	"racetrack/track"
)

// restrictedActions are the ordered pairs of distinct accelerations from {-1, 0, 1}.
var restrictedActions = []models.Action{
	{Dvx: -1, Dvy: 0},
	{Dvx: -1, Dvy: 1},
	{Dvx: 0, Dvy: -1},
	{Dvx: 0, Dvy: 1},
	{Dvx: 1, Dvy: -1},
	{Dvx: 1, Dvy: 0},
}

// RandomWalk is the no-learning baseline: uniformly random stochastic actions until the
// finish is reached or MaxSteps runs out. Its cost bounds every learner's loss from above.
type RandomWalk struct {
	env     *Environment
	hp      Hyperparameters
	rng     models.Rand
	actions []models.Action
}

func NewRandomWalk(tr *track.Track, hp Hyperparameters) *RandomWalk {
	rng := newRand(hp.Seed)
	actions := models.AllActions()
	if hp.RestrictedActions {
		actions = restrictedActions
	}
	return &RandomWalk{
		env:     NewEnvironment(tr, hp, rng),
		hp:      hp,
		rng:     rng,
		actions: actions,
	}
}

// Train is a no-op; there is nothing to learn.
func (rw *RandomWalk) Train(context.Context) error {
	return nil
}

// Race walks randomly from the start line.
func (rw *RandomWalk) Race(ctx context.Context) (Result, error) {
	hp := rw.hp
	hp.DemoSteps = rw.hp.MaxSteps
	hp.DemoStochastic = true
	return demonstrate(ctx, rw.env, hp, func(models.State) models.Action {
		return rw.actions[rw.rng.Intn(len(rw.actions))]
	})
}

func (rw *RandomWalk) Value(models.State) float64 {
	return 0
}

// Policy is the uniform random policy, so it is reported as the no-op acceleration.
func (rw *RandomWalk) Policy(models.State) models.Action {
	return models.Action{}
}

func (rw *RandomWalk) Losses() []int {
	return nil
}
