package reinforcement

import (
	"context"
	"math"

	"racetrack/models"
	"racetrack/track"

	"gonum.org/v1/gonum/floats"
)

// ValueIteration is model-based dynamic programming over the whole state space. The
// environment is queried in what-if mode for the successor of every state and action;
// the chance that an action is ignored is folded in as the state's own value from the
// previous sweep.
type ValueIteration struct {
	env        *Environment
	hp         Hyperparameters
	space      models.StateSpace
	values     []float64
	q          *QTable
	policy     []int
	deltas     []float64
	progressFn ProgressFunc
}

// NewValueIteration initialises values, action values and policy randomly, except on finish
// cells, which are absorbing with zero value.
func NewValueIteration(tr *track.Track, hp Hyperparameters, progressFn ProgressFunc) *ValueIteration {
	if progressFn == nil {
		progressFn = noProgress
	}
	rng := newRand(hp.Seed)
	space := tr.Space()
	vi := &ValueIteration{
		env:        NewEnvironment(tr, hp, rng),
		hp:         hp,
		space:      space,
		values:     make([]float64, space.Size()),
		q:          NewQTable(space),
		policy:     make([]int, space.Size()),
		progressFn: progressFn,
	}

	noop := models.Action{}.Index()
	space.Visit(func(i int, s models.State) {
		if tr.IsFinish(s.X, s.Y) {
			vi.policy[i] = noop
			return
		}
		vi.values[i] = rng.Float64()
		row := vi.q.RowAt(i)
		for a := range row {
			row[a] = rng.Float64()
		}
		vi.policy[i] = rng.Intn(models.NUM_ACTIONS)
	})
	return vi
}

// Train sweeps until the largest value change of a sweep is at most Theta, or until
// Episodes sweeps have run.
func (vi *ValueIteration) Train(ctx context.Context) error {
	snapshot := make([]float64, len(vi.values))
	for len(vi.deltas) < vi.hp.Episodes {
		if err := ctx.Err(); err != nil {
			return err
		}

		copy(snapshot, vi.values)
		delta, err := vi.sweep(snapshot)
		if err != nil {
			return err
		}
		vi.deltas = append(vi.deltas, delta)
		vi.progressFn(ctx, Progress{Episode: len(vi.deltas), Delta: delta})

		if delta <= vi.hp.Theta {
			break
		}
	}
	return nil
}

// sweep updates every state once in index order and returns the largest value change.
// The successor of an applied action is valued with the values of this sweep so far; an
// ignored action leaves the state's value as it was in the snapshot taken before the sweep.
func (vi *ValueIteration) sweep(snapshot []float64) (maxDelta float64, err error) {
	tr := vi.env.Track()

	for i := range vi.values {
		s := vi.space.StateAt(i)
		row := vi.q.RowAt(i)
		if !tr.Passable(s.X, s.Y) {
			vi.values[i] = math.Inf(-1)
			for a := range row {
				row[a] = math.Inf(-1)
			}
			continue
		}
		if tr.IsFinish(s.X, s.Y) {
			continue
		}

		ignoredValue := snapshot[i]

		for a := range row {
			successor, finished, err := vi.env.WhatIf(s, models.ActionAt(a))
			if err != nil {
				return 0, err
			}
			reward, successorValue := float64(models.STEP_REWARD), 0.0
			if finished {
				reward = models.FINISH_REWARD
			} else {
				successorValue = vi.values[vi.space.Index(successor)]
			}
			expected := (1-models.IGNORE_PROBABILITY)*successorValue + models.IGNORE_PROBABILITY*ignoredValue
			row[a] = reward + vi.hp.Gamma*expected
		}

		best := floats.MaxIdx(row)
		maxDelta = math.Max(maxDelta, math.Abs(vi.values[i]-row[best]))
		vi.values[i] = row[best]
		vi.policy[i] = best
	}
	return maxDelta, nil
}

// Race follows the greedy policy from the start line.
func (vi *ValueIteration) Race(ctx context.Context) (Result, error) {
	return demonstrate(ctx, vi.env, vi.hp, vi.Policy)
}

func (vi *ValueIteration) Value(s models.State) float64 {
	return vi.values[vi.space.Index(s)]
}

func (vi *ValueIteration) Policy(s models.State) models.Action {
	return models.ActionAt(vi.policy[vi.space.Index(s)])
}

// ActionValue returns Q(s, a) of the last sweep.
func (vi *ValueIteration) ActionValue(s models.State, a models.Action) float64 {
	return vi.q.Row(s)[a.Index()]
}

func (vi *ValueIteration) Losses() []int {
	return nil
}

// Deltas is the largest value change of every sweep run so far.
func (vi *ValueIteration) Deltas() []float64 {
	return vi.deltas
}
