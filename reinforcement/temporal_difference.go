package reinforcement

import (
	"context"
	"math"

	"racetrack/models"
	"racetrack/track"

	"gonum.org/v1/gonum/floats"
)

// temporalDifference is the episode loop shared by the one-step TD learners.
type temporalDifference struct {
	env        *Environment
	hp         Hyperparameters
	rng        models.Rand
	q          *QTable
	epsilon    float64
	losses     []int
	onPolicy   bool
	progressFn ProgressFunc
}

// newTemporalDifference fills the action-value table with initValue in state index order.
func newTemporalDifference(
	tr *track.Track,
	hp Hyperparameters,
	progressFn ProgressFunc,
	onPolicy bool,
	initValue func(rng models.Rand) float64,
) *temporalDifference {
	if progressFn == nil {
		progressFn = noProgress
	}
	rng := newRand(hp.Seed)
	td := &temporalDifference{
		env:        NewEnvironment(tr, hp, rng),
		hp:         hp,
		rng:        rng,
		q:          NewQTable(tr.Space()),
		epsilon:    hp.Epsilon,
		onPolicy:   onPolicy,
		progressFn: progressFn,
	}
	for i := range td.q.values {
		td.q.values[i] = initValue(rng)
	}
	return td
}

// Train runs hp.Episodes episodes, decaying epsilon linearly (floored at zero) after each.
func (td *temporalDifference) Train(ctx context.Context) error {
	for episode := 1; episode <= td.hp.Episodes; episode++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		finished, err := td.runEpisode(ctx)
		if err != nil {
			return err
		}
		loss := td.env.Loss()
		td.losses = append(td.losses, loss)
		td.progressFn(ctx, Progress{
			Episode:  episode,
			Loss:     loss,
			Finished: finished,
			Epsilon:  td.epsilon,
		})

		td.epsilon = math.Max(0, td.epsilon-td.hp.Decay)
	}
	return nil
}

// runEpisode drives the car from the start line until it finishes or MaxSteps is reached.
func (td *temporalDifference) runEpisode(ctx context.Context) (bool, error) {
	s := td.env.Reset()
	td.env.ClearHistory()
	a := epsilonGreedy(td.q.Row(s), td.epsilon, td.rng)

	for steps := 0; steps < td.hp.MaxSteps; steps++ {
		if steps%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return false, err
			}
		}

		finished, err := td.env.Move(models.ActionAt(a), true)
		if err != nil {
			return false, err
		}
		successor := td.env.State()
		next := td.learn(s, a, successor, finished)
		if finished {
			return true, nil
		}
		s, a = successor, next
	}
	return false, nil
}

// learn moves Q(s, a) toward the one-step target and returns the action to take from
// successor. Every step costs STEP_REWARD, and a finishing step is terminal, so its
// target does not bootstrap. On-policy, the next action is chosen before the update
// and is the one bootstrapped on; off-policy, the target bootstraps on the best
// successor value and the next action is chosen from the updated table.
func (td *temporalDifference) learn(s models.State, a int, successor models.State, finished bool) (next int) {
	target := float64(models.STEP_REWARD)
	if !finished {
		successorRow := td.q.Row(successor)
		if td.onPolicy {
			next = epsilonGreedy(successorRow, td.epsilon, td.rng)
			target += td.hp.Gamma * successorRow[next]
		} else {
			target += td.hp.Gamma * floats.Max(successorRow)
		}
	}

	row := td.q.Row(s)
	row[a] += td.hp.Alpha * (target - row[a])

	if !finished && !td.onPolicy {
		next = epsilonGreedy(td.q.Row(successor), td.epsilon, td.rng)
	}
	return next
}

// Race runs an epsilon-greedy demonstration with the residual DemoEpsilon.
func (td *temporalDifference) Race(ctx context.Context) (Result, error) {
	return demonstrate(ctx, td.env, td.hp, func(s models.State) models.Action {
		return models.ActionAt(epsilonGreedy(td.q.Row(s), td.hp.DemoEpsilon, td.rng))
	})
}

// Value is the largest action value of s.
func (td *temporalDifference) Value(s models.State) float64 {
	_, v := td.q.Best(s)
	return v
}

// Policy is the greedy action of s.
func (td *temporalDifference) Policy(s models.State) models.Action {
	i, _ := td.q.Best(s)
	return models.ActionAt(i)
}

func (td *temporalDifference) ActionValue(s models.State, a models.Action) float64 {
	return td.q.Row(s)[a.Index()]
}

func (td *temporalDifference) Losses() []int {
	return td.losses
}

// Epsilon returns the current exploration rate.
func (td *temporalDifference) Epsilon() float64 {
	return td.epsilon
}
