package reinforcement

import (
	"context"
	"fmt"
	"log"
	"time"

	"racetrack/models"
	"racetrack/track"

	"golang.org/x/exp/rand"
)

// Solver learns (or, for the random walk, merely samples) a way around the track.
// Train runs to completion, until its budget, or until ctx is done; Race then drives
// the car from the start line with what was learned.
type Solver interface {
	Train(ctx context.Context) error
	Race(ctx context.Context) (Result, error)
	// Value and Policy query the learned table by state.
	Value(s models.State) float64
	Policy(s models.State) models.Action
	// Losses is the length of every training episode; solvers without episodes return nil.
	Losses() []int
}

// Result is the outcome of a demonstration run. Not finishing within the step budget
// is a normal outcome for a policy that never converged.
type Result struct {
	Finished bool
	Steps    int
	History  models.Episode
}

// Progress describes one completed training episode, or one value-iteration sweep.
type Progress struct {
	Episode  int
	Loss     int
	Finished bool
	Epsilon  float64
	Delta    float64
}

// ProgressFunc is a callback by which the training method can lend progress details.
// ProgressFunc is synchronous/blocking and should be defined to complete quickly.
type ProgressFunc func(context.Context, Progress)

// Chain calls each non-nil fn in order.
func Chain(fns ...ProgressFunc) ProgressFunc {
	return func(ctx context.Context, p Progress) {
		for _, fn := range fns {
			if fn != nil {
				fn(ctx, p)
			}
		}
	}
}

// LogProgress logs every n-th episode.
func LogProgress(alg Algorithm, n int) ProgressFunc {
	return func(_ context.Context, p Progress) {
		if n > 0 && p.Episode%n == 0 {
			log.Printf("[train] %s episode=%d loss=%d finished=%t epsilon=%.3f delta=%.4f",
				alg, p.Episode, p.Loss, p.Finished, p.Epsilon, p.Delta)
		}
	}
}

func noProgress(context.Context, Progress) {}

// NewSolver builds the solver for alg. progressFn may be nil.
func NewSolver(alg Algorithm, tr *track.Track, hp Hyperparameters, progressFn ProgressFunc) (Solver, error) {
	if progressFn == nil {
		progressFn = noProgress
	}
	switch alg {
	case RandomWalkAlgorithm:
		return NewRandomWalk(tr, hp), nil
	case ValueIterationAlgorithm:
		return NewValueIteration(tr, hp, progressFn), nil
	case QLearningAlgorithm:
		return NewQLearning(tr, hp, progressFn), nil
	case SARSAAlgorithm:
		return NewSARSA(tr, hp, progressFn), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
}

// newRand returns the run's single random source. Every draw of a run (ignored
// accelerations, epsilon-greedy choices, table initialisation and start cells) comes from it,
// so equal seeds give equal runs.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

// demonstrate drives the car from the start line with choose until it finishes or the
// demonstration budget runs out.
func demonstrate(
	ctx context.Context,
	env *Environment,
	hp Hyperparameters,
	choose func(models.State) models.Action,
) (Result, error) {
	env.Reset()
	env.ClearHistory()

	for steps := 1; steps <= hp.DemoSteps; steps++ {
		if err := ctx.Err(); err != nil {
			return Result{Steps: steps - 1, History: env.History()}, err
		}
		finished, err := env.Move(choose(env.State()), hp.DemoStochastic)
		if err != nil {
			return Result{Steps: steps, History: env.History()}, err
		}
		if finished {
			return Result{Finished: true, Steps: steps, History: env.History()}, nil
		}
	}
	return Result{Steps: hp.DemoSteps, History: env.History()}, nil
}
