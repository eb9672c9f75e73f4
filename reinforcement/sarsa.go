package reinforcement

import (
	"racetrack/models"
	"racetrack/track"
)

// SARSA is on-policy TD control: the action chosen for the successor is both the one the
// target bootstraps on and the one taken next.
type SARSA struct {
	*temporalDifference
}

// NewSARSA initialises every action value to U[0,1).
func NewSARSA(tr *track.Track, hp Hyperparameters, progressFn ProgressFunc) *SARSA {
	return &SARSA{
		temporalDifference: newTemporalDifference(tr, hp, progressFn, true, func(rng models.Rand) float64 {
			return rng.Float64()
		}),
	}
}
