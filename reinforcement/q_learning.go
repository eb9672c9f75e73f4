package reinforcement

import (
	"racetrack/models"
	"racetrack/track"
)

// QLearning is off-policy TD control: the target bootstraps on the best successor action
// value, while the action actually taken is chosen epsilon-greedily from the updated table.
type QLearning struct {
	*temporalDifference
}

// NewQLearning initialises every action value to -U[0,1).
func NewQLearning(tr *track.Track, hp Hyperparameters, progressFn ProgressFunc) *QLearning {
	return &QLearning{
		temporalDifference: newTemporalDifference(tr, hp, progressFn, false, func(rng models.Rand) float64 {
			return -rng.Float64()
		}),
	}
}
