package reinforcement

import (
	"context"
	"sync/atomic"

	"racetrack/atomic_float"

	"github.com/google/uuid"
)

// Stats accumulates training progress for readers in other goroutines, such as the results
// server. Record is its ProgressFunc; the trainer is the only writer.
type Stats struct {
	RunID     uuid.UUID
	Algorithm Algorithm

	episodes  atomic.Int64
	finishes  atomic.Int64
	lastLoss  *atomic_float.AtomicFloat64
	totalLoss *atomic_float.AtomicFloat64
	epsilon   *atomic_float.AtomicFloat64
	delta     *atomic_float.AtomicFloat64
}

// StatsSnapshot is a consistent-enough copy of Stats for serialization.
type StatsSnapshot struct {
	RunID     string  `json:"runId"`
	Algorithm string  `json:"algorithm"`
	Episodes  int64   `json:"episodes"`
	Finishes  int64   `json:"finishes"`
	LastLoss  float64 `json:"lastLoss"`
	MeanLoss  float64 `json:"meanLoss"`
	Epsilon   float64 `json:"epsilon"`
	Delta     float64 `json:"delta"`
}

func NewStats(alg Algorithm) *Stats {
	return &Stats{
		RunID:     uuid.New(),
		Algorithm: alg,
		lastLoss:  atomic_float.NewAtomicFloat64(0),
		totalLoss: atomic_float.NewAtomicFloat64(0),
		epsilon:   atomic_float.NewAtomicFloat64(0),
		delta:     atomic_float.NewAtomicFloat64(0),
	}
}

// Record is a ProgressFunc.
func (st *Stats) Record(_ context.Context, p Progress) {
	st.episodes.Add(1)
	if p.Finished {
		st.finishes.Add(1)
	}
	st.lastLoss.AtomicSet(float64(p.Loss))
	st.totalLoss.Add(float64(p.Loss))
	st.epsilon.AtomicSet(p.Epsilon)
	st.delta.AtomicSet(p.Delta)
}

func (st *Stats) Snapshot() StatsSnapshot {
	episodes := st.episodes.Load()
	mean := 0.0
	if episodes > 0 {
		mean = st.totalLoss.AtomicRead() / float64(episodes)
	}
	return StatsSnapshot{
		RunID:     st.RunID.String(),
		Algorithm: string(st.Algorithm),
		Episodes:  episodes,
		Finishes:  st.finishes.Load(),
		LastLoss:  st.lastLoss.AtomicRead(),
		MeanLoss:  mean,
		Epsilon:   st.epsilon.AtomicRead(),
		Delta:     st.delta.AtomicRead(),
	}
}
