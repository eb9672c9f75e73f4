package reinforcement

import (
	"racetrack/models"

	"gonum.org/v1/gonum/floats"
)

// QTable holds one row of NUM_ACTIONS action values per state, flattened in state index order.
type QTable struct {
	space  models.StateSpace
	values []float64
}

// NewQTable returns a zeroed table over space.
func NewQTable(space models.StateSpace) *QTable {
	return &QTable{
		space:  space,
		values: make([]float64, space.Size()*models.NUM_ACTIONS),
	}
}

// RowAt returns the action values of the state with the given index. The row aliases the table.
func (q *QTable) RowAt(index int) []float64 {
	offset := index * models.NUM_ACTIONS
	return q.values[offset : offset+models.NUM_ACTIONS : offset+models.NUM_ACTIONS]
}

// Row returns the action values of s. The row aliases the table.
func (q *QTable) Row(s models.State) []float64 {
	return q.RowAt(q.space.Index(s))
}

// Best returns the first maximal action index of s and its value.
func (q *QTable) Best(s models.State) (int, float64) {
	row := q.Row(s)
	i := floats.MaxIdx(row)
	return i, row[i]
}

// epsilonGreedy draws once from rng; below epsilon a second draw picks a uniformly random
// action, otherwise the first maximal action of row is taken.
func epsilonGreedy(row []float64, epsilon float64, rng models.Rand) int {
	if rng.Float64() < epsilon {
		return rng.Intn(models.NUM_ACTIONS)
	}
	return floats.MaxIdx(row)
}
