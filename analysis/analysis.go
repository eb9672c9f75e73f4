// Package analysis summarizes and plots the per-episode losses of a training run.
package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var ErrNoLosses = errors.New("no losses to analyse")

// Summary describes a loss curve.
type Summary struct {
	Episodes int
	Mean     float64
	StdDev   float64
	Min, Max float64
	// First and Last are the means of the first and last window of episodes.
	First, Last float64
}

func toFloats(losses []int) []float64 {
	xs := make([]float64, len(losses))
	for i, l := range losses {
		xs[i] = float64(l)
	}
	return xs
}

// Summarize describes losses, comparing the first and last window episodes. The window
// is clamped to the number of episodes.
func Summarize(losses []int, window int) (Summary, error) {
	if len(losses) == 0 {
		return Summary{}, ErrNoLosses
	}
	if window <= 0 || window > len(losses) {
		window = len(losses)
	}

	xs := toFloats(losses)
	mean, std := stat.MeanStdDev(xs, nil)
	return Summary{
		Episodes: len(xs),
		Mean:     mean,
		StdDev:   std,
		Min:      floats.Min(xs),
		Max:      floats.Max(xs),
		First:    stat.Mean(xs[:window], nil),
		Last:     stat.Mean(xs[len(xs)-window:], nil),
	}, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("episodes=%d mean=%.1f std=%.1f min=%.0f max=%.0f first=%.1f last=%.1f",
		s.Episodes, s.Mean, s.StdDev, s.Min, s.Max, s.First, s.Last)
}

// MovingAverage returns the trailing mean of each episode over at most window episodes.
func MovingAverage(losses []int, window int) []float64 {
	xs := toFloats(losses)
	if window <= 0 {
		window = 1
	}
	avgs := make([]float64, len(xs))
	for i := range xs {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		avgs[i] = stat.Mean(xs[lo:i+1], nil)
	}
	return avgs
}

// PlotLosses saves a png of the raw losses and their moving average to path.
func PlotLosses(path, title string, losses []int, window int) error {
	if len(losses) == 0 {
		return ErrNoLosses
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Steps"

	raw := make(plotter.XYs, len(losses))
	smooth := make(plotter.XYs, len(losses))
	for i, avg := range MovingAverage(losses, window) {
		raw[i] = plotter.XY{X: float64(i + 1), Y: float64(losses[i])}
		smooth[i] = plotter.XY{X: float64(i + 1), Y: avg}
	}

	if err := plotutil.AddLines(p,
		"loss", raw,
		fmt.Sprintf("mean of %d", window), smooth,
	); err != nil {
		return fmt.Errorf("plot losses: %w", err)
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
