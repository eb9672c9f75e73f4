// Package render prints tracks, demonstration paths and learned tables to a console.
// The track itself only knows which cells are passable; anything drawn over it, like the
// car's path, is passed in as an overlay.
package render

import (
	"fmt"
	"io"
	"math"

	"racetrack/geometry"
	"racetrack/models"
	"racetrack/track"

	"github.com/logrusorgru/aurora"
)

const (
	PATH_MARKER = '*'
	CAR_MARKER  = 'C'
)

// Arrows for each action index, in track orientation: rows grow downward, columns rightward.
var arrows = []rune("↖↑↗←·→↙↓↘")

// Printer writes coloured console views.
type Printer struct {
	w  io.Writer
	au aurora.Aurora
}

// NewPrinter returns a printer writing to w; colors may be disabled for files and tests.
func NewPrinter(w io.Writer, colors bool) *Printer {
	return &Printer{w: w, au: aurora.NewAurora(colors)}
}

// Overlay maps cells to the marker drawn in place of the track symbol.
type Overlay map[geometry.Point]rune

// PathOverlay marks every cell the car occupied during an episode, and the final cell
// with the car itself.
func PathOverlay(history models.Episode) Overlay {
	overlay := Overlay{}
	for _, step := range history {
		overlay[geometry.Point{X: step.State.X, Y: step.State.Y}] = PATH_MARKER
	}
	if n := len(history); n > 0 {
		last := history[n-1].Successor
		overlay[geometry.Point{X: last.X, Y: last.Y}] = CAR_MARKER
	}
	return overlay
}

// ShowTrack prints the track in file orientation, with overlay markers over the cells.
func (p *Printer) ShowTrack(tr *track.Track, overlay Overlay) {
	for x := 0; x < tr.Width(); x++ {
		for y := 0; y < tr.Height(); y++ {
			if marker, ok := overlay[geometry.Point{X: x, Y: y}]; ok {
				fmt.Fprint(p.w, p.au.Bold(p.au.Red(string(marker))))
				continue
			}
			fmt.Fprint(p.w, p.cell(tr, x, y))
		}
		fmt.Fprintln(p.w)
	}
}

func (p *Printer) cell(tr *track.Track, x, y int) aurora.Value {
	switch {
	case !tr.Passable(x, y):
		return p.au.Green(string(track.WALL))
	case tr.IsFinish(x, y):
		return p.au.Yellow(string(track.FINISH))
	}
	for _, s := range tr.Starts() {
		if s.X == x && s.Y == y {
			return p.au.Blue(string(track.START))
		}
	}
	return p.au.White(string(track.TRACK))
}

// ShowPolicy prints the greedy acceleration of the stationary car on every open cell.
func (p *Printer) ShowPolicy(tr *track.Track, policy func(models.State) models.Action) {
	for x := 0; x < tr.Width(); x++ {
		fmt.Fprint(p.w, " ")
		for y := 0; y < tr.Height(); y++ {
			if !tr.Passable(x, y) || tr.IsFinish(x, y) {
				fmt.Fprint(p.w, p.cell(tr, x, y), " ")
				continue
			}
			a := policy(models.State{X: x, Y: y})
			fmt.Fprint(p.w, p.au.Cyan(string(arrows[a.Index()])), " ")
		}
		fmt.Fprintln(p.w)
	}
}

// ShowMaxValues prints, for every open cell, the largest value over its velocity states.
// Note that this truncates a lot of information; it just allows showing progress.
func (p *Printer) ShowMaxValues(tr *track.Track, value func(models.State) float64) {
	fmt.Fprintln(p.w, "Max vals:")
	total := 0.0
	space := tr.Space()
	for x := 0; x < tr.Width(); x++ {
		fmt.Fprint(p.w, " ")
		for y := 0; y < tr.Height(); y++ {
			if !tr.Passable(x, y) {
				fmt.Fprint(p.w, p.au.Green(fmt.Sprintf("%7s ", "-")))
				continue
			}
			max := math.Inf(-1)
			space.VisitVelocities(x, y, func(s models.State) {
				max = math.Max(max, value(s))
			})
			total += max
			fmt.Fprint(p.w, p.au.Blue(fmt.Sprintf("%7.2f ", max)))
		}
		fmt.Fprintln(p.w)
	}
	fmt.Fprintf(p.w, "Total: %.2f\n", total)
}
