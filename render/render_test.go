package render

import (
	"bytes"
	"strings"
	"testing"

	"racetrack/models"
	"racetrack/track"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRender(t *testing.T) {
	Convey("Given a small track and a printer without colors", t, func() {
		tr, err := track.FromLines([]string{
			"2,4",
			"S..F",
			"##.#",
		})
		So(err, ShouldBeNil)
		var buf bytes.Buffer
		p := NewPrinter(&buf, false)

		Convey("The track prints in file orientation", func() {
			p.ShowTrack(tr, nil)
			So(buf.String(), ShouldEqual, "S..F\n##.#\n")
		})

		Convey("A path overlay replaces the cells the car visited", func() {
			history := models.Episode{
				{State: models.State{X: 0, Y: 0}, Successor: models.State{X: 0, Y: 1, VY: 1}},
				{State: models.State{X: 0, Y: 1, VY: 1}, Successor: models.State{X: 0, Y: 3, VY: 2}},
			}
			p.ShowTrack(tr, PathOverlay(history))
			So(buf.String(), ShouldEqual, "**.C\n##.#\n")
		})

		Convey("The policy prints one arrow per open cell", func() {
			p.ShowPolicy(tr, func(models.State) models.Action {
				return models.Action{Dvx: 0, Dvy: 1}
			})
			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			So(lines, ShouldHaveLength, 2)
			So(lines[0], ShouldEqual, " → → → F ")
			So(lines[1], ShouldEqual, " # # → # ")
		})

		Convey("Max values sum the best velocity state of every open cell", func() {
			p.ShowMaxValues(tr, func(s models.State) float64 {
				return float64(s.VY)
			})
			So(buf.String(), ShouldContainSubstring, "Total: 25.00")
		})
	})
}
