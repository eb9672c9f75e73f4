package reinforcement

import (
	"testing"

	"racetrack/models"
	"racetrack/track"

	. "github.com/smartystreets/goconvey/convey"
)

var (
	corridor = []string{
		"1,5",
		"S...F",
	}

	walled = []string{
		"3,5",
		".....",
		"S.#.F",
		".....",
	}
)

func mustTrack(lines []string) *track.Track {
	tr, err := track.FromLines(lines)
	if err != nil {
		panic(err)
	}
	return tr
}

func testHyperparameters(alg Algorithm) Hyperparameters {
	hp := DefaultHyperparameters(alg)
	hp.Seed = 7
	hp.DemoStochastic = false
	return hp
}

func TestEnvironment(t *testing.T) {
	Convey("Given a car on a track with a wall between start and finish", t, func() {
		tr := mustTrack(walled)
		hp := testHyperparameters(QLearningAlgorithm)
		right := models.Action{Dvx: 0, Dvy: 1}

		Convey("A stationary car starts on the start line", func() {
			env := NewEnvironment(tr, hp, newRand(hp.Seed))
			So(env.State(), ShouldResemble, models.State{X: 1, Y: 0})
		})

		Convey("A valid move is recorded with its successor", func() {
			env := NewEnvironment(tr, hp, newRand(hp.Seed))
			finished, err := env.Move(right, false)
			So(err, ShouldBeNil)
			So(finished, ShouldBeFalse)
			So(env.State(), ShouldResemble, models.State{X: 1, Y: 1, VX: 0, VY: 1})
			So(env.History(), ShouldResemble, models.Episode{{
				State:     models.State{X: 1, Y: 0},
				Action:    right,
				Successor: models.State{X: 1, Y: 1, VX: 0, VY: 1},
			}})
			So(env.Loss(), ShouldEqual, 1)
		})

		Convey("A harsh crash returns the car to the start line", func() {
			hp.Harsh = true
			env := NewEnvironment(tr, hp, newRand(hp.Seed))
			_, _ = env.Move(right, false)
			finished, err := env.Move(right, false)
			So(err, ShouldBeNil)
			So(finished, ShouldBeFalse)
			So(env.State(), ShouldResemble, models.State{X: 1, Y: 0})
			So(env.History()[1].Successor, ShouldResemble, models.State{X: 1, Y: 0})
		})

		Convey("A soft crash stops the car at the nearest valid cell", func() {
			env := NewEnvironment(tr, hp, newRand(hp.Seed))
			_, _ = env.Move(right, false)
			_, err := env.Move(right, false)
			So(err, ShouldBeNil)

			p, err := tr.NearestValid(1, 1, 1, 3)
			So(err, ShouldBeNil)
			So(env.State(), ShouldResemble, models.State{X: p.X, Y: p.Y})
		})

		Convey("What-if queries leave the car and the history untouched", func() {
			env := NewEnvironment(tr, hp, newRand(hp.Seed))
			_, _ = env.Move(right, false)
			before := env.State()

			successor, finished, err := env.WhatIf(models.State{X: 1, Y: 3}, right)
			So(err, ShouldBeNil)
			So(finished, ShouldBeTrue)
			So(successor, ShouldResemble, models.State{X: 1, Y: 4, VX: 0, VY: 1})
			So(env.State(), ShouldResemble, before)
			So(env.Loss(), ShouldEqual, 1)
		})

		Convey("Reset keeps the history until it is cleared", func() {
			env := NewEnvironment(tr, hp, newRand(hp.Seed))
			_, _ = env.Move(right, false)
			So(env.Reset(), ShouldResemble, models.State{X: 1, Y: 0})
			So(env.Loss(), ShouldEqual, 1)
			env.ClearHistory()
			So(env.History(), ShouldBeEmpty)
		})
	})

	Convey("Given a car heading for the finish of a corridor", t, func() {
		tr := mustTrack(corridor)
		env := NewEnvironment(tr, testHyperparameters(QLearningAlgorithm), newRand(7))
		env.car.Reseed(models.State{X: 0, Y: 2, VX: 0, VY: 3})

		Convey("Overshooting the end of the grid through the finish still finishes", func() {
			finished, err := env.Move(models.Action{}, false)
			So(err, ShouldBeNil)
			So(finished, ShouldBeTrue)
			So(env.State(), ShouldResemble, models.State{X: 0, Y: 4})
		})
	})
}
