package models

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestActions(t *testing.T) {
	Convey("When indexing actions", t, func() {
		Convey("Indices are row-major over (Dvx, Dvy)", func() {
			So(ActionAt(0), ShouldResemble, Action{-1, -1})
			So(ActionAt(1), ShouldResemble, Action{-1, 0})
			So(ActionAt(4), ShouldResemble, Action{0, 0})
			So(ActionAt(8), ShouldResemble, Action{1, 1})
		})

		Convey("Index inverts ActionAt", func() {
			for i, a := range AllActions() {
				So(a.Index(), ShouldEqual, i)
			}
		})

		Convey("Out of range indices are contract violations", func() {
			So(func() { ActionAt(9) }, ShouldPanic)
			So(func() { Action{Dvx: 2}.Index() }, ShouldPanic)
		})
	})
}

func TestStateSpace(t *testing.T) {
	Convey("Given a 3x4 state space", t, func() {
		sp := StateSpace{Width: 3, Height: 4}

		Convey("Its size counts every velocity pair", func() {
			So(sp.Size(), ShouldEqual, 3*4*11*11)
		})

		Convey("The encoding is a bijection in x, y, vx, vy order", func() {
			So(sp.Index(State{0, 0, -5, -5}), ShouldEqual, 0)
			So(sp.Index(State{0, 0, -5, -4}), ShouldEqual, 1)
			So(sp.Index(State{2, 3, 5, 5}), ShouldEqual, sp.Size()-1)

			seen := make([]bool, sp.Size())
			sp.Visit(func(i int, s State) {
				So(sp.Index(s), ShouldEqual, i)
				seen[i] = true
			})
			for _, ok := range seen {
				So(ok, ShouldBeTrue)
			}
		})

		Convey("States outside the space are contract violations", func() {
			So(func() { sp.Index(State{3, 0, 0, 0}) }, ShouldPanic)
			So(func() { sp.Index(State{0, 0, 6, 0}) }, ShouldPanic)
			So(func() { sp.StateAt(-1) }, ShouldPanic)
		})

		Convey("Visiting velocities covers the 11x11 substates of a cell", func() {
			n := 0
			sp.VisitVelocities(1, 2, func(s State) {
				So(s.X, ShouldEqual, 1)
				So(s.Y, ShouldEqual, 2)
				n++
			})
			So(n, ShouldEqual, NUM_VELOCITIES*NUM_VELOCITIES)
		})
	})
}
