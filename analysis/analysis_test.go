package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSummarize(t *testing.T) {
	Convey("Given a decreasing loss curve", t, func() {
		losses := []int{10, 8, 6, 4, 2}

		Convey("The summary compares the first and last windows", func() {
			s, err := Summarize(losses, 2)
			So(err, ShouldBeNil)
			So(s.Episodes, ShouldEqual, 5)
			So(s.Mean, ShouldEqual, 6)
			So(s.Min, ShouldEqual, 2)
			So(s.Max, ShouldEqual, 10)
			So(s.First, ShouldEqual, 9)
			So(s.Last, ShouldEqual, 3)
			So(s.Last, ShouldBeLessThan, s.First)
		})

		Convey("An oversized window covers every episode", func() {
			s, err := Summarize(losses, 50)
			So(err, ShouldBeNil)
			So(s.First, ShouldEqual, s.Mean)
			So(s.Last, ShouldEqual, s.Mean)
		})

		Convey("Moving averages trail over the window", func() {
			So(MovingAverage(losses, 2), ShouldResemble, []float64{10, 9, 7, 5, 3})
		})
	})

	Convey("No losses cannot be summarized or plotted", t, func() {
		_, err := Summarize(nil, 10)
		So(errors.Is(err, ErrNoLosses), ShouldBeTrue)
		So(errors.Is(PlotLosses("unused.png", "none", nil, 10), ErrNoLosses), ShouldBeTrue)
	})
}

func TestPlotLosses(t *testing.T) {
	Convey("Plotting losses writes a png", t, func() {
		path := filepath.Join(t.TempDir(), "losses.png")
		So(PlotLosses(path, "qlearning", []int{30, 20, 25, 10, 5}, 2), ShouldBeNil)
		info, err := os.Stat(path)
		So(err, ShouldBeNil)
		So(info.Size(), ShouldBeGreaterThan, 0)
	})
}
