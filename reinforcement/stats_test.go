package reinforcement

import (
	"context"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStats(t *testing.T) {
	Convey("Given training stats", t, func() {
		st := NewStats(QLearningAlgorithm)

		Convey("An empty run has a zero mean", func() {
			snap := st.Snapshot()
			So(snap.Episodes, ShouldEqual, int64(0))
			So(snap.MeanLoss, ShouldEqual, 0)
			So(snap.RunID, ShouldEqual, st.RunID.String())
		})

		Convey("Recorded progress is summarized", func() {
			st.Record(context.Background(), Progress{Episode: 1, Loss: 10, Epsilon: 0.5})
			st.Record(context.Background(), Progress{Episode: 2, Loss: 20, Finished: true, Epsilon: 0.4})
			snap := st.Snapshot()
			So(snap.Episodes, ShouldEqual, int64(2))
			So(snap.Finishes, ShouldEqual, int64(1))
			So(snap.LastLoss, ShouldEqual, 20)
			So(snap.MeanLoss, ShouldEqual, 15)
			So(snap.Epsilon, ShouldEqual, 0.4)
			So(snap.Algorithm, ShouldEqual, "qlearning")
		})

		Convey("Snapshots may be taken while training records", func() {
			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 1000; i++ {
					st.Record(context.Background(), Progress{Episode: i + 1, Loss: 1})
				}
			}()
			for i := 0; i < 100; i++ {
				_ = st.Snapshot()
			}
			wg.Wait()
			So(st.Snapshot().MeanLoss, ShouldEqual, 1)
		})
	})
}
