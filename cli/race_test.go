package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	root := GetRootCommand()
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRace(t *testing.T) {
	Convey("When racing from the command line", t, func() {
		common := []string{"--builtin", "debug", "--seed", "3", "--log-every", "0", "--no-color"}

		Convey("Value iteration prints the race and the learned policy", func() {
			out, err := execute(append([]string{"value", "--episodes", "5"}, common...)...)
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Policy:")
			So(out, ShouldContainSubstring, "Max vals:")
		})

		Convey("Q-learning saves a loss plot", func() {
			plot := filepath.Join(t.TempDir(), "losses.png")
			_, err := execute(append([]string{"qlearning", "--episodes", "20", "--plot", plot}, common...)...)
			So(err, ShouldBeNil)
			_, err = os.Stat(plot)
			So(err, ShouldBeNil)
		})

		Convey("The random walk prints only the race", func() {
			out, err := execute(append([]string{"random", "--restricted"}, common...)...)
			So(err, ShouldBeNil)
			So(out, ShouldNotContainSubstring, "Policy:")
		})

		Convey("An unknown track is an error", func() {
			_, err := execute("sarsa", "--builtin", "Z")
			So(err, ShouldNotBeNil)
		})

		Convey("The run command takes its algorithm from the config", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			config := "kind: training\ndef:\n  algorithm:\n    name: sarsa\n  hyperparams:\n    - key: episodes\n      val: 10\n"
			So(os.WriteFile(path, []byte(config), 0o600), ShouldBeNil)
			out, err := execute(append([]string{"run", "--config", path}, common...)...)
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Policy:")
		})
	})
}
