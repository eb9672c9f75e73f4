/*
Racetrack learns to drive a point-mass car around a grid racetrack with classical tabular
reinforcement learning: a random-walk baseline, value iteration, Q-learning and SARSA.
Training progress is logged and, optionally, served over http; the learned policy is then
raced from the start line and printed over the track.
*/
package main

import (
	"fmt"
	"os"

	"racetrack/cli"
)

func main() {
	if err := cli.GetRootCommand().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
