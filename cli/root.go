// Package cli wires tracks, configuration, solvers and the results server behind the
// racetrack command line.
package cli

import (
	"github.com/spf13/cobra"

	"racetrack/reinforcement"
)

var (
	trackFile   string
	builtin     string
	configFile  string
	seed        uint64
	episodes    int
	harsh       bool
	randomStart bool
	serveAddr   string
	plotFile    string
	logEvery    int
	noColor     bool
)

// GetRootCommand returns the racetrack command with one subcommand per algorithm.
func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "racetrack",
		Short:        "Learn to drive a racetrack with tabular reinforcement learning",
		SilenceUsage: true,
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVarP(&trackFile, "track", "t", "", "Track file to race on; overrides --builtin")
	flags.StringVarP(&builtin, "builtin", "b", "L", "Built-in track: L, O, R or debug")
	flags.StringVarP(&configFile, "config", "c", "", "Training config yaml")
	flags.Uint64Var(&seed, "seed", 0, "Random seed; 0 seeds from the clock")
	flags.IntVarP(&episodes, "episodes", "e", 0, "Training episodes, or value-iteration sweeps")
	flags.BoolVar(&harsh, "harsh", false, "Send crashed cars back to the start line")
	flags.BoolVar(&randomStart, "random-start", false, "Start each episode on a random start cell")
	flags.StringVar(&serveAddr, "serve", "", "Serve stats and results on this address, e.g. :8080")
	flags.StringVar(&plotFile, "plot", "", "Save a png of the training losses to this path")
	flags.IntVar(&logEvery, "log-every", 500, "Log every n-th episode; 0 disables")
	flags.BoolVar(&noColor, "no-color", false, "Disable console colors")

	rootCommand.AddCommand(RandomWalkCommand())
	rootCommand.AddCommand(algorithmCommand(reinforcement.ValueIterationAlgorithm, "Model-based value iteration"))
	rootCommand.AddCommand(algorithmCommand(reinforcement.QLearningAlgorithm, "Off-policy TD control"))
	rootCommand.AddCommand(algorithmCommand(reinforcement.SARSAAlgorithm, "On-policy TD control"))
	rootCommand.AddCommand(ConfiguredCommand())
	return rootCommand
}

func algorithmCommand(alg reinforcement.Algorithm, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(alg),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Race(cmd, alg, nil)
		},
	}
}

// RandomWalkCommand is the no-learning baseline.
func RandomWalkCommand() *cobra.Command {
	var restricted bool
	cmd := &cobra.Command{
		Use:   string(reinforcement.RandomWalkAlgorithm),
		Short: "Uniformly random driving, as a baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Race(cmd, reinforcement.RandomWalkAlgorithm, func(hp *reinforcement.Hyperparameters) {
				hp.RestrictedActions = restricted
			})
		},
	}
	cmd.Flags().BoolVar(&restricted, "restricted", false, "Only use the six mixed accelerations")
	return cmd
}

// ConfiguredCommand runs the algorithm named by the config file.
func ConfiguredCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the algorithm named in --config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			alg, err := reinforcement.ParseAlgorithm(cfg.AlgorithmName())
			if err != nil {
				return err
			}
			return Race(cmd, alg, nil)
		},
	}
}
