package reinforcement

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"racetrack/track"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Algorithm names a solver.
type Algorithm string

const (
	RandomWalkAlgorithm     Algorithm = "random"
	ValueIterationAlgorithm Algorithm = "value"
	QLearningAlgorithm      Algorithm = "qlearning"
	SARSAAlgorithm          Algorithm = "sarsa"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ParseAlgorithm accepts the algorithm names used in config files and on the command line.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(strings.TrimSpace(name))); alg {
	case RandomWalkAlgorithm, ValueIterationAlgorithm, QLearningAlgorithm, SARSAAlgorithm:
		return alg, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Hyperparameters is the immutable configuration handed to a solver's constructor.
// Solvers never read configuration from anywhere else.
type Hyperparameters struct {
	// Gamma: the look-ahead parameter, or how much to value future state values.
	Gamma float64
	// Epsilon: the initial exploration rate.
	Epsilon float64
	// Alpha: the learning rate.
	Alpha float64
	// Decay is subtracted from epsilon after every episode.
	Decay float64
	// MaxSteps caps an episode (and a random walk).
	MaxSteps int
	// Episodes is the number of training episodes, or the sweep budget of value iteration.
	Episodes int
	// Theta is the value-iteration convergence threshold.
	Theta float64
	// Harsh resets a crashed car to a start cell; otherwise it goes to the nearest valid cell.
	Harsh bool
	Start track.StartPolicy
	// Seed seeds the single random source of a run; zero seeds from the clock.
	Seed uint64
	// Demonstration parameters: residual exploration, step budget, and whether accelerations
	// may be ignored during the final run.
	DemoEpsilon    float64
	DemoSteps      int
	DemoStochastic bool
	// RestrictedActions limits the random walk to the six accelerations that change
	// at least one axis and are not both in the same direction.
	RestrictedActions bool
}

// DefaultHyperparameters returns the defaults of each algorithm.
func DefaultHyperparameters(alg Algorithm) Hyperparameters {
	hp := Hyperparameters{
		Gamma:          0.95,
		Epsilon:        0.5,
		Alpha:          0.99,
		Decay:          0.001,
		MaxSteps:       10000,
		Episodes:       5000,
		Theta:          0.1,
		Start:          track.FirstStart,
		DemoEpsilon:    0.1,
		DemoSteps:      10000,
		DemoStochastic: true,
	}
	switch alg {
	case SARSAAlgorithm:
		hp.Epsilon = 0.35
		hp.Alpha = 0.1
		hp.Episodes = 10000
	case ValueIterationAlgorithm:
		hp.Alpha = 0.1
		hp.Episodes = 30
	}
	return hp
}

type OuterConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// TrainingConfig encodes algorithmic and training parameters outside of code.
// Viper lower-cases keys, hence the yaml tags.
type TrainingConfig struct {
	// HyperParams is a key-val pair of param names and their value.
	HyperParams []HyperParameter `yaml:"hyperparams"`
	// Algorithm is an alg selector, e.g. {name: sarsa}.
	Algorithm map[string]string `yaml:"algorithm"`
	// TrainingDeadline is a fixed duration describing when to terminate training.
	TrainingDeadline map[string]string `yaml:"trainingdeadline"`
}

// HyperParameter values are all floats; booleans are encoded as zero/non-zero.
type HyperParameter struct {
	Key string  `yaml:"key"`
	Val float64 `yaml:"val"`
}

func (cfg *TrainingConfig) GetHyperParamOrDefault(param string, defaultVal float64) float64 {
	for _, kvp := range cfg.HyperParams {
		if kvp.Key == param {
			return kvp.Val
		}
	}
	return defaultVal
}

// AlgorithmName returns the configured algorithm, if any.
func (cfg *TrainingConfig) AlgorithmName() string {
	return cfg.Algorithm["name"]
}

// Hyperparameters resolves the config against the defaults of alg.
func (cfg *TrainingConfig) Hyperparameters(alg Algorithm) Hyperparameters {
	hp := DefaultHyperparameters(alg)
	hp.Gamma = cfg.GetHyperParamOrDefault("gamma", hp.Gamma)
	hp.Epsilon = cfg.GetHyperParamOrDefault("epsilon", hp.Epsilon)
	hp.Alpha = cfg.GetHyperParamOrDefault("alpha", hp.Alpha)
	hp.Decay = cfg.GetHyperParamOrDefault("decay", hp.Decay)
	hp.MaxSteps = int(cfg.GetHyperParamOrDefault("maxSteps", float64(hp.MaxSteps)))
	hp.Episodes = int(cfg.GetHyperParamOrDefault("episodes", float64(hp.Episodes)))
	hp.Theta = cfg.GetHyperParamOrDefault("theta", hp.Theta)
	hp.Harsh = cfg.GetHyperParamOrDefault("harsh", boolParam(hp.Harsh)) != 0
	if cfg.GetHyperParamOrDefault("randomStart", 0) != 0 {
		hp.Start = track.RandomStart
	}
	hp.Seed = uint64(cfg.GetHyperParamOrDefault("seed", float64(hp.Seed)))
	hp.DemoEpsilon = cfg.GetHyperParamOrDefault("demoEpsilon", hp.DemoEpsilon)
	hp.DemoSteps = int(cfg.GetHyperParamOrDefault("demoSteps", float64(hp.DemoSteps)))
	hp.DemoStochastic = cfg.GetHyperParamOrDefault("demoStochastic", boolParam(hp.DemoStochastic)) != 0
	hp.RestrictedActions = cfg.GetHyperParamOrDefault("restrictedActions", boolParam(hp.RestrictedActions)) != 0
	return hp
}

func boolParam(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// WithTrainingDeadline returns a context extended by the training deadline, if one is specified.
func (cfg *TrainingConfig) WithTrainingDeadline(
	ctx context.Context,
) (context.Context, context.CancelFunc, error) {
	if val, ok := cfg.TrainingDeadline["duration"]; ok {
		duration, err := time.ParseDuration(val)
		if err != nil {
			return nil, nil, fmt.Errorf("training deadline: %w", err)
		}
		innerCtx, cancel := context.WithTimeout(ctx, duration)
		return innerCtx, cancel, nil
	}
	defaultCtx, cancel := context.WithCancel(ctx)
	return defaultCtx, cancel, nil
}

// FromYaml reads a config file of the form {kind: ..., def: <TrainingConfig>}.
// The outer document is read with viper and the definition is re-decoded with yaml.
func FromYaml(path string) (*TrainingConfig, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	var err error
	if err = vp.ReadInConfig(); err != nil {
		return nil, err
	}

	outerConfig := &OuterConfig{}
	if err = vp.Unmarshal(outerConfig); err != nil {
		return nil, err
	}

	var def []byte
	if def, err = yaml.Marshal(outerConfig.Def); err != nil {
		return nil, err
	}

	innerConfig := &TrainingConfig{}
	if err = yaml.Unmarshal(def, innerConfig); err != nil {
		return nil, err
	}

	return innerConfig, nil
}
