package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"racetrack/analysis"
	"racetrack/reinforcement"
	"racetrack/render"
	"racetrack/server"
	"racetrack/track"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// summaryWindow is the number of episodes compared at each end of the loss curve.
const summaryWindow = 100

func loadTrack() (*track.Track, error) {
	if trackFile != "" {
		return track.FromFile(trackFile)
	}
	return track.Builtin(builtin)
}

// loadConfig reads --config, or returns an empty config so that every default applies.
func loadConfig() (*reinforcement.TrainingConfig, error) {
	if configFile == "" {
		return &reinforcement.TrainingConfig{}, nil
	}
	cfg, err := reinforcement.FromYaml(configFile)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", configFile, err)
	}
	return cfg, nil
}

// hyperparameters resolves the config, then applies any flags set on the command line.
func hyperparameters(cmd *cobra.Command, cfg *reinforcement.TrainingConfig, alg reinforcement.Algorithm) reinforcement.Hyperparameters {
	hp := cfg.Hyperparameters(alg)
	flags := cmd.Flags()
	if flags.Changed("seed") {
		hp.Seed = seed
	}
	if flags.Changed("episodes") {
		hp.Episodes = episodes
	}
	if flags.Changed("harsh") {
		hp.Harsh = harsh
	}
	if flags.Changed("random-start") && randomStart {
		hp.Start = track.RandomStart
	}
	return hp
}

// Race trains alg on the selected track, races the result and reports it. When serving,
// it keeps serving after the race until interrupted.
func Race(cmd *cobra.Command, alg reinforcement.Algorithm, override func(*reinforcement.Hyperparameters)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	tr, err := loadTrack()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	hp := hyperparameters(cmd, cfg, alg)
	if override != nil {
		override(&hp)
	}

	stats := reinforcement.NewStats(alg)
	log.Printf("[train] run %s: %s on a %dx%d track", stats.RunID, alg, tr.Width(), tr.Height())

	group, groupCtx := errgroup.WithContext(ctx)
	var srv *server.Server
	if serveAddr != "" {
		srv = server.NewServer(serveAddr, stats)
		group.Go(func() error {
			return srv.Serve(groupCtx)
		})
	}

	group.Go(func() error {
		results, err := train(groupCtx, cmd.OutOrStdout(), cfg, tr, alg, hp, stats)
		if err != nil {
			return err
		}
		if srv != nil {
			srv.Publish(results)
			log.Printf("[server] results published on %s; interrupt to exit", serveAddr)
		}
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func train(
	ctx context.Context,
	out io.Writer,
	cfg *reinforcement.TrainingConfig,
	tr *track.Track,
	alg reinforcement.Algorithm,
	hp reinforcement.Hyperparameters,
	stats *reinforcement.Stats,
) (*server.Results, error) {
	solver, err := reinforcement.NewSolver(alg, tr, hp, reinforcement.Chain(
		reinforcement.LogProgress(alg, logEvery),
		stats.Record,
	))
	if err != nil {
		return nil, err
	}

	trainCtx, cancel, err := cfg.WithTrainingDeadline(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()
	if err := solver.Train(trainCtx); errors.Is(err, context.DeadlineExceeded) {
		log.Println("[train] training deadline reached")
	} else if err != nil {
		return nil, err
	}

	result, err := solver.Race(ctx)
	if err != nil {
		return nil, err
	}
	report(out, tr, alg, solver, result)

	if losses := solver.Losses(); len(losses) > 0 {
		summary, err := analysis.Summarize(losses, summaryWindow)
		if err != nil {
			return nil, err
		}
		log.Printf("[train] losses: %s", summary)
		if plotFile != "" {
			title := fmt.Sprintf("%s %s", alg, stats.RunID)
			if err := analysis.PlotLosses(plotFile, title, losses, summaryWindow); err != nil {
				return nil, err
			}
			log.Printf("[train] loss plot saved to %s", plotFile)
		}
	}

	return &server.Results{Track: tr, Solver: solver, Race: result}, nil
}

func report(out io.Writer, tr *track.Track, alg reinforcement.Algorithm, solver reinforcement.Solver, result reinforcement.Result) {
	printer := render.NewPrinter(out, !noColor)
	printer.ShowTrack(tr, render.PathOverlay(result.History))
	if result.Finished {
		fmt.Fprintf(out, "Finished in %d steps\n", result.Steps)
	} else {
		fmt.Fprintf(out, "Did not finish within %d steps\n", result.Steps)
	}

	if alg == reinforcement.RandomWalkAlgorithm {
		return
	}
	fmt.Fprintln(out, "Policy:")
	printer.ShowPolicy(tr, solver.Policy)
	printer.ShowMaxValues(tr, solver.Value)
}
