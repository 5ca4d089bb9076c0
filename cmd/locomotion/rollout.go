package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/locomotion/environment/envconfig"
	"github.com/samuelfneumann/locomotion/environment/mujoco"
	"github.com/samuelfneumann/locomotion/experiment"
	"github.com/samuelfneumann/locomotion/experiment/policy"
	"github.com/samuelfneumann/locomotion/experiment/trackers"
)

// timed is implemented by environments which report the simulated
// time of one step
type timed interface {
	Dt() float64
}

// diagnosticLogger is implemented by environments which summarize
// recorded trajectories
type diagnosticLogger interface {
	LogDiagnostics(paths []trackers.Trajectory, r trackers.Recorder) error
}

func newRolloutCmd() *cobra.Command {
	var (
		configFile string
		policyName string
		outDir     string
		steps      uint
	)

	rolloutCmd := &cobra.Command{
		Use:   "rollout",
		Short: "roll out a fixed policy and record forward progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := envconfig.Load(configFile)
			if err != nil {
				return err
			}

			e, _, err := c.Open()
			if err != nil {
				return fmt.Errorf("rollout: %w (registered backends: %v)",
					err, mujoco.Backends())
			}
			if cl, ok := e.(io.Closer); ok {
				defer cl.Close()
			}

			var p experiment.Policy
			switch policyName {
			case "zero":
				p = policy.NewZero(e.ActionSpec())
			case "random":
				p, err = policy.NewUniformRandom(e.ActionSpec(), c.Seed)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("rollout: no such policy %q", policyName)
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return err
			}
			progress := trackers.NewForwardProgress(
				filepath.Join(outDir, "progress.bin"))
			returns := trackers.NewReturn(filepath.Join(outDir, "return.bin"))
			lengths := trackers.NewEpisodeLength(
				filepath.Join(outDir, "length.bin"))

			exp := experiment.NewOnline(e, p, steps, progress, returns, lengths)
			logger.Info("rolling out", "env", c.Environment, "policy",
				policyName, "steps", steps)
			if err := exp.Run(); err != nil {
				return err
			}
			if err := exp.Save(); err != nil {
				return err
			}

			paths := progress.Trajectories()
			logger.Info("finished", "episodes", len(paths),
				"returns", returns.Data())
			if d, ok := e.(timed); ok {
				logger.Info("simulated", "dt", d.Dt(),
					"seconds", float64(steps)*d.Dt())
			}
			if len(paths) == 0 {
				logger.Warn("no episode finished, nothing to summarize")
				return nil
			}

			tab := trackers.NewTabular()
			if d, ok := e.(diagnosticLogger); ok {
				err = d.LogDiagnostics(paths, tab)
			} else {
				var stats trackers.ProgressStats
				stats, err = trackers.SummarizeForwardProgress(paths)
				stats.Record(tab)
			}
			if err != nil {
				return err
			}
			tab.Log(logger, "diagnostics")
			return nil
		},
	}

	rolloutCmd.Flags().StringVarP(&configFile, "config", "c", "env.yaml",
		"environment configuration file")
	rolloutCmd.Flags().StringVar(&policyName, "policy", "random",
		"policy to roll out (zero or random)")
	rolloutCmd.Flags().StringVarP(&outDir, "out", "o", "data",
		"directory to save tracked data in")
	rolloutCmd.Flags().UintVar(&steps, "steps", 10_000,
		"number of environment steps")

	return rolloutCmd
}
