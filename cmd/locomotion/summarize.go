package main

import (
	"github.com/spf13/cobra"

	"github.com/samuelfneumann/locomotion/experiment/trackers"
)

func newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize FILE...",
		Short: "summarize forward progress saved by rollout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var progs []float64
			for _, file := range args {
				data, err := trackers.LoadData(file)
				if err != nil {
					return err
				}
				progs = append(progs, data...)
			}

			stats, err := trackers.Summarize(progs)
			if err != nil {
				return err
			}

			tab := trackers.NewTabular()
			stats.Record(tab)
			tab.Log(logger, "diagnostics")
			return nil
		},
	}
}
