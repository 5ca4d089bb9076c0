// Package experiment implements functionality for running an experiment
package experiment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/locomotion/experiment/trackers"
	ts "github.com/samuelfneumann/locomotion/timestep"
)

// Policy selects actions in an environment
type Policy interface {
	SelectAction(t ts.TimeStep) *mat.VecDense
}

// Experiment outlines structs that can run experiments. Experiments
// send every TimeStep to their Trackers, which cache the data they
// need in RAM. The Save() function then saves all cached data to disk.
// The Run() method runs all episodes until the maximum timestep limit
// is reached, and RunEpisode() runs a single episode.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the step limit was reached

	// Save all tracked data to disk
	Save() error

	// Adds a new Tracker to the (possibly already running) experiment.
	Register(t trackers.Tracker)
}
