package trackers

import (
	"fmt"

	ts "github.com/samuelfneumann/locomotion/timestep"
)

// ForwardProgress tracks the trajectories of an experiment and saves
// the forward progress of each finished episode. A trajectory starts at
// a First timestep and finishes at a Last timestep; unfinished
// trajectories are neither summarized nor saved.
type ForwardProgress struct {
	current  Trajectory
	paths    []Trajectory
	filename string
}

// NewForwardProgress returns a new ForwardProgress Tracker which will
// save its data at the specified location filename
func NewForwardProgress(filename string) *ForwardProgress {
	return &ForwardProgress{filename: filename}
}

// Track appends step to the current trajectory
func (f *ForwardProgress) Track(step ts.TimeStep) {
	if step.First() {
		f.current = nil
	}
	f.current = append(f.current, step)

	if step.Last() {
		f.paths = append(f.paths, f.current)
		f.current = nil
	}
}

// Trajectories returns all finished trajectories
func (f *ForwardProgress) Trajectories() []Trajectory {
	return append([]Trajectory(nil), f.paths...)
}

// Summary summarizes the forward progress of all finished trajectories
func (f *ForwardProgress) Summary() (ProgressStats, error) {
	return SummarizeForwardProgress(f.paths)
}

// Data returns the forward progress of each finished trajectory
func (f *ForwardProgress) Data() ([]float64, error) {
	progs := make([]float64, len(f.paths))
	for i, path := range f.paths {
		prog, err := path.ForwardProgress()
		if err != nil {
			return nil, fmt.Errorf("data: trajectory %v: %w", i, err)
		}
		progs[i] = prog
	}
	return progs, nil
}

// Save saves the forward progress of each finished trajectory to disk
func (f *ForwardProgress) Save() error {
	progs, err := f.Data()
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := saveData(f.filename, progs); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
