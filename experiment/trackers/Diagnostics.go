package trackers

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	ts "github.com/samuelfneumann/locomotion/timestep"
)

// ForwardProgressOffset is the offset from the end of an observation
// of the forward position of the torso centre of mass. Observations of
// all locomotion environments end with the (x, y, z) centre of mass of
// the torso.
const ForwardProgressOffset = 3

// Keys under which forward progress statistics are recorded
const (
	AverageForwardProgress = "AverageForwardProgress"
	MaxForwardProgress     = "MaxForwardProgress"
	MinForwardProgress     = "MinForwardProgress"
	StdForwardProgress     = "StdForwardProgress"
)

// Trajectory is an ordered sequence of the timesteps of one episode.
// The first timestep holds the starting observation.
type Trajectory []ts.TimeStep

// ForwardProgress returns the distance the torso travelled forward
// between the first and last timestep of the trajectory
func (t Trajectory) ForwardProgress() (float64, error) {
	if len(t) == 0 {
		return 0, &DiagnosticsError{"forwardProgress",
			fmt.Errorf("empty trajectory: %w", errInvalidInput)}
	}

	first, err := forwardPosition(t[0])
	if err != nil {
		return 0, &DiagnosticsError{"forwardProgress", err}
	}
	last, err := forwardPosition(t[len(t)-1])
	if err != nil {
		return 0, &DiagnosticsError{"forwardProgress", err}
	}

	return last - first, nil
}

func forwardPosition(step ts.TimeStep) (float64, error) {
	if step.Observation == nil || step.Observation.Len() < ForwardProgressOffset {
		return 0, fmt.Errorf("observation of timestep %v too short for "+
			"forward position: %w", step.Number, errInvalidInput)
	}
	return step.Observation.AtVec(step.Observation.Len() -
		ForwardProgressOffset), nil
}

// ProgressStats summarizes the forward progress over a number of
// trajectories
type ProgressStats struct {
	Average float64
	Max     float64
	Min     float64
	Std     float64
}

// Record records each statistic in r
func (p ProgressStats) Record(r Recorder) {
	r.Record(AverageForwardProgress, p.Average)
	r.Record(MaxForwardProgress, p.Max)
	r.Record(MinForwardProgress, p.Min)
	r.Record(StdForwardProgress, p.Std)
}

// SummarizeForwardProgress returns the mean, maximum, minimum, and
// population standard deviation of the forward progress of each path.
// An error satisfying IsInvalidInput is returned if paths is empty or
// if any path has no timesteps.
func SummarizeForwardProgress(paths []Trajectory) (ProgressStats, error) {
	if len(paths) == 0 {
		return ProgressStats{}, &DiagnosticsError{"summarizeForwardProgress",
			fmt.Errorf("no trajectories: %w", errInvalidInput)}
	}

	progs := make([]float64, len(paths))
	for i, path := range paths {
		prog, err := path.ForwardProgress()
		if err != nil {
			return ProgressStats{}, fmt.Errorf("summarizeForwardProgress: "+
				"trajectory %v: %w", i, err)
		}
		progs[i] = prog
	}

	return Summarize(progs)
}

// Summarize returns the mean, maximum, minimum, and population
// standard deviation of values
func Summarize(values []float64) (ProgressStats, error) {
	if len(values) == 0 {
		return ProgressStats{}, &DiagnosticsError{"summarize",
			fmt.Errorf("no values: %w", errInvalidInput)}
	}

	return ProgressStats{
		Average: stat.Mean(values, nil),
		Max:     floats.Max(values),
		Min:     floats.Min(values),
		Std:     math.Sqrt(stat.Moment(2, values, nil)),
	}, nil
}
