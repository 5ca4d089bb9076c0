package environment

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r1"

	ts "github.com/samuelfneumann/locomotion/timestep"
)

// IntervalLimit implements the Ender interface to end episodes
// whenever a single feature in an observation vector leaves some open
// interval. A feature equal to either interval bound ends the episode.
type IntervalLimit struct {
	intervals []r1.Interval
	indices   []int
	endType   ts.EndType
}

// NewIntervalLimit creates and returns a new interval limit. The endType
// argument determines what the episode end should be considered as.
func NewIntervalLimit(limits []r1.Interval, obsIndices []int,
	endType ts.EndType) (*IntervalLimit, error) {
	if len(limits) != len(obsIndices) {
		return nil, fmt.Errorf("newIntervalLimit: limits should have same "+
			"length as observation indices \n\thave(%v) \n\twant(%v)",
			len(limits), len(obsIndices))
	}

	return &IntervalLimit{limits, obsIndices, endType}, nil
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() marks the timestep as the last with the
// appropriate ending type. NaN features always end the episode.
func (i *IntervalLimit) End(t *ts.TimeStep) bool {
	for index, featureIndex := range i.indices {
		interval := i.intervals[index]
		feature := t.Observation.AtVec(featureIndex)

		if !(feature > interval.Min && feature < interval.Max) {
			t.SetEnd(i.endType)
			return true
		}
	}
	return false
}
