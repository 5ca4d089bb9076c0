package environment

import (
	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/locomotion/timestep"
)

// FunctionEnder ends an episode whenever a function of the
// observation returns true. The function may close over other state,
// such as the underlying simulator state.
type FunctionEnder struct {
	end     func(*mat.VecDense) bool
	endType ts.EndType
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true.
func NewFunctionEnder(f func(*mat.VecDense) bool, endType ts.EndType) *FunctionEnder {
	return &FunctionEnder{f, endType}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended, End() marks the timestep as the last with the
// appropriate ending type.
func (f *FunctionEnder) End(t *ts.TimeStep) bool {
	if f.end(t.Observation) {
		t.SetEnd(f.endType)
		return true
	}
	return false
}
