// Package policy implements simple policies for rolling out
// environments without a learning agent
package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/samuelfneumann/locomotion/environment"
	ts "github.com/samuelfneumann/locomotion/timestep"
)

// Zero always selects the zero action
type Zero struct {
	dims int
}

// NewZero returns a new Zero policy for actions described by spec
func NewZero(spec environment.Spec) *Zero {
	return &Zero{spec.Shape.Len()}
}

// SelectAction returns the zero action
func (z *Zero) SelectAction(ts.TimeStep) *mat.VecDense {
	return mat.NewVecDense(z.dims, nil)
}

// UniformRandom selects actions uniformly at random within the bounds
// of an action specification
type UniformRandom struct {
	seed uint64
	rand *distmv.Uniform
}

// NewUniformRandom returns a new UniformRandom policy for actions
// described by spec. Each action bound must be finite.
func NewUniformRandom(spec environment.Spec, seed uint64) (*UniformRandom,
	error) {
	if spec.Type != environment.Action {
		return nil, fmt.Errorf("newUniformRandom: spec should be an " +
			"action specification")
	}
	if spec.Cardinality != environment.Continuous {
		return nil, fmt.Errorf("newUniformRandom: actions should be " +
			"continuous")
	}

	bounds := make([]r1.Interval, spec.Shape.Len())
	for i := range bounds {
		low, high := spec.LowerBound.AtVec(i), spec.UpperBound.AtVec(i)
		if math.IsInf(low, 0) || math.IsInf(high, 0) || low > high {
			return nil, fmt.Errorf("newUniformRandom: invalid bounds "+
				"[%v, %v] for dimension %v", low, high, i)
		}
		bounds[i] = r1.Interval{Min: low, Max: high}
	}

	source := rand.NewSource(seed)
	return &UniformRandom{seed, distmv.NewUniform(bounds, source)}, nil
}

// SelectAction returns an action sampled uniformly at random
func (u *UniformRandom) SelectAction(ts.TimeStep) *mat.VecDense {
	sample := u.rand.Rand(nil)
	return mat.NewVecDense(len(sample), sample)
}
