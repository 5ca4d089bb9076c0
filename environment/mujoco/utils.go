package mujoco

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/locomotion/environment"
	"github.com/samuelfneumann/locomotion/utils/floatutils"
)

// Standard deviations of the noise added to the initial positions and
// velocities of a model when an episode starts
const (
	ResetPosNoise = 0.01
	ResetVelNoise = 0.1
)

// StateVector returns the full simulator state, the generalized
// positions followed by the generalized velocities
func StateVector(sim Simulator) *mat.VecDense {
	qpos := sim.QPos()
	qvel := sim.QVel()

	state := make([]float64, 0, len(qpos)+len(qvel))
	state = append(state, qpos...)
	state = append(state, qvel...)

	return mat.NewVecDense(len(state), state)
}

// ActionScaling returns half the width of the action range in each
// dimension
func ActionScaling(low, high []float64) []float64 {
	scaling := make([]float64, len(low))
	for i := range scaling {
		scaling[i] = (high[i] - low[i]) * 0.5
	}
	return scaling
}

// ControlCost returns 0.5 * coeff * Σᵢ (aᵢ / sᵢ)², where sᵢ is half the
// width of the action range in dimension i. The action is used as is,
// callers which need a clipped action should clip it first.
func ControlCost(action mat.Vector, low, high []float64,
	coeff float64) float64 {
	scaling := ActionScaling(low, high)

	var sumSq float64
	for i := 0; i < action.Len(); i++ {
		scaled := action.AtVec(i) / scaling[i]
		sumSq += scaled * scaled
	}

	return 0.5 * coeff * sumSq
}

// ClipAction returns a copy of action with each element clipped to
// [low[i], high[i]]
func ClipAction(action mat.Vector, low, high []float64) *mat.VecDense {
	clipped := mat.VecDenseCopyOf(action)
	for i := 0; i < clipped.Len(); i++ {
		clipped.SetVec(i, floatutils.Clip(clipped.AtVec(i), low[i], high[i]))
	}
	return clipped
}

// CheckAction returns an error if the action does not have one element
// per actuator of the simulator, or if the simulator does not report
// one lower and one upper bound per actuator
func CheckAction(sim Simulator, action mat.Vector) error {
	if action == nil {
		return fmt.Errorf("checkAction: nil action")
	}
	low, high := sim.ActionBounds()
	if len(low) != sim.Nu() || len(high) != sim.Nu() {
		return fmt.Errorf("checkAction: simulator should have one action "+
			"bound per actuator \n\thave(%v, %v) \n\twant(%v)", len(low),
			len(high), sim.Nu())
	}
	if action.Len() != sim.Nu() {
		return fmt.Errorf("checkAction: invalid number of action "+
			"dimensions \n\thave(%v) \n\twant(%v)", action.Len(), sim.Nu())
	}
	return nil
}

// StartDistribution names the distribution of the noise added to the
// initial state of a model when an episode starts
type StartDistribution string

const (
	// NormalStart adds Gaussian noise with standard deviation
	// ResetPosNoise to positions and ResetVelNoise to velocities. The
	// empty StartDistribution also selects NormalStart.
	NormalStart StartDistribution = "normal"

	// UniformStart adds noise drawn uniformly from
	// [-ResetPosNoise, ResetPosNoise] to positions and from
	// [-ResetVelNoise, ResetVelNoise] to velocities
	UniformStart StartDistribution = "uniform"
)

// NewStarter returns a Starter which samples starting states around
// the initial state of the simulator, perturbed by noise from the
// distribution dist.
func NewStarter(sim Simulator, dist StartDistribution,
	seed uint64) (environment.Starter, error) {
	initQPos := sim.InitQPos()
	initQVel := sim.InitQVel()

	mean := make([]float64, 0, len(initQPos)+len(initQVel))
	mean = append(mean, initQPos...)
	mean = append(mean, initQVel...)

	noise := make([]float64, len(mean))
	for i := range noise {
		if i < len(initQPos) {
			noise[i] = ResetPosNoise
		} else {
			noise[i] = ResetVelNoise
		}
	}

	switch dist {
	case NormalStart, "":
		starter, err := environment.NewNormalStarter(mean, noise, seed)
		if err != nil {
			return nil, fmt.Errorf("newStarter: %w", err)
		}
		return starter, nil

	case UniformStart:
		bounds := make([]r1.Interval, len(mean))
		for i := range bounds {
			bounds[i] = r1.Interval{
				Min: mean[i] - noise[i],
				Max: mean[i] + noise[i],
			}
		}
		return environment.NewUniformStarter(bounds, seed), nil
	}

	return nil, fmt.Errorf("newStarter: no such start distribution %q", dist)
}

// ResetState resets the simulator and then sets its state to a
// starting state drawn from starter. The starting state must hold the
// generalized positions followed by the generalized velocities.
func ResetState(sim Simulator, starter environment.Starter) error {
	if err := sim.Reset(); err != nil {
		return fmt.Errorf("resetState: %w", err)
	}

	start := starter.Start().RawVector().Data
	if len(start) != sim.Nq()+sim.Nv() {
		return fmt.Errorf("resetState: invalid starting state dimensions "+
			"\n\thave(%v) \n\twant(%v)", len(start), sim.Nq()+sim.Nv())
	}

	if err := sim.SetState(start[:sim.Nq()], start[sim.Nq():]); err != nil {
		return fmt.Errorf("resetState: %w", err)
	}
	return nil
}

// ActionSpec returns the continuous action specification of the
// simulator
func ActionSpec(sim Simulator) environment.Spec {
	low, high := sim.ActionBounds()

	lowVec := mat.NewVecDense(len(low), append([]float64(nil), low...))
	highVec := mat.NewVecDense(len(high), append([]float64(nil), high...))
	shape := mat.NewVecDense(len(low), nil)

	return environment.NewSpec(shape, environment.Action, lowVec, highVec,
		environment.Continuous)
}

// DiscountSpec returns the specification of a constant discount
func DiscountSpec(discount float64) environment.Spec {
	bounds := mat.NewVecDense(1, []float64{discount})

	return environment.NewSpec(mat.NewVecDense(1, nil), environment.Discount,
		bounds, bounds, environment.Continuous)
}
