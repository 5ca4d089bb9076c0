// Package hopper implements the MuJoCo Hopper environment. The Hopper
// is a two-dimensional one-legged robot which is rewarded for hopping
// forward as fast as possible without falling over.
package hopper

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/locomotion/environment"
	"github.com/samuelfneumann/locomotion/environment/mujoco"
	"github.com/samuelfneumann/locomotion/experiment/trackers"
	ts "github.com/samuelfneumann/locomotion/timestep"
	"github.com/samuelfneumann/locomotion/utils/floatutils"
)

// Body is the name of the body whose centre of mass is observed and
// whose forward velocity is rewarded
const Body = "torso"

// Termination bounds. The Hopper stays alive while its height is above
// MinHeight, its pitch magnitude is below MaxPitch, and the magnitude
// of every state element from index 3 on is below MaxStateMagnitude.
const (
	MinHeight         = 0.7
	MaxPitch          = 0.2
	MaxStateMagnitude = 100.0
)

// ObservationClip bounds the velocities and constraint forces in
// observations
const ObservationClip = 10.0

// Config configures the reward and starting states of the Hopper
type Config struct {
	// AliveCoeff is the reward given on each step for not having
	// terminated
	AliveCoeff float64 `yaml:"alive_coeff" json:"alive_coeff"`

	// CtrlCostCoeff scales the penalty on squared, range-normalized
	// actions
	CtrlCostCoeff float64 `yaml:"ctrl_cost_coeff" json:"ctrl_cost_coeff"`

	// Start is the distribution of the noise added to the initial
	// state of the model on reset
	Start mujoco.StartDistribution `yaml:"start" json:"start"`
}

// DefaultConfig returns the default Hopper configuration
func DefaultConfig() Config {
	return Config{
		AliveCoeff:    1.0,
		CtrlCostCoeff: 0.01,
		Start:         mujoco.NormalStart,
	}
}

// Hopper implements the Hopper environment.
//
// Given generalized positions qpos, where qpos[0] is the height of the
// torso, qpos[1] its forward position, qpos[2] its pitch, and the
// remaining elements joint angles, observations are the concatenation
// of:
//
//	qpos[0]
//	qpos[2:]
//	qvel clipped to [-10, 10]
//	qfrc_constraint clipped to [-10, 10]
//	torso centre of mass (x, y, z)
//
// so that the forward position of the Hopper is only observed through
// the centre of mass of its torso.
//
// Rewards are the forward velocity of the torso's centre of mass plus
// an alive bonus minus a control cost. Actions are not clipped, neither
// before being sent to the simulator nor when computing the control
// cost.
//
// Episodes end when the state becomes unstable (see Healthy), when an
// observation contains NaN or ±Inf, or when the optional step limit is
// reached.
type Hopper struct {
	Config

	sim      mujoco.Simulator
	starter  environment.Starter
	enders   []environment.Ender
	discount float64
	obsLen   int

	currentTimeStep ts.TimeStep
}

// New returns a new Hopper environment over sim and its first
// timestep. Starting states are sampled with seed. If cutoff is
// positive, episodes are ended after cutoff steps.
func New(sim mujoco.Simulator, c Config, seed uint64, cutoff int,
	discount float64) (*Hopper, ts.TimeStep, error) {
	if sim.Nq() < 3 {
		return nil, ts.TimeStep{}, fmt.Errorf("newHopper: model should "+
			"have at least 3 generalized coordinates, got %v", sim.Nq())
	}

	starter, err := mujoco.NewStarter(sim, c.Start, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newHopper: %w", err)
	}

	h := &Hopper{
		Config:   c,
		sim:      sim,
		starter:  starter,
		discount: discount,
		obsLen:   sim.Nq() - 1 + 2*sim.Nv() + 3,
	}

	h.enders = append(h.enders, environment.NewFunctionEnder(h.unhealthy,
		ts.TerminalStateReached))
	if cutoff > 0 {
		h.enders = append(h.enders, environment.NewStepLimit(cutoff))
	}

	firstStep, err := h.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newHopper: %w", err)
	}
	return h, firstStep, nil
}

// Step takes one environmental step given some action. The returned
// boolean reports whether the step ended the episode. Errors are only
// returned for malformed actions or failures of the simulator.
func (h *Hopper) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if err := mujoco.CheckAction(h.sim, action); err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	if err := h.sim.Advance(action); err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	obs, err := h.getObs()
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	reward, err := h.reward(action)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	t := ts.New(ts.Mid, reward, h.discount, obs, h.currentTimeStep.Number+1)
	done := h.end(&t)
	h.currentTimeStep = t

	return t, done, nil
}

// reward returns the forward velocity of the torso plus the alive
// bonus, minus the control cost of the unclipped action
func (h *Hopper) reward(action mat.Vector) (float64, error) {
	vel, err := h.sim.BodyCOMVel(Body)
	if err != nil {
		return 0, fmt.Errorf("reward: %w", err)
	}

	low, high := h.sim.ActionBounds()
	ctrlCost := mujoco.ControlCost(action, low, high, h.CtrlCostCoeff)

	return vel.X + h.AliveCoeff - ctrlCost, nil
}

func (h *Hopper) end(t *ts.TimeStep) bool {
	for _, ender := range h.enders {
		if ender.End(t) {
			return true
		}
	}
	return false
}

// unhealthy reports whether an episode should terminate given the
// next observation
func (h *Hopper) unhealthy(obs *mat.VecDense) bool {
	if !floatutils.AllFinite(obs.RawVector().Data) {
		return true
	}
	return !Healthy(mujoco.StateVector(h.sim).RawVector().Data)
}

// Healthy returns whether the full simulator state, the generalized
// positions followed by the generalized velocities, is within the
// bounds in which the Hopper is considered alive
func Healthy(state []float64) bool {
	if len(state) < 3 || !floatutils.AllFinite(state) {
		return false
	}

	for _, s := range state[3:] {
		if !(math.Abs(s) < MaxStateMagnitude) {
			return false
		}
	}

	return state[0] > MinHeight && math.Abs(state[2]) < MaxPitch
}

// getObs returns the current state observation
func (h *Hopper) getObs() (*mat.VecDense, error) {
	pos := h.sim.QPos()
	vel := floatutils.ClipSlice(h.sim.QVel(), -ObservationClip,
		ObservationClip)
	frc := floatutils.ClipSlice(h.sim.QFrcConstraint(), -ObservationClip,
		ObservationClip)

	com, err := h.sim.BodyCOM(Body)
	if err != nil {
		return nil, fmt.Errorf("getObs: %w", err)
	}

	obs := make([]float64, 0, h.obsLen)
	obs = append(obs, pos[0])
	obs = append(obs, pos[2:]...)
	obs = append(obs, vel...)
	obs = append(obs, frc...)
	obs = append(obs, com.X, com.Y, com.Z)

	if len(obs) != h.obsLen {
		return nil, fmt.Errorf("getObs: invalid observation dimensions "+
			"\n\thave(%v) \n\twant(%v)", len(obs), h.obsLen)
	}
	return mat.NewVecDense(h.obsLen, obs), nil
}

// Reset resets the environment to begin a new episode
func (h *Hopper) Reset() (ts.TimeStep, error) {
	if err := mujoco.ResetState(h.sim, h.starter); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	obs, err := h.getObs()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not get starting "+
			"state observation: %w", err)
	}

	firstStep := ts.New(ts.First, 0, h.discount, obs, 0)
	h.currentTimeStep = firstStep
	return firstStep, nil
}

// CurrentTimeStep returns the current time step
func (h *Hopper) CurrentTimeStep() ts.TimeStep {
	return h.currentTimeStep
}

// ObservationSpec returns the observation specification of the
// environment
func (h *Hopper) ObservationSpec() environment.Spec {
	return environment.NewUnboundedSpec(h.obsLen, environment.Observation)
}

// ActionSpec returns the action specification of the environment
func (h *Hopper) ActionSpec() environment.Spec {
	return mujoco.ActionSpec(h.sim)
}

// DiscountSpec returns the discount specification of the environment
func (h *Hopper) DiscountSpec() environment.Spec {
	return mujoco.DiscountSpec(h.discount)
}

// LogDiagnostics records the forward progress statistics of paths
// collected on the Hopper
func (h *Hopper) LogDiagnostics(paths []trackers.Trajectory,
	r trackers.Recorder) error {
	stats, err := trackers.SummarizeForwardProgress(paths)
	if err != nil {
		return fmt.Errorf("logDiagnostics: %w", err)
	}

	stats.Record(r)
	return nil
}

// Dt returns the simulated time which passes in one environment step
func (h *Hopper) Dt() float64 {
	return h.sim.Dt()
}

// Close closes the underlying simulator
func (h *Hopper) Close() error {
	return h.sim.Close()
}
