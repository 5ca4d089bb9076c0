// Package walker2d implements the MuJoCo Walker2D environment. The
// Walker2D is a two-dimensional bipedal robot which is rewarded for
// walking forward as fast as possible without falling over.
package walker2d

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/locomotion/environment"
	"github.com/samuelfneumann/locomotion/environment/mujoco"
	"github.com/samuelfneumann/locomotion/experiment/trackers"
	ts "github.com/samuelfneumann/locomotion/timestep"
)

// Body is the name of the body whose centre of mass is observed and
// whose forward velocity is rewarded
const Body = "torso"

// Open intervals which the torso height, qpos[0], and the torso tilt,
// qpos[2], must stay within for the episode to continue
var (
	HeightBounds = r1.Interval{Min: 0.8, Max: 2.0}
	TiltBounds   = r1.Interval{Min: -1.0, Max: 1.0}
)

// Config configures the reward and starting states of the Walker2D
type Config struct {
	// CtrlCostCoeff scales the penalty on squared, range-normalized
	// actions
	CtrlCostCoeff float64 `yaml:"ctrl_cost_coeff" json:"ctrl_cost_coeff"`

	// Start is the distribution of the noise added to the initial
	// state of the model on reset
	Start mujoco.StartDistribution `yaml:"start" json:"start"`
}

// DefaultConfig returns the default Walker2D configuration
func DefaultConfig() Config {
	return Config{CtrlCostCoeff: 0.01, Start: mujoco.NormalStart}
}

// Walker2D implements the Walker2D environment.
//
// Observations are the concatenation of the generalized positions,
// the generalized velocities, and the (x, y, z) centre of mass of the
// torso. Nothing is clipped.
//
// Rewards are the forward velocity of the torso's centre of mass minus
// a control cost. Actions are sent to the simulator as given, but are
// clipped to the action bounds before the control cost is computed.
//
// Episodes end when the torso height leaves (0.8, 2.0) or the torso
// tilt leaves (-1, 1), or when the optional step limit is reached.
type Walker2D struct {
	Config

	sim      mujoco.Simulator
	starter  environment.Starter
	enders   []environment.Ender
	discount float64
	obsLen   int

	currentTimeStep ts.TimeStep
}

// New returns a new Walker2D environment over sim and its first
// timestep. Starting states are sampled with seed. If cutoff is
// positive, episodes are ended after cutoff steps.
func New(sim mujoco.Simulator, c Config, seed uint64, cutoff int,
	discount float64) (*Walker2D, ts.TimeStep, error) {
	if sim.Nq() < 3 {
		return nil, ts.TimeStep{}, fmt.Errorf("newWalker2D: model should "+
			"have at least 3 generalized coordinates, got %v", sim.Nq())
	}

	starter, err := mujoco.NewStarter(sim, c.Start, seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newWalker2D: %w", err)
	}

	// Observations start with qpos, so qpos[i] is observation feature i
	fallen, err := environment.NewIntervalLimit(
		[]r1.Interval{HeightBounds, TiltBounds},
		[]int{0, 2},
		ts.TerminalStateReached,
	)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newWalker2D: %w", err)
	}

	w := &Walker2D{
		Config:   c,
		sim:      sim,
		starter:  starter,
		enders:   []environment.Ender{fallen},
		discount: discount,
		obsLen:   sim.Nq() + sim.Nv() + 3,
	}
	if cutoff > 0 {
		w.enders = append(w.enders, environment.NewStepLimit(cutoff))
	}

	firstStep, err := w.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newWalker2D: %w", err)
	}
	return w, firstStep, nil
}

// Step takes one environmental step given some action. The returned
// boolean reports whether the step ended the episode.
func (w *Walker2D) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if err := mujoco.CheckAction(w.sim, action); err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	// The simulator receives the action as given, only the control
	// cost sees the clipped action
	if err := w.sim.Advance(action); err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	obs, err := w.getObs()
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	reward, err := w.reward(action)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", err)
	}

	t := ts.New(ts.Mid, reward, w.discount, obs, w.currentTimeStep.Number+1)
	done := w.end(&t)
	w.currentTimeStep = t

	return t, done, nil
}

// reward returns the forward velocity of the torso minus the control
// cost of the clipped action
func (w *Walker2D) reward(action mat.Vector) (float64, error) {
	low, high := w.sim.ActionBounds()
	clipped := mujoco.ClipAction(action, low, high)
	ctrlCost := mujoco.ControlCost(clipped, low, high, w.CtrlCostCoeff)

	vel, err := w.sim.BodyCOMVel(Body)
	if err != nil {
		return 0, fmt.Errorf("reward: %w", err)
	}

	return vel.X - ctrlCost, nil
}

func (w *Walker2D) end(t *ts.TimeStep) bool {
	for _, ender := range w.enders {
		if ender.End(t) {
			return true
		}
	}
	return false
}

// getObs returns the current state observation
func (w *Walker2D) getObs() (*mat.VecDense, error) {
	com, err := w.sim.BodyCOM(Body)
	if err != nil {
		return nil, fmt.Errorf("getObs: %w", err)
	}

	obs := make([]float64, 0, w.obsLen)
	obs = append(obs, w.sim.QPos()...)
	obs = append(obs, w.sim.QVel()...)
	obs = append(obs, com.X, com.Y, com.Z)

	if len(obs) != w.obsLen {
		return nil, fmt.Errorf("getObs: invalid observation dimensions "+
			"\n\thave(%v) \n\twant(%v)", len(obs), w.obsLen)
	}
	return mat.NewVecDense(w.obsLen, obs), nil
}

// Reset resets the environment to begin a new episode
func (w *Walker2D) Reset() (ts.TimeStep, error) {
	if err := mujoco.ResetState(w.sim, w.starter); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	obs, err := w.getObs()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not get starting "+
			"state observation: %w", err)
	}

	firstStep := ts.New(ts.First, 0, w.discount, obs, 0)
	w.currentTimeStep = firstStep
	return firstStep, nil
}

// CurrentTimeStep returns the current time step
func (w *Walker2D) CurrentTimeStep() ts.TimeStep {
	return w.currentTimeStep
}

// ObservationSpec returns the observation specification of the
// environment
func (w *Walker2D) ObservationSpec() environment.Spec {
	return environment.NewUnboundedSpec(w.obsLen, environment.Observation)
}

// ActionSpec returns the action specification of the environment
func (w *Walker2D) ActionSpec() environment.Spec {
	return mujoco.ActionSpec(w.sim)
}

// DiscountSpec returns the discount specification of the environment
func (w *Walker2D) DiscountSpec() environment.Spec {
	return mujoco.DiscountSpec(w.discount)
}

// LogDiagnostics records the forward progress statistics of paths
// collected on the Walker2D
func (w *Walker2D) LogDiagnostics(paths []trackers.Trajectory,
	r trackers.Recorder) error {
	stats, err := trackers.SummarizeForwardProgress(paths)
	if err != nil {
		return fmt.Errorf("logDiagnostics: %w", err)
	}

	stats.Record(r)
	return nil
}

// Dt returns the simulated time which passes in one environment step
func (w *Walker2D) Dt() float64 {
	return w.sim.Dt()
}

// Close closes the underlying simulator
func (w *Walker2D) Close() error {
	return w.sim.Close()
}
