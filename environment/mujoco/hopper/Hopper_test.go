package hopper

import (
	"io"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/locomotion/environment"
	"github.com/samuelfneumann/locomotion/environment/mujoco"
	"github.com/samuelfneumann/locomotion/environment/mujoco/simtest"
	"github.com/samuelfneumann/locomotion/experiment/trackers"
	ts "github.com/samuelfneumann/locomotion/timestep"
)

const (
	nq = 6
	nv = 6
	nu = 3
)

// newStandingHopper returns a Hopper whose simulator holds the torso at
// height 1.5 and zero pitch, moving forward at 2.0
func newStandingHopper(t *testing.T, c Config) (*Hopper, *simtest.Simulator) {
	t.Helper()

	sim := simtest.New(nq, nv, nu)
	h, _, err := New(sim, c, 1, 0, 0.99)
	if err != nil {
		t.Fatal(err)
	}

	sim.Pos = []float64{1.5, 0, 0, 0, 0, 0}
	sim.Vel = make([]float64, nv)
	sim.FrcConstraint = make([]float64, nv)
	sim.COMVel[Body] = r3.Vec{X: 2.0}

	return h, sim
}

func TestStepReward(t *testing.T) {
	h, _ := newStandingHopper(t, DefaultConfig())

	step, done, err := h.Step(mat.NewVecDense(nu, nil))
	if err != nil {
		t.Fatal(err)
	}
	if done || step.Last() {
		t.Error("step: height 1.5 and pitch 0 should not end the episode")
	}
	if !scalar.EqualWithinAbs(step.Reward, 3.0, 1e-12) {
		t.Errorf("reward: have(%v) want(3.0)", step.Reward)
	}
	if step.Number != 1 {
		t.Errorf("number: have(%v) want(1)", step.Number)
	}
}

func TestStepTooLow(t *testing.T) {
	h, sim := newStandingHopper(t, DefaultConfig())
	sim.Pos[0] = 0.5

	step, done, err := h.Step(mat.NewVecDense(nu, nil))
	if err != nil {
		t.Fatal(err)
	}
	if !done || !step.Last() {
		t.Error("step: height 0.5 should end the episode")
	}
	if step.EndType() != ts.TerminalStateReached {
		t.Errorf("endType: have(%v) want(%v)", step.EndType(),
			ts.TerminalStateReached)
	}
}

func TestHealthy(t *testing.T) {
	standing := func() []float64 {
		return []float64{1.5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	}

	tests := []struct {
		name   string
		modify func([]float64)
		want   bool
	}{
		{"standing", func([]float64) {}, true},
		{"too low", func(s []float64) { s[0] = 0.7 }, false},
		{"pitched forward", func(s []float64) { s[2] = 0.2 }, false},
		{"pitched back", func(s []float64) { s[2] = -0.25 }, false},
		{"slight pitch", func(s []float64) { s[2] = -0.19 }, true},
		{"forward position unbounded", func(s []float64) { s[1] = 1e6 }, true},
		{"fast joint", func(s []float64) { s[3] = 100 }, false},
		{"fast velocity", func(s []float64) { s[11] = -150 }, false},
		{"nan", func(s []float64) { s[1] = math.NaN() }, false},
		{"inf", func(s []float64) { s[7] = math.Inf(-1) }, false},
	}

	for _, test := range tests {
		state := standing()
		test.modify(state)
		if got := Healthy(state); got != test.want {
			t.Errorf("%v: healthy have(%v) want(%v)", test.name, got, test.want)
		}
	}
}

func TestNonFiniteObservationEnds(t *testing.T) {
	h, sim := newStandingHopper(t, DefaultConfig())
	sim.FrcConstraint[0] = math.NaN()

	_, done, err := h.Step(mat.NewVecDense(nu, nil))
	if err != nil {
		t.Fatalf("step: non-finite values should not be errors: %v", err)
	}
	if !done {
		t.Error("step: non-finite observation should end the episode")
	}

	h, sim = newStandingHopper(t, DefaultConfig())
	sim.COM[Body] = r3.Vec{X: math.Inf(1)}
	if _, done, _ := h.Step(mat.NewVecDense(nu, nil)); !done {
		t.Error("step: non-finite centre of mass should end the episode")
	}
}

func TestObservation(t *testing.T) {
	h, sim := newStandingHopper(t, DefaultConfig())

	advance := func(s *simtest.Simulator, _ mat.Vector) error {
		s.Pos = []float64{1.25, 7, 0.1, 0.2, 0.3, 0.4}
		s.Vel = []float64{-20, -1, 0, 1, 5, 20}
		s.FrcConstraint = []float64{11, 0, 0, 0, 0, -0.5}
		s.COM[Body] = r3.Vec{X: 7.5, Y: 0, Z: 1.1}
		return nil
	}
	sim.OnAdvance = advance

	step, _, err := h.Step(mat.NewVecDense(nu, nil))
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{
		1.25, 0.1, 0.2, 0.3, 0.4, // qpos without the forward position
		-10, -1, 0, 1, 5, 10, // clipped qvel
		10, 0, 0, 0, 0, -0.5, // clipped qfrc_constraint
		7.5, 0, 1.1, // torso centre of mass
	}
	got := step.Observation.RawVector().Data
	if !floats.Equal(got, want) {
		t.Errorf("observation: \n\thave(%v) \n\twant(%v)", got, want)
	}

	if l := h.ObservationSpec().Shape.Len(); l != len(want) {
		t.Errorf("observationSpec: have(%v) want(%v)", l, len(want))
	}
}

func TestUnclippedAction(t *testing.T) {
	h, sim := newStandingHopper(t, Config{AliveCoeff: 1, CtrlCostCoeff: 0.01})

	action := mat.NewVecDense(nu, []float64{2, 0, -1})
	step, _, err := h.Step(action)
	if err != nil {
		t.Fatal(err)
	}

	if got := sim.LastAction().RawVector().Data; !floats.Equal(got,
		[]float64{2, 0, -1}) {
		t.Errorf("advance: action should not be clipped, have(%v)", got)
	}

	// (2² + 0² + 1²) with unit scaling
	want := 2.0 + 1.0 - 0.5*0.01*5
	if !scalar.EqualWithinAbs(step.Reward, want, 1e-12) {
		t.Errorf("reward: have(%v) want(%v)", step.Reward, want)
	}
}

func TestInvalidAction(t *testing.T) {
	h, sim := newStandingHopper(t, DefaultConfig())

	if _, _, err := h.Step(mat.NewVecDense(nu+1, nil)); err == nil {
		t.Error("step: expected error for invalid action dimensions")
	}
	if len(sim.Actions) != 0 {
		t.Error("step: invalid actions should not reach the simulator")
	}
}

func TestStepLimit(t *testing.T) {
	sim := simtest.New(nq, nv, nu)
	h, _, err := New(sim, DefaultConfig(), 1, 2, 0.99)
	if err != nil {
		t.Fatal(err)
	}
	sim.OnAdvance = func(s *simtest.Simulator, _ mat.Vector) error {
		s.Pos = []float64{1.5, 0, 0, 0, 0, 0}
		return nil
	}

	if _, done, _ := h.Step(mat.NewVecDense(nu, nil)); done {
		t.Fatal("step: first step should not end the episode")
	}
	step, done, _ := h.Step(mat.NewVecDense(nu, nil))
	if !done || step.EndType() != ts.Timeout {
		t.Errorf("step: have(done=%v, %v) want(done=true, %v)", done,
			step.EndType(), ts.Timeout)
	}
}

func TestReset(t *testing.T) {
	sim := simtest.New(nq, nv, nu)
	sim.InitPos = []float64{1.25, 0, 0, 0, 0, 0}

	h, first, err := New(sim, DefaultConfig(), 1, 0, 0.99)
	if err != nil {
		t.Fatal(err)
	}
	if !first.First() || first.Number != 0 {
		t.Errorf("new: first timestep should be First with number 0, got %v",
			first)
	}

	h.Step(mat.NewVecDense(nu, nil))
	step, err := h.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if sim.Resets != 2 {
		t.Errorf("reset: simulator resets have(%v) want(2)", sim.Resets)
	}
	if h.CurrentTimeStep().Number != 0 || !step.First() {
		t.Error("reset: current timestep should be the first timestep")
	}
}

func TestUniformStart(t *testing.T) {
	sim := simtest.New(nq, nv, nu)
	sim.InitPos = []float64{1.25, 0, 0, 0, 0, 0}

	c := DefaultConfig()
	c.Start = mujoco.UniformStart
	_, first, err := New(sim, c, 1, 0, 0.99)
	if err != nil {
		t.Fatal(err)
	}

	// Observations start with qpos[0]
	height := first.Observation.AtVec(0)
	if !scalar.EqualWithinAbs(height, 1.25, mujoco.ResetPosNoise) {
		t.Errorf("reset: height %v not within %v of 1.25", height,
			mujoco.ResetPosNoise)
	}

	c.Start = "beta"
	if _, _, err := New(simtest.New(nq, nv, nu), c, 1, 0, 0.99); err == nil {
		t.Error("new: expected error for unknown start distribution")
	}
}

func TestDt(t *testing.T) {
	h, sim := newStandingHopper(t, DefaultConfig())
	sim.Timestep = 0.02
	if h.Dt() != 0.02 {
		t.Errorf("dt: have(%v) want(0.02)", h.Dt())
	}
}

func TestLogDiagnostics(t *testing.T) {
	h, _ := newStandingHopper(t, DefaultConfig())

	tab := trackers.NewTabular()
	if err := h.LogDiagnostics(nil, tab); !trackers.IsInvalidInput(err) {
		t.Errorf("logDiagnostics: have(%v) want invalid input", err)
	}

	first := h.CurrentTimeStep()
	last, _, err := h.Step(mat.NewVecDense(nu, nil))
	if err != nil {
		t.Fatal(err)
	}
	// Torso centre of mass moved 0 → 0
	if err := h.LogDiagnostics([]trackers.Trajectory{{first, last}},
		tab); err != nil {
		t.Fatal(err)
	}
	if _, ok := tab.Get(trackers.AverageForwardProgress); !ok {
		t.Error("logDiagnostics: average forward progress not recorded")
	}
}

func TestImplementsEnvironment(t *testing.T) {
	var _ environment.Environment = (*Hopper)(nil)
}

func TestCloseAsCloser(t *testing.T) {
	h, sim := newStandingHopper(t, DefaultConfig())

	var e environment.Environment = h
	cl, ok := e.(io.Closer)
	if !ok {
		t.Fatal("close: hopper should implement io.Closer")
	}
	if err := cl.Close(); err != nil {
		t.Fatal(err)
	}
	if !sim.Closed {
		t.Error("close: simulator should be closed")
	}
}
