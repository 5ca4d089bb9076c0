package walker2d

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/locomotion/environment"
	"github.com/samuelfneumann/locomotion/environment/mujoco/simtest"
	"github.com/samuelfneumann/locomotion/experiment/trackers"
	ts "github.com/samuelfneumann/locomotion/timestep"
)

const (
	nq = 9
	nv = 9
	nu = 6
)

// newWalker returns a Walker2D whose simulator moves the torso to the
// given height and tilt on every step
func newWalker(t *testing.T, height, tilt float64) (*Walker2D,
	*simtest.Simulator) {
	t.Helper()

	sim := simtest.New(nq, nv, nu)
	w, _, err := New(sim, DefaultConfig(), 1, 0, 0.99)
	if err != nil {
		t.Fatal(err)
	}

	sim.OnAdvance = func(s *simtest.Simulator, _ mat.Vector) error {
		s.Pos = make([]float64, nq)
		s.Pos[0] = height
		s.Pos[2] = tilt
		return nil
	}
	return w, sim
}

func TestTermination(t *testing.T) {
	tests := []struct {
		height, tilt float64
		done         bool
	}{
		{1.0, 0.0, false},
		{2.5, 0.0, true},
		{0.8, 0.0, true},
		{2.0, 0.0, true},
		{0.81, 0.99, false},
		{1.0, -1.0, true},
		{1.0, 1.5, true},
		{math.NaN(), 0.0, true},
	}

	for _, test := range tests {
		w, _ := newWalker(t, test.height, test.tilt)
		step, done, err := w.Step(mat.NewVecDense(nu, nil))
		if err != nil {
			t.Fatal(err)
		}
		if done != test.done || step.Last() != test.done {
			t.Errorf("step(height=%v, tilt=%v): done have(%v) want(%v)",
				test.height, test.tilt, done, test.done)
		}
	}
}

func TestClippedControlCost(t *testing.T) {
	w, sim := newWalker(t, 1.0, 0.0)
	sim.COMVel[Body] = r3.Vec{X: 1.5}

	// Only the first and last dimensions are out of bounds
	original := []float64{3, 0.5, 0, 0, 0, -4}
	step, _, err := w.Step(mat.NewVecDense(nu, append([]float64(nil),
		original...)))
	if err != nil {
		t.Fatal(err)
	}

	// Dynamics see the unclipped action
	if got := sim.LastAction().RawVector().Data; !floats.Equal(got,
		original) {
		t.Errorf("advance: have(%v) want(%v)", got, original)
	}

	// Control cost sees the clipped action (1, 0.5, 0, 0, 0, -1)
	want := 1.5 - 0.5*0.01*(1+0.25+1)
	if !scalar.EqualWithinAbs(step.Reward, want, 1e-12) {
		t.Errorf("reward: have(%v) want(%v)", step.Reward, want)
	}
}

func TestObservation(t *testing.T) {
	w, sim := newWalker(t, 1.25, 0.1)
	sim.COM[Body] = r3.Vec{X: 3, Y: 0, Z: 1.25}

	step, _, err := w.Step(mat.NewVecDense(nu, nil))
	if err != nil {
		t.Fatal(err)
	}

	obs := step.Observation.RawVector().Data
	if len(obs) != nq+nv+3 {
		t.Fatalf("observation: length have(%v) want(%v)", len(obs), nq+nv+3)
	}
	if obs[0] != 1.25 || obs[2] != 0.1 {
		t.Errorf("observation: should start with qpos, have(%v)", obs[:nq])
	}
	if com := obs[len(obs)-3:]; !floats.Equal(com, []float64{3, 0, 1.25}) {
		t.Errorf("observation: centre of mass have(%v) want([3 0 1.25])", com)
	}

	// Velocities are not clipped
	sim.OnAdvance = func(s *simtest.Simulator, _ mat.Vector) error {
		s.Vel[4] = 25
		return nil
	}
	step, _, err = w.Step(mat.NewVecDense(nu, nil))
	if err != nil {
		t.Fatal(err)
	}
	if v := step.Observation.AtVec(nq + 4); v != 25 {
		t.Errorf("observation: qvel[4] have(%v) want(25)", v)
	}

	if l := w.ObservationSpec().Shape.Len(); l != nq+nv+3 {
		t.Errorf("observationSpec: have(%v) want(%v)", l, nq+nv+3)
	}
	if l := w.ActionSpec().Shape.Len(); l != nu {
		t.Errorf("actionSpec: have(%v) want(%v)", l, nu)
	}
}

func TestUnknownBody(t *testing.T) {
	w, sim := newWalker(t, 1.0, 0.0)
	delete(sim.COMVel, Body)

	if _, _, err := w.Step(mat.NewVecDense(nu, nil)); err == nil {
		t.Error("step: expected simulator error to propagate")
	}
}

func TestStepLimit(t *testing.T) {
	sim := simtest.New(nq, nv, nu)
	sim.InitPos[0] = 1.25
	w, _, err := New(sim, DefaultConfig(), 1, 1, 1.0)
	if err != nil {
		t.Fatal(err)
	}

	step, done, err := w.Step(mat.NewVecDense(nu, nil))
	if err != nil {
		t.Fatal(err)
	}
	if !done || step.EndType() != ts.Timeout {
		t.Errorf("step: have(done=%v, %v) want(done=true, %v)", done,
			step.EndType(), ts.Timeout)
	}
}

func TestLogDiagnostics(t *testing.T) {
	w, sim := newWalker(t, 1.0, 0.0)

	first := w.CurrentTimeStep()
	sim.COM[Body] = r3.Vec{X: first.Observation.AtVec(nq+nv) + 2.5}
	last, _, err := w.Step(mat.NewVecDense(nu, nil))
	if err != nil {
		t.Fatal(err)
	}

	tab := trackers.NewTabular()
	if err := w.LogDiagnostics([]trackers.Trajectory{{first, last}},
		tab); err != nil {
		t.Fatal(err)
	}
	if v, _ := tab.Get(trackers.MaxForwardProgress); !scalar.EqualWithinAbs(v,
		2.5, 1e-12) {
		t.Errorf("logDiagnostics: max forward progress have(%v) want(2.5)", v)
	}

	if err := w.LogDiagnostics(nil, tab); !trackers.IsInvalidInput(err) {
		t.Errorf("logDiagnostics: have(%v) want invalid input", err)
	}
}

func TestImplementsEnvironment(t *testing.T) {
	var _ environment.Environment = (*Walker2D)(nil)
}
