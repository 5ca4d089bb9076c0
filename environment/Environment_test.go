package environment

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	ts "github.com/samuelfneumann/locomotion/timestep"
)

func TestIntervalLimitOpenBounds(t *testing.T) {
	limit, err := NewIntervalLimit([]r1.Interval{{Min: 0.8, Max: 2.0}},
		[]int{0}, ts.TerminalStateReached)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		value float64
		end   bool
	}{
		{1.0, false},
		{0.8, true},
		{2.0, true},
		{2.5, true},
		{math.NaN(), true},
	}

	for _, test := range tests {
		step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, []float64{test.value}),
			1)
		if end := limit.End(&step); end != test.end {
			t.Errorf("end(%v): have(%v) want(%v)", test.value, end, test.end)
		}
		if test.end && step.EndType() != ts.TerminalStateReached {
			t.Errorf("end(%v): endType have(%v) want(%v)", test.value,
				step.EndType(), ts.TerminalStateReached)
		}
	}
}

func TestIntervalLimitMismatch(t *testing.T) {
	_, err := NewIntervalLimit([]r1.Interval{{Min: 0, Max: 1}}, []int{0, 1},
		ts.TerminalStateReached)
	if err == nil {
		t.Error("newIntervalLimit: expected error for mismatched lengths")
	}
}

func TestStepLimit(t *testing.T) {
	limit := NewStepLimit(5)

	step := ts.New(ts.Mid, 0, 1, mat.NewVecDense(1, nil), 4)
	if limit.End(&step) {
		t.Error("end: step 4 should not end a 5 step episode")
	}

	step.Number = 5
	if !limit.End(&step) {
		t.Error("end: step 5 should end a 5 step episode")
	}
	if step.EndType() != ts.Timeout {
		t.Errorf("endType: have(%v) want(%v)", step.EndType(), ts.Timeout)
	}
}

func TestNormalStarter(t *testing.T) {
	mean := []float64{1.25, 0, -3}
	starter, err := NewNormalStarter(mean, []float64{0, 0, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}

	start := starter.Start()
	for i := range mean {
		if start.AtVec(i) != mean[i] {
			t.Errorf("start[%v]: have(%v) want(%v)", i, start.AtVec(i),
				mean[i])
		}
	}

	if _, err := NewNormalStarter(mean, []float64{0.1}, 1); err == nil {
		t.Error("newNormalStarter: expected error for mismatched lengths")
	}
	if _, err := NewNormalStarter([]float64{0}, []float64{-1}, 1); err == nil {
		t.Error("newNormalStarter: expected error for negative deviation")
	}
}

func TestUniformStarterBounds(t *testing.T) {
	bounds := []r1.Interval{{Min: -0.05, Max: 0.05}, {Min: 1, Max: 2}}
	starter := NewUniformStarter(bounds, 42)

	for i := 0; i < 100; i++ {
		start := starter.Start()
		for j, b := range bounds {
			if v := start.AtVec(j); v < b.Min || v > b.Max {
				t.Fatalf("start[%v]: %v not in [%v, %v]", j, v, b.Min, b.Max)
			}
		}
	}
}
