package timestep

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestSetEnd(t *testing.T) {
	step := New(Mid, 1.0, 0.99, mat.NewVecDense(2, nil), 3)
	if step.Last() {
		t.Fatal("new mid timestep should not be last")
	}
	if step.EndType() != Running {
		t.Errorf("endType: have(%v) want(%v)", step.EndType(), Running)
	}

	step.SetEnd(Timeout)
	if !step.Last() {
		t.Error("setEnd: timestep should be last")
	}
	if step.EndType() != Timeout {
		t.Errorf("endType: have(%v) want(%v)", step.EndType(), Timeout)
	}
}

func TestStepTypeString(t *testing.T) {
	types := map[StepType]string{First: "First", Mid: "Mid", Last: "Last"}
	for st, want := range types {
		if st.String() != want {
			t.Errorf("string: have(%v) want(%v)", st.String(), want)
		}
	}
}
