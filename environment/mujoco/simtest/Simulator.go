// Package simtest provides an in-memory mujoco.Simulator for testing
// environments without a physics engine. The state of a Simulator is
// scripted by the test rather than computed.
package simtest

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/locomotion/environment/mujoco"
)

// Simulator is a scripted mujoco.Simulator. Every action passed to
// Advance is recorded in Actions, unmodified. If OnAdvance is set it is
// called after the action is recorded and may modify the Simulator to
// emulate dynamics.
type Simulator struct {
	Pos           []float64
	Vel           []float64
	FrcConstraint []float64

	COM    map[string]r3.Vec
	COMVel map[string]r3.Vec

	Low  []float64
	High []float64

	InitPos []float64
	InitVel []float64

	Timestep float64

	Actions   []*mat.VecDense
	OnAdvance func(s *Simulator, action mat.Vector) error

	Resets int
	Closed bool
}

// New returns a Simulator with nq generalized coordinates, nv degrees
// of freedom, and nu actuators bounded in [-1, 1]. The state, constraint
// forces, and the centre of mass of a body named "torso" start at zero.
func New(nq, nv, nu int) *Simulator {
	low := make([]float64, nu)
	high := make([]float64, nu)
	for i := range low {
		low[i] = -1
		high[i] = 1
	}

	return &Simulator{
		Pos:           make([]float64, nq),
		Vel:           make([]float64, nv),
		FrcConstraint: make([]float64, nv),
		COM:           map[string]r3.Vec{"torso": {}},
		COMVel:        map[string]r3.Vec{"torso": {}},
		Low:           low,
		High:          high,
		InitPos:       make([]float64, nq),
		InitVel:       make([]float64, nv),
		Timestep:      0.008,
	}
}

var _ mujoco.Simulator = (*Simulator)(nil)

func (s *Simulator) Nq() int { return len(s.Pos) }
func (s *Simulator) Nv() int { return len(s.Vel) }
func (s *Simulator) Nu() int { return len(s.Low) }

func (s *Simulator) QPos() []float64 { return clone(s.Pos) }
func (s *Simulator) QVel() []float64 { return clone(s.Vel) }

func (s *Simulator) QFrcConstraint() []float64 { return clone(s.FrcConstraint) }

// Advance records the action and runs OnAdvance, if set
func (s *Simulator) Advance(action mat.Vector) error {
	if s.Closed {
		return fmt.Errorf("advance: simulator closed")
	}
	s.Actions = append(s.Actions, mat.VecDenseCopyOf(action))

	if s.OnAdvance != nil {
		return s.OnAdvance(s, action)
	}
	return nil
}

// LastAction returns the most recent action passed to Advance, or nil
// if Advance has not been called
func (s *Simulator) LastAction() *mat.VecDense {
	if len(s.Actions) == 0 {
		return nil
	}
	return s.Actions[len(s.Actions)-1]
}

func (s *Simulator) BodyCOM(name string) (r3.Vec, error) {
	com, ok := s.COM[name]
	if !ok {
		return r3.Vec{}, fmt.Errorf("bodyCOM: %q: %w", name,
			mujoco.ErrUnknownBody)
	}
	return com, nil
}

func (s *Simulator) BodyCOMVel(name string) (r3.Vec, error) {
	vel, ok := s.COMVel[name]
	if !ok {
		return r3.Vec{}, fmt.Errorf("bodyCOMVel: %q: %w", name,
			mujoco.ErrUnknownBody)
	}
	return vel, nil
}

func (s *Simulator) ActionBounds() (low, high []float64) {
	return clone(s.Low), clone(s.High)
}

func (s *Simulator) InitQPos() []float64 { return clone(s.InitPos) }
func (s *Simulator) InitQVel() []float64 { return clone(s.InitVel) }

func (s *Simulator) SetState(qpos, qvel []float64) error {
	if len(qpos) != len(s.Pos) {
		return fmt.Errorf("setState: invalid position dimensions \n\t"+
			"have(%v) \n\twant(%v)", len(qpos), len(s.Pos))
	}
	if len(qvel) != len(s.Vel) {
		return fmt.Errorf("setState: invalid velocity dimensions \n\t"+
			"have(%v) \n\twant(%v)", len(qvel), len(s.Vel))
	}

	copy(s.Pos, qpos)
	copy(s.Vel, qvel)
	return nil
}

// Reset restores the initial state and zeroes the constraint forces
func (s *Simulator) Reset() error {
	s.Resets++
	copy(s.Pos, s.InitPos)
	copy(s.Vel, s.InitVel)
	for i := range s.FrcConstraint {
		s.FrcConstraint[i] = 0
	}
	return nil
}

func (s *Simulator) Dt() float64 { return s.Timestep }

func (s *Simulator) Close() error {
	s.Closed = true
	return nil
}

func clone(values []float64) []float64 {
	return append([]float64(nil), values...)
}
