//go:build mujoco
// +build mujoco

package cmujoco

// #cgo CFLAGS: -O2 -mavx -pthread
// #cgo LDFLAGS: -lmujoco200nogl
// #include "mujoco.h"
// #include <stdlib.h>
//
// void setQPos(mjData* data, double* positions, int len) {
// 	for (int i = 0; i < len; i++) {
// 		data->qpos[i] = positions[i];
// 	}
// }
//
// void setQVel(mjData* data, double* velocities, int len) {
// 	for (int i = 0; i < len; i++) {
// 		data->qvel[i] = velocities[i];
// 	}
// }
//
// void setCtrl(mjData* data, double* ctrl, int len) {
// 	for (int i = 0; i < len; i++) {
// 		data->ctrl[i] = ctrl[i];
// 	}
// }
import "C"

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/locomotion/environment/mujoco"
)

func init() {
	// Activate MuJoCo
	keyPath := os.Getenv("MUJOCO_KEY")
	if keyPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			keyPath = filepath.Join(home, ".mujoco", "mjkey.txt")
		}
	}
	mjKey := C.CString(keyPath)
	defer C.free(unsafe.Pointer(mjKey))
	C.mj_activate(mjKey)

	mujoco.Register(BackendName, Open)
}

// simulator is a mujoco.Simulator backed by an mjModel and its mjData
type simulator struct {
	model     *C.mjModel
	data      *C.mjData
	frameSkip int

	nq, nv, nu int

	initQPos []float64
	initQVel []float64
}

// Open loads the MuJoCo XML model at modelPath and returns a Simulator
// which steps the physics frameSkip times per call to Advance
func Open(modelPath string, frameSkip int) (mujoco.Simulator, error) {
	fullPath, err := filepath.Abs(modelPath)
	if err != nil {
		return nil, fmt.Errorf("open: could not resolve %v: %w", modelPath,
			err)
	}
	if _, err := os.Stat(fullPath); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	model, data, err := loadXML(fullPath)
	if err != nil {
		return nil, fmt.Errorf("open: could not load XML: %w", err)
	}

	nq := int(model.nq)
	nv := int(model.nv)

	return &simulator{
		model:     model,
		data:      data,
		frameSkip: frameSkip,
		nq:        nq,
		nv:        nv,
		nu:        int(model.nu),
		initQPos:  f64SliceC2Go(data.qpos, nq),
		initQVel:  f64SliceC2Go(data.qvel, nv),
	}, nil
}

func (s *simulator) Nq() int { return s.nq }
func (s *simulator) Nv() int { return s.nv }
func (s *simulator) Nu() int { return s.nu }

func (s *simulator) QPos() []float64 {
	return f64SliceC2Go(s.data.qpos, s.nq)
}

func (s *simulator) QVel() []float64 {
	return f64SliceC2Go(s.data.qvel, s.nv)
}

func (s *simulator) QFrcConstraint() []float64 {
	return f64SliceC2Go(s.data.qfrc_constraint, s.nv)
}

// Advance sets the control and steps the simulation frameSkip times,
// then recomputes the derived quantities of the new state
func (s *simulator) Advance(action mat.Vector) error {
	if action.Len() != s.nu {
		return fmt.Errorf("advance: invalid control dimensions \n\t"+
			"have(%v) \n\twant(%v)", action.Len(), s.nu)
	}

	ctrl := make([]float64, s.nu)
	for i := range ctrl {
		ctrl[i] = action.AtVec(i)
	}
	if s.nu > 0 {
		C.setCtrl(s.data, (*C.double)(unsafe.Pointer(&ctrl[0])), C.int(s.nu))
	}

	for i := 0; i < s.frameSkip; i++ {
		C.mj_step(s.model, s.data)
	}
	C.mj_forward(s.model, s.data)
	return nil
}

func (s *simulator) bodyID(name string) (int, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	id := int(C.mj_name2id(s.model, C.int(C.mjOBJ_BODY), cName))
	if id < 0 {
		return 0, fmt.Errorf("%q: %w", name, mujoco.ErrUnknownBody)
	}
	return id, nil
}

// BodyCOM returns the position of the body's inertial frame
func (s *simulator) BodyCOM(name string) (r3.Vec, error) {
	id, err := s.bodyID(name)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("bodyCOM: %w", err)
	}

	xipos := f64SliceC2Go(s.data.xipos, 3*int(s.model.nbody))
	return r3.Vec{X: xipos[3*id], Y: xipos[3*id+1], Z: xipos[3*id+2]}, nil
}

// BodyCOMVel returns the linear velocity of the body's inertial frame
// in global coordinates
func (s *simulator) BodyCOMVel(name string) (r3.Vec, error) {
	id, err := s.bodyID(name)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("bodyCOMVel: %w", err)
	}

	// [rotational, linear]
	var res [6]C.mjtNum
	C.mj_objectVelocity(s.model, s.data, C.int(C.mjOBJ_BODY), C.int(id), &res[0],
		0)
	return r3.Vec{
		X: float64(res[3]),
		Y: float64(res[4]),
		Z: float64(res[5]),
	}, nil
}

func (s *simulator) ActionBounds() (low, high []float64) {
	bounds := f64SliceC2Go(s.model.actuator_ctrlrange, s.nu*2)

	low = make([]float64, s.nu)
	high = make([]float64, s.nu)
	for i := 0; i < s.nu; i++ {
		low[i] = bounds[2*i]
		high[i] = bounds[2*i+1]
	}
	return low, high
}

func (s *simulator) InitQPos() []float64 {
	return append([]float64(nil), s.initQPos...)
}

func (s *simulator) InitQVel() []float64 {
	return append([]float64(nil), s.initQVel...)
}

func (s *simulator) SetState(qpos, qvel []float64) error {
	if len(qpos) != s.nq {
		return fmt.Errorf("setState: invalid position dimensions \n\t"+
			"have(%v) \n\twant(%v)", len(qpos), s.nq)
	}
	if len(qvel) != s.nv {
		return fmt.Errorf("setState: invalid velocity dimensions \n\t"+
			"have(%v) \n\twant(%v)", len(qvel), s.nv)
	}

	// Copy so that C never holds a pointer into a Go slice the caller
	// may keep using
	pos := append([]float64(nil), qpos...)
	vel := append([]float64(nil), qvel...)
	if s.nq > 0 {
		C.setQPos(s.data, (*C.double)(unsafe.Pointer(&pos[0])), C.int(s.nq))
	}
	if s.nv > 0 {
		C.setQVel(s.data, (*C.double)(unsafe.Pointer(&vel[0])), C.int(s.nv))
	}

	C.mj_forward(s.model, s.data)
	return nil
}

func (s *simulator) Reset() error {
	C.mj_resetData(s.model, s.data)
	C.mj_forward(s.model, s.data)
	return nil
}

func (s *simulator) Dt() float64 {
	return float64(s.model.opt.timestep) * float64(s.frameSkip)
}

func (s *simulator) Close() error {
	if s.data != nil {
		C.mj_deleteData(s.data)
		s.data = nil
	}
	if s.model != nil {
		C.mj_deleteModel(s.model)
		s.model = nil
	}
	return nil
}
