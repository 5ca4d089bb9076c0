// Package mujoco defines the physics simulator that MuJoCo locomotion
// environments are built on, along with the utilities shared by those
// environments.
//
// Environments never talk to a physics engine directly. Instead, they
// consume a Simulator, which may be backed by the cgo MuJoCo bindings
// in the cmujoco package (built with the mujoco build tag) or by any
// other implementation, such as the in-memory simulator in the simtest
// package. Backends make themselves available by calling Register,
// usually from an init function, in the same way database/sql drivers
// do:
//
//	import _ "github.com/samuelfneumann/locomotion/environment/mujoco/cmujoco"
//
//	sim, err := mujoco.Open("mujoco", "hopper.xml", 4)
package mujoco

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoBackend is returned by Open when no backend has been registered
// under the requested name
var ErrNoBackend = errors.New("no such simulator backend")

// ErrUnknownBody is returned by a Simulator when a body name does not
// exist in the loaded model
var ErrUnknownBody = errors.New("unknown body")

// Simulator is a physics simulator of an articulated body. A
// Simulator is mutated in place by Advance, SetState, and Reset and
// is not safe for concurrent use.
type Simulator interface {
	// Nq, Nv, and Nu return the number of generalized coordinates,
	// degrees of freedom, and actuators respectively
	Nq() int
	Nv() int
	Nu() int

	// QPos, QVel, and QFrcConstraint return copies of the generalized
	// positions, generalized velocities, and constraint forces
	QPos() []float64
	QVel() []float64
	QFrcConstraint() []float64

	// Advance runs forward dynamics with the argument control for one
	// environmental step, which may span multiple simulator frames
	Advance(action mat.Vector) error

	// BodyCOM and BodyCOMVel return the centre of mass position and
	// linear velocity of a named body in global coordinates
	BodyCOM(name string) (r3.Vec, error)
	BodyCOMVel(name string) (r3.Vec, error)

	// ActionBounds returns the lower and upper control bounds of each
	// actuator
	ActionBounds() (low, high []float64)

	// InitQPos and InitQVel return the state the model was loaded in
	InitQPos() []float64
	InitQVel() []float64

	SetState(qpos, qvel []float64) error
	Reset() error

	// Dt returns the simulated time covered by a single Advance
	Dt() float64

	Close() error
}

// Backend opens a Simulator for the model at modelPath. Each call to
// Advance on the returned Simulator steps the physics frameSkip times.
type Backend func(modelPath string, frameSkip int) (Simulator, error)

var (
	backendsMu sync.RWMutex
	backends   = make(map[string]Backend)
)

// Register makes a simulator backend available by the provided name.
// Register panics if it is called twice with the same name or if the
// backend is nil.
func Register(name string, backend Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()

	if backend == nil {
		panic("register: backend is nil")
	}
	if _, dup := backends[name]; dup {
		panic(fmt.Sprintf("register: called twice for backend %v", name))
	}
	backends[name] = backend
}

// Backends returns the sorted names of all registered backends
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens a Simulator using the backend registered under name
func Open(name, modelPath string, frameSkip int) (Simulator, error) {
	if frameSkip <= 0 {
		return nil, fmt.Errorf("open: frameSkip should be positive, got %v",
			frameSkip)
	}

	backendsMu.RLock()
	backend, ok := backends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("open: %q: %w", name, ErrNoBackend)
	}

	sim, err := backend(modelPath, frameSkip)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return sim, nil
}
