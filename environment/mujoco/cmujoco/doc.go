// Package cmujoco implements a mujoco.Simulator backend over the MuJoCo
// 2.0 C library using cgo. The backend is only compiled with the mujoco
// build tag and registers itself under the name "mujoco" when imported:
//
//	import _ "github.com/samuelfneumann/locomotion/environment/mujoco/cmujoco"
//
// CGO_CFLAGS must point to the MuJoCo include directory and CGO_LDFLAGS
// to the directory holding libmujoco200nogl. The activation key is read
// from $MUJOCO_KEY, falling back to ~/.mujoco/mjkey.txt.
package cmujoco

// BackendName is the name the cgo backend registers under
const BackendName = "mujoco"
