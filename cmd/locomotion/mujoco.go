//go:build mujoco
// +build mujoco

package main

// Registers the cgo MuJoCo backend
import _ "github.com/samuelfneumann/locomotion/environment/mujoco/cmujoco"
