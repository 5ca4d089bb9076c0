//go:build mujoco
// +build mujoco

package cmujoco

// #include "mujoco.h"
// #include <stdlib.h>
import "C"

import (
	"fmt"
	"unsafe"
)

func loadXML(file string) (*C.mjModel, *C.mjData, error) {
	// Create mjModel from XML
	modelName := C.CString(file)
	defer C.free(unsafe.Pointer(modelName))
	var errBuf [1000]C.char
	model := C.mj_loadXML(
		modelName,
		nil,
		&errBuf[0],
		C.int(len(errBuf)),
	)
	goErr := C.GoString(&errBuf[0])
	if model == nil || len(goErr) != 0 {
		if model != nil {
			C.mj_deleteModel(model)
		}
		return nil, nil, fmt.Errorf("could not construct model: %v", goErr)
	}

	// Create the mjData
	data := C.mj_makeData(model)
	if data == nil {
		C.mj_deleteModel(model)
		return nil, nil, fmt.Errorf("could not construct mjData")
	}

	return model, data, nil
}

// f64SliceC2Go converts a copy of a C double array to a Go []float64
//
// See https://github.com/golang/go/wiki/cgo#turning-c-arrays-into-go-slices
func f64SliceC2Go(array *C.mjtNum, length int) []float64 {
	if length == 0 {
		return []float64{}
	}
	list := (*[1 << 30]float64)(unsafe.Pointer(array))[:length:length]

	newList := make([]float64, length)
	copy(newList, list)

	return newList
}
