package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// NormalStarter samples starting states from an axis-aligned normal
// distribution. A zero standard deviation pins its dimension to the
// mean.
type NormalStarter struct {
	seed uint64
	rand []distuv.Normal
}

// NewNormalStarter returns a new NormalStarter which samples dimension
// i of starting states from N(mean[i], std[i]²)
func NewNormalStarter(mean, std []float64, seed uint64) (*NormalStarter,
	error) {
	if len(mean) != len(std) {
		return nil, fmt.Errorf("newNormalStarter: mean and standard "+
			"deviation should have the same length \n\thave(%v) \n\twant(%v)",
			len(std), len(mean))
	}

	source := rand.NewSource(seed)
	dists := make([]distuv.Normal, len(mean))
	for i := range dists {
		if std[i] < 0 {
			return nil, fmt.Errorf("newNormalStarter: negative standard "+
				"deviation %v at index %v", std[i], i)
		}
		dists[i] = distuv.Normal{Mu: mean[i], Sigma: std[i], Src: source}
	}

	return &NormalStarter{seed, dists}, nil
}

// Start returns a starting state vector
func (n *NormalStarter) Start() *mat.VecDense {
	start := make([]float64, len(n.rand))
	for i := range start {
		start[i] = n.rand[i].Rand()
	}

	return mat.NewVecDense(len(start), start)
}
