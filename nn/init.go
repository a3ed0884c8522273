package nn

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/SamuelGong/plato/tensor"
)

// Xavier returns a tensor initialized with Xavier/Glorot uniform values
// in [-sqrt(6/(fanIn+fanOut)), +sqrt(6/(fanIn+fanOut))].
//
// A nil source falls back to an unseeded generator.
func Xavier(fanIn, fanOut int, shape tensor.Shape, src rand.Source) *tensor.Tensor {
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))
	dist := distuv.Uniform{Min: -limit, Max: limit, Src: src}

	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		data[i] = dist.Rand()
	}
	return t
}
