package nn

import (
	"fmt"
	"math"

	"github.com/SamuelGong/plato/tensor"
)

// ReLU applies the element-wise function f(x) = max(0, x).
type ReLU struct {
	training bool
	input    *tensor.Tensor
}

// NewReLU creates a new ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies f(x) = max(0, x).
func (r *ReLU) Forward(input *tensor.Tensor) *tensor.Tensor {
	if r.training {
		r.input = input
	}
	out := input.Clone()
	data := out.Data()
	for i, v := range data {
		if v < 0 {
			data[i] = 0
		}
	}
	return out
}

// Backward masks the gradient where the forward input was negative.
func (r *ReLU) Backward(grad *tensor.Tensor) *tensor.Tensor {
	if r.input == nil {
		panic("nn: ReLU.Backward called without a training-mode Forward")
	}
	if !grad.Shape().Equal(r.input.Shape()) {
		panic(fmt.Sprintf("nn: ReLU.Backward gradient shape %v does not match input shape %v",
			grad.Shape(), r.input.Shape()))
	}
	out := grad.Clone()
	data := out.Data()
	in := r.input.Data()
	for i := range data {
		if in[i] <= 0 {
			data[i] = 0
		}
	}
	return out
}

// Parameters returns nil; ReLU has no trainable parameters.
func (r *ReLU) Parameters() []*Parameter {
	return nil
}

// SetTraining toggles training mode.
func (r *ReLU) SetTraining(training bool) {
	r.training = training
	if !training {
		r.input = nil
	}
}

// Tanh applies the element-wise hyperbolic tangent.
type Tanh struct {
	training bool
	output   *tensor.Tensor
}

// NewTanh creates a new Tanh activation module.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies tanh element-wise.
func (t *Tanh) Forward(input *tensor.Tensor) *tensor.Tensor {
	out := input.Clone()
	data := out.Data()
	for i, v := range data {
		data[i] = math.Tanh(v)
	}
	if t.training {
		t.output = out
	}
	return out
}

// Backward computes grad * (1 - tanh(x)^2) using the cached output.
func (t *Tanh) Backward(grad *tensor.Tensor) *tensor.Tensor {
	if t.output == nil {
		panic("nn: Tanh.Backward called without a training-mode Forward")
	}
	if !grad.Shape().Equal(t.output.Shape()) {
		panic(fmt.Sprintf("nn: Tanh.Backward gradient shape %v does not match output shape %v",
			grad.Shape(), t.output.Shape()))
	}
	out := grad.Clone()
	data := out.Data()
	y := t.output.Data()
	for i := range data {
		data[i] *= 1 - y[i]*y[i]
	}
	return out
}

// Parameters returns nil; Tanh has no trainable parameters.
func (t *Tanh) Parameters() []*Parameter {
	return nil
}

// SetTraining toggles training mode.
func (t *Tanh) SetTraining(training bool) {
	t.training = training
	if !training {
		t.output = nil
	}
}
