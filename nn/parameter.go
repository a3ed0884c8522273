package nn

import (
	"github.com/SamuelGong/plato/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are tensors that accumulate gradients during the backward
// pass. They typically represent weights and biases of layers.
type Parameter struct {
	name   string
	tensor *tensor.Tensor
	grad   *tensor.Tensor
}

// NewParameter creates a new trainable parameter.
//
// The gradient is allocated lazily by the first AddGrad call.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{name: name, tensor: t}
}

// Name returns the parameter name (e.g. "fc1.weight").
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Grad returns the accumulated gradient, or nil if none has been
// computed since the last ZeroGrad.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// AddGrad accumulates g into the parameter gradient.
func (p *Parameter) AddGrad(g *tensor.Tensor) {
	if p.grad == nil {
		p.grad = g.Clone()
		return
	}
	p.grad = p.grad.Add(g)
}

// ZeroGrad clears the accumulated gradient.
//
// Called before each training iteration to avoid carrying gradients
// across batches.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
