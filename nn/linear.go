package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/SamuelGong/plato/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//
// Weights are initialized with Xavier/Glorot uniform values, biases with
// zeros.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features]

	training bool
	input    *tensor.Tensor // cached forward input, training mode only
}

// NewLinear creates a new Linear layer.
//
// src seeds the weight initialization; nil uses an unseeded generator.
func NewLinear(inFeatures, outFeatures int, src rand.Source) *Linear {
	weight := Xavier(inFeatures, outFeatures,
		tensor.Shape{outFeatures, inFeatures}, src)
	bias := tensor.Zeros(tensor.Shape{outFeatures})

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
	}
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch_size, in_features].
// Output shape: [batch_size, out_features].
func (l *Linear) Forward(input *tensor.Tensor) *tensor.Tensor {
	shape := input.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("nn: Linear.Forward expects 2D input [batch, features], got shape %v", shape))
	}
	if shape[1] != l.inFeatures {
		panic(fmt.Sprintf("nn: Linear.Forward expects %d input features, got %d", l.inFeatures, shape[1]))
	}

	if l.training {
		l.input = input
	}

	output := input.MatMul(l.weight.Tensor().Transpose())
	return output.Add(l.bias.Tensor())
}

// Backward accumulates weight and bias gradients and returns the
// gradient with respect to the input.
//
// grad shape: [batch_size, out_features].
func (l *Linear) Backward(grad *tensor.Tensor) *tensor.Tensor {
	if l.input == nil {
		panic("nn: Linear.Backward called without a training-mode Forward")
	}
	gradShape := grad.Shape()
	inShape := l.input.Shape()
	if len(gradShape) != 2 || gradShape[0] != inShape[0] || gradShape[1] != l.outFeatures {
		panic(fmt.Sprintf("nn: Linear.Backward gradient shape %v does not match input %v with %d output features",
			gradShape, inShape, l.outFeatures))
	}

	// dL/dW = grad.T @ x, dL/db = column sums of grad, dL/dx = grad @ W.
	l.weight.AddGrad(grad.Transpose().MatMul(l.input))
	l.bias.AddGrad(grad.SumRows())
	return grad.MatMul(l.weight.Tensor())
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// SetTraining toggles training mode and drops the cached input when
// leaving it.
func (l *Linear) SetTraining(training bool) {
	l.training = training
	if !training {
		l.input = nil
	}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}
