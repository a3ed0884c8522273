// Copyright 2026 the Plato authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn implements the neural network building blocks for Plato.
//
// This package provides:
//   - Module interface: base interface for all NN components
//   - Parameter: trainable parameters with gradient accumulation
//   - Linear: fully connected layer
//   - Activations: ReLU, Tanh
//   - Loss criteria: CrossEntropy, MSE
//   - Network: container of named layers with partial forward evaluation
//     and gradient-boundary hooks for split learning
//
// Design inspired by PyTorch's nn.Module, adapted to explicit layerwise
// backpropagation: every module computes its own input gradient, so the
// backward pass is an ordinary reverse walk over the layer list with a
// well-defined boundary between any two layers.
package nn

import (
	"github.com/SamuelGong/plato/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules cache whatever they need during Forward while in training mode
// so that Backward can compute the gradient with respect to the input.
// In evaluation mode no state is retained.
type Module interface {
	// Forward computes the output of the module for the given input.
	//
	// Input tensors are [batch_size, features] for dense layers.
	Forward(input *tensor.Tensor) *tensor.Tensor

	// Backward consumes the gradient with respect to the module's output,
	// accumulates parameter gradients, and returns the gradient with
	// respect to the module's input.
	//
	// Backward must follow a Forward call made in training mode.
	Backward(grad *tensor.Tensor) *tensor.Tensor

	// Parameters returns all trainable parameters of this module.
	// Modules without trainable state return nil.
	Parameters() []*Parameter

	// SetTraining toggles training mode. Leaving training mode drops any
	// cached forward state.
	SetTraining(training bool)
}
