// Copyright 2026 the Plato authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim implements optimization algorithms for training neural
// networks.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: stochastic gradient descent with optional momentum
//   - Adam: adaptive moment estimation
//
// Design inspired by PyTorch's torch.optim. Optimizers read gradients
// accumulated on the parameters themselves by the layerwise backward
// pass.
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
//	for batch := range batches {
//	    optimizer.ZeroGrad()
//	    loss, grad := criterion.Forward(model.Forward(batch.Inputs), batch.Labels)
//	    model.Backward(grad)
//	    optimizer.Step()
//	}
package optim

import (
	"fmt"

	"github.com/SamuelGong/plato/nn"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to all parameters from their accumulated
	// gradients. Parameters with no gradient are skipped.
	Step()

	// ZeroGrad clears all parameter gradients. Call before each
	// backward pass to prevent accumulation across batches.
	ZeroGrad()

	// LearningRate returns the current learning rate.
	LearningRate() float64
}

// Config carries the hyperparameters shared by the named optimizers.
type Config struct {
	LR       float64 // learning rate
	Momentum float64 // SGD momentum factor, ignored by Adam
}

// New resolves an optimizer by its configuration name.
//
// Supported names: "sgd", "adam". An empty name selects SGD, matching
// the framework default.
func New(name string, params []*nn.Parameter, cfg Config) (Optimizer, error) {
	switch name {
	case "", "sgd":
		return NewSGD(params, SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum}), nil
	case "adam":
		return NewAdam(params, AdamConfig{LR: cfg.LR}), nil
	default:
		return nil, fmt.Errorf("optim: unknown optimizer %q", name)
	}
}
