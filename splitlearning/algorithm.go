// Copyright 2026 the Plato authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package splitlearning implements the split-learning training
// protocol: a network partitioned at a configured cut layer into a
// client-side front and a server-side back.
//
// One round of the protocol:
//
//  1. The client runs the front partition over its local data in
//     evaluation mode and ships the (feature, label) pairs produced at
//     the cut layer (Algorithm.ExtractFeatures).
//  2. The server trains the back partition over those features and
//     records, per batch, the gradient at the cut boundary
//     (Trainer.Train).
//  3. The client loads the ordered gradient list
//     (Algorithm.LoadGradients) and completes training: a gradient
//     hook on the cut layer substitutes the server's gradient for the
//     locally computed one, so the server's signal flows through the
//     front partition's parameters (Algorithm.CompleteTrain).
//
// How features and gradients move between the parties is owned by the
// surrounding transport; Coordinator drives the exchange in-process for
// simulations.
package splitlearning

import (
	"fmt"
	"log"
	"time"

	"github.com/SamuelGong/plato/datasets"
	"github.com/SamuelGong/plato/nn"
	"github.com/SamuelGong/plato/optim"
	"github.com/SamuelGong/plato/samplers"
	"github.com/SamuelGong/plato/tensor"
)

// State is the client training-loop state.
type State int

const (
	// Warmup means no gradient list has been loaded; the cut-layer hook
	// passes gradients through unchanged.
	Warmup State = iota

	// Active means a gradient list is loaded and the index tracks the
	// current batch.
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "warmup"
}

// TrainConfig carries the hyperparameters for one training pass. Both
// parties of an exchange use the same configuration so their batch
// boundaries line up.
type TrainConfig struct {
	BatchSize    int
	LearningRate float64
	Momentum     float64
	Optimizer    string // optim.New name; empty selects SGD
	Loss         string // nn.NewCriterion name; empty selects cross-entropy
}

func (c TrainConfig) validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("splitlearning: batch size must be positive, got %d", c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("splitlearning: learning rate must be positive, got %g", c.LearningRate)
	}
	return nil
}

// OptimizerFactory builds the optimizer for a training pass.
type OptimizerFactory func(params []*nn.Parameter, cfg TrainConfig) (optim.Optimizer, error)

func defaultOptimizerFactory(params []*nn.Parameter, cfg TrainConfig) (optim.Optimizer, error) {
	return optim.New(cfg.Optimizer, params, optim.Config{LR: cfg.LearningRate, Momentum: cfg.Momentum})
}

// Algorithm is the client side of the split-learning protocol.
//
// The client holds the full network; only the front partition's
// parameters receive a meaningful signal from the server's gradient,
// which the cut-layer hook injects during the backward pass.
type Algorithm struct {
	clientID  int
	model     *nn.Network
	queue     *GradientQueue
	loader    BatchLoader
	criterion nn.Criterion
	optimizer OptimizerFactory
}

// Option customizes an Algorithm at construction time.
type Option func(*Algorithm)

// WithBatchLoader replaces the default sequential batch loader.
func WithBatchLoader(loader BatchLoader) Option {
	return func(a *Algorithm) { a.loader = loader }
}

// WithCriterion replaces the configured loss criterion.
func WithCriterion(criterion nn.Criterion) Option {
	return func(a *Algorithm) { a.criterion = criterion }
}

// WithOptimizerFactory replaces the configured optimizer.
func WithOptimizerFactory(factory OptimizerFactory) Option {
	return func(a *Algorithm) { a.optimizer = factory }
}

// NewAlgorithm creates the client algorithm for one simulated client.
func NewAlgorithm(clientID int, model *nn.Network, opts ...Option) *Algorithm {
	a := &Algorithm{
		clientID:  clientID,
		model:     model,
		queue:     NewGradientQueue(),
		loader:    SequentialLoader{},
		optimizer: defaultOptimizerFactory,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model returns the client's network.
func (a *Algorithm) Model() *nn.Network {
	return a.model
}

// Queue returns the gradient queue, exposed for inspection.
func (a *Algorithm) Queue() *GradientQueue {
	return a.queue
}

// State reports whether the training loop would run in warmup (no
// gradients loaded) or active mode.
func (a *Algorithm) State() State {
	if a.queue.Len() > 0 {
		return Active
	}
	return Warmup
}

// LoadGradients stores a deep, independent copy of the gradient list
// received from the server, replacing any prior list in full.
func (a *Algorithm) LoadGradients(grads []*tensor.Tensor) {
	a.queue.Load(grads)
}

// ExtractFeatures runs the front partition over the sampled data with
// the network in evaluation mode and no gradient tracking, producing
// one (feature, label) pair per sample.
//
// Failures from the underlying forward pass propagate without local
// recovery.
func (a *Algorithm) ExtractFeatures(dataset datasets.Dataset, sampler samplers.Sampler, cutLayer string) (*FeatureDataset, error) {
	if !a.model.HasLayer(cutLayer) {
		return nil, fmt.Errorf("splitlearning: client #%d: network has no cut layer %q", a.clientID, cutLayer)
	}

	a.model.Eval()

	// Extraction always runs at batch size 1 so features pair with
	// their source samples one to one.
	batches, err := a.loader.Load(dataset, sampler, 1)
	if err != nil {
		return nil, err
	}

	tic := time.Now()
	features := &FeatureDataset{}
	for _, batch := range batches {
		logits, err := a.model.ForwardTo(batch.Inputs, cutLayer)
		if err != nil {
			return nil, err
		}
		for i := range batch.Labels {
			features.append(logits.Row(i), batch.Labels[i])
		}
	}

	log.Printf("[Client #%d] Features extracted from %d examples.", a.clientID, features.Len())
	log.Printf("[Client #%d] Time used: %.2f seconds.", a.clientID, time.Since(tic).Seconds())
	return features, nil
}

// CompleteTrain finishes a round on the client: it drives the
// forward/backward/step cycle over the sampled data while the cut-layer
// hook substitutes the queued server gradient, advancing the queue by
// one after every batch.
//
// The loop refuses to start in warmup state: with an empty queue the
// first gradient access would be undefined, so it fails with
// ErrNoGradient instead. Any error during a batch aborts the loop; no
// retries happen at this layer.
//
// Returns the mean training loss over the processed batches.
func (a *Algorithm) CompleteTrain(cfg TrainConfig, dataset datasets.Dataset, sampler samplers.Sampler, cutLayer string) (float64, error) {
	if err := cfg.validate(); err != nil {
		return 0, err
	}
	if a.State() == Warmup {
		return 0, fmt.Errorf("splitlearning: client #%d cannot complete training: %w", a.clientID, ErrNoGradient)
	}

	// The hook lives for exactly one training session.
	if err := a.model.RegisterGradientHook(cutLayer, a.applyGradient); err != nil {
		return 0, err
	}
	defer a.model.RemoveGradientHook(cutLayer)

	criterion := a.criterion
	if criterion == nil {
		var err error
		if criterion, err = nn.NewCriterion(cfg.Loss); err != nil {
			return 0, err
		}
	}
	optimizer, err := a.optimizer(a.model.Parameters(), cfg)
	if err != nil {
		return 0, err
	}

	batches, err := a.loader.Load(dataset, sampler, cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	a.model.Train()
	tic := time.Now()

	var totalLoss float64
	for _, batch := range batches {
		optimizer.ZeroGrad()

		outputs := a.model.Forward(batch.Inputs)
		loss, lossGrad := criterion.Forward(outputs, batch.Labels)
		a.model.Backward(lossGrad)
		optimizer.Step()

		totalLoss += loss
		a.queue.Advance()
	}

	log.Printf("[Client #%d] Completed split training over %d batches in %.2f seconds.",
		a.clientID, len(batches), time.Since(tic).Seconds())

	if len(batches) == 0 {
		return 0, nil
	}
	return totalLoss / float64(len(batches)), nil
}

// applyGradient is the cut-layer gradient hook: it substitutes the
// currently queued server gradient for the locally computed one. With
// nothing loaded it leaves the gradient untouched.
func (a *Algorithm) applyGradient(_ string, grad *tensor.Tensor) *tensor.Tensor {
	replacement, err := a.queue.Current()
	if err != nil {
		return grad
	}
	return replacement
}
