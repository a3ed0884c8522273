// Copyright 2026 the Plato authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package datasets provides the dataset abstractions consumed by the
// training stack.
//
// A Dataset is an indexed collection of (sample, label) pairs. Samplers
// (package samplers) choose which indices a given client visits;
// trainers assemble the chosen samples into mini-batches.
package datasets

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/SamuelGong/plato/tensor"
)

// Dataset is an indexed collection of labeled samples.
type Dataset interface {
	// Len returns the number of samples.
	Len() int

	// Get returns sample i as a 1D feature tensor and its class label.
	Get(i int) (*tensor.Tensor, int)
}

// SliceDataset is an in-memory Dataset backed by parallel slices.
type SliceDataset struct {
	samples []*tensor.Tensor
	labels  []int
}

// NewSliceDataset creates a dataset over the given samples and labels.
func NewSliceDataset(samples []*tensor.Tensor, labels []int) (*SliceDataset, error) {
	if len(samples) != len(labels) {
		return nil, fmt.Errorf("datasets: %d samples but %d labels", len(samples), len(labels))
	}
	return &SliceDataset{samples: samples, labels: labels}, nil
}

// Len returns the number of samples.
func (d *SliceDataset) Len() int {
	return len(d.samples)
}

// Get returns sample i and its label.
func (d *SliceDataset) Get(i int) (*tensor.Tensor, int) {
	return d.samples[i], d.labels[i]
}

// SyntheticConfig describes a synthetic Gaussian-blob classification
// dataset: one spherical Gaussian cluster per class.
type SyntheticConfig struct {
	Samples  int     // total number of samples
	Features int     // dimensionality of each sample
	Classes  int     // number of classes
	Spread   float64 // cluster standard deviation (default 0.5)
	Seed     uint64  // generator seed
}

// NewSynthetic builds a deterministic Gaussian-blob dataset.
//
// Class means are drawn from N(0, 2²); samples cycle through classes so
// every class appears within any window of Classes consecutive indices.
func NewSynthetic(cfg SyntheticConfig) (*SliceDataset, error) {
	if cfg.Samples <= 0 || cfg.Features <= 0 || cfg.Classes <= 0 {
		return nil, fmt.Errorf("datasets: synthetic config requires positive samples, features, and classes")
	}
	if cfg.Spread == 0 {
		cfg.Spread = 0.5
	}

	src := rand.NewPCG(cfg.Seed, cfg.Seed)
	meanDist := distuv.Normal{Mu: 0, Sigma: 2, Src: src}
	noiseDist := distuv.Normal{Mu: 0, Sigma: cfg.Spread, Src: src}

	means := make([][]float64, cfg.Classes)
	for c := range means {
		means[c] = make([]float64, cfg.Features)
		for j := range means[c] {
			means[c][j] = meanDist.Rand()
		}
	}

	samples := make([]*tensor.Tensor, cfg.Samples)
	labels := make([]int, cfg.Samples)
	for i := 0; i < cfg.Samples; i++ {
		label := i % cfg.Classes
		data := make([]float64, cfg.Features)
		for j := range data {
			data[j] = means[label][j] + noiseDist.Rand()
		}
		sample, err := tensor.FromSlice(data, tensor.Shape{cfg.Features})
		if err != nil {
			return nil, err
		}
		samples[i] = sample
		labels[i] = label
	}

	return &SliceDataset{samples: samples, labels: labels}, nil
}
