// Copyright 2026 the Plato authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package samplers provides the sampling strategies that decide which
// dataset indices a client visits during a round.
//
// All samplers are deterministic for a given seed, so every party in a
// simulation derives the same disjoint partitions without coordination.
package samplers

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distmv"

	"github.com/SamuelGong/plato/datasets"
)

// Sampler exposes the dataset indices a client should visit, in order.
type Sampler interface {
	// Indices returns the sampled dataset indices.
	Indices() []int

	// Size returns the number of sampled indices.
	Size() int
}

// AllInclusive samples every index of the dataset, in order. Used when
// the data is local-only, e.g. the server training over a received
// feature dataset.
type AllInclusive struct {
	n int
}

// NewAllInclusive creates a sampler over the whole dataset.
func NewAllInclusive(dataset datasets.Dataset) *AllInclusive {
	return &AllInclusive{n: dataset.Len()}
}

// Indices returns 0..Len-1.
func (s *AllInclusive) Indices() []int {
	out := make([]int, s.n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Size returns the dataset length.
func (s *AllInclusive) Size() int {
	return s.n
}

// DirichletConfig configures a Dirichlet quantity-skew partition.
type DirichletConfig struct {
	TotalClients  int     // number of partitions
	Concentration float64 // Dirichlet concentration; small values skew hard
	MinPartition  int     // optional minimum samples per partition
	Seed          uint64  // shared partition seed
}

// Dirichlet assigns each client a partition whose size is drawn from a
// Dirichlet distribution over the dataset, producing the uneven
// quantity skew typical of federated data. All clients sharing a seed
// derive the same shuffle and the same proportions, so partitions are
// disjoint and cover the dataset.
type Dirichlet struct {
	indices []int
}

// NewDirichlet creates the partition sampler for one client.
func NewDirichlet(dataset datasets.Dataset, clientID int, cfg DirichletConfig) (*Dirichlet, error) {
	if cfg.TotalClients <= 0 {
		return nil, fmt.Errorf("samplers: dirichlet requires a positive client count, got %d", cfg.TotalClients)
	}
	if clientID < 0 || clientID >= cfg.TotalClients {
		return nil, fmt.Errorf("samplers: client id %d outside [0, %d)", clientID, cfg.TotalClients)
	}
	if cfg.Concentration <= 0 {
		return nil, fmt.Errorf("samplers: dirichlet concentration must be positive, got %g", cfg.Concentration)
	}

	total := dataset.Len()
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))

	proportions, err := drawProportions(total, cfg, rng)
	if err != nil {
		return nil, err
	}

	all := make([]int, total)
	for i := range all {
		all[i] = i
	}
	rng.Shuffle(total, func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})

	// Convert proportions to contiguous chunk boundaries; the remainder
	// from flooring lands in the last partition.
	start := 0
	for k := 0; k < cfg.TotalClients; k++ {
		size := int(proportions[k] * float64(total))
		if k == cfg.TotalClients-1 {
			size = total - start
		}
		if k == clientID {
			indices := make([]int, size)
			copy(indices, all[start:start+size])
			return &Dirichlet{indices: indices}, nil
		}
		start += size
	}

	// Unreachable: clientID was validated against TotalClients.
	return nil, fmt.Errorf("samplers: no partition for client %d", clientID)
}

// Indices returns the client's partition indices.
func (s *Dirichlet) Indices() []int {
	return s.indices
}

// Size returns the number of samples in the client's partition.
func (s *Dirichlet) Size() int {
	return len(s.indices)
}

// drawProportions samples partition proportions, redrawing while a
// partition would fall below the configured minimum size.
func drawProportions(total int, cfg DirichletConfig, rng *rand.Rand) ([]float64, error) {
	alpha := make([]float64, cfg.TotalClients)
	for i := range alpha {
		alpha[i] = cfg.Concentration
	}
	dist := distmv.NewDirichlet(alpha, rng)

	const maxDraws = 10000
	proportions := make([]float64, cfg.TotalClients)
	for draw := 0; draw < maxDraws; draw++ {
		dist.Rand(proportions)
		if cfg.MinPartition <= 0 || minPartitionSize(proportions, total) >= cfg.MinPartition {
			return proportions, nil
		}
	}
	return nil, fmt.Errorf("samplers: could not satisfy minimum partition size %d over %d samples",
		cfg.MinPartition, total)
}

func minPartitionSize(proportions []float64, total int) int {
	minSize := total
	for _, p := range proportions {
		if size := int(p * float64(total)); size < minSize {
			minSize = size
		}
	}
	return minSize
}
