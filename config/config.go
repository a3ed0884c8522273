// Copyright 2026 the Plato authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package config loads and validates the YAML run configuration.
//
// Configuration is an explicit object: Load returns a *Config and every
// component receives the sections it needs at construction time. There
// is no process-wide configuration singleton.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full run configuration.
type Config struct {
	Clients   ClientsConfig   `yaml:"clients"`
	Trainer   TrainerConfig   `yaml:"trainer"`
	Algorithm AlgorithmConfig `yaml:"algorithm"`
	Model     ModelConfig     `yaml:"model"`
	Data      DataConfig      `yaml:"data"`
	Results   ResultsConfig   `yaml:"results"`
}

// ClientsConfig describes the client population.
type ClientsConfig struct {
	Total int `yaml:"total"`
}

// TrainerConfig carries the training hyperparameters shared by the
// client and the server, so their batch boundaries line up.
type TrainerConfig struct {
	Rounds       int     `yaml:"rounds"`
	BatchSize    int     `yaml:"batch_size"`
	Optimizer    string  `yaml:"optimizer"`
	LearningRate float64 `yaml:"learning_rate"`
	Momentum     float64 `yaml:"momentum"`
	Loss         string  `yaml:"loss"`
}

// AlgorithmConfig selects the split point.
type AlgorithmConfig struct {
	CutLayer string `yaml:"cut_layer"`
}

// ModelConfig describes the MLP to build: layer widths from input to
// output, and the activation placed between consecutive linear layers.
type ModelConfig struct {
	Layers     []int  `yaml:"layers"`
	Activation string `yaml:"activation"`
}

// DataConfig describes the synthetic dataset and its partitioning
// across clients.
type DataConfig struct {
	Samples       int     `yaml:"samples"`
	Classes       int     `yaml:"classes"`
	Seed          uint64  `yaml:"seed"`
	Concentration float64 `yaml:"concentration"`
	MinPartition  int     `yaml:"min_partition"`
}

// ResultsConfig names the output artifacts.
type ResultsConfig struct {
	Database string `yaml:"database"`
	Report   string `yaml:"report"`
}

// Load reads and parses the configuration at path, applies defaults,
// and validates it.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Clients.Total == 0 {
		c.Clients.Total = 1
	}
	if c.Trainer.Rounds == 0 {
		c.Trainer.Rounds = 1
	}
	if c.Trainer.BatchSize == 0 {
		c.Trainer.BatchSize = 32
	}
	if c.Trainer.LearningRate == 0 {
		c.Trainer.LearningRate = 0.01
	}
	if c.Model.Activation == "" {
		c.Model.Activation = "relu"
	}
	if c.Data.Concentration == 0 {
		c.Data.Concentration = 1.0
	}
	if c.Data.MinPartition == 0 {
		c.Data.MinPartition = 1
	}
}

// Validate reports the first malformed field it finds.
func (c *Config) Validate() error {
	if c.Clients.Total < 1 {
		return fmt.Errorf("clients.total must be at least 1, got %d", c.Clients.Total)
	}
	if c.Trainer.Rounds < 1 {
		return fmt.Errorf("trainer.rounds must be at least 1, got %d", c.Trainer.Rounds)
	}
	if c.Trainer.BatchSize < 1 {
		return fmt.Errorf("trainer.batch_size must be at least 1, got %d", c.Trainer.BatchSize)
	}
	if c.Trainer.LearningRate <= 0 {
		return fmt.Errorf("trainer.learning_rate must be positive, got %g", c.Trainer.LearningRate)
	}
	if c.Trainer.Momentum < 0 || c.Trainer.Momentum >= 1 {
		return fmt.Errorf("trainer.momentum must be in [0, 1), got %g", c.Trainer.Momentum)
	}
	if c.Algorithm.CutLayer == "" {
		return fmt.Errorf("algorithm.cut_layer is required")
	}
	if len(c.Model.Layers) < 2 {
		return fmt.Errorf("model.layers needs at least an input and an output width, got %v", c.Model.Layers)
	}
	for i, width := range c.Model.Layers {
		if width < 1 {
			return fmt.Errorf("model.layers[%d] must be positive, got %d", i, width)
		}
	}
	switch c.Model.Activation {
	case "relu", "tanh":
	default:
		return fmt.Errorf("model.activation must be relu or tanh, got %q", c.Model.Activation)
	}
	if c.Data.Classes < 2 {
		return fmt.Errorf("data.classes must be at least 2, got %d", c.Data.Classes)
	}
	if c.Data.Classes != c.Model.Layers[len(c.Model.Layers)-1] {
		return fmt.Errorf("data.classes (%d) must match the model output width (%d)",
			c.Data.Classes, c.Model.Layers[len(c.Model.Layers)-1])
	}
	if c.Data.Samples < c.Clients.Total {
		return fmt.Errorf("data.samples (%d) cannot be fewer than clients.total (%d)",
			c.Data.Samples, c.Clients.Total)
	}
	if c.Data.Concentration <= 0 {
		return fmt.Errorf("data.concentration must be positive, got %g", c.Data.Concentration)
	}
	if c.Data.MinPartition < 1 {
		return fmt.Errorf("data.min_partition must be at least 1, got %d", c.Data.MinPartition)
	}
	return nil
}
