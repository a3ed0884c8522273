package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamuelGong/plato/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plato.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validConfig = `
clients:
  total: 3
trainer:
  rounds: 5
  batch_size: 16
  optimizer: sgd
  learning_rate: 0.05
  momentum: 0.9
  loss: cross_entropy
algorithm:
  cut_layer: relu1
model:
  layers: [20, 32, 4]
  activation: relu
data:
  samples: 600
  classes: 4
  seed: 7
  concentration: 0.5
  min_partition: 10
results:
  database: results.db
  report: report.html
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Clients.Total)
	assert.Equal(t, 5, cfg.Trainer.Rounds)
	assert.Equal(t, 16, cfg.Trainer.BatchSize)
	assert.Equal(t, 0.05, cfg.Trainer.LearningRate)
	assert.Equal(t, 0.9, cfg.Trainer.Momentum)
	assert.Equal(t, "relu1", cfg.Algorithm.CutLayer)
	assert.Equal(t, []int{20, 32, 4}, cfg.Model.Layers)
	assert.Equal(t, 600, cfg.Data.Samples)
	assert.Equal(t, uint64(7), cfg.Data.Seed)
	assert.Equal(t, "results.db", cfg.Results.Database)
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
algorithm:
  cut_layer: relu1
model:
  layers: [4, 8, 2]
data:
  samples: 100
  classes: 2
`))
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Clients.Total)
	assert.Equal(t, 1, cfg.Trainer.Rounds)
	assert.Equal(t, 32, cfg.Trainer.BatchSize)
	assert.Equal(t, 0.01, cfg.Trainer.LearningRate)
	assert.Equal(t, "relu", cfg.Model.Activation)
	assert.Equal(t, 1.0, cfg.Data.Concentration)
	assert.Equal(t, 1, cfg.Data.MinPartition)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "model: [unclosed"))
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	base := func() config.Config {
		return config.Config{
			Clients:   config.ClientsConfig{Total: 2},
			Trainer:   config.TrainerConfig{Rounds: 1, BatchSize: 8, LearningRate: 0.1},
			Algorithm: config.AlgorithmConfig{CutLayer: "relu1"},
			Model:     config.ModelConfig{Layers: []int{4, 8, 2}, Activation: "relu"},
			Data:      config.DataConfig{Samples: 50, Classes: 2, Concentration: 1, MinPartition: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing cut layer", func(c *config.Config) { c.Algorithm.CutLayer = "" }},
		{"single layer model", func(c *config.Config) { c.Model.Layers = []int{4} }},
		{"zero layer width", func(c *config.Config) { c.Model.Layers = []int{4, 0, 2} }},
		{"unknown activation", func(c *config.Config) { c.Model.Activation = "gelu" }},
		{"negative learning rate", func(c *config.Config) { c.Trainer.LearningRate = -0.1 }},
		{"momentum out of range", func(c *config.Config) { c.Trainer.Momentum = 1.0 }},
		{"classes mismatch output", func(c *config.Config) { c.Data.Classes = 3 }},
		{"fewer samples than clients", func(c *config.Config) { c.Data.Samples = 1 }},
		{"negative concentration", func(c *config.Config) { c.Data.Concentration = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
