package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamuelGong/plato/config"
	"github.com/SamuelGong/plato/tensor"
)

func TestBuildNetworkLayerNames(t *testing.T) {
	network := buildNetwork(config.ModelConfig{
		Layers:     []int{20, 32, 16, 4},
		Activation: "relu",
	}, 7)

	assert.Equal(t, []string{"fc1", "relu1", "fc2", "relu2", "fc3"}, network.LayerNames())
}

func TestBuildNetworkTanh(t *testing.T) {
	network := buildNetwork(config.ModelConfig{
		Layers:     []int{4, 8, 2},
		Activation: "tanh",
	}, 7)

	assert.Equal(t, []string{"fc1", "tanh1", "fc2"}, network.LayerNames())
}

func TestBuildNetworkForwardShape(t *testing.T) {
	network := buildNetwork(config.ModelConfig{
		Layers:     []int{3, 6, 2},
		Activation: "relu",
	}, 9)

	out := network.Forward(tensor.Full(tensor.Shape{5, 3}, 0.1))
	assert.True(t, out.Shape().Equal(tensor.Shape{5, 2}))
}

func TestBuildNetworkSameSeedSameWeights(t *testing.T) {
	mc := config.ModelConfig{Layers: []int{4, 8, 2}, Activation: "relu"}
	a := buildNetwork(mc, 11)
	b := buildNetwork(mc, 11)

	pa, pb := a.Parameters(), b.Parameters()
	require.Equal(t, len(pa), len(pb))
	for i := range pa {
		assert.Equal(t, pa[i].Tensor().Data(), pb[i].Tensor().Data(), "parameter %d", i)
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Clients: config.ClientsConfig{Total: 2},
		Trainer: config.TrainerConfig{
			Rounds: 2, BatchSize: 8, LearningRate: 0.05, Loss: "cross_entropy",
		},
		Algorithm: config.AlgorithmConfig{CutLayer: "relu1"},
		Model:     config.ModelConfig{Layers: []int{5, 10, 3}, Activation: "relu"},
		Data: config.DataConfig{
			Samples: 120, Classes: 3, Seed: 13, Concentration: 1, MinPartition: 10,
		},
		Results: config.ResultsConfig{
			Database: dir + "/results.db",
			Report:   dir + "/report.html",
		},
	}
	require.NoError(t, cfg.Validate())

	require.NoError(t, run(cfg))

	assert.FileExists(t, cfg.Results.Database)
	assert.FileExists(t, cfg.Results.Report)
}
