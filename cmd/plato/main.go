// Command plato runs a split-learning simulation from a YAML
// configuration: synthetic data partitioned across clients, one shared
// server, the configured number of rounds, and a loss report at the
// end.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/SamuelGong/plato/config"
	"github.com/SamuelGong/plato/datasets"
	"github.com/SamuelGong/plato/internal/report"
	"github.com/SamuelGong/plato/internal/results"
	"github.com/SamuelGong/plato/nn"
	"github.com/SamuelGong/plato/samplers"
	"github.com/SamuelGong/plato/splitlearning"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Plato %s\n", version)
		return
	}

	cfgPath := flag.String("config", "configs/demo.yml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

func run(cfg *config.Config) error {
	dataset, err := datasets.NewSynthetic(datasets.SyntheticConfig{
		Samples:  cfg.Data.Samples,
		Features: cfg.Model.Layers[0],
		Classes:  cfg.Data.Classes,
		Seed:     cfg.Data.Seed,
	})
	if err != nil {
		return err
	}

	// Every party starts from the same checkpoint: identical seeds give
	// identical initial weights on client and server copies.
	serverModel := buildNetwork(cfg.Model, cfg.Data.Seed)
	if !serverModel.HasLayer(cfg.Algorithm.CutLayer) {
		return fmt.Errorf("cut layer %q not in model (layers: %v)",
			cfg.Algorithm.CutLayer, serverModel.LayerNames())
	}
	server := splitlearning.NewTrainer(serverModel, cfg.Algorithm.CutLayer)

	partition := samplers.DirichletConfig{
		TotalClients:  cfg.Clients.Total,
		Concentration: cfg.Data.Concentration,
		MinPartition:  cfg.Data.MinPartition,
		Seed:          cfg.Data.Seed,
	}
	clients := make([]*splitlearning.Algorithm, cfg.Clients.Total)
	partitions := make([]samplers.Sampler, cfg.Clients.Total)
	for i := range clients {
		clients[i] = splitlearning.NewAlgorithm(i+1, buildNetwork(cfg.Model, cfg.Data.Seed))
		sampler, err := samplers.NewDirichlet(dataset, i, partition)
		if err != nil {
			return err
		}
		partitions[i] = sampler
		log.Printf("client #%d partition=%d samples", i+1, sampler.Size())
	}

	var recorder *results.Recorder
	if cfg.Results.Database != "" {
		if recorder, err = results.Open(cfg.Results.Database); err != nil {
			return err
		}
		defer recorder.Close()
		log.Printf("recording run %s to %s", recorder.Run(), cfg.Results.Database)
	}

	trainCfg := splitlearning.TrainConfig{
		BatchSize:    cfg.Trainer.BatchSize,
		LearningRate: cfg.Trainer.LearningRate,
		Momentum:     cfg.Trainer.Momentum,
		Optimizer:    cfg.Trainer.Optimizer,
		Loss:         cfg.Trainer.Loss,
	}
	coordinator := splitlearning.NewCoordinator(trainCfg, cfg.Algorithm.CutLayer)

	for round := 1; round <= cfg.Trainer.Rounds; round++ {
		for i, client := range clients {
			result, err := coordinator.RunRound(round, client, server, dataset, partitions[i])
			if err != nil {
				return fmt.Errorf("round %d client #%d: %w", round, i+1, err)
			}
			if recorder != nil {
				if err := recorder.Record(result); err != nil {
					return err
				}
			}
		}
	}

	if recorder != nil && cfg.Results.Report != "" {
		rows, err := recorder.Rounds()
		if err != nil {
			return err
		}
		if err := report.Write(cfg.Results.Report, rows); err != nil {
			return err
		}
		log.Printf("report written to %s", cfg.Results.Report)
	}
	return nil
}

// buildNetwork assembles the MLP the configuration describes: linear
// layers fc1..fcN with the configured activation between consecutive
// pairs, none after the output layer.
func buildNetwork(mc config.ModelConfig, seed uint64) *nn.Network {
	src := rand.NewPCG(seed, seed+1)
	network := nn.NewNetwork()
	for i := 0; i < len(mc.Layers)-1; i++ {
		network.Add(fmt.Sprintf("fc%d", i+1), nn.NewLinear(mc.Layers[i], mc.Layers[i+1], src))
		if i < len(mc.Layers)-2 {
			switch mc.Activation {
			case "tanh":
				network.Add(fmt.Sprintf("tanh%d", i+1), nn.NewTanh())
			default:
				network.Add(fmt.Sprintf("relu%d", i+1), nn.NewReLU())
			}
		}
	}
	return network
}
