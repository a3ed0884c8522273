package splitlearning

import (
	"log"
	"time"

	"github.com/SamuelGong/plato/datasets"
	"github.com/SamuelGong/plato/samplers"
)

// RoundResult summarizes one completed round of the split-learning
// exchange for one client.
type RoundResult struct {
	Round    int
	ClientID int

	ClientLoss float64
	ServerLoss float64

	Features  int // feature/label pairs shipped to the server
	Gradients int // gradients returned by the server

	ExtractTime time.Duration
	ServerTime  time.Duration
	ClientTime  time.Duration
}

// Coordinator drives the client/server exchange in-process, standing in
// for the transport a deployed system would use. Each RunRound performs
// one full protocol round for one client.
type Coordinator struct {
	cfg      TrainConfig
	cutLayer string
}

// NewCoordinator creates a coordinator. Both parties train with the
// same configuration so their batch boundaries line up.
func NewCoordinator(cfg TrainConfig, cutLayer string) *Coordinator {
	return &Coordinator{cfg: cfg, cutLayer: cutLayer}
}

// RunRound executes one round: feature extraction on the client,
// back-partition training on the server, then gradient-driven
// completion on the client.
func (c *Coordinator) RunRound(round int, client *Algorithm, server *Trainer, dataset datasets.Dataset, sampler samplers.Sampler) (RoundResult, error) {
	result := RoundResult{Round: round, ClientID: client.clientID}

	tic := time.Now()
	features, err := client.ExtractFeatures(dataset, sampler, c.cutLayer)
	if err != nil {
		return result, err
	}
	result.ExtractTime = time.Since(tic)
	result.Features = features.Len()

	tic = time.Now()
	grads, serverLoss, err := server.Train(c.cfg, features)
	if err != nil {
		return result, err
	}
	result.ServerTime = time.Since(tic)
	result.ServerLoss = serverLoss
	result.Gradients = len(grads)

	client.LoadGradients(grads)

	tic = time.Now()
	clientLoss, err := client.CompleteTrain(c.cfg, dataset, sampler, c.cutLayer)
	if err != nil {
		return result, err
	}
	result.ClientTime = time.Since(tic)
	result.ClientLoss = clientLoss

	log.Printf("[Round %d] Client #%d: client_loss=%.4f server_loss=%.4f features=%d gradients=%d",
		round, client.clientID, result.ClientLoss, result.ServerLoss, result.Features, result.Gradients)
	return result, nil
}
