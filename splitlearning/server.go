package splitlearning

import (
	"fmt"
	"log"
	"time"

	"github.com/SamuelGong/plato/nn"
	"github.com/SamuelGong/plato/samplers"
	"github.com/SamuelGong/plato/tensor"
)

// Trainer is the server side of the split-learning protocol: it trains
// the back partition of its own network copy over the features a client
// extracted, and captures the gradient at the cut boundary for every
// batch, in order. That ordered list is what the client loads before
// completing its round.
type Trainer struct {
	model     *nn.Network
	cutLayer  string
	loader    BatchLoader
	criterion nn.Criterion
	optimizer OptimizerFactory
}

// TrainerOption customizes a Trainer at construction time.
type TrainerOption func(*Trainer)

// WithTrainerBatchLoader replaces the default sequential batch loader.
func WithTrainerBatchLoader(loader BatchLoader) TrainerOption {
	return func(t *Trainer) { t.loader = loader }
}

// WithTrainerCriterion replaces the configured loss criterion.
func WithTrainerCriterion(criterion nn.Criterion) TrainerOption {
	return func(t *Trainer) { t.criterion = criterion }
}

// WithTrainerOptimizerFactory replaces the configured optimizer.
func WithTrainerOptimizerFactory(factory OptimizerFactory) TrainerOption {
	return func(t *Trainer) { t.optimizer = factory }
}

// NewTrainer creates the server-side trainer.
func NewTrainer(model *nn.Network, cutLayer string, opts ...TrainerOption) *Trainer {
	t := &Trainer{
		model:     model,
		cutLayer:  cutLayer,
		loader:    SequentialLoader{},
		optimizer: defaultOptimizerFactory,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Model returns the server's network.
func (t *Trainer) Model() *nn.Network {
	return t.model
}

// Train runs one pass of back-partition training over the received
// features, in arrival order, and returns one cut-boundary gradient per
// batch together with the mean loss.
//
// Only the back partition's parameters are updated; the front partition
// belongs to the client.
func (t *Trainer) Train(cfg TrainConfig, features *FeatureDataset) ([]*tensor.Tensor, float64, error) {
	if err := cfg.validate(); err != nil {
		return nil, 0, err
	}
	if !t.model.HasLayer(t.cutLayer) {
		return nil, 0, fmt.Errorf("splitlearning: server network has no cut layer %q", t.cutLayer)
	}

	criterion := t.criterion
	if criterion == nil {
		var err error
		if criterion, err = nn.NewCriterion(cfg.Loss); err != nil {
			return nil, 0, err
		}
	}

	backParams, err := t.model.BackParameters(t.cutLayer)
	if err != nil {
		return nil, 0, err
	}
	optimizer, err := t.optimizer(backParams, cfg)
	if err != nil {
		return nil, 0, err
	}

	// Features are consumed in exactly the order the client produced
	// them, so gradient i corresponds to the client's batch i.
	batches, err := t.loader.Load(features, samplers.NewAllInclusive(features), cfg.BatchSize)
	if err != nil {
		return nil, 0, err
	}

	t.model.Train()
	tic := time.Now()

	grads := make([]*tensor.Tensor, 0, len(batches))
	var totalLoss float64
	for _, batch := range batches {
		optimizer.ZeroGrad()

		outputs, err := t.model.ForwardFrom(batch.Inputs, t.cutLayer)
		if err != nil {
			return nil, 0, err
		}
		loss, lossGrad := criterion.Forward(outputs, batch.Labels)
		boundary, err := t.model.BackwardFrom(lossGrad, t.cutLayer)
		if err != nil {
			return nil, 0, err
		}
		optimizer.Step()

		grads = append(grads, boundary)
		totalLoss += loss
	}

	log.Printf("[Server] Trained back partition over %d feature batches in %.2f seconds.",
		len(batches), time.Since(tic).Seconds())

	if len(batches) == 0 {
		return grads, 0, nil
	}
	return grads, totalLoss / float64(len(batches)), nil
}
