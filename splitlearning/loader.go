package splitlearning

import (
	"fmt"

	"github.com/SamuelGong/plato/datasets"
	"github.com/SamuelGong/plato/samplers"
	"github.com/SamuelGong/plato/tensor"
)

// Batch is one mini-batch of stacked samples and their labels.
type Batch struct {
	Inputs *tensor.Tensor // [batch_size, features]
	Labels []int
}

// BatchLoader assembles mini-batches from a dataset and a sampling
// strategy.
//
// This is the optional-capability contract for custom data loading: a
// trainer that needs its own batching supplies a BatchLoader at
// construction time, everyone else gets the sequential default. The
// choice is made once, when the algorithm is built, never probed during
// training.
type BatchLoader interface {
	Load(dataset datasets.Dataset, sampler samplers.Sampler, batchSize int) ([]Batch, error)
}

// SequentialLoader is the default BatchLoader: it visits the sampler's
// indices in order and cuts them into contiguous batches. The final
// batch may be smaller than batchSize.
type SequentialLoader struct{}

// Load builds the batch list.
func (SequentialLoader) Load(dataset datasets.Dataset, sampler samplers.Sampler, batchSize int) ([]Batch, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("splitlearning: batch size must be positive, got %d", batchSize)
	}

	indices := sampler.Indices()
	batches := make([]Batch, 0, (len(indices)+batchSize-1)/batchSize)
	for start := 0; start < len(indices); start += batchSize {
		end := start + batchSize
		if end > len(indices) {
			end = len(indices)
		}

		rows := make([]*tensor.Tensor, 0, end-start)
		labels := make([]int, 0, end-start)
		for _, idx := range indices[start:end] {
			sample, label := dataset.Get(idx)
			rows = append(rows, sample)
			labels = append(labels, label)
		}

		inputs, err := tensor.Stack(rows)
		if err != nil {
			return nil, fmt.Errorf("splitlearning: assembling batch at offset %d: %w", start, err)
		}
		batches = append(batches, Batch{Inputs: inputs, Labels: labels})
	}
	return batches, nil
}
