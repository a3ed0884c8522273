package splitlearning

import (
	"github.com/SamuelGong/plato/tensor"
)

// FeatureDataset is the sequence of (feature, label) pairs produced by
// running the front partition over local data up to the cut layer. It
// implements datasets.Dataset so the server-side trainer can batch it
// like any other dataset.
//
// The dataset is immutable once built; features are stored as the
// extraction pass produced them, in sampling order.
type FeatureDataset struct {
	features []*tensor.Tensor
	labels   []int
}

// Len returns the number of feature/label pairs.
func (d *FeatureDataset) Len() int {
	return len(d.features)
}

// Get returns feature i and its label.
func (d *FeatureDataset) Get(i int) (*tensor.Tensor, int) {
	return d.features[i], d.labels[i]
}

func (d *FeatureDataset) append(feature *tensor.Tensor, label int) {
	d.features = append(d.features, feature)
	d.labels = append(d.labels, label)
}
