package datasets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamuelGong/plato/datasets"
	"github.com/SamuelGong/plato/tensor"
)

func TestNewSliceDatasetLengthMismatch(t *testing.T) {
	samples := []*tensor.Tensor{tensor.Zeros(tensor.Shape{2})}
	_, err := datasets.NewSliceDataset(samples, []int{0, 1})
	assert.Error(t, err)
}

func TestSliceDataset(t *testing.T) {
	samples := []*tensor.Tensor{
		tensor.Full(tensor.Shape{2}, 1),
		tensor.Full(tensor.Shape{2}, 2),
	}
	ds, err := datasets.NewSliceDataset(samples, []int{3, 4})
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	sample, label := ds.Get(1)
	assert.Equal(t, []float64{2, 2}, sample.Data())
	assert.Equal(t, 4, label)
}

func TestNewSynthetic(t *testing.T) {
	cfg := datasets.SyntheticConfig{Samples: 30, Features: 4, Classes: 3, Seed: 1}
	ds, err := datasets.NewSynthetic(cfg)
	require.NoError(t, err)
	require.Equal(t, 30, ds.Len())

	counts := make(map[int]int)
	for i := 0; i < ds.Len(); i++ {
		sample, label := ds.Get(i)
		assert.True(t, sample.Shape().Equal(tensor.Shape{4}))
		counts[label]++
	}
	assert.Equal(t, map[int]int{0: 10, 1: 10, 2: 10}, counts)
}

func TestNewSyntheticDeterministic(t *testing.T) {
	cfg := datasets.SyntheticConfig{Samples: 5, Features: 3, Classes: 2, Seed: 9}
	a, err := datasets.NewSynthetic(cfg)
	require.NoError(t, err)
	b, err := datasets.NewSynthetic(cfg)
	require.NoError(t, err)

	for i := 0; i < a.Len(); i++ {
		sa, la := a.Get(i)
		sb, lb := b.Get(i)
		assert.Equal(t, la, lb)
		assert.Equal(t, sa.Data(), sb.Data())
	}
}

func TestNewSyntheticRejectsBadConfig(t *testing.T) {
	_, err := datasets.NewSynthetic(datasets.SyntheticConfig{Samples: 0, Features: 2, Classes: 2})
	assert.Error(t, err)
}
