package samplers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamuelGong/plato/datasets"
	"github.com/SamuelGong/plato/samplers"
	"github.com/SamuelGong/plato/tensor"
)

func newDataset(t *testing.T, n int) datasets.Dataset {
	t.Helper()
	samples := make([]*tensor.Tensor, n)
	labels := make([]int, n)
	for i := range samples {
		samples[i] = tensor.Full(tensor.Shape{2}, float64(i))
		labels[i] = i % 2
	}
	ds, err := datasets.NewSliceDataset(samples, labels)
	require.NoError(t, err)
	return ds
}

func TestAllInclusive(t *testing.T) {
	ds := newDataset(t, 5)
	s := samplers.NewAllInclusive(ds)

	assert.Equal(t, 5, s.Size())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, s.Indices())
}

func TestDirichletPartitionsAreDisjointAndCover(t *testing.T) {
	ds := newDataset(t, 100)
	cfg := samplers.DirichletConfig{TotalClients: 4, Concentration: 1.0, Seed: 42}

	seen := make(map[int]int)
	total := 0
	for client := 0; client < cfg.TotalClients; client++ {
		s, err := samplers.NewDirichlet(ds, client, cfg)
		require.NoError(t, err)
		total += s.Size()
		for _, idx := range s.Indices() {
			seen[idx]++
		}
	}

	assert.Equal(t, 100, total)
	assert.Len(t, seen, 100)
	for idx, count := range seen {
		assert.Equalf(t, 1, count, "index %d assigned to %d partitions", idx, count)
	}
}

func TestDirichletDeterministicPerSeed(t *testing.T) {
	ds := newDataset(t, 50)
	cfg := samplers.DirichletConfig{TotalClients: 3, Concentration: 0.5, Seed: 7}

	a, err := samplers.NewDirichlet(ds, 1, cfg)
	require.NoError(t, err)
	b, err := samplers.NewDirichlet(ds, 1, cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Indices(), b.Indices())
}

func TestDirichletMinPartition(t *testing.T) {
	ds := newDataset(t, 100)
	cfg := samplers.DirichletConfig{TotalClients: 4, Concentration: 1.0, MinPartition: 5, Seed: 3}

	for client := 0; client < cfg.TotalClients; client++ {
		s, err := samplers.NewDirichlet(ds, client, cfg)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.Size(), 5)
	}
}

func TestDirichletImpossibleMinPartition(t *testing.T) {
	ds := newDataset(t, 10)
	cfg := samplers.DirichletConfig{TotalClients: 4, Concentration: 1.0, MinPartition: 5, Seed: 3}

	_, err := samplers.NewDirichlet(ds, 0, cfg)
	assert.Error(t, err)
}

func TestDirichletValidation(t *testing.T) {
	ds := newDataset(t, 10)

	_, err := samplers.NewDirichlet(ds, 0, samplers.DirichletConfig{TotalClients: 0, Concentration: 1})
	assert.Error(t, err)

	_, err = samplers.NewDirichlet(ds, 5, samplers.DirichletConfig{TotalClients: 2, Concentration: 1})
	assert.Error(t, err)

	_, err = samplers.NewDirichlet(ds, 0, samplers.DirichletConfig{TotalClients: 2, Concentration: 0})
	assert.Error(t, err)
}
