package splitlearning

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamuelGong/plato/nn"
	"github.com/SamuelGong/plato/tensor"
)

func testFeatures(t *testing.T, n, width int) *FeatureDataset {
	t.Helper()
	fd := &FeatureDataset{}
	for i := 0; i < n; i++ {
		fd.append(tensor.Full(tensor.Shape{width}, float64(i)*0.01), i%2)
	}
	return fd
}

func TestServerProducesOneGradientPerBatch(t *testing.T) {
	model := testModel(t)
	server := NewTrainer(model, "relu1")

	features := testFeatures(t, 5, 4)
	cfg := TrainConfig{BatchSize: 2, LearningRate: 0.05}

	grads, loss, err := server.Train(cfg, features)
	require.NoError(t, err)

	// 5 features at batch size 2: batches of 2, 2, and 1.
	require.Len(t, grads, 3)
	assert.True(t, grads[0].Shape().Equal(tensor.Shape{2, 4}))
	assert.True(t, grads[1].Shape().Equal(tensor.Shape{2, 4}))
	assert.True(t, grads[2].Shape().Equal(tensor.Shape{1, 4}))
	assert.False(t, math.IsNaN(loss))
}

func TestServerUpdatesOnlyBackPartition(t *testing.T) {
	model := testModel(t)
	server := NewTrainer(model, "relu1")

	front, err := model.FrontParameters("relu1")
	require.NoError(t, err)
	back, err := model.BackParameters("relu1")
	require.NoError(t, err)

	frontBefore := make([][]float64, len(front))
	for i, p := range front {
		frontBefore[i] = append([]float64(nil), p.Tensor().Data()...)
	}
	backBefore := make([][]float64, len(back))
	for i, p := range back {
		backBefore[i] = append([]float64(nil), p.Tensor().Data()...)
	}

	cfg := TrainConfig{BatchSize: 2, LearningRate: 0.5}
	_, _, err = server.Train(cfg, testFeatures(t, 6, 4))
	require.NoError(t, err)

	for i, p := range front {
		assert.Equal(t, frontBefore[i], p.Tensor().Data(), "front parameter %d moved", i)
	}
	moved := false
	for i, p := range back {
		if !assert.ObjectsAreEqual(backBefore[i], p.Tensor().Data()) {
			moved = true
		}
	}
	assert.True(t, moved, "back partition parameters did not move")
}

func TestServerUnknownCutLayer(t *testing.T) {
	server := NewTrainer(testModel(t), "pool7")
	cfg := TrainConfig{BatchSize: 2, LearningRate: 0.05}
	_, _, err := server.Train(cfg, testFeatures(t, 4, 4))
	assert.Error(t, err)
}

func TestServerBoundaryGradientMatchesFullBackward(t *testing.T) {
	// The gradient the server emits at the cut boundary must equal the
	// gradient a full backward pass on an identical network carries
	// into the layer after the cut.
	srcA := rand.NewPCG(11, 13)
	a := nn.NewNetwork().
		Add("fc1", nn.NewLinear(3, 4, srcA)).
		Add("relu1", nn.NewReLU()).
		Add("fc2", nn.NewLinear(4, 2, srcA))
	srcB := rand.NewPCG(11, 13)
	b := nn.NewNetwork().
		Add("fc1", nn.NewLinear(3, 4, srcB)).
		Add("relu1", nn.NewReLU()).
		Add("fc2", nn.NewLinear(4, 2, srcB))

	input := tensor.Full(tensor.Shape{2, 3}, 0.4)
	labels := []int{0, 1}

	// Reference: full pass on network a, capturing the boundary.
	a.Train()
	out := a.Forward(input)
	criterion := nn.NewCrossEntropyLoss()
	_, lossGrad := criterion.Forward(out, labels)
	var want *tensor.Tensor
	require.NoError(t, a.RegisterGradientHook("relu1", func(_ string, g *tensor.Tensor) *tensor.Tensor {
		want = g.Clone()
		return g
	}))
	a.Backward(lossGrad)
	require.NotNil(t, want)

	// Server path on the identical network b.
	features, err := b.ForwardTo(input, "relu1")
	require.NoError(t, err)
	fd := &FeatureDataset{}
	for i := range labels {
		fd.append(features.Row(i), labels[i])
	}
	server := NewTrainer(b, "relu1")
	grads, _, err := server.Train(TrainConfig{BatchSize: 2, LearningRate: 0.05}, fd)
	require.NoError(t, err)
	require.Len(t, grads, 1)

	require.True(t, grads[0].Shape().Equal(want.Shape()))
	for i, v := range grads[0].Data() {
		assert.InDelta(t, want.Data()[i], v, 1e-12)
	}
}

func TestServerEmptyFeatureDataset(t *testing.T) {
	server := NewTrainer(testModel(t), "relu1")
	cfg := TrainConfig{BatchSize: 2, LearningRate: 0.05}

	grads, loss, err := server.Train(cfg, &FeatureDataset{})
	require.NoError(t, err)
	assert.Empty(t, grads)
	assert.Zero(t, loss)
}
