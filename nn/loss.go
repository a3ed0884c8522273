package nn

import (
	"fmt"
	"math"

	"github.com/SamuelGong/plato/tensor"
)

// Criterion computes a scalar loss and its gradient with respect to the
// model output.
//
// Criteria sit outside the Module hierarchy: they start the backward
// pass rather than participate in it.
type Criterion interface {
	// Forward returns the mean loss over the batch and the gradient of
	// that loss with respect to logits.
	//
	// logits shape: [batch_size, num_classes]; labels holds one class
	// index per row.
	Forward(logits *tensor.Tensor, labels []int) (float64, *tensor.Tensor)
}

// NewCriterion resolves a criterion by its configuration name.
//
// Supported names: "cross_entropy", "mse".
func NewCriterion(name string) (Criterion, error) {
	switch name {
	case "", "cross_entropy":
		return NewCrossEntropyLoss(), nil
	case "mse":
		return NewMSELoss(), nil
	default:
		return nil, fmt.Errorf("nn: unknown loss criterion %q", name)
	}
}

// CrossEntropyLoss combines log-softmax and negative log-likelihood.
//
// Loss = -mean(log softmax(logits)[label])
//
// The softmax is computed with the max-subtraction trick for numerical
// stability. The gradient is (softmax - onehot) / batch_size.
type CrossEntropyLoss struct{}

// NewCrossEntropyLoss creates a new cross-entropy criterion.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return &CrossEntropyLoss{}
}

// Forward computes the mean cross-entropy loss and its logits gradient.
func (c *CrossEntropyLoss) Forward(logits *tensor.Tensor, labels []int) (float64, *tensor.Tensor) {
	batch, classes := checkCriterionArgs("CrossEntropyLoss", logits, labels)

	grad := tensor.Zeros(logits.Shape())
	gradData := grad.Data()
	logitData := logits.Data()

	var total float64
	for i := 0; i < batch; i++ {
		row := logitData[i*classes : (i+1)*classes]

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(v - maxVal)
		}
		logSumExp := maxVal + math.Log(sumExp)

		total += logSumExp - row[labels[i]]

		gradRow := gradData[i*classes : (i+1)*classes]
		for j, v := range row {
			gradRow[j] = math.Exp(v-logSumExp) / float64(batch)
		}
		gradRow[labels[i]] -= 1.0 / float64(batch)
	}

	return total / float64(batch), grad
}

// MSELoss computes mean squared error against one-hot targets.
//
// Loss = mean((logits - onehot)²)
type MSELoss struct{}

// NewMSELoss creates a new MSE criterion.
func NewMSELoss() *MSELoss {
	return &MSELoss{}
}

// Forward computes the mean squared error and its logits gradient.
func (m *MSELoss) Forward(logits *tensor.Tensor, labels []int) (float64, *tensor.Tensor) {
	batch, classes := checkCriterionArgs("MSELoss", logits, labels)

	grad := tensor.Zeros(logits.Shape())
	gradData := grad.Data()
	logitData := logits.Data()

	n := float64(batch * classes)
	var total float64
	for i := 0; i < batch; i++ {
		for j := 0; j < classes; j++ {
			target := 0.0
			if j == labels[i] {
				target = 1.0
			}
			diff := logitData[i*classes+j] - target
			total += diff * diff
			gradData[i*classes+j] = 2 * diff / n
		}
	}

	return total / n, grad
}

func checkCriterionArgs(name string, logits *tensor.Tensor, labels []int) (batch, classes int) {
	shape := logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("nn: %s expects 2D logits [batch, classes], got shape %v", name, shape))
	}
	batch, classes = shape[0], shape[1]
	if len(labels) != batch {
		panic(fmt.Sprintf("nn: %s got %d labels for a batch of %d", name, len(labels), batch))
	}
	for i, label := range labels {
		if label < 0 || label >= classes {
			panic(fmt.Sprintf("nn: %s label %d at index %d outside [0, %d)", name, label, i, classes))
		}
	}
	return batch, classes
}
