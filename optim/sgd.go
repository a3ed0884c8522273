package optim

import (
	"gonum.org/v1/gonum/floats"

	"github.com/SamuelGong/plato/nn"
)

// SGD implements stochastic gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	params     []*nn.Parameter
	lr         float64
	momentum   float64
	velocities map[*nn.Parameter][]float64
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float64 // learning rate (default 0.01)
	Momentum float64 // momentum factor in [0, 1)
}

// NewSGD creates a new SGD optimizer over the given parameters.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter][]float64),
	}
}

// Step applies one SGD update. Parameters without a gradient are
// skipped.
func (s *SGD) Step() {
	for _, param := range s.params {
		grad := param.Grad()
		if grad == nil {
			continue
		}
		data := param.Tensor().Data()

		if s.momentum == 0 {
			floats.AddScaled(data, -s.lr, grad.Data())
			continue
		}

		velocity, ok := s.velocities[param]
		if !ok {
			velocity = make([]float64, len(data))
			s.velocities[param] = velocity
		}
		floats.Scale(s.momentum, velocity)
		floats.Add(velocity, grad.Data())
		floats.AddScaled(data, -s.lr, velocity)
	}
}

// ZeroGrad clears the gradients of all parameters.
func (s *SGD) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// LearningRate returns the current learning rate.
func (s *SGD) LearningRate() float64 {
	return s.lr
}

// SetLearningRate updates the learning rate, for schedulers.
func (s *SGD) SetLearningRate(lr float64) {
	s.lr = lr
}
