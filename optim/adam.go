package optim

import (
	"math"

	"github.com/SamuelGong/plato/nn"
)

// Adam implements the Adam optimizer (adaptive moment estimation).
//
// Keeps exponential moving averages of gradients (first moment) and
// squared gradients (second moment), with bias correction:
//
//	m = beta1*m + (1-beta1)*g
//	v = beta2*v + (1-beta2)*g²
//	param -= lr * m̂ / (sqrt(v̂) + eps)
type Adam struct {
	params []*nn.Parameter
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	step   int

	m map[*nn.Parameter][]float64
	v map[*nn.Parameter][]float64
}

// AdamConfig holds configuration for the Adam optimizer. Zero values
// select the usual defaults (lr 0.001, betas 0.9/0.999, eps 1e-8).
type AdamConfig struct {
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64
}

// NewAdam creates a new Adam optimizer over the given parameters.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Beta1,
		beta2:  config.Beta2,
		eps:    config.Eps,
		m:      make(map[*nn.Parameter][]float64),
		v:      make(map[*nn.Parameter][]float64),
	}
}

// Step applies one Adam update. Parameters without a gradient are
// skipped; the bias-correction step count advances once per call.
func (a *Adam) Step() {
	a.step++
	c1 := 1 - math.Pow(a.beta1, float64(a.step))
	c2 := 1 - math.Pow(a.beta2, float64(a.step))

	for _, param := range a.params {
		grad := param.Grad()
		if grad == nil {
			continue
		}
		data := param.Tensor().Data()
		g := grad.Data()

		m, ok := a.m[param]
		if !ok {
			m = make([]float64, len(data))
			a.m[param] = m
			a.v[param] = make([]float64, len(data))
		}
		v := a.v[param]

		for i := range data {
			m[i] = a.beta1*m[i] + (1-a.beta1)*g[i]
			v[i] = a.beta2*v[i] + (1-a.beta2)*g[i]*g[i]
			mHat := m[i] / c1
			vHat := v[i] / c2
			data[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// ZeroGrad clears the gradients of all parameters.
func (a *Adam) ZeroGrad() {
	for _, param := range a.params {
		param.ZeroGrad()
	}
}

// LearningRate returns the current learning rate.
func (a *Adam) LearningRate() float64 {
	return a.lr
}
