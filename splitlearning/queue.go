package splitlearning

import (
	"errors"
	"log"

	"github.com/SamuelGong/plato/tensor"
)

// ErrNoGradient reports that a gradient was requested before any
// gradient list had been loaded from the server.
var ErrNoGradient = errors.New("splitlearning: no gradient loaded")

// GradientQueue holds the ordered gradient list received from the
// server, one gradient conceptually per training batch, together with
// the index of the gradient the current batch should use.
//
// The index advances monotonically and clamps at the last element: once
// the received list runs out, trailing batches reuse the final gradient
// rather than failing. A reuse only happens when the client processes
// more batches than the server sent gradients for, so the first reuse
// is logged as a batch-count mismatch.
type GradientQueue struct {
	grads   []*tensor.Tensor
	index   int
	clamped bool // index pinned at the last element by a failed Advance
	warned  bool
}

// NewGradientQueue creates an empty queue.
func NewGradientQueue() *GradientQueue {
	return &GradientQueue{}
}

// Load replaces the queue contents with a deep, independent copy of
// grads and resets the index to the first gradient. Any previously
// loaded list is discarded in full.
func (q *GradientQueue) Load(grads []*tensor.Tensor) {
	copied := make([]*tensor.Tensor, len(grads))
	for i, g := range grads {
		copied[i] = g.Clone()
	}
	q.grads = copied
	q.index = 0
	q.clamped = false
	q.warned = false
}

// Len returns the number of loaded gradients.
func (q *GradientQueue) Len() int {
	return len(q.grads)
}

// Index returns the current gradient index.
func (q *GradientQueue) Index() int {
	return q.index
}

// Current returns the gradient for the current batch, or ErrNoGradient
// when nothing has been loaded.
//
// The first read that actually reuses the last gradient after the list
// ran out is logged as a batch-count mismatch.
func (q *GradientQueue) Current() (*tensor.Tensor, error) {
	if len(q.grads) == 0 {
		return nil, ErrNoGradient
	}
	if q.clamped && !q.warned {
		q.warned = true
		log.Printf("[SplitLearning] Gradient list exhausted after %d entries; reusing the last gradient (client/server batch counts differ?)",
			len(q.grads))
	}
	return q.grads[q.index], nil
}

// Advance moves the index to the next gradient, holding at the last
// element once the list is exhausted (no wraparound).
func (q *GradientQueue) Advance() {
	if q.index < len(q.grads)-1 {
		q.index++
		return
	}
	if len(q.grads) > 0 {
		q.clamped = true
	}
}
