// Copyright 2026 the Plato authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 tensors used throughout Plato.
//
// Tensors are flat buffers with an explicit Shape. One- and two-dimensional
// tensors cover everything the split-learning stack needs: sample vectors,
// activation batches, and the gradients exchanged at the cut layer. Matrix
// operations delegate to gonum without copying the underlying buffer.
//
// Example:
//
//	x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	y := tensor.Zeros(tensor.Shape{3, 2})
//	z := x.MatMul(y) // shape [2, 2]
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{32, 128} is a batch of 32 vectors of width 128.
type Shape []int

// NumElements returns the total number of elements a shape addresses.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Equal reports whether two shapes have identical dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i, d := range s {
		if d != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

func (s Shape) String() string {
	return fmt.Sprintf("%v", []int(s))
}

// Tensor is a dense float64 tensor.
//
// The zero value is not usable; construct tensors with Zeros, Full,
// FromSlice, or Stack. Methods that combine tensors panic on shape
// mismatches, which are programmer errors at this layer. Operations that
// depend on runtime input (construction, stacking) return errors instead.
type Tensor struct {
	shape Shape
	data  []float64
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
	}
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// FromSlice creates a tensor that takes ownership of data.
//
// Returns an error when the slice length does not match the shape.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("tensor: %d elements do not fit shape %v", len(data), shape)
	}
	return &Tensor{shape: shape.Clone(), data: data}, nil
}

// Stack combines 1D tensors of equal width into a single [n, width] tensor.
//
// Used to assemble mini-batches from per-sample vectors.
func Stack(rows []*Tensor) (*Tensor, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("tensor: cannot stack zero tensors")
	}
	width := rows[0].NumElements()
	out := Zeros(Shape{len(rows), width})
	for i, row := range rows {
		if row.NumElements() != width {
			return nil, fmt.Errorf("tensor: stack width mismatch at row %d: %d != %d",
				i, row.NumElements(), width)
		}
		copy(out.data[i*width:(i+1)*width], row.data)
	}
	return out, nil
}

// Shape returns the tensor's shape. The caller must not mutate it.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Data returns the underlying buffer in row-major order.
func (t *Tensor) Data() []float64 {
	return t.data
}

// NumElements returns the number of elements in the tensor.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Clone returns a deep, independent copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{shape: t.shape.Clone(), data: data}
}

// Reshape returns a view over the same buffer with a new shape.
//
// Panics if the element count changes.
func (t *Tensor) Reshape(dims ...int) *Tensor {
	shape := Shape(dims)
	if shape.NumElements() != len(t.data) {
		panic(fmt.Sprintf("tensor: cannot reshape %v to %v", t.shape, shape))
	}
	return &Tensor{shape: shape.Clone(), data: t.data}
}

// Row returns a copy of row i of a 2D tensor as a 1D tensor.
func (t *Tensor) Row(i int) *Tensor {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("tensor: Row requires a 2D tensor, got shape %v", t.shape))
	}
	cols := t.shape[1]
	data := make([]float64, cols)
	copy(data, t.data[i*cols:(i+1)*cols])
	return &Tensor{shape: Shape{cols}, data: data}
}

// matrix wraps the buffer as a gonum matrix without copying.
func (t *Tensor) matrix() *mat.Dense {
	switch len(t.shape) {
	case 1:
		return mat.NewDense(1, t.shape[0], t.data)
	case 2:
		return mat.NewDense(t.shape[0], t.shape[1], t.data)
	default:
		panic(fmt.Sprintf("tensor: matrix ops require 1D or 2D tensors, got shape %v", t.shape))
	}
}

// MatMul performs matrix multiplication: [m, k] @ [k, n] = [m, n].
func (t *Tensor) MatMul(other *Tensor) *Tensor {
	a := t.matrix()
	b := other.matrix()
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ac != br {
		panic(fmt.Sprintf("tensor: MatMul dimension mismatch: %v @ %v", t.shape, other.shape))
	}
	out := Zeros(Shape{ar, bc})
	m := mat.NewDense(ar, bc, out.data)
	m.Mul(a, b)
	return out
}

// Transpose returns the transpose of a 2D tensor.
func (t *Tensor) Transpose() *Tensor {
	a := t.matrix()
	r, c := a.Dims()
	out := Zeros(Shape{c, r})
	m := mat.NewDense(c, r, out.data)
	m.Copy(a.T())
	return out
}

// Add returns t + other element-wise.
//
// A 1D tensor (or [1, c] tensor) of matching width broadcasts across the
// rows of a 2D tensor, which covers bias addition.
func (t *Tensor) Add(other *Tensor) *Tensor {
	if t.shape.Equal(other.shape) {
		out := t.Clone()
		floats.Add(out.data, other.data)
		return out
	}
	if len(t.shape) == 2 && other.NumElements() == t.shape[1] {
		out := t.Clone()
		cols := t.shape[1]
		for i := 0; i < t.shape[0]; i++ {
			floats.Add(out.data[i*cols:(i+1)*cols], other.data)
		}
		return out
	}
	panic(fmt.Sprintf("tensor: Add shape mismatch: %v + %v", t.shape, other.shape))
}

// Sub returns t - other element-wise.
func (t *Tensor) Sub(other *Tensor) *Tensor {
	if !t.shape.Equal(other.shape) {
		panic(fmt.Sprintf("tensor: Sub shape mismatch: %v - %v", t.shape, other.shape))
	}
	out := t.Clone()
	floats.Sub(out.data, other.data)
	return out
}

// Mul returns t * other element-wise (Hadamard product).
func (t *Tensor) Mul(other *Tensor) *Tensor {
	if !t.shape.Equal(other.shape) {
		panic(fmt.Sprintf("tensor: Mul shape mismatch: %v * %v", t.shape, other.shape))
	}
	out := t.Clone()
	floats.Mul(out.data, other.data)
	return out
}

// Scale returns a * t.
func (t *Tensor) Scale(a float64) *Tensor {
	out := t.Clone()
	floats.Scale(a, out.data)
	return out
}

// SumRows returns the column-wise sum of a 2D tensor as a 1D tensor.
func (t *Tensor) SumRows() *Tensor {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("tensor: SumRows requires a 2D tensor, got shape %v", t.shape))
	}
	rows, cols := t.shape[0], t.shape[1]
	out := Zeros(Shape{cols})
	for i := 0; i < rows; i++ {
		floats.Add(out.data, t.data[i*cols:(i+1)*cols])
	}
	return out
}

// ArgMaxRows returns the index of the maximum entry in each row of a 2D
// tensor. Used for label prediction from logits.
func (t *Tensor) ArgMaxRows() []int {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("tensor: ArgMaxRows requires a 2D tensor, got shape %v", t.shape))
	}
	rows, cols := t.shape[0], t.shape[1]
	out := make([]int, rows)
	for i := 0; i < rows; i++ {
		out[i] = floats.MaxIdx(t.data[i*cols : (i+1)*cols])
	}
	return out
}
