package nn

import (
	"fmt"

	"github.com/SamuelGong/plato/tensor"
)

// GradientHook is an extension point on a layer's gradient boundary.
//
// During a backward pass the hook receives the gradient flowing into the
// named layer (the gradient with respect to that layer's output) and
// returns the gradient to use in its place. Returning the argument
// unchanged leaves the locally computed gradient in effect; the hook
// must not return nil.
//
// Split learning registers a hook on the cut layer to substitute the
// server-supplied gradient for the locally computed one.
type GradientHook func(layer string, grad *tensor.Tensor) *tensor.Tensor

// Network is an ordered container of named layers.
//
// Beyond plain sequential evaluation it supports the partial evaluation
// split learning needs: ForwardTo runs the front partition up to and
// including a cut layer, ForwardFrom runs the back partition after it,
// and BackwardFrom propagates a loss gradient through the back partition
// only, yielding the gradient at the cut boundary.
//
// Example:
//
//	model := nn.NewNetwork().
//	    Add("fc1", nn.NewLinear(16, 32, src)).
//	    Add("relu1", nn.NewReLU()).
//	    Add("fc2", nn.NewLinear(32, 4, src))
//	features, err := model.ForwardTo(x, "relu1")
type Network struct {
	names    []string
	layers   []Module
	index    map[string]int
	hooks    map[string]GradientHook
	training bool
}

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return &Network{
		index: make(map[string]int),
		hooks: make(map[string]GradientHook),
	}
}

// Add appends a named layer and returns the network for chaining.
//
// Panics on an empty or duplicate name; layer identity must be stable
// because cut layers are addressed by name from configuration.
func (n *Network) Add(name string, m Module) *Network {
	if name == "" {
		panic("nn: layer name must not be empty")
	}
	if _, exists := n.index[name]; exists {
		panic(fmt.Sprintf("nn: duplicate layer name %q", name))
	}
	n.index[name] = len(n.layers)
	n.names = append(n.names, name)
	n.layers = append(n.layers, m)
	m.SetTraining(n.training)
	return n
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// LayerNames returns the layer names in forward order.
func (n *Network) LayerNames() []string {
	out := make([]string, len(n.names))
	copy(out, n.names)
	return out
}

// HasLayer reports whether a layer with the given name exists.
func (n *Network) HasLayer(name string) bool {
	_, ok := n.index[name]
	return ok
}

func (n *Network) layerIndex(name string) (int, error) {
	i, ok := n.index[name]
	if !ok {
		return 0, fmt.Errorf("nn: network has no layer named %q", name)
	}
	return i, nil
}

// Forward runs the full network.
func (n *Network) Forward(input *tensor.Tensor) *tensor.Tensor {
	out := input
	for _, layer := range n.layers {
		out = layer.Forward(out)
	}
	return out
}

// ForwardTo runs the front partition: all layers up to and including the
// cut layer. The result is the feature tensor produced at the cut layer.
func (n *Network) ForwardTo(input *tensor.Tensor, cutLayer string) (*tensor.Tensor, error) {
	cut, err := n.layerIndex(cutLayer)
	if err != nil {
		return nil, err
	}
	out := input
	for _, layer := range n.layers[:cut+1] {
		out = layer.Forward(out)
	}
	return out, nil
}

// ForwardFrom runs the back partition: all layers strictly after the cut
// layer. The input is a feature tensor produced at the cut layer.
func (n *Network) ForwardFrom(input *tensor.Tensor, cutLayer string) (*tensor.Tensor, error) {
	cut, err := n.layerIndex(cutLayer)
	if err != nil {
		return nil, err
	}
	out := input
	for _, layer := range n.layers[cut+1:] {
		out = layer.Forward(out)
	}
	return out, nil
}

// Backward propagates grad through the whole network in reverse layer
// order and returns the gradient with respect to the network input.
//
// Before each layer's backward step the gradient-boundary hook for that
// layer, if registered, substitutes the gradient.
func (n *Network) Backward(grad *tensor.Tensor) *tensor.Tensor {
	return n.backwardRange(grad, 0, len(n.layers)-1)
}

// BackwardFrom propagates grad through the back partition only and
// returns the gradient at the cut boundary: the gradient with respect to
// the feature tensor the partition consumed.
func (n *Network) BackwardFrom(grad *tensor.Tensor, cutLayer string) (*tensor.Tensor, error) {
	cut, err := n.layerIndex(cutLayer)
	if err != nil {
		return nil, err
	}
	return n.backwardRange(grad, cut+1, len(n.layers)-1), nil
}

func (n *Network) backwardRange(grad *tensor.Tensor, lo, hi int) *tensor.Tensor {
	for i := hi; i >= lo; i-- {
		if hook, ok := n.hooks[n.names[i]]; ok {
			grad = hook(n.names[i], grad)
		}
		grad = n.layers[i].Backward(grad)
	}
	return grad
}

// RegisterGradientHook installs a hook on the named layer's gradient
// boundary, replacing any previous hook for that layer.
//
// An unknown layer name is a configuration error.
func (n *Network) RegisterGradientHook(layer string, hook GradientHook) error {
	if _, err := n.layerIndex(layer); err != nil {
		return err
	}
	n.hooks[layer] = hook
	return nil
}

// RemoveGradientHook removes the hook for the named layer, if any.
func (n *Network) RemoveGradientHook(layer string) {
	delete(n.hooks, layer)
}

// Parameters returns the parameters of all layers in forward order.
func (n *Network) Parameters() []*Parameter {
	var params []*Parameter
	for _, layer := range n.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// FrontParameters returns the parameters of the front partition (layers
// up to and including the cut layer).
func (n *Network) FrontParameters(cutLayer string) ([]*Parameter, error) {
	cut, err := n.layerIndex(cutLayer)
	if err != nil {
		return nil, err
	}
	var params []*Parameter
	for _, layer := range n.layers[:cut+1] {
		params = append(params, layer.Parameters()...)
	}
	return params, nil
}

// BackParameters returns the parameters of the back partition (layers
// strictly after the cut layer).
func (n *Network) BackParameters(cutLayer string) ([]*Parameter, error) {
	cut, err := n.layerIndex(cutLayer)
	if err != nil {
		return nil, err
	}
	var params []*Parameter
	for _, layer := range n.layers[cut+1:] {
		params = append(params, layer.Parameters()...)
	}
	return params, nil
}

// Train puts the network into training mode.
func (n *Network) Train() {
	n.SetTraining(true)
}

// Eval puts the network into evaluation mode; layers stop caching
// forward state, so no gradient tracking happens.
func (n *Network) Eval() {
	n.SetTraining(false)
}

// SetTraining toggles training mode on every layer. Network itself
// satisfies Module, so networks nest.
func (n *Network) SetTraining(training bool) {
	n.training = training
	for _, layer := range n.layers {
		layer.SetTraining(training)
	}
}
