package navis

import (
	"github.com/SridharJagannathan/navis/neuron"
)

// Re-exported container types. The neuron package holds the actual
// implementations; these aliases let most callers import only the root
// package.
type (
	// Node is a single skeleton node of an SWC-style table.
	Node = neuron.Node

	// Connector is a synapse or other annotation anchored to a node.
	Connector = neuron.Connector

	// TreeNeuron is a rooted-tree skeleton neuron.
	TreeNeuron = neuron.TreeNeuron

	// NeuronList is an ordered collection of neurons with vectorized
	// accessors.
	NeuronList = neuron.List

	// Summary is a one-row overview of a neuron.
	Summary = neuron.Summary
)

// New creates a TreeNeuron from a node table. The table is validated.
func New(nodes []Node) (*TreeNeuron, error) {
	return neuron.New(nodes)
}

// NewList creates a NeuronList from the given neurons.
func NewList(neurons ...*TreeNeuron) *NeuronList {
	return neuron.NewList(neurons...)
}
