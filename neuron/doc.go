// Package neuron defines the core morphology containers: TreeNeuron, a
// rooted-tree skeleton backed by an SWC-style node table, and List, an
// ordered collection of neurons with vectorized attribute access.
//
// TreeNeuron enforces tree invariants (unique node IDs, resolvable parent
// references, acyclic parent chains) on every table replacement and derives
// structural properties (segments, branch points, cable length) lazily.
package neuron
