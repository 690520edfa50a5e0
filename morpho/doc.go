// Package morpho implements morphology operations on TreeNeurons:
// downsampling, resampling, rerooting, cutting, pruning and node subsetting.
//
// All functions in this package mutate the given neuron in place. The navis
// facade exposes copy-on-demand wrappers following the inplace convention.
package morpho
