package navis

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/SridharJagannathan/navis/morpho"
)

// The wrappers below never mutate their input: they deep-copy the neuron,
// apply the morpho operation to the copy and return it. Call the morpho
// package directly to modify a neuron in place.

// Downsample returns a copy of n keeping every factor-th node per linear
// segment. Roots, branch points, leafs, connector-bearing nodes and nodes
// in opts.Preserve are always kept. factor=+Inf reduces to the skeleton of
// those fix points.
func Downsample(n *TreeNeuron, factor float64, opts morpho.DownsampleOptions) (*TreeNeuron, error) {
	return applied(n, func(c *TreeNeuron) error {
		return morpho.Downsample(c, factor, opts)
	})
}

// Resample returns a copy of n re-interpolated to the given inter-node
// spacing.
func Resample(n *TreeNeuron, spacing float64) (*TreeNeuron, error) {
	return applied(n, func(c *TreeNeuron) error {
		return morpho.Resample(c, spacing)
	})
}

// Reroot returns a copy of n rerooted at newRoot.
func Reroot(n *TreeNeuron, newRoot int64) (*TreeNeuron, error) {
	return applied(n, func(c *TreeNeuron) error {
		return morpho.Reroot(c, newRoot)
	})
}

// Cut splits n at the given node and returns the distal and proximal
// parts as new neurons. The cut node appears in both. n is not modified.
func Cut(n *TreeNeuron, at int64) (distal, proximal *TreeNeuron, err error) {
	return morpho.Cut(n, at)
}

// PruneDistalTo returns a copy of n without the subtree distal to the
// given node. The node itself survives.
func PruneDistalTo(n *TreeNeuron, at int64) (*TreeNeuron, error) {
	return applied(n, func(c *TreeNeuron) error {
		return morpho.PruneDistalTo(c, at)
	})
}

// PruneProximalTo returns a copy of n reduced to the subtree rooted at
// the given node.
func PruneProximalTo(n *TreeNeuron, at int64) (*TreeNeuron, error) {
	return applied(n, func(c *TreeNeuron) error {
		return morpho.PruneProximalTo(c, at)
	})
}

// PruneTwigs returns a copy of n with terminal segments shorter than size
// removed. rounds bounds the number of removal passes; negative prunes
// until stable.
func PruneTwigs(n *TreeNeuron, size float64, rounds int) (*TreeNeuron, error) {
	return applied(n, func(c *TreeNeuron) error {
		return morpho.PruneTwigs(c, size, rounds)
	})
}

// StrahlerIndex computes the Strahler stream order of every node.
func StrahlerIndex(n *TreeNeuron) map[int64]int {
	return morpho.StrahlerIndex(n)
}

// PruneByStrahler returns a copy of n without nodes of Strahler order
// below the threshold.
func PruneByStrahler(n *TreeNeuron, below int) (*TreeNeuron, error) {
	return applied(n, func(c *TreeNeuron) error {
		return morpho.PruneByStrahler(c, below)
	})
}

// LongestNeurite returns a copy of n reduced to its keep longest
// root-to-leaf paths.
func LongestNeurite(n *TreeNeuron, keep int, rerootToSoma bool) (*TreeNeuron, error) {
	return applied(n, func(c *TreeNeuron) error {
		return morpho.LongestNeurite(c, keep, rerootToSoma)
	})
}

// Subset returns a copy of n containing only the given node IDs. With
// preventFragments, ancestors are pulled in so the result stays connected.
func Subset(n *TreeNeuron, ids []int64, preventFragments bool) (*TreeNeuron, error) {
	keep := roaring64.New()
	for _, id := range ids {
		if id >= 0 {
			keep.Add(uint64(id))
		}
	}
	return applied(n, func(c *TreeNeuron) error {
		return morpho.Subset(c, keep, preventFragments)
	})
}

func applied(n *TreeNeuron, fn func(*TreeNeuron) error) (*TreeNeuron, error) {
	c := n.Clone()
	if err := fn(c); err != nil {
		return nil, err
	}
	return c, nil
}
