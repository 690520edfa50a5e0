package morpho

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/SridharJagannathan/navis/neuron"
)

// DownsampleOptions control Downsample behavior.
type DownsampleOptions struct {
	// Preserve holds node IDs that survive downsampling regardless of
	// their position.
	Preserve *roaring64.Bitmap
}

// Downsample reduces the node count by keeping only every factor-th slab
// node. Roots, branch points, end nodes and nodes carrying connectors are
// always retained, so overall topology and the connector table are
// unchanged. A factor of +Inf collapses the neuron to its
// root/branch/end/connector skeleton.
func Downsample(n *neuron.TreeNeuron, factor float64, opts DownsampleOptions) error {
	if factor <= 1 {
		return fmt.Errorf("downsample factor must be > 1, got %v", factor)
	}

	keep := roaring64.New()
	if opts.Preserve != nil {
		keep.Or(opts.Preserve)
	}
	for _, cn := range n.Connectors() {
		keep.Add(uint64(cn.NodeID))
	}
	for _, nd := range n.Nodes() {
		switch n.Type(nd.ID) {
		case neuron.TypeRoot, neuron.TypeBranch, neuron.TypeEnd:
			keep.Add(uint64(nd.ID))
		}
	}

	// Within each segment keep every step-th node, counting from the
	// distal end. Segment endpoints are fix points and already kept.
	if !math.IsInf(factor, 1) {
		step := int(factor)
		for _, seg := range n.Segments() {
			for i := step; i < len(seg)-1; i += step {
				keep.Add(uint64(seg[i]))
			}
		}
	}

	return applyKeep(n, keep)
}

// applyKeep rebuilds the node table from the kept set, reparenting each
// kept node to its nearest kept ancestor.
func applyKeep(n *neuron.TreeNeuron, keep *roaring64.Bitmap) error {
	old := n.Nodes()
	kept := make([]neuron.Node, 0, keep.GetCardinality())
	for _, nd := range old {
		if !keep.Contains(uint64(nd.ID)) {
			continue
		}
		parent := nd.ParentID
		for parent >= 0 && !keep.Contains(uint64(parent)) {
			p, ok := n.Node(parent)
			if !ok {
				parent = -1
				break
			}
			parent = p.ParentID
		}
		nd.ParentID = parent
		kept = append(kept, nd)
	}
	return n.SetNodes(kept)
}
