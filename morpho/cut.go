package morpho

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/SridharJagannathan/navis/neuron"
)

// Cut splits the neuron at the given node into a distal and a proximal
// part. The cut node appears in both: as the root of the distal neuron and
// as an end node of the proximal one. The input neuron is not modified.
func Cut(n *neuron.TreeNeuron, at int64) (distal, proximal *neuron.TreeNeuron, err error) {
	distalIDs, err := n.DistalTo(at)
	if err != nil {
		return nil, nil, err
	}
	inDistal := roaring64.New()
	for _, id := range distalIDs {
		inDistal.Add(uint64(id))
	}

	var distNodes, proxNodes []neuron.Node
	for _, nd := range n.Nodes() {
		if inDistal.Contains(uint64(nd.ID)) {
			if nd.ID == at {
				nd.ParentID = -1
				// keep the cut point in the proximal part too
				orig, _ := n.Node(at)
				proxNodes = append(proxNodes, orig)
			}
			distNodes = append(distNodes, nd)
		} else {
			proxNodes = append(proxNodes, nd)
		}
	}

	distal, err = clone(n, distNodes)
	if err != nil {
		return nil, nil, err
	}
	proximal, err = clone(n, proxNodes)
	if err != nil {
		return nil, nil, err
	}
	return distal, proximal, nil
}

// PruneDistalTo removes all nodes downstream of the given node, keeping
// the node itself as a new end point.
func PruneDistalTo(n *neuron.TreeNeuron, at int64) error {
	_, proximal, err := Cut(n, at)
	if err != nil {
		return err
	}
	if err := n.SetNodes(proximal.Nodes()); err != nil {
		return err
	}
	return n.SetConnectors(proximal.Connectors())
}

// PruneProximalTo removes everything upstream of the given node; the node
// becomes the root of the remaining neuron.
func PruneProximalTo(n *neuron.TreeNeuron, at int64) error {
	distal, _, err := Cut(n, at)
	if err != nil {
		return err
	}
	if err := n.SetNodes(distal.Nodes()); err != nil {
		return err
	}
	return n.SetConnectors(distal.Connectors())
}

// clone copies a neuron's metadata onto a fresh node table, retaining only
// connectors that still resolve.
func clone(n *neuron.TreeNeuron, nodes []neuron.Node) (*neuron.TreeNeuron, error) {
	c := n.Clone()
	if err := c.SetNodes(nodes); err != nil {
		return nil, err
	}
	ids := roaring64.New()
	for _, nd := range nodes {
		ids.Add(uint64(nd.ID))
	}
	var cns []neuron.Connector
	for _, cn := range n.Connectors() {
		if ids.Contains(uint64(cn.NodeID)) {
			cns = append(cns, cn)
		}
	}
	if err := c.SetConnectors(cns); err != nil {
		return nil, err
	}
	return c, nil
}
