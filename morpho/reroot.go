package morpho

import (
	"github.com/SridharJagannathan/navis/neuron"
)

// Reroot makes newRoot the root of its tree by reversing the parent links
// on the path from newRoot to the current root. Other trees in a forest
// are unaffected.
func Reroot(n *neuron.TreeNeuron, newRoot int64) error {
	if _, ok := n.Node(newRoot); !ok {
		return &neuron.MissingNodeError{ID: newRoot}
	}

	// Collect the path newRoot -> old root, then flip each link.
	var path []int64
	cur := newRoot
	for {
		path = append(path, cur)
		nd, _ := n.Node(cur)
		if nd.ParentID < 0 {
			break
		}
		cur = nd.ParentID
	}
	if len(path) == 1 {
		return nil // already a root
	}

	nodes := n.Nodes()
	idx := make(map[int64]int, len(path))
	for i, nd := range nodes {
		idx[nd.ID] = i
	}
	for i, id := range path {
		if i == 0 {
			nodes[idx[id]].ParentID = -1
		} else {
			nodes[idx[id]].ParentID = path[i-1]
		}
	}
	n.Invalidate()
	return nil
}
