package morpho

import (
	"github.com/SridharJagannathan/navis/neuron"
)

// ParentDist returns each node's distance to its parent. Roots get
// rootDist.
func ParentDist(n *neuron.TreeNeuron, rootDist float64) map[int64]float64 {
	dist := make(map[int64]float64, n.Len())
	for _, nd := range n.Nodes() {
		if nd.ParentID < 0 {
			dist[nd.ID] = rootDist
			continue
		}
		p, ok := n.Node(nd.ParentID)
		if !ok {
			dist[nd.ID] = rootDist
			continue
		}
		dist[nd.ID] = nd.Dist(p)
	}
	return dist
}

// DistToRoot returns each node's geodesic distance to the root of its tree.
func DistToRoot(n *neuron.TreeNeuron) map[int64]float64 {
	return distToRoot(n)
}
