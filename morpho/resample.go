package morpho

import (
	"fmt"

	"github.com/SridharJagannathan/navis/neuron"
)

// Resample re-interpolates every segment to an (approximately) even
// inter-node distance. Segment endpoints (roots, branch points, leafs)
// keep their identity and position; slab nodes are replaced by freshly
// generated nodes spaced `spacing` apart, with radius interpolated
// linearly between the surrounding originals.
func Resample(n *neuron.TreeNeuron, spacing float64) error {
	if spacing <= 0 {
		return fmt.Errorf("resample spacing must be positive, got %v", spacing)
	}

	nextID := int64(0)
	for _, nd := range n.Nodes() {
		if nd.ID >= nextID {
			nextID = nd.ID + 1
		}
	}

	// Fix points survive with their original rows.
	var out []neuron.Node
	added := make(map[int64]bool)
	for _, nd := range n.Nodes() {
		switch n.Type(nd.ID) {
		case neuron.TypeRoot, neuron.TypeBranch, neuron.TypeEnd:
			if !added[nd.ID] {
				out = append(out, nd)
				added[nd.ID] = true
			}
		}
	}
	fix := make(map[int64]int, len(out))
	for i, nd := range out {
		fix[nd.ID] = i
	}

	for _, seg := range n.Segments() {
		// Segments run distal -> proximal; walk them proximal -> distal.
		path := make([]neuron.Node, 0, len(seg))
		for i := len(seg) - 1; i >= 0; i-- {
			nd, ok := n.Node(seg[i])
			if !ok {
				return &neuron.MissingNodeError{ID: seg[i]}
			}
			path = append(path, nd)
		}

		// Cumulative distance along the segment.
		cum := make([]float64, len(path))
		for i := 1; i < len(path); i++ {
			cum[i] = cum[i-1] + path[i].Dist(path[i-1])
		}
		total := cum[len(cum)-1]

		parent := path[0].ID
		j := 1
		for d := spacing; d < total; d += spacing {
			for j < len(cum)-1 && cum[j] < d {
				j++
			}
			a, b := path[j-1], path[j]
			span := cum[j] - cum[j-1]
			t := 0.0
			if span > 0 {
				t = (d - cum[j-1]) / span
			}
			nd := neuron.Node{
				ID:       nextID,
				Label:    a.Label,
				X:        a.X + (b.X-a.X)*t,
				Y:        a.Y + (b.Y-a.Y)*t,
				Z:        a.Z + (b.Z-a.Z)*t,
				Radius:   a.Radius + (b.Radius-a.Radius)*t,
				ParentID: parent,
			}
			nextID++
			out = append(out, nd)
			parent = nd.ID
		}

		// Reconnect the distal fix point to the last interpolated node.
		tip := path[len(path)-1].ID
		out[fix[tip]].ParentID = parent
	}

	cns := remapConnectors(n, out)
	if err := n.SetNodes(out); err != nil {
		return err
	}
	return n.SetConnectors(cns)
}

// remapConnectors re-anchors connectors whose node was interpolated away
// to the new node nearest the old anchor's position.
func remapConnectors(n *neuron.TreeNeuron, nodes []neuron.Node) []neuron.Connector {
	cns := n.Connectors()
	if len(cns) == 0 {
		return cns
	}
	survives := make(map[int64]bool, len(nodes))
	for _, nd := range nodes {
		survives[nd.ID] = true
	}
	out := make([]neuron.Connector, len(cns))
	for i, cn := range cns {
		if !survives[cn.NodeID] {
			if anchor, ok := n.Node(cn.NodeID); ok {
				best, bestDist := nodes[0].ID, anchor.Dist(nodes[0])
				for _, nd := range nodes[1:] {
					if d := anchor.Dist(nd); d < bestDist {
						best, bestDist = nd.ID, d
					}
				}
				cn.NodeID = best
			}
		}
		out[i] = cn
	}
	return out
}
