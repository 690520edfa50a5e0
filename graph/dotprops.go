package graph

import (
	"gonum.org/v1/gonum/floats"

	"github.com/SridharJagannathan/navis/neuron"
)

// Dotprop is a point-plus-tangent representation of one skeleton edge:
// the midpoint between child and parent, the vector between them and its
// length.
type Dotprop struct {
	Point  [3]float64
	Vector [3]float64
	Length float64
}

// Dotprops converts a neuron into its dotprops point cloud, one entry per
// child->parent edge. Connectivity is discarded.
func Dotprops(n *neuron.TreeNeuron) []Dotprop {
	var dps []Dotprop
	for _, nd := range n.Nodes() {
		if nd.ParentID < 0 {
			continue
		}
		p, ok := n.Node(nd.ParentID)
		if !ok {
			continue
		}
		vec := []float64{p.X - nd.X, p.Y - nd.Y, p.Z - nd.Z}
		dps = append(dps, Dotprop{
			Point: [3]float64{
				nd.X + vec[0]/2,
				nd.Y + vec[1]/2,
				nd.Z + vec[2]/2,
			},
			Vector: [3]float64{vec[0], vec[1], vec[2]},
			Length: floats.Norm(vec, 2),
		})
	}
	return dps
}
