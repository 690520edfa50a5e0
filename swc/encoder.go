package swc

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/SridharJagannathan/navis/neuron"
)

// Encoder writes a single neuron as SWC.
type Encoder struct {
	// Header overrides the generated file header. Must consist of '#'
	// prefixed lines if set.
	Header string
	// Labels controls the label column. If nil, labels are generated:
	// soma=1, branch=5, end=6, and (with ExportSynapses) pre=7, post=8.
	// If non-nil, it maps original node IDs to labels; unmapped nodes get 0.
	Labels map[int64]int
	// KeepLabels emits each node's own label column unchanged instead of
	// generating one.
	KeepLabels bool
	// ExportSynapses marks nodes carrying connectors with labels 7/8.
	ExportSynapses bool

	w *bufio.Writer
}

// NewEncoder creates an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Encode writes the neuron. Nodes are emitted in depth-first preorder from
// the roots so every parent precedes its children, and IDs are reindexed
// starting at 1.
func (e *Encoder) Encode(n *neuron.TreeNeuron) error {
	order := preorder(n)

	// original id -> exported index
	reindex := make(map[int64]int64, len(order))
	for i, id := range order {
		reindex[id] = int64(i + 1)
	}

	header := e.Header
	if header == "" {
		header = generatedHeader(e.ExportSynapses)
	}
	if _, err := e.w.WriteString(header); err != nil {
		return fmt.Errorf("swc: write header: %w", err)
	}

	labels := e.labelsFor(n)
	for _, id := range order {
		nd, _ := n.Node(id)
		parent := int64(-1)
		if nd.ParentID >= 0 {
			parent = reindex[nd.ParentID]
		}
		_, err := fmt.Fprintf(e.w, "%d %d %g %g %g %g %d\n",
			reindex[id], labels[id], nd.X, nd.Y, nd.Z, nd.Radius, parent)
		if err != nil {
			return fmt.Errorf("swc: write node %d: %w", id, err)
		}
	}
	return e.w.Flush()
}

func (e *Encoder) labelsFor(n *neuron.TreeNeuron) map[int64]int {
	labels := make(map[int64]int, n.Len())
	switch {
	case e.KeepLabels:
		for _, nd := range n.Nodes() {
			labels[nd.ID] = nd.Label
		}
	case e.Labels != nil:
		for _, nd := range n.Nodes() {
			labels[nd.ID] = e.Labels[nd.ID]
		}
	default:
		for _, nd := range n.Nodes() {
			switch n.Type(nd.ID) {
			case neuron.TypeBranch:
				labels[nd.ID] = LabelBranch
			case neuron.TypeEnd:
				labels[nd.ID] = LabelEnd
			default:
				labels[nd.ID] = LabelUndefined
			}
		}
		if soma, ok := n.Soma(); ok {
			labels[soma] = LabelSoma
		}
		if e.ExportSynapses {
			for _, cn := range n.Presynapses() {
				labels[cn.NodeID] = LabelPre
			}
			for _, cn := range n.Postsynapses() {
				labels[cn.NodeID] = LabelPost
			}
		}
	}
	return labels
}

// preorder returns all node IDs in depth-first preorder, one tree after
// the other.
func preorder(n *neuron.TreeNeuron) []int64 {
	order := make([]int64, 0, n.Len())
	var stack []int64
	for _, root := range n.Roots() {
		stack = append(stack[:0], root)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			order = append(order, id)
			children := n.Children(id)
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
	return order
}

func generatedHeader(synapses bool) string {
	h := fmt.Sprintf(`# SWC format file
# Created on %s using navis (https://github.com/SridharJagannathan/navis)
# PointNo Label X Y Z Radius Parent
# Labels: 0 = undefined, 1 = soma, 5 = fork point, 6 = end point
`, time.Now().Format("2006-01-02"))
	if synapses {
		h += "# 7 = presynapse, 8 = postsynapse\n"
	}
	return h
}
