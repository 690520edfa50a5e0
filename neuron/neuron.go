package neuron

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Node is a single row of a skeleton's node table. Coordinates are in the
// neuron's unit space. ParentID < 0 marks a root.
type Node struct {
	ID       int64
	Label    int
	X, Y, Z  float64
	Radius   float64
	ParentID int64
}

// Dist returns the Euclidean distance to another node.
func (n Node) Dist(o Node) float64 {
	dx, dy, dz := n.X-o.X, n.Y-o.Y, n.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// NodeType classifies a node by its position in the tree.
type NodeType string

const (
	// TypeRoot is a node without a parent.
	TypeRoot NodeType = "root"
	// TypeSlab is a node with exactly one child.
	TypeSlab NodeType = "slab"
	// TypeBranch is a node with more than one child.
	TypeBranch NodeType = "branch"
	// TypeEnd is a leaf node.
	TypeEnd NodeType = "end"
)

// TreeNeuron represents a single neuron's morphology as a rooted tree (or a
// forest of rooted trees) of skeleton nodes.
//
// The node table is validated on construction and on every replacement:
// node IDs must be unique, every non-root parent reference must resolve to
// a node in the same table, and parent links must be acyclic. Derived state
// (children adjacency, node classification, segments) is computed lazily
// and invalidated whenever the table changes.
type TreeNeuron struct {
	// Name is a human-readable identifier, e.g. derived from the filename.
	Name string
	// Units describes the coordinate space, e.g. "nm" or "um". Informational.
	Units string
	// Header holds the verbatim '#' header of the SWC file this neuron was
	// read from, if any.
	Header string
	// Origin records where the neuron came from (path, URL, "string", ...).
	Origin string

	// SomaLabel is the SWC label treated as soma during detection.
	SomaLabel int
	// SomaRadius is the minimum radius for radius-based soma detection.
	// Zero disables the radius heuristic.
	SomaRadius float64

	id         string
	nodes      []Node
	connectors []Connector

	soma    int64
	somaSet bool

	// lazily derived
	index    map[int64]int
	children map[int64][]int64
	types    map[int64]NodeType
	segments [][]int64
}

// New creates a TreeNeuron from a node table. The table is validated; a
// fresh UUID is assigned as identity.
func New(nodes []Node) (*TreeNeuron, error) {
	n := &TreeNeuron{
		id:         uuid.New().String(),
		SomaLabel:  1,
		SomaRadius: 1,
	}
	if err := n.SetNodes(nodes); err != nil {
		return nil, err
	}
	return n, nil
}

// ID returns the neuron's identity. Stable across clones.
func (t *TreeNeuron) ID() string { return t.id }

// SetID overrides the neuron's identity.
func (t *TreeNeuron) SetID(id string) { t.id = id }

// Nodes returns the underlying node table. Callers must treat the slice as
// read-only; use SetNodes to replace it.
func (t *TreeNeuron) Nodes() []Node { return t.nodes }

// Len returns the number of nodes.
func (t *TreeNeuron) Len() int { return len(t.nodes) }

// Node looks up a node by ID.
func (t *TreeNeuron) Node(id int64) (Node, bool) {
	i, ok := t.indexOf(id)
	if !ok {
		return Node{}, false
	}
	return t.nodes[i], true
}

// SetNodes validates and replaces the node table, invalidating all derived
// state.
func (t *TreeNeuron) SetNodes(nodes []Node) error {
	if err := Validate(nodes); err != nil {
		return err
	}
	t.nodes = nodes
	t.Invalidate()
	return nil
}

// Invalidate drops all lazily derived state. Must be called after mutating
// the node table through Nodes directly.
func (t *TreeNeuron) Invalidate() {
	t.index = nil
	t.children = nil
	t.types = nil
	t.segments = nil
	if t.somaSet {
		if _, ok := t.indexOf(t.soma); !ok {
			t.somaSet = false
			t.soma = 0
		}
	}
}

// Validate checks the tree invariants of a node table: unique IDs, parent
// references resolving within the table and acyclic parent links.
func Validate(nodes []Node) error {
	index := make(map[int64]int, len(nodes))
	for i, nd := range nodes {
		if _, dup := index[nd.ID]; dup {
			return &DuplicateNodeError{ID: nd.ID}
		}
		index[nd.ID] = i
	}
	for _, nd := range nodes {
		if nd.ParentID < 0 {
			continue
		}
		if _, ok := index[nd.ParentID]; !ok {
			return &MissingParentError{ID: nd.ID, ParentID: nd.ParentID}
		}
		if nd.ParentID == nd.ID {
			return &CycleError{ID: nd.ID}
		}
	}
	// Walk parent chains once, marking nodes on resolved paths.
	const (
		unseen = 0
		active = 1
		done   = 2
	)
	state := make([]uint8, len(nodes))
	for i := range nodes {
		if state[i] == done {
			continue
		}
		var path []int
		j := i
		for {
			if state[j] == done {
				break
			}
			if state[j] == active {
				return &CycleError{ID: nodes[j].ID}
			}
			state[j] = active
			path = append(path, j)
			if nodes[j].ParentID < 0 {
				break
			}
			j = index[nodes[j].ParentID]
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}

func (t *TreeNeuron) indexOf(id int64) (int, bool) {
	if t.index == nil {
		t.index = make(map[int64]int, len(t.nodes))
		for i, nd := range t.nodes {
			t.index[nd.ID] = i
		}
	}
	i, ok := t.index[id]
	return i, ok
}

// Children returns the IDs of a node's children, in table order.
func (t *TreeNeuron) Children(id int64) []int64 {
	if t.children == nil {
		t.children = make(map[int64][]int64, len(t.nodes))
		for _, nd := range t.nodes {
			if nd.ParentID >= 0 {
				t.children[nd.ParentID] = append(t.children[nd.ParentID], nd.ID)
			}
		}
	}
	return t.children[id]
}

// Type classifies a node as root, slab, branch or end.
func (t *TreeNeuron) Type(id int64) NodeType {
	if t.types == nil {
		t.types = make(map[int64]NodeType, len(t.nodes))
		for _, nd := range t.nodes {
			switch {
			case nd.ParentID < 0:
				t.types[nd.ID] = TypeRoot
			case len(t.Children(nd.ID)) == 0:
				t.types[nd.ID] = TypeEnd
			case len(t.Children(nd.ID)) > 1:
				t.types[nd.ID] = TypeBranch
			default:
				t.types[nd.ID] = TypeSlab
			}
		}
	}
	return t.types[id]
}

// Roots returns the IDs of all root nodes.
func (t *TreeNeuron) Roots() []int64 {
	var roots []int64
	for _, nd := range t.nodes {
		if nd.ParentID < 0 {
			roots = append(roots, nd.ID)
		}
	}
	return roots
}

// Leafs returns the IDs of all end nodes.
func (t *TreeNeuron) Leafs() []int64 {
	var leafs []int64
	for _, nd := range t.nodes {
		if t.Type(nd.ID) == TypeEnd {
			leafs = append(leafs, nd.ID)
		}
	}
	return leafs
}

// BranchPoints returns the IDs of all branch nodes.
func (t *TreeNeuron) BranchPoints() []int64 {
	var bp []int64
	for _, nd := range t.nodes {
		if t.Type(nd.ID) == TypeBranch {
			bp = append(bp, nd.ID)
		}
	}
	return bp
}

// NBranches returns the number of branch points.
func (t *TreeNeuron) NBranches() int { return len(t.BranchPoints()) }

// NLeafs returns the number of end nodes.
func (t *TreeNeuron) NLeafs() int { return len(t.Leafs()) }

// Segments returns the neuron's linear segments: paths that run from a leaf
// or branch point up to (and including) the next branch point or root.
// Segments are ordered by cable length, longest first. Branch points appear
// in every segment they terminate.
func (t *TreeNeuron) Segments() [][]int64 {
	if t.segments != nil {
		return t.segments
	}
	var segs [][]int64
	for _, nd := range t.nodes {
		typ := t.Type(nd.ID)
		if typ != TypeEnd && typ != TypeBranch {
			continue
		}
		seg := []int64{nd.ID}
		cur := nd
		for cur.ParentID >= 0 {
			i, ok := t.indexOf(cur.ParentID)
			if !ok {
				break
			}
			cur = t.nodes[i]
			seg = append(seg, cur.ID)
			if typ := t.Type(cur.ID); typ == TypeBranch || typ == TypeRoot {
				break
			}
		}
		if len(seg) > 1 {
			segs = append(segs, seg)
		}
	}
	sort.SliceStable(segs, func(i, j int) bool {
		return t.pathLength(segs[i]) > t.pathLength(segs[j])
	})
	t.segments = segs
	return segs
}

func (t *TreeNeuron) pathLength(path []int64) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		a, _ := t.Node(path[i-1])
		b, _ := t.Node(path[i])
		total += a.Dist(b)
	}
	return total
}

// CableLength returns the summed length of all child->parent edges.
func (t *TreeNeuron) CableLength() float64 {
	var total float64
	for _, nd := range t.nodes {
		if nd.ParentID < 0 {
			continue
		}
		if p, ok := t.Node(nd.ParentID); ok {
			total += nd.Dist(p)
		}
	}
	return total
}

// SamplingResolution returns the average cable length between two nodes.
func (t *TreeNeuron) SamplingResolution() float64 {
	if len(t.nodes) == 0 {
		return 0
	}
	return t.CableLength() / float64(len(t.nodes))
}

// Volume returns the radius-based volume, modelling every child->parent
// edge as a cylinder with the child's radius.
func (t *TreeNeuron) Volume() float64 {
	var total float64
	for _, nd := range t.nodes {
		if nd.ParentID < 0 {
			continue
		}
		if p, ok := t.Node(nd.ParentID); ok {
			total += nd.Radius * nd.Radius * math.Pi * nd.Dist(p)
		}
	}
	return total
}

// BBox returns the axis-aligned bounding box of the node coordinates.
func (t *TreeNeuron) BBox() (min, max [3]float64) {
	if len(t.nodes) == 0 {
		return
	}
	min = [3]float64{t.nodes[0].X, t.nodes[0].Y, t.nodes[0].Z}
	max = min
	for _, nd := range t.nodes[1:] {
		for i, v := range [3]float64{nd.X, nd.Y, nd.Z} {
			if v < min[i] {
				min[i] = v
			}
			if v > max[i] {
				max[i] = v
			}
		}
	}
	return min, max
}

// Subtrees returns the node IDs of each connected tree, one slice per root.
func (t *TreeNeuron) Subtrees() [][]int64 {
	var trees [][]int64
	for _, root := range t.Roots() {
		tree := []int64{root}
		for i := 0; i < len(tree); i++ {
			tree = append(tree, t.Children(tree[i])...)
		}
		trees = append(trees, tree)
	}
	return trees
}

// DistalTo returns the IDs of all nodes distal to (downstream of) the given
// node, including the node itself.
func (t *TreeNeuron) DistalTo(id int64) ([]int64, error) {
	if _, ok := t.indexOf(id); !ok {
		return nil, &MissingNodeError{ID: id}
	}
	distal := []int64{id}
	for i := 0; i < len(distal); i++ {
		distal = append(distal, t.Children(distal[i])...)
	}
	return distal, nil
}

// Soma returns the detected or assigned soma node ID. Detection first looks
// for nodes carrying the soma label, then falls back to the radius
// heuristic. Returns false if no soma can be identified.
func (t *TreeNeuron) Soma() (int64, bool) {
	if t.somaSet {
		if _, ok := t.indexOf(t.soma); ok {
			return t.soma, true
		}
		return 0, false
	}
	for _, nd := range t.nodes {
		if nd.Label == t.SomaLabel && t.SomaLabel != 0 {
			return nd.ID, true
		}
	}
	if t.SomaRadius > 0 {
		best, bestR := int64(0), 0.0
		found := false
		for _, nd := range t.nodes {
			if nd.Radius >= t.SomaRadius && nd.Radius > bestR {
				best, bestR = nd.ID, nd.Radius
				found = true
			}
		}
		if found {
			return best, true
		}
	}
	return 0, false
}

// SetSoma pins the soma to a fixed node ID, bypassing detection.
func (t *TreeNeuron) SetSoma(id int64) error {
	if _, ok := t.indexOf(id); !ok {
		return &MissingNodeError{ID: id}
	}
	t.soma = id
	t.somaSet = true
	return nil
}

// ClearSoma reverts to heuristic soma detection.
func (t *TreeNeuron) ClearSoma() {
	t.soma = 0
	t.somaSet = false
}

// Scale multiplies all coordinates and radii (including connector
// positions) by the given factor.
func (t *TreeNeuron) Scale(factor float64) {
	for i := range t.nodes {
		t.nodes[i].X *= factor
		t.nodes[i].Y *= factor
		t.nodes[i].Z *= factor
		t.nodes[i].Radius *= factor
	}
	for i := range t.connectors {
		t.connectors[i].X *= factor
		t.connectors[i].Y *= factor
		t.connectors[i].Z *= factor
	}
	t.Invalidate()
}

// Clone returns a deep copy. The copy shares the original's identity.
func (t *TreeNeuron) Clone() *TreeNeuron {
	c := &TreeNeuron{
		Name:       t.Name,
		Units:      t.Units,
		Header:     t.Header,
		Origin:     t.Origin,
		SomaLabel:  t.SomaLabel,
		SomaRadius: t.SomaRadius,
		id:         t.id,
		soma:       t.soma,
		somaSet:    t.somaSet,
	}
	c.nodes = make([]Node, len(t.nodes))
	copy(c.nodes, t.nodes)
	if t.connectors != nil {
		c.connectors = make([]Connector, len(t.connectors))
		copy(c.connectors, t.connectors)
	}
	return c
}

// Equal reports whether two neurons agree on their summary attributes
// (name, node count, root set, cable length).
func (t *TreeNeuron) Equal(o *TreeNeuron) bool {
	if o == nil {
		return false
	}
	if t.Name != o.Name || len(t.nodes) != len(o.nodes) {
		return false
	}
	ra, rb := t.Roots(), o.Roots()
	if len(ra) != len(rb) {
		return false
	}
	sort.Slice(ra, func(i, j int) bool { return ra[i] < ra[j] })
	sort.Slice(rb, func(i, j int) bool { return rb[i] < rb[j] })
	for i := range ra {
		if ra[i] != rb[i] {
			return false
		}
	}
	return math.Abs(t.CableLength()-o.CableLength()) < 1e-9
}

// Summary is a flat overview of a neuron's key properties.
type Summary struct {
	ID          string
	Name        string
	Units       string
	NNodes      int
	NConnectors int
	NBranches   int
	NLeafs      int
	CableLength float64
	Soma        int64
	HasSoma     bool
}

// Summary collects the neuron's key properties.
func (t *TreeNeuron) Summary() Summary {
	s := Summary{
		ID:          t.id,
		Name:        t.Name,
		Units:       t.Units,
		NNodes:      len(t.nodes),
		NConnectors: len(t.connectors),
		NBranches:   t.NBranches(),
		NLeafs:      t.NLeafs(),
		CableLength: t.CableLength(),
	}
	s.Soma, s.HasSoma = t.Soma()
	return s
}

func (t *TreeNeuron) String() string {
	s := t.Summary()
	return fmt.Sprintf("TreeNeuron(name=%q, nodes=%d, branches=%d, leafs=%d, cable=%.2f)",
		s.Name, s.NNodes, s.NBranches, s.NLeafs, s.CableLength)
}
