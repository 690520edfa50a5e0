package morpho

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/SridharJagannathan/navis/neuron"
)

// PruneTwigs removes terminal segments (leaf up to the next branch point)
// shorter than size. rounds limits how often pruning is repeated: pruning
// a twig can turn its branch point into a new leaf whose segment may again
// fall under the threshold. rounds < 0 prunes until stable.
func PruneTwigs(n *neuron.TreeNeuron, size float64, rounds int) error {
	if size <= 0 {
		return fmt.Errorf("twig size must be positive, got %v", size)
	}
	if rounds == 0 {
		rounds = 1
	}
	for r := 0; rounds < 0 || r < rounds; r++ {
		pruned, err := pruneTwigsOnce(n, size)
		if err != nil {
			return err
		}
		if !pruned {
			return nil
		}
	}
	return nil
}

func pruneTwigsOnce(n *neuron.TreeNeuron, size float64) (bool, error) {
	drop := roaring64.New()
	for _, seg := range n.Segments() {
		if n.Type(seg[0]) != neuron.TypeEnd {
			continue
		}
		var length float64
		for i := 1; i < len(seg); i++ {
			a, _ := n.Node(seg[i-1])
			b, _ := n.Node(seg[i])
			length += a.Dist(b)
		}
		if length >= size {
			continue
		}
		// drop everything except the proximal fix point
		for _, id := range seg[:len(seg)-1] {
			drop.Add(uint64(id))
		}
	}
	if drop.IsEmpty() {
		return false, nil
	}
	keep := roaring64.New()
	for _, nd := range n.Nodes() {
		if !drop.Contains(uint64(nd.ID)) {
			keep.Add(uint64(nd.ID))
		}
	}
	if keep.IsEmpty() {
		return false, fmt.Errorf("twig pruning would remove all nodes")
	}
	return true, Subset(n, keep, false)
}

// LongestNeurite reduces the neuron to its n longest root-to-leaf paths.
// With rerootToSoma, the neuron is rerooted to its soma first so neurite
// length is measured from the cell body.
func LongestNeurite(n *neuron.TreeNeuron, keep int, rerootToSoma bool) error {
	if keep < 1 {
		return fmt.Errorf("number of neurites to keep must be >= 1, got %d", keep)
	}
	if rerootToSoma {
		if soma, ok := n.Soma(); ok {
			if err := Reroot(n, soma); err != nil {
				return err
			}
		}
	}

	dist := distToRoot(n)
	type path struct {
		leaf int64
		len  float64
	}
	var paths []path
	for _, leaf := range n.Leafs() {
		paths = append(paths, path{leaf: leaf, len: dist[leaf]})
	}
	if len(paths) == 0 {
		return nil
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i].len > paths[j].len })
	if keep > len(paths) {
		keep = len(paths)
	}

	set := roaring64.New()
	for _, p := range paths[:keep] {
		cur := p.leaf
		for {
			set.Add(uint64(cur))
			nd, _ := n.Node(cur)
			if nd.ParentID < 0 {
				break
			}
			cur = nd.ParentID
		}
	}
	return Subset(n, set, false)
}

// distToRoot returns each node's geodesic (along-the-cable) distance to
// its root.
func distToRoot(n *neuron.TreeNeuron) map[int64]float64 {
	dist := make(map[int64]float64, n.Len())
	var walk func(id int64, d float64)
	walk = func(id int64, d float64) {
		dist[id] = d
		nd, _ := n.Node(id)
		for _, c := range n.Children(id) {
			cn, _ := n.Node(c)
			walk(c, d+cn.Dist(nd))
		}
	}
	for _, root := range n.Roots() {
		walk(root, 0)
	}
	return dist
}

// Subset reduces the neuron to the nodes in keep. Kept nodes whose parent
// is dropped become roots. With preventFragments, ancestors are added back
// until every kept node connects to its tree's root, so no new fragments
// appear.
func Subset(n *neuron.TreeNeuron, keep *roaring64.Bitmap, preventFragments bool) error {
	if keep == nil || keep.IsEmpty() {
		return fmt.Errorf("subset requires a non-empty keep set")
	}
	if preventFragments {
		keep = keep.Clone()
		it := keep.Iterator()
		var pending []int64
		for it.HasNext() {
			pending = append(pending, int64(it.Next()))
		}
		for _, id := range pending {
			cur := id
			for {
				nd, ok := n.Node(cur)
				if !ok || nd.ParentID < 0 {
					break
				}
				if keep.Contains(uint64(nd.ParentID)) {
					break
				}
				keep.Add(uint64(nd.ParentID))
				cur = nd.ParentID
			}
		}
	}

	var kept []neuron.Node
	for _, nd := range n.Nodes() {
		if !keep.Contains(uint64(nd.ID)) {
			continue
		}
		if nd.ParentID >= 0 && !keep.Contains(uint64(nd.ParentID)) {
			nd.ParentID = -1
		}
		kept = append(kept, nd)
	}
	if err := n.SetNodes(kept); err != nil {
		return err
	}

	var cns []neuron.Connector
	for _, cn := range n.Connectors() {
		if keep.Contains(uint64(cn.NodeID)) {
			cns = append(cns, cn)
		}
	}
	return n.SetConnectors(cns)
}
