package morpho

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/SridharJagannathan/navis/neuron"
)

// StrahlerIndex computes the Strahler stream order for every node. Leafs
// have index 1; a branch point's index is the maximum of its children's
// indices, incremented when that maximum is shared by two or more children.
// Slab nodes inherit from their (single) child.
func StrahlerIndex(n *neuron.TreeNeuron) map[int64]int {
	si := make(map[int64]int, n.Len())
	for _, order := range postorder(n) {
		children := n.Children(order)
		if len(children) == 0 {
			si[order] = 1
			continue
		}
		max, ties := 0, 0
		for _, c := range children {
			switch {
			case si[c] > max:
				max, ties = si[c], 1
			case si[c] == max:
				ties++
			}
		}
		if ties > 1 {
			max++
		}
		si[order] = max
	}
	return si
}

// postorder returns node IDs with every child before its parent.
func postorder(n *neuron.TreeNeuron) []int64 {
	order := make([]int64, 0, n.Len())
	var stack []int64
	for _, root := range n.Roots() {
		stack = append(stack[:0], root)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			order = append(order, id)
			stack = append(stack, n.Children(id)...)
		}
	}
	// reversing a preorder yields children before parents
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// PruneByStrahler removes all nodes whose Strahler index is below the
// given threshold. A threshold of 2 removes all terminal branches.
func PruneByStrahler(n *neuron.TreeNeuron, below int) error {
	if below < 2 {
		return fmt.Errorf("strahler threshold must be >= 2, got %d", below)
	}
	si := StrahlerIndex(n)
	keep := roaring64.New()
	for id, s := range si {
		if s >= below {
			keep.Add(uint64(id))
		}
	}
	if keep.IsEmpty() {
		return fmt.Errorf("strahler threshold %d would prune all nodes", below)
	}
	return Subset(n, keep, false)
}
