package graph

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/SridharJagannathan/navis/neuron"
)

// KDTree is a spatial index over a neuron's node coordinates.
type KDTree struct {
	tree *kdtree.Tree
}

// NewKDTree builds a k-d tree over all node positions.
func NewKDTree(n *neuron.TreeNeuron) *KDTree {
	pts := make(nodePoints, 0, n.Len())
	for _, nd := range n.Nodes() {
		pts = append(pts, nodePoint{pos: [3]float64{nd.X, nd.Y, nd.Z}, id: nd.ID})
	}
	return &KDTree{tree: kdtree.New(pts, false)}
}

// Nearest returns the node closest to the query position and its Euclidean
// distance.
func (t *KDTree) Nearest(x, y, z float64) (id int64, dist float64) {
	got, d := t.tree.Nearest(nodePoint{pos: [3]float64{x, y, z}})
	return got.(nodePoint).id, math.Sqrt(d)
}

// KNearest returns the k nodes closest to the query position, nearest
// first, with their Euclidean distances.
func (t *KDTree) KNearest(x, y, z float64, k int) (ids []int64, dists []float64) {
	if k < 1 {
		return nil, nil
	}
	keeper := kdtree.NewNKeeper(k)
	t.tree.NearestSet(keeper, nodePoint{pos: [3]float64{x, y, z}})

	type hit struct {
		id   int64
		dist float64
	}
	var hits []hit
	for _, cd := range keeper.Heap {
		np, ok := cd.Comparable.(nodePoint)
		if !ok {
			continue // the keeper's infinite sentinel
		}
		hits = append(hits, hit{id: np.id, dist: math.Sqrt(cd.Dist)})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	for _, h := range hits {
		ids = append(ids, h.id)
		dists = append(dists, h.dist)
	}
	return ids, dists
}

// nodePoint is a 3d position tagged with its node ID.
type nodePoint struct {
	pos [3]float64
	id  int64
}

func (p nodePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(nodePoint)
	return p.pos[d] - q.pos[d]
}

func (p nodePoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance, per kdtree convention.
func (p nodePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(nodePoint)
	var sum float64
	for i := range p.pos {
		d := p.pos[i] - q.pos[i]
		sum += d * d
	}
	return sum
}

type nodePoints []nodePoint

func (p nodePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p nodePoints) Len() int                      { return len(p) }
func (p nodePoints) Pivot(d kdtree.Dim) int        { return plane{nodePoints: p, Dim: d}.Pivot() }
func (p nodePoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

type plane struct {
	kdtree.Dim
	nodePoints
}

func (p plane) Less(i, j int) bool {
	return p.nodePoints[i].pos[p.Dim] < p.nodePoints[j].pos[p.Dim]
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.nodePoints = p.nodePoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.nodePoints[i], p.nodePoints[j] = p.nodePoints[j], p.nodePoints[i]
}
