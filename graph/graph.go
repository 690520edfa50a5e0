// Package graph converts neurons to and from graph and spatial index
// representations built on gonum.
package graph

import (
	"fmt"
	"sort"

	gograph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/SridharJagannathan/navis/neuron"
)

// Node wraps a skeleton node as a gonum graph node.
type Node struct {
	neuron.Node
}

// ID implements gonum's graph.Node.
func (n Node) ID() int64 { return n.Node.ID }

// ToDirected converts a neuron into a weighted directed graph with one
// child->parent edge per non-root node, weighted by Euclidean edge length.
func ToDirected(n *neuron.TreeNeuron) *simple.WeightedDirectedGraph {
	g := simple.NewWeightedDirectedGraph(0, 0)
	for _, nd := range n.Nodes() {
		g.AddNode(Node{nd})
	}
	for _, nd := range n.Nodes() {
		if nd.ParentID < 0 {
			continue
		}
		p, ok := n.Node(nd.ParentID)
		if !ok {
			continue
		}
		g.SetWeightedEdge(g.NewWeightedEdge(Node{nd}, Node{p}, nd.Dist(p)))
	}
	return g
}

// FromDirected rebuilds a TreeNeuron from a graph of graph.Node values,
// rooted at the given node. Edge direction is ignored; the input must be
// tree-shaped (connected, no cycles). The node table is emitted in
// breadth-first order from the root.
func FromDirected(g *simple.WeightedDirectedGraph, root int64) (*neuron.TreeNeuron, error) {
	if g.Node(root) == nil {
		return nil, fmt.Errorf("root %d not in graph", root)
	}

	// undirected adjacency
	adj := make(map[int64][]int64)
	nodes := make(map[int64]Node)
	var count int
	it := g.Nodes()
	for it.Next() {
		gn := it.Node()
		wn, ok := gn.(Node)
		if !ok {
			return nil, fmt.Errorf("graph node %d is not a skeleton node", gn.ID())
		}
		nodes[gn.ID()] = wn
		count++
	}
	edges := g.Edges()
	var nedges int
	for edges.Next() {
		e := edges.Edge()
		f, t := e.From().ID(), e.To().ID()
		adj[f] = append(adj[f], t)
		adj[t] = append(adj[t], f)
		nedges++
	}
	if nedges != count-1 {
		return nil, fmt.Errorf("graph is not a tree: %d nodes, %d edges", count, nedges)
	}

	// Sorted neighbors make the traversal, and with it the resulting
	// table order, independent of map iteration.
	for _, next := range adj {
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	}

	parent := map[int64]int64{root: -1}
	order := []int64{root}
	for i := 0; i < len(order); i++ {
		cur := order[i]
		for _, next := range adj[cur] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = cur
			order = append(order, next)
		}
	}
	if len(order) != count {
		return nil, fmt.Errorf("graph is not connected: reached %d of %d nodes", len(order), count)
	}

	table := make([]neuron.Node, 0, count)
	for _, id := range order {
		nd := nodes[id].Node
		nd.ParentID = parent[id]
		table = append(table, nd)
	}
	return neuron.New(table)
}

// Edge is a weighted connection for building connectivity graphs.
type Edge struct {
	Source, Target int64
	Weight         float64
}

// FromEdgeList builds a weighted directed connectivity graph from an edge
// list, dropping edges weaker than threshold.
func FromEdgeList(edges []Edge, threshold float64) *simple.WeightedDirectedGraph {
	g := simple.NewWeightedDirectedGraph(0, 0)
	for _, e := range edges {
		if e.Weight < threshold {
			continue
		}
		for _, id := range []int64{e.Source, e.Target} {
			if g.Node(id) == nil {
				g.AddNode(simple.Node(id))
			}
		}
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(e.Source), simple.Node(e.Target), e.Weight))
	}
	return g
}

var _ gograph.Node = Node{}
