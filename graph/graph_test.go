package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SridharJagannathan/navis/neuron"
)

// testNeuron builds a two-branch tree with unit edge lengths:
//
//	1 - 2 - 3 - 4 - 5
//	        |
//	        6 - 7
func testNeuron(t *testing.T) *neuron.TreeNeuron {
	t.Helper()
	n, err := neuron.New([]neuron.Node{
		{ID: 1, X: 0, Y: 0, Radius: 0.5, ParentID: -1},
		{ID: 2, X: 1, Y: 0, Radius: 0.5, ParentID: 1},
		{ID: 3, X: 2, Y: 0, Radius: 0.5, ParentID: 2},
		{ID: 4, X: 3, Y: 0, Radius: 0.5, ParentID: 3},
		{ID: 5, X: 4, Y: 0, Radius: 0.5, ParentID: 4},
		{ID: 6, X: 2, Y: 1, Radius: 0.5, ParentID: 3},
		{ID: 7, X: 2, Y: 2, Radius: 0.5, ParentID: 6},
	})
	require.NoError(t, err)
	return n
}

func TestToDirected(t *testing.T) {
	n := testNeuron(t)
	g := ToDirected(n)

	require.Equal(t, 7, g.Nodes().Len())
	require.Equal(t, 6, g.Edges().Len())

	// Edges run child -> parent.
	require.True(t, g.HasEdgeFromTo(2, 1))
	require.False(t, g.HasEdgeFromTo(1, 2))

	w, ok := g.Weight(5, 4)
	require.True(t, ok)
	require.InDelta(t, 1.0, w, 1e-12)
}

func TestFromDirectedRoundTrip(t *testing.T) {
	n := testNeuron(t)

	back, err := FromDirected(ToDirected(n), 1)
	require.NoError(t, err)

	require.Equal(t, n.Len(), back.Len())
	require.Equal(t, []int64{1}, back.Roots())
	require.InDelta(t, n.CableLength(), back.CableLength(), 1e-9)
	require.ElementsMatch(t, n.Leafs(), back.Leafs())
}

func TestFromDirectedReroots(t *testing.T) {
	n := testNeuron(t)

	// Any node works as the root since direction is ignored.
	back, err := FromDirected(ToDirected(n), 5)
	require.NoError(t, err)
	require.Equal(t, []int64{5}, back.Roots())
	require.InDelta(t, n.CableLength(), back.CableLength(), 1e-9)
}

func TestFromDirectedStableOrder(t *testing.T) {
	n := testNeuron(t)

	// Node tables come out in breadth-first order with sorted neighbors,
	// independent of the graph's internal map iteration.
	want := []int64{1, 2, 3, 4, 6, 5, 7}
	for i := 0; i < 20; i++ {
		back, err := FromDirected(ToDirected(n), 1)
		require.NoError(t, err)

		ids := make([]int64, 0, back.Len())
		for _, nd := range back.Nodes() {
			ids = append(ids, nd.ID)
		}
		require.Equal(t, want, ids)
	}
}

func TestFromDirectedRejectsMissingRoot(t *testing.T) {
	n := testNeuron(t)
	_, err := FromDirected(ToDirected(n), 99)
	require.Error(t, err)
}

func TestFromDirectedRejectsNonTree(t *testing.T) {
	n := testNeuron(t)
	g := ToDirected(n)
	// A shortcut edge turns the tree into a cycle.
	g.SetWeightedEdge(g.NewWeightedEdge(Node{neuron.Node{ID: 5}}, Node{neuron.Node{ID: 1}}, 1))

	_, err := FromDirected(g, 1)
	require.Error(t, err)
}

func TestFromEdgeList(t *testing.T) {
	g := FromEdgeList([]Edge{
		{Source: 1, Target: 2, Weight: 5},
		{Source: 1, Target: 3, Weight: 1},
		{Source: 2, Target: 3, Weight: 0.2},
	}, 0.5)

	require.Equal(t, 3, g.Nodes().Len())
	require.True(t, g.HasEdgeFromTo(1, 2))
	require.True(t, g.HasEdgeFromTo(1, 3))
	// Below threshold.
	require.False(t, g.HasEdgeFromTo(2, 3))
}

func TestKDTreeNearest(t *testing.T) {
	n := testNeuron(t)
	tree := NewKDTree(n)

	id, dist := tree.Nearest(4.1, 0, 0)
	require.Equal(t, int64(5), id)
	require.InDelta(t, 0.1, dist, 1e-9)

	id, dist = tree.Nearest(2, 2, 0)
	require.Equal(t, int64(7), id)
	require.InDelta(t, 0.0, dist, 1e-12)
}

func TestKDTreeKNearest(t *testing.T) {
	n := testNeuron(t)
	tree := NewKDTree(n)

	ids, dists := tree.KNearest(0, 0, 0, 3)
	require.Equal(t, []int64{1, 2, 3}, ids)
	require.InDelta(t, 0.0, dists[0], 1e-12)
	require.InDelta(t, 1.0, dists[1], 1e-9)
	require.InDelta(t, 2.0, dists[2], 1e-9)

	ids, _ = tree.KNearest(0, 0, 0, 100)
	require.Len(t, ids, n.Len())

	ids, dists = tree.KNearest(0, 0, 0, 0)
	require.Nil(t, ids)
	require.Nil(t, dists)
}

func TestDotprops(t *testing.T) {
	n := testNeuron(t)

	dps := Dotprops(n)
	require.Len(t, dps, 6)
	for _, dp := range dps {
		require.InDelta(t, 1.0, dp.Length, 1e-12)
	}

	// The 2->1 edge sits midway between its endpoints.
	first := dps[0]
	require.Equal(t, [3]float64{0.5, 0, 0}, first.Point)
	require.Equal(t, [3]float64{-1, 0, 0}, first.Vector)
}
