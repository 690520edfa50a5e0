package neuron

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// testNodes builds a small two-branch tree with unit edge lengths:
//
//	1 - 2 - 3 - 4 - 5
//	        |
//	        6 - 7
func testNodes() []Node {
	return []Node{
		{ID: 1, X: 0, Y: 0, Z: 0, Radius: 0.5, ParentID: -1},
		{ID: 2, X: 1, Y: 0, Z: 0, Radius: 0.5, ParentID: 1},
		{ID: 3, X: 2, Y: 0, Z: 0, Radius: 0.5, ParentID: 2},
		{ID: 4, X: 3, Y: 0, Z: 0, Radius: 0.5, ParentID: 3},
		{ID: 5, X: 4, Y: 0, Z: 0, Radius: 0.5, ParentID: 4},
		{ID: 6, X: 2, Y: 1, Z: 0, Radius: 0.5, ParentID: 3},
		{ID: 7, X: 2, Y: 2, Z: 0, Radius: 0.5, ParentID: 6},
	}
}

func testNeuron(t *testing.T) *TreeNeuron {
	t.Helper()
	n, err := New(testNodes())
	require.NoError(t, err)
	return n
}

func TestValidate(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		_, err := New([]Node{
			{ID: 1, ParentID: -1},
			{ID: 1, ParentID: 1},
		})
		var dup *DuplicateNodeError
		require.ErrorAs(t, err, &dup)
		require.Equal(t, int64(1), dup.ID)
	})

	t.Run("missing parent", func(t *testing.T) {
		_, err := New([]Node{
			{ID: 1, ParentID: -1},
			{ID: 2, ParentID: 99},
		})
		var mp *MissingParentError
		require.ErrorAs(t, err, &mp)
		require.Equal(t, int64(2), mp.ID)
		require.Equal(t, int64(99), mp.ParentID)
	})

	t.Run("self parent", func(t *testing.T) {
		_, err := New([]Node{{ID: 1, ParentID: 1}})
		var cyc *CycleError
		require.ErrorAs(t, err, &cyc)
	})

	t.Run("cycle", func(t *testing.T) {
		_, err := New([]Node{
			{ID: 1, ParentID: 2},
			{ID: 2, ParentID: 3},
			{ID: 3, ParentID: 1},
		})
		var cyc *CycleError
		require.ErrorAs(t, err, &cyc)
	})

	t.Run("valid forest", func(t *testing.T) {
		n, err := New([]Node{
			{ID: 1, ParentID: -1},
			{ID: 2, ParentID: 1},
			{ID: 10, ParentID: -1},
			{ID: 11, ParentID: 10},
		})
		require.NoError(t, err)
		require.ElementsMatch(t, []int64{1, 10}, n.Roots())
		require.Len(t, n.Subtrees(), 2)
	})
}

func TestClassification(t *testing.T) {
	n := testNeuron(t)

	require.Equal(t, TypeRoot, n.Type(1))
	require.Equal(t, TypeSlab, n.Type(2))
	require.Equal(t, TypeBranch, n.Type(3))
	require.Equal(t, TypeEnd, n.Type(5))
	require.Equal(t, TypeEnd, n.Type(7))

	require.Equal(t, []int64{1}, n.Roots())
	require.ElementsMatch(t, []int64{5, 7}, n.Leafs())
	require.Equal(t, []int64{3}, n.BranchPoints())
	require.ElementsMatch(t, []int64{4, 6}, n.Children(3))
	require.Equal(t, 1, n.NBranches())
	require.Equal(t, 2, n.NLeafs())
}

func TestSegments(t *testing.T) {
	n := testNeuron(t)

	segs := n.Segments()
	require.Len(t, segs, 3)
	// Every segment of the fixture has two edges.
	require.ElementsMatch(t, [][]int64{
		{3, 2, 1},
		{5, 4, 3},
		{7, 6, 3},
	}, segs)
	for _, seg := range segs {
		require.Len(t, seg, 3)
	}
}

func TestCableLengthAndResolution(t *testing.T) {
	n := testNeuron(t)

	require.InDelta(t, 6.0, n.CableLength(), 1e-12)
	require.InDelta(t, 6.0/7.0, n.SamplingResolution(), 1e-12)
	require.InDelta(t, 0.5*0.5*math.Pi*6, n.Volume(), 1e-12)
}

func TestBBox(t *testing.T) {
	n := testNeuron(t)

	min, max := n.BBox()
	require.Equal(t, [3]float64{0, 0, 0}, min)
	require.Equal(t, [3]float64{4, 2, 0}, max)
}

func TestDistalTo(t *testing.T) {
	n := testNeuron(t)

	distal, err := n.DistalTo(3)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{3, 4, 5, 6, 7}, distal)

	_, err = n.DistalTo(99)
	var missing *MissingNodeError
	require.ErrorAs(t, err, &missing)
}

func TestSoma(t *testing.T) {
	t.Run("no soma", func(t *testing.T) {
		n := testNeuron(t)
		_, ok := n.Soma()
		require.False(t, ok)
	})

	t.Run("by label", func(t *testing.T) {
		nodes := testNodes()
		nodes[2].Label = 1
		n, err := New(nodes)
		require.NoError(t, err)
		soma, ok := n.Soma()
		require.True(t, ok)
		require.Equal(t, int64(3), soma)
	})

	t.Run("by radius", func(t *testing.T) {
		nodes := testNodes()
		nodes[0].Radius = 5
		n, err := New(nodes)
		require.NoError(t, err)
		soma, ok := n.Soma()
		require.True(t, ok)
		require.Equal(t, int64(1), soma)
	})

	t.Run("pinned", func(t *testing.T) {
		n := testNeuron(t)
		require.NoError(t, n.SetSoma(4))
		soma, ok := n.Soma()
		require.True(t, ok)
		require.Equal(t, int64(4), soma)

		n.ClearSoma()
		_, ok = n.Soma()
		require.False(t, ok)

		require.Error(t, n.SetSoma(99))
	})
}

func TestScale(t *testing.T) {
	n := testNeuron(t)
	require.NoError(t, n.SetConnectors([]Connector{{NodeID: 5, Type: "presynapse", X: 4, Y: 0, Z: 0}}))

	n.Scale(2)

	nd, ok := n.Node(5)
	require.True(t, ok)
	require.Equal(t, 8.0, nd.X)
	require.Equal(t, 1.0, nd.Radius)
	require.InDelta(t, 12.0, n.CableLength(), 1e-12)
	require.Equal(t, 8.0, n.Connectors()[0].X)
}

func TestCloneIsIndependent(t *testing.T) {
	n := testNeuron(t)
	n.Name = "orig"

	c := n.Clone()
	require.Equal(t, n.ID(), c.ID())
	require.True(t, n.Equal(c))

	nodes := c.Nodes()
	nodes[0].X = 100
	c.Invalidate()

	nd, _ := n.Node(1)
	require.Equal(t, 0.0, nd.X)
	require.False(t, n.Equal(c))
}

func TestConnectors(t *testing.T) {
	n := testNeuron(t)

	err := n.SetConnectors([]Connector{
		{NodeID: 5, Type: "presynapse"},
		{NodeID: 7, Type: "postsynapse"},
		{NodeID: 7, Type: "postsynapse"},
	})
	require.NoError(t, err)
	require.Len(t, n.Presynapses(), 1)
	require.Len(t, n.Postsynapses(), 2)

	err = n.SetConnectors([]Connector{{NodeID: 99, Type: "presynapse"}})
	var missing *MissingNodeError
	require.ErrorAs(t, err, &missing)
}

func TestSummary(t *testing.T) {
	n := testNeuron(t)
	n.Name = "dl1"

	s := n.Summary()
	require.Equal(t, "dl1", s.Name)
	require.Equal(t, 7, s.NNodes)
	require.Equal(t, 1, s.NBranches)
	require.Equal(t, 2, s.NLeafs)
	require.InDelta(t, 6.0, s.CableLength, 1e-12)
	require.False(t, s.HasSoma)
}
