package plot

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SridharJagannathan/navis/neuron"
)

func testList(t *testing.T) *neuron.List {
	t.Helper()
	n, err := neuron.New([]neuron.Node{
		{ID: 1, X: 0, Y: 0, Z: 0, Radius: 2.5, Label: 1, ParentID: -1},
		{ID: 2, X: 1, Y: 0, Z: 1, Radius: 0.5, ParentID: 1},
		{ID: 3, X: 2, Y: 0, Z: 2, Radius: 0.5, ParentID: 2},
		{ID: 4, X: 2, Y: 1, Z: 2, Radius: 0.5, ParentID: 2},
	})
	require.NoError(t, err)
	require.NoError(t, n.SetConnectors([]neuron.Connector{
		{NodeID: 3, Type: "presynapse", X: 2, Y: 0, Z: 2},
		{NodeID: 4, Type: "postsynapse", X: 2, Y: 1, Z: 2},
	}))
	return neuron.NewList(n)
}

func TestPlot2D(t *testing.T) {
	for _, view := range []View{ViewXY, ViewXZ, ViewYZ, ""} {
		p, err := Plot2D(testList(t), Options{View: view, Connectors: true})
		require.NoError(t, err)
		require.NotNil(t, p)
	}
}

func TestPlot2DSingleColor(t *testing.T) {
	p, err := Plot2D(testList(t), Options{Color: color.Black, Title: "skeleton"})
	require.NoError(t, err)
	require.Equal(t, "skeleton", p.Title.Text)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.png", "out.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(testList(t), path, Options{Connectors: true}))

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Greater(t, info.Size(), int64(0))
	}
}
