package navis

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SridharJagannathan/navis/blobstore"
	"github.com/SridharJagannathan/navis/morpho"
)

const sampleSWC = `# test neuron
1 1 0 0 0 2.5 -1
2 0 1 0 0 0.4 1
3 0 2 0 0 0.4 2
4 0 3 0 0 0.4 3
5 0 4 0 0 0.4 4
6 0 2 1 0 0.4 3
7 0 2 2 0 0.4 6
`

func sampleNeuron(t *testing.T) *TreeNeuron {
	t.Helper()
	n, err := ReadSWCFrom(context.Background(), strings.NewReader(sampleSWC), "sample.swc")
	require.NoError(t, err)
	return n
}

func TestReadSWCRawString(t *testing.T) {
	nl, err := ReadSWC(context.Background(), sampleSWC)
	require.NoError(t, err)
	require.Equal(t, 1, nl.Len())

	n := nl.At(0)
	require.Equal(t, 7, n.Len())
	require.Contains(t, n.Header, "test neuron")

	soma, ok := n.Soma()
	require.True(t, ok)
	require.Equal(t, int64(1), soma)
}

func TestReadSWCFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dl1.swc")
	require.NoError(t, os.WriteFile(path, []byte(sampleSWC), 0o644))

	nl, err := ReadSWC(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, nl.Len())
	require.Equal(t, "dl1", nl.At(0).Name)
	require.Equal(t, path, nl.At(0).Origin)
}

func TestReadSWCMissingFile(t *testing.T) {
	_, err := ReadSWC(context.Background(), filepath.Join(t.TempDir(), "nope.swc"))
	require.ErrorIs(t, err, ErrNotFound)

	var re *ReadError
	require.ErrorAs(t, err, &re)
}

func TestReadSWCDirectory(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 25; i++ {
		name := filepath.Join(dir, fmt.Sprintf("n%02d.swc", i))
		require.NoError(t, os.WriteFile(name, []byte(sampleSWC), 0o644))
	}
	// Non-SWC files and subdirectories are skipped without recursion.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "extra.swc"), []byte(sampleSWC), 0o644))

	nl, err := ReadSWC(context.Background(), dir, WithWorkers(4))
	require.NoError(t, err)
	require.Equal(t, 25, nl.Len())
	require.Equal(t, "n00", nl.At(0).Name)

	nl, err = ReadSWC(context.Background(), dir, WithRecursive(true))
	require.NoError(t, err)
	require.Equal(t, 26, nl.Len())

	nl, err = ReadSWC(context.Background(), dir, WithPattern("n1*"))
	require.NoError(t, err)
	require.Equal(t, 10, nl.Len())
}

func TestReadSWCEmptyDirectory(t *testing.T) {
	_, err := ReadSWC(context.Background(), t.TempDir())
	require.ErrorIs(t, err, ErrEmptySource)
}

func TestReadSWCFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/skeletons/va6.swc" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, sampleSWC)
	}))
	defer srv.Close()

	nl, err := ReadSWC(context.Background(), srv.URL+"/skeletons/va6.swc")
	require.NoError(t, err)
	require.Equal(t, 1, nl.Len())
	require.Equal(t, "va6", nl.At(0).Name)

	_, err = ReadSWC(context.Background(), srv.URL+"/missing.swc")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	n := sampleNeuron(t)

	for _, name := range []string{"out.swc", "out.swc.gz", "out.swc.zst", "out.swc.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, WriteSWC(ctx, n, path))

			nl, err := ReadSWC(ctx, path)
			require.NoError(t, err)
			back := nl.At(0)
			require.Equal(t, n.Len(), back.Len())
			require.InDelta(t, n.CableLength(), back.CableLength(), 1e-9)
		})
	}
}

func TestWriteSWCCustomHeader(t *testing.T) {
	ctx := context.Background()
	n := sampleNeuron(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSWCTo(ctx, n, &buf, "", WithHeader("exported for review")))
	require.True(t, strings.HasPrefix(buf.String(), "# exported for review\n"))
}

func TestWriteAll(t *testing.T) {
	ctx := context.Background()
	a, b := sampleNeuron(t), sampleNeuron(t)
	a.Name, b.Name = "a", "b"

	dir := filepath.Join(t.TempDir(), "export")
	require.NoError(t, WriteAll(ctx, NewList(a, b), dir, ".swc.gz"))

	nl, err := ReadSWC(ctx, dir)
	require.NoError(t, err)
	require.Equal(t, 2, nl.Len())
	require.ElementsMatch(t, []string{"a", "b"}, nl.Names())
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	neurons := NewList()
	for i := 0; i < 20; i++ {
		n := sampleNeuron(t)
		n.Name = fmt.Sprintf("n%02d", i)
		neurons.Append(n)
	}

	require.NoError(t, WriteStore(ctx, store, neurons, "skeletons", ".swc", WithWorkers(4)))

	nl, err := ReadStore(ctx, store, "skeletons/", WithWorkers(4))
	require.NoError(t, err)
	require.Equal(t, 20, nl.Len())
	require.Equal(t, "n00", nl.At(0).Name)

	nl, err = ReadStore(ctx, store, "skeletons/", WithPattern("n0*"))
	require.NoError(t, err)
	require.Equal(t, 10, nl.Len())

	_, err = ReadStore(ctx, store, "other/")
	require.ErrorIs(t, err, ErrEmptySource)
}

func TestOpsDoNotMutateInput(t *testing.T) {
	n := sampleNeuron(t)
	require.NoError(t, n.SetConnectors([]Connector{{NodeID: 2, Type: "presynapse", X: 1, Y: 0, Z: 0}}))

	ds, err := Downsample(n, 2, morpho.DownsampleOptions{})
	require.NoError(t, err)
	require.Less(t, ds.Len(), n.Len())
	require.Equal(t, 7, n.Len())
	_, ok := ds.Node(ds.Connectors()[0].NodeID)
	require.True(t, ok)

	rr, err := Reroot(n, 5)
	require.NoError(t, err)
	require.Equal(t, []int64{5}, rr.Roots())
	require.Equal(t, []int64{1}, n.Roots())

	rs, err := Resample(n, 0.5)
	require.NoError(t, err)
	require.Greater(t, rs.Len(), n.Len())
	require.Equal(t, 7, n.Len())

	pt, err := PruneTwigs(n, 2.5, 1)
	require.NoError(t, err)
	require.Equal(t, 3, pt.Len())
	require.Equal(t, 7, n.Len())

	sub, err := Subset(n, []int64{5}, true)
	require.NoError(t, err)
	require.Equal(t, 5, sub.Len())
	require.Equal(t, 7, n.Len())
}

func TestCutAndPruneWrappers(t *testing.T) {
	n := sampleNeuron(t)

	distal, proximal, err := Cut(n, 3)
	require.NoError(t, err)
	require.Equal(t, 5, distal.Len())
	require.Equal(t, 3, proximal.Len())
	require.Equal(t, 7, n.Len())

	pd, err := PruneDistalTo(n, 3)
	require.NoError(t, err)
	require.Equal(t, 3, pd.Len())

	pp, err := PruneProximalTo(n, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{3}, pp.Roots())

	ln, err := LongestNeurite(n, 1, false)
	require.NoError(t, err)
	require.Equal(t, 1, ln.NLeafs())

	ps, err := PruneByStrahler(n, 2)
	require.NoError(t, err)
	require.Equal(t, 3, ps.Len())

	si := StrahlerIndex(n)
	require.Equal(t, 2, si[1])
}

func TestNormalizeHeader(t *testing.T) {
	require.Equal(t, "", normalizeHeader(""))
	require.Equal(t, "# a\n# b\n", normalizeHeader("a\n# b"))
}
