package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStoreLifecycle(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	// 1. Put two blobs under a shared prefix
	require.NoError(t, store.Put(ctx, "skeletons/n1.swc", []byte("one")))
	require.NoError(t, store.Put(ctx, "skeletons/n2.swc", []byte("two")))
	require.NoError(t, store.Put(ctx, "meta/readme.txt", []byte("meta")))

	// 2. Open and read back
	rc, err := store.Open(ctx, "skeletons/n1.swc")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "one", string(data))

	// 3. List by prefix
	names, err := store.List(ctx, "skeletons/")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"skeletons/n1.swc", "skeletons/n2.swc"}, names)

	// 4. Overwrite
	require.NoError(t, store.Put(ctx, "skeletons/n1.swc", []byte("replaced")))
	rc, err = store.Open(ctx, "skeletons/n1.swc")
	require.NoError(t, err)
	data, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "replaced", string(data))

	// 5. Delete, idempotently
	require.NoError(t, store.Delete(ctx, "skeletons/n1.swc"))
	require.NoError(t, store.Delete(ctx, "skeletons/n1.swc"))

	_, err = store.Open(ctx, "skeletons/n1.swc")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	testStoreLifecycle(t, NewLocalStore(tmpDir))

	// Blobs live as plain files under the root.
	_, err := os.Stat(filepath.Join(tmpDir, "skeletons", "n2.swc"))
	require.NoError(t, err)
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	testStoreLifecycle(t, NewMemoryStore())
}

func TestMemoryStore_ReaderIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "a", []byte("abc")))

	rc, err := store.Open(ctx, "a")
	require.NoError(t, err)
	buf, err := io.ReadAll(rc)
	require.NoError(t, err)

	// Mutating the read buffer must not leak into the store.
	buf[0] = 'X'
	rc2, err := store.Open(ctx, "a")
	require.NoError(t, err)
	again, err := io.ReadAll(rc2)
	require.NoError(t, err)
	require.Equal(t, "abc", string(again))
}
