package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pbcheck/internal/persistence/interfaces"
	"pbcheck/internal/structures"
	"pbcheck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeConfig(path string, writeThrough bool) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{FilePath: path, WriteThrough: writeThrough, Compress: true},
	}
}

func newTestStore(t *testing.T, path string, writeThrough bool, comp interfaces.CompressorInterface) (interfaces.KeyValueStore, *testutil.MockMetrics) {
	t.Helper()
	metrics := testutil.NewMockMetrics()
	return NewFileStore(storeConfig(path, writeThrough), comp, &testutil.MockLogger{}, metrics), metrics
}

func TestFileStore_WriteThroughCreatesFileAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pbcheck.db")
	store, metrics := newTestStore(t, path, true, &testutil.MockCompressor{})

	require.NoError(t, store.Set("selection", `{"white":[1,2,3,4,5],"powerball":6}`))

	_, err := os.Stat(path)
	assert.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 1, metrics.Persists)
}

func TestFileStore_RestoreRoundtripCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pbcheck.db")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	defer comp.Close()

	store, _ := newTestStore(t, path, true, comp)
	require.NoError(t, store.Set("drawing", `{"date":"2026-01-17","white":[5,8,27,49,57],"powerball":14}`))
	require.NoError(t, store.Set("lastFetchTimestamp", "1768708800000"))

	restored, _ := newTestStore(t, path, true, comp)
	require.NoError(t, restored.Restore())

	v, ok := restored.Get("lastFetchTimestamp")
	assert.True(t, ok)
	assert.Equal(t, "1768708800000", v)
	_, ok = restored.Get("drawing")
	assert.True(t, ok)
}

func TestFileStore_RestoreMissingFile(t *testing.T) {
	store, _ := newTestStore(t, filepath.Join(t.TempDir(), "absent.db"), true, &testutil.MockCompressor{})
	assert.NoError(t, store.Restore())
	_, ok := store.Get("selection")
	assert.False(t, ok)
}

func TestFileStore_RestorePlainFileWithCompressor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pbcheck.db")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"keys":{"selection":"x"}}`), 0o644))

	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	defer comp.Close()

	store, _ := newTestStore(t, path, true, comp)
	require.NoError(t, store.Restore())
	v, ok := store.Get("selection")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestFileStore_RestoreRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pbcheck.db")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99,"keys":{}}`), 0o644))

	store, _ := newTestStore(t, path, true, &testutil.MockCompressor{})
	assert.Error(t, store.Restore())
}

func TestFileStore_RestoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pbcheck.db")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	comp := &testutil.MockCompressor{
		DecompressFn: func([]byte) ([]byte, error) { return nil, errors.New("bad frame") },
	}
	store, _ := newTestStore(t, path, true, comp)
	assert.Error(t, store.Restore())
}

func TestFileStore_WriteThroughFailureRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pbcheck.db")
	comp := &testutil.MockCompressor{}
	store, _ := newTestStore(t, path, true, comp)
	require.NoError(t, store.Set("selection", "old"))

	comp.CompressFn = func([]byte) ([]byte, error) { return nil, errors.New("disk full") }
	assert.Error(t, store.Set("selection", "new"))
	assert.Error(t, store.Set("drawing", "d"))

	v, _ := store.Get("selection")
	assert.Equal(t, "old", v)
	_, ok := store.Get("drawing")
	assert.False(t, ok)
}

func TestFileStore_DeferredPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pbcheck.db")
	store, metrics := newTestStore(t, path, false, &testutil.MockCompressor{})

	require.NoError(t, store.Set("selection", "a"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing written before Persist")

	require.NoError(t, store.Persist())
	_, err = os.Stat(path)
	assert.NoError(t, err)

	// clean store skips the write
	require.NoError(t, store.Persist())
	assert.Equal(t, 1, metrics.Persists)
}
