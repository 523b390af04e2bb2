package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok, "missing key should report not found")

	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`)))
	value, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(value))

	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":2}`)))
	value, _, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(value))

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"), "deleting a missing key is not an error")
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeysPrefixTreatsUnderscoreLiterally(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	for _, key := range []string{"@p/entries_2025-01-02", "@p/entries_2025-01-01", "@p/entriesX2025", "@p/settings"} {
		require.NoError(t, s.Set(ctx, key, []byte("[]")))
	}

	keys, err := s.Keys(ctx, "@p/entries_")
	require.NoError(t, err)
	assert.Equal(t, []string{"@p/entries_2025-01-01", "@p/entries_2025-01-02"}, keys)

	all, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	err := s.Update(ctx, "counter", func(old []byte, exists bool) ([]byte, error) {
		assert.False(t, exists)
		assert.Nil(t, old)
		return []byte("1"), nil
	})
	require.NoError(t, err)

	err = s.Update(ctx, "counter", func(old []byte, exists bool) ([]byte, error) {
		assert.True(t, exists)
		assert.Equal(t, "1", string(old))
		return nil, nil
	})
	require.NoError(t, err)
	_, ok, err := s.Get(ctx, "counter")
	require.NoError(t, err)
	assert.False(t, ok, "nil result deletes the key")

	boom := errors.New("boom")
	require.NoError(t, s.Set(ctx, "keep", []byte("x")))
	err = s.Update(ctx, "keep", func(old []byte, exists bool) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	value, ok, err := s.Get(ctx, "keep")
	require.NoError(t, err)
	assert.True(t, ok, "failed update must roll back")
	assert.Equal(t, "x", string(value))
}

// TestConcurrentUpdates verifies read-modify-write cycles do not lose writes
func TestConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Update(ctx, "log", func(old []byte, exists bool) ([]byte, error) {
				return append(old, 'x'), nil
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	value, _, err := s.Get(ctx, "log")
	require.NoError(t, err)
	assert.Len(t, value, writers)
}

func TestClearAndConfig(t *testing.T) {
	ctx := context.Background()
	s, err := New(MemoryPath)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2")))
	require.NoError(t, s.SetConfig(ctx, "project", "demo"))

	require.NoError(t, s.Clear(ctx))
	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)

	project, err := s.GetConfig(ctx, "project")
	require.NoError(t, err)
	assert.Equal(t, "demo", project, "Clear only touches the kv table")

	missing, err := s.GetConfig(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, "", missing)
	require.NoError(t, s.Vacuum(ctx))
}

func TestSchemaMigrated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migrated.db")
	s, err := New(path)
	require.NoError(t, err)
	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(schemaMigrations), version)
	require.NoError(t, s.Close())

	// Reopening applies nothing new
	s, err = New(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	version, err = s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(schemaMigrations), version)
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
