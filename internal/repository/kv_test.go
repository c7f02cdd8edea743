package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rocketscienceinc/triqui/internal/repository/storage"
	"github.com/rocketscienceinc/triqui/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyValueStore(ctx context.Context, t *testing.T, store KeyValueStore) {
	t.Helper()

	t.Run("Get_NotFound", func(t *testing.T) {
		// When: a key that was never written is read
		value, err := store.Get(ctx, "missing")

		// Then: ErrKeyNotFound is returned
		require.ErrorIs(t, err, ErrKeyNotFound)
		assert.Empty(t, value)
	})

	t.Run("Set_Get_Overwrite", func(t *testing.T) {
		// Given: a stored value
		require.NoError(t, store.Set(ctx, "alice:board", "100000000"))

		// When: the value is overwritten
		require.NoError(t, store.Set(ctx, "alice:board", "120000000"))

		// Then: the latest value is returned
		value, err := store.Get(ctx, "alice:board")
		require.NoError(t, err)
		assert.Equal(t, "120000000", value)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "alice:starter", "2"))

		require.NoError(t, store.Delete(ctx, "alice:starter"))

		_, err := store.Get(ctx, "alice:starter")
		require.ErrorIs(t, err, ErrKeyNotFound)

		// deleting twice is not an error
		require.NoError(t, store.Delete(ctx, "alice:starter"))
	})
}

func TestMemoryKeyValueStore(t *testing.T) {
	testKeyValueStore(context.Background(), t, NewMemoryKeyValueStore())
}

func TestSQLiteKeyValueStore(t *testing.T) {
	ctx := context.Background()

	st, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "triqui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Init(ctx))

	testKeyValueStore(ctx, t, NewSQLiteKeyValueStore(st.Connection))
}

func TestBoltKeyValueStore(t *testing.T) {
	st, err := storage.NewBoltStorage(filepath.Join(t.TempDir(), "triqui.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	store, err := NewBoltKeyValueStore(st.Connection, "kv")
	require.NoError(t, err)

	testKeyValueStore(context.Background(), t, store)
}

func TestRedisKeyValueStore(t *testing.T) {
	ctx, st := suite.New(t)

	testKeyValueStore(ctx, t, NewRedisKeyValueStore(st.Storage, "kv:"))
}
