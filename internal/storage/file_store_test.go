package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	t.Run("get on an absent key", func(t *testing.T) {
		_, ok, err := store.Get("missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set("vocab_progress", `{"a":1}`))

		value, ok, err := store.Get("vocab_progress")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, `{"a":1}`, value)
	})

	t.Run("set replaces the previous value", func(t *testing.T) {
		require.NoError(t, store.Set("vocab_settings", "old"))
		require.NoError(t, store.Set("vocab_settings", "new"))

		value, _, err := store.Get("vocab_settings")
		require.NoError(t, err)
		assert.Equal(t, "new", value)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		require.NoError(t, store.Set("vocab_today_stats", "{}"))
		require.NoError(t, store.Remove("vocab_today_stats"))
		require.NoError(t, store.Remove("vocab_today_stats"))

		_, ok, err := store.Get("vocab_today_stats")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
