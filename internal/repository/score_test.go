package repository

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRepository(t *testing.T) {
	t.Run("GetByID_Empty", func(t *testing.T) {
		ctx := context.Background()
		scoreRepo := NewScoreRepository(NewMemoryKeyValueStore())

		// When: an owner without history is read
		score, err := scoreRepo.GetByID(ctx, "device-1")

		// Then: every counter is zero
		require.NoError(t, err)
		assert.Equal(t, &entity.ScoreTally{}, score)
	})

	t.Run("CreateOrUpdate_GetByID", func(t *testing.T) {
		ctx := context.Background()
		store := NewMemoryKeyValueStore()
		scoreRepo := NewScoreRepository(store)

		// Given: a saved tally
		tally := &entity.ScoreTally{WinsPlayer: 3, WinsOpponent: 1, Draws: 2}
		require.NoError(t, scoreRepo.CreateOrUpdate(ctx, "device-1", tally))

		// When: it is read back
		score, err := scoreRepo.GetByID(ctx, "device-1")

		// Then: the counters match and live under per-counter keys
		require.NoError(t, err)
		assert.Equal(t, tally, score)

		raw, err := store.Get(ctx, "device-1:wins_player")
		require.NoError(t, err)
		assert.Equal(t, "3", raw)
	})

	t.Run("GetByID_Corrupt", func(t *testing.T) {
		ctx := context.Background()
		store := NewMemoryKeyValueStore()
		require.NoError(t, store.Set(ctx, "device-1:draws", "many"))

		_, err := NewScoreRepository(store).GetByID(ctx, "device-1")

		require.Error(t, err)
	})
}
