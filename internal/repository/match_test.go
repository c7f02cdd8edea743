package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatchRepository() (MatchRepository, DocumentStore) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := NewMemoryDocumentStore()

	return NewMatchRepository(logger, store, "matches"), store
}

func TestMatchRepository_Create(t *testing.T) {
	ctx := context.Background()
	matchRepo, store := newTestMatchRepository()

	// Given: a new match
	match := entity.NewMatch("alice")

	// When: Create is called
	err := matchRepo.Create(ctx, match)

	// Then: an id is assigned and every field is stored
	require.NoError(t, err)
	require.NotEmpty(t, match.ID)

	snapshot, err := store.Get(ctx, "matches", match.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `[0,0,0,0,0,0,0,0,0]`, string(snapshot.Fields[FieldBoard]))
	assert.JSONEq(t, `"waiting"`, string(snapshot.Fields[FieldStatus]))
	assert.JSONEq(t, `1`, string(snapshot.Fields[FieldTurnOwner]))
	assert.JSONEq(t, `"alice"`, string(snapshot.Fields[FieldPlayer1ID]))
	assert.Len(t, snapshot.Fields, len(matchFields))
}

func TestMatchRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx := context.Background()
		matchRepo, _ := newTestMatchRepository()

		match := entity.NewMatch("alice")
		require.NoError(t, matchRepo.Create(ctx, match))

		retrieved, err := matchRepo.GetByID(ctx, match.ID)

		require.NoError(t, err)
		assert.Equal(t, match, retrieved)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		matchRepo, _ := newTestMatchRepository()

		retrieved, err := matchRepo.GetByID(context.Background(), "9999999")

		require.ErrorIs(t, err, ErrMatchNotFound)
		assert.Nil(t, retrieved)
	})

	t.Run("GetByID_MissingRequiredField", func(t *testing.T) {
		ctx := context.Background()
		matchRepo, store := newTestMatchRepository()

		id, err := store.Create(ctx, "matches", Fields{FieldStatus: json.RawMessage(`"active"`)})
		require.NoError(t, err)

		_, err = matchRepo.GetByID(ctx, id)

		require.ErrorIs(t, err, ErrInvalidMatch)
	})

	t.Run("GetByID_InvalidBoard", func(t *testing.T) {
		ctx := context.Background()
		matchRepo, store := newTestMatchRepository()

		id, err := store.Create(ctx, "matches", Fields{
			FieldBoard:     json.RawMessage(`[0,0,3,0,0,0,0,0,0]`),
			FieldTurnOwner: json.RawMessage(`1`),
			FieldStatus:    json.RawMessage(`"active"`),
			FieldPlayer1ID: json.RawMessage(`"alice"`),
		})
		require.NoError(t, err)

		_, err = matchRepo.GetByID(ctx, id)

		require.ErrorIs(t, err, ErrInvalidMatch)
	})
}

func TestMatchRepository_GetWaiting(t *testing.T) {
	ctx := context.Background()
	matchRepo, _ := newTestMatchRepository()

	own := entity.NewMatch("alice")
	require.NoError(t, matchRepo.Create(ctx, own))

	// When: alice looks for a waiting match
	_, err := matchRepo.GetWaiting(ctx, "alice")

	// Then: her own match is never offered
	require.ErrorIs(t, err, ErrMatchNotFound)

	// When: bob looks for one
	found, err := matchRepo.GetWaiting(ctx, "bob")

	// Then: alice's match is returned
	require.NoError(t, err)
	assert.Equal(t, own.ID, found.ID)
}

func TestMatchRepository_Update(t *testing.T) {
	t.Run("Merges only named fields", func(t *testing.T) {
		ctx := context.Background()
		matchRepo, store := newTestMatchRepository()

		match := entity.NewMatch("alice")
		require.NoError(t, matchRepo.Create(ctx, match))

		// Given: a remote change to the win counter made by the peer
		require.NoError(t, store.Update(ctx, "matches", match.ID, Fields{FieldWinsPlayer1: json.RawMessage(`4`)}, true))

		// When: the join fields are written from a stale copy
		match.Player2ID = "bob"
		match.Status = entity.StatusActive
		require.NoError(t, matchRepo.Update(ctx, match, FieldPlayer2ID, FieldStatus))

		// Then: unnamed fields keep their remote values
		retrieved, err := matchRepo.GetByID(ctx, match.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob", retrieved.Player2ID)
		assert.Equal(t, entity.StatusActive, retrieved.Status)
		assert.Equal(t, 4, retrieved.WinsPlayer1)
	})

	t.Run("Missing match", func(t *testing.T) {
		matchRepo, _ := newTestMatchRepository()

		err := matchRepo.Update(context.Background(), &entity.Match{ID: "gone"})

		require.ErrorIs(t, err, ErrMatchNotFound)
	})
}

func TestMatchRepository_Subscribe(t *testing.T) {
	ctx := context.Background()
	matchRepo, store := newTestMatchRepository()

	match := entity.NewMatch("alice")
	require.NoError(t, matchRepo.Create(ctx, match))

	matches := make(chan *entity.Match, 16)
	subscription, err := matchRepo.Subscribe(ctx, match.ID, func(m *entity.Match) {
		matches <- m
	})
	require.NoError(t, err)
	defer subscription.Remove()

	next := func() *entity.Match {
		select {
		case m := <-matches:
			return m
		case <-time.After(snapshotWait):
			require.FailNow(t, "no match delivered")
			return nil
		}
	}

	// Then: the current match is delivered
	assert.Equal(t, entity.StatusWaiting, next().Status)

	// When: a broken snapshot is written, then a valid one
	require.NoError(t, store.Update(ctx, "matches", match.ID, Fields{FieldTurnOwner: json.RawMessage(`7`)}, true))
	require.NoError(t, store.Update(ctx, "matches", match.ID, Fields{FieldTurnOwner: json.RawMessage(`2`)}, true))

	// Then: the broken one is skipped
	assert.Equal(t, entity.PlayerTwo, next().TurnOwner)

	// When: the match is deleted
	require.NoError(t, matchRepo.DeleteByID(ctx, match.ID))

	// Then: the deleted sentinel arrives
	gone := next()
	assert.Equal(t, entity.StatusDeleted, gone.Status)
	assert.True(t, gone.IsGone())
}
