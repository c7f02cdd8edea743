package entity

import (
	"testing"

	"github.com/rocketscienceinc/triqui/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchStatusMethods(t *testing.T) {
	t.Run("IsWaiting returns true for a new match", func(t *testing.T) {
		// Given: a freshly created match
		match := NewMatch("alice")

		// Then: it waits for a second player and player one owns the turn
		assert.True(t, match.IsWaiting())
		assert.Equal(t, PlayerOne, match.TurnOwner)
		assert.Equal(t, "alice", match.Player1ID)
		assert.Empty(t, match.Player2ID)
		assert.Equal(t, Board{}, match.Board)
	})

	t.Run("IsFinished covers finished and draw", func(t *testing.T) {
		assert.True(t, (&Match{Status: StatusFinished}).IsFinished())
		assert.True(t, (&Match{Status: StatusDraw}).IsFinished())
		assert.False(t, (&Match{Status: StatusActive}).IsFinished())
	})

	t.Run("IsGone covers abandoned and deleted", func(t *testing.T) {
		assert.True(t, (&Match{Status: StatusAbandoned}).IsGone())
		assert.True(t, DeletedMatch("m1").IsGone())
		assert.False(t, (&Match{Status: StatusWaiting}).IsGone())
	})
}

func TestMatch_MarkOf(t *testing.T) {
	match := &Match{Player1ID: "alice", Player2ID: "bob"}

	assert.Equal(t, PlayerOne, match.MarkOf("alice"))
	assert.Equal(t, PlayerTwo, match.MarkOf("bob"))
	assert.Equal(t, EmptyCell, match.MarkOf("carol"))

	// an empty id never matches an empty player slot
	waiting := NewMatch("alice")
	assert.Equal(t, EmptyCell, waiting.MarkOf(""))
}

func TestMatch_ConfirmActiveState(t *testing.T) {
	t.Run("Returns nil when match is active", func(t *testing.T) {
		// Given: an active match
		match := &Match{Status: StatusActive}

		// When: checking if the match is active
		err := match.ConfirmActiveState()

		// Then: it should return nil error
		assert.NoError(t, err)
	})

	t.Run("Returns ErrGameIsNotStarted when match is waiting", func(t *testing.T) {
		err := (&Match{Status: StatusWaiting}).ConfirmActiveState()
		assert.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Returns ErrGameFinished when match is finished or drawn", func(t *testing.T) {
		assert.ErrorIs(t, (&Match{Status: StatusFinished}).ConfirmActiveState(), apperror.ErrGameFinished)
		assert.ErrorIs(t, (&Match{Status: StatusDraw}).ConfirmActiveState(), apperror.ErrGameFinished)
	})

	t.Run("Returns ErrMatchGone when match was abandoned or deleted", func(t *testing.T) {
		assert.ErrorIs(t, (&Match{Status: StatusAbandoned}).ConfirmActiveState(), apperror.ErrMatchGone)
		assert.ErrorIs(t, DeletedMatch("m1").ConfirmActiveState(), apperror.ErrMatchGone)
	})

	t.Run("Returns error for unknown status", func(t *testing.T) {
		// Given: a match with unknown status
		match := &Match{Status: "unknown"}

		// When: checking if the match is active
		err := match.ConfirmActiveState()

		// Then: it should return an error
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownGameStatus)
	})
}

func TestMatch_ApplyOutcome(t *testing.T) {
	t.Run("Win finishes the match and credits the winner", func(t *testing.T) {
		// Given: an active match where player two already has one win
		match := &Match{Status: StatusActive, TurnOwner: PlayerOne, WinsPlayer2: 1}

		// When: player one wins
		match.ApplyOutcome(Outcome{Result: Win, Winner: PlayerOne}, PlayerTwo)

		// Then: the match is finished, the counter moves and the turn stays put
		assert.Equal(t, StatusFinished, match.Status)
		assert.Equal(t, PlayerOne, match.Winner)
		assert.Equal(t, 1, match.WinsPlayer1)
		assert.Equal(t, 1, match.WinsPlayer2)
		assert.Equal(t, PlayerOne, match.TurnOwner)
	})

	t.Run("Draw does not touch counters", func(t *testing.T) {
		match := &Match{Status: StatusActive, TurnOwner: PlayerTwo}

		match.ApplyOutcome(Outcome{Result: Draw}, PlayerOne)

		assert.Equal(t, StatusDraw, match.Status)
		assert.Equal(t, EmptyCell, match.Winner)
		assert.Zero(t, match.WinsPlayer1)
		assert.Zero(t, match.WinsPlayer2)
		assert.Equal(t, PlayerTwo, match.TurnOwner)
	})

	t.Run("In progress hands the turn over", func(t *testing.T) {
		match := &Match{Status: StatusActive, TurnOwner: PlayerOne}

		match.ApplyOutcome(Outcome{Result: InProgress}, PlayerTwo)

		assert.Equal(t, StatusActive, match.Status)
		assert.Equal(t, PlayerTwo, match.TurnOwner)
	})
}

func TestMatch_ResetRound(t *testing.T) {
	// Given: a finished match with counters
	match := &Match{
		Board:       Board{1, 1, 1, 2, 2, 0, 0, 0, 0},
		TurnOwner:   PlayerOne,
		Status:      StatusFinished,
		Winner:      PlayerOne,
		Player1ID:   "alice",
		Player2ID:   "bob",
		WinsPlayer1: 3,
		WinsPlayer2: 2,
	}

	// When: a new round starts
	match.ResetRound()

	// Then: the board is clear and counters are kept
	expected := &Match{
		TurnOwner:   PlayerOne,
		Status:      StatusActive,
		Winner:      EmptyCell,
		Player1ID:   "alice",
		Player2ID:   "bob",
		WinsPlayer1: 3,
		WinsPlayer2: 2,
	}
	require.Equal(t, expected, match)
}
