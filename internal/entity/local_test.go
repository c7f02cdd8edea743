package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	for input, want := range map[string]Difficulty{
		"easy":    EasyDifficulty,
		"Medium":  MediumDifficulty,
		" HARD ":  HardDifficulty,
		"hard":    HardDifficulty,
		"medium ": MediumDifficulty,
	} {
		got, err := ParseDifficulty(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParseDifficulty("impossible")
	require.ErrorIs(t, err, ErrUnknownDifficulty)
}

func TestScoreTally_Record(t *testing.T) {
	t.Run("Human win only moves wins_player", func(t *testing.T) {
		tally := ScoreTally{WinsPlayer: 1, WinsOpponent: 2, Draws: 3}

		tally.Record(Outcome{Result: Win, Winner: Human})

		assert.Equal(t, ScoreTally{WinsPlayer: 2, WinsOpponent: 2, Draws: 3}, tally)
	})

	t.Run("Computer win only moves wins_opponent", func(t *testing.T) {
		tally := ScoreTally{}

		tally.Record(Outcome{Result: Win, Winner: Computer})

		assert.Equal(t, ScoreTally{WinsOpponent: 1}, tally)
	})

	t.Run("Draw only moves draws", func(t *testing.T) {
		tally := ScoreTally{}

		tally.Record(Outcome{Result: Draw})

		assert.Equal(t, ScoreTally{Draws: 1}, tally)
	})

	t.Run("In progress is ignored", func(t *testing.T) {
		tally := ScoreTally{}

		tally.Record(Outcome{Result: InProgress})

		assert.Equal(t, ScoreTally{}, tally)
	})
}

func TestLocalState_Turn(t *testing.T) {
	t.Run("Starter moves on an even count", func(t *testing.T) {
		state := NewLocalState(Computer, HardDifficulty)
		assert.Equal(t, Computer, state.Turn())

		state.Board = Board{Computer, Human, E, E, E, E, E, E, E}
		assert.Equal(t, Computer, state.Turn())
	})

	t.Run("Other party moves on an odd count", func(t *testing.T) {
		state := NewLocalState(Human, EasyDifficulty)
		state.Board = Board{Human, E, E, E, E, E, E, E, E}

		assert.Equal(t, Computer, state.Turn())
	})

	t.Run("Nobody moves once the game is over", func(t *testing.T) {
		state := NewLocalState(Human, EasyDifficulty)
		state.Board = Board{Human, Human, Human, Computer, Computer, E, E, E, E}
		state.Outcome = state.Board.Outcome()

		assert.Equal(t, EmptyCell, state.Turn())
	})
}

func TestOutcomeSound(t *testing.T) {
	assert.Equal(t, SoundDraw, OutcomeSound(Outcome{Result: Draw}, Human))
	assert.Equal(t, SoundWin, OutcomeSound(Outcome{Result: Win, Winner: Human}, Human))
	assert.Equal(t, SoundLoss, OutcomeSound(Outcome{Result: Win, Winner: Computer}, Human))
}
