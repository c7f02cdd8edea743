package service

import (
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/triqui/internal/apperror"
	"github.com/rocketscienceinc/triqui/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	e = entity.EmptyCell
	x = entity.PlayerOne
	o = entity.PlayerTwo
)

func newTestBot(seed int64) BotService {
	return NewBotService(rand.New(rand.NewSource(seed))) //nolint: gosec // deterministic in tests
}

func TestBotService_ChooseMove_Medium(t *testing.T) {
	tests := []struct {
		name  string
		board entity.Board
		bot   entity.Mark
		want  int
	}{
		{
			name:  "takes the immediate win",
			board: entity.Board{x, x, e, o, o, e, e, e, e},
			bot:   x,
			want:  2,
		},
		{
			name:  "prefers winning over blocking",
			board: entity.Board{x, x, e, o, o, e, e, e, e},
			bot:   o,
			want:  5,
		},
		{
			name:  "blocks the human line",
			board: entity.Board{x, e, e, e, x, e, o, e, e},
			bot:   o,
			want:  8,
		},
		{
			name:  "takes the center",
			board: entity.Board{x, e, e, e, e, e, e, e, e},
			bot:   o,
			want:  entity.CenterCell,
		},
		{
			name:  "takes the first free corner",
			board: entity.Board{x, e, e, e, o, e, e, e, e},
			bot:   x,
			want:  2,
		},
		{
			name:  "falls back to the first free cell",
			board: entity.Board{x, o, x, e, o, e, o, x, o},
			bot:   x,
			want:  3,
		},
	}

	bot := newTestBot(1)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When: the bot chooses a move
			cell, err := bot.ChooseMove(tt.board, entity.MediumDifficulty, tt.bot, tt.bot.Opponent())

			// Then: the heuristic picks the expected cell
			require.NoError(t, err)
			assert.Equal(t, tt.want, cell)
		})
	}
}

func TestBotService_ChooseMove_Easy(t *testing.T) {
	// Given: a board with three free cells
	board := entity.Board{x, o, x, e, o, e, o, x, e}
	bot := newTestBot(42)

	for range 100 {
		// When: the easy bot chooses a move
		cell, err := bot.ChooseMove(board, entity.EasyDifficulty, o, x)

		// Then: it is always one of the free cells
		require.NoError(t, err)
		assert.Contains(t, []int{3, 5, 8}, cell)
	}
}

func TestBotService_ChooseMove_Hard(t *testing.T) {
	t.Run("Takes the fastest win", func(t *testing.T) {
		// Given: the bot can win on 2 or keep playing
		board := entity.Board{o, o, e, x, x, e, x, e, e}

		// When: the hard bot chooses
		cell, err := newTestBot(1).ChooseMove(board, entity.HardDifficulty, o, x)

		// Then: it wins right away
		require.NoError(t, err)
		assert.Equal(t, 2, cell)
	})

	t.Run("Blocks a forced loss", func(t *testing.T) {
		board := entity.Board{x, e, e, e, x, e, e, e, e}

		cell, err := newTestBot(1).ChooseMove(board, entity.HardDifficulty, o, x)

		require.NoError(t, err)
		assert.Equal(t, 8, cell)
	})

	t.Run("Answers a center opening with a corner", func(t *testing.T) {
		board := entity.Board{e, e, e, e, x, e, e, e, e}

		cell, err := newTestBot(1).ChooseMove(board, entity.HardDifficulty, o, x)

		require.NoError(t, err)
		assert.Contains(t, entity.CornerCells, cell)
	})
}

func TestBotService_HardNeverLoses(t *testing.T) {
	bot := newTestBot(7)
	humanRnd := rand.New(rand.NewSource(99)) //nolint: gosec // deterministic in tests

	humanStrategies := map[string]func(board entity.Board) int{
		"random": func(board entity.Board) int {
			cells := board.EmptyCells()
			return cells[humanRnd.Intn(len(cells))]
		},
		"heuristic": func(board entity.Board) int {
			return heuristicCell(board, entity.Human, entity.Computer)
		},
	}

	for name, strategy := range humanStrategies {
		t.Run(name, func(t *testing.T) {
			for game := range 200 {
				starter := entity.Human
				if game%2 == 1 {
					starter = entity.Computer
				}

				board := entity.Board{}
				turn := starter

				for !board.Outcome().IsTerminal() {
					var cell int
					if turn == entity.Human {
						cell = strategy(board)
					} else {
						var err error
						cell, err = bot.ChooseMove(board, entity.HardDifficulty, entity.Computer, entity.Human)
						require.NoError(t, err)
					}

					next, err := board.Apply(cell, turn)
					require.NoError(t, err)

					board = next
					turn = turn.Opponent()
				}

				require.False(t, board.Outcome().IsWinFor(entity.Human), "human won on %s", board.Encode())
			}
		})
	}
}

func TestBotService_ChooseMove_CenterOpeningNeverStuck(t *testing.T) {
	// Given: the human opens in the center against the hard bot
	bot := newTestBot(3)
	board, err := entity.Board{}.Apply(entity.CenterCell, entity.Human)
	require.NoError(t, err)

	turn := entity.Computer
	for !board.IsFull() && !board.Outcome().IsTerminal() {
		var cell int
		if turn == entity.Computer {
			cell, err = bot.ChooseMove(board, entity.HardDifficulty, entity.Computer, entity.Human)
		} else {
			cell, err = bot.ChooseMove(board, entity.MediumDifficulty, entity.Human, entity.Computer)
		}
		require.NoError(t, err)

		board, err = board.Apply(cell, turn)
		require.NoError(t, err)
		turn = turn.Opponent()
	}

	// Then: a full board is always resolved
	if board.IsFull() {
		assert.NotEqual(t, entity.InProgress, board.Outcome().Result)
	}
	assert.False(t, board.Outcome().IsWinFor(entity.Human))
}

func TestBotService_ChooseMove_Errors(t *testing.T) {
	bot := newTestBot(1)

	t.Run("Full board has no move", func(t *testing.T) {
		board := entity.Board{x, o, x, x, o, o, o, x, x}

		_, err := bot.ChooseMove(board, entity.HardDifficulty, o, x)

		require.ErrorIs(t, err, apperror.ErrNoAvailableMove)
	})

	t.Run("Unknown difficulty", func(t *testing.T) {
		_, err := bot.ChooseMove(entity.Board{}, "impossible", o, x)

		require.ErrorIs(t, err, entity.ErrUnknownDifficulty)
	})
}
