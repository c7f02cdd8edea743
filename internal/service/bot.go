package service

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/rocketscienceinc/triqui/internal/apperror"
	"github.com/rocketscienceinc/triqui/internal/entity"
)

type BotService interface {
	ChooseMove(board entity.Board, difficulty entity.Difficulty, bot, human entity.Mark) (int, error)
}

type botService struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewBotService(rnd *rand.Rand) BotService {
	return &botService{
		rnd: rnd,
	}
}

func (that *botService) ChooseMove(board entity.Board, difficulty entity.Difficulty, bot, human entity.Mark) (int, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return 0, apperror.ErrNoAvailableMove
	}

	switch difficulty {
	case entity.EasyDifficulty:
		return that.randomCell(availableCells), nil
	case entity.MediumDifficulty:
		return heuristicCell(board, bot, human), nil
	case entity.HardDifficulty:
		return optimalCell(board, bot, human), nil
	default:
		return 0, fmt.Errorf("bot failed to choose move: %w", entity.ErrUnknownDifficulty)
	}
}

func (that *botService) randomCell(availableCells []int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return availableCells[that.rnd.Intn(len(availableCells))] //nolint: gosec // it's ok
}

// heuristicCell takes a win, then a block, then the center, a corner, and finally the first free cell.
func heuristicCell(board entity.Board, bot, human entity.Mark) int {
	if cell, ok := winningCell(board, bot); ok {
		return cell
	}

	if cell, ok := winningCell(board, human); ok {
		return cell
	}

	if board[entity.CenterCell] == entity.EmptyCell {
		return entity.CenterCell
	}

	for _, cell := range entity.CornerCells {
		if board[cell] == entity.EmptyCell {
			return cell
		}
	}

	return board.EmptyCells()[0]
}

// winningCell returns the lowest free cell that completes a line for mark.
func winningCell(board entity.Board, mark entity.Mark) (int, bool) {
	for _, cell := range board.EmptyCells() {
		next, err := board.Apply(cell, mark)
		if err != nil {
			continue
		}

		if next.Outcome().IsWinFor(mark) {
			return cell, true
		}
	}

	return 0, false
}

const minimaxWin = 10

// optimalCell runs an exhaustive minimax. Equal scores keep the lowest index.
func optimalCell(board entity.Board, bot, human entity.Mark) int {
	search := &minimax{
		bot:   bot,
		human: human,
		memo:  make(map[entity.Board]int),
	}

	bestCell, bestScore := -1, 0
	for _, cell := range board.EmptyCells() {
		next, _ := board.Apply(cell, bot)

		score := search.score(next, human)
		if bestCell == -1 || score > bestScore {
			bestCell, bestScore = cell, score
		}
	}

	return bestCell
}

type minimax struct {
	bot   entity.Mark
	human entity.Mark
	memo  map[entity.Board]int
}

// score rates a position for the bot. Faster wins and slower losses score higher.
func (that *minimax) score(board entity.Board, toMove entity.Mark) int {
	if cached, ok := that.memo[board]; ok {
		return cached
	}

	var result int

	outcome := board.Outcome()
	switch {
	case outcome.IsWinFor(that.bot):
		result = minimaxWin - board.Filled()
	case outcome.IsWinFor(that.human):
		result = board.Filled() - minimaxWin
	case outcome.Result == entity.Draw:
		result = 0
	default:
		maximizing := toMove == that.bot
		first := true

		for _, cell := range board.EmptyCells() {
			next, _ := board.Apply(cell, toMove)
			score := that.score(next, toMove.Opponent())

			if first || (maximizing && score > result) || (!maximizing && score < result) {
				result = score
				first = false
			}
		}
	}

	that.memo[board] = result

	return result
}
