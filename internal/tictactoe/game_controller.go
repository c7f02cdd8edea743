package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/triqui/internal/apperror"
	"github.com/rocketscienceinc/triqui/internal/entity"
)

// Round is one game from an empty board until a terminal outcome.
type Round struct {
	Board   entity.Board
	Turn    entity.Mark
	Outcome entity.Outcome
}

func NewRound(starter entity.Mark) *Round {
	return &Round{Turn: starter}
}

// RoundFromBoard rebuilds a round from a stored board, deriving the turn from the starter.
func RoundFromBoard(board entity.Board, starter entity.Mark) *Round {
	round := &Round{Board: board, Outcome: board.Outcome()}

	switch {
	case round.Outcome.IsTerminal():
		round.Turn = entity.EmptyCell
	case board.Filled()%2 == 0:
		round.Turn = starter
	default:
		round.Turn = starter.Opponent()
	}

	return round
}

// MakeTurn applies a move and hands the turn over while the round is in progress.
// The round is left untouched when an error is returned.
func MakeTurn(round *Round, player entity.Mark, cell int) error {
	if round.Outcome.IsTerminal() {
		return apperror.ErrGameFinished
	}

	if round.Turn != player {
		return fmt.Errorf("invalid turn: %w", apperror.ErrNotYourTurn)
	}

	board, err := round.Board.Apply(cell, player)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	round.Board = board
	round.Outcome = board.Outcome()

	if round.Outcome.IsTerminal() {
		round.Turn = entity.EmptyCell
	} else {
		round.Turn = player.Opponent()
	}

	return nil
}

// MakeMatchTurn validates a move against a match mirror and applies it in place.
func MakeMatchTurn(match *entity.Match, player entity.Mark, cell int) error {
	if err := match.ConfirmActiveState(); err != nil {
		return err
	}

	if !player.IsPlayer() {
		return apperror.ErrPlayerNotInGame
	}

	if match.TurnOwner != player {
		return fmt.Errorf("invalid turn: %w", apperror.ErrNotYourTurn)
	}

	board, err := match.Board.Apply(cell, player)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	match.Board = board
	match.ApplyOutcome(board.Outcome(), player.Opponent())

	return nil
}
