package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/triqui/internal/apperror"
)

const (
	StatusWaiting   = "waiting"
	StatusActive    = "active"
	StatusFinished  = "finished"
	StatusDraw      = "draw"
	StatusAbandoned = "abandoned"

	// StatusDeleted is never written remotely. Subscribers receive it when the document disappears.
	StatusDeleted = "deleted"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Match is the replicated two-player document. The remote copy is authoritative.
type Match struct {
	ID          string `json:"id"`
	Board       Board  `json:"board"`
	TurnOwner   Mark   `json:"turn_owner"`
	Status      string `json:"status"`
	Winner      Mark   `json:"winner"`
	Player1ID   string `json:"player1_id"`
	Player2ID   string `json:"player2_id"`
	WinsPlayer1 int    `json:"wins_player1"`
	WinsPlayer2 int    `json:"wins_player2"`
}

func NewMatch(creatorID string) *Match {
	return &Match{
		Player1ID: creatorID,
		TurnOwner: PlayerOne,
		Status:    StatusWaiting,
		Winner:    EmptyCell,
	}
}

func DeletedMatch(id string) *Match {
	return &Match{
		ID:     id,
		Status: StatusDeleted,
	}
}

func (that *Match) Clone() *Match {
	clone := *that
	return &clone
}

func (that *Match) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Match) IsActive() bool {
	return that.Status == StatusActive
}

func (that *Match) IsFinished() bool {
	return that.Status == StatusFinished || that.Status == StatusDraw
}

// IsGone reports whether peers must leave the match.
func (that *Match) IsGone() bool {
	return that.Status == StatusAbandoned || that.Status == StatusDeleted
}

// MarkOf returns the symbol a player uses in this match, or EmptyCell for outsiders.
func (that *Match) MarkOf(playerID string) Mark {
	switch {
	case playerID == "":
		return EmptyCell
	case playerID == that.Player1ID:
		return PlayerOne
	case playerID == that.Player2ID:
		return PlayerTwo
	default:
		return EmptyCell
	}
}

func (that *Match) ConfirmActiveState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsGone():
		return apperror.ErrMatchGone
	case that.IsActive():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// ApplyOutcome moves the match to the status implied by its board and credits the winner.
// The turn owner is kept unchanged on terminal boards.
func (that *Match) ApplyOutcome(outcome Outcome, nextTurn Mark) {
	switch outcome.Result {
	case Win:
		that.Status = StatusFinished
		that.Winner = outcome.Winner
		if outcome.Winner == PlayerOne {
			that.WinsPlayer1++
		} else {
			that.WinsPlayer2++
		}
	case Draw:
		that.Status = StatusDraw
		that.Winner = EmptyCell
	default:
		that.Status = StatusActive
		that.TurnOwner = nextTurn
	}
}

// ResetRound clears the board for another round between the same players.
func (that *Match) ResetRound() {
	that.Board = Board{}
	that.TurnOwner = PlayerOne
	that.Status = StatusActive
	that.Winner = EmptyCell
}
