package apperror

import (
	"errors"
	"fmt"
)

var ErrInvalidMove = errors.New("invalid move")

var (
	ErrInvalidCell  = fmt.Errorf("%w: invalid cell index", ErrInvalidMove)
	ErrCellOccupied = fmt.Errorf("%w: cell is already occupied", ErrInvalidMove)
	ErrNotYourTurn  = fmt.Errorf("%w: it's not your turn", ErrInvalidMove)
)

var (
	ErrGameFinished       = errors.New("game is already finished")
	ErrGameIsNotStarted   = errors.New("game is not started")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameAlreadyExists  = errors.New("game already exists")
	ErrNoAvailableMove    = errors.New("no available moves")
	ErrSessionClosed      = errors.New("session is closed")

	ErrPlayerNotInGame   = errors.New("player is not part of this game")
	ErrCannotJoinOwnGame = errors.New("cannot join your own game")
	ErrNoWaitingMatches  = errors.New("no waiting matches")
	ErrMatchGone         = errors.New("match is gone")

	ErrRemoteRead  = errors.New("remote read failed")
	ErrRemoteWrite = errors.New("remote write failed")
)
