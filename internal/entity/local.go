package entity

import (
	"errors"
	"fmt"
	"strings"
)

type Difficulty string

const (
	EasyDifficulty   Difficulty = "easy"
	MediumDifficulty Difficulty = "medium"
	HardDifficulty   Difficulty = "hard"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

func ParseDifficulty(value string) (Difficulty, error) {
	switch difficulty := Difficulty(strings.ToLower(strings.TrimSpace(value))); difficulty {
	case EasyDifficulty, MediumDifficulty, HardDifficulty:
		return difficulty, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, value)
	}
}

// ScoreTally is the per-device history of finished local games.
type ScoreTally struct {
	WinsPlayer   int `json:"wins_player"`
	WinsOpponent int `json:"wins_opponent"`
	Draws        int `json:"draws"`
}

// Record counts one terminal outcome. In-progress outcomes are ignored.
func (that *ScoreTally) Record(outcome Outcome) {
	switch {
	case outcome.IsWinFor(Human):
		that.WinsPlayer++
	case outcome.IsWinFor(Computer):
		that.WinsOpponent++
	case outcome.Result == Draw:
		that.Draws++
	}
}

// LocalSnapshot is what gets persisted to resume a local game.
type LocalSnapshot struct {
	Board      Board
	Starter    Mark
	Difficulty Difficulty
}

type LocalState struct {
	Board      Board      `json:"board"`
	Outcome    Outcome    `json:"outcome"`
	Starter    Mark       `json:"starter"`
	Difficulty Difficulty `json:"difficulty"`
	Score      ScoreTally `json:"score"`
}

func NewLocalState(starter Mark, difficulty Difficulty) LocalState {
	return LocalState{
		Starter:    starter,
		Difficulty: difficulty,
	}
}

// Turn is derived from the starter and the number of filled cells.
func (that LocalState) Turn() Mark {
	if that.Outcome.IsTerminal() {
		return EmptyCell
	}

	if that.Board.Filled()%2 == 0 {
		return that.Starter
	}

	return that.Starter.Opponent()
}

func (that LocalState) Snapshot() LocalSnapshot {
	return LocalSnapshot{
		Board:      that.Board,
		Starter:    that.Starter,
		Difficulty: that.Difficulty,
	}
}
