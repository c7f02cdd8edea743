package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/triqui/internal/apperror"
)

// Mark is the content of a single board cell.
type Mark int

const (
	EmptyCell Mark = iota
	PlayerOne
	PlayerTwo
)

// In computer mode the human always plays the first symbol.
const (
	Human    = PlayerOne
	Computer = PlayerTwo
)

const (
	BoardSize  = 9
	CenterCell = 4
)

var (
	ErrInvalidMark  = errors.New("invalid mark")
	ErrInvalidBoard = errors.New("invalid board encoding")

	WinCombos = [8][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}

	CornerCells = [4]int{0, 2, 6, 8}
)

func (that Mark) IsPlayer() bool {
	return that == PlayerOne || that == PlayerTwo
}

func (that Mark) Opponent() Mark {
	switch that {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	default:
		return EmptyCell
	}
}

func (that Mark) String() string {
	switch that {
	case EmptyCell:
		return " "
	case PlayerOne:
		return "X"
	case PlayerTwo:
		return "O"
	default:
		return "?"
	}
}

// Result is the kind of a game outcome.
type Result int

const (
	InProgress Result = iota
	Draw
	Win
)

func (that Result) String() string {
	switch that {
	case InProgress:
		return "in_progress"
	case Draw:
		return "draw"
	case Win:
		return "win"
	default:
		return "unknown"
	}
}

func (that Result) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Result) UnmarshalText(text []byte) error {
	switch string(text) {
	case "in_progress":
		*that = InProgress
	case "draw":
		*that = Draw
	case "win":
		*that = Win
	default:
		return fmt.Errorf("unknown result %q", text)
	}

	return nil
}

// Outcome is derived from a board and never stored apart from it.
type Outcome struct {
	Result Result `json:"result"`
	Winner Mark   `json:"winner"`
}

func (that Outcome) IsTerminal() bool {
	return that.Result != InProgress
}

func (that Outcome) IsWinFor(mark Mark) bool {
	return that.Result == Win && that.Winner == mark
}

// Board holds cells in row-major order: index i is row i/3, column i%3.
type Board [BoardSize]Mark

// Apply returns a copy of the board with mark placed on cell. The receiver is never modified.
func (that Board) Apply(cell int, mark Mark) (Board, error) {
	if cell < 0 || cell >= BoardSize {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if !mark.IsPlayer() {
		return that, fmt.Errorf("%w: %d", ErrInvalidMark, mark)
	}

	if that[cell] != EmptyCell {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	that[cell] = mark

	return that, nil
}

// Outcome checks the winning lines in a fixed order, then the draw condition.
func (that Board) Outcome() Outcome {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return Outcome{Result: Win, Winner: a}
		}
	}

	// the game will continue until all the squares are full
	if !that.IsFull() {
		return Outcome{Result: InProgress}
	}

	return Outcome{Result: Draw}
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

func (that Board) Filled() int {
	return BoardSize - len(that.EmptyCells())
}

// Encode renders the board as nine digits, e.g. "120000000".
func (that Board) Encode() string {
	var builder strings.Builder
	builder.Grow(BoardSize)

	for _, cell := range that {
		builder.WriteByte(byte('0' + cell))
	}

	return builder.String()
}

func DecodeBoard(encoded string) (Board, error) {
	var board Board

	if len(encoded) != BoardSize {
		return board, fmt.Errorf("%w: length %d", ErrInvalidBoard, len(encoded))
	}

	for i := range encoded {
		mark := Mark(encoded[i] - '0')
		if mark != EmptyCell && !mark.IsPlayer() {
			return board, fmt.Errorf("%w: cell %d is %q", ErrInvalidBoard, i, encoded[i])
		}
		board[i] = mark
	}

	return board, nil
}

// BoardFromCells validates a decoded cell list, as received from a remote document.
func BoardFromCells(cells []int) (Board, error) {
	var board Board

	if len(cells) != BoardSize {
		return board, fmt.Errorf("%w: %d cells", ErrInvalidBoard, len(cells))
	}

	for i, value := range cells {
		mark := Mark(value)
		if mark != EmptyCell && !mark.IsPlayer() {
			return board, fmt.Errorf("%w: cell %d is %d", ErrInvalidBoard, i, value)
		}
		board[i] = mark
	}

	return board, nil
}
