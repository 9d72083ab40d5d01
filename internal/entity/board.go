package entity

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

// Mark is the symbol a player places on the board. The zero value means "no mark".
type Mark uint8

const (
	NoMark Mark = iota
	PlayerX
	PlayerO
)

func (that Mark) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return "-"
	}
}

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return NoMark
	}
}

func (that Mark) IsValid() bool {
	return that == PlayerX || that == PlayerO
}

func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

// UnmarshalText - accepts "X", "O", and "-" or "" for no mark.
func (that *Mark) UnmarshalText(text []byte) error {
	if s := string(text); s == "" || s == "-" {
		*that = NoMark
		return nil
	}

	mark, err := ParseMark(string(text))
	if err != nil {
		return err
	}

	*that = mark

	return nil
}

// ParseMark - parses "x" or "o", case-insensitive.
func ParseMark(s string) (Mark, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return PlayerX, nil
	case "O":
		return PlayerO, nil
	default:
		return NoMark, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, s)
	}
}

const (
	BoardSize = 3
	CellCount = BoardSize * BoardSize

	fullBoard uint16 = 1<<CellCount - 1
)

// Coord addresses a cell by column and row, each in [0,2].
type Coord struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

func (that Coord) InBounds() bool {
	return that.Col >= 0 && that.Col < BoardSize && that.Row >= 0 && that.Row < BoardSize
}

func (that Coord) index() int {
	return that.Row*BoardSize + that.Col
}

func (that Coord) String() string {
	return fmt.Sprintf("(%d,%d)", that.Col, that.Row)
}

// WinCombos lists every winning triple as linear cell indices: rows, columns, then diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a 3x3 grid stored as one 9-bit occupancy set per mark.
// It is a small value: assigning a Board copies it.
type Board struct {
	x uint16
	o uint16
}

func NewBoard() Board {
	return Board{}
}

// Place records mark at (col, row). The board is left unchanged on error.
func (that *Board) Place(col, row int, mark Mark) error {
	cell := Coord{Col: col, Row: row}
	if !cell.InBounds() {
		return fmt.Errorf("%w: %s", apperror.ErrOutOfBounds, cell)
	}

	if !mark.IsValid() {
		return apperror.ErrInvalidMark
	}

	bit := uint16(1) << cell.index()
	if (that.x|that.o)&bit != 0 {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, cell)
	}

	if mark == PlayerX {
		that.x |= bit
	} else {
		that.o |= bit
	}

	return nil
}

// CellAt returns the mark at (col, row) and whether the cell is occupied.
// Coordinates outside the grid hold no mark.
func (that Board) CellAt(col, row int) (Mark, bool) {
	cell := Coord{Col: col, Row: row}
	if !cell.InBounds() {
		return NoMark, false
	}

	mark := that.at(cell.index())

	return mark, mark != NoMark
}

func (that Board) at(i int) Mark {
	bit := uint16(1) << i
	switch {
	case that.x&bit != 0:
		return PlayerX
	case that.o&bit != 0:
		return PlayerO
	default:
		return NoMark
	}
}

// AvailableCells returns the empty cells in row-major order.
func (that Board) AvailableCells() []Coord {
	occupied := that.x | that.o
	cells := make([]Coord, 0, CellCount-bits.OnesCount16(occupied))

	for row := range BoardSize {
		for col := range BoardSize {
			cell := Coord{Col: col, Row: row}
			if occupied&(1<<cell.index()) == 0 {
				cells = append(cells, cell)
			}
		}
	}

	return cells
}

// Outcome classifies the board. Rows are checked before columns before diagonals.
func (that Board) Outcome() Outcome {
	for _, combo := range WinCombos {
		mask := uint16(1)<<combo[0] | uint16(1)<<combo[1] | uint16(1)<<combo[2]

		if that.x&mask == mask {
			return Outcome{Status: StatusWin, Winner: PlayerX}
		}
		if that.o&mask == mask {
			return Outcome{Status: StatusWin, Winner: PlayerO}
		}
	}

	if that.x|that.o == fullBoard {
		return Outcome{Status: StatusDraw}
	}

	return Outcome{Status: StatusOngoing}
}

// ActiveTurn infers whose turn it is from the number of marks placed. X always moves first.
func (that Board) ActiveTurn() Mark {
	xCount, oCount := bits.OnesCount16(that.x), bits.OnesCount16(that.o)

	if xCount > oCount {
		return PlayerO
	}

	return PlayerX
}

func (that Board) IsEmpty() bool {
	return that.x|that.o == 0
}

// Key encodes the board row-major as 9 characters of 'X', 'O' and '-'.
func (that Board) Key() string {
	var sb strings.Builder
	sb.Grow(CellCount)

	for i := range CellCount {
		sb.WriteString(that.at(i).String())
	}

	return sb.String()
}

func (that Board) String() string {
	return that.Key()
}

func (that Board) MarshalText() ([]byte, error) {
	return []byte(that.Key()), nil
}

func (that *Board) UnmarshalText(text []byte) error {
	board, err := ParseBoard(string(text))
	if err != nil {
		return err
	}

	*that = board

	return nil
}

// ParseBoard - decodes the Key format; '.' is also accepted for an empty cell.
func ParseBoard(s string) (Board, error) {
	if len(s) != CellCount {
		return Board{}, fmt.Errorf("%w: want %d cells, got %d", apperror.ErrInvalidBoard, CellCount, len(s))
	}

	var board Board
	for i := range CellCount {
		bit := uint16(1) << i
		switch s[i] {
		case 'X', 'x':
			board.x |= bit
		case 'O', 'o':
			board.o |= bit
		case '-', '.':
		default:
			return Board{}, fmt.Errorf("%w: unexpected %q at %d", apperror.ErrInvalidBoard, s[i], i)
		}
	}

	return board, nil
}
