// Package search picks moves by exhaustive minimax over the full game tree.
//
// Every node carries the mark to move explicitly. A node maximizes when that mark is the
// perspective mark of the search and minimizes otherwise. Leaves score +1 when the
// perspective mark has won, -1 when its opponent has, and 0 for a draw.
package search

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	scoreWin  = 1
	scoreDraw = 0
	scoreLoss = -1
)

// ScoredMove is a candidate cell and its minimax value.
type ScoredMove struct {
	Cell  entity.Coord `json:"cell"`
	Score int          `json:"score"`
}

func (that ScoredMove) String() string {
	return fmt.Sprintf("%s=%+d", that.Cell, that.Score)
}

// BestMove returns the optimal cell for mark, the player to move on board.
// Ties go to the first cell in row-major order.
//
// It panics if the game on board is already over.
func BestMove(board entity.Board, mark entity.Mark) entity.Coord {
	mustBeOngoing(board, mark)

	return newSolver(mark).choose(board, mark).Cell
}

// Evaluate returns the minimax value of every available cell for mark, in row-major order.
//
// It panics if the game on board is already over.
func Evaluate(board entity.Board, mark entity.Mark) []ScoredMove {
	mustBeOngoing(board, mark)

	s := newSolver(mark)
	cells := board.AvailableCells()
	moves := make([]ScoredMove, 0, len(cells))

	for _, cell := range cells {
		moves = append(moves, ScoredMove{Cell: cell, Score: s.value(play(board, cell, mark), mark.Opponent())})
	}

	return moves
}

func mustBeOngoing(board entity.Board, mark entity.Mark) {
	if !mark.IsValid() {
		panic(fmt.Sprintf("search: invalid mark %d", mark))
	}

	if outcome := board.Outcome(); outcome.IsFinished() {
		panic(fmt.Sprintf("search: board %s is already finished (%s)", board, outcome))
	}
}

type position struct {
	board  entity.Board
	toMove entity.Mark
}

// solver holds the state of one search. Node values depend on the perspective,
// so the table lives and dies with a single call.
type solver struct {
	perspective entity.Mark
	table       map[position]int
}

func newSolver(perspective entity.Mark) *solver {
	return &solver{
		perspective: perspective,
		table:       make(map[position]int),
	}
}

// value returns the minimax value of board with toMove to play.
func (that *solver) value(board entity.Board, toMove entity.Mark) int {
	if board.Outcome().IsFinished() {
		return score(board, that.perspective)
	}

	key := position{board: board, toMove: toMove}
	if v, ok := that.table[key]; ok {
		return v
	}

	v := that.choose(board, toMove).Score
	that.table[key] = v

	return v
}

// choose expands every child of a non-terminal board and keeps the best one for toMove.
func (that *solver) choose(board entity.Board, toMove entity.Mark) ScoredMove {
	maximizing := toMove == that.perspective

	var best ScoredMove
	found := false

	for _, cell := range board.AvailableCells() {
		v := that.value(play(board, cell, toMove), toMove.Opponent())

		switch {
		case !found:
		case maximizing && v > best.Score:
		case !maximizing && v < best.Score:
		default:
			continue
		}

		best = ScoredMove{Cell: cell, Score: v}
		found = true
	}

	if !found {
		panic(fmt.Sprintf("search: no available cells on ongoing board %s", board))
	}

	return best
}

// play returns a copy of board with mark placed at cell.
func play(board entity.Board, cell entity.Coord, mark entity.Mark) entity.Board {
	if err := board.Place(cell.Col, cell.Row, mark); err != nil {
		panic(fmt.Sprintf("search: %v", err))
	}

	return board
}

// score evaluates a finished board from the perspective mark.
func score(board entity.Board, perspective entity.Mark) int {
	outcome := board.Outcome()

	switch outcome.Status {
	case entity.StatusWin:
		if outcome.Winner == perspective {
			return scoreWin
		}
		return scoreLoss
	case entity.StatusDraw:
		return scoreDraw
	default:
		panic(fmt.Sprintf("search: score called on ongoing board %s", board))
	}
}
