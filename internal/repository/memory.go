package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

type memoryMove struct {
	mu    sync.RWMutex
	moves map[string]entity.Coord
}

// NewMemoryMoveRepository - keeps moves for the lifetime of the process.
func NewMemoryMoveRepository() MoveRepository {
	return &memoryMove{
		moves: make(map[string]entity.Coord),
	}
}

func (that *memoryMove) Save(_ context.Context, board entity.Board, mark entity.Mark, cell entity.Coord) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.moves[moveKey(board, mark)] = cell

	return nil
}

func (that *memoryMove) Get(_ context.Context, board entity.Board, mark entity.Mark) (entity.Coord, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	cell, ok := that.moves[moveKey(board, mark)]
	if !ok {
		return entity.Coord{}, ErrMoveNotFound
	}

	return cell, nil
}
