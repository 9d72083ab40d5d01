package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

var ErrMoveNotFound = errors.New("move not found")

// MoveRepository caches solved positions: the best cell for a mark on a board.
type MoveRepository interface {
	Get(ctx context.Context, board entity.Board, mark entity.Mark) (entity.Coord, error)
	Save(ctx context.Context, board entity.Board, mark entity.Mark, cell entity.Coord) error
}

func moveKey(board entity.Board, mark entity.Mark) string {
	return "move:" + board.Key() + ":" + mark.String()
}

type dbMove struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMoveRepository - stores moves in Redis. A zero ttl keeps them forever.
func NewMoveRepository(client *redis.Client, ttl time.Duration) MoveRepository {
	return &dbMove{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbMove) Save(ctx context.Context, board entity.Board, mark entity.Mark, cell entity.Coord) error {
	cellJSON, err := json.Marshal(cell)
	if err != nil {
		return fmt.Errorf("could not marshal move: %w", err)
	}

	err = that.client.Set(ctx, moveKey(board, mark), cellJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set move: %w", err)
	}

	return nil
}

func (that *dbMove) Get(ctx context.Context, board entity.Board, mark entity.Mark) (entity.Coord, error) {
	response, err := that.client.Get(ctx, moveKey(board, mark)).Result()

	if errors.Is(err, redis.Nil) {
		return entity.Coord{}, ErrMoveNotFound
	}

	if err != nil {
		return entity.Coord{}, fmt.Errorf("failed to get move: %w", err)
	}

	var cell entity.Coord
	if err = json.Unmarshal([]byte(response), &cell); err != nil {
		return entity.Coord{}, fmt.Errorf("failed to unmarshal move: %w", err)
	}

	if !cell.InBounds() {
		return entity.Coord{}, fmt.Errorf("cached move %s for %s is out of bounds", cell, board)
	}

	return cell, nil
}
