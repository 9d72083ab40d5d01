package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
)

var (
	errRedisDown     = errors.New("redis down")
	errStorageIsFull = errors.New("storage is full")
)

type mockMoveRepo struct {
	mock.Mock
}

func (that *mockMoveRepo) Get(ctx context.Context, board entity.Board, mark entity.Mark) (entity.Coord, error) {
	args := that.Called(ctx, board, mark)
	return args.Get(0).(entity.Coord), args.Error(1)
}

func (that *mockMoveRepo) Save(ctx context.Context, board entity.Board, mark entity.Mark, cell entity.Coord) error {
	args := that.Called(ctx, board, mark, cell)
	return args.Error(0)
}

func newMockMoveRepo(t *testing.T) *mockMoveRepo {
	t.Helper()

	repo := &mockMoveRepo{}
	t.Cleanup(func() { repo.AssertExpectations(t) })

	return repo
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2)) //nolint: gosec // it's ok
}

func mustParseBoard(t *testing.T, s string) entity.Board {
	t.Helper()

	board, err := entity.ParseBoard(s)
	require.NoError(t, err)

	return board
}

// botGame returns an ongoing game on board with the bot holding botMark and to move.
func botGame(t *testing.T, board string, botMark entity.Mark) *entity.Game {
	t.Helper()

	game := entity.NewGame("game-1")
	game.Board = mustParseBoard(t, board)
	game.Turn = botMark
	game.Players = []*entity.Player{
		entity.NewHumanPlayer("human", botMark.Opponent()),
		entity.NewBotPlayer(botMark),
	}

	return game
}

func TestBotService_OpeningBook(t *testing.T) {
	t.Run("Empty board uses the opening book", func(t *testing.T) {
		for range 20 {
			// Given: an empty board and no expectations on the cache
			moveRepo := newMockMoveRepo(t)
			bot := NewBotService(discardLogger(), moveRepo, true, nil)
			game := botGame(t, "---------", entity.PlayerX)

			// When: the bot moves
			cell, err := bot.MakeTurn(context.Background(), game)

			// Then: it took the center or a corner without touching the cache
			require.NoError(t, err)
			assert.Contains(t, OpeningMoves, cell)
			assert.Equal(t, entity.PlayerO, game.Turn)
		}
	})

	t.Run("Opening book disabled searches the empty board", func(t *testing.T) {
		// Given: the cache misses
		moveRepo := newMockMoveRepo(t)
		empty := entity.NewBoard()
		moveRepo.On("Get", mock.Anything, empty, entity.PlayerX).Return(entity.Coord{}, repository.ErrMoveNotFound).Once()
		moveRepo.On("Save", mock.Anything, empty, entity.PlayerX, entity.Coord{Col: 0, Row: 0}).Return(nil).Once()

		bot := NewBotService(discardLogger(), moveRepo, false, fixedRand())
		game := botGame(t, "---------", entity.PlayerX)

		// When: the bot moves
		cell, err := bot.MakeTurn(context.Background(), game)

		// Then: search picks the first of the equally drawn openings and caches it
		require.NoError(t, err)
		assert.Equal(t, entity.Coord{Col: 0, Row: 0}, cell)
	})
}

func TestBotService_MoveCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Miss searches and saves", func(t *testing.T) {
		board := mustParseBoard(t, "----O-XX-")
		moveRepo := newMockMoveRepo(t)
		moveRepo.On("Get", mock.Anything, board, entity.PlayerO).Return(entity.Coord{}, repository.ErrMoveNotFound).Once()
		moveRepo.On("Save", mock.Anything, board, entity.PlayerO, entity.Coord{Col: 2, Row: 2}).Return(nil).Once()

		bot := NewBotService(discardLogger(), moveRepo, true, fixedRand())
		game := botGame(t, "----O-XX-", entity.PlayerO)

		cell, err := bot.MakeTurn(ctx, game)

		require.NoError(t, err)
		assert.Equal(t, entity.Coord{Col: 2, Row: 2}, cell)
	})

	t.Run("Hit skips the search", func(t *testing.T) {
		// Given: the cache holds a legal but non-optimal move
		board := mustParseBoard(t, "----O-XX-")
		moveRepo := newMockMoveRepo(t)
		moveRepo.On("Get", mock.Anything, board, entity.PlayerO).Return(entity.Coord{Col: 0, Row: 0}, nil).Once()

		bot := NewBotService(discardLogger(), moveRepo, true, fixedRand())
		game := botGame(t, "----O-XX-", entity.PlayerO)

		// When: the bot moves
		cell, err := bot.MakeTurn(ctx, game)

		// Then: the cached move is played and nothing is saved
		require.NoError(t, err)
		assert.Equal(t, entity.Coord{Col: 0, Row: 0}, cell)
	})

	t.Run("Occupied cached move is ignored", func(t *testing.T) {
		board := mustParseBoard(t, "----O-XX-")
		moveRepo := newMockMoveRepo(t)
		moveRepo.On("Get", mock.Anything, board, entity.PlayerO).Return(entity.Coord{Col: 1, Row: 1}, nil).Once()
		moveRepo.On("Save", mock.Anything, board, entity.PlayerO, entity.Coord{Col: 2, Row: 2}).Return(nil).Once()

		bot := NewBotService(discardLogger(), moveRepo, true, fixedRand())
		game := botGame(t, "----O-XX-", entity.PlayerO)

		cell, err := bot.MakeTurn(ctx, game)

		require.NoError(t, err)
		assert.Equal(t, entity.Coord{Col: 2, Row: 2}, cell)
	})

	t.Run("Cache errors fall back to search", func(t *testing.T) {
		// Given: a cache that fails on both read and write
		board := mustParseBoard(t, "XX-OO----")
		moveRepo := newMockMoveRepo(t)
		moveRepo.On("Get", mock.Anything, board, entity.PlayerX).Return(entity.Coord{}, errRedisDown).Once()
		moveRepo.On("Save", mock.Anything, board, entity.PlayerX, entity.Coord{Col: 2, Row: 0}).Return(errStorageIsFull).Once()

		bot := NewBotService(discardLogger(), moveRepo, true, fixedRand())
		game := botGame(t, "XX-OO----", entity.PlayerX)

		// When: the bot moves
		cell, err := bot.MakeTurn(ctx, game)

		// Then: it still finds and plays the winning move
		require.NoError(t, err)
		assert.Equal(t, entity.Coord{Col: 2, Row: 0}, cell)
		assert.Equal(t, entity.Outcome{Status: entity.StatusWin, Winner: entity.PlayerX}, game.Outcome())
	})

	t.Run("No cache", func(t *testing.T) {
		bot := NewBotService(discardLogger(), nil, true, fixedRand())
		game := botGame(t, "XX-OO----", entity.PlayerX)

		cell, err := bot.MakeTurn(ctx, game)

		require.NoError(t, err)
		assert.Equal(t, entity.Coord{Col: 2, Row: 0}, cell)
	})

	t.Run("Memory cache is filled", func(t *testing.T) {
		moveRepo := repository.NewMemoryMoveRepository()
		bot := NewBotService(discardLogger(), moveRepo, true, fixedRand())
		game := botGame(t, "----O-XX-", entity.PlayerO)

		_, err := bot.MakeTurn(ctx, game)
		require.NoError(t, err)

		cell, err := moveRepo.Get(ctx, mustParseBoard(t, "----O-XX-"), entity.PlayerO)
		require.NoError(t, err)
		assert.Equal(t, entity.Coord{Col: 2, Row: 2}, cell)
	})
}

func TestBotService_Errors(t *testing.T) {
	ctx := context.Background()
	bot := NewBotService(discardLogger(), nil, true, fixedRand())

	t.Run("Finished game", func(t *testing.T) {
		game := botGame(t, "XXXOO----", entity.PlayerO)
		game.UpdateGameState()

		_, err := bot.MakeTurn(ctx, game)

		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Won board set directly on the game", func(t *testing.T) {
		// Given: the board is already won but nothing recomputed the game state
		game := botGame(t, "XXXOO----", entity.PlayerO)

		// When: the bot is asked to move
		_, err := bot.MakeTurn(ctx, game)

		// Then: the move is refused instead of searching a finished board
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, "XXXOO----", game.Board.Key())
	})

	t.Run("Drawn board set directly on the game", func(t *testing.T) {
		game := botGame(t, "XOXXOOOXX", entity.PlayerO)

		_, err := bot.MakeTurn(ctx, game)

		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Not the bot's turn", func(t *testing.T) {
		game := botGame(t, "X--------", entity.PlayerO)
		game.Turn = entity.PlayerX

		_, err := bot.MakeTurn(ctx, game)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, "X--------", game.Board.Key())
	})

	t.Run("No bot in the game", func(t *testing.T) {
		game := entity.NewGame("game-1")

		_, err := bot.MakeTurn(ctx, game)

		require.ErrorIs(t, err, ErrBotNotFound)
	})
}
