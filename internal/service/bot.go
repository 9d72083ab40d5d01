package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/search"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var ErrBotNotFound = errors.New("bot player not found")

// OpeningMoves are played instead of searching the empty board: the center and the four corners.
var OpeningMoves = []entity.Coord{
	{Col: 1, Row: 1},
	{Col: 0, Row: 0},
	{Col: 2, Row: 0},
	{Col: 0, Row: 2},
	{Col: 2, Row: 2},
}

type BotService interface {
	MakeTurn(ctx context.Context, game *entity.Game) (entity.Coord, error)
}

type moveRepo interface {
	Get(ctx context.Context, board entity.Board, mark entity.Mark) (entity.Coord, error)
	Save(ctx context.Context, board entity.Board, mark entity.Mark, cell entity.Coord) error
}

type botService struct {
	logger *slog.Logger

	moveRepo    moveRepo
	openingBook bool

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewBotService - moveRepo may be nil to always search. A nil rnd is seeded randomly.
func NewBotService(logger *slog.Logger, moveRepo moveRepo, openingBook bool, rnd *rand.Rand) BotService {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint: gosec // it's ok
	}

	return &botService{
		logger:      logger.With("component", "bot"),
		moveRepo:    moveRepo,
		openingBook: openingBook,
		rnd:         rnd,
	}
}

func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) (entity.Coord, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", game.ID)

	if err := game.ConfirmOngoingState(); err != nil {
		return entity.Coord{}, err
	}

	botPlayer := game.BotPlayer()
	if botPlayer == nil {
		return entity.Coord{}, ErrBotNotFound
	}

	if game.Turn != botPlayer.Mark {
		return entity.Coord{}, fmt.Errorf("%w: %s to move", apperror.ErrNotYourTurn, game.Turn)
	}

	cell := that.chooseCell(ctx, log, game.Board, botPlayer.Mark)

	if err := tictactoe.MakeTurn(game, botPlayer.Mark, cell); err != nil {
		return entity.Coord{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	log.Info("bot moved", "mark", botPlayer.Mark.String(), "cell", cell.String(), "outcome", game.Outcome().String())

	return cell, nil
}

func (that *botService) chooseCell(ctx context.Context, log *slog.Logger, board entity.Board, mark entity.Mark) entity.Coord {
	if that.openingBook && board.IsEmpty() {
		cell := that.openingMove()
		log.Debug("opening book move", "cell", cell.String())

		return cell
	}

	if cell, ok := that.cachedMove(ctx, log, board, mark); ok {
		return cell
	}

	start := time.Now()
	cell := search.BestMove(board, mark)
	log.Debug("searched move", "board", board.Key(), "cell", cell.String(), "elapsed", time.Since(start))

	if that.moveRepo != nil {
		if err := that.moveRepo.Save(ctx, board, mark, cell); err != nil {
			log.Warn("failed to cache move", "error", err)
		}
	}

	return cell
}

// cachedMove - a failing cache is not fatal, the move is searched instead.
func (that *botService) cachedMove(ctx context.Context, log *slog.Logger, board entity.Board, mark entity.Mark) (entity.Coord, bool) {
	if that.moveRepo == nil {
		return entity.Coord{}, false
	}

	cell, err := that.moveRepo.Get(ctx, board, mark)
	switch {
	case errors.Is(err, repository.ErrMoveNotFound):
		return entity.Coord{}, false
	case err != nil:
		log.Warn("move cache unavailable", "error", err)
		return entity.Coord{}, false
	}

	if _, occupied := board.CellAt(cell.Col, cell.Row); occupied || !cell.InBounds() {
		log.Warn("ignoring unplayable cached move", "board", board.Key(), "cell", cell.String())
		return entity.Coord{}, false
	}

	log.Debug("cached move", "board", board.Key(), "cell", cell.String())

	return cell, true
}

func (that *botService) openingMove() entity.Coord {
	that.mu.Lock()
	defer that.mu.Unlock()

	return OpeningMoves[that.rnd.IntN(len(OpeningMoves))]
}
