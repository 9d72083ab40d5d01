package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/search"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var ErrHumanNotFound = errors.New("human player not found")

type GamePlayService interface {
	NewGame(ctx context.Context, humanName string, humanMark entity.Mark) (*entity.Game, error)
	MakeTurn(ctx context.Context, game *entity.Game, cell entity.Coord) error
	Hint(game *entity.Game) ([]search.ScoredMove, error)
}

type gamePlayService struct {
	logger *slog.Logger

	botService BotService
}

func NewGamePlayService(logger *slog.Logger, botService BotService) GamePlayService {
	return &gamePlayService{
		logger:     logger.With("component", "gameplay"),
		botService: botService,
	}
}

// NewGame - creates a game against the computer. If the computer holds X it moves right away.
func (that *gamePlayService) NewGame(ctx context.Context, humanName string, humanMark entity.Mark) (*entity.Game, error) {
	if !humanMark.IsValid() {
		return nil, apperror.ErrInvalidMark
	}

	game := entity.NewGame(uuid.NewString())
	game.Players = []*entity.Player{
		entity.NewHumanPlayer(humanName, humanMark),
		entity.NewBotPlayer(humanMark.Opponent()),
	}

	that.logger.Info("game created", "gameID", game.ID, "human", humanMark.String())

	if game.Turn == humanMark {
		return game, nil
	}

	if _, err := that.botService.MakeTurn(ctx, game); err != nil {
		return nil, fmt.Errorf("bot failed to make first turn: %w", err)
	}

	return game, nil
}

// MakeTurn - plays the human move, then the bot reply unless the game ended.
func (that *gamePlayService) MakeTurn(ctx context.Context, game *entity.Game, cell entity.Coord) error {
	log := that.logger.With("method", "MakeTurn", "gameID", game.ID)

	human := game.HumanPlayer()
	if human == nil {
		return ErrHumanNotFound
	}

	if err := tictactoe.MakeTurn(game, human.Mark, cell); err != nil {
		return fmt.Errorf("failed to make turn: %w", err)
	}

	log.Info("human moved", "mark", human.Mark.String(), "cell", cell.String(), "outcome", game.Outcome().String())

	if game.IsFinished() {
		return nil
	}

	if _, err := that.botService.MakeTurn(ctx, game); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	if game.IsFinished() {
		log.Info("game finished", "outcome", game.Outcome().String())
	}

	return nil
}

// Hint - scores every move available to the human.
func (that *gamePlayService) Hint(game *entity.Game) ([]search.ScoredMove, error) {
	if err := game.ConfirmOngoingState(); err != nil {
		return nil, err
	}

	human := game.HumanPlayer()
	if human == nil {
		return nil, ErrHumanNotFound
	}

	if game.Turn != human.Mark {
		return nil, apperror.ErrNotYourTurn
	}

	return search.Evaluate(game.Board, human.Mark), nil
}
