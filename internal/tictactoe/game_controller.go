package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// MakeTurn - places mark at cell for the player whose turn it is, then advances the game.
func MakeTurn(gameInstance *entity.Game, mark entity.Mark, cell entity.Coord) error {
	if err := gameInstance.ConfirmOngoingState(); err != nil {
		return err
	}

	if err := validateMove(gameInstance, mark); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	if err := gameInstance.Board.Place(cell.Col, cell.Row, mark); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	updateGameStatus(gameInstance, mark)

	return nil
}

// validateMove - checks that mark is the one to move.
func validateMove(gameInstance *entity.Game, mark entity.Mark) error {
	if !mark.IsValid() {
		return apperror.ErrInvalidMark
	}

	if gameInstance.Turn != mark {
		return fmt.Errorf("%w: %s to move", apperror.ErrNotYourTurn, gameInstance.Turn)
	}

	return nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(gameInstance *entity.Game, mark entity.Mark) {
	gameInstance.Turn = mark.Opponent()
	gameInstance.UpdateGameState()
}
