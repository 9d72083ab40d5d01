package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

// Game is one match: the board plus the player to move, tracked explicitly.
// The outcome is never stored, it is read off the board.
type Game struct {
	ID      string    `json:"id"`
	Board   Board     `json:"board"`
	Turn    Mark      `json:"player_turn"`
	Players []*Player `json:"players,omitempty"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:    id,
		Board: NewBoard(),
		Turn:  PlayerX,
	}
}

func (that *Game) Outcome() Outcome {
	return that.Board.Outcome()
}

// UpdateGameState - clears the turn once the board is finished.
func (that *Game) UpdateGameState() {
	if that.IsFinished() {
		that.Turn = NoMark
	}
}

func (that *Game) IsFinished() bool {
	return that.Outcome().IsFinished()
}

func (that *Game) IsOngoing() bool {
	return that.Outcome().IsOngoing()
}

func (that *Game) ConfirmOngoingState() error {
	if outcome := that.Outcome(); outcome.IsFinished() {
		return fmt.Errorf("%w: %s", apperror.ErrGameFinished, outcome)
	}

	return nil
}

// BotPlayer returns the computer-controlled player, or nil.
func (that *Game) BotPlayer() *Player {
	for _, player := range that.Players {
		if player.IsBot() {
			return player
		}
	}

	return nil
}

// HumanPlayer returns the first player not controlled by the computer, or nil.
func (that *Game) HumanPlayer() *Player {
	for _, player := range that.Players {
		if !player.IsBot() {
			return player
		}
	}

	return nil
}
