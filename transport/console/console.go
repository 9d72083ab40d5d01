package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/search"
)

const welcome = `Welcome to Tic-Tac-Toe!

Enter moves as "col row", both indexed at 0 (e.g. "2 0" is the top right corner).
Type "help" for commands. Ctrl-C to exit at any point.

Good luck!
`

const help = `Commands:
  help   show this message
  hint   score every free cell for you (+1 win, 0 draw, -1 loss with best play)
  quit   leave the game
`

type gamePlay interface {
	NewGame(ctx context.Context, humanName string, humanMark entity.Mark) (*entity.Game, error)
	MakeTurn(ctx context.Context, game *entity.Game, cell entity.Coord) error
	Hint(game *entity.Game) ([]search.ScoredMove, error)
}

type Options struct {
	PlayerName string
	// HumanMark is asked for when it is NoMark.
	HumanMark   entity.Mark
	ClearScreen bool
}

type Console struct {
	logger   *slog.Logger
	gamePlay gamePlay
	options  Options

	in  *bufio.Scanner
	out io.Writer

	// a handler returns true to end the session
	handlers map[string]func(game *entity.Game) bool
}

func New(logger *slog.Logger, gamePlay gamePlay, in io.Reader, out io.Writer, options Options) *Console {
	console := &Console{
		logger:   logger.With("component", "console"),
		gamePlay: gamePlay,
		options:  options,

		in:  bufio.NewScanner(in),
		out: out,

		handlers: make(map[string]func(*entity.Game) bool),
	}

	console.handlers["help"] = console.handleHelp
	console.handlers["h"] = console.handleHelp
	console.handlers["?"] = console.handleHelp
	console.handlers["hint"] = console.handleHint
	console.handlers["quit"] = console.handleQuit
	console.handlers["q"] = console.handleQuit
	console.handlers["exit"] = console.handleQuit

	return console
}

// Start - plays one game against the computer until it ends, the input ends, or ctx is done.
func (that *Console) Start(ctx context.Context) error {
	log := that.logger.With("method", "Start")

	that.print(welcome)

	humanMark := that.options.HumanMark
	if !humanMark.IsValid() {
		var ok bool
		if humanMark, ok = that.chooseMark(); !ok {
			return that.inputDone()
		}
	}

	game, err := that.gamePlay.NewGame(ctx, that.options.PlayerName, humanMark)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	log = log.With("gameID", game.ID)
	log.Debug("session started", "human", humanMark.String())

	that.clear()

	for {
		if err = ctx.Err(); err != nil {
			return err
		}

		that.print("\n" + RenderBoard(game.Board) + "\n")

		if game.IsFinished() {
			that.printResult(game, humanMark)
			return nil
		}

		line, ok := that.readLine(fmt.Sprintf("Your move as %s (col row): ", humanMark))
		if !ok {
			return that.inputDone()
		}

		if handler, found := that.handlers[strings.ToLower(line)]; found {
			if handler(game) {
				that.print("Bye!\n")
				return nil
			}
			continue
		}

		cell, err := ParseCoord(line)
		if err != nil {
			that.print("Please enter two digits, column then row, each 0-2.\n")
			continue
		}

		err = that.gamePlay.MakeTurn(ctx, game, cell)
		switch {
		case errors.Is(err, apperror.ErrOutOfBounds):
			that.printf("%s is off the board, columns and rows go from 0 to 2.\n", cell)
			continue
		case errors.Is(err, apperror.ErrCellOccupied):
			that.printf("%s is already taken.\n", cell)
			continue
		case err != nil:
			return fmt.Errorf("failed to make turn: %w", err)
		}

		that.clear()
	}
}

func (that *Console) chooseMark() (entity.Mark, bool) {
	for {
		line, ok := that.readLine("Who would you like to play as? X or O (default X, who plays first): ")
		if !ok {
			return entity.NoMark, false
		}

		if line == "" {
			return entity.PlayerX, true
		}

		mark, err := entity.ParseMark(line)
		if err == nil {
			return mark, true
		}

		that.print("Please answer X or O.\n")
	}
}

func (that *Console) handleHelp(_ *entity.Game) bool {
	that.print(help)
	return false
}

func (that *Console) handleHint(game *entity.Game) bool {
	moves, err := that.gamePlay.Hint(game)
	if err != nil {
		that.printf("No hint available: %v\n", err)
		return false
	}

	for _, move := range moves {
		that.printf("  %s %s\n", move.Cell, describeScore(move.Score))
	}

	return false
}

func (that *Console) handleQuit(_ *entity.Game) bool {
	return true
}

func describeScore(score int) string {
	switch {
	case score > 0:
		return "wins"
	case score < 0:
		return "loses"
	default:
		return "draws"
	}
}

func (that *Console) printResult(game *entity.Game, humanMark entity.Mark) {
	outcome := game.Outcome()

	switch {
	case outcome.Status == entity.StatusDraw:
		that.print("\nIt's a draw!\n\n")
	case outcome.Winner == humanMark:
		that.printf("\nYou win as %s!\n\n", humanMark)
	default:
		that.printf("\nComputer wins as %s!\n\n", outcome.Winner)
	}
}

// readLine - prompts and returns the trimmed line; false once the input is exhausted.
func (that *Console) readLine(prompt string) (string, bool) {
	that.print(prompt)

	if !that.in.Scan() {
		return "", false
	}

	return strings.TrimSpace(that.in.Text()), true
}

func (that *Console) inputDone() error {
	that.print("\nBye!\n")

	if err := that.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Console) clear() {
	if that.options.ClearScreen {
		that.print(clearScreen)
	}
}

func (that *Console) print(s string) {
	if _, err := io.WriteString(that.out, s); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

func (that *Console) printf(format string, args ...any) {
	that.print(fmt.Sprintf(format, args...))
}
