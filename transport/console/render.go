package console

import (
	"strings"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const clearScreen = "\x1B[2J\x1B[1;1H"

// RenderBoard draws the board with column and row labels.
func RenderBoard(board entity.Board) string {
	var sb strings.Builder

	sb.WriteString("    0   1   2\n")
	sb.WriteString("  ╔═══╦═══╦═══╗\n")

	for row := range entity.BoardSize {
		sb.WriteString(string(rune('0' + row)))
		sb.WriteString(" ║")

		for col := range entity.BoardSize {
			symbol := " "
			if mark, ok := board.CellAt(col, row); ok {
				symbol = mark.String()
			}

			sb.WriteString(" " + symbol + " ║")
		}

		sb.WriteString("\n")

		if row < entity.BoardSize-1 {
			sb.WriteString("  ╠═══╬═══╬═══╣\n")
		}
	}

	sb.WriteString("  ╚═══╩═══╩═══╝\n")

	return sb.String()
}
