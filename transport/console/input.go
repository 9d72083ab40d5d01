package console

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

var ErrInvalidInput = errors.New("invalid input")

// ParseCoord - reads "col row" as two digits. Spaces and commas between them are optional.
// Range checks are left to the board.
func ParseCoord(s string) (entity.Coord, error) {
	digits := strings.NewReplacer(" ", "", "\t", "", ",", "").Replace(strings.TrimSpace(s))

	if len(digits) != 2 {
		return entity.Coord{}, fmt.Errorf("%w: want two digits, got %q", ErrInvalidInput, s)
	}

	for i := range len(digits) {
		if digits[i] < '0' || digits[i] > '9' {
			return entity.Coord{}, fmt.Errorf("%w: %q is not a digit", ErrInvalidInput, digits[i])
		}
	}

	return entity.Coord{Col: int(digits[0] - '0'), Row: int(digits[1] - '0')}, nil
}
