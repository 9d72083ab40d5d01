package entity

type Status string

const (
	StatusOngoing Status = "ongoing"
	StatusWin     Status = "win"
	StatusDraw    Status = "draw"
)

// Outcome is computed from a Board on demand. Winner is set only for StatusWin.
type Outcome struct {
	Status Status `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
}

func (that Outcome) IsOngoing() bool {
	return that.Status == StatusOngoing || that.Status == ""
}

func (that Outcome) IsFinished() bool {
	return !that.IsOngoing()
}

func (that Outcome) String() string {
	switch that.Status {
	case StatusWin:
		return that.Winner.String() + " wins"
	case StatusDraw:
		return "draw"
	default:
		return "ongoing"
	}
}
