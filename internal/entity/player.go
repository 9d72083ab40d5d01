package entity

const BotName = "computer"

type Player struct {
	Name string `json:"name"`
	Mark Mark   `json:"mark,omitempty"`
	Bot  bool   `json:"bot,omitempty"`
}

func NewBotPlayer(mark Mark) *Player {
	return &Player{
		Name: BotName,
		Mark: mark,
		Bot:  true,
	}
}

func NewHumanPlayer(name string, mark Mark) *Player {
	return &Player{
		Name: name,
		Mark: mark,
	}
}

func (that *Player) IsBot() bool {
	return that.Bot
}
