package player

import "fmt"

// Position represents football position categories shown in the draft board.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Player is a real MLS player with season goal totals. The service only reads
// players; goal counts arrive from an external feed.
type Player struct {
	ID       string
	Name     string
	Club     string
	Position Position
	Goals    int
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Position != "" {
		if _, ok := AllPositions[p.Position]; !ok {
			return fmt.Errorf("invalid player position: %s", p.Position)
		}
	}
	if p.Goals < 0 {
		return fmt.Errorf("player goals cannot be negative")
	}

	return nil
}

// IndexByID maps players by id. Later duplicates win.
func IndexByID(players []Player) map[string]Player {
	out := make(map[string]Player, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out
}
