package fantasyteam

import "fmt"

// Team is a manager's fantasy team inside a league.
type Team struct {
	ID        string
	LeagueID  string
	Name      string
	OwnerName string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

func IndexByID(teams []Team) map[string]Team {
	out := make(map[string]Team, len(teams))
	for _, t := range teams {
		out[t.ID] = t
	}
	return out
}
