package fantasyteam

import "context"

// Repository describes fantasy team reads needed by use cases.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)
}
