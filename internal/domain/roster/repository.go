package roster

import "context"

// Repository reads and clears roster rows. Conditional writes go through the
// league store commit so they share a transaction with the turn state.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Assignment, error)
	Get(ctx context.Context, leagueID, playerID string) (Assignment, bool, error)
	DeleteByLeague(ctx context.Context, leagueID string) (int, error)
}
