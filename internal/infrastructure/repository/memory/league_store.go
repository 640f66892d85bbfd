package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
)

// Database holds league records and roster rows behind one lock so a commit
// is all-or-nothing.
type Database struct {
	mu      sync.RWMutex
	records map[string]draft.Record
	rosters map[string]map[string]roster.Assignment
}

func NewDatabase() *Database {
	return &Database{
		records: make(map[string]draft.Record),
		rosters: make(map[string]map[string]roster.Assignment),
	}
}

type LeagueRepository struct {
	db *Database
}

func NewLeagueRepository(db *Database) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Get(_ context.Context, leagueID string) (draft.Record, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	record, ok := r.db.records[leagueID]
	if !ok {
		return draft.Record{}, false, nil
	}
	return record.Clone(), true, nil
}

func (r *LeagueRepository) Commit(_ context.Context, m draft.Mutation) (draft.Record, []roster.Assignment, error) {
	leagueID := m.Record.LeagueID
	if leagueID == "" {
		return draft.Record{}, nil, fmt.Errorf("commit requires league id")
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	current, exists := r.db.records[leagueID]
	switch {
	case m.ExpectedVersion == 0 && exists:
		return draft.Record{}, nil, fmt.Errorf("%w: league %s already exists at version %d", draft.ErrVersionConflict, leagueID, current.Version)
	case m.ExpectedVersion > 0 && !exists:
		return draft.Record{}, nil, fmt.Errorf("%w: league %s not found", draft.ErrVersionConflict, leagueID)
	case exists && current.Version != m.ExpectedVersion:
		return draft.Record{}, nil, fmt.Errorf("%w: league %s at version %d, expected %d", draft.ErrVersionConflict, leagueID, current.Version, m.ExpectedVersion)
	}

	staged := make(map[string]roster.Assignment, len(m.Roster))
	order := make([]string, 0, len(m.Roster))
	for _, change := range m.Roster {
		if change.LeagueID != leagueID {
			return draft.Record{}, nil, fmt.Errorf("roster change for league %s inside commit of %s", change.LeagueID, leagueID)
		}

		row, ok := staged[change.PlayerID]
		if !ok {
			row, ok = r.db.rosters[leagueID][change.PlayerID]
		}
		next, err := roster.Apply(row, ok, change)
		if err != nil {
			return draft.Record{}, nil, err
		}
		if _, seen := staged[change.PlayerID]; !seen {
			order = append(order, change.PlayerID)
		}
		staged[change.PlayerID] = next
	}

	record := m.Record.Clone()
	record.Version = m.ExpectedVersion + 1
	r.db.records[leagueID] = record

	rows := make([]roster.Assignment, 0, len(order))
	if len(order) > 0 && r.db.rosters[leagueID] == nil {
		r.db.rosters[leagueID] = make(map[string]roster.Assignment)
	}
	for _, playerID := range order {
		row := staged[playerID]
		r.db.rosters[leagueID][playerID] = row.Clone()
		rows = append(rows, row)
	}

	return record.Clone(), rows, nil
}

type RosterRepository struct {
	db *Database
}

func NewRosterRepository(db *Database) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByLeague(_ context.Context, leagueID string) ([]roster.Assignment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows := r.db.rosters[leagueID]
	out := make([]roster.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlayerID < out[j].PlayerID
	})

	return out, nil
}

func (r *RosterRepository) Get(_ context.Context, leagueID, playerID string) (roster.Assignment, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	row, ok := r.db.rosters[leagueID][playerID]
	if !ok {
		return roster.Assignment{}, false, nil
	}
	return row.Clone(), true, nil
}

func (r *RosterRepository) DeleteByLeague(_ context.Context, leagueID string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n := len(r.db.rosters[leagueID])
	delete(r.db.rosters, leagueID)
	return n, nil
}
