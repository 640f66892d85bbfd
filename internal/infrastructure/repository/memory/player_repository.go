package memory

import (
	"context"
	"sync"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players []player.Player
	index   map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	out := append([]player.Player(nil), players...)
	return &PlayerRepository{
		players: out,
		index:   player.IndexByID(out),
	}
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	out = append(out, r.players...)

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.index[playerID]
	return p, ok, nil
}

// SetGoals updates a player's season goal count, standing in for the stats
// feed that owns this data in production.
func (r *PlayerRepository) SetGoals(playerID string, goals int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.index[playerID]
	if !ok {
		return false
	}
	p.Goals = goals
	r.index[playerID] = p
	for i := range r.players {
		if r.players[i].ID == playerID {
			r.players[i].Goals = goals
		}
	}
	return true
}
