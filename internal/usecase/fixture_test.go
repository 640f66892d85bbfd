package usecase

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
	"github.com/derekensign/mls-fantasy-sub000/internal/infrastructure/repository/memory"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/logging"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/realtime"
)

const testLeagueID = "league-1"

type sequenceIDGenerator struct {
	mu sync.Mutex
	n  int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	return fmt.Sprintf("action-%03d", g.n), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *recordingPublisher) Publish(event realtime.Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	return true
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type serviceFixture struct {
	now       time.Time
	players   *memory.PlayerRepository
	rosters   *memory.RosterRepository
	events    *recordingPublisher
	writer    *LeagueWriter
	draft     *DraftService
	transfer  *TransferService
	standings *StandingsService
	league    *LeagueService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	teams := []fantasyteam.Team{
		{ID: "A", LeagueID: testLeagueID, Name: "Alpha", OwnerName: "Ana"},
		{ID: "B", LeagueID: testLeagueID, Name: "Bravo", OwnerName: "Ben"},
		{ID: "C", LeagueID: testLeagueID, Name: "Charlie", OwnerName: "Cy"},
	}
	players := []player.Player{
		{ID: "p1", Name: "Denis Bouanga", Club: "LAFC", Position: player.PositionForward, Goals: 10},
		{ID: "p2", Name: "Christian Benteke", Club: "D.C. United", Position: player.PositionForward, Goals: 8},
		{ID: "p3", Name: "Cucho Hernandez", Club: "Columbus Crew", Position: player.PositionForward, Goals: 6},
		{ID: "p4", Name: "Lionel Messi", Club: "Inter Miami", Position: player.PositionMidfielder, Goals: 5},
		{ID: "p5", Name: "Evander", Club: "Portland Timbers", Position: player.PositionMidfielder, Goals: 4},
		{ID: "p6", Name: "Diego Rossi", Club: "Columbus Crew", Position: player.PositionMidfielder, Goals: 3},
		{ID: "p7", Name: "Sam Surridge", Club: "Nashville SC", Position: player.PositionForward, Goals: 2},
		{ID: "p8", Name: "Brad Stuver", Club: "Austin FC", Position: player.PositionGoalkeeper, Goals: 0},
	}

	db := memory.NewDatabase()
	f := &serviceFixture{
		now:     time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		players: memory.NewPlayerRepository(players),
		rosters: memory.NewRosterRepository(db),
		events:  &recordingPublisher{},
	}

	logger := logging.NewNop()
	directory := NewLeagueDirectory(memory.NewFantasyTeamRepository(teams), f.players, nil)
	f.writer = NewLeagueWriter(memory.NewLeagueRepository(db), &sequenceIDGenerator{}, f.events, logger, 3)
	f.writer.now = func() time.Time { return f.now }

	f.draft = NewDraftService(f.writer, directory, f.rosters, logger)
	f.transfer = NewTransferService(f.writer, directory, logger)
	f.standings = NewStandingsService(directory, f.rosters, logger)
	f.league = NewLeagueService(directory, f.rosters)
	return f
}

func (f *serviceFixture) tick() {
	f.now = f.now.Add(time.Minute)
}

// runDraft drafts A,B,C / C,B,A with p1..p6 in that order.
func (f *serviceFixture) runDraft(t *testing.T) {
	t.Helper()

	_, err := f.draft.UpdateSettings(t.Context(), UpdateDraftSettingsInput{
		LeagueID:    testLeagueID,
		DraftOrder:  []string{"A", "B", "C"},
		TotalRounds: 2,
		Snake:       true,
		Start:       true,
	})
	if err != nil {
		t.Fatalf("update draft settings: %v", err)
	}

	picks := []struct{ team, player string }{
		{"A", "p1"}, {"B", "p2"}, {"C", "p3"},
		{"C", "p4"}, {"B", "p5"}, {"A", "p6"},
	}
	for _, pick := range picks {
		f.tick()
		if _, err := f.draft.DraftPlayer(t.Context(), DraftPlayerInput{
			LeagueID: testLeagueID,
			TeamID:   pick.team,
			PlayerID: pick.player,
		}); err != nil {
			t.Fatalf("draft %s by %s: %v", pick.player, pick.team, err)
		}
	}
}

func (f *serviceFixture) startWindow(t *testing.T, maxRounds int) {
	t.Helper()

	if _, err := f.transfer.Start(t.Context(), StartTransferInput{
		LeagueID:  testLeagueID,
		MaxRounds: maxRounds,
		Snake:     true,
	}); err != nil {
		t.Fatalf("start transfer window: %v", err)
	}
}
