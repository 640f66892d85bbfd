package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	fantasyteammock "github.com/derekensign/mls-fantasy-sub000/internal/mocks/domain/fantasyteam"
	playermock "github.com/derekensign/mls-fantasy-sub000/internal/mocks/domain/player"
	rostermock "github.com/derekensign/mls-fantasy-sub000/internal/mocks/domain/roster"
)

func TestLeagueService_ListPlayers_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), "trace_id", "trace-456")
	teamRepo := fantasyteammock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)
	rosterRepo := rostermock.NewRepository(t)

	service := NewLeagueService(NewLeagueDirectory(teamRepo, playerRepo, nil), rosterRepo)
	leagueID := "mls-friends-2025"

	teamRepo.
		On("ListByLeague", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return([]fantasyteam.Team{{ID: "t1", LeagueID: leagueID, Name: "Golazo FC"}}, nil).
		Once()
	playerRepo.
		On("List", mock.MatchedBy(func(v context.Context) bool { return v == ctx })).
		Return([]player.Player{
			{ID: "p1", Name: "Denis Bouanga", Goals: 20},
			{ID: "p2", Name: "Lionel Messi", Goals: 20},
			{ID: "p3", Name: "Evander", Goals: 15},
		}, nil).
		Once()
	rosterRepo.
		On("ListByLeague", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return([]roster.Assignment{
			{LeagueID: leagueID, PlayerID: "p2", TeamDraftedBy: "t1"},
			{LeagueID: leagueID, PlayerID: "p3", TeamDraftedBy: "t1", Dropped: true, AvailableForPickup: true},
		}, nil).
		Once()

	got, err := service.ListPlayers(ctx, leagueID, false)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("unexpected player count: got=%d want=3", len(got))
	}
	if got[0].Player.ID != "p1" || !got[0].Available {
		t.Fatalf("expected undrafted p1 first and available, got %+v", got[0])
	}
	if got[1].OwnerTeamName != "Golazo FC" || got[1].Available {
		t.Fatalf("expected p2 owned by Golazo FC, got %+v", got[1])
	}
	if !got[2].OnWaivers || !got[2].Available || got[2].OwnerTeamID != "" {
		t.Fatalf("expected p3 on waivers, got %+v", got[2])
	}
}

func TestLeagueService_ListTeams_LeagueNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := fantasyteammock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)
	rosterRepo := rostermock.NewRepository(t)

	service := NewLeagueService(NewLeagueDirectory(teamRepo, playerRepo, nil), rosterRepo)

	teamRepo.
		On("ListByLeague", mock.Anything, "missing-league").
		Return(nil, nil).
		Once()

	_, err := service.ListTeams(ctx, "missing-league")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeagueService_ListTeams_RepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	teamRepo := fantasyteammock.NewRepository(t)
	service := NewLeagueService(NewLeagueDirectory(teamRepo, playermock.NewRepository(t), nil), rostermock.NewRepository(t))

	teamRepo.
		On("ListByLeague", mock.Anything, "l1").
		Return(nil, errors.New("connection reset")).
		Once()

	_, err := service.ListTeams(context.Background(), "l1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected repository error, got %v", err)
	}
}
