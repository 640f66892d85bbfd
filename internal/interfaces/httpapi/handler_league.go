package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	items, err := h.standingsService.Standings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(items))
}

func (h *Handler) ListGoldenBoot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGoldenBoot")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.standingsService.GoldenBoot(ctx, leagueID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list golden boot failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, goldenBootToDTO(items))
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	availableOnly, err := parseBoolQuery(r.URL.Query().Get("available"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.leagueService.ListPlayers(ctx, leagueID, availableOnly)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	teams, err := h.leagueService.ListTeams(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsToDTO(teams))
}
