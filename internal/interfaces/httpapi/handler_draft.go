package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/derekensign/mls-fantasy-sub000/internal/usecase"
)

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraft")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	view, err := h.draftService.Get(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get draft failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftViewToDTO(view.LeagueID, view.State, view.Upcoming, view.Version))
}

func (h *Handler) UpdateDraftSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateDraftSettings")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	var req updateDraftSettingsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.draftService.UpdateSettings(ctx, usecase.UpdateDraftSettingsInput{
		LeagueID:    leagueID,
		DraftOrder:  req.DraftOrder,
		TotalRounds: req.TotalRounds,
		Snake:       req.SnakeOrder,
		Start:       req.Start,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update draft settings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftViewToDTO(view.LeagueID, view.State, view.Upcoming, view.Version))
}

func (h *Handler) DraftPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DraftPlayer")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	var req playerMoveRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.draftService.DraftPlayer(ctx, usecase.DraftPlayerInput{
		LeagueID: leagueID,
		TeamID:   req.TeamID,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "draft player failed",
			"league_id", leagueID,
			"team_id", req.TeamID,
			"player_id", req.PlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftPickToDTO(result))
}

func (h *Handler) ResetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetDraft")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	result, err := h.draftService.Reset(ctx, leagueID)
	if err != nil {
		h.logger.ErrorContext(ctx, "reset draft failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftResetDTO{
		Draft:          draftViewToDTO(result.LeagueID, result.State, nil, 0),
		RosterRowsGone: result.RosterRowsGone,
	})
}
