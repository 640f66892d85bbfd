package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/derekensign/mls-fantasy-sub000/internal/usecase"
)

func (h *Handler) GetTransferStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTransferStatus")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	status, err := h.transferService.Status(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get transfer status failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferStatusToDTO(status))
}

func (h *Handler) StartTransferWindow(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartTransferWindow")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	var req startTransferRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.transferService.Start(ctx, usecase.StartTransferInput{
		LeagueID:   leagueID,
		DraftOrder: req.DraftOrder,
		MaxRounds:  req.MaxRounds,
		Snake:      req.SnakeOrder,
		ClosesAt:   req.ClosesAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "start transfer window failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferStatusToDTO(status))
}

func (h *Handler) DropPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DropPlayer")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	var req playerMoveRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.transferService.Drop(ctx, usecase.TransferMoveInput{
		LeagueID: leagueID,
		TeamID:   req.TeamID,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "drop player failed",
			"league_id", leagueID,
			"team_id", req.TeamID,
			"player_id", req.PlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dropDTO{
		LeagueID:    result.LeagueID,
		TeamID:      result.TeamID,
		PlayerID:    result.PlayerID,
		PlayerName:  result.PlayerName,
		GoalsAtDrop: result.GoalsAtDrop,
		DroppedAt:   result.DroppedAt,
		NextStep:    string(result.NextStep),
	})
}

func (h *Handler) PickupPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PickupPlayer")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	var req playerMoveRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.transferService.Pickup(ctx, usecase.TransferMoveInput{
		LeagueID: leagueID,
		TeamID:   req.TeamID,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "pickup player failed",
			"league_id", leagueID,
			"team_id", req.TeamID,
			"player_id", req.PlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickupDTO{
		LeagueID:          result.LeagueID,
		TeamID:            result.TeamID,
		PlayerID:          result.PlayerID,
		PlayerName:        result.PlayerName,
		GoalsBeforePickup: result.GoalsBeforePickup,
		PickedUpAt:        result.PickedUpAt,
		Turn:              turnAdvanceToDTO(result.Turn),
	})
}

func (h *Handler) AdvanceTransferTurn(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceTransferTurn")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	result, err := h.transferService.Advance(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "advance transfer turn failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, turnAdvanceToDTO(result))
}

func (h *Handler) MarkTransfersDone(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkTransfersDone")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	var req markDoneRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.transferService.MarkDone(ctx, leagueID, req.TeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "mark transfers done failed", "league_id", leagueID, "team_id", req.TeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := markDoneDTO{
		LeagueID:      result.LeagueID,
		TeamID:        result.TeamID,
		FinishedTeams: nonNilStrings(result.Finished),
		Status:        string(result.Status),
	}
	if result.Turn != nil {
		turn := turnAdvanceToDTO(*result.Turn)
		out.Turn = &turn
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
