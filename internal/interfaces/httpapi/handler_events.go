package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/derekensign/mls-fantasy-sub000/internal/platform/realtime"
	"github.com/derekensign/mls-fantasy-sub000/internal/usecase"
)

const (
	eventWriteTimeout = 5 * time.Second
	eventStreamReady  = "stream.ready"
)

// StreamLeagueEvents upgrades to a websocket, sends a ready frame once the
// subscription is live and then pushes every committed league change until
// the client goes away.
func (h *Handler) StreamLeagueEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamLeagueEvents")
	defer span.End()

	leagueID := chi.URLParam(r, "leagueID")
	if h.events == nil {
		writeError(ctx, w, fmt.Errorf("%w: live events are disabled", usecase.ErrDependencyUnavailable))
		return
	}
	if _, err := h.leagueService.ListTeams(ctx, leagueID); err != nil {
		writeError(ctx, w, err)
		return
	}

	// Hijacked connections keep the server's read and write deadlines.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.WarnContext(ctx, "clear event stream write deadline", "league_id", leagueID, "error", err)
		writeError(ctx, w, fmt.Errorf("%w: live events need a deadline-capable connection", usecase.ErrDependencyUnavailable))
		return
	}
	if err := rc.SetReadDeadline(time.Time{}); err != nil {
		h.logger.WarnContext(ctx, "clear event stream read deadline", "league_id", leagueID, "error", err)
		writeError(ctx, w, fmt.Errorf("%w: live events need a deadline-capable connection", usecase.ErrDependencyUnavailable))
		return
	}

	conn, err := websocket.Accept(w, r, h.eventAcceptOptions())
	if err != nil {
		h.logger.WarnContext(ctx, "websocket accept failed", "league_id", leagueID, "error", err)
		return
	}
	defer conn.CloseNow()

	// Clients only listen; CloseRead handles control frames and cancels on close.
	streamCtx := conn.CloseRead(ctx)

	events, unsubscribe, err := h.events.Subscribe(streamCtx, leagueID)
	if err != nil {
		_ = conn.Close(websocket.StatusTryAgainLater, "event hub unavailable")
		return
	}
	defer unsubscribe()

	h.logger.DebugContext(ctx, "league event stream opened", "league_id", leagueID)
	err = writeEvent(streamCtx, conn, realtime.Event{LeagueID: leagueID, Type: eventStreamReady, At: time.Now().UTC()})
	if err == nil {
		err = pumpEvents(streamCtx, conn, events)
	}
	switch {
	case err == nil:
		_ = conn.Close(websocket.StatusGoingAway, "event hub stopped")
	case errors.Is(err, context.Canceled), websocket.CloseStatus(err) != -1:
		// client went away
	default:
		h.logger.WarnContext(ctx, "league event stream failed", "league_id", leagueID, "error", err)
	}
}

func (h *Handler) eventAcceptOptions() *websocket.AcceptOptions {
	if len(h.eventOrigins) == 0 {
		return &websocket.AcceptOptions{InsecureSkipVerify: true}
	}
	return &websocket.AcceptOptions{OriginPatterns: h.eventOrigins}
}

// eventOriginPatterns turns CORS origins into websocket host patterns. Nil
// means any origin.
func eventOriginPatterns(allowedOrigins []string) []string {
	patterns := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "":
			continue
		case origin == "*":
			return nil
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			origin = u.Host
		}
		patterns = append(patterns, strings.ToLower(origin))
	}
	if len(patterns) == 0 {
		return nil
	}
	return patterns
}

// pumpEvents writes events until the channel closes or ctx ends.
func pumpEvents(ctx context.Context, conn *websocket.Conn, events <-chan realtime.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}

			if err := writeEvent(ctx, conn, event); err != nil {
				return err
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, event realtime.Event) error {
	payload, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, payload)
}
