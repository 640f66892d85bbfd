package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/derekensign/mls-fantasy-sub000/internal/platform/logging"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/realtime"
	"github.com/derekensign/mls-fantasy-sub000/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

// EventSubscriber opens a live feed of one league's events.
type EventSubscriber interface {
	Subscribe(ctx context.Context, leagueID string) (<-chan realtime.Event, func(), error)
}

type Handler struct {
	draftService     *usecase.DraftService
	transferService  *usecase.TransferService
	standingsService *usecase.StandingsService
	leagueService    *usecase.LeagueService
	events           EventSubscriber
	eventOrigins     []string
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	draftService *usecase.DraftService,
	transferService *usecase.TransferService,
	standingsService *usecase.StandingsService,
	leagueService *usecase.LeagueService,
	events EventSubscriber,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		draftService:     draftService,
		transferService:  transferService,
		standingsService: standingsService,
		leagueService:    leagueService,
		events:           events,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeRequest reads a JSON body into payload and validates it. An empty
// body decodes to the zero value.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := sonic.Unmarshal(body, payload); err != nil {
			return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
		}
	}

	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}

func parseBoolQuery(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: invalid boolean %q", usecase.ErrInvalidInput, raw)
	}
	return v, nil
}
