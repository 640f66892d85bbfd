package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/derekensign/mls-fantasy-sub000/internal/platform/logging"
)

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	swaggerEnabled bool,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	handler.eventOrigins = eventOriginPatterns(corsAllowedOrigins)

	r := chi.NewRouter()
	r.Use(CORS(corsAllowedOrigins))
	r.Use(func(next http.Handler) http.Handler {
		return recoverPanic(logger, next)
	})

	registerSystemRoutes(r, handler, swaggerEnabled)
	registerDraftRoutes(r, handler)
	registerLeagueRoutes(r, handler)

	return RequestTracing(RequestLogging(logger, r))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
