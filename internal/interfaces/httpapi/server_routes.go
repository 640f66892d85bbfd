package httpapi

import "github.com/go-chi/chi/v5"

func registerSystemRoutes(r chi.Router, handler *Handler, swaggerEnabled bool) {
	r.Get("/healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	r.Get(openAPIPath, handler.OpenAPI)
	r.Get("/docs", handler.SwaggerUI)
	r.Get("/docs/", handler.SwaggerUI)
}

func registerDraftRoutes(r chi.Router, handler *Handler) {
	r.Route("/draft/{leagueID}", func(r chi.Router) {
		r.Get("/", handler.GetDraft)
		r.Post("/", handler.UpdateDraftSettings)
		r.Post("/draft-player", handler.DraftPlayer)
		r.Post("/reset", handler.ResetDraft)
	})
}

func registerLeagueRoutes(r chi.Router, handler *Handler) {
	r.Route("/league/{leagueID}", func(r chi.Router) {
		r.Route("/transfer", func(r chi.Router) {
			r.Get("/", handler.GetTransferStatus)
			r.Post("/start", handler.StartTransferWindow)
			r.Post("/drop", handler.DropPlayer)
			r.Post("/pickup", handler.PickupPlayer)
			r.Post("/advance", handler.AdvanceTransferTurn)
			r.Post("/done", handler.MarkTransfersDone)
		})
		r.Get("/standings", handler.ListStandings)
		r.Get("/golden-boot", handler.ListGoldenBoot)
		r.Get("/players", handler.ListPlayers)
		r.Get("/teams", handler.ListTeams)
		r.Get("/events", handler.StreamLeagueEvents)
	})
}
