package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)

	router.Route("/api", func(r chi.Router) {
		r.Get("/version", h.getAppVersion)

		r.Route("/sync", func(r chi.Router) {
			r.Get("/status", h.getSyncStatus)
			r.Post("/run", h.runSync)
			r.Post("/initial", h.runInitialSync)
			r.Post("/test", h.testConnection)
			r.Post("/schema/verify", h.verifySchema)

			r.Route("/config", func(r chi.Router) {
				r.Get("/", h.getSyncConfig)
				r.Put("/", h.updateSyncConfig)
				r.Get("/export", h.exportConfig)
				r.Post("/import", h.importConfig)
			})
		})
	})

	return router
}
