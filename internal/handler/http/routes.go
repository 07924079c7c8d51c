package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/session/unlock", h.unlock)
		r.Get("/api/version/", h.getDaemonVersion)
	})

	// routes guarded by the session token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/api/credentials", func(r chi.Router) {
			r.Get("/", h.lookupCredential)
			r.Post("/", h.saveCredential)
			r.Delete("/", h.removeCredential)
		})
	})

	return router
}
