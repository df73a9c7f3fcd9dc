package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer)

	router.Get("/api/version", h.getServerVersion)

	// routes with authorization
	router.Route("/api/collections/{collection}", func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/subscribe", h.subscribe)

		r.Group(func(r chi.Router) {
			r.Use(withGZip)

			r.Get("/documents", h.listDocuments)
			r.Post("/documents", h.createDocument)
			r.Get("/documents/{id}", h.getDocument)
			r.Patch("/documents/{id}", h.updateDocument)
			r.Delete("/documents/{id}", h.deleteDocument)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
