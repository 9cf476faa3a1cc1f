package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fernwood/gedbase/internal/recordservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// events, if non-nil, is called after each successful record mutation.
func NewRouter(svc *recordservice.Service, authEnabled bool, token string, sseHandler http.Handler, events EventPublisher) chi.Router {
	h := NewHandler(svc, events)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Trees.
	r.Get("/trees", h.ListTrees)

	// Records CRUD.
	r.Get("/trees/{tree}/records", h.ListRecords)
	r.Post("/trees/{tree}/records", h.ImportRecord)
	r.Get("/trees/{tree}/records/{xref}", h.GetRecord)
	r.Put("/trees/{tree}/records/{xref}", h.UpdateRecord)
	r.Delete("/trees/{tree}/records/{xref}", h.DeleteRecord)

	// Link index.
	r.Get("/trees/{tree}/records/{xref}/links", h.Links)

	// Whole-file import.
	r.Post("/trees/{tree}/import", h.ImportFile)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
