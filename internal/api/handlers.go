package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fernwood/gedbase/internal/apperr"
	"github.com/fernwood/gedbase/internal/gedcom"
	"github.com/fernwood/gedbase/internal/models"
	"github.com/fernwood/gedbase/internal/recordservice"
)

// EventPublisher receives record mutation events for broadcast.
type EventPublisher interface {
	PublishRecordEvent(kind, tree, xref string)
}

// Handler holds API route handlers.
type Handler struct {
	svc    *recordservice.Service
	events EventPublisher
}

// NewHandler creates a new Handler. events may be nil.
func NewHandler(svc *recordservice.Service, events EventPublisher) *Handler {
	return &Handler{svc: svc, events: events}
}

func (h *Handler) publish(kind, tree, xref string) {
	if h.events != nil {
		h.events.PublishRecordEvent(kind, tree, xref)
	}
}

// ListTrees handles GET /api/trees.
//
//	@Summary		List known family trees
//	@Tags			trees
//	@Produce		json
//	@Success		200	{object}	TreeListResponse
//	@Security		BearerAuth
//	@Router			/trees [get]
func (h *Handler) ListTrees(w http.ResponseWriter, r *http.Request) {
	trees, err := h.svc.Trees(r.Context())
	if err != nil {
		slog.Error("list trees failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if trees == nil {
		trees = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"trees": trees})
}

// ListRecords handles GET /api/trees/{tree}/records.
//
//	@Summary		List records with optional pagination and type filter
//	@Tags			records
//	@Produce		json
//	@Param			tree	path		string	true	"Tree name"
//	@Param			type	query		string	false	"Record type"	Enums(INDI, FAM, SOUR, OBJE, REPO, NOTE)
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	RecordListResponse
//	@Security		BearerAuth
//	@Router			/trees/{tree}/records [get]
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	tree := chi.URLParam(r, "tree")
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	rtype := models.RecordType(q.Get("type"))

	items, err := h.svc.ListRecords(r.Context(), tree, rtype, limit, offset)
	if err != nil {
		slog.Error("list records failed", slog.String("tree", tree), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []RecordListItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": items})
}

// GetRecord handles GET /api/trees/{tree}/records/{xref}.
//
//	@Summary		Get a single record by xref
//	@Tags			records
//	@Produce		json
//	@Param			tree	path		string	true	"Tree name"
//	@Param			xref	path		string	true	"Record xref"
//	@Success		200		{object}	RecordDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/trees/{tree}/records/{xref} [get]
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	tree := chi.URLParam(r, "tree")
	xref := chi.URLParam(r, "xref")

	rec, err := h.svc.GetRecord(r.Context(), tree, xref)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get record failed", slog.String("xref", xref), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ImportRecord handles POST /api/trees/{tree}/records.
//
//	@Summary		Import a new record from raw gedcom text
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			tree	path		string				true	"Tree name"
//	@Param			body	body		ImportRecordRequest	true	"Record to import"
//	@Success		201		{object}	RecordDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/trees/{tree}/records [post]
func (h *Handler) ImportRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	tree := chi.URLParam(r, "tree")

	var req ImportRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Gedcom == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("gedcom is required"))
		return
	}

	rec, err := h.svc.ImportText(r.Context(), tree, req.Gedcom)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			writeJSON(w, http.StatusConflict, errorBody("record already exists"))
		case errors.Is(err, apperr.ErrMalformedRecord):
			writeJSON(w, http.StatusBadRequest, errorBody("malformed gedcom record"))
		default:
			slog.Error("import record failed", slog.String("tree", tree), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	h.publish("imported", tree, rec.Xref)
	writeJSON(w, http.StatusCreated, rec)
}

// UpdateRecord handles PUT /api/trees/{tree}/records/{xref}.
//
//	@Summary		Replace a record's gedcom text
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			tree	path		string				true	"Tree name"
//	@Param			xref	path		string				true	"Record xref"
//	@Param			body	body		UpdateRecordRequest	true	"New record text"
//	@Success		200		{object}	RecordDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/trees/{tree}/records/{xref} [put]
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	tree := chi.URLParam(r, "tree")
	xref := chi.URLParam(r, "xref")

	var req UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Gedcom == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("gedcom is required"))
		return
	}

	// The body must describe the same record the URL names.
	bodyXref, _, err := gedcom.Classify(gedcom.NormalizeEndings(req.Gedcom))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("malformed gedcom record"))
		return
	}
	if bodyXref != xref {
		writeJSON(w, http.StatusBadRequest, errorBody("xref in body does not match URL"))
		return
	}

	rec, err := h.svc.UpdateText(r.Context(), tree, req.Gedcom)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("update record failed", slog.String("xref", xref), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	h.publish("updated", tree, xref)
	writeJSON(w, http.StatusOK, rec)
}

// DeleteRecord handles DELETE /api/trees/{tree}/records/{xref}.
//
//	@Summary		Delete a record and its index rows
//	@Tags			records
//	@Param			tree	path	string	true	"Tree name"
//	@Param			xref	path	string	true	"Record xref"
//	@Success		204		"Record deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/trees/{tree}/records/{xref} [delete]
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	tree := chi.URLParam(r, "tree")
	xref := chi.URLParam(r, "xref")

	if err := h.svc.DeleteRecord(r.Context(), tree, xref); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("delete record failed", slog.String("xref", xref), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	h.publish("deleted", tree, xref)
	w.WriteHeader(http.StatusNoContent)
}

// Links handles GET /api/trees/{tree}/records/{xref}/links.
//
//	@Summary		Get outgoing and incoming links of a record
//	@Tags			records
//	@Produce		json
//	@Param			tree	path		string	true	"Tree name"
//	@Param			xref	path		string	true	"Record xref"
//	@Success		200		{object}	LinksResponse
//	@Security		BearerAuth
//	@Router			/trees/{tree}/records/{xref}/links [get]
func (h *Handler) Links(w http.ResponseWriter, r *http.Request) {
	tree := chi.URLParam(r, "tree")
	xref := chi.URLParam(r, "xref")

	out, in, err := h.svc.Links(r.Context(), tree, xref)
	if err != nil {
		slog.Error("links failed", slog.String("xref", xref), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"links":     out,
		"referrers": in,
	})
}

// ImportFile handles POST /api/trees/{tree}/import.
//
//	@Summary		Import whole-file gedcom content into a tree
//	@Tags			trees
//	@Accept			json
//	@Produce		json
//	@Param			tree	path		string				true	"Tree name"
//	@Param			body	body		ImportFileRequest	true	"File content"
//	@Success		200		{object}	ImportReport
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/trees/{tree}/import [post]
func (h *Handler) ImportFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 100<<20)
	tree := chi.URLParam(r, "tree")

	var req ImportFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Gedcom == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("gedcom is required"))
		return
	}

	report, err := h.svc.ImportFile(r.Context(), tree, []byte(req.Gedcom))
	if err != nil {
		slog.Error("import file failed", slog.String("tree", tree), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	h.publish("imported", tree, "")
	writeJSON(w, http.StatusOK, report)
}
