package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mquell/listling/internal/middleware"
	"github.com/mquell/listling/internal/models"
	"github.com/mquell/listling/internal/service"
	"github.com/mquell/listling/internal/storage"
)

// ItemHandler serves item mutations on one list. Each request opens a
// list session, applies the mutation through the ordering engine,
// persists the whole item collection, and returns the computed result
// for the client to adopt — the client is never expected to re-fetch
// after a successful mutation.
type ItemHandler struct {
	store storage.Store
}

// NewItemHandler creates an ItemHandler on the given storage backend.
func NewItemHandler(store storage.Store) *ItemHandler {
	return &ItemHandler{store: store}
}

type itemsResponse struct {
	Items     []models.Item `json:"items"`
	Ascending bool          `json:"ascending"`
}

// session opens the per-request list view in the client's active sort
// direction.
func (h *ItemHandler) session(r *http.Request) (*service.ListSession, error) {
	s, err := service.OpenListSession(r.Context(), h.store, r.PathValue("listID"), middleware.GetUserID(r.Context()))
	if err != nil {
		return nil, err
	}
	s.SetAscending(ascendingParam(r))
	return s, nil
}

// HandleAdd appends a new unchecked item.
//
// POST /api/lists/{listID}/items {"name": "milk"} → 201 {items, ascending}
func (h *ItemHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r)
		return
	}

	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.AddItem(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, itemsResponse{Items: result, Ascending: s.Ascending()})
}

// HandleUpdate renames or toggles an item. A body with "toggle": true
// flips the checked flag; a body with a name renames. Exactly one of
// the two must be present.
//
// PATCH /api/lists/{listID}/items/{itemID} → 200 {items, ascending}
func (h *ItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Toggle bool   `json:"toggle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r)
		return
	}
	if req.Toggle == (req.Name != "") {
		badRequest(w, r)
		return
	}

	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var result []models.Item
	if req.Toggle {
		result, err = s.ToggleItem(r.Context(), r.PathValue("itemID"))
	} else {
		result, err = s.RenameItem(r.Context(), r.PathValue("itemID"), req.Name)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, itemsResponse{Items: result, Ascending: s.Ascending()})
}

// HandleDelete removes an item. An absent item id is a silent no-op,
// matching the engine contract.
//
// DELETE /api/lists/{listID}/items/{itemID} → 200 {items, ascending}
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.RemoveItem(r.Context(), r.PathValue("itemID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, itemsResponse{Items: result, Ascending: s.Ascending()})
}
