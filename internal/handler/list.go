package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mquell/listling/internal/items"
	"github.com/mquell/listling/internal/middleware"
	"github.com/mquell/listling/internal/models"
	"github.com/mquell/listling/internal/service"
)

// ListHandler serves list CRUD, sharing and joining.
type ListHandler struct {
	lists *service.ListService
}

// NewListHandler creates a ListHandler backed by the given service.
func NewListHandler(lists *service.ListService) *ListHandler {
	return &ListHandler{lists: lists}
}

type nameRequest struct {
	Name string `json:"name"`
}

type listsResponse struct {
	Lists []models.List `json:"lists"`
}

// HandleCreate inserts a new list for the authenticated user.
//
// POST /api/lists {"name": "Groceries"} → 201 list
func (h *ListHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r)
		return
	}

	list, err := h.lists.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, list)
}

// HandleOwned returns the authenticated user's own lists.
//
// GET /api/lists → 200 {lists}
func (h *ListHandler) HandleOwned(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.Owned(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if lists == nil {
		lists = []models.List{}
	}
	render.JSON(w, r, listsResponse{Lists: lists})
}

// HandleShared returns lists shared with the authenticated user, each
// with the owner's username resolved.
//
// GET /api/lists/shared → 200 {lists}
func (h *ListHandler) HandleShared(w http.ResponseWriter, r *http.Request) {
	shared, err := h.lists.SharedWith(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string][]models.SharedList{"lists": shared})
}

// HandleGet returns one full list with items sorted in the requested
// direction (?ascending=false for Z to A; default A to Z).
//
// GET /api/lists/{listID} → 200 list
func (h *ListHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	list, err := h.lists.Get(r.Context(), r.PathValue("listID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	list.Items = items.Sorted(list.Items, ascendingParam(r))
	render.JSON(w, r, list)
}

// HandleRename changes a list's name, owner only.
//
// PATCH /api/lists/{listID} {"name": "Weekly shop"} → 204
func (h *ListHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r)
		return
	}

	err := h.lists.Rename(r.Context(), r.PathValue("listID"), middleware.GetUserID(r.Context()), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// HandleDelete removes a list, owner only.
//
// DELETE /api/lists/{listID} → 204
func (h *ListHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.lists.Delete(r.Context(), r.PathValue("listID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// HandleShare grants a named user access to an owned list.
//
// POST /api/lists/{listID}/share {"username": "bob"} → 204
func (h *ListHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r)
		return
	}

	err := h.lists.ShareWithUsername(r.Context(), r.PathValue("listID"), middleware.GetUserID(r.Context()), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// HandleConvert converts an owned list to shared and returns the new
// invitation code. Calling it again rotates the code; the previous one
// becomes permanently invalid.
//
// POST /api/lists/{listID}/convert → 200 {invitationCode}
func (h *ListHandler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	code, err := h.lists.ConvertToShared(r.Context(), r.PathValue("listID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"invitationCode": code})
}

// HandleJoin adds the authenticated user to the list carrying the
// given invitation code. Idempotent.
//
// POST /api/joins {"invitationCode": "Ab3dEf9h"} → 200 list
func (h *ListHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvitationCode string `json:"invitationCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r)
		return
	}

	list, err := h.lists.Join(r.Context(), req.InvitationCode, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, list)
}
