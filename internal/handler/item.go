package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/washday/internal/auth"
	"github.com/sakif/washday/internal/model"
	"github.com/sakif/washday/internal/service"
)

// ItemHandler exposes the item CRUD surface and the public leaderboard.
type ItemHandler struct {
	items  *service.ItemService
	logger *slog.Logger
}

func NewItemHandler(items *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		items:  items,
		logger: logger,
	}
}

type createItemRequest struct {
	Name     string         `json:"name"`
	Color    string         `json:"color"`
	Material model.Material `json:"material"`
	// Pointer: "custom_washes": 0 is a real value, a missing field defaults.
	CustomWashes *int     `json:"custom_washes"`
	Accessories  []string `json:"accessories"`
	PurchaseDate string   `json:"purchase_date"`
}

type itemActionRequest struct {
	Action string `json:"action"`
}

// HandleList returns the authenticated user's items, newest first.
//
// HTTP: GET /items (auth required)
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	items, err := h.items.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// HandleCreate creates a new item for the authenticated user.
//
// HTTP: POST /items (auth required)
// 201 with the item, or 400 {"errors": {...}}.
func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"body": "invalid JSON body"},
		})
		return
	}

	item, err := h.items.Create(r.Context(), userID, service.CreateItemInput{
		Name:         req.Name,
		Color:        req.Color,
		Material:     req.Material,
		CustomWashes: req.CustomWashes,
		Accessories:  req.Accessories,
		PurchaseDate: req.PurchaseDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// HandleAction applies a mutation to one of the user's items.
//
// HTTP: PATCH /items/{id} (auth required)
// Body: {"action": "wash"} or {"action": "retire"}
// 200 with the updated item (achievements included), 404 if the item
// doesn't exist or belongs to someone else, 400 on an unknown action.
func (h *ItemHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	itemID := r.PathValue("id")

	var req itemActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"body": "invalid JSON body"},
		})
		return
	}

	var (
		item *model.Item
		err  error
	)
	switch req.Action {
	case "wash":
		item, err = h.items.Wash(r.Context(), itemID, userID)
	case "retire":
		item, err = h.items.Retire(r.Context(), itemID, userID)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string]string{"action": "action must be \"wash\" or \"retire\""},
		})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// HandleDelete removes one of the user's items.
//
// HTTP: DELETE /items/{id} (auth required)
// 204 on success, 404 if not found or not owned.
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	itemID := r.PathValue("id")

	if err := h.items.Delete(r.Context(), itemID, userID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLeaderboard returns every item from every user with owner and
// achievements attached, newest first. No authentication — this view is
// deliberately public.
//
// HTTP: GET /leaderboard
func (h *ItemHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.Leaderboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}
