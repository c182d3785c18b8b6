package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/leanfuel/internal/grocery"
	"github.com/dukerupert/leanfuel/internal/mealplan"
	"github.com/dukerupert/leanfuel/internal/model"
	"github.com/dukerupert/leanfuel/internal/store"
	ws "github.com/dukerupert/leanfuel/internal/websocket"
)

type GroceryHandler struct {
	groceryStore *store.GroceryStore
	plans        mealplan.Repository
	ent          Entitlements
	hub          ws.Broadcaster
	logger       *slog.Logger
}

func NewGroceryHandler(gs *store.GroceryStore, plans mealplan.Repository, ent Entitlements, hub ws.Broadcaster, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{groceryStore: gs, plans: plans, ent: ent, hub: broadcasterOrNop(hub), logger: logger}
}

type groceryItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type checkRequest struct {
	Checked bool `json:"checked"`
}

type fromPlanRequest struct {
	PlanID string `json:"plan_id"`
}

type groceryListView struct {
	Items      []model.GroceryItem `json:"items"`
	Categories []string            `json:"categories"`
	Unchecked  int                 `json:"unchecked"`
}

// List handles GET /api/grocery/items?category=
func (h *GroceryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.groceryStore.List()
	if err != nil {
		h.logger.Error("list grocery items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	unchecked, err := h.groceryStore.CountUnchecked()
	if err != nil {
		h.logger.Error("count unchecked grocery items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	writeJSON(w, http.StatusOK, groceryListView{
		Items:      grocery.FilterByCategory(items, r.URL.Query().Get("category")),
		Categories: grocery.CategoriesWithItems(items),
		Unchecked:  unchecked,
	})
}

// Create handles POST /api/grocery/items
func (h *GroceryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req groceryItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Category == "" {
		req.Category = grocery.Categorize(req.Name)
	} else if !slices.Contains(model.Categories, req.Category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	item, err := h.groceryStore.Create(model.GroceryItem{ID: uuid.NewString(), Name: req.Name, Category: req.Category})
	if err != nil {
		h.logger.Error("create grocery item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityGrocery, "created", item.ID, item))
	writeJSON(w, http.StatusCreated, item)
}

// SetChecked handles PATCH /api/grocery/items/{id}
func (h *GroceryHandler) SetChecked(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := r.PathValue("id")
	item, err := h.groceryStore.SetChecked(id, req.Checked)
	if err != nil {
		h.logger.Error("set grocery item checked", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityGrocery, "updated", item.ID, item))
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/grocery/items/{id}
func (h *GroceryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	existing, err := h.groceryStore.GetByID(id)
	if err != nil {
		h.logger.Error("get grocery item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := h.groceryStore.Delete(id); err != nil {
		h.logger.Error("delete grocery item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityGrocery, "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/grocery/items. With ?checked=true only checked
// items are removed.
func (h *GroceryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var (
		n   int64
		err error
	)
	action := "cleared"
	if r.URL.Query().Get("checked") == "true" {
		action = "cleared_checked"
		n, err = h.groceryStore.ClearChecked()
	} else {
		n, err = h.groceryStore.ClearAll()
	}
	if err != nil {
		h.logger.Error("clear grocery items", "action", action, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear items")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityGrocery, action, "", map[string]int64{"removed": n}))
	writeJSON(w, http.StatusOK, map[string]int64{"removed": n})
}

// FromPlan handles POST /api/grocery/items/from-plan. Generated items whose
// name is already on the list are skipped. Premium plans need the same
// entitlement as viewing them.
func (h *GroceryHandler) FromPlan(w http.ResponseWriter, r *http.Request) {
	var req fromPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PlanID == "" {
		writeError(w, http.StatusBadRequest, "plan_id is required")
		return
	}

	plan, days, ok := resolvePlan(w, req.PlanID, h.plans, h.ent, h.logger)
	if !ok {
		return
	}

	added, err := h.groceryStore.AddMissing(grocery.FromDays(days))
	if err != nil {
		h.logger.Error("add plan groceries", "plan", plan.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save items")
		return
	}

	if len(added) > 0 {
		h.hub.Broadcast(ws.NewMessage(ws.EntityGrocery, "bulk_added", plan.ID, map[string]int{"added": len(added)}))
	}
	writeJSON(w, http.StatusOK, map[string]any{"added": added})
}
