package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/leanfuel/internal/entitlement"
	"github.com/dukerupert/leanfuel/internal/store"
)

type SubscriptionHandler struct {
	service   *entitlement.Service
	subsStore *store.SubscriptionStore
	logger    *slog.Logger
	now       func() time.Time
}

func NewSubscriptionHandler(svc *entitlement.Service, ss *store.SubscriptionStore, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{service: svc, subsStore: ss, logger: logger, now: time.Now}
}

type upgradeRequest struct {
	Plan string `json:"plan"`
}

// Plans handles GET /api/subscription/plans
func (h *SubscriptionHandler) Plans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Plans())
}

// Status handles GET /api/subscription. Reading status also records the
// first visit used by the promotion timer.
func (h *SubscriptionHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Status(h.now())
	if err != nil {
		h.logger.Error("subscription status", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get subscription status")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Upgrade handles POST /api/subscription/upgrade
func (h *SubscriptionHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	var req upgradeRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	sub, err := h.service.Upgrade(req.Plan, h.now())
	if errors.Is(err, entitlement.ErrUnknownPlan) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("upgrade", "plan", req.Plan, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to upgrade")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// DismissPromotion handles POST /api/subscription/promotion/dismiss
func (h *SubscriptionHandler) DismissPromotion(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DismissPromotion(h.now()); err != nil {
		h.logger.Error("dismiss promotion", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to dismiss promotion")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /api/subscription/history
func (h *SubscriptionHandler) History(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subsStore.List()
	if err != nil {
		h.logger.Error("list subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}
	writeJSON(w, http.StatusOK, subs)
}
