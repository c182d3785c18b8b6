package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/dukerupert/leanfuel/internal/model"
	"github.com/dukerupert/leanfuel/internal/nutrition"
	"github.com/dukerupert/leanfuel/internal/onboarding"
	"github.com/dukerupert/leanfuel/internal/store"
	ws "github.com/dukerupert/leanfuel/internal/websocket"
)

// OnboardingHandler drives the persisted wizard. Every request loads the
// wizard, applies one move and saves it back under a single lock.
type OnboardingHandler struct {
	mu           sync.Mutex
	profileStore *store.ProfileStore
	stateStore   *store.StateStore
	hub          ws.Broadcaster
	logger       *slog.Logger
}

func NewOnboardingHandler(ps *store.ProfileStore, ss *store.StateStore, hub ws.Broadcaster, logger *slog.Logger) *OnboardingHandler {
	return &OnboardingHandler{profileStore: ps, stateStore: ss, hub: broadcasterOrNop(hub), logger: logger}
}

type onboardingView struct {
	Step            int                  `json:"step"`
	StepName        string               `json:"step_name"`
	Data            model.OnboardingData `json:"data"`
	Completed       bool                 `json:"completed"`
	CanProceed      bool                 `json:"can_proceed"`
	Errors          map[string]string    `json:"errors,omitempty"`
	Results         *onboarding.Results  `json:"results,omitempty"`
	CommonAllergies []string             `json:"common_allergies"`
}

type unitRequest struct {
	Unit model.WeightUnit `json:"unit"`
}

type allergyRequest struct {
	Name string `json:"name"`
}

type calorieRequest struct {
	Gender model.Gender     `json:"gender"`
	Age    int              `json:"age"`
	Height float64          `json:"height"`
	Weight float64          `json:"weight"`
	Unit   model.WeightUnit `json:"unit"`
}

func viewOf(wz *onboarding.Wizard) onboardingView {
	v := onboardingView{
		Step:            wz.Step(),
		StepName:        onboarding.StepName(wz.Step()),
		Data:            wz.Data(),
		Completed:       wz.Completed(),
		CommonAllergies: onboarding.CommonAllergies,
	}
	if errs := wz.Validate(); len(errs) > 0 {
		v.Errors = errs.Fields()
	} else {
		v.CanProceed = true
	}
	if wz.Step() == onboarding.StepResults {
		res := wz.Results()
		v.Results = &res
	}
	return v
}

// load must be called with h.mu held. Unreadable stored data starts over.
func (h *OnboardingHandler) load() (*onboarding.Wizard, error) {
	p, err := h.profileStore.Get()
	if errors.Is(err, store.ErrCorruptProfile) {
		h.logger.Warn("discarding unreadable onboarding profile", "error", err)
		if err := h.profileStore.Reset(); err != nil {
			return nil, err
		}
		return onboarding.New(), nil
	}
	if err != nil {
		return nil, err
	}
	if p == nil {
		return onboarding.New(), nil
	}
	return onboarding.FromProfile(*p), nil
}

// mutate applies fn to the stored wizard and persists the result.
func (h *OnboardingHandler) mutate(w http.ResponseWriter, fn func(*onboarding.Wizard) error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	wz, err := h.load()
	if err != nil {
		h.logger.Error("load onboarding", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load onboarding")
		return
	}

	wasCompleted := wz.Completed()
	if err := fn(wz); err != nil {
		h.writeWizardError(w, wz, err)
		return
	}

	if err := h.profileStore.Save(wz.Profile()); err != nil {
		h.logger.Error("save onboarding", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save onboarding")
		return
	}
	if wz.Completed() && !wasCompleted {
		if err := h.stateStore.Set(store.StateOnboardingCompleted, "true"); err != nil {
			h.logger.Error("set onboarding completed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save onboarding")
			return
		}
		h.logger.Info("onboarding completed")
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityProfile, "updated", "", nil))
	writeJSON(w, http.StatusOK, viewOf(wz))
}

func (h *OnboardingHandler) writeWizardError(w http.ResponseWriter, wz *onboarding.Wizard, err error) {
	var verrs onboarding.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "step is incomplete",
			"step":   wz.Step(),
			"fields": verrs.Fields(),
		})
	case errors.Is(err, onboarding.ErrInvalidUnit):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, onboarding.ErrCompleted),
		errors.Is(err, onboarding.ErrFirstStep),
		errors.Is(err, onboarding.ErrLastStep),
		errors.Is(err, onboarding.ErrNotFinalStep):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("onboarding move", "error", err)
		writeError(w, http.StatusInternalServerError, "onboarding update failed")
	}
}

// Get handles GET /api/onboarding
func (h *OnboardingHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	wz, err := h.load()
	h.mu.Unlock()
	if err != nil {
		h.logger.Error("load onboarding", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load onboarding")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(wz))
}

// Update handles PUT /api/onboarding/data
func (h *OnboardingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var d model.OnboardingData
	if err := decodeJSON(w, r, &d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.mutate(w, func(wz *onboarding.Wizard) error { return wz.Update(d) })
}

// Next handles POST /api/onboarding/next
func (h *OnboardingHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, (*onboarding.Wizard).Next)
}

// Back handles POST /api/onboarding/back
func (h *OnboardingHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, (*onboarding.Wizard).Back)
}

// Finish handles POST /api/onboarding/finish
func (h *OnboardingHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, (*onboarding.Wizard).Finish)
}

// SetUnit handles PUT /api/onboarding/unit
func (h *OnboardingHandler) SetUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.mutate(w, func(wz *onboarding.Wizard) error { return wz.SetWeightUnit(req.Unit) })
}

// ToggleAllergy handles POST /api/onboarding/allergies/toggle
func (h *OnboardingHandler) ToggleAllergy(w http.ResponseWriter, r *http.Request) {
	var req allergyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	h.mutate(w, func(wz *onboarding.Wizard) error { return wz.ToggleAllergy(req.Name) })
}

// AddAllergy handles POST /api/onboarding/allergies
func (h *OnboardingHandler) AddAllergy(w http.ResponseWriter, r *http.Request) {
	var req allergyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.mutate(w, func(wz *onboarding.Wizard) error {
		_, err := wz.AddAllergy(req.Name)
		return err
	})
}

// RemoveAllergy handles DELETE /api/onboarding/allergies/{name}
func (h *OnboardingHandler) RemoveAllergy(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	h.mutate(w, func(wz *onboarding.Wizard) error { return wz.RemoveAllergy(name) })
}

// Reset handles DELETE /api/onboarding
func (h *OnboardingHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.profileStore.Reset(); err != nil {
		h.logger.Error("reset onboarding", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset onboarding")
		return
	}
	if err := h.stateStore.Delete(store.StateOnboardingCompleted); err != nil {
		h.logger.Error("clear onboarding flag", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reset onboarding")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(onboarding.New()))
}

// CalorieGoal handles POST /api/calories. It is stateless.
func (h *OnboardingHandler) CalorieGoal(w http.ResponseWriter, r *http.Request) {
	var req calorieRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Unit == "" {
		req.Unit = model.UnitKg
	}
	goal := nutrition.CalorieGoal(nutrition.Input{
		Gender:   req.Gender,
		Age:      req.Age,
		HeightCm: req.Height,
		Weight:   req.Weight,
		Unit:     req.Unit,
	})
	writeJSON(w, http.StatusOK, map[string]int{"calorie_goal": goal})
}
