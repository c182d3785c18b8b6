// Package server wires stores, services and handlers into the HTTP API.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/leanfuel/internal/backup"
	"github.com/dukerupert/leanfuel/internal/chat"
	"github.com/dukerupert/leanfuel/internal/config"
	"github.com/dukerupert/leanfuel/internal/entitlement"
	"github.com/dukerupert/leanfuel/internal/handler"
	"github.com/dukerupert/leanfuel/internal/mealplan"
	"github.com/dukerupert/leanfuel/internal/middleware"
	"github.com/dukerupert/leanfuel/internal/push"
	"github.com/dukerupert/leanfuel/internal/reminder"
	"github.com/dukerupert/leanfuel/internal/store"
	ws "github.com/dukerupert/leanfuel/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	entitlement *entitlement.Service
	mealPlanH   *handler.MealPlanHandler
	groceryH    *handler.GroceryHandler
	foodLogH    *handler.FoodLogHandler
	onboardingH *handler.OnboardingHandler
	subH        *handler.SubscriptionHandler
	chatH       *handler.ChatHandler
	weightH     *handler.WeightHandler
	reminderH   *handler.ReminderHandler
	pushH       *handler.PushHandler
	backupH     *handler.BackupHandler
	rateLimiter *middleware.RateLimiter
	chatLimit   int
	origins     []string
	backupMgr   *backup.Manager
	scheduler   *reminder.Scheduler
	logger      *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	plans, err := mealplan.NewFixtureRepository()
	if err != nil {
		return nil, fmt.Errorf("load meal plans: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(logger)

	groceryStore := store.NewGroceryStore(db)
	foodLogStore := store.NewFoodLogStore(db)
	profileStore := store.NewProfileStore(db)
	stateStore := store.NewStateStore(db)
	subStore := store.NewSubscriptionStore(db)
	reminderStore := store.NewReminderStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)
	weightStore := store.NewWeightStore(db)

	ent := entitlement.NewService(stateStore, subStore, logger)

	backupMgr := backup.NewManager(backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.Backup.S3.Endpoint,
			Bucket:    cfg.Backup.S3.Bucket,
			Region:    cfg.Backup.S3.Region,
			AccessKey: cfg.Backup.S3.AccessKey,
			SecretKey: cfg.Backup.S3.SecretKey,
		},
		LocalDir:      cfg.Backup.LocalDir,
		RetentionDays: cfg.Backup.RetentionDays,
	}, db, backupStore, logger, func(s backup.Status) {
		hub.Broadcast(ws.NewMessage(ws.EntityBackup, string(s.State), "", s))
	})

	pushSvc := push.NewService(push.Config{
		VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
		Subscriber:      cfg.Push.Subscriber,
	})
	var sched *reminder.Scheduler
	if pushSvc.Enabled() {
		sched = reminder.NewScheduler(pushSvc, reminderStore, pushStore, cfg.Reminders.Interval, loc, logger)
	} else {
		logger.Info("push not configured, reminders will not be delivered")
	}

	return &Server{
		db:          db,
		hub:         hub,
		entitlement: ent,
		mealPlanH:   handler.NewMealPlanHandler(plans, ent, logger.With("component", "meal_plan")),
		groceryH:    handler.NewGroceryHandler(groceryStore, plans, ent, hub, logger.With("component", "grocery")),
		foodLogH:    handler.NewFoodLogHandler(foodLogStore, plans, hub, logger.With("component", "food_log")),
		onboardingH: handler.NewOnboardingHandler(profileStore, stateStore, hub, logger.With("component", "onboarding")),
		subH:        handler.NewSubscriptionHandler(ent, subStore, logger.With("component", "subscription")),
		chatH:       handler.NewChatHandler(chat.NewAssistant(cfg.Chat.Delay), logger.With("component", "chat")),
		weightH:     handler.NewWeightHandler(weightStore, profileStore, hub, logger.With("component", "weight")),
		reminderH:   handler.NewReminderHandler(reminderStore, hub, loc, logger.With("component", "reminder")),
		pushH:       handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		backupH:     handler.NewBackupHandler(backupMgr, cfg.Backup.Passphrase, logger.With("component", "backup_handler")),
		rateLimiter: middleware.NewRateLimiter(),
		chatLimit:   cfg.Chat.RateLimit,
		origins:     cfg.AllowedOrigins,
		backupMgr:   backupMgr,
		scheduler:   sched,
		logger:      logger,
	}, nil
}

// Scheduler returns the reminder scheduler, or nil when push is not
// configured.
func (s *Server) Scheduler() *reminder.Scheduler {
	return s.scheduler
}

func (s *Server) BackupManager() *backup.Manager {
	return s.backupMgr
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.origins))
	s.registerAPIRoutes(mux)

	httpLogger := s.logger.With("component", "http")
	var h http.Handler = mux
	h = middleware.Recoverer(httpLogger)(h)
	h = middleware.RequestLogger(httpLogger)(h)
	return middleware.RequestID(h)
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	// Meal plans
	mux.HandleFunc("GET /api/meal-plans", s.mealPlanH.List)
	mux.HandleFunc("GET /api/meal-plans/{id}", s.mealPlanH.Get)
	mux.HandleFunc("POST /api/meal-plans/{id}/grocery-list", s.mealPlanH.GroceryList)

	// Grocery list
	mux.HandleFunc("GET /api/grocery/items", s.groceryH.List)
	mux.HandleFunc("POST /api/grocery/items", s.groceryH.Create)
	mux.HandleFunc("POST /api/grocery/items/from-plan", s.groceryH.FromPlan)
	mux.HandleFunc("PATCH /api/grocery/items/{id}", s.groceryH.SetChecked)
	mux.HandleFunc("DELETE /api/grocery/items/{id}", s.groceryH.Delete)
	mux.HandleFunc("DELETE /api/grocery/items", s.groceryH.Clear)

	// Food log
	mux.HandleFunc("GET /api/food-logs", s.foodLogH.Dates)
	mux.HandleFunc("GET /api/food-logs/{date}", s.foodLogH.Get)
	mux.HandleFunc("POST /api/food-logs/{date}/foods", s.foodLogH.AddFood)
	mux.HandleFunc("DELETE /api/food-logs/{date}/foods/{id}", s.foodLogH.RemoveFood)
	mux.HandleFunc("PUT /api/food-logs/{date}/calories-burned", s.foodLogH.SetCaloriesBurned)
	mux.Handle("POST /api/food-logs/{date}/meals", s.premium(entitlement.FeatureAddMealToLog, s.foodLogH.AddMeal))
	mux.Handle("GET /api/reports/weekly", s.premium(entitlement.FeatureWeeklyReport, s.foodLogH.Weekly))

	// Weight progress
	mux.HandleFunc("GET /api/weights", s.weightH.List)
	mux.HandleFunc("POST /api/weights", s.weightH.Record)
	mux.HandleFunc("DELETE /api/weights/{date}", s.weightH.Delete)
	mux.Handle("GET /api/weights/trends", s.premium(entitlement.FeatureWeeklyReport, s.weightH.Trends))

	// Onboarding
	mux.HandleFunc("GET /api/onboarding", s.onboardingH.Get)
	mux.HandleFunc("DELETE /api/onboarding", s.onboardingH.Reset)
	mux.HandleFunc("PUT /api/onboarding/data", s.onboardingH.Update)
	mux.HandleFunc("PUT /api/onboarding/unit", s.onboardingH.SetUnit)
	mux.HandleFunc("POST /api/onboarding/next", s.onboardingH.Next)
	mux.HandleFunc("POST /api/onboarding/back", s.onboardingH.Back)
	mux.HandleFunc("POST /api/onboarding/finish", s.onboardingH.Finish)
	mux.HandleFunc("POST /api/onboarding/allergies", s.onboardingH.AddAllergy)
	mux.HandleFunc("POST /api/onboarding/allergies/toggle", s.onboardingH.ToggleAllergy)
	mux.HandleFunc("DELETE /api/onboarding/allergies/{name}", s.onboardingH.RemoveAllergy)
	mux.HandleFunc("POST /api/calories", s.onboardingH.CalorieGoal)

	// Subscription
	mux.HandleFunc("GET /api/subscription", s.subH.Status)
	mux.HandleFunc("GET /api/subscription/plans", s.subH.Plans)
	mux.HandleFunc("GET /api/subscription/history", s.subH.History)
	mux.HandleFunc("POST /api/subscription/upgrade", s.subH.Upgrade)
	mux.HandleFunc("POST /api/subscription/promotion/dismiss", s.subH.DismissPromotion)

	// Chat
	mux.HandleFunc("GET /api/chat", s.chatH.Intro)
	chatLimited := middleware.RateLimit(s.rateLimiter, middleware.KeyByIP("chat"), s.chatLimit, time.Minute)
	mux.Handle("POST /api/chat", chatLimited(s.premium(entitlement.FeatureChatAssistant, s.chatH.Send)))

	// Reminders
	mux.HandleFunc("GET /api/reminders", s.reminderH.List)
	mux.HandleFunc("PATCH /api/reminders/{id}", s.reminderH.Update)

	// Push notifications
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.DeleteSubscription)
	mux.HandleFunc("POST /api/push/test", s.pushH.Test)

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("POST /api/backups", s.backupH.Run)
	mux.HandleFunc("GET /api/backups/status", s.backupH.Status)
	mux.HandleFunc("GET /api/backups/{id}/download", s.backupH.Download)
}

func (s *Server) premium(feature string, h http.HandlerFunc) http.Handler {
	return middleware.RequireEntitlement(s.entitlement, feature, s.logger.With("component", "entitlement"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  status,
		"clients": s.hub.ClientCount(),
		"backup":  s.backupMgr.Status().State,
	})
}
