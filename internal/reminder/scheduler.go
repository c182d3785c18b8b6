package reminder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/leanfuel/internal/model"
	"github.com/dukerupert/leanfuel/internal/push"
)

const sendRetention = 48 * time.Hour

// Sender delivers one push notification.
type Sender interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload push.Payload) error
}

// Store is the reminder persistence the scheduler needs.
type Store interface {
	ListEnabled() ([]model.Reminder, error)
	WasSent(reminderID, slot string) (bool, error)
	RecordSent(reminderID, slot string) error
	CleanupSent(before time.Time) error
}

// Subscriptions lists and prunes push endpoints.
type Subscriptions interface {
	List() ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
}

// Scheduler periodically sends due reminders.
type Scheduler struct {
	mu       sync.RWMutex
	sender   Sender
	store    Store
	subs     Subscriptions
	logger   *slog.Logger
	interval time.Duration
	loc      *time.Location
	now      func() time.Time
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewScheduler creates a reminder scheduler. Reminder times are read in loc.
func NewScheduler(sender Sender, store Store, subs Subscriptions, interval time.Duration, loc *time.Location, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		sender:   sender,
		store:    store,
		subs:     subs,
		logger:   logger.With("component", "reminder-scheduler"),
		interval: interval,
		loc:      loc,
		now:      time.Now,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	s.logger.Info("starting", "interval", s.interval, "location", s.loc.String())

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.now().In(s.loc)

	reminders, err := s.store.ListEnabled()
	if err != nil {
		s.logger.Error("list reminders", "error", err)
		return
	}

	for _, r := range reminders {
		if !Due(r, now) {
			continue
		}
		slot := slotKey(now)
		sent, err := s.store.WasSent(r.ID, slot)
		if err != nil {
			s.logger.Error("check sent", "reminder", r.ID, "error", err)
			continue
		}
		if sent {
			continue
		}

		s.deliver(ctx, r)

		if err := s.store.RecordSent(r.ID, slot); err != nil {
			s.logger.Error("record sent", "reminder", r.ID, "error", err)
		}
	}

	if now.Minute() == 0 {
		if err := s.store.CleanupSent(now.Add(-sendRetention)); err != nil {
			s.logger.Warn("cleanup sent reminders", "error", err)
		}
	}
}

func (s *Scheduler) deliver(ctx context.Context, r model.Reminder) {
	subs, err := s.subs.List()
	if err != nil {
		s.logger.Error("list subscriptions", "error", err)
		return
	}

	payload := push.Payload{
		Title: DefaultTitle,
		Body:  Message(r),
		URL:   "/reminders",
		Tag:   r.ID,
	}

	for _, sub := range subs {
		if err := s.sender.Send(ctx, &sub, payload); err != nil {
			if errors.Is(err, push.ErrExpired) {
				s.logger.Info("removing expired subscription", "endpoint", sub.Endpoint)
				if err := s.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
					s.logger.Error("delete subscription", "error", err)
				}
				continue
			}
			s.logger.Warn("send reminder", "reminder", r.ID, "error", err)
		}
	}
	s.logger.Debug("reminder sent", "reminder", r.ID, "subscriptions", len(subs))
}
