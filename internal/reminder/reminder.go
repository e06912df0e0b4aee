// Package reminder announces reminders shortly before they start.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/javiermolinar/eventide/internal/config"
	"github.com/javiermolinar/eventide/internal/dateutil"
	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/logging"
)

// ErrInvalidLead is returned for a negative lead time.
var ErrInvalidLead = errors.New("reminder lead time cannot be negative")

// Notification is one due reminder.
type Notification struct {
	Event *event.Event
	At    time.Time     // reminder start
	In    time.Duration // time left until At when it was found due
}

// String renders the notification as a one-line message.
func (n Notification) String() string {
	mins := int(n.In.Round(time.Minute) / time.Minute)
	if mins <= 0 {
		return fmt.Sprintf("%s  %s (now)", n.Event.Start, n.Event.Title)
	}
	return fmt.Sprintf("%s  %s (in %d min)", n.Event.Start, n.Event.Title, mins)
}

// Notifier receives due reminders.
type Notifier func(Notification)

// Service checks the store on a cron schedule and notifies each reminder
// at most once.
type Service struct {
	repo   event.Repository
	spec   string
	lead   time.Duration
	notify Notifier
	log    *logging.Logger
	now    func() time.Time

	mu   sync.Mutex
	sent map[string]bool
}

// New creates a reminder service from the [reminder] config section.
func New(repo event.Repository, cfg config.ReminderConfig, notify Notifier, log *logging.Logger) (*Service, error) {
	if cfg.LeadMinutes < 0 {
		return nil, ErrInvalidLead
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", cfg.Schedule, err)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		repo:   repo,
		spec:   cfg.Schedule,
		lead:   time.Duration(cfg.LeadMinutes) * time.Minute,
		notify: notify,
		log:    log.WithComponent("reminder"),
		now:    time.Now,
		sent:   make(map[string]bool),
	}, nil
}

// Check notifies every reminder starting within the lead time and returns
// the ones it sent.
func (s *Service) Check(ctx context.Context) ([]Notification, error) {
	now := s.now()
	until := now.Add(s.lead)

	events, err := s.repo.ListByRange(ctx, dateutil.Format(now), dateutil.Format(until))
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}

	var due []Notification
	for _, e := range events {
		if !e.IsReminder() {
			continue
		}
		at, err := e.StartTime(now.Location())
		if err != nil {
			s.log.Warnw("Skipping reminder with invalid start", "id", e.ID, "error", err)
			continue
		}
		if at.Before(now) || at.After(until) {
			continue
		}
		key := fmt.Sprintf("%d@%s", e.ID, at.Format(time.RFC3339))

		s.mu.Lock()
		seen := s.sent[key]
		s.sent[key] = true
		s.mu.Unlock()
		if seen {
			continue
		}
		due = append(due, Notification{Event: e, At: at, In: at.Sub(now)})
	}

	sort.SliceStable(due, func(i, j int) bool { return due[i].At.Before(due[j].At) })
	for _, n := range due {
		s.log.Infow("Reminder due", "id", n.Event.ID, "title", n.Event.Title, "at", n.At)
		if s.notify != nil {
			s.notify(n)
		}
	}
	return due, nil
}

// Run checks on the configured schedule until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	c := cron.New(cron.WithLogger(cronLogger{s.log}))
	if _, err := c.AddFunc(s.spec, func() {
		if _, err := s.Check(ctx); err != nil {
			s.log.Errorw("Reminder check failed", "error", err)
		}
	}); err != nil {
		return err
	}

	s.log.Infow("Reminder service started", "schedule", s.spec, "lead", s.lead)
	if _, err := s.Check(ctx); err != nil {
		s.log.Errorw("Reminder check failed", "error", err)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

// cronLogger sends the scheduler's own messages to zap.
type cronLogger struct {
	log *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
