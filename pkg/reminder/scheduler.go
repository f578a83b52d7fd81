package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/careassist/care-reminder/pkg/logging"
	"github.com/careassist/care-reminder/pkg/models"
)

const (
	DefaultPollInterval = 10 * time.Second
	DefaultWindow       = 120 * time.Second
)

// Source provides the appointments to evaluate, in display order
type Source interface {
	Appointments() []models.Appointment
}

// Target receives each appointment as it becomes due
type Target interface {
	Trigger(appt models.Appointment)
}

// Scheduler polls a Source and triggers each appointment once when its time
// falls within the reminder window around now.
type Scheduler struct {
	mu       sync.Mutex
	source   Source
	target   Target
	interval time.Duration
	window   time.Duration
	now      func() time.Time
	alerted  map[models.AppointmentID]struct{}
	logger   *logging.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithInterval sets the polling period
func WithInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithWindow sets how close to now an appointment must be to fire
func WithWindow(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithLogger sets the scheduler logger
func WithLogger(logger *logging.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func NewScheduler(source Source, target Target, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		source:   source,
		target:   target,
		interval: DefaultPollInterval,
		window:   DefaultWindow,
		now:      time.Now,
		alerted:  make(map[models.AppointmentID]struct{}),
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins polling in the background. The first evaluation happens one
// interval after Start. Calling Start on a running scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.loop(ctx, done)
	s.logger.Info("reminder scheduler started", "interval", s.interval, "window", s.window)
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Stop cancels polling and waits for the loop to exit
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("reminder scheduler stopped")
}

// Tick evaluates every appointment once and returns the ones it triggered.
// When several are due in the same tick they are triggered in source order.
func (s *Scheduler) Tick() []models.Appointment {
	now := s.now()
	appointments := s.source.Appointments()

	var due []models.Appointment
	s.mu.Lock()
	for _, appt := range appointments {
		if appt.ID == "" {
			s.logger.Warn("skipping appointment without id", "title", appt.Title)
			continue
		}
		at, err := appt.Time()
		if err != nil {
			s.logger.Warn("skipping appointment with unreadable time",
				"id", appt.ID, "appointment_time", appt.AppointmentTime, "error", err)
			continue
		}

		diff := at.Sub(now)
		if diff < 0 {
			diff = -diff
		}
		if diff >= s.window {
			continue
		}
		if _, seen := s.alerted[appt.ID]; seen {
			continue
		}

		s.alerted[appt.ID] = struct{}{}
		due = append(due, appt)
	}
	s.mu.Unlock()

	for _, appt := range due {
		s.logger.Info("appointment due", "id", appt.ID, "title", appt.Title)
		s.target.Trigger(appt)
	}
	return due
}

// Alerted reports whether id has already fired
func (s *Scheduler) Alerted(id models.AppointmentID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.alerted[id]
	return ok
}

// Forget lets id fire again
func (s *Scheduler) Forget(id models.AppointmentID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.alerted, id)
}
