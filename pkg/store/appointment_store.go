package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/careassist/care-reminder/pkg/logging"
	"github.com/careassist/care-reminder/pkg/models"
)

// DefaultSnooze is how far a snoozed appointment is pushed back
const DefaultSnooze = 5 * time.Minute

var (
	ErrEmptyTitle        = errors.New("store: appointment title is required")
	ErrInvalidTime       = errors.New("store: appointment time is not a valid date and time")
	ErrInvalidRecurrence = errors.New("store: recurrence must be none, daily or weekly")
	ErrNotFound          = errors.New("store: appointment not found")

	// ErrRefreshAfterCreate means the appointment was created but the list could not be reloaded
	ErrRefreshAfterCreate = errors.New("store: appointment created but refresh failed")
)

// Backend is the remote collaborator that owns appointment persistence
type Backend interface {
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
	CreateAppointment(ctx context.Context, appt models.NewAppointment) error
	DeleteAppointment(ctx context.Context, id models.AppointmentID) error
}

// Draft is the appointment form state
type Draft struct {
	Title     string
	Time      string
	Recurring models.Recurrence
}

// AppointmentStore holds the in-memory appointment list mirrored from the backend
type AppointmentStore struct {
	mu sync.RWMutex

	backend  Backend
	items    []models.Appointment
	now      func() time.Time
	snooze   time.Duration
	onUpdate func()
	logger   *logging.Logger
}

// Option configures an AppointmentStore
type Option func(*AppointmentStore)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *AppointmentStore) {
		s.now = now
	}
}

// WithSnooze overrides the snooze duration
func WithSnooze(d time.Duration) Option {
	return func(s *AppointmentStore) {
		if d > 0 {
			s.snooze = d
		}
	}
}

// WithLogger sets a custom logger
func WithLogger(logger *logging.Logger) Option {
	return func(s *AppointmentStore) {
		s.logger = logger
	}
}

// NewAppointmentStore creates an empty store; call Refresh to populate it
func NewAppointmentStore(backend Backend, opts ...Option) *AppointmentStore {
	s := &AppointmentStore{
		backend: backend,
		items:   []models.Appointment{},
		now:     time.Now,
		snooze:  DefaultSnooze,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetOnUpdate sets a callback invoked after every change to the list
func (s *AppointmentStore) SetOnUpdate(fn func()) {
	s.mu.Lock()
	s.onUpdate = fn
	s.mu.Unlock()
}

// Refresh replaces the whole list with the backend's. Local snoozes are lost.
// On error the previous list is kept.
func (s *AppointmentStore) Refresh(ctx context.Context) error {
	appts, err := s.backend.ListAppointments(ctx)
	if err != nil {
		return fmt.Errorf("store: refresh: %w", err)
	}

	s.mu.Lock()
	s.items = append([]models.Appointment(nil), appts...)
	s.mu.Unlock()

	s.logger.Info("appointments refreshed", "count", len(appts))
	s.notify()
	return nil
}

// Create validates the draft, stores it remotely and refreshes.
// The draft's title and time are cleared once the backend accepts it, even if
// the follow-up refresh fails; that case returns ErrRefreshAfterCreate.
func (s *AppointmentStore) Create(ctx context.Context, draft *Draft) error {
	req, err := validate(draft)
	if err != nil {
		return err
	}

	if err := s.backend.CreateAppointment(ctx, req); err != nil {
		return fmt.Errorf("store: create: %w", err)
	}

	draft.Title = ""
	draft.Time = ""
	s.logger.Info("appointment created", "title", req.Title, "time", req.AppointmentTime, "recurring", req.Recurring)

	if err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshAfterCreate, err)
	}
	return nil
}

func validate(draft *Draft) (models.NewAppointment, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return models.NewAppointment{}, ErrEmptyTitle
	}

	t, err := models.ParseTime(draft.Time)
	if err != nil {
		return models.NewAppointment{}, fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}

	recurring := draft.Recurring
	if recurring == "" {
		recurring = models.RecurrenceNone
	}
	if !recurring.Valid() {
		return models.NewAppointment{}, ErrInvalidRecurrence
	}

	return models.NewAppointment{
		Title:           title,
		AppointmentTime: t.In(time.Local).Format("2006-01-02T15:04:05"),
		Recurring:       recurring,
	}, nil
}

// Delete removes an appointment remotely and refreshes
func (s *AppointmentStore) Delete(ctx context.Context, id models.AppointmentID) error {
	if err := s.backend.DeleteAppointment(ctx, id); err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	s.logger.Info("appointment deleted", "id", id)
	return s.Refresh(ctx)
}

// Snooze moves one appointment to now + snooze duration. The change is local only.
func (s *AppointmentStore) Snooze(id models.AppointmentID) (models.Appointment, error) {
	s.mu.Lock()
	var updated models.Appointment
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].AppointmentTime = models.FormatTime(s.now().Add(s.snooze))
			updated = s.items[i]
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return models.Appointment{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.logger.Info("appointment snoozed", "id", id, "until", updated.AppointmentTime)
	s.notify()
	return updated, nil
}

// Appointments returns a snapshot in store order
func (s *AppointmentStore) Appointments() []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Appointment, len(s.items))
	copy(result, s.items)
	return result
}

// Get returns one appointment by id
func (s *AppointmentStore) Get(id models.AppointmentID) (models.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, appt := range s.items {
		if appt.ID == id {
			return appt, true
		}
	}
	return models.Appointment{}, false
}

// Upcoming returns appointments with a valid time in [now, until), soonest first, at most limit
func (s *AppointmentStore) Upcoming(until time.Time, limit int) []models.Appointment {
	now := s.now()

	type timed struct {
		appt models.Appointment
		at   time.Time
	}
	var candidates []timed
	for _, appt := range s.Appointments() {
		at, err := appt.Time()
		if err != nil || at.Before(now) || !at.Before(until) {
			continue
		}
		candidates = append(candidates, timed{appt, at})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].at.Before(candidates[j].at)
	})

	result := make([]models.Appointment, 0, limit)
	for _, c := range candidates {
		if len(result) >= limit {
			break
		}
		result = append(result, c.appt)
	}
	return result
}

// Reset empties the list, for logout
func (s *AppointmentStore) Reset() {
	s.mu.Lock()
	s.items = []models.Appointment{}
	s.mu.Unlock()
	s.notify()
}

func (s *AppointmentStore) notify() {
	s.mu.RLock()
	fn := s.onUpdate
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}
