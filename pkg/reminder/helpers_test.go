package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/careassist/care-reminder/pkg/models"
)

var base = time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func appt(id, title string, at time.Time) models.Appointment {
	return models.Appointment{
		ID:              models.AppointmentID(id),
		Title:           title,
		AppointmentTime: at.Format(time.RFC3339),
		Recurring:       models.RecurrenceNone,
	}
}

type staticSource struct {
	mu    sync.Mutex
	items []models.Appointment
}

func (s *staticSource) Appointments() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Appointment(nil), s.items...)
}

type recordingTarget struct {
	mu        sync.Mutex
	triggered []models.Appointment
}

func (r *recordingTarget) Trigger(a models.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggered = append(r.triggered, a)
}

func (r *recordingTarget) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.triggered)
}

type fakeView struct {
	mu     sync.Mutex
	shown  []models.Alert
	hidden int
}

func (v *fakeView) ShowReminder(alert models.Alert) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown = append(v.shown, alert)
}

func (v *fakeView) HideReminder() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hidden++
}

type fakeSound struct {
	mu    sync.Mutex
	plays int
}

func (s *fakeSound) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
}

type fakeBackend struct {
	mu    sync.Mutex
	items []models.Appointment
	calls int
}

func (b *fakeBackend) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return append([]models.Appointment(nil), b.items...), nil
}

func (b *fakeBackend) CreateAppointment(ctx context.Context, a models.NewAppointment) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return nil
}

func (b *fakeBackend) DeleteAppointment(ctx context.Context, id models.AppointmentID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return nil
}
