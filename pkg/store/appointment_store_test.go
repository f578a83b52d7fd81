package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careassist/care-reminder/pkg/logging"
	"github.com/careassist/care-reminder/pkg/models"
)

type fakeBackend struct {
	mu        sync.Mutex
	items     []models.Appointment
	created   []models.NewAppointment
	deleted   []models.AppointmentID
	listErr   error
	createErr error
	deleteErr error
	listCalls int
}

func (f *fakeBackend) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Appointment(nil), f.items...), nil
}

func (f *fakeBackend) CreateAppointment(ctx context.Context, appt models.NewAppointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, appt)
	f.items = append(f.items, models.Appointment{
		ID:              models.AppointmentID(appt.Title),
		Title:           appt.Title,
		AppointmentTime: appt.AppointmentTime,
		Recurring:       appt.Recurring,
	})
	return nil
}

func (f *fakeBackend) DeleteAppointment(ctx context.Context, id models.AppointmentID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	kept := f.items[:0]
	for _, appt := range f.items {
		if appt.ID != id {
			kept = append(kept, appt)
		}
	}
	f.items = kept
	return nil
}

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestStore(backend Backend) *AppointmentStore {
	return NewAppointmentStore(backend,
		WithClock(func() time.Time { return testNow }),
		WithLogger(logging.Discard()),
	)
}

func TestRefreshReplacesList(t *testing.T) {
	backend := &fakeBackend{items: []models.Appointment{
		{ID: "1", Title: "GP", AppointmentTime: "2025-03-01T10:30:00Z"},
		{ID: "2", Title: "Dentist", AppointmentTime: "2025-03-02T10:30:00Z"},
	}}
	s := newTestStore(backend)

	updates := 0
	s.SetOnUpdate(func() { updates++ })

	require.NoError(t, s.Refresh(context.Background()))
	assert.Len(t, s.Appointments(), 2)
	assert.Equal(t, 1, updates)

	backend.items = backend.items[1:]
	require.NoError(t, s.Refresh(context.Background()))

	appts := s.Appointments()
	require.Len(t, appts, 1)
	assert.Equal(t, models.AppointmentID("2"), appts[0].ID)
}

func TestRefreshErrorKeepsPreviousList(t *testing.T) {
	backend := &fakeBackend{items: []models.Appointment{{ID: "1", Title: "GP"}}}
	s := newTestStore(backend)
	require.NoError(t, s.Refresh(context.Background()))

	backend.listErr = errors.New("offline")
	err := s.Refresh(context.Background())

	require.Error(t, err)
	assert.Len(t, s.Appointments(), 1)
}

func TestRefreshOverwritesLocalSnooze(t *testing.T) {
	backend := &fakeBackend{items: []models.Appointment{{ID: "1", Title: "GP", AppointmentTime: "2025-03-01T10:00:00Z"}}}
	s := newTestStore(backend)
	require.NoError(t, s.Refresh(context.Background()))

	_, err := s.Snooze("1")
	require.NoError(t, err)

	require.NoError(t, s.Refresh(context.Background()))
	appt, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, "2025-03-01T10:00:00Z", appt.AppointmentTime)
}

func TestCreate(t *testing.T) {
	t.Run("success clears title and time then refreshes", func(t *testing.T) {
		backend := &fakeBackend{}
		s := newTestStore(backend)
		draft := &Draft{Title: "  Blood test ", Time: "2025-03-04T09:15", Recurring: models.RecurrenceWeekly}

		require.NoError(t, s.Create(context.Background(), draft))

		require.Len(t, backend.created, 1)
		assert.Equal(t, "Blood test", backend.created[0].Title)
		assert.Equal(t, "2025-03-04T09:15:00", backend.created[0].AppointmentTime)
		assert.Equal(t, models.RecurrenceWeekly, backend.created[0].Recurring)

		assert.Empty(t, draft.Title)
		assert.Empty(t, draft.Time)
		assert.Equal(t, models.RecurrenceWeekly, draft.Recurring)

		assert.Equal(t, 1, backend.listCalls)
		assert.Len(t, s.Appointments(), 1)
	})

	t.Run("zoned time is sent as local wall clock", func(t *testing.T) {
		backend := &fakeBackend{}
		s := newTestStore(backend)

		require.NoError(t, s.Create(context.Background(), &Draft{Title: "Scan", Time: "2030-01-01T10:00:00Z"}))

		require.Len(t, backend.created, 1)
		want := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, want.In(time.Local).Format("2006-01-02T15:04:05"), backend.created[0].AppointmentTime)

		stored, err := models.ParseTime(backend.created[0].AppointmentTime)
		require.NoError(t, err)
		assert.True(t, stored.Equal(want), "stored %s, want %s", stored, want)
	})

	t.Run("empty recurrence defaults to none", func(t *testing.T) {
		backend := &fakeBackend{}
		s := newTestStore(backend)

		require.NoError(t, s.Create(context.Background(), &Draft{Title: "Physio", Time: "2025-03-04 09:15"}))
		assert.Equal(t, models.RecurrenceNone, backend.created[0].Recurring)
	})

	rejections := []struct {
		name  string
		draft Draft
		want  error
	}{
		{"empty title", Draft{Title: "", Time: "2025-03-04T09:15", Recurring: models.RecurrenceNone}, ErrEmptyTitle},
		{"blank title", Draft{Title: "   ", Time: "2025-03-04T09:15"}, ErrEmptyTitle},
		{"bad time", Draft{Title: "GP", Time: "next tuesday"}, ErrInvalidTime},
		{"missing time", Draft{Title: "GP"}, ErrInvalidTime},
		{"bad recurrence", Draft{Title: "GP", Time: "2025-03-04T09:15", Recurring: "monthly"}, ErrInvalidRecurrence},
	}
	for _, tt := range rejections {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			s := newTestStore(backend)
			draft := tt.draft

			err := s.Create(context.Background(), &draft)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.draft, draft, "form state must be unchanged")
			assert.Empty(t, backend.created)
			assert.Zero(t, backend.listCalls)
		})
	}

	t.Run("backend failure leaves draft untouched", func(t *testing.T) {
		backend := &fakeBackend{createErr: errors.New("500")}
		s := newTestStore(backend)
		draft := &Draft{Title: "GP", Time: "2025-03-04T09:15", Recurring: models.RecurrenceDaily}

		err := s.Create(context.Background(), draft)

		require.Error(t, err)
		assert.Equal(t, "GP", draft.Title)
		assert.Equal(t, "2025-03-04T09:15", draft.Time)
		assert.Zero(t, backend.listCalls)
	})

	t.Run("refresh failure after create still clears draft", func(t *testing.T) {
		backend := &fakeBackend{listErr: errors.New("offline")}
		s := newTestStore(backend)
		draft := &Draft{Title: "GP", Time: "2025-03-04T09:15", Recurring: models.RecurrenceDaily}

		err := s.Create(context.Background(), draft)

		assert.ErrorIs(t, err, ErrRefreshAfterCreate)
		assert.ErrorContains(t, err, "offline")
		require.Len(t, backend.created, 1)
		assert.Empty(t, draft.Title)
		assert.Empty(t, draft.Time)
		assert.Equal(t, 1, backend.listCalls)
	})
}

func TestDelete(t *testing.T) {
	backend := &fakeBackend{items: []models.Appointment{{ID: "1"}, {ID: "2"}}}
	s := newTestStore(backend)
	require.NoError(t, s.Refresh(context.Background()))

	require.NoError(t, s.Delete(context.Background(), "1"))

	assert.Equal(t, []models.AppointmentID{"1"}, backend.deleted)
	appts := s.Appointments()
	require.Len(t, appts, 1)
	assert.Equal(t, models.AppointmentID("2"), appts[0].ID)

	backend.deleteErr = errors.New("404")
	assert.Error(t, s.Delete(context.Background(), "2"))
	assert.Len(t, s.Appointments(), 1)
}

func TestSnooze(t *testing.T) {
	backend := &fakeBackend{items: []models.Appointment{
		{ID: "1", Title: "GP", AppointmentTime: "2025-03-01T10:01:00Z"},
		{ID: "2", Title: "Dentist", AppointmentTime: "2025-03-01T12:00:00Z"},
	}}
	s := newTestStore(backend)
	require.NoError(t, s.Refresh(context.Background()))
	listCalls := backend.listCalls

	updated, err := s.Snooze("1")
	require.NoError(t, err)

	at, err := updated.Time()
	require.NoError(t, err)
	assert.True(t, testNow.Add(5*time.Minute).Equal(at))

	stored, _ := s.Get("1")
	assert.Equal(t, updated, stored)
	other, _ := s.Get("2")
	assert.Equal(t, "2025-03-01T12:00:00Z", other.AppointmentTime)

	assert.Equal(t, listCalls, backend.listCalls, "snooze must not call the backend")
	assert.Empty(t, backend.created)
	assert.Empty(t, backend.deleted)

	_, err = s.Snooze("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnoozeDurationOption(t *testing.T) {
	backend := &fakeBackend{items: []models.Appointment{{ID: "1", AppointmentTime: "2025-03-01T10:00:00Z"}}}
	s := NewAppointmentStore(backend,
		WithClock(func() time.Time { return testNow }),
		WithSnooze(10*time.Minute),
		WithLogger(logging.Discard()),
	)
	require.NoError(t, s.Refresh(context.Background()))

	updated, err := s.Snooze("1")
	require.NoError(t, err)
	at, _ := updated.Time()
	assert.True(t, testNow.Add(10*time.Minute).Equal(at))
}

func TestAppointmentsReturnsCopy(t *testing.T) {
	backend := &fakeBackend{items: []models.Appointment{{ID: "1", Title: "GP"}}}
	s := newTestStore(backend)
	require.NoError(t, s.Refresh(context.Background()))

	snapshot := s.Appointments()
	snapshot[0].Title = "changed"

	stored, _ := s.Get("1")
	assert.Equal(t, "GP", stored.Title)
}

func TestUpcoming(t *testing.T) {
	backend := &fakeBackend{items: []models.Appointment{
		{ID: "late", AppointmentTime: "2025-03-01T18:00:00Z"},
		{ID: "past", AppointmentTime: "2025-03-01T09:00:00Z"},
		{ID: "soon", AppointmentTime: "2025-03-01T10:15:00Z"},
		{ID: "broken", AppointmentTime: "??"},
		{ID: "tomorrow", AppointmentTime: "2025-03-02T10:00:00Z"},
	}}
	s := newTestStore(backend)
	require.NoError(t, s.Refresh(context.Background()))

	endOfDay := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	got := s.Upcoming(endOfDay, 5)

	require.Len(t, got, 2)
	assert.Equal(t, models.AppointmentID("soon"), got[0].ID)
	assert.Equal(t, models.AppointmentID("late"), got[1].ID)

	assert.Len(t, s.Upcoming(endOfDay, 1), 1)
}

func TestReset(t *testing.T) {
	backend := &fakeBackend{items: []models.Appointment{{ID: "1", Title: "GP"}}}
	s := newTestStore(backend)
	require.NoError(t, s.Refresh(context.Background()))

	updates := 0
	s.SetOnUpdate(func() { updates++ })
	s.Reset()

	assert.Empty(t, s.Appointments())
	assert.Equal(t, 1, updates)
}
