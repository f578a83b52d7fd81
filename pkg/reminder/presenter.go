package reminder

import (
	"fmt"
	"sync"
	"time"

	"github.com/careassist/care-reminder/pkg/logging"
	"github.com/careassist/care-reminder/pkg/models"
)

// View displays the active reminder
type View interface {
	ShowReminder(alert models.Alert)
	HideReminder()
}

// Sound requests the alert tone. It must not block and must not fail.
type Sound interface {
	Play()
}

// Snoozer moves an appointment's time forward
type Snoozer interface {
	Snooze(id models.AppointmentID) (models.Appointment, error)
}

// Presenter keeps at most one active reminder
type Presenter struct {
	mu         sync.Mutex
	active     *models.Alert
	view       View
	sound      Sound
	snoozer    Snoozer
	now        func() time.Time
	onResolved func(models.Alert, models.AlertOutcome)
	logger     *logging.Logger
}

func NewPresenter(view View, sound Sound, snoozer Snoozer, logger *logging.Logger) *Presenter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Presenter{
		view:    view,
		sound:   sound,
		snoozer: snoozer,
		now:     time.Now,
		logger:  logger,
	}
}

// SetOnResolved registers a callback run after each snooze or stop
func (p *Presenter) SetOnResolved(fn func(models.Alert, models.AlertOutcome)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onResolved = fn
}

// Trigger makes appt the active reminder, replacing any current one
func (p *Presenter) Trigger(appt models.Appointment) {
	alert := models.Alert{Appointment: appt, RaisedAt: p.now()}

	p.mu.Lock()
	if p.active != nil {
		p.logger.Debug("reminder replaced", "previous", p.active.Appointment.ID, "id", appt.ID)
	}
	p.active = &alert
	p.mu.Unlock()

	p.sound.Play()
	p.view.ShowReminder(alert)
}

// Snooze pushes the active appointment back and closes the reminder.
// Without an active reminder it does nothing.
func (p *Presenter) Snooze() error {
	alert, ok := p.take()
	if !ok {
		return nil
	}

	_, err := p.snoozer.Snooze(alert.Appointment.ID)
	p.view.HideReminder()
	if err != nil {
		p.logger.Warn("snooze failed", "id", alert.Appointment.ID, "error", err)
		return fmt.Errorf("reminder: snooze: %w", err)
	}

	p.resolved(alert, models.AlertOutcomeSnoozed)
	return nil
}

// Stop closes the active reminder without touching the appointment
func (p *Presenter) Stop() {
	alert, ok := p.take()
	if !ok {
		return
	}
	p.view.HideReminder()
	p.resolved(alert, models.AlertOutcomeStopped)
}

// Active returns the current reminder, if any
func (p *Presenter) Active() (models.Alert, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return models.Alert{}, false
	}
	return *p.active, true
}

func (p *Presenter) take() (models.Alert, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active == nil {
		return models.Alert{}, false
	}
	alert := *p.active
	p.active = nil
	return alert, true
}

func (p *Presenter) resolved(alert models.Alert, outcome models.AlertOutcome) {
	p.logger.Info("reminder resolved", "id", alert.Appointment.ID, "outcome", string(outcome))

	p.mu.Lock()
	fn := p.onResolved
	p.mu.Unlock()
	if fn != nil {
		fn(alert, outcome)
	}
}
