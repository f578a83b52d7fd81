package reminder

import (
	"context"
	"time"

	"github.com/careassist/care-reminder/pkg/logging"
	"github.com/careassist/care-reminder/pkg/models"
)

// Appointments is the store surface the engine needs
type Appointments interface {
	Source
	Snoozer
}

// Settings tune the engine. Zero durations fall back to the defaults.
type Settings struct {
	PollInterval time.Duration
	Window       time.Duration
	// RearmOnSnooze lets a snoozed appointment fire again at its new time
	RearmOnSnooze bool
	// Now overrides time.Now when set
	Now func() time.Time
}

// Engine ties a Scheduler to a Presenter for one dashboard session
type Engine struct {
	scheduler *Scheduler
	presenter *Presenter
}

func NewEngine(appointments Appointments, view View, sound Sound, settings Settings, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "reminder")

	presenter := NewPresenter(view, sound, appointments, logger)
	opts := []SchedulerOption{
		WithInterval(settings.PollInterval),
		WithWindow(settings.Window),
		WithLogger(logger),
	}
	if settings.Now != nil {
		presenter.now = settings.Now
		opts = append(opts, WithClock(settings.Now))
	}
	scheduler := NewScheduler(appointments, presenter, opts...)

	if settings.RearmOnSnooze {
		presenter.SetOnResolved(func(alert models.Alert, outcome models.AlertOutcome) {
			if outcome == models.AlertOutcomeSnoozed {
				scheduler.Forget(alert.Appointment.ID)
			}
		})
	}

	return &Engine{scheduler: scheduler, presenter: presenter}
}

func (e *Engine) Start(ctx context.Context) { e.scheduler.Start(ctx) }

// Stop halts polling and drops any reminder still on screen
func (e *Engine) Stop() {
	e.scheduler.Stop()
	e.presenter.Stop()
}

func (e *Engine) Scheduler() *Scheduler { return e.scheduler }

func (e *Engine) Presenter() *Presenter { return e.presenter }
