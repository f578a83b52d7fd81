package main

import (
	"context"
	"errors"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/careassist/care-reminder/pkg/api"
	"github.com/careassist/care-reminder/pkg/assistant"
	"github.com/careassist/care-reminder/pkg/audio"
	"github.com/careassist/care-reminder/pkg/models"
	"github.com/careassist/care-reminder/pkg/reminder"
	"github.com/careassist/care-reminder/pkg/store"
	"github.com/careassist/care-reminder/pkg/ui/components"
)

var recurrenceLabels = []string{"No Repeat", "Daily", "Weekly"}

var recurrenceByLabel = map[string]models.Recurrence{
	"No Repeat": models.RecurrenceNone,
	"Daily":     models.RecurrenceDaily,
	"Weekly":    models.RecurrenceWeekly,
}

// Dashboard is the signed-in window. It owns one reminder engine and one audio
// gate for as long as it is mounted.
type Dashboard struct {
	ca     *CareAssistant
	window fyne.Window
	gate   *audio.Gate
	engine *reminder.Engine
	cancel context.CancelFunc

	// chat
	question   *widget.Entry
	answer     *widget.Label
	emergency  *widget.Label
	confidence *widget.Label
	sources    *widget.Accordion
	chatError  *widget.Label
	sendButton *widget.Button

	// appointments
	titleEntry *widget.Entry
	timeEntry  *widget.Entry
	recurring  *widget.Select
	formError  *widget.Label
	list       *components.AppointmentList
	saveButton *widget.Button
}

func NewDashboard(ca *CareAssistant) *Dashboard {
	d := &Dashboard{ca: ca}
	logger := ca.logger.With("component", "dashboard")

	d.gate = audio.NewGate(ca.player, logger)
	reminderWindow := NewReminderWindow(ca.app, d.snoozeReminder, d.stopReminder, logger)
	d.engine = reminder.NewEngine(ca.appointments, reminderWindow, d.gate, reminder.Settings{
		PollInterval:  ca.cfg.Reminder.PollInterval,
		Window:        ca.cfg.Reminder.Window,
		RearmOnSnooze: ca.cfg.Reminder.RearmOnSnooze,
	}, logger)

	d.window = ca.app.NewWindow("Accessible Healthcare Assistant")
	d.window.Resize(fyne.NewSize(760, 820))
	d.window.SetCloseIntercept(func() {
		// reminders keep running from the tray
		d.window.Hide()
	})
	d.window.Canvas().SetOnTypedKey(func(*fyne.KeyEvent) {
		d.gate.Unlock()
	})
	d.window.SetContent(d.buildUI())
	return d
}

// Start mounts the dashboard: loads appointments and starts reminders
func (d *Dashboard) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	d.engine.Start(ctx)
	go d.refresh(ctx)
	if interval := d.ca.cfg.Sync.Interval; interval > 0 {
		go d.backgroundSync(ctx, interval)
	}
}

// Close unmounts the dashboard. The engine is stopped before the window goes away.
func (d *Dashboard) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	d.engine.Stop()
	d.window.Close()
}

func (d *Dashboard) Show() {
	d.window.Show()
	d.window.RequestFocus()
}

func (d *Dashboard) button(label string, tapped func()) *widget.Button {
	return components.NewGestureButton(label, d.gate.Unlock, tapped)
}

// unlockOnInput treats typing into a field or picking an option as a gesture
func (d *Dashboard) unlockOnInput(string) {
	d.gate.Unlock()
}

func (d *Dashboard) buildUI() fyne.CanvasObject {
	title := widget.NewLabelWithStyle("Accessible Healthcare Assistant", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	content := container.NewVBox(
		title,
		d.buildSettingsRow(),
		widget.NewCard("Quick Healthcare Options", "", d.buildQuickActions()),
		widget.NewCard("Ask a Question", "", d.buildChat()),
		widget.NewCard("Appointment Reminder", "", d.buildAppointments()),
	)
	return container.NewVScroll(container.NewPadded(content))
}

func (d *Dashboard) buildSettingsRow() fyne.CanvasObject {
	prefs := d.ca.settings.Load()

	largeText := widget.NewCheck("Large Text", func(on bool) {
		d.gate.Unlock()
		d.ca.updateSettings(func(s *models.Settings) { s.LargeText = on })
	})
	largeText.Checked = prefs.LargeText

	highContrast := widget.NewCheck("High Contrast", func(on bool) {
		d.gate.Unlock()
		d.ca.updateSettings(func(s *models.Settings) { s.HighContrast = on })
	})
	highContrast.Checked = prefs.HighContrast

	autoStart := widget.NewCheck("Start at login", func(on bool) {
		d.gate.Unlock()
		go func() {
			if err := setupAutostart(on, d.ca.logger); err != nil {
				fyne.Do(func() { d.showFormError("Could not change the start at login setting.") })
				return
			}
			d.ca.updateSettings(func(s *models.Settings) { s.AutoStart = on })
		}()
	})
	autoStart.Checked = prefs.AutoStart

	logout := d.button("Logout", d.ca.logout)

	return container.NewHBox(largeText, highContrast, autoStart, logout)
}

func (d *Dashboard) buildQuickActions() fyne.CanvasObject {
	row := container.NewHBox()
	for _, preset := range assistant.Presets {
		message := preset.Message
		row.Add(d.button(preset.Label, func() {
			d.question.SetText(message)
		}))
	}
	return row
}

func (d *Dashboard) buildChat() fyne.CanvasObject {
	d.question = widget.NewMultiLineEntry()
	d.question.SetPlaceHolder("Type your healthcare question")
	d.question.SetMinRowsVisible(4)
	d.question.OnChanged = d.unlockOnInput

	d.sendButton = d.button("Send", d.sendQuestion)
	d.sendButton.Importance = widget.HighImportance

	d.emergency = widget.NewLabelWithStyle("⚠️ Emergency Warning", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	d.emergency.Importance = widget.DangerImportance
	d.emergency.Hide()

	d.answer = widget.NewLabel("")
	d.answer.Wrapping = fyne.TextWrapWord

	d.confidence = widget.NewLabel("")
	d.confidence.Hide()

	d.sources = widget.NewAccordion()

	d.chatError = widget.NewLabel("")
	d.chatError.Importance = widget.DangerImportance
	d.chatError.Wrapping = fyne.TextWrapWord
	d.chatError.Hide()

	return container.NewVBox(d.question, d.sendButton, d.chatError, d.emergency, d.answer, d.confidence, d.sources)
}

func (d *Dashboard) sendQuestion() {
	message := d.question.Text
	d.sendButton.Disable()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.ca.cfg.API.Timeout)
		defer cancel()
		_, err := d.ca.assistant.Ask(ctx, message)

		fyne.Do(func() {
			d.sendButton.Enable()
			if errors.Is(err, assistant.ErrEmptyMessage) {
				d.showChatError("Please type a question first.")
				return
			}
			if err != nil {
				d.showChatError(api.UserMessage("Could not reach the assistant", err, "please try again"))
				return
			}
			d.renderReply(d.ca.assistant.Reply())
		})
	}()
}

func (d *Dashboard) showChatError(text string) {
	d.chatError.SetText(text)
	d.chatError.Show()
}

func (d *Dashboard) renderReply(reply *models.ChatReply) {
	d.chatError.Hide()
	if reply == nil {
		return
	}

	if reply.Emergency {
		d.emergency.Show()
	} else {
		d.emergency.Hide()
	}

	d.answer.SetText(reply.Response)

	if reply.Confidence != "" {
		d.confidence.SetText("Confidence: " + string(reply.Confidence))
		d.confidence.Show()
	} else {
		d.confidence.Hide()
	}

	items := make([]*widget.AccordionItem, 0, len(reply.Sources))
	for _, source := range reply.Sources {
		detail := widget.NewLabel(source.Content)
		detail.Wrapping = fyne.TextWrapWord
		items = append(items, widget.NewAccordionItem(source.Title, detail))
	}
	d.sources.Items = items
	d.sources.Refresh()
}

func (d *Dashboard) buildAppointments() fyne.CanvasObject {
	d.titleEntry = widget.NewEntry()
	d.titleEntry.SetPlaceHolder("Appointment Title")
	d.titleEntry.OnChanged = d.unlockOnInput

	d.timeEntry = widget.NewEntry()
	d.timeEntry.SetPlaceHolder("YYYY-MM-DD HH:MM")
	d.timeEntry.OnChanged = d.unlockOnInput

	d.recurring = widget.NewSelect(recurrenceLabels, nil)
	d.recurring.SetSelected(recurrenceLabels[0])
	d.recurring.OnChanged = d.unlockOnInput

	d.saveButton = d.button("Save Appointment", d.saveAppointment)
	d.saveButton.Importance = widget.HighImportance

	d.formError = widget.NewLabel("")
	d.formError.Importance = widget.DangerImportance
	d.formError.Wrapping = fyne.TextWrapWord
	d.formError.Hide()

	var listView fyne.CanvasObject
	d.list, listView = components.NewAppointmentList(func(appt models.Appointment) {
		d.gate.Unlock()
		d.deleteAppointment(appt)
	})

	form := container.NewVBox(d.titleEntry, d.timeEntry, d.recurring, d.saveButton, d.formError)
	return container.NewBorder(form, nil, nil, nil, listView)
}

func (d *Dashboard) saveAppointment() {
	draft := &store.Draft{
		Title:     d.titleEntry.Text,
		Time:      d.timeEntry.Text,
		Recurring: recurrenceByLabel[d.recurring.Selected],
	}
	d.saveButton.Disable()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.ca.cfg.API.Timeout)
		defer cancel()
		err := d.ca.appointments.Create(ctx, draft)

		fyne.Do(func() {
			d.saveButton.Enable()
			if err != nil && !errors.Is(err, store.ErrRefreshAfterCreate) {
				d.showFormError(appointmentErrorText(err))
				return
			}
			d.titleEntry.SetText(draft.Title)
			d.timeEntry.SetText(draft.Time)
			if err != nil {
				d.ca.logger.Warn("appointment saved but refresh failed", "error", err)
				d.showFormError(appointmentErrorText(err))
				return
			}
			d.formError.Hide()
		})
	}()
}

func (d *Dashboard) deleteAppointment(appt models.Appointment) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.ca.cfg.API.Timeout)
		defer cancel()
		if err := d.ca.appointments.Delete(ctx, appt.ID); err != nil {
			d.ca.logger.Warn("cancel appointment failed", "id", appt.ID, "error", err)
			fyne.Do(func() { d.showFormError(appointmentErrorText(err)) })
		}
	}()
}

func (d *Dashboard) showFormError(text string) {
	d.formError.SetText(text)
	d.formError.Show()
}

func appointmentErrorText(err error) string {
	switch {
	case errors.Is(err, store.ErrRefreshAfterCreate):
		return "Appointment saved, but the list could not be refreshed. It will appear after the next sync."
	case errors.Is(err, store.ErrEmptyTitle):
		return "Please enter a title for the appointment."
	case errors.Is(err, store.ErrInvalidTime):
		return "Please enter the date and time as YYYY-MM-DD HH:MM."
	case errors.Is(err, store.ErrInvalidRecurrence):
		return "Please choose how often the appointment repeats."
	}
	return api.UserMessage("Could not update appointments", err, "please try again")
}

func (d *Dashboard) snoozeReminder() {
	if err := d.engine.Presenter().Snooze(); err != nil {
		d.ca.logger.Warn("snooze failed", "error", err)
	}
}

func (d *Dashboard) stopReminder() {
	d.engine.Presenter().Stop()
}

// refresh reloads appointments. A rejected token sends the user back to login.
func (d *Dashboard) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, d.ca.cfg.API.Timeout)
	defer cancel()

	err := d.ca.appointments.Refresh(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	d.ca.logger.Warn("appointment refresh failed", "error", err)
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		fyne.Do(d.ca.logout)
		return
	}
	fyne.Do(func() { d.showFormError(appointmentErrorText(err)) })
}

func (d *Dashboard) backgroundSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.refresh(ctx)
		}
	}
}

// appointmentsChanged redraws the list. Must run on the UI goroutine.
func (d *Dashboard) appointmentsChanged(appts []models.Appointment) {
	d.list.SetItems(appts)
}
