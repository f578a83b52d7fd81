package main

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"golang.design/x/hotkey"

	"github.com/careassist/care-reminder/pkg/logging"
	"github.com/careassist/care-reminder/pkg/models"
	"github.com/careassist/care-reminder/pkg/platform"
)

// ReminderWindow is the modal-style appointment reminder. It implements reminder.View.
type ReminderWindow struct {
	app      fyne.App
	window   fyne.Window
	logger   *logging.Logger
	onSnooze func()
	onStop   func()

	mu      sync.Mutex
	hotkeys []*hotkey.Hotkey
}

func NewReminderWindow(app fyne.App, onSnooze, onStop func(), logger *logging.Logger) *ReminderWindow {
	return &ReminderWindow{
		app:      app,
		onSnooze: onSnooze,
		onStop:   onStop,
		logger:   logger,
	}
}

// ShowReminder replaces whatever reminder is on screen with alert
func (rw *ReminderWindow) ShowReminder(alert models.Alert) {
	fyne.Do(func() {
		if rw.window == nil {
			rw.window = rw.app.NewWindow("Appointment Reminder")
			rw.window.SetFixedSize(true)
			// closing the window counts as Stop
			rw.window.SetCloseIntercept(rw.stop)
		}
		rw.window.SetContent(rw.buildContent(alert))
		rw.window.CenterOnScreen()
		rw.window.Show()
		rw.window.RequestFocus()

		if !platform.IsFrontmost() {
			platform.BringToFront()
		}
	})
	rw.registerHotkeys()
}

// HideReminder closes the reminder window if it is open
func (rw *ReminderWindow) HideReminder() {
	rw.unregisterHotkeys()
	fyne.Do(func() {
		if rw.window != nil {
			rw.window.Close()
			rw.window = nil
		}
	})
}

func (rw *ReminderWindow) buildContent(alert models.Alert) fyne.CanvasObject {
	heading := canvas.NewText("Appointment Reminder", nil)
	heading.TextSize = 32
	heading.TextStyle = fyne.TextStyle{Bold: true}
	heading.Alignment = fyne.TextAlignCenter

	title := widget.NewLabelWithStyle(alert.Appointment.Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	title.Wrapping = fyne.TextWrapWord

	when := widget.NewLabel(alert.Appointment.DisplayTime())
	when.Alignment = fyne.TextAlignCenter

	snooze := widget.NewButtonWithIcon("Snooze 5 min", theme.HistoryIcon(), rw.snooze)
	snooze.Importance = widget.WarningImportance
	stop := widget.NewButtonWithIcon("Stop", theme.CancelIcon(), rw.stop)
	stop.Importance = widget.DangerImportance

	hint := widget.NewLabel("Shortcuts: Ctrl+Shift+S snooze, Ctrl+Shift+X stop")
	hint.Alignment = fyne.TextAlignCenter
	hint.Importance = widget.LowImportance

	content := container.NewVBox(
		container.NewPadded(heading),
		title,
		when,
		widget.NewSeparator(),
		container.NewCenter(container.NewHBox(snooze, stop)),
		hint,
	)
	return container.NewPadded(container.NewCenter(content))
}

func (rw *ReminderWindow) snooze() {
	if rw.onSnooze != nil {
		rw.onSnooze()
	}
}

func (rw *ReminderWindow) stop() {
	if rw.onStop != nil {
		rw.onStop()
	}
}

// registerHotkeys binds global snooze and stop shortcuts while a reminder is visible
func (rw *ReminderWindow) registerHotkeys() {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if len(rw.hotkeys) > 0 {
		return
	}

	bindings := []struct {
		key    hotkey.Key
		action func()
		name   string
	}{
		{hotkey.KeyS, rw.snooze, "snooze"},
		{hotkey.KeyX, rw.stop, "stop"},
	}

	for _, b := range bindings {
		hk := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, b.key)
		if err := hk.Register(); err != nil {
			rw.logger.Warn("failed to register reminder hotkey", "action", b.name, "error", err)
			continue
		}
		rw.hotkeys = append(rw.hotkeys, hk)

		go func(hk *hotkey.Hotkey, action func(), name string) {
			// channel closes on Unregister
			for range hk.Keydown() {
				rw.logger.Debug("reminder hotkey pressed", "action", name)
				fyne.Do(action)
			}
		}(hk, b.action, b.name)
	}
}

func (rw *ReminderWindow) unregisterHotkeys() {
	rw.mu.Lock()
	hotkeys := rw.hotkeys
	rw.hotkeys = nil
	rw.mu.Unlock()

	for _, hk := range hotkeys {
		if err := hk.Unregister(); err != nil {
			rw.logger.Debug("hotkey unregister failed", "error", err)
		}
	}
}
