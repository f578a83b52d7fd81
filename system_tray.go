package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"

	"github.com/careassist/care-reminder/pkg/calendar"
	"github.com/careassist/care-reminder/pkg/models"
	"github.com/careassist/care-reminder/pkg/store"
)

const trayUpcomingLimit = 5

func (ca *CareAssistant) setupSystemTray() {
	ca.updateSystemTrayMenu()
}

func (ca *CareAssistant) updateSystemTrayMenu() {
	desk, ok := ca.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	if !ca.session.Authenticated() {
		menuItems = append(menuItems, fyne.NewMenuItem("Sign In", ca.showLogin))
	} else {
		upcoming := ca.upcomingToday(time.Now())
		if len(upcoming) > 0 {
			header := fyne.NewMenuItem("Upcoming Today:", nil)
			header.Disabled = true
			menuItems = append(menuItems, header)

			for _, appt := range upcoming {
				item := fyne.NewMenuItem(trayLabel(appt), nil)
				item.Disabled = true
				menuItems = append(menuItems, item)
			}
			menuItems = append(menuItems, fyne.NewMenuItemSeparator())
		}

		menuItems = append(menuItems,
			fyne.NewMenuItem("Open Dashboard", ca.showDashboard),
			fyne.NewMenuItem("Sync Now", func() {
				if ca.dashboard != nil {
					go ca.dashboard.refresh(context.Background())
				}
			}),
			fyne.NewMenuItem("Export Calendar…", ca.exportCalendar),
			fyne.NewMenuItem("Import Calendar…", ca.importCalendar),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Log Out", ca.logout),
		)
	}

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	// fyne adds its own Quit item; keep ours so shutdown runs the same way
	quit := fyne.NewMenuItem("Quit", ca.quit)
	quit.IsQuit = true
	menuItems = append(menuItems, quit)

	desk.SetSystemTrayMenu(fyne.NewMenu("Care Reminder", menuItems...))
	desk.SetSystemTrayIcon(ca.icon)
}

// upcomingToday returns the next appointments between now and midnight
func (ca *CareAssistant) upcomingToday(now time.Time) []models.Appointment {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return ca.appointments.Upcoming(todayStart.Add(24*time.Hour), trayUpcomingLimit)
}

func trayLabel(appt models.Appointment) string {
	at, err := appt.Time()
	if err != nil {
		return "  " + truncateString(appt.Title, 35)
	}
	return fmt.Sprintf("  %s - %s", at.Local().Format("3:04 PM"), truncateString(appt.Title, 35))
}

// truncateString truncates a string to maxLen runes, adding "..." if needed
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func (ca *CareAssistant) exportCalendar() {
	ca.showDashboard()
	if ca.dashboard == nil {
		return
	}
	parent := ca.dashboard.window

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, parent)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()

		n, err := calendar.Export(writer, ca.appointments.Appointments(), time.Now())
		if errors.Is(err, calendar.ErrNothingToExport) {
			dialog.ShowInformation("Export Calendar", "There are no appointments to export.", parent)
			return
		}
		if err != nil {
			ca.logger.Error("calendar export failed", "error", err)
			dialog.ShowError(err, parent)
			return
		}
		ca.logger.Info("calendar exported", "events", n, "uri", writer.URI().String())
		dialog.ShowInformation("Export Calendar", fmt.Sprintf("Exported %d appointments.", n), parent)
	}, parent)
	save.SetFileName("appointments.ics")
	save.SetFilter(storage.NewExtensionFileFilter([]string{".ics"}))
	save.Show()
}

func (ca *CareAssistant) importCalendar() {
	ca.showDashboard()
	if ca.dashboard == nil {
		return
	}
	parent := ca.dashboard.window

	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, parent)
			return
		}
		if reader == nil {
			return
		}

		entries, err := calendar.Import(reader, time.Now(), ca.logger.With("component", "calendar"))
		reader.Close()
		if err != nil {
			ca.logger.Warn("calendar import failed", "error", err)
			dialog.ShowError(err, parent)
			return
		}

		go ca.createImported(entries, parent)
	}, parent)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".ics"}))
	open.Show()
}

func (ca *CareAssistant) createImported(entries []calendar.Entry, parent fyne.Window) {
	created := 0
	for _, entry := range entries {
		ctx, cancel := context.WithTimeout(context.Background(), ca.cfg.API.Timeout)
		err := ca.appointments.Create(ctx, &store.Draft{
			Title:     entry.Title,
			Time:      entry.FormTime(),
			Recurring: entry.Recurring,
		})
		cancel()
		if errors.Is(err, store.ErrRefreshAfterCreate) {
			ca.logger.Warn("imported appointment saved but refresh failed", "title", entry.Title, "error", err)
			err = nil
		}
		if err != nil {
			ca.logger.Warn("imported appointment rejected", "title", entry.Title, "error", err)
			continue
		}
		created++
	}

	fyne.Do(func() {
		dialog.ShowInformation("Import Calendar",
			fmt.Sprintf("Imported %d of %d appointments.", created, len(entries)), parent)
	})
}
