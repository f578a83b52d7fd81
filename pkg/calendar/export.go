// Package calendar moves appointments in and out of iCalendar files.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/careassist/care-reminder/pkg/models"
)

const (
	productID = "-//CareAssist//Care Reminder//EN"
	uidDomain = "care-reminder"

	// EventDuration is the length given to exported appointments
	EventDuration = 30 * time.Minute
)

// ErrNothingToExport is returned when no appointment has a usable time
var ErrNothingToExport = errors.New("calendar: no appointments to export")

// EventUID is the stable iCalendar UID for an appointment
func EventUID(id models.AppointmentID) string {
	return fmt.Sprintf("%s@%s", id, uidDomain)
}

// Export writes appts as a VCALENDAR and returns how many events it wrote.
// Appointments whose time cannot be read are left out.
func Export(w io.Writer, appts []models.Appointment, now time.Time) (int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	written := 0
	for _, appt := range appts {
		start, err := appt.Time()
		if err != nil {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, EventUID(appt.ID))
		event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(EventDuration).UTC())
		event.Props.SetText(ical.PropSummary, appt.Title)

		if rule := ruleFor(appt.Recurring); rule != "" {
			prop := ical.NewProp(ical.PropRecurrenceRule)
			prop.Value = rule
			event.Props.Set(prop)
		}

		cal.Children = append(cal.Children, event.Component)
		written++
	}

	if written == 0 {
		return 0, ErrNothingToExport
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return 0, fmt.Errorf("calendar: encode: %w", err)
	}
	return written, nil
}
