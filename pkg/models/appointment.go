package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Recurrence is the repeat tag stored with an appointment. It is never expanded client-side.
type Recurrence string

const (
	RecurrenceNone   Recurrence = "none"
	RecurrenceDaily  Recurrence = "daily"
	RecurrenceWeekly Recurrence = "weekly"
)

// Recurrences lists the tags accepted when creating an appointment, in display order
var Recurrences = []Recurrence{RecurrenceNone, RecurrenceDaily, RecurrenceWeekly}

// Valid reports whether r is one of the accepted tags
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly:
		return true
	}
	return false
}

// AppointmentID is the backend's opaque identifier. The backend may encode it as a number or a string.
type AppointmentID string

func (id *AppointmentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = AppointmentID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("appointment id: %w", err)
	}
	*id = AppointmentID(n.String())
	return nil
}

func (id AppointmentID) String() string {
	return string(id)
}

// Appointment is one scheduled healthcare event as returned by GET /appointments
type Appointment struct {
	ID              AppointmentID `json:"id"`
	Title           string        `json:"title"`
	AppointmentTime string        `json:"appointment_time"`
	Recurring       Recurrence    `json:"recurring"`
}

// timeLayouts are tried in order. Layouts without a zone are read in local time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04", // datetime-local form input
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTime parses an appointment timestamp in any of the accepted layouts
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty appointment time")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse appointment time: %q", value)
}

// FormatTime renders t the way snoozed appointments are stored locally
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// Time parses AppointmentTime. Malformed values return an error and a zero time.
func (a Appointment) Time() (time.Time, error) {
	return ParseTime(a.AppointmentTime)
}

// DisplayTime is the user-facing rendering, falling back to the raw value when unparseable
func (a Appointment) DisplayTime() string {
	t, err := a.Time()
	if err != nil {
		return a.AppointmentTime
	}
	return t.Local().Format("Mon Jan 2 2006, 3:04 PM")
}

// NewAppointment is the POST /appointments request body
type NewAppointment struct {
	Title           string     `json:"title"`
	AppointmentTime string     `json:"appointment_time"`
	Recurring       Recurrence `json:"recurring"`
}
