package models

import "time"

// AlertOutcome records how the user resolved an active reminder
type AlertOutcome string

const (
	AlertOutcomeSnoozed AlertOutcome = "Snoozed" // appointment time pushed back locally
	AlertOutcomeStopped AlertOutcome = "Stopped" // reminder dismissed
)

// Alert is the reminder currently presented to the user
type Alert struct {
	Appointment Appointment
	RaisedAt    time.Time
}
