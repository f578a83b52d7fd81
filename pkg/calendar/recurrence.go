package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/careassist/care-reminder/pkg/models"
)

// ruleFor maps a recurrence tag to an RRULE value. Non-recurring tags map to "".
func ruleFor(r models.Recurrence) string {
	var freq rrule.Frequency
	switch r {
	case models.RecurrenceDaily:
		freq = rrule.DAILY
	case models.RecurrenceWeekly:
		freq = rrule.WEEKLY
	default:
		return ""
	}
	opt := rrule.ROption{Freq: freq}
	return opt.RRuleString()
}

// recurrenceFromRule maps an RRULE value back to a tag. Rules other than a
// plain daily or weekly repeat have no tag and are reported as unsupported.
func recurrenceFromRule(value string) (models.Recurrence, error) {
	opt, err := rrule.StrToROption(value)
	if err != nil {
		return models.RecurrenceNone, fmt.Errorf("calendar: parse rrule %q: %w", value, err)
	}
	if opt.Interval > 1 {
		return models.RecurrenceNone, fmt.Errorf("calendar: unsupported rrule interval %d", opt.Interval)
	}

	switch opt.Freq {
	case rrule.DAILY:
		return models.RecurrenceDaily, nil
	case rrule.WEEKLY:
		return models.RecurrenceWeekly, nil
	default:
		return models.RecurrenceNone, fmt.Errorf("calendar: unsupported rrule frequency %v", opt.Freq)
	}
}

// nextOccurrence returns the first start of a repeating series at or after now.
// It returns the zero time when the series has ended.
func nextOccurrence(value string, start, now time.Time) (time.Time, error) {
	opt, err := rrule.StrToROptionInLocation(value, start.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: parse rrule %q: %w", value, err)
	}
	opt.Dtstart = start

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: build rrule: %w", err)
	}
	return rule.After(now, true), nil
}
