package calendar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/careassist/care-reminder/pkg/logging"
	"github.com/careassist/care-reminder/pkg/models"
)

var ErrNotCalendar = errors.New("calendar: not an iCalendar file")

// Entry is one importable event, already moved to its next occurrence
type Entry struct {
	UID       string
	Title     string
	Start     time.Time
	Recurring models.Recurrence
}

// FormTime renders Start the way the appointment form accepts it
func (e Entry) FormTime() string {
	return e.Start.In(time.Local).Format("2006-01-02T15:04")
}

// Import reads VEVENTs from r and returns the ones still ahead of now.
// Cancelled, all-day and past single events are skipped, and recurring events
// are moved to their next occurrence.
func Import(r io.Reader, now time.Time, logger *logging.Logger) ([]Entry, error) {
	if logger == nil {
		logger = logging.Default()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("calendar: read: %w", err)
	}
	if err := validateFormat(string(data)); err != nil {
		return nil, err
	}

	decoder := ical.NewDecoder(strings.NewReader(string(data)))
	entries := []Entry{}
	seenUIDs := make(map[string]bool)
	seenKeys := make(map[string]bool)
	stats := &importStats{}

	for {
		cal, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("calendar: decode: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			stats.events++

			entry, ok := readEvent(comp, now, stats, logger)
			if !ok {
				continue
			}

			key := entry.Title + "|" + entry.Start.Format(time.RFC3339)
			if (entry.UID != "" && seenUIDs[entry.UID]) || seenKeys[key] {
				stats.duplicates++
				continue
			}
			seenUIDs[entry.UID] = true
			seenKeys[key] = true
			entries = append(entries, entry)
		}
	}

	stats.log(logger, len(entries))
	return entries, nil
}

func readEvent(comp *ical.Component, now time.Time, stats *importStats, logger *logging.Logger) (Entry, bool) {
	normalizeTimezones(comp)

	entry := Entry{Recurring: models.RecurrenceNone}
	if prop := comp.Props.Get(ical.PropUID); prop != nil {
		entry.UID = prop.Value
	}
	if prop := comp.Props.Get(ical.PropSummary); prop != nil {
		entry.Title = strings.TrimSpace(prop.Value)
	}

	var status string
	if prop := comp.Props.Get(ical.PropStatus); prop != nil {
		status = prop.Value
	}
	if isCancelled(status, entry.Title) {
		stats.cancelled++
		return Entry{}, false
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil || entry.Title == "" {
		stats.noTime++
		return Entry{}, false
	}
	start, err := parseDateTime(startProp)
	if err != nil {
		stats.noTime++
		logger.Debug("calendar event without readable start", "uid", entry.UID, "error", err)
		return Entry{}, false
	}

	var end time.Time
	if prop := comp.Props.Get(ical.PropDateTimeEnd); prop != nil {
		end, _ = parseDateTime(prop)
	}
	if isAllDay(comp, start, end) {
		stats.allDay++
		return Entry{}, false
	}

	entry.Start = start
	if prop := comp.Props.Get(ical.PropRecurrenceRule); prop != nil {
		recurring, err := recurrenceFromRule(prop.Value)
		if err != nil {
			stats.unreadable++
			logger.Debug("calendar rule not importable", "uid", entry.UID, "error", err)
			return Entry{}, false
		}
		next, err := nextOccurrence(prop.Value, start, now)
		if err != nil || next.IsZero() {
			stats.past++
			return Entry{}, false
		}
		entry.Start = next
		entry.Recurring = recurring
		return entry, true
	}

	if entry.Start.Before(now) {
		stats.past++
		return Entry{}, false
	}
	return entry, true
}

func parseDateTime(prop *ical.Prop) (time.Time, error) {
	if t, err := prop.DateTime(time.Local); err == nil {
		return t, nil
	}

	formats := []string{
		"20060102T150405",
		"20060102T150405Z",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"20060102",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, prop.Value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("calendar: unreadable date-time %q", prop.Value)
}

func validateFormat(body string) error {
	trimmed := strings.TrimSpace(body)
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "<!DOCTYPE") || strings.HasPrefix(upper, "<HTML") {
		return fmt.Errorf("%w: got an HTML page", ErrNotCalendar)
	}
	if !strings.HasPrefix(upper, "BEGIN:VCALENDAR") {
		preview := trimmed
		if len(preview) > 40 {
			preview = preview[:40]
		}
		return fmt.Errorf("%w: starts with %q", ErrNotCalendar, preview)
	}
	return nil
}
