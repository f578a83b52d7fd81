package calendar

import (
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/careassist/care-reminder/pkg/logging"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// isCancelled catches events marked cancelled by status or only by title
func isCancelled(status, title string) bool {
	if strings.EqualFold(status, "CANCELLED") {
		return true
	}
	clean := nonAlnum.ReplaceAllString(strings.ToLower(title), "")
	return strings.HasPrefix(clean, "canceled") || strings.HasPrefix(clean, "cancelled")
}

// isAllDay reports date-only starts and events spanning at least a full day
func isAllDay(comp *ical.Component, start, end time.Time) bool {
	if prop := comp.Props.Get(ical.PropDateTimeStart); prop != nil {
		if strings.EqualFold(prop.Params.Get("VALUE"), "DATE") || len(prop.Value) == len("20060102") {
			return true
		}
	}
	if end.IsZero() {
		return false
	}
	return start.Format("2006-01-02") != end.Format("2006-01-02") && end.Sub(start) >= 24*time.Hour
}

type importStats struct {
	events     int
	noTime     int
	cancelled  int
	allDay     int
	past       int
	duplicates int
	unreadable int
}

func (s *importStats) filtered() int {
	return s.noTime + s.cancelled + s.allDay + s.past + s.duplicates + s.unreadable
}

func (s *importStats) log(logger *logging.Logger, imported int) {
	logger.Info("calendar import summary",
		"events", s.events,
		"imported", imported,
		"filtered", s.filtered(),
		"cancelled", s.cancelled,
		"all_day", s.allDay,
		"past", s.past,
		"missing_time", s.noTime,
		"duplicates", s.duplicates,
		"unreadable", s.unreadable,
	)
}
