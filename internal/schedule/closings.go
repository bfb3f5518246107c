package schedule

import (
	"strings"
	"time"

	"github.com/tavolohq/tavolo/internal/domain"
)

// parseBound accepts the ISO-8601 timestamps the dashboard persists and
// bare dates entered by hand.
func parseBound(value *string) (time.Time, bool) {
	if value == nil {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(*value)
	if raw == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, true
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts, true
	}
	return time.Time{}, false
}

// InDateWindow reports whether now falls inside [start, end], bounds
// inclusive. Missing or unparsable bounds never match.
func InDateWindow(start, end *string, now time.Time) bool {
	from, ok := parseBound(start)
	if !ok {
		return false
	}
	until, ok := parseBound(end)
	if !ok {
		return false
	}
	return !now.Before(from) && !now.After(until)
}

// ActiveClosing returns the first active closing whose date range
// contains now, or nil when none matches. First match in input order
// wins; Priority is carried in the record but deliberately not
// consulted here, matching the dashboard's observed behavior when
// closings overlap.
func ActiveClosing(closings []domain.ClosingRecord, now time.Time) *domain.ClosingRecord {
	for i := range closings {
		if !closings[i].IsActive {
			continue
		}
		if InDateWindow(closings[i].StartDate, closings[i].EndDate, now) {
			return &closings[i]
		}
	}
	return nil
}

// ActiveMessages filters messages to those displayable at now: active
// records whose window contains now, or active records with no bounds
// at all (evergreen banners).
func ActiveMessages(messages []domain.SpecialMessage, now time.Time) []domain.SpecialMessage {
	active := make([]domain.SpecialMessage, 0, len(messages))
	for _, m := range messages {
		if !m.IsActive {
			continue
		}
		if m.StartDate == nil && m.EndDate == nil {
			active = append(active, m)
			continue
		}
		if InDateWindow(m.StartDate, m.EndDate, now) {
			active = append(active, m)
		}
	}
	return active
}
