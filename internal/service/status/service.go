// Package status assembles the live-status snapshot the CLI, admin API
// and dashboard render: open/opening-soon/closed, the surrounding
// periods, the next opening, the active closing and any banner
// messages.
package status

import (
	"strconv"
	"time"

	"github.com/tavolohq/tavolo/internal/domain"
	"github.com/tavolohq/tavolo/internal/schedule"
)

// DefaultSoonWindowMinutes is the lookahead used when a caller does not
// override the opening-soon window.
const DefaultSoonWindowMinutes = 60

// State is the composite open/closed status.
type State string

const (
	StateOpen        State = "open"
	StateOpeningSoon State = "opening_soon"
	StateClosed      State = "closed"
)

// Snapshot is one evaluated moment of the restaurant's status.
type Snapshot struct {
	State               State                   `json:"state"`
	Day                 string                  `json:"day"`
	Time                string                  `json:"time"`
	CurrentPeriod       *domain.Period          `json:"currentPeriod,omitempty"`
	NextPeriod          *domain.Period          `json:"nextOpeningPeriod,omitempty"`
	MinutesUntilOpening int                     `json:"minutesUntilOpening"`
	NextOpening         *schedule.NextOpening   `json:"nextOpening,omitempty"`
	ActiveClosing       *domain.ClosingRecord   `json:"activeClosing,omitempty"`
	Messages            []domain.SpecialMessage `json:"messages"`
}

// Service evaluates snapshots with a fixed opening-soon window.
type Service struct {
	soonWindowMinutes int
}

// NewService creates a status service. A non-positive window falls
// back to the default.
func NewService(soonWindowMinutes int) *Service {
	if soonWindowMinutes <= 0 {
		soonWindowMinutes = DefaultSoonWindowMinutes
	}
	return &Service{soonWindowMinutes: soonWindowMinutes}
}

// Evaluate computes the snapshot for now. An active closing forces the
// closed state regardless of the weekly table; messages never change
// state. The caller supplies now in the restaurant's wall-clock frame.
func (s *Service) Evaluate(
	weekly domain.WeeklySchedule,
	closings []domain.ClosingRecord,
	messages []domain.SpecialMessage,
	now time.Time,
) Snapshot {
	dayKey := dayKeyOf(now)
	at := now.Format("15:04")
	today := schedule.TodayHours(weekly, dayKey)

	snapshot := Snapshot{
		State:    StateClosed,
		Day:      dayKey,
		Time:     at,
		Messages: schedule.ActiveMessages(messages, now),
	}

	if closing := schedule.ActiveClosing(closings, now); closing != nil {
		snapshot.ActiveClosing = closing
		return snapshot
	}

	info := schedule.CurrentPeriodInfo(&today, at)
	snapshot.CurrentPeriod = info.Current
	snapshot.NextPeriod = info.Next
	snapshot.NextOpening = schedule.NextOpeningTime(now, weekly)
	snapshot.MinutesUntilOpening = schedule.MinutesUntilOpening(&today, at)

	switch {
	case schedule.IsCurrentlyOpen(&today, at):
		snapshot.State = StateOpen
	case schedule.IsOpeningSoon(&today, at, s.soonWindowMinutes):
		snapshot.State = StateOpeningSoon
	}
	return snapshot
}

// Phrase renders the snapshot's headline through the translation
// callback.
func (s *Service) Phrase(snapshot Snapshot, now time.Time, weekly domain.WeeklySchedule, t schedule.TranslateFunc) string {
	switch snapshot.State {
	case StateOpen:
		return t("status.open_now", nil)
	case StateOpeningSoon:
		return t("status.opening_soon", map[string]string{
			"minutes": strconv.Itoa(snapshot.MinutesUntilOpening),
		})
	default:
		if snapshot.ActiveClosing != nil {
			return t("status.closed_until", map[string]string{
				"date": snapshot.ActiveClosing.FormatRange(),
			})
		}
		return schedule.FormatNextOpening(now, t, weekly)
	}
}

func dayKeyOf(now time.Time) string {
	switch now.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}
