// Package schedule evaluates weekly opening hours and closing records
// against a caller-supplied clock. Every function is pure and total:
// no I/O, no system clock reads, no panics on malformed input. Times
// inside a day are zero-padded "HH:MM" strings at the boundary and
// minute-of-day integers internally.
package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/tavolohq/tavolo/internal/domain"
)

const fallbackDayKey = "monday"

// TranslateFunc renders a localized catalog entry. Params values are
// substituted for {name} placeholders in the catalog text.
type TranslateFunc func(key string, params map[string]string) string

// PeriodInfo describes where the current time sits within a day.
// Current is the period containing the queried time, Next the period
// with the smallest open strictly after it; either may be nil. Next
// resolves independently of Current, so mid-lunch-service Next points
// at the dinner period.
type PeriodInfo struct {
	Current *domain.Period `json:"currentPeriod,omitempty"`
	Next    *domain.Period `json:"nextOpeningPeriod,omitempty"`
}

// NextOpening describes the next time the restaurant opens.
type NextOpening struct {
	Day     string `json:"day"`
	Time    string `json:"time"`
	IsToday bool   `json:"isToday"`
}

// minuteOfDay converts "HH:MM" to minutes since midnight. Malformed
// components count as zero so callers always get a renderable result
// instead of an error.
func minuteOfDay(value string) int {
	hh, mm, _ := strings.Cut(value, ":")
	return parseClockInt(hh)*60 + parseClockInt(mm)
}

func parseClockInt(value string) int {
	n := 0
	for _, r := range strings.TrimSpace(value) {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// sortedPeriods returns a copy of periods ordered by open minute.
// Input order is never trusted for next-opening queries.
func sortedPeriods(periods []domain.Period) []domain.Period {
	ordered := make([]domain.Period, len(periods))
	copy(ordered, periods)
	sort.SliceStable(ordered, func(i, j int) bool {
		return minuteOfDay(ordered[i].Open) < minuteOfDay(ordered[j].Open)
	})
	return ordered
}

// TodayHours resolves the schedule entry for dayKey, matching keys
// case-insensitively. An unknown or missing key resolves to the monday
// entry; callers guarantee monday is present.
func TodayHours(weekly domain.WeeklySchedule, dayKey string) domain.DayHours {
	want := strings.ToLower(strings.TrimSpace(dayKey))
	for key, day := range weekly {
		if strings.ToLower(key) == want {
			return day
		}
	}
	return weekly[fallbackDayKey]
}

// IsCurrentlyOpen reports whether at falls inside any of the day's
// periods, bounds inclusive. A nil day, a closed day, or a day without
// periods is never open.
func IsCurrentlyOpen(day *domain.DayHours, at string) bool {
	if day == nil || !day.IsOpen || len(day.Periods) == 0 {
		return false
	}
	now := minuteOfDay(at)
	for _, p := range day.Periods {
		if minuteOfDay(p.Open) <= now && now <= minuteOfDay(p.Close) {
			return true
		}
	}
	return false
}

// NextOpeningFromPeriods returns the smallest period open strictly
// after at. A period opening exactly at the queried time does not count
// as next. The second result is false when nothing opens later today.
func NextOpeningFromPeriods(at string, periods []domain.Period) (string, bool) {
	now := minuteOfDay(at)
	for _, p := range sortedPeriods(periods) {
		if minuteOfDay(p.Open) > now {
			return p.Open, true
		}
	}
	return "", false
}

// IsOpeningSoon reports whether the restaurant is closed right now but
// a period opens within windowMinutes of at, upper bound inclusive.
func IsOpeningSoon(day *domain.DayHours, at string, windowMinutes int) bool {
	if day == nil || !day.IsOpen || len(day.Periods) == 0 {
		return false
	}
	if IsCurrentlyOpen(day, at) {
		return false
	}
	now := minuteOfDay(at)
	for _, p := range day.Periods {
		open := minuteOfDay(p.Open)
		if open > now && open-now <= windowMinutes {
			return true
		}
	}
	return false
}

// MinutesUntilOpening returns the minutes from at until the nearest
// future period open. It returns 0 when already open or when nothing
// opens later today; the result is never negative.
func MinutesUntilOpening(day *domain.DayHours, at string) int {
	if day == nil || !day.IsOpen || len(day.Periods) == 0 {
		return 0
	}
	if IsCurrentlyOpen(day, at) {
		return 0
	}
	next, ok := NextOpeningFromPeriods(at, day.Periods)
	if !ok {
		return 0
	}
	return minuteOfDay(next) - minuteOfDay(at)
}

// CurrentPeriodInfo resolves the period containing at and the period
// opening next after it.
func CurrentPeriodInfo(day *domain.DayHours, at string) PeriodInfo {
	info := PeriodInfo{}
	if day == nil || !day.IsOpen || len(day.Periods) == 0 {
		return info
	}
	now := minuteOfDay(at)
	for _, p := range day.Periods {
		if minuteOfDay(p.Open) <= now && now <= minuteOfDay(p.Close) {
			current := p
			info.Current = &current
			break
		}
	}
	for _, p := range sortedPeriods(day.Periods) {
		if minuteOfDay(p.Open) > now {
			next := p
			info.Next = &next
			break
		}
	}
	return info
}

// NextOpeningTime searches forward from now for the next opening,
// wrapping across the week boundary. Today's remaining periods win;
// otherwise the first following day that is open with at least one
// period yields its earliest open. A fully closed week returns nil.
func NextOpeningTime(now time.Time, weekly domain.WeeklySchedule) *NextOpening {
	todayKey := weekdayKey(now.Weekday())
	today := TodayHours(weekly, todayKey)
	if today.IsOpen {
		if open, ok := NextOpeningFromPeriods(now.Format("15:04"), today.Periods); ok {
			return &NextOpening{Day: todayKey, Time: open, IsToday: true}
		}
	}
	for offset := 1; offset <= len(domain.WeekdayKeys); offset++ {
		key := weekdayKey(now.AddDate(0, 0, offset).Weekday())
		day, ok := weekly[key]
		if !ok || !day.IsOpen || len(day.Periods) == 0 {
			continue
		}
		earliest := sortedPeriods(day.Periods)[0]
		return &NextOpening{Day: key, Time: earliest.Open, IsToday: false}
	}
	return nil
}

// FormatNextOpening renders the next-opening phrase through the
// supplied translation callback. Keys: status.closed when the whole
// week is closed, status.opens_today_at for same-day openings, and
// status.opens_on_day_at otherwise.
func FormatNextOpening(now time.Time, t TranslateFunc, weekly domain.WeeklySchedule) string {
	next := NextOpeningTime(now, weekly)
	if next == nil {
		return t("status.closed", nil)
	}
	if next.IsToday {
		return t("status.opens_today_at", map[string]string{"time": next.Time})
	}
	return t("status.opens_on_day_at", map[string]string{
		"day":  t("day."+next.Day, nil),
		"time": next.Time,
	})
}

func weekdayKey(day time.Weekday) string {
	return strings.ToLower(day.String())
}
