// Package holiday proposes public-holiday closing records the admin
// can review and activate, so yearly holidays do not have to be typed
// in by hand.
package holiday

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/tavolohq/tavolo/internal/domain"
)

// calendars maps supported country codes to their holiday sets.
// TODO: add fi/it calendars once locale review of holiday names is done.
var calendars = map[string][]*cal.Holiday{
	"us": us.Holidays,
}

// Countries lists supported country codes.
func Countries() []string {
	codes := make([]string, 0, len(calendars))
	for code := range calendars {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Suggest returns one inactive closing record per public holiday of the
// year, ordered by date. Records are suggestions: IsActive is false
// until the admin confirms them.
func Suggest(year int, country string, loc *time.Location) ([]domain.ClosingRecord, error) {
	code := strings.ToLower(strings.TrimSpace(country))
	holidays, ok := calendars[code]
	if !ok {
		return nil, fmt.Errorf("unsupported country %q (supported: %s)", country, strings.Join(Countries(), ", "))
	}
	if loc == nil {
		loc = time.UTC
	}

	suggestions := make([]domain.ClosingRecord, 0, len(holidays))
	for _, h := range holidays {
		_, observed := h.Calc(year)
		day := time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, loc)
		start := day.Format(time.RFC3339)
		end := day.Add(24*time.Hour - time.Second).Format(time.RFC3339)
		suggestions = append(suggestions, domain.ClosingRecord{
			ID:        fmt.Sprintf("hol_%s_%s", code, day.Format("2006-01-02")),
			Reason:    h.Name,
			IsActive:  false,
			StartDate: &start,
			EndDate:   &end,
		})
	}
	sort.Slice(suggestions, func(i, j int) bool {
		return *suggestions[i].StartDate < *suggestions[j].StartDate
	})
	return suggestions, nil
}
