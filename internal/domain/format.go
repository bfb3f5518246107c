package domain

import (
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

func capitalizeWord(v string) string {
	if v == "" {
		return ""
	}
	return strings.ToUpper(v[:1]) + strings.ToLower(v[1:])
}

// FormatLabel renders the day's display label, falling back to a
// capitalized key when no label is stored.
func (d DayHours) FormatLabel(key string) string {
	if strings.TrimSpace(d.Day) != "" {
		return d.Day
	}
	return capitalizeWord(key)
}

// FormatPeriods renders the day's open windows for tables.
func (d DayHours) FormatPeriods() string {
	if !d.IsOpen || len(d.Periods) == 0 {
		return "Closed"
	}
	parts := make([]string, 0, len(d.Periods))
	for _, p := range d.Periods {
		parts = append(parts, p.Open+" - "+p.Close)
	}
	return strings.Join(parts, ", ")
}

func formatBound(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "-"
	}
	if ts, err := time.Parse(time.RFC3339, *value); err == nil {
		return ts.Format(dateOnlyLayout)
	}
	if ts, err := time.Parse(dateOnlyLayout, *value); err == nil {
		return ts.Format(dateOnlyLayout)
	}
	return *value
}

// FormatRange renders the closing window for tables.
func (c ClosingRecord) FormatRange() string {
	start := formatBound(c.StartDate)
	end := formatBound(c.EndDate)
	if start == "-" && end == "-" {
		return "-"
	}
	return start + " to " + end
}

// FormatReason renders a short closing description.
func (c ClosingRecord) FormatReason() string {
	reason := strings.TrimSpace(c.Reason)
	if reason == "" {
		reason = "-"
	}
	if c.Emergency {
		return reason + " (emergency)"
	}
	return reason
}

// FormatWindow renders the message display window for tables.
func (m SpecialMessage) FormatWindow() string {
	start := formatBound(m.StartDate)
	end := formatBound(m.EndDate)
	if start == "-" && end == "-" {
		return "always"
	}
	return start + " to " + end
}

// FormatSeverity renders the message severity with a default.
func (m SpecialMessage) FormatSeverity() string {
	if strings.TrimSpace(m.Severity) == "" {
		return "info"
	}
	return strings.ToLower(m.Severity)
}
