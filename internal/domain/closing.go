package domain

// ClosingRecord is a date-ranged override marking the restaurant shut
// independent of the weekly schedule (holiday, renovation, emergency).
// StartDate and EndDate are ISO-8601 strings; records missing either
// bound are never considered currently active. Priority and Reason are
// carried for the dashboard but do not affect evaluation.
type ClosingRecord struct {
	ID        string  `json:"id"`
	Reason    string  `json:"reason"`
	IsActive  bool    `json:"isActive"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Priority  int     `json:"priority"`
	Emergency bool    `json:"emergency"`
}

// SpecialMessage is a date-windowed banner shown on the site. It uses
// the same bound rules as ClosingRecord but never changes open status.
type SpecialMessage struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Severity  string  `json:"severity"`
	IsActive  bool    `json:"isActive"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}
