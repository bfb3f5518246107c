package domain

// Period is a single contiguous open/close window within one day.
// Both fields are zero-padded 24-hour "HH:MM" local wall-clock values
// and a period never crosses midnight (Open <= Close).
type Period struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// DayHours stores one day's trading schedule. IsOpen is the master
// switch: when false the day contributes no open periods regardless of
// the Periods content.
type DayHours struct {
	Day     string   `json:"day"`
	IsOpen  bool     `json:"isOpen"`
	Periods []Period `json:"periods"`
}

// WeeklySchedule maps lowercase English weekday keys ("monday".."sunday")
// to day schedules.
type WeeklySchedule map[string]DayHours

// WeekdayKeys lists the schedule keys in calendar order starting Monday.
var WeekdayKeys = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}
