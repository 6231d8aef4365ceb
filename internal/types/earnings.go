package types

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used by every artifact and upstream API.
const DateLayout = "2006-01-02"

// WeekWindow is an inclusive Monday..Sunday range of calendar dates.
// Start and End are midnight UTC.
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

// NewWeekWindow builds the window starting at monday's calendar date.
func NewWeekWindow(monday time.Time) WeekWindow {
	start := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
	return WeekWindow{Start: start, End: start.AddDate(0, 0, 6)}
}

// Contains reports whether the calendar date of t falls inside the window.
func (w WeekWindow) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(w.Start) && !d.After(w.End)
}

func (w WeekWindow) IsZero() bool {
	return w.Start.IsZero()
}

// String renders the window as "YYYY-MM-DD to YYYY-MM-DD".
func (w WeekWindow) String() string {
	if w.IsZero() {
		return ""
	}
	return w.Start.Format(DateLayout) + " to " + w.End.Format(DateLayout)
}

// ParseWeekWindow is the inverse of WeekWindow.String.
func ParseWeekWindow(s string) (WeekWindow, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), " to ")
	if !ok {
		return WeekWindow{}, fmt.Errorf("invalid week range %q", s)
	}
	start, err := time.Parse(DateLayout, strings.TrimSpace(from))
	if err != nil {
		return WeekWindow{}, fmt.Errorf("invalid week start %q: %w", from, err)
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(to))
	if err != nil {
		return WeekWindow{}, fmt.Errorf("invalid week end %q: %w", to, err)
	}
	if !end.Equal(start.AddDate(0, 0, 6)) {
		return WeekWindow{}, fmt.Errorf("week range %q does not span seven days", s)
	}
	return WeekWindow{Start: start, End: end}, nil
}

// EarningsDay groups the tickers announcing on one calendar date.
type EarningsDay struct {
	Date    time.Time `json:"date"`
	DayName string    `json:"day_name"`
	Tickers []string  `json:"tickers"`
}

// Announcement is the known earnings date of a ticker, used as prompt context.
type Announcement struct {
	Date time.Time
	Day  string
}

// DateString returns the announcement date or "Unknown".
func (a Announcement) DateString() string {
	if a.Date.IsZero() {
		return "Unknown"
	}
	return a.Date.Format(DateLayout)
}

// DayString returns the weekday name or "Unknown".
func (a Announcement) DayString() string {
	if a.Day == "" {
		return "Unknown"
	}
	return a.Day
}
