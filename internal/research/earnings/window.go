package earnings

import (
	"time"

	"earnings-sentiment/internal/types"
)

// ResolveWeek returns the Monday..Sunday window weeksAhead weeks after the week
// containing reference. Zero is the current week; negative values go back.
func ResolveWeek(reference time.Time, weeksAhead int) types.WeekWindow {
	day := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	monday := day.AddDate(0, 0, -offset+7*weeksAhead)
	return types.NewWeekWindow(monday)
}
