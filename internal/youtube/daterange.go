package youtube

import (
	"time"

	"tubelens/internal/models"
)

// ResolveDateRange turns a symbolic search period into a concrete
// [After, Before) publication window. Boundaries land on local-timezone
// midnight; no further normalization is done.
func ResolveDateRange(period models.SearchPeriod, customStart, customEnd string, now time.Time) models.DateRange {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	before := today
	var after time.Time

	switch period {
	case models.PeriodLastDay:
		after = today.AddDate(0, 0, -1)
	case models.PeriodLastWeek:
		after = today.AddDate(0, 0, -7)
	case models.PeriodLastMonth:
		after = today.AddDate(0, 0, -30)
	case models.PeriodYearOverYear:
		// The same week one calendar year back: today last year, minus a week.
		lastYearToday := time.Date(now.Year()-1, now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		before = lastYearToday
		after = lastYearToday.AddDate(0, 0, -7)
	case models.PeriodCustom:
		after = parseCustomDate(customStart, today.AddDate(0, 0, -7), now.Location())
		before = parseCustomDate(customEnd, today, now.Location())
	default:
		after = today.AddDate(0, 0, -7)
	}

	return models.DateRange{After: after, Before: before}
}

// parseCustomDate accepts a date-only or RFC 3339 string. A missing or
// unparseable value falls back to the supplied default boundary.
func parseCustomDate(value string, fallback time.Time, loc *time.Location) time.Time {
	if value == "" {
		return fallback
	}
	if t, err := time.ParseInLocation("2006-01-02", value, loc); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return fallback
}
