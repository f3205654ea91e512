package models

import "time"

// SearchPeriod is a symbolic publication window selector. The values are
// the literal labels persisted by the dashboard, so they survive round
// trips through the preferences store unchanged.
type SearchPeriod string

const (
	PeriodLastDay      SearchPeriod = "1일"
	PeriodLastWeek     SearchPeriod = "1주일"
	PeriodLastMonth    SearchPeriod = "1개월"
	PeriodYearOverYear SearchPeriod = "작년동기"
	PeriodCustom       SearchPeriod = "커스텀"
)

// DateRange is a resolved [After, Before) publication window.
type DateRange struct {
	After  time.Time `json:"published_after"`
	Before time.Time `json:"published_before"`
}
