package entities

import "time"

// DateLayout is the calendar-day wire format used by answers, reports
// and currentQuestions.
const DateLayout = "2006-01-02"

// DateKey formats t as a calendar day in the given civil timezone
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// PreviousDateKey formats the calendar day before t in the given timezone
func PreviousDateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).AddDate(0, 0, -1).Format(DateLayout)
}
