package schedule

import "time"

// Session start time, local wall clock.
const (
	startHour   = 19
	startMinute = 30
)

// SessionTime returns the canonical timestamp of the most recent scheduled
// session on or before the given date: the last Friday at 19:30 in the
// date's own location. A Friday maps to that same day. The calculation is
// done on the wall clock, so weeks containing a DST transition still land
// on 19:30 local.
func SessionTime(d time.Time) time.Time {
	daysBack := int(d.Weekday()-time.Friday+7) % 7
	friday := d.AddDate(0, 0, -daysBack)
	return time.Date(friday.Year(), friday.Month(), friday.Day(),
		startHour, startMinute, 0, 0, d.Location())
}

// NextSessionTime returns the first scheduled session strictly after the
// given date's session, used when setting up the following week.
func NextSessionTime(d time.Time) time.Time {
	return SessionTime(d).AddDate(0, 0, 7)
}

// PaymentWindow returns the date range in which transfers for a session are
// expected to arrive: the day after the session through the following
// Saturday, exclusive.
func PaymentWindow(sessionTime time.Time) (from, to time.Time) {
	day := time.Date(sessionTime.Year(), sessionTime.Month(), sessionTime.Day(),
		0, 0, 0, 0, sessionTime.Location())
	return day.AddDate(0, 0, 1), day.AddDate(0, 0, 8)
}
