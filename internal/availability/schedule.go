// Package availability decides which calendar dates are bookable for a
// service, based on its weekly schedule and the current day.
package availability

import "time"

// Closed is the sentinel hours value marking a weekday as not bookable.
const Closed = "Closed"

// Schedule maps weekday abbreviations ("Mon".."Sun") to an hours string
// (e.g. "09:00 - 18:00") or the Closed sentinel. A nil Schedule means the
// service has no hours table and every future date is bookable.
type Schedule map[string]string

// dayAbbrev returns the three-letter weekday key used by Schedule.
func dayAbbrev(d time.Weekday) string {
	return d.String()[:3]
}

// IsAvailable reports whether date can be selected for booking, evaluated
// against the wall clock.
func IsAvailable(date time.Time, sched Schedule) bool {
	return IsAvailableAt(date, sched, time.Now())
}

// IsAvailableAt is IsAvailable with an injectable current time.
//
// A date is available when it is strictly after the start of today (in
// now's location) and, if a schedule is present, the date's weekday has an
// hours entry that is not Closed. Missing entries count as closed.
func IsAvailableAt(date time.Time, sched Schedule, now time.Time) bool {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !date.After(startOfToday) {
		return false
	}
	if sched == nil {
		return true
	}
	hours, ok := sched[dayAbbrev(date.Weekday())]
	if !ok || hours == "" || hours == Closed {
		return false
	}
	return true
}
