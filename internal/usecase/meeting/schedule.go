package meeting

import (
	"time"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// ScheduledStart reads the stored scheduled time as a wall clock in the meeting's
// IANA time zone. When the zone cannot be loaded the wall clock is read as UTC;
// naive reports which path was taken.
func ScheduledStart(m *entities.Meeting) (start time.Time, naive bool) {
	st := m.ScheduledTime
	loc, err := time.LoadLocation(m.TimeZone)
	if err != nil || m.TimeZone == "" {
		loc, naive = time.UTC, true
	}
	return time.Date(st.Year(), st.Month(), st.Day(), st.Hour(), st.Minute(), st.Second(), st.Nanosecond(), loc), naive
}

// ScheduledEnd returns the meeting's scheduled start plus its duration
func ScheduledEnd(m *entities.Meeting) (end time.Time, naive bool) {
	start, naive := ScheduledStart(m)
	return start.Add(m.Duration()), naive
}

// PastScheduledEnd reports whether now is after the meeting's scheduled end.
// naive is passed through from ScheduledStart.
func PastScheduledEnd(m *entities.Meeting, now time.Time) (past, naive bool) {
	end, naive := ScheduledEnd(m)
	return now.After(end), naive
}
