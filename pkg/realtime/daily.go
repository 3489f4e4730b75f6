package realtime

import (
	"fmt"
	"time"
)

// DailySchedule tracks which calendar day a puzzle belongs to and when the
// next one starts. It holds no game state; a game keeps the schedule it was
// created on and expires when that day is over.
type DailySchedule struct {
	Location *time.Location
	Day      time.Time // local midnight that started the current day
}

// NewDailySchedule starts a schedule on the day containing now.
func NewDailySchedule(loc *time.Location, now time.Time) DailySchedule {
	if loc == nil {
		loc = time.UTC
	}
	return DailySchedule{Location: loc, Day: StartOfDay(now, loc)}
}

// StartOfDay is local midnight of the day containing t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Next is the local midnight that ends the current day. It is computed on
// the calendar so days with a DST change are 23 or 25 hours long.
func (d DailySchedule) Next() time.Time {
	return d.Day.AddDate(0, 0, 1)
}

// Expired reports whether now is past the end of the current day.
func (d DailySchedule) Expired(now time.Time) bool {
	return !now.Before(d.Next())
}

// Remaining is the time left until Next, never negative.
func (d DailySchedule) Remaining(now time.Time) time.Duration {
	return max(0, d.Next().Sub(now))
}

// Key is the current day as YYYY-MM-DD.
func (d DailySchedule) Key() string {
	return d.Day.Format(time.DateOnly)
}

// FormatCountdown renders a duration as HH:MM:SS, clamped at zero.
func FormatCountdown(rem time.Duration) string {
	if rem < 0 {
		rem = 0
	}
	secs := int(rem / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}
