package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day is a calendar day in wall-clock duration
const Day = 24 * time.Hour

// MinFutureDelay is the shortest delay a one-shot alert may be scheduled with
const MinFutureDelay = time.Second

// ParseClock reads an "HH:MM" string
func ParseClock(hhmm string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", hhmm)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	return hour, minute, nil
}

// DateTodayAt returns the instant HH:MM on the calendar day of now, in loc
func DateTodayAt(hhmm string, now time.Time, loc *time.Location) (time.Time, error) {
	hour, minute, err := ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = now.Location()
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc), nil
}

// AddDays shifts t by a whole number of 24h days
func AddDays(t time.Time, days int) time.Time {
	return t.Add(time.Duration(days) * Day)
}

// MinutesUntil returns the whole minutes from now to target, rounded
func MinutesUntil(target, now time.Time) int {
	return int(target.Sub(now).Round(time.Minute) / time.Minute)
}

// ClampFuture moves target to at least MinFutureDelay after now, whole seconds
func ClampFuture(target, now time.Time) time.Time {
	delay := target.Sub(now).Round(time.Second)
	if delay < MinFutureDelay {
		delay = MinFutureDelay
	}
	return now.Add(delay)
}

// FormatClock renders t as HH:MM in loc
func FormatClock(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(CLOCK_LAYOUT)
}

// FormatCountdown renders d as MM:SS, flooring negatives at zero
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
