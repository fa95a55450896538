package puzzle

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone data for hosts without a system database
)

// Default daily schedule: a new puzzle at 08:00 New York time, counting from 2025-01-01
const (
	DefaultTimezone  = "America/New_York"
	DefaultResetHour = 8
	DefaultEpoch     = "2025-01-01"
)

// Calendar maps instants to daily puzzle numbers.
// A daily cycle begins at ResetHour local time; the cycle containing Epoch's date is number 1.
type Calendar struct {
	Location  *time.Location
	ResetHour int
	Epoch     time.Time // only the year, month and day are used
}

// NewCalendar builds a Calendar from configuration values
func NewCalendar(timezone string, resetHour int, epoch string) (*Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	if resetHour < 0 || resetHour > 23 {
		return nil, fmt.Errorf("reset hour %d out of range", resetHour)
	}
	epochDate, err := time.Parse(time.DateOnly, epoch)
	if err != nil {
		return nil, fmt.Errorf("parsing epoch %q: %w", epoch, err)
	}
	return &Calendar{Location: loc, ResetHour: resetHour, Epoch: epochDate}, nil
}

// DefaultCalendar returns the standard New York schedule
func DefaultCalendar() *Calendar {
	cal, err := NewCalendar(DefaultTimezone, DefaultResetHour, DefaultEpoch)
	if err != nil {
		panic(err)
	}
	return cal
}

// CycleStart returns the instant the daily cycle containing now began
func (c *Calendar) CycleStart(now time.Time) time.Time {
	local := now.In(c.Location)
	start := c.resetOn(local.Year(), local.Month(), local.Day())
	if start.After(now) {
		start = c.resetOn(local.Year(), local.Month(), local.Day()-1)
	}
	return start
}

// DailyNumber returns the puzzle number for now, never less than 1.
// Days are counted on the local calendar so a DST transition still spans exactly one puzzle.
func (c *Calendar) DailyNumber(now time.Time) int {
	start := c.CycleStart(now)
	days := civilDaysBetween(c.Epoch, start)
	return max(1, days+1)
}

// NextReset returns the instant the next daily cycle begins
func (c *Calendar) NextReset(now time.Time) time.Time {
	start := c.CycleStart(now)
	return c.resetOn(start.Year(), start.Month(), start.Day()+1)
}

// TimeUntilNext returns how long until the next daily puzzle
func (c *Calendar) TimeUntilNext(now time.Time) time.Duration {
	return c.NextReset(now).Sub(now)
}

func (c *Calendar) resetOn(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, c.ResetHour, 0, 0, 0, c.Location)
}

// civilDaysBetween counts calendar days from a's date to b's date, each read in its own zone
func civilDaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
