// Package schedule resolves the daily run time in a configured timezone.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	// Embed tzdata for environments without zoneinfo.
	_ "time/tzdata"
)

// Time conversion constants.
const (
	minutesPerHour = 60
	maxHour        = 23
)

// Error messages.
const (
	errFmtInvalidTimezone = "invalid timezone: %w"
)

// Static errors for schedule validation.
var (
	ErrTimeFormat     = errors.New("time must be HH:MM")
	ErrInvalidHour    = errors.New("invalid hour")
	ErrInvalidMinute  = errors.New("invalid minute")
	ErrHourOutOfRange = errors.New("hour out of range")
)

var timezoneAliases = map[string]string{
	"Asia/Nicosia": "Europe/Nicosia",
	"US/Eastern":   "America/New_York",
	"US/Pacific":   "America/Los_Angeles",
}

// Daily is a once-a-day run time in a timezone.
type Daily struct {
	Timezone string
	Time     string
}

// Location resolves the schedule timezone or defaults to UTC.
func (d Daily) Location() (*time.Location, error) {
	if strings.TrimSpace(d.Timezone) == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(NormalizeTimezone(d.Timezone))
	if err != nil {
		return nil, fmt.Errorf(errFmtInvalidTimezone, err)
	}

	return loc, nil
}

// Validate checks schedule fields for correctness.
func (d Daily) Validate() error {
	if _, err := d.Location(); err != nil {
		return err
	}

	if _, err := parseTimeHM(d.Time); err != nil {
		return fmt.Errorf("invalid schedule time %q: %w", d.Time, err)
	}

	return nil
}

// RunDate returns the calendar date of now in the schedule timezone, as
// midnight UTC.
func (d Daily) RunDate(now time.Time) (time.Time, error) {
	loc, err := d.Location()
	if err != nil {
		return time.Time{}, err
	}

	local := now.In(loc)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC), nil
}

// At returns the scheduled moment on the local date of now.
func (d Daily) At(now time.Time) (time.Time, error) {
	loc, err := d.Location()
	if err != nil {
		return time.Time{}, err
	}

	minutes, err := parseTimeHM(d.Time)
	if err != nil {
		return time.Time{}, err
	}

	local := now.In(loc)

	return time.Date(local.Year(), local.Month(), local.Day(), minutes/minutesPerHour, minutes%minutesPerHour, 0, 0, loc), nil
}

// Due reports whether the run for now's local date should start: the
// scheduled time has passed and that date has not run yet.
func (d Daily) Due(now, lastRunDate time.Time) (time.Time, bool, error) {
	runDate, err := d.RunDate(now)
	if err != nil {
		return time.Time{}, false, err
	}

	at, err := d.At(now)
	if err != nil {
		return time.Time{}, false, err
	}

	if now.Before(at) {
		return runDate, false, nil
	}

	if !lastRunDate.IsZero() && !lastRunDate.Before(runDate) {
		return runDate, false, nil
	}

	return runDate, true, nil
}

// Next returns the first scheduled moment strictly after now.
func (d Daily) Next(now time.Time) (time.Time, error) {
	at, err := d.At(now)
	if err != nil {
		return time.Time{}, err
	}

	if at.After(now) {
		return at, nil
	}

	return d.At(dateOnly(at).AddDate(0, 0, 1))
}

// NormalizeTimezone maps known aliases to canonical IANA names.
func NormalizeTimezone(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if canonical, ok := timezoneAliases[value]; ok {
		return canonical
	}

	return value
}

func parseTimeHM(value string) (int, error) {
	normalized, err := NormalizeTimeHM(value)
	if err != nil {
		return 0, err
	}

	hour, err := strconv.Atoi(normalized[:2])
	if err != nil {
		return 0, ErrInvalidHour
	}

	minute, err := strconv.Atoi(normalized[3:])
	if err != nil {
		return 0, ErrInvalidMinute
	}

	return hour*minutesPerHour + minute, nil
}

// NormalizeTimeHM accepts H:MM or HH:MM and returns HH:MM.
func NormalizeTimeHM(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrTimeFormat
	}

	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return "", ErrTimeFormat
	}

	if len(parts[1]) != 2 {
		return "", ErrTimeFormat
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", ErrInvalidHour
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", ErrInvalidMinute
	}

	if hour > maxHour || hour < 0 {
		return "", ErrHourOutOfRange
	}

	if minute < 0 || minute >= minutesPerHour {
		return "", ErrInvalidMinute
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
