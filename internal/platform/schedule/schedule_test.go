package schedule

import (
	"errors"
	"testing"
	"time"
)

const (
	testTimezone  = "America/New_York"
	testErrDue    = "Due returned error: %v"
	testErrFormat = "2006-01-02 15:04 MST"
)

func mustLocation(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation(testTimezone)
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	return loc
}

func TestRunDateUsesScheduleTimezone(t *testing.T) {
	d := Daily{Timezone: testTimezone, Time: "09:00"}

	// 02:00 UTC on the 6th is still the 5th in New York.
	got, err := d.RunDate(time.Date(2024, 3, 6, 2, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("RunDate returned error: %v", err)
	}

	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestDue(t *testing.T) {
	loc := mustLocation(t)
	d := Daily{Timezone: testTimezone, Time: "09:00"}
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		now     time.Time
		lastRun time.Time
		want    bool
	}{
		{name: "before time", now: time.Date(2024, 3, 5, 8, 59, 0, 0, loc), want: false},
		{name: "at time", now: time.Date(2024, 3, 5, 9, 0, 0, 0, loc), want: true},
		{name: "later same day", now: time.Date(2024, 3, 5, 17, 0, 0, 0, loc), want: true},
		{name: "already ran today", now: time.Date(2024, 3, 5, 17, 0, 0, 0, loc), lastRun: day, want: false},
		{name: "ran yesterday", now: time.Date(2024, 3, 5, 9, 30, 0, 0, loc), lastRun: day.AddDate(0, 0, -1), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runDate, due, err := d.Due(tt.now, tt.lastRun)
			if err != nil {
				t.Fatalf(testErrDue, err)
			}

			if due != tt.want {
				t.Fatalf("expected due=%v, got %v", tt.want, due)
			}

			if !runDate.Equal(day) {
				t.Fatalf("expected run date %s, got %s", day, runDate)
			}
		})
	}
}

func TestNext(t *testing.T) {
	loc := mustLocation(t)
	d := Daily{Timezone: testTimezone, Time: "9:00"}

	got, err := d.Next(time.Date(2024, 3, 5, 10, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}

	want := time.Date(2024, 3, 6, 9, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want.Format(testErrFormat), got.Format(testErrFormat))
	}

	got, err = d.Next(time.Date(2024, 3, 5, 8, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}

	want = time.Date(2024, 3, 5, 9, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want.Format(testErrFormat), got.Format(testErrFormat))
	}
}

func TestValidate(t *testing.T) {
	if err := (Daily{Timezone: "US/Eastern", Time: "09:00"}).Validate(); err != nil {
		t.Fatalf("expected alias to validate, got %v", err)
	}

	if err := (Daily{Timezone: "Mars/Olympus", Time: "09:00"}).Validate(); err == nil {
		t.Fatal("expected invalid timezone error")
	}

	if err := (Daily{Time: "24:00"}).Validate(); !errors.Is(err, ErrHourOutOfRange) {
		t.Fatalf("expected ErrHourOutOfRange, got %v", err)
	}
}

func TestNormalizeTimeHM(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "9:05", want: "09:05"},
		{in: " 23:59 ", want: "23:59"},
		{in: "", wantErr: ErrTimeFormat},
		{in: "9", wantErr: ErrTimeFormat},
		{in: "9:5", wantErr: ErrTimeFormat},
		{in: "ab:00", wantErr: ErrInvalidHour},
		{in: "10:60", wantErr: ErrInvalidMinute},
	}

	for _, tt := range tests {
		got, err := NormalizeTimeHM(tt.in)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NormalizeTimeHM(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}

			continue
		}

		if err != nil || got != tt.want {
			t.Fatalf("NormalizeTimeHM(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
