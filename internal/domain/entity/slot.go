package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the calendar-day wire format.
	DateLayout = "2006-01-02"
	// TimeOfDayLayout is the clock wire format.
	TimeOfDayLayout = "15:04"

	minutesPerDay = 24 * 60
)

var (
	ErrInvalidDate      = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeOfDay = errors.New("invalid time format, use HH:MM")
	ErrInvalidSlotRange = errors.New("start time must be before end time")
)

// TimeOfDay is a clock time stored as minutes since midnight.
// It is compared numerically, so "9:00" and "09:00" are the same value.
type TimeOfDay int

// ParseTimeOfDay accepts "HH:MM" (hour may be a single digit).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(TimeOfDayLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidTimeOfDay
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

// MustTimeOfDay is ParseTimeOfDay for literals; it panics on bad input.
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(fmt.Sprintf("entity: bad time of day %q", s))
	}
	return t
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < minutesPerDay
}

// String formats the value zero padded, e.g. "09:00".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidTimeOfDay
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseDate normalizes a calendar day to UTC midnight.
// Accepts YYYY-MM-DD or an RFC 3339 timestamp, which is converted to UTC first.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return TruncateToDay(ts), nil
}

// TruncateToDay drops the clock part of t after converting it to UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Slot is a calendar day plus a [StartTime, EndTime) window on that day.
type Slot struct {
	Date      time.Time `gorm:"column:date;type:date;not null" json:"date"`
	StartTime TimeOfDay `gorm:"column:start_minute;type:smallint;not null" json:"start_time"`
	EndTime   TimeOfDay `gorm:"column:end_minute;type:smallint;not null" json:"end_time"`
}

// NewSlot parses the wire representation of a slot and validates it.
func NewSlot(date, start, end string) (Slot, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Slot{}, err
	}
	st, err := ParseTimeOfDay(start)
	if err != nil {
		return Slot{}, err
	}
	et, err := ParseTimeOfDay(end)
	if err != nil {
		return Slot{}, err
	}
	s := Slot{Date: d, StartTime: st, EndTime: et}
	if err := s.Validate(); err != nil {
		return Slot{}, err
	}
	return s, nil
}

func (s Slot) Validate() error {
	if !s.StartTime.Valid() || !s.EndTime.Valid() {
		return ErrInvalidTimeOfDay
	}
	if s.StartTime >= s.EndTime {
		return ErrInvalidSlotRange
	}
	return nil
}

// Day returns the calendar day key, e.g. "2025-03-10".
func (s Slot) Day() string {
	return s.Date.UTC().Format(DateLayout)
}

func (s Slot) SameDay(other Slot) bool {
	return s.Day() == other.Day()
}

// Equal reports an exact match: same day, same start, same end.
func (s Slot) Equal(other Slot) bool {
	return s.SameDay(other) && s.StartTime == other.StartTime && s.EndTime == other.EndTime
}

// Contains reports whether other lies entirely inside s on the same day.
func (s Slot) Contains(other Slot) bool {
	return s.SameDay(other) && s.StartTime <= other.StartTime && other.EndTime <= s.EndTime
}

// Overlaps uses half-open intervals: touching at a boundary is not an overlap.
func (s Slot) Overlaps(other Slot) bool {
	return s.SameDay(other) && s.StartTime < other.EndTime && s.EndTime > other.StartTime
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s-%s", s.Day(), s.StartTime, s.EndTime)
}
