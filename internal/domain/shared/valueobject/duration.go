package valueobject

import (
	"fmt"
	"time"
)

// DurationUnit is the unit a rental duration is expressed in
type DurationUnit string

const (
	DurationUnitHour  DurationUnit = "hour"
	DurationUnitDay   DurationUnit = "day"
	DurationUnitWeek  DurationUnit = "week"
	DurationUnitMonth DurationUnit = "month"
)

// IsValid checks if the unit is a valid DurationUnit
func (u DurationUnit) IsValid() bool {
	switch u {
	case DurationUnitHour, DurationUnitDay, DurationUnitWeek, DurationUnitMonth:
		return true
	}
	return false
}

// String returns the string representation of DurationUnit
func (u DurationUnit) String() string {
	return string(u)
}

// Label returns the plural display label of the unit
func (u DurationUnit) Label() string {
	switch u {
	case DurationUnitHour:
		return "Hours"
	case DurationUnitDay:
		return "Days"
	case DurationUnitWeek:
		return "Weeks"
	case DurationUnitMonth:
		return "Months"
	}
	return ""
}

// DurationUnits lists all valid units in display order
func DurationUnits() []DurationUnit {
	return []DurationUnit{DurationUnitHour, DurationUnitDay, DurationUnitWeek, DurationUnitMonth}
}

// Duration is a rental duration: a positive count of a duration unit
type Duration struct {
	Value int          `gorm:"column:duration" json:"value"`
	Unit  DurationUnit `gorm:"column:duration_unit;type:varchar(10)" json:"unit"`
}

// NewDuration creates a Duration, validating the unit
func NewDuration(value int, unit DurationUnit) (Duration, error) {
	if !unit.IsValid() {
		return Duration{}, fmt.Errorf("invalid duration unit: %q", unit)
	}
	if value <= 0 {
		return Duration{}, fmt.Errorf("duration value must be positive, got %d", value)
	}
	return Duration{Value: value, Unit: unit}, nil
}

// IsZero returns true for the zero Duration
func (d Duration) IsZero() bool {
	return d.Value == 0 && d.Unit == ""
}

// ComparableDays converts the duration to approximate days.
// The month approximation (30 days) is used ONLY for comparing durations
// against each other during header reconciliation. End dates are always
// derived with calendar arithmetic; the two deliberately disagree near
// month boundaries.
func (d Duration) ComparableDays() float64 {
	switch d.Unit {
	case DurationUnitHour:
		return float64(d.Value) / 24
	case DurationUnitDay:
		return float64(d.Value)
	case DurationUnitWeek:
		return float64(d.Value) * 7
	case DurationUnitMonth:
		return float64(d.Value) * 30
	}
	return 0
}

// String returns a display string such as "3 Days"
func (d Duration) String() string {
	return fmt.Sprintf("%d %s", d.Value, d.Unit.Label())
}

// LongestDuration returns the duration of the line whose ComparableDays is
// strictly greatest, or current when lines is empty. Ties among lines keep
// the earlier winner; a winner tying the current header keeps the header's
// own representation, so repeated application is idempotent.
func LongestDuration(current Duration, lines []Duration) Duration {
	longestDays := 0.0
	longest := current
	for _, line := range lines {
		if days := line.ComparableDays(); days > longestDays {
			longestDays = days
			longest = line
		}
	}
	if longestDays == current.ComparableDays() {
		return current
	}
	return longest
}

// RentalPeriod is the rental window of a document or line: an optional start
// date plus a duration. The end date is always derived, never stored.
type RentalPeriod struct {
	Start    *time.Time `gorm:"column:start_date;type:date" json:"start,omitempty"`
	Duration `gorm:"embedded"`
}

// NewRentalPeriod creates a RentalPeriod with the given start date and duration
func NewRentalPeriod(start *time.Time, value int, unit DurationUnit) (RentalPeriod, error) {
	d, err := NewDuration(value, unit)
	if err != nil {
		return RentalPeriod{}, err
	}
	p := RentalPeriod{Duration: d}
	if start != nil {
		day := DateOf(*start)
		p.Start = &day
	}
	return p, nil
}

// End derives the period end date. Returns nil when the start is absent.
// Day, week and month arithmetic is calendar-aware (AddDate, with Go's
// normalization convention for month-end overflow). Hour durations advance
// the instant by whole hours and then truncate back to the day, because the
// period carrier is date-only.
func (p RentalPeriod) End() *time.Time {
	if p.Start == nil {
		return nil
	}
	var end time.Time
	switch p.Unit {
	case DurationUnitHour:
		end = DateOf(p.Start.Add(time.Duration(p.Value) * time.Hour))
	case DurationUnitDay:
		end = p.Start.AddDate(0, 0, p.Value)
	case DurationUnitWeek:
		end = p.Start.AddDate(0, 0, 7*p.Value)
	case DurationUnitMonth:
		end = p.Start.AddDate(0, p.Value, 0)
	default:
		return nil
	}
	return &end
}

// IsResolved reports whether the period is complete enough to start a
// rental: a start date is set and the duration is valid.
func (p RentalPeriod) IsResolved() bool {
	return p.Start != nil && p.Unit.IsValid() && p.Value > 0
}

// WithDuration returns a copy of the period carrying the given duration
func (p RentalPeriod) WithDuration(d Duration) RentalPeriod {
	p.Duration = d
	return p
}

// DateOf truncates a time to its UTC calendar day
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
