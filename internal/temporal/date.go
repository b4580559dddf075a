// Package temporal resolves normalized date tokens emitted by an annotation
// stage into concrete calendar dates and aggregates them into per-event
// ranges.
package temporal

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Era distinguishes dates before and after year 1.
type Era int

const (
	AD Era = iota
	BC
)

func (e Era) String() string {
	if e == BC {
		return "BC"
	}
	return "AD"
}

// CalendarDate is an immutable (year, month, day, era) value. Year is always
// positive; BC years grow into the past. The zero value means "absent".
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
	Era   Era
}

// Bounds used by the reference tokens and the wildcard year expansion.
var (
	MinDate = CalendarDate{Year: 1, Month: time.January, Day: 1}
	MaxDate = CalendarDate{Year: 9999, Month: time.December, Day: 31}
)

const referenceLayout = "2006-01-02"

// Date returns an AD date. It does not validate the day of month.
func Date(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// ParseReferenceDate parses a per-document reference date formatted as
// YYYY-MM-DD.
func ParseReferenceDate(s string) (CalendarDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CalendarDate{}, errors.New("reference date is empty")
	}
	t, err := time.Parse(referenceLayout, s)
	if err != nil {
		return CalendarDate{}, errors.Wrapf(err, "invalid reference date %q", s)
	}
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// IsZero reports whether d is the absent date.
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// astronomicalYear maps 1 BC to 0, 2 BC to -1 and so on so that BC and AD
// dates share one ordered axis.
func (d CalendarDate) astronomicalYear() int {
	if d.Era == BC {
		return 1 - d.Year
	}
	return d.Year
}

// Time returns midnight UTC of d on the proleptic Gregorian calendar.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.astronomicalYear(), d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Valid reports whether d names a real day.
func (d CalendarDate) Valid() bool {
	if d.Year < 1 || d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	t := d.Time()
	return t.Month() == d.Month && t.Day() == d.Day
}

// Compare returns -1, 0 or +1 as d is earlier than, equal to or later than o.
func (d CalendarDate) Compare(o CalendarDate) int {
	if a, b := d.astronomicalYear(), o.astronomicalYear(); a != b {
		return sign(a - b)
	}
	if d.Month != o.Month {
		return sign(int(d.Month) - int(o.Month))
	}
	return sign(d.Day - o.Day)
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }
func (d CalendarDate) After(o CalendarDate) bool  { return d.Compare(o) > 0 }

func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	s := fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
	if d.Era == BC {
		s += " BC"
	}
	return s
}

// DaysUntil returns the number of days from d to o; negative when o is
// earlier.
func (d CalendarDate) DaysUntil(o CalendarDate) int {
	// Unix seconds stay in range for years 1..9999; time.Duration does not.
	return int((o.Time().Unix() - d.Time().Unix()) / 86400)
}

// followingYear is the calendar year after year, moving toward the present
// for BC dates.
func followingYear(year int, era Era) (int, Era) {
	if era == BC {
		if year <= 1 {
			return 1, AD
		}
		return year - 1, BC
	}
	return year + 1, AD
}

// precedingYear is the calendar year before year.
func precedingYear(year int, era Era) (int, Era) {
	if era == BC {
		return year + 1, BC
	}
	if year <= 1 {
		return 1, BC
	}
	return year - 1, AD
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
