package temporal

import (
	"time"

	"github.com/teambition/rrule-go"
)

// isoWeekMonday returns the Monday of ISO-8601 week `week` of the
// astronomical year `year` (0 is 1 BC).
//
// The expansion window starts in late December of the previous year because
// week 1 may begin there, and ends early in the next year for week 52/53.
func isoWeekMonday(year, week int) (time.Time, bool) {
	if week < 1 || week > 53 {
		return time.Time{}, false
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Wkst:      rrule.MO,
		Byweekno:  []int{week},
		Byweekday: []rrule.Weekday{rrule.MO},
		Dtstart:   time.Date(year-1, time.December, 20, 0, 0, 0, 0, time.UTC),
		Until:     time.Date(year+1, time.January, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return time.Time{}, false
	}

	for _, t := range r.All() {
		if y, w := t.ISOWeek(); y == year && w == week {
			return t, true
		}
	}
	// Week 53 only exists in long years.
	return time.Time{}, false
}
