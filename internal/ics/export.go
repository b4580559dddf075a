// Package ics writes resolved timeline events as an iCalendar feed.
package ics

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/pkg/errors"

	appLog "timeliner/internal/log"
	"timeliner/internal/temporal"
	"timeliner/internal/timeline"
)

const productID = "-//timeliner//timeline export//EN"

// Export renders events as all-day VEVENTs. DTEND is exclusive, so it is
// the day after the last day of the event window. Events before the common
// era are skipped.
func Export(events []*timeline.Event) ([]byte, error) {
	return exportAt(events, time.Now().UTC())
}

func exportAt(events []*timeline.Event, stamp time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	skipped := 0
	for _, e := range events {
		r := e.Range()
		if r.Start.IsZero() {
			return nil, errors.Errorf("event %s has no date", e.Event.ID)
		}
		if r.Start.Era == temporal.BC || r.LastDay().Era == temporal.BC {
			skipped++
			continue
		}

		ve := cal.AddEvent(e.Event.ID + "@timeliner")
		ve.SetDtStampTime(stamp)
		ve.SetAllDayStartAt(r.Start.Time())
		ve.SetAllDayEndAt(exclusiveEnd(r.LastDay()))
		ve.SetSummary(e.Event.Text())
		ve.SetDescription(description(e))
	}

	if skipped > 0 {
		appLog.Info("ics export skipped bc events", "count", skipped)
	}
	return []byte(cal.Serialize()), nil
}

func exclusiveEnd(last temporal.CalendarDate) time.Time {
	if last == temporal.MaxDate {
		return last.Time()
	}
	return last.Time().AddDate(0, 0, 1)
}

func description(e *timeline.Event) string {
	lines := []string{e.When()}
	if e.Event.Summary != "" && e.Event.Sentence != "" {
		lines = append(lines, e.Event.Sentence)
	}
	if len(e.Event.Entities) > 0 {
		lines = append(lines, "Entities: "+strings.Join(e.Event.Entities, ", "))
	}
	if e.DocumentTitle != "" {
		lines = append(lines, "Source: "+e.DocumentTitle)
	}
	return strings.Join(lines, "\n")
}
