// Package ics serializes calendar events to iCalendar for export into other
// calendar applications.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/jhartwell/dayframe/internal/model"
)

const productID = "-//dayframe//calendar//EN"

// Export renders events as a VCALENDAR. All-day events use DATE values;
// timed events use UTC DATE-TIME. stamp becomes each VEVENT's DTSTAMP so
// output is reproducible in tests.
func Export(events []model.Event, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, e := range events {
		ev := cal.AddEvent(e.UID)
		ev.SetDtStampTime(stamp.UTC())
		ev.SetSummary(e.Title)
		if e.AllDay {
			ev.SetAllDayStartAt(e.StartTime)
			ev.SetAllDayEndAt(e.EndTime)
		} else {
			ev.SetStartAt(e.StartTime.UTC())
			ev.SetEndAt(e.EndTime.UTC())
		}
		if e.Completed {
			ev.SetStatus(ical.ObjectStatusCompleted)
		}
	}

	return cal.Serialize()
}
