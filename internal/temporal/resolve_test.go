package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formatAll(dates []CalendarDate) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.String())
	}
	return out
}

func TestResolve(t *testing.T) {
	ref := Date(2016, time.December, 30)

	tests := []struct {
		name  string
		token string
		want  []string
	}{
		{name: "full date", token: "2016-12-24", want: []string{"2016-12-24"}},
		{name: "bare year", token: "2016", want: []string{"2016-01-01"}},
		{name: "year and month", token: "2016-02", want: []string{"2016-02-01"}},
		{name: "decade wildcard", token: "198X", want: []string{"1980-01-01", "1989-12-31"}},
		{name: "century wildcard", token: "19XX", want: []string{"1900-01-01", "1999-12-31"}},
		{name: "all wildcard", token: "XXXX", want: []string{"0001-01-01", "9999-12-31"}},
		{name: "wildcard with month", token: "198X-05", want: []string{"1980-05-01", "1989-05-31"}},
		{name: "spring", token: "1980-SP", want: []string{"1980-03-01", "1980-05-31"}},
		{name: "summer", token: "1980-SU", want: []string{"1980-06-01", "1980-08-31"}},
		{name: "fall", token: "1980-FA", want: []string{"1980-09-01", "1980-11-30"}},
		{name: "winter crosses year", token: "1980-WI", want: []string{"1980-12-01", "1981-02-28"}},
		{name: "winter into leap year", token: "1983-WI", want: []string{"1983-12-01", "1984-02-29"}},
		{name: "winter past the last year", token: "9999-WI", want: []string{"9999-12-01", "9999-12-31"}},
		{name: "wildcard winter", token: "XXXX-WI", want: []string{"0001-12-01", "9999-12-31"}},
		{name: "iso week", token: "2016-W47", want: []string{"2016-11-21", "2016-11-27"}},
		{name: "iso week one starts previous year", token: "2015-W01", want: []string{"2014-12-29", "2015-01-04"}},
		{name: "iso weekday monday", token: "2016-W47-1", want: []string{"2016-11-21"}},
		{name: "iso weekday sunday", token: "2016-W47-7", want: []string{"2016-11-27"}},
		{name: "weekend", token: "2016-W47-WE", want: []string{"2016-11-26", "2016-11-27"}},
		{name: "missing week 53", token: "2016-W53", want: []string{}},
		{name: "week 53 of a long year", token: "2015-W53", want: []string{"2015-12-28", "2016-01-03"}},
		{name: "first week of year one", token: "0001-W01", want: []string{"0001-01-01", "0001-01-07"}},
		{name: "bc iso week", token: "-0001-W01", want: []string{"0001-01-03 BC", "0001-01-09 BC"}},
		{name: "bc weekend", token: "-0001-W01-WE", want: []string{"0001-01-08 BC", "0001-01-09 BC"}},
		{name: "day overflow", token: "2016-12-32", want: []string{"2016-12-31"}},
		{name: "day zero", token: "2016-12-00", want: []string{"2016-11-30"}},
		{name: "february overflow", token: "2015-02-30", want: []string{"2015-02-28"}},
		{name: "day with time suffix", token: "2016-12-24T10:00", want: []string{"2016-12-24"}},
		{name: "bc date", token: "-0004-12-32", want: []string{"0004-12-31 BC"}},
		{name: "bc wildcard", token: "-001X", want: []string{"0019-01-01 BC", "0010-12-31 BC"}},
		{name: "explicit plus sign", token: "+2016-12-24", want: []string{"2016-12-24"}},
		{name: "past ref", token: "PAST_REF", want: []string{"0001-01-01", "2016-12-30"}},
		{name: "present ref", token: "PRESENT_REF", want: []string{"2016-12-30"}},
		{name: "future ref", token: "FUTURE_REF", want: []string{"2016-12-30", "9999-12-31"}},
		{name: "reference token inside longer token", token: "XXXX-PAST_REF", want: []string{"0001-01-01", "2016-12-30"}},
		{name: "duration only", token: "P4Y", want: []string{}},
		{name: "unknown season", token: "2016-XY", want: []string{}},
		{name: "month out of range", token: "2016-13", want: []string{}},
		{name: "empty", token: "", want: []string{}},
		{name: "short year", token: "201", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.token, ref)
			assert.Equal(t, tt.want, formatAll(got))
		})
	}
}

func TestResolveBCWeekFallsOnProlepticWeekdays(t *testing.T) {
	dates := Resolve("-0044-W10", CalendarDate{})
	require.Len(t, dates, 2)

	monday, sunday := dates[0].Time(), dates[1].Time()
	assert.Equal(t, BC, dates[0].Era)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, time.Sunday, sunday.Weekday())
	assert.Equal(t, 6, dates[0].DaysUntil(dates[1]))

	year, week := monday.ISOWeek()
	assert.Equal(t, -43, year, "44 BC is astronomical year -43")
	assert.Equal(t, 10, week)

	wednesday := Resolve("-0044-W10-3", CalendarDate{})
	require.Len(t, wednesday, 1)
	assert.Equal(t, time.Wednesday, wednesday[0].Time().Weekday())
}

func TestResolveFallbackReference(t *testing.T) {
	r := NewResolver(Date(2000, time.June, 15))

	assert.Equal(t, []string{"2000-06-15"}, formatAll(r.Resolve("PRESENT_REF", CalendarDate{})))
	assert.Equal(t, []string{"2001-01-01"}, formatAll(r.Resolve("PRESENT_REF", Date(2001, time.January, 1))))
	assert.Equal(t, []string{"0001-01-01"}, formatAll(Resolve("PRESENT_REF", CalendarDate{})))
	assert.Equal(t, MinDate, NewResolver(CalendarDate{}).Fallback())
}

func TestBuildDate(t *testing.T) {
	tests := []struct {
		in   dateParts
		want string
	}{
		{dateParts{year: 2016, month: time.April, day: 31}, "2016-04-30"},
		{dateParts{year: 2016, month: time.January, day: 0}, "2015-12-31"},
		{dateParts{year: 2016, month: time.February, day: 31}, "2016-02-29"},
		{dateParts{year: 1, month: time.January, day: 0, era: BC}, "0002-12-31 BC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, buildDate(tt.in).String())
	}
}
