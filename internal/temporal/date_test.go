package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarDateOrdering(t *testing.T) {
	bc10 := CalendarDate{Year: 10, Month: time.January, Day: 1, Era: BC}
	bc2 := CalendarDate{Year: 2, Month: time.January, Day: 1, Era: BC}
	ad1 := Date(1, time.January, 1)
	ad2016 := Date(2016, time.December, 24)

	assert.True(t, bc10.Before(bc2), "larger BC year is earlier")
	assert.True(t, bc2.Before(ad1))
	assert.True(t, ad1.Before(ad2016))
	assert.True(t, ad2016.After(bc10))
	assert.Equal(t, 0, ad2016.Compare(Date(2016, time.December, 24)))
	assert.Equal(t, -1, Date(2016, time.November, 30).Compare(ad2016))
}

func TestCalendarDateValid(t *testing.T) {
	assert.True(t, Date(2016, time.February, 29).Valid())
	assert.False(t, Date(2015, time.February, 29).Valid())
	assert.False(t, Date(2016, time.April, 31).Valid())
	assert.False(t, Date(0, time.January, 1).Valid())
	assert.False(t, CalendarDate{}.Valid())
	// 1 BC is a leap year on the proleptic calendar.
	assert.True(t, CalendarDate{Year: 1, Month: time.February, Day: 29, Era: BC}.Valid())
}

func TestCalendarDateString(t *testing.T) {
	assert.Equal(t, "0004-12-31 BC", CalendarDate{Year: 4, Month: time.December, Day: 31, Era: BC}.String())
	assert.Equal(t, "0001-01-01", MinDate.String())
	assert.Equal(t, "", CalendarDate{}.String())
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 6, Date(2016, time.November, 21).DaysUntil(Date(2016, time.November, 27)))
	assert.Equal(t, -1, Date(2016, time.January, 1).DaysUntil(Date(2015, time.December, 31)))
	assert.Equal(t, 3652058, MinDate.DaysUntil(MaxDate))
	bc := CalendarDate{Year: 1, Month: time.December, Day: 31, Era: BC}
	assert.Equal(t, 1, bc.DaysUntil(MinDate))
}

func TestParseReferenceDate(t *testing.T) {
	d, err := ParseReferenceDate(" 2016-12-30 ")
	require.NoError(t, err)
	assert.Equal(t, Date(2016, time.December, 30), d)

	_, err = ParseReferenceDate("30/12/2016")
	assert.Error(t, err)

	_, err = ParseReferenceDate("")
	assert.Error(t, err)
}

func TestRange(t *testing.T) {
	week := Range{Start: Date(2016, time.December, 12), End: Date(2016, time.December, 18)}
	point := Range{Start: Date(2016, time.December, 15)}
	all := Range{Start: MinDate, End: MaxDate}

	assert.Equal(t, 7, week.WidthDays())
	assert.Equal(t, 0, point.WidthDays())
	assert.Equal(t, "2016-12-12 -> 2016-12-18", week.String())
	assert.Equal(t, "2016-12-15", point.String())

	assert.True(t, week.Contains(point))
	assert.True(t, all.Contains(week))
	assert.False(t, week.Contains(all))
	assert.True(t, point.Contains(point))

	span := point.Span(Range{Start: Date(2016, time.December, 20), End: Date(2016, time.December, 21)})
	assert.Equal(t, Range{Start: Date(2016, time.December, 15), End: Date(2016, time.December, 21)}, span)
}
