package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	pastRef    = "PAST_REF"
	presentRef = "PRESENT_REF"
	futureRef  = "FUTURE_REF"

	wildcard = "X"
	weekend  = "WE"
)

// bcYear matches a signed four character year such as "-0004" or "-01XX".
var bcYear = regexp.MustCompile(`^-[0-9X]{4}`)

// seasons maps a season code to its first and last month. Winter ends in
// the following year.
var seasons = map[string][2]time.Month{
	"WI": {time.December, time.February},
	"SP": {time.March, time.May},
	"SU": {time.June, time.August},
	"FA": {time.September, time.November},
}

// DateResolver turns one normalized date token into concrete dates.
type DateResolver interface {
	Resolve(token string, ref CalendarDate) []CalendarDate
}

// Resolver is the default DateResolver. Reference tokens resolved without a
// reference date use the fallback date.
type Resolver struct {
	fallback CalendarDate
}

var defaultResolver = NewResolver(MinDate)

// NewResolver creates a Resolver. A zero fallback is replaced by MinDate.
func NewResolver(fallback CalendarDate) *Resolver {
	if fallback.IsZero() {
		fallback = MinDate
	}
	return &Resolver{fallback: fallback}
}

// Fallback returns the placeholder reference date.
func (r *Resolver) Fallback() CalendarDate { return r.fallback }

// Resolve resolves token with the default resolver.
func Resolve(token string, ref CalendarDate) []CalendarDate {
	return defaultResolver.Resolve(token, ref)
}

// Resolve returns one or two dates for token, or nil when the token follows
// none of the known forms.
func (r *Resolver) Resolve(token string, ref CalendarDate) []CalendarDate {
	token = strings.TrimSpace(token)
	if ref.IsZero() {
		ref = r.fallback
	}

	switch {
	case strings.Contains(token, pastRef):
		return []CalendarDate{MinDate, ref}
	case strings.Contains(token, presentRef):
		return []CalendarDate{ref}
	case strings.Contains(token, futureRef):
		return []CalendarDate{ref, MaxDate}
	}

	era := AD
	switch {
	case bcYear.MatchString(token):
		token = token[1:]
		era = BC
	case strings.HasPrefix(token, "+"):
		token = token[1:]
	}

	parts := strings.SplitN(token, "-", 3)
	res, ok := parseYear(parts[0], era)
	if !ok {
		return nil
	}
	if len(parts) > 1 && !res.applyPeriod(parts[1]) {
		return nil
	}
	if len(parts) > 2 && !res.applyDay(parts[2]) {
		return nil
	}
	return res.dates()
}

type spanKind int

const (
	spanNone spanKind = iota
	spanYears
	spanSeason
	spanWeek
)

type dateParts struct {
	year  int
	month time.Month
	day   int
	era   Era
}

// resolution is the partially built lower and upper date of one token.
type resolution struct {
	lo, hi dateParts
	span   spanKind
	monday time.Time
}

func parseYear(s string, era Era) (*resolution, bool) {
	if len(s) != 4 {
		return nil, false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != 'X' {
			return nil, false
		}
	}

	res := &resolution{}
	if !strings.Contains(s, wildcard) {
		year, _ := strconv.Atoi(s)
		if year < 1 {
			return nil, false
		}
		res.lo = dateParts{year: year, month: time.January, day: 1, era: era}
		return res, true
	}

	loFill, hiFill := "0", "9"
	if era == BC {
		loFill, hiFill = "9", "0"
	}
	lo, _ := strconv.Atoi(strings.ReplaceAll(s, wildcard, loFill))
	hi, _ := strconv.Atoi(strings.ReplaceAll(s, wildcard, hiFill))
	// "XXXX" would otherwise become year 0000.
	lo = max(lo, 1)
	hi = max(hi, 1)

	res.lo = dateParts{year: lo, month: time.January, day: 1, era: era}
	res.hi = dateParts{year: hi, month: time.December, day: 31, era: era}
	res.span = spanYears
	return res, true
}

// applyPeriod handles the month, ISO week or season component.
func (r *resolution) applyPeriod(s string) bool {
	switch {
	case len(s) >= 2 && isDigits(s[:2]):
		m, _ := strconv.Atoi(s[:2])
		if m < 1 || m > 12 {
			return false
		}
		r.lo.month = time.Month(m)
		if r.span == spanYears {
			r.hi.month = time.Month(m)
		}
		return true

	case len(s) >= 3 && s[0] == 'W' && isDigits(s[1:3]):
		week, _ := strconv.Atoi(s[1:3])
		return r.applyWeek(week)

	case len(s) >= 2:
		months, ok := seasons[s[:2]]
		if !ok {
			return false
		}
		endYear, endEra := r.lo.year, r.lo.era
		if r.span == spanYears {
			endYear = r.hi.year
		}
		if months[1] < months[0] {
			endYear, endEra = followingYear(endYear, endEra)
		}
		r.lo.month, r.lo.day = months[0], 1
		r.hi = dateParts{year: endYear, month: months[1], day: 31, era: endEra}
		r.span = spanSeason
		return true
	}
	return false
}

// applyWeek expands the week on the astronomical year so BC weeks start on
// a real Monday of the proleptic calendar.
func (r *resolution) applyWeek(week int) bool {
	monday, ok := isoWeekMonday(r.lo.astronomicalYear(), week)
	if !ok {
		return false
	}
	lastMonday := monday
	if r.span == spanYears {
		if lastMonday, ok = isoWeekMonday(r.hi.astronomicalYear(), week); !ok {
			lastMonday = monday
		}
	}

	r.monday = monday
	r.lo = partsFromTime(monday)
	r.hi = partsFromTime(lastMonday.AddDate(0, 0, 6))
	r.span = spanWeek
	return true
}

// applyDay handles the weekday, weekend or day-of-month component.
func (r *resolution) applyDay(s string) bool {
	if r.span == spanWeek {
		switch {
		case strings.HasPrefix(s, weekend):
			r.lo = partsFromTime(r.monday.AddDate(0, 0, 5))
			r.hi = partsFromTime(r.monday.AddDate(0, 0, 6))
			return true
		case len(s) >= 1 && s[0] >= '1' && s[0] <= '7':
			r.lo = partsFromTime(r.monday.AddDate(0, 0, int(s[0]-'1')))
			r.span = spanNone
			return true
		}
		return false
	}

	if len(s) < 2 || !isDigits(s[:2]) {
		return false
	}
	day, _ := strconv.Atoi(s[:2])
	r.lo.day = day
	if r.span == spanYears {
		r.hi.day = day
	}
	return true
}

func (r *resolution) dates() []CalendarDate {
	out := []CalendarDate{buildDate(r.lo)}
	if r.span != spanNone {
		out = append(out, buildDate(r.hi))
	}
	return out
}

// buildDate trusts year and month and walks the day back until the date is
// valid. Day 0 rolls over to the last day of the previous month. Dates past
// MaxDate, such as a winter starting in 9999, are clamped to it.
func buildDate(p dateParts) CalendarDate {
	if p.era == AD && p.year > MaxDate.Year {
		return MaxDate
	}
	year, month, day, era := max(p.year, 1), p.month, p.day, p.era
	month = min(max(month, time.January), time.December)
	for {
		if day < 1 {
			day = 31
			month--
			if month < time.January {
				month = time.December
				year, era = precedingYear(year, era)
			}
		}
		d := CalendarDate{Year: year, Month: month, Day: day, Era: era}
		if d.Valid() {
			return d
		}
		day--
	}
}

func (p dateParts) astronomicalYear() int {
	return CalendarDate{Year: p.year, Era: p.era}.astronomicalYear()
}

// partsFromTime converts an astronomical-year time back to an era date.
func partsFromTime(t time.Time) dateParts {
	year, era := t.Year(), AD
	if year < 1 {
		year, era = 1-year, BC
	}
	return dateParts{year: year, month: t.Month(), day: t.Day(), era: era}
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
