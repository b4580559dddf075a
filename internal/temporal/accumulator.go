package temporal

import "strings"

const intersectKeyword = "INTERSECT"

// Accumulator keeps the running [start, end] window of one event while its
// temporal mentions are absorbed. It must not be shared between goroutines.
type Accumulator struct {
	resolver DateResolver
	start    CalendarDate
	end      CalendarDate
	label    string
}

// NewAccumulator returns an empty accumulator. A nil resolver selects the
// package default.
func NewAccumulator(resolver DateResolver) *Accumulator {
	if resolver == nil {
		resolver = defaultResolver
	}
	return &Accumulator{resolver: resolver}
}

// Absorb widens the window with the dates named by token and returns how
// many dates the token produced.
//
// Each date is checked against start first and only otherwise against end,
// so a date that replaces start in this call is never reconsidered as end.
func (a *Accumulator) Absorb(token string, ref CalendarDate) int {
	head, tail, intersect := strings.Cut(token, intersectKeyword)

	var dates []CalendarDate
	for _, alt := range strings.Split(head, "/") {
		dates = append(dates, a.resolver.Resolve(alt, ref)...)
	}

	label := ""
	if intersect {
		label = DescribeDuration(tail)
	}

	for _, d := range dates {
		if a.start.IsZero() || d.Before(a.start) {
			a.start = d
			a.label = label
		} else if (a.end.IsZero() || d.After(a.end)) && d != a.start {
			a.end = d
			a.label = label
		}
	}
	return len(dates)
}

func (a *Accumulator) Start() CalendarDate { return a.start }
func (a *Accumulator) End() CalendarDate   { return a.end }

// Label is the duration label of the mention that last moved a bound.
func (a *Accumulator) Label() string { return a.label }

func (a *Accumulator) Range() Range { return Range{Start: a.start, End: a.end} }

// Empty reports whether no date has been absorbed yet.
func (a *Accumulator) Empty() bool { return a.start.IsZero() }

func (a *Accumulator) WidthDays() int { return a.Range().WidthDays() }

// String formats the window as "<start>[ -> <end>][ (<label>)]".
func (a *Accumulator) String() string {
	if a.Empty() {
		return ""
	}
	s := a.Range().String()
	if a.label != "" {
		s += " (" + a.label + ")"
	}
	return s
}
