package temporal

// Range is a resolved [Start, End] window. A zero End marks a point date.
type Range struct {
	Start CalendarDate
	End   CalendarDate
}

func (r Range) IsZero() bool { return r.Start.IsZero() && r.End.IsZero() }

func (r Range) HasEnd() bool { return !r.End.IsZero() }

// WidthDays is the inclusive day span between Start and End, or 0 when End
// is absent.
func (r Range) WidthDays() int {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	return r.Start.DaysUntil(r.End) + 1
}

// LastDay is End, or Start for point ranges.
func (r Range) LastDay() CalendarDate {
	if r.End.IsZero() {
		return r.Start
	}
	return r.End
}

// Contains reports whether o lies inside r, treating point ranges as
// single days.
func (r Range) Contains(o Range) bool {
	if r.Start.IsZero() || o.Start.IsZero() {
		return r == o
	}
	return r.Start.Compare(o.Start) <= 0 && o.LastDay().Compare(r.LastDay()) <= 0
}

// Span is the smallest range covering both r and o.
func (r Range) Span(o Range) Range {
	out := Range{Start: r.Start, End: r.LastDay()}
	if o.Start.Before(out.Start) {
		out.Start = o.Start
	}
	if last := o.LastDay(); last.After(out.End) {
		out.End = last
	}
	return out
}

// String formats r as "<start>[ -> <end>]".
func (r Range) String() string {
	if r.End.IsZero() {
		return r.Start.String()
	}
	return r.Start.String() + " -> " + r.End.String()
}
