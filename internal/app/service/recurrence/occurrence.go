package recurrence

import (
	"iter"

	"github.com/subtrack/subtrack/pkg/dateutil"
)

// NextOnOrAfter returns the smallest occurrence date on or after ref,
// or false when the rule produces none (end date reached, or the rule
// is malformed). A ref equal to an occurrence returns that occurrence.
func (r Rule) NextOnOrAfter(ref dateutil.Date) (dateutil.Date, bool) {
	if !r.wellFormed() {
		return dateutil.Date{}, false
	}
	d := r.occurrence(r.nextIndexOnOrAfter(ref))
	if !r.withinEnd(d) {
		return dateutil.Date{}, false
	}
	return d, true
}

// Occurrences returns a lazy, restartable sequence of every occurrence
// d with from <= d <= to, in ascending order. The sequence is computed
// by stepping the rule, not by scanning days, so multi-year ranges with
// weekly rules stay O(occurrences). An empty range or a rule that never
// fires inside it yields nothing.
func (r Rule) Occurrences(from, to dateutil.Date) iter.Seq[dateutil.Date] {
	return func(yield func(dateutil.Date) bool) {
		if !r.wellFormed() || to.Before(from) {
			return
		}
		for k := r.nextIndexOnOrAfter(from); ; k++ {
			d := r.occurrence(k)
			if d.After(to) || !r.withinEnd(d) {
				return
			}
			if !yield(d) {
				return
			}
		}
	}
}

// OccurrencesSlice collects Occurrences into a slice. Never returns nil.
func (r Rule) OccurrencesSlice(from, to dateutil.Date) []dateutil.Date {
	out := []dateutil.Date{}
	for d := range r.Occurrences(from, to) {
		out = append(out, d)
	}
	return out
}

// Period is the span between two renewals: Start is an occurrence date
// and End is the day before the next one.
type Period struct {
	Start dateutil.Date
	End   dateutil.Date
}

// CurrentPeriod returns the period being paid for at ref: it begins on
// the last occurrence on or before ref and ends one day before the next
// occurrence (the renewal date itself belongs to the next period).
// There is no current period before the first occurrence or once the
// end date has cut the rule off.
func (r Rule) CurrentPeriod(ref dateutil.Date) (Period, bool) {
	if !r.wellFormed() || ref.Before(r.Start) {
		return Period{}, false
	}
	// smallest occurrence strictly after ref
	k := r.nextIndexOnOrAfter(ref.AddDays(1))
	next := r.occurrence(k)
	if !r.withinEnd(next) {
		return Period{}, false
	}
	return Period{Start: r.occurrence(k - 1), End: next.AddDays(-1)}, true
}
