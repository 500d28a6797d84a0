package recurrence

import (
	"errors"
	"fmt"

	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/types"
)

var (
	ErrMissingStart    = errors.New("recurrence: start date is required")
	ErrInvalidInterval = errors.New("recurrence: interval must be >= 1")
	ErrInvalidUnit     = errors.New("recurrence: unknown repeat unit")
	ErrEndBeforeStart  = errors.New("recurrence: end date is before start date")
)

// Rule is a subscription's repeat schedule: occurrences begin at Start
// and are spaced Interval units apart. When End is set, the rule
// produces no occurrence on or after it.
//
// Rules are validated once at the API boundary (subscription create and
// update); occurrence queries assume a validated rule and report
// "no occurrence" instead of failing when handed a malformed one.
type Rule struct {
	Start    dateutil.Date
	End      *dateutil.Date
	Unit     types.RepeatUnit
	Interval int
}

// Validate rejects malformed rules with caller-facing messages.
func (r Rule) Validate() error {
	if r.Start.IsZero() {
		return ErrMissingStart
	}
	if r.Interval < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidInterval, r.Interval)
	}
	if !r.Unit.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidUnit, string(r.Unit))
	}
	if r.End != nil && r.End.Before(r.Start) {
		return fmt.Errorf("%w: end %s < start %s", ErrEndBeforeStart, r.End, r.Start)
	}
	return nil
}

func (r Rule) wellFormed() bool {
	return !r.Start.IsZero() && r.Interval >= 1 && r.Unit.Valid()
}

// occurrence returns the k-th occurrence (k >= 0, k = 0 is Start).
// MONTH and YEAR always step from the original start day-of-month and
// clamp per occurrence, so a rule starting on the 31st lands on Feb 29
// or Apr 30 but returns to the 31st in longer months.
func (r Rule) occurrence(k int) dateutil.Date {
	switch r.Unit {
	case types.RepeatUnitWeek:
		return r.Start.AddDays(k * r.Interval * 7)
	case types.RepeatUnitMonth:
		return r.Start.AddMonths(k * r.Interval)
	case types.RepeatUnitYear:
		return r.Start.AddMonths(k * r.Interval * 12)
	}
	return dateutil.Date{}
}

// withinEnd reports whether d respects the optional end date, which is
// exclusive: no occurrence fires on or after End.
func (r Rule) withinEnd(d dateutil.Date) bool {
	return r.End == nil || d.Before(*r.End)
}

// nextIndexOnOrAfter returns the smallest k >= 0 whose occurrence is on
// or after ref, without scanning calendar days.
func (r Rule) nextIndexOnOrAfter(ref dateutil.Date) int {
	if !r.Start.Before(ref) {
		return 0
	}
	switch r.Unit {
	case types.RepeatUnitWeek:
		step := r.Interval * 7
		days := ref.DaysSince(r.Start)
		return (days + step - 1) / step
	default:
		stepMonths := r.Interval
		if r.Unit == types.RepeatUnitYear {
			stepMonths *= 12
		}
		months := (ref.Year-r.Start.Year)*12 + int(ref.Month) - int(r.Start.Month)
		k := months/stepMonths - 1
		if k < 0 {
			k = 0
		}
		// clamping can land the estimate just before ref; at most a
		// couple of forward steps are needed
		for r.occurrence(k).Before(ref) {
			k++
		}
		return k
	}
}
