package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/types"
)

func mustDate(t *testing.T, s string) dateutil.Date {
	t.Helper()
	d, err := dateutil.Parse(s)
	require.NoError(t, err)
	return d
}

func datePtr(d dateutil.Date) *dateutil.Date { return &d }

func TestRuleValidate(t *testing.T) {
	start := dateutil.New(2024, 1, 1)

	tests := []struct {
		name    string
		rule    Rule
		wantErr error
	}{
		{name: "valid monthly", rule: Rule{Start: start, Unit: types.RepeatUnitMonth, Interval: 1}},
		{name: "valid with end", rule: Rule{Start: start, End: datePtr(dateutil.New(2025, 1, 1)), Unit: types.RepeatUnitWeek, Interval: 2}},
		{name: "missing start", rule: Rule{Unit: types.RepeatUnitMonth, Interval: 1}, wantErr: ErrMissingStart},
		{name: "zero interval", rule: Rule{Start: start, Unit: types.RepeatUnitMonth, Interval: 0}, wantErr: ErrInvalidInterval},
		{name: "negative interval", rule: Rule{Start: start, Unit: types.RepeatUnitMonth, Interval: -3}, wantErr: ErrInvalidInterval},
		{name: "unknown unit", rule: Rule{Start: start, Unit: "DAILY", Interval: 1}, wantErr: ErrInvalidUnit},
		{name: "end before start", rule: Rule{Start: start, End: datePtr(dateutil.New(2023, 12, 31)), Unit: types.RepeatUnitYear, Interval: 1}, wantErr: ErrEndBeforeStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNextOnOrAfter(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		ref  string
		want string
		none bool
	}{
		{
			name: "weekly exact hit is inclusive",
			rule: Rule{Start: dateutil.New(2024, 1, 1), Unit: types.RepeatUnitWeek, Interval: 2},
			ref:  "2024-01-15", want: "2024-01-15",
		},
		{
			name: "weekly between occurrences",
			rule: Rule{Start: dateutil.New(2024, 1, 1), Unit: types.RepeatUnitWeek, Interval: 2},
			ref:  "2024-01-16", want: "2024-01-29",
		},
		{
			name: "ref before start returns start",
			rule: Rule{Start: dateutil.New(2024, 6, 15), Unit: types.RepeatUnitMonth, Interval: 1},
			ref:  "2024-01-01", want: "2024-06-15",
		},
		{
			name: "monthly clamps into february",
			rule: Rule{Start: dateutil.New(2024, 1, 31), Unit: types.RepeatUnitMonth, Interval: 1},
			ref:  "2024-02-01", want: "2024-02-29",
		},
		{
			name: "monthly returns to 31 after clamp",
			rule: Rule{Start: dateutil.New(2024, 1, 31), Unit: types.RepeatUnitMonth, Interval: 1},
			ref:  "2024-03-01", want: "2024-03-31",
		},
		{
			name: "leap start steps through non-leap clamp",
			rule: Rule{Start: dateutil.New(2020, 2, 29), Unit: types.RepeatUnitYear, Interval: 1},
			ref:  "2023-03-01", want: "2024-02-29",
		},
		{
			name: "leap start clamped in non-leap year",
			rule: Rule{Start: dateutil.New(2020, 2, 29), Unit: types.RepeatUnitYear, Interval: 1},
			ref:  "2023-01-01", want: "2023-02-28",
		},
		{
			name: "end date cuts off",
			rule: Rule{Start: dateutil.New(2024, 1, 1), End: datePtr(dateutil.New(2024, 3, 1)), Unit: types.RepeatUnitMonth, Interval: 1},
			ref:  "2024-02-15", none: true,
		},
		{
			name: "occurrence on end date excluded",
			rule: Rule{Start: dateutil.New(2024, 1, 1), End: datePtr(dateutil.New(2024, 2, 1)), Unit: types.RepeatUnitMonth, Interval: 1},
			ref:  "2024-01-02", none: true,
		},
		{
			name: "day before end date still fires",
			rule: Rule{Start: dateutil.New(2024, 1, 1), End: datePtr(dateutil.New(2024, 2, 2)), Unit: types.RepeatUnitMonth, Interval: 1},
			ref:  "2024-01-02", want: "2024-02-01",
		},
		{
			name: "multi-year interval",
			rule: Rule{Start: dateutil.New(2020, 5, 10), Unit: types.RepeatUnitYear, Interval: 3},
			ref:  "2021-01-01", want: "2023-05-10",
		},
		{
			name: "malformed rule reports none",
			rule: Rule{Start: dateutil.New(2024, 1, 1), Unit: "DAILY", Interval: 1},
			ref:  "2024-01-01", none: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rule.NextOnOrAfter(mustDate(t, tt.ref))
			if tt.none {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNextOnOrAfter_Idempotent(t *testing.T) {
	rule := Rule{Start: dateutil.New(2024, 1, 31), Unit: types.RepeatUnitMonth, Interval: 1}
	ref := dateutil.New(2024, 2, 10)
	first, ok1 := rule.NextOnOrAfter(ref)
	second, ok2 := rule.NextOnOrAfter(ref)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func keys(dates []dateutil.Date) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.String())
	}
	return out
}

func TestOccurrences(t *testing.T) {
	tests := []struct {
		name     string
		rule     Rule
		from, to string
		want     []string
	}{
		{
			name: "biweekly january",
			rule: Rule{Start: dateutil.New(2024, 1, 1), Unit: types.RepeatUnitWeek, Interval: 2},
			from: "2024-01-01", to: "2024-02-01",
			want: []string{"2024-01-01", "2024-01-15", "2024-01-29"},
		},
		{
			name: "monthly on the 31st clamps and recovers",
			rule: Rule{Start: dateutil.New(2024, 1, 31), Unit: types.RepeatUnitMonth, Interval: 1},
			from: "2024-01-31", to: "2024-04-30",
			want: []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"},
		},
		{
			name: "bounds are inclusive",
			rule: Rule{Start: dateutil.New(2024, 1, 10), Unit: types.RepeatUnitWeek, Interval: 1},
			from: "2024-01-10", to: "2024-01-17",
			want: []string{"2024-01-10", "2024-01-17"},
		},
		{
			name: "one day outside either bound excluded",
			rule: Rule{Start: dateutil.New(2024, 1, 10), Unit: types.RepeatUnitWeek, Interval: 1},
			from: "2024-01-11", to: "2024-01-16",
			want: []string{},
		},
		{
			name: "start after range",
			rule: Rule{Start: dateutil.New(2025, 1, 1), Unit: types.RepeatUnitMonth, Interval: 1},
			from: "2024-01-01", to: "2024-12-31",
			want: []string{},
		},
		{
			name: "end before range",
			rule: Rule{Start: dateutil.New(2023, 1, 1), End: datePtr(dateutil.New(2023, 6, 1)), Unit: types.RepeatUnitMonth, Interval: 1},
			from: "2024-01-01", to: "2024-12-31",
			want: []string{},
		},
		{
			name: "inverted range is empty",
			rule: Rule{Start: dateutil.New(2024, 1, 1), Unit: types.RepeatUnitWeek, Interval: 1},
			from: "2024-02-01", to: "2024-01-01",
			want: []string{},
		},
		{
			name: "range starting mid-rule",
			rule: Rule{Start: dateutil.New(2023, 11, 5), Unit: types.RepeatUnitMonth, Interval: 2},
			from: "2024-01-01", to: "2024-07-31",
			want: []string{"2024-01-05", "2024-03-05", "2024-05-05", "2024-07-05"},
		},
		{
			name: "yearly from leap day",
			rule: Rule{Start: dateutil.New(2020, 2, 29), Unit: types.RepeatUnitYear, Interval: 1},
			from: "2021-01-01", to: "2024-12-31",
			want: []string{"2021-02-28", "2022-02-28", "2023-02-28", "2024-02-29"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.OccurrencesSlice(mustDate(t, tt.from), mustDate(t, tt.to))
			assert.Equal(t, tt.want, keys(got))
		})
	}
}

func TestOccurrences_Restartable(t *testing.T) {
	rule := Rule{Start: dateutil.New(2024, 1, 1), Unit: types.RepeatUnitWeek, Interval: 1}
	seq := rule.Occurrences(dateutil.New(2024, 1, 1), dateutil.New(2024, 1, 31))

	var first, second []string
	for d := range seq {
		first = append(first, d.String())
	}
	for d := range seq {
		second = append(second, d.String())
	}
	assert.Equal(t, first, second)
	assert.Len(t, first, 5)
}

func TestOccurrences_EarlyBreak(t *testing.T) {
	rule := Rule{Start: dateutil.New(2024, 1, 1), Unit: types.RepeatUnitWeek, Interval: 1}
	var got []string
	for d := range rule.Occurrences(dateutil.New(2024, 1, 1), dateutil.New(2024, 12, 31)) {
		got = append(got, d.String())
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-08"}, got)
}

// Cross-check the stepping shortcut against brute-force enumeration
// from the start date for a spread of rules and ranges.
func TestOccurrences_MatchBruteForce(t *testing.T) {
	rules := []Rule{
		{Start: dateutil.New(2023, 1, 31), Unit: types.RepeatUnitMonth, Interval: 1},
		{Start: dateutil.New(2023, 1, 31), Unit: types.RepeatUnitMonth, Interval: 3},
		{Start: dateutil.New(2022, 6, 15), Unit: types.RepeatUnitWeek, Interval: 5},
		{Start: dateutil.New(2020, 2, 29), Unit: types.RepeatUnitYear, Interval: 2},
		{Start: dateutil.New(2023, 12, 30), End: datePtr(dateutil.New(2025, 3, 30)), Unit: types.RepeatUnitMonth, Interval: 1},
	}
	from := dateutil.New(2024, 1, 1)
	to := dateutil.New(2026, 12, 31)

	for _, rule := range rules {
		var want []string
		for k := 0; ; k++ {
			d := rule.occurrence(k)
			if d.After(to) || !rule.withinEnd(d) {
				break
			}
			if !d.Before(from) {
				want = append(want, d.String())
			}
		}

		got := keys(rule.OccurrencesSlice(from, to))
		assert.Equal(t, want, got, "rule %+v", rule)

		// monotone non-decreasing and inside bounds
		for i, k := range got {
			if i > 0 {
				assert.LessOrEqual(t, dateutil.CompareKeys(got[i-1], k), 0)
			}
			assert.GreaterOrEqual(t, dateutil.CompareKeys(k, from.String()), 0)
			assert.LessOrEqual(t, dateutil.CompareKeys(k, to.String()), 0)
		}
	}
}

func TestCurrentPeriod(t *testing.T) {
	tests := []struct {
		name               string
		rule               Rule
		ref                string
		wantStart, wantEnd string
		none               bool
	}{
		{
			name: "mid-period monthly",
			rule: Rule{Start: dateutil.New(2024, 1, 15), Unit: types.RepeatUnitMonth, Interval: 1},
			ref:  "2024-02-20", wantStart: "2024-02-15", wantEnd: "2024-03-14",
		},
		{
			name: "renewal day starts a new period",
			rule: Rule{Start: dateutil.New(2024, 1, 15), Unit: types.RepeatUnitMonth, Interval: 1},
			ref:  "2024-02-15", wantStart: "2024-02-15", wantEnd: "2024-03-14",
		},
		{
			name: "day before renewal closes the old period",
			rule: Rule{Start: dateutil.New(2024, 1, 15), Unit: types.RepeatUnitMonth, Interval: 1},
			ref:  "2024-02-14", wantStart: "2024-01-15", wantEnd: "2024-02-14",
		},
		{
			name: "first period on start date",
			rule: Rule{Start: dateutil.New(2024, 3, 1), Unit: types.RepeatUnitWeek, Interval: 2},
			ref:  "2024-03-01", wantStart: "2024-03-01", wantEnd: "2024-03-14",
		},
		{
			name: "before start there is no period",
			rule: Rule{Start: dateutil.New(2024, 3, 1), Unit: types.RepeatUnitWeek, Interval: 2},
			ref:  "2024-02-29", none: true,
		},
		{
			name: "rule exhausted by end date",
			rule: Rule{Start: dateutil.New(2024, 1, 1), End: datePtr(dateutil.New(2024, 2, 1)), Unit: types.RepeatUnitMonth, Interval: 1},
			ref:  "2024-01-20", none: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := tt.rule.CurrentPeriod(mustDate(t, tt.ref))
			if tt.none {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantStart, p.Start.String())
			assert.Equal(t, tt.wantEnd, p.End.String())
		})
	}
}
