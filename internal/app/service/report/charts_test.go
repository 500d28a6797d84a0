package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrack/subtrack/internal/app/service/recurrence"
	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/types"
)

func TestWeeklyRenewalCounts(t *testing.T) {
	// July 2024 runs Mon Jul 1 .. Wed Jul 31, ISO weeks 27-31.
	weekly := recurrence.Rule{Start: dateutil.New(2024, 7, 3), Unit: types.RepeatUnitWeek, Interval: 1}
	monthly := recurrence.Rule{Start: dateutil.New(2024, 1, 15), Unit: types.RepeatUnitMonth, Interval: 1}

	subs := []SubscriptionView{
		view("s1", "A", types.SubscriptionStatusActive, weekly, "5", "USD"),
		view("s2", "B", types.SubscriptionStatusActive, monthly, "10", "USD"),
		view("s3", "C", types.SubscriptionStatusPaused, weekly, "7", "USD"), // paused: no dashboard contribution
	}

	buckets := WeeklyRenewalCounts(subs, 2024, time.July)
	assert.Equal(t, []WeeklyBucket{
		{Week: 27, Count: 1}, // Jul 3
		{Week: 28, Count: 1}, // Jul 10
		{Week: 29, Count: 2}, // Jul 15, Jul 17
		{Week: 30, Count: 1}, // Jul 24
		{Week: 31, Count: 1}, // Jul 31
	}, buckets)
}

func TestWeeklyRenewalCounts_ZeroWeeksKept(t *testing.T) {
	monthly := recurrence.Rule{Start: dateutil.New(2024, 1, 15), Unit: types.RepeatUnitMonth, Interval: 1}
	subs := []SubscriptionView{view("s", "A", types.SubscriptionStatusActive, monthly, "10", "USD")}

	buckets := WeeklyRenewalCounts(subs, 2024, time.July)
	require.Len(t, buckets, 5)
	var total int
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, WeeklyBucket{Week: 29, Count: 1}, buckets[2])
}

func TestWeeklyRenewalCounts_EmptyMonth(t *testing.T) {
	buckets := WeeklyRenewalCounts(nil, 2024, time.February)
	// Feb 2024 runs Thu Feb 1 .. Thu Feb 29, ISO weeks 5-9.
	assert.Equal(t, []WeeklyBucket{{Week: 5}, {Week: 6}, {Week: 7}, {Week: 8}, {Week: 9}}, buckets)
}

func TestMonthlySpendSeries_NormalizesCadences(t *testing.T) {
	today := dateutil.New(2024, 7, 15)
	monthly := recurrence.Rule{Start: dateutil.New(2024, 1, 1), Unit: types.RepeatUnitMonth, Interval: 1}
	yearly := recurrence.Rule{Start: dateutil.New(2024, 1, 1), Unit: types.RepeatUnitYear, Interval: 1}

	// $10/month and $120/year both normalize to $10 per month.
	subs := []SubscriptionView{
		view("s1", "A", types.SubscriptionStatusActive, monthly, "10", "USD"),
		view("s2", "B", types.SubscriptionStatusActive, yearly, "120", "USD"),
	}

	series := MonthlySpendSeries(subs, today, 3)
	require.Len(t, series, 1)
	assert.Equal(t, "USD", series[0].Currency)
	require.Len(t, series[0].Points, 3)

	wantMonths := []string{"2024-05", "2024-06", "2024-07"}
	for i, p := range series[0].Points {
		assert.Equal(t, wantMonths[i], p.Month)
		assert.Equal(t, "20", p.Amount.String())
	}
}

func TestMonthlySpendSeries_WeeklyEquivalent(t *testing.T) {
	today := dateutil.New(2024, 7, 15)
	weekly := recurrence.Rule{Start: dateutil.New(2024, 1, 1), Unit: types.RepeatUnitWeek, Interval: 1}
	subs := []SubscriptionView{view("s", "A", types.SubscriptionStatusActive, weekly, "5", "USD")}

	series := MonthlySpendSeries(subs, today, 1)
	require.Len(t, series, 1)
	require.Len(t, series[0].Points, 1)
	// 5 * (365.25/12)/7 = 21.7410..., rounded to cents
	assert.Equal(t, "21.74", series[0].Points[0].Amount.String())
}

func TestMonthlySpendSeries_RespectsRuleWindowAndStatus(t *testing.T) {
	today := dateutil.New(2024, 7, 15)
	started := recurrence.Rule{Start: dateutil.New(2024, 7, 1), Unit: types.RepeatUnitMonth, Interval: 1}
	endedEnd := dateutil.New(2024, 6, 1)
	ended := recurrence.Rule{Start: dateutil.New(2024, 1, 1), End: &endedEnd, Unit: types.RepeatUnitMonth, Interval: 1}

	subs := []SubscriptionView{
		view("s1", "New", types.SubscriptionStatusActive, started, "9", "USD"),
		view("s2", "Old", types.SubscriptionStatusActive, ended, "7", "USD"),
		view("s3", "Off", types.SubscriptionStatusCanceled, started, "3", "USD"),
	}

	series := MonthlySpendSeries(subs, today, 3)
	require.Len(t, series, 1)
	points := series[0].Points
	require.Len(t, points, 3)
	// May: only the ended rule is live. June: its end date (exclusive)
	// already stopped it. July: only the new subscription.
	assert.Equal(t, "7", points[0].Amount.String())
	assert.Equal(t, "0", points[1].Amount.String())
	assert.Equal(t, "9", points[2].Amount.String())
}

func TestMonthlySpendSeries_CurrenciesNeverMerged(t *testing.T) {
	today := dateutil.New(2024, 7, 15)
	monthly := recurrence.Rule{Start: dateutil.New(2024, 1, 1), Unit: types.RepeatUnitMonth, Interval: 1}
	subs := []SubscriptionView{
		view("s1", "A", types.SubscriptionStatusActive, monthly, "10", "USD"),
		view("s2", "B", types.SubscriptionStatusActive, monthly, "100", "TRY"),
	}

	series := MonthlySpendSeries(subs, today, 1)
	require.Len(t, series, 2)
	assert.Equal(t, "TRY", series[0].Currency)
	assert.Equal(t, "100", series[0].Points[0].Amount.String())
	assert.Equal(t, "USD", series[1].Currency)
	assert.Equal(t, "10", series[1].Points[0].Amount.String())
}

func TestMonthlySpendSeries_Empty(t *testing.T) {
	series := MonthlySpendSeries(nil, dateutil.New(2024, 7, 15), 6)
	assert.NotNil(t, series)
	assert.Empty(t, series)
}

func TestSpendByPlatformThisMonth(t *testing.T) {
	today := dateutil.New(2024, 7, 15)
	monthly10 := recurrence.Rule{Start: dateutil.New(2024, 1, 10), Unit: types.RepeatUnitMonth, Interval: 1}
	yearlyPast := recurrence.Rule{Start: dateutil.New(2023, 9, 1), Unit: types.RepeatUnitYear, Interval: 1}

	subs := []SubscriptionView{
		view("s1", "Netflix", types.SubscriptionStatusActive, monthly10, "10", "USD"),
		view("s2", "Spotify", types.SubscriptionStatusActive, monthly10, "6", "USD"),
		// current period Sep 2023 .. Aug 2024 overlaps July
		view("s3", "Domain", types.SubscriptionStatusActive, yearlyPast, "12", "USD"),
		view("s4", "Paused", types.SubscriptionStatusPaused, monthly10, "99", "USD"),
		view("s5", "Lira", types.SubscriptionStatusActive, monthly10, "50", "TRY"),
	}

	groups := SpendByPlatformThisMonth(subs, today)
	require.Len(t, groups, 2)

	assert.Equal(t, "TRY", groups[0].Currency)
	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, "Lira", groups[0].Items[0].PlatformName)

	assert.Equal(t, "USD", groups[1].Currency)
	require.Len(t, groups[1].Items, 3)
	// ordered by amount descending
	assert.Equal(t, "Domain", groups[1].Items[0].PlatformName)
	assert.Equal(t, "12", groups[1].Items[0].Amount.String())
	assert.Equal(t, "Netflix", groups[1].Items[1].PlatformName)
	assert.Equal(t, "Spotify", groups[1].Items[2].PlatformName)
}

func TestSpendByPlatformThisMonth_FutureStartExcluded(t *testing.T) {
	today := dateutil.New(2024, 7, 15)
	future := recurrence.Rule{Start: dateutil.New(2024, 9, 1), Unit: types.RepeatUnitMonth, Interval: 1}
	subs := []SubscriptionView{view("s", "Later", types.SubscriptionStatusActive, future, "10", "USD")}

	groups := SpendByPlatformThisMonth(subs, today)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
