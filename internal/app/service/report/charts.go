package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/subtrack/subtrack/internal/app/service/recurrence"
	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/types"
)

// weeksPerMonth rescales weekly amounts to a monthly basis:
// (365.25/12) days per month over 7 days per week.
var weeksPerMonth = decimal.NewFromFloat(365.25 / 12 / 7)

// WeeklyBucket counts renewals per ISO week for the renewals chart.
type WeeklyBucket struct {
	Week  int `json:"week"`
	Count int `json:"count"`
}

// WeeklyRenewalCounts buckets the month's renewal occurrences of ACTIVE
// subscriptions by ISO week number. Every ISO week that intersects the
// month is present, zero counts included, so chart axes stay stable.
func WeeklyRenewalCounts(subs []SubscriptionView, year int, month time.Month) []WeeklyBucket {
	first := dateutil.New(year, month, 1)
	last := first.EndOfMonth()

	var weeks []int
	for w := first.StartOfWeek(); !w.After(last); w = w.AddDays(7) {
		_, wk := w.ISOWeek()
		weeks = append(weeks, wk)
	}

	counts := map[int]int{}
	for _, sub := range subs {
		if sub.Status != types.SubscriptionStatusActive {
			continue
		}
		for d := range sub.Rule.Occurrences(first, last) {
			_, wk := d.ISOWeek()
			counts[wk]++
		}
	}

	buckets := make([]WeeklyBucket, 0, len(weeks))
	for _, wk := range weeks {
		buckets = append(buckets, WeeklyBucket{Week: wk, Count: counts[wk]})
	}
	return buckets
}

// SpendPoint is one month's normalized total for a currency.
type SpendPoint struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// CurrencySeries is a per-currency spend series. Currencies are never
// merged; mixing them would be financially meaningless.
type CurrencySeries struct {
	Currency string       `json:"currency"`
	Points   []SpendPoint `json:"points"`
}

// monthlyEquivalent rescales one occurrence's amount to a per-month
// basis so weekly, monthly and yearly cadences compare on one axis.
func monthlyEquivalent(amount decimal.Decimal, unit types.RepeatUnit, interval int) decimal.Decimal {
	iv := decimal.NewFromInt(int64(interval))
	switch unit {
	case types.RepeatUnitWeek:
		return amount.Mul(weeksPerMonth).Div(iv)
	case types.RepeatUnitMonth:
		return amount.Div(iv)
	case types.RepeatUnitYear:
		return amount.Div(iv.Mul(decimal.NewFromInt(12)))
	}
	return decimal.Zero
}

func ruleCoversMonth(r recurrence.Rule, monthStart, monthEnd dateutil.Date) bool {
	if r.Start.After(monthEnd) {
		return false
	}
	// End is exclusive: a rule ending on the month's first day is over.
	if r.End != nil && !r.End.After(monthStart) {
		return false
	}
	return true
}

// MonthlySpendSeries returns, per currency, the normalized
// monthly-equivalent spend of ACTIVE subscriptions for the trailing
// monthsBack months including the month of today, oldest month first.
// Amounts are rounded to two decimal places.
func MonthlySpendSeries(subs []SubscriptionView, today dateutil.Date, monthsBack int) []CurrencySeries {
	if monthsBack < 1 {
		monthsBack = 1
	}
	anchor := today.StartOfMonth()
	months := make([]dateutil.Date, 0, monthsBack)
	for i := monthsBack - 1; i >= 0; i-- {
		months = append(months, anchor.AddMonths(-i))
	}

	active := lo.Filter(subs, func(v SubscriptionView, _ int) bool {
		return v.Status == types.SubscriptionStatusActive && v.Amount != nil && v.Currency != ""
	})
	currencies := lo.Uniq(lo.Map(active, func(v SubscriptionView, _ int) string { return v.Currency }))
	slices.Sort(currencies)

	series := []CurrencySeries{}
	for _, currency := range currencies {
		points := make([]SpendPoint, 0, len(months))
		for _, m := range months {
			monthEnd := m.EndOfMonth()
			total := decimal.Zero
			for _, v := range active {
				if v.Currency != currency || !ruleCoversMonth(v.Rule, m, monthEnd) {
					continue
				}
				total = total.Add(monthlyEquivalent(*v.Amount, v.Rule.Unit, v.Rule.Interval))
			}
			points = append(points, SpendPoint{
				Month:  fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)),
				Amount: total.Round(2),
			})
		}
		series = append(series, CurrencySeries{Currency: currency, Points: points})
	}
	return series
}

// PlatformSpend is one platform's total for the current month.
type PlatformSpend struct {
	PlatformName string          `json:"platformName"`
	Amount       decimal.Decimal `json:"amount"`
}

// CurrencyPlatformSpend groups per-platform spend by currency.
type CurrencyPlatformSpend struct {
	Currency string          `json:"currency"`
	Items    []PlatformSpend `json:"items"`
}

// SpendByPlatformThisMonth sums the amounts of ACTIVE subscriptions
// whose current period overlaps the month of today, per platform,
// grouped by currency. Items are ordered by amount descending, then
// platform name.
func SpendByPlatformThisMonth(subs []SubscriptionView, today dateutil.Date) []CurrencyPlatformSpend {
	monthStart := today.StartOfMonth()
	monthEnd := today.EndOfMonth()

	type groupKey struct{ currency, platform string }
	totals := map[groupKey]decimal.Decimal{}
	for _, v := range subs {
		if v.Status != types.SubscriptionStatusActive || v.Amount == nil || v.Currency == "" {
			continue
		}
		period, ok := v.Rule.CurrentPeriod(today)
		if !ok || period.Start.After(monthEnd) || period.End.Before(monthStart) {
			continue
		}
		key := groupKey{currency: v.Currency, platform: v.PlatformName}
		totals[key] = totals[key].Add(*v.Amount)
	}

	byCurrency := lo.GroupBy(lo.Keys(totals), func(k groupKey) string { return k.currency })
	currencies := lo.Keys(byCurrency)
	slices.Sort(currencies)

	result := []CurrencyPlatformSpend{}
	for _, currency := range currencies {
		items := lo.Map(byCurrency[currency], func(k groupKey, _ int) PlatformSpend {
			return PlatformSpend{PlatformName: k.platform, Amount: totals[k]}
		})
		slices.SortFunc(items, func(a, b PlatformSpend) int {
			if c := b.Amount.Cmp(a.Amount); c != 0 {
				return c
			}
			return strings.Compare(a.PlatformName, b.PlatformName)
		})
		result = append(result, CurrencyPlatformSpend{Currency: currency, Items: items})
	}
	return result
}
