package report

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/subtrack/subtrack/internal/models"
	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/types"
)

func toDateKey(d datatypes.Date) string {
	return dateutil.FromTime(time.Time(d)).String()
}

// Service assembles the calendar and dashboard payloads from a user's
// stored subscriptions. All date math is delegated to the pure
// functions in this package; the service only loads data and shapes
// responses.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// loadViews fetches a user's subscriptions with their platform names.
// Views are rebuilt on every call; occurrence projections are never
// cached, so a rule edit is reflected immediately.
func (s *Service) loadViews(ctx context.Context, userID string) ([]SubscriptionView, []*models.Subscription, map[string]*models.Platform, error) {
	var subs []*models.Subscription
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&subs).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return []SubscriptionView{}, subs, map[string]*models.Platform{}, nil
	}

	platformIDs := lo.Uniq(lo.Map(subs, func(sub *models.Subscription, _ int) string { return sub.PlatformID }))
	var platforms []*models.Platform
	if err := s.db.WithContext(ctx).Where("id IN ?", platformIDs).Find(&platforms).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load platforms: %w", err)
	}
	byID := lo.KeyBy(platforms, func(p *models.Platform) string { return p.ID })

	views := lo.Map(subs, func(sub *models.Subscription, _ int) SubscriptionView {
		return NewSubscriptionView(sub, byID[sub.PlatformID])
	})
	return views, subs, byID, nil
}

// CalendarEvents returns the renewal events for [from, to], inclusive.
func (s *Service) CalendarEvents(ctx context.Context, userID string, from, to dateutil.Date) ([]CalendarEvent, error) {
	views, _, _, err := s.loadViews(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildCalendarEvents(views, from, to), nil
}

// ChartsResponse is the dashboard charts payload.
type ChartsResponse struct {
	MonthlySpendSeries []CurrencySeries        `json:"monthlySpendSeries"`
	SpendByPlatform    []CurrencyPlatformSpend `json:"spendByPlatform"`
	RenewalsThisMonth  []WeeklyBucket          `json:"renewalsThisMonth"`
}

// Charts builds the three dashboard chart datasets for the month and
// trailing window around today.
func (s *Service) Charts(ctx context.Context, userID string, months int, today dateutil.Date) (*ChartsResponse, error) {
	views, _, _, err := s.loadViews(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ChartsResponse{
		MonthlySpendSeries: MonthlySpendSeries(views, today, months),
		SpendByPlatform:    SpendByPlatformThisMonth(views, today),
		RenewalsThisMonth:  WeeklyRenewalCounts(views, today.Year, today.Month),
	}, nil
}

// CurrencyAmount is a per-currency total.
type CurrencyAmount struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// UpcomingRenewal is the next renewal across all active subscriptions.
type UpcomingRenewal struct {
	Date           string `json:"date"`
	SubscriptionID string `json:"subscriptionId"`
	PlatformName   string `json:"platformName"`
}

type OverviewStats struct {
	Total         int              `json:"total"`
	Active        int              `json:"active"`
	Paused        int              `json:"paused"`
	Canceled      int              `json:"canceled"`
	MonthlyTotals []CurrencyAmount `json:"monthlyTotals"`
	NextRenewal   *UpcomingRenewal `json:"nextRenewal"`
}

// RecentSubscription is the dashboard list row for a subscription.
type RecentSubscription struct {
	ID             string                   `json:"id"`
	Platform       *PlatformRef             `json:"platform"`
	Status         types.SubscriptionStatus `json:"status"`
	StartDate      string                   `json:"startDate"`
	RepeatUnit     types.RepeatUnit         `json:"repeatUnit"`
	RepeatInterval int                      `json:"repeatInterval"`
	Amount         *decimal.Decimal         `json:"amount"`
	Currency       string                   `json:"currency"`
	NextRenewal    *string                  `json:"nextRenewal"`
}

type OverviewResponse struct {
	Stats               OverviewStats        `json:"stats"`
	RecentSubscriptions []RecentSubscription `json:"recentSubscriptions"`
}

const recentLimit = 5

// Overview builds the dashboard landing payload: status counts, this
// month's normalized totals, the next upcoming renewal, and the most
// recently created subscriptions.
func (s *Service) Overview(ctx context.Context, userID string, today dateutil.Date) (*OverviewResponse, error) {
	views, subs, platforms, err := s.loadViews(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := OverviewStats{Total: len(subs), MonthlyTotals: []CurrencyAmount{}}
	for _, sub := range subs {
		switch sub.Status {
		case types.SubscriptionStatusActive:
			stats.Active++
		case types.SubscriptionStatusPaused:
			stats.Paused++
		case types.SubscriptionStatusCanceled:
			stats.Canceled++
		}
	}

	for _, series := range MonthlySpendSeries(views, today, 1) {
		stats.MonthlyTotals = append(stats.MonthlyTotals, CurrencyAmount{
			Currency: series.Currency,
			Amount:   series.Points[len(series.Points)-1].Amount,
		})
	}

	for _, v := range views {
		if v.Status != types.SubscriptionStatusActive {
			continue
		}
		next, ok := v.Rule.NextOnOrAfter(today)
		if !ok {
			continue
		}
		if stats.NextRenewal == nil || dateutil.CompareKeys(next.String(), stats.NextRenewal.Date) < 0 {
			stats.NextRenewal = &UpcomingRenewal{
				Date:           next.String(),
				SubscriptionID: v.ID,
				PlatformName:   v.PlatformName,
			}
		}
	}

	recent := []RecentSubscription{}
	for i, sub := range subs {
		if i == recentLimit {
			break
		}
		row := RecentSubscription{
			ID:             sub.ID,
			Status:         sub.Status,
			StartDate:      toDateKey(sub.StartDate),
			RepeatUnit:     sub.RepeatUnit,
			RepeatInterval: sub.RepeatInterval,
			Amount:         sub.Amount,
			Currency:       sub.Currency,
		}
		if p := platforms[sub.PlatformID]; p != nil {
			row.Platform = &PlatformRef{ID: p.ID, Name: p.Name}
		}
		if next, ok := sub.Rule().NextOnOrAfter(today); ok {
			key := next.String()
			row.NextRenewal = &key
		}
		recent = append(recent, row)
	}

	return &OverviewResponse{Stats: stats, RecentSubscriptions: recent}, nil
}
