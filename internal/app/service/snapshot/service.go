package snapshot

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/subtrack/subtrack/internal/models"
	"github.com/subtrack/subtrack/pkg/config"
	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/tool"
	"github.com/subtrack/subtrack/pkg/types"
)

// Service materializes one renewal snapshot row per non-canceled
// subscription per day. Snapshots feed renewal analytics only; live
// occurrence queries always recompute from the rule.
type Service struct {
	db   *gorm.DB
	log  *zap.SugaredLogger
	cron *cron.Cron
	spec string
}

func New(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config) *Service {
	return &Service{
		db:   db,
		log:  log,
		cron: cron.New(),
		spec: cfg.Snapshot.Cron,
	}
}

// Run takes snapshots for every non-canceled subscription as of the
// given day. Re-running on the same day overwrites that day's rows.
func (s *Service) Run(ctx context.Context, today dateutil.Date) error {
	var subs []models.Subscription
	err := s.db.WithContext(ctx).
		Where("status <> ?", types.SubscriptionStatusCanceled).
		Find(&subs).Error
	if err != nil {
		return err
	}

	dateKey := today.String()
	rows := make([]models.RenewalSnapshot, 0, len(subs))
	for i := range subs {
		rows = append(rows, s.buildRow(&subs[i], today, dateKey))
	}
	if len(rows) == 0 {
		s.log.Infow("renewal snapshot: nothing to do", "date", dateKey)
		return nil
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "subscription_id"}, {Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "next_renewal_date", "period_start", "period_end", "snapshot_created_at",
		}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}
	s.log.Infow("renewal snapshot completed", "date", dateKey, "subscriptions", len(rows))
	return nil
}

func (s *Service) buildRow(sub *models.Subscription, today dateutil.Date, dateKey string) models.RenewalSnapshot {
	row := models.RenewalSnapshot{
		ID:                tool.GenerateUUIDV7(),
		UserID:            sub.UserID,
		SubscriptionID:    sub.ID,
		Status:            sub.Status,
		SnapshotDate:      dateKey,
		SnapshotCreatedAt: time.Now(),
	}
	rule := sub.Rule()
	if next, ok := rule.NextOnOrAfter(today); ok {
		d := datatypes.Date(next.Time())
		row.NextRenewalDate = &d
	}
	if period, ok := rule.CurrentPeriod(today); ok {
		ps := datatypes.Date(period.Start.Time())
		pe := datatypes.Date(period.End.Time())
		row.PeriodStart = &ps
		row.PeriodEnd = &pe
	}
	return row
}

func (s *Service) start() error {
	if s.spec == "" {
		s.log.Infow("renewal snapshot job disabled")
		return nil
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := s.Run(ctx, dateutil.Today()); err != nil {
			s.log.Errorf("renewal snapshot failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infow("renewal snapshot job scheduled", "cron", s.spec)
	return nil
}

func (s *Service) stop() {
	<-s.cron.Stop().Done()
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, s *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return s.start() },
		OnStop: func(ctx context.Context) error {
			s.stop()
			return nil
		},
	})
}
