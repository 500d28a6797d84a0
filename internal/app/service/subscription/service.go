package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/subtrack/subtrack/internal/models"
	"github.com/subtrack/subtrack/pkg/logctx"
	"github.com/subtrack/subtrack/pkg/tool"
	"github.com/subtrack/subtrack/pkg/types"
)

var ErrNotFound = errors.New("subscription not found")

const (
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// List returns the caller's subscriptions, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]models.Subscription, error) {
	subs := make([]models.Subscription, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

// ListAll is the admin listing; filters map straight onto SQL clauses.
func (s *Service) ListAll(ctx context.Context, filters []types.CommonFilter) ([]models.Subscription, error) {
	subs := make([]models.Subscription, 0)
	q := s.db.WithContext(ctx).Model(&models.Subscription{})
	for i := range filters {
		q = q.Clauses(clause.Where{Exprs: []clause.Expression{&filters[i]}})
	}
	if err := q.Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).First(&sub, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *Service) Create(ctx context.Context, userID string, req UpsertRequest) (*models.Subscription, error) {
	platform, err := s.loadPlatform(ctx, req.PlatformID)
	if err != nil {
		return nil, err
	}
	parsed, err := req.validate(platform)
	if err != nil {
		return nil, err
	}

	sub := models.Subscription{
		ID:             tool.GenerateUUIDV7(),
		UserID:         userID,
		PlatformID:     platform.ID,
		Status:         parsed.status,
		StartDate:      parsed.startDate,
		EndDate:        parsed.endDate,
		RepeatUnit:     parsed.unit,
		RepeatInterval: parsed.interval,
		Amount:         parsed.amount,
		Currency:       parsed.currency,
		Fields:         datatypes.JSONMap(req.Fields),
	}
	if sub.Fields == nil {
		sub.Fields = datatypes.JSONMap{}
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("subscription created",
		"subscription_id", sub.ID, "user_id", userID, "platform_id", platform.ID)
	s.writeLog(ctx, actionCreate, nil, &sub)
	return &sub, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, req UpsertRequest) (*models.Subscription, error) {
	sub, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	platform, err := s.loadPlatform(ctx, req.PlatformID)
	if err != nil {
		return nil, err
	}
	parsed, err := req.validate(platform)
	if err != nil {
		return nil, err
	}

	before := *sub
	sub.PlatformID = platform.ID
	sub.Status = parsed.status
	sub.StartDate = parsed.startDate
	sub.EndDate = parsed.endDate
	sub.RepeatUnit = parsed.unit
	sub.RepeatInterval = parsed.interval
	sub.Amount = parsed.amount
	sub.Currency = parsed.currency
	sub.Fields = datatypes.JSONMap(req.Fields)
	if sub.Fields == nil {
		sub.Fields = datatypes.JSONMap{}
	}

	if err := s.db.WithContext(ctx).Save(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	s.writeLog(ctx, actionUpdate, &before, sub)
	return sub, nil
}

// SetStatus flips a subscription between ACTIVE, PAUSED and CANCELED
// without touching its rule.
func (s *Service) SetStatus(ctx context.Context, userID, id string, status types.SubscriptionStatus) (*models.Subscription, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	sub, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == status {
		return sub, nil
	}
	before := *sub
	sub.Status = status
	if err := s.db.WithContext(ctx).Save(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to update subscription status: %w", err)
	}
	s.writeLog(ctx, actionUpdate, &before, sub)
	return sub, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	sub, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Subscription{}, "id = ?", sub.ID).Error; err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	s.writeLog(ctx, actionDelete, sub, nil)
	return nil
}

func (s *Service) loadPlatform(ctx context.Context, platformID string) (*models.Platform, error) {
	var p models.Platform
	if err := s.db.WithContext(ctx).First(&p, "id = ?", platformID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("platform not found: %s", platformID)
		}
		return nil, err
	}
	return &p, nil
}

// writeLog records a before/after snapshot asynchronously; log failures
// never fail the request.
func (s *Service) writeLog(ctx context.Context, action string, before, after *models.Subscription) {
	userID := ""
	subID := ""
	if after != nil {
		userID, subID = after.UserID, after.ID
	} else if before != nil {
		userID, subID = before.UserID, before.ID
	}
	go func() {
		entry := &models.SubscriptionLog{
			ID:             tool.GenerateUUIDV7(),
			UserID:         userID,
			SubscriptionID: subID,
			Action:         action,
			Before:         datatypes.NewJSONType(before),
			After:          datatypes.NewJSONType(after),
			CreatedAt:      time.Now(),
		}
		if err := s.db.Save(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save subscription log: %v", err)
		}
	}()
}
