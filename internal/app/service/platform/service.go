package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/subtrack/subtrack/internal/models"
	"github.com/subtrack/subtrack/pkg/logctx"
	"github.com/subtrack/subtrack/pkg/tool"
	"github.com/subtrack/subtrack/pkg/types"
)

var (
	ErrNotFound  = errors.New("platform not found")
	ErrNameTaken = errors.New("platform name already exists")
	ErrInUse     = errors.New("platform has subscriptions")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type UpsertRequest struct {
	Name    string                `json:"name" binding:"required"`
	LogoURL string                `json:"logoUrl"`
	Fields  []types.PlatformField `json:"fields"`
}

// ValidateFields checks a platform field schema: unique non-empty keys,
// known types, options only on select fields.
func ValidateFields(fields []types.PlatformField) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		key := strings.TrimSpace(f.Key)
		if key == "" {
			return fmt.Errorf("field key is required")
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate field key: %s", key)
		}
		seen[key] = struct{}{}
		if !f.Type.Valid() {
			return fmt.Errorf("field %s: unknown type %q", key, f.Type)
		}
		if f.Type == types.PlatformFieldTypeSelect && len(f.Options) == 0 {
			return fmt.Errorf("field %s: select fields need options", key)
		}
		if f.Type != types.PlatformFieldTypeSelect && len(f.Options) > 0 {
			return fmt.Errorf("field %s: options are only valid on select fields", key)
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]models.Platform, error) {
	platforms := make([]models.Platform, 0)
	if err := s.db.WithContext(ctx).Order("name asc").Find(&platforms).Error; err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	return platforms, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Platform, error) {
	var p models.Platform
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (*models.Platform, error) {
	if err := ValidateFields(req.Fields); err != nil {
		return nil, err
	}
	p := models.Platform{
		ID:      tool.GenerateUUIDV7(),
		Name:    strings.TrimSpace(req.Name),
		LogoURL: req.LogoURL,
		Fields:  datatypes.NewJSONType(req.Fields),
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to create platform: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("platform created", "platform_id", p.ID, "name", p.Name)
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (*models.Platform, error) {
	if err := ValidateFields(req.Fields); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(req.Name)
	p.LogoURL = req.LogoURL
	p.Fields = datatypes.NewJSONType(req.Fields)
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to update platform: %w", err)
	}
	return p, nil
}

// Delete removes a platform that no subscription references.
func (s *Service) Delete(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).Where("platform_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	res := s.db.WithContext(ctx).Delete(&models.Platform{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete platform: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
