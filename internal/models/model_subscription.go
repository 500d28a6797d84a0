package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/subtrack/subtrack/internal/app/service/recurrence"
	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/types"
)

// Subscription is a user-tracked recurring payment against a platform.
// Renewal dates are never stored; they are always recomputed from the
// repeat rule so the rule stays the single source of truth.
type Subscription struct {
	ID         string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID     string                   `gorm:"column:user_id;type:uuid;not null;index:idx_subscription_user" json:"user_id"`
	PlatformID string                   `gorm:"column:platform_id;type:uuid;not null;index" json:"platform_id"`
	Status     types.SubscriptionStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`

	// Repeat rule: StartDate is the first renewal, EndDate (exclusive)
	// stops the rule, occurrences are spaced RepeatInterval RepeatUnits.
	StartDate      datatypes.Date   `gorm:"column:start_date;type:date;not null" json:"start_date"`
	EndDate        *datatypes.Date  `gorm:"column:end_date;type:date;default:null" json:"end_date"`
	RepeatUnit     types.RepeatUnit `gorm:"column:repeat_unit;type:varchar(8);not null" json:"repeat_unit"`
	RepeatInterval int              `gorm:"column:repeat_interval;not null" json:"repeat_interval"`

	Amount   *decimal.Decimal `gorm:"column:amount;type:numeric(12,2);default:null" json:"amount"`
	Currency string           `gorm:"column:currency;type:varchar(8)" json:"currency"`

	// Fields holds the values for the platform's custom field schema,
	// keyed by field key.
	Fields datatypes.JSONMap `gorm:"column:fields;type:jsonb;default:'{}'" json:"fields"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

func toDate(d datatypes.Date) dateutil.Date {
	return dateutil.FromTime(time.Time(d))
}

// Rule converts the stored repeat fields into an engine rule.
func (s *Subscription) Rule() recurrence.Rule {
	r := recurrence.Rule{
		Start:    toDate(s.StartDate),
		Unit:     s.RepeatUnit,
		Interval: s.RepeatInterval,
	}
	if s.EndDate != nil {
		end := toDate(*s.EndDate)
		r.End = &end
	}
	return r
}

func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == types.SubscriptionStatusActive
}
