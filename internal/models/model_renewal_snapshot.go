package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/subtrack/subtrack/pkg/types"
)

// RenewalSnapshot is a daily per-subscription snapshot of the computed
// next renewal and current period, kept for renewal analytics. Renewal
// dates remain derived data; snapshots are an analytics copy, never a
// source for occurrence queries.
type RenewalSnapshot struct {
	ID             string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID         string                   `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	SubscriptionID string                   `gorm:"column:subscription_id;type:uuid;not null;uniqueIndex:idx_subscription_snapshot_date,priority:1" json:"subscription_id"`
	Status         types.SubscriptionStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`

	// NextRenewalDate is nil when the rule is exhausted by its end date.
	NextRenewalDate *datatypes.Date `gorm:"column:next_renewal_date;type:date;default:null" json:"next_renewal_date"`
	PeriodStart     *datatypes.Date `gorm:"column:period_start;type:date;default:null" json:"period_start"`
	PeriodEnd       *datatypes.Date `gorm:"column:period_end;type:date;default:null" json:"period_end"`

	SnapshotDate      string    `gorm:"column:snapshot_date;uniqueIndex:idx_subscription_snapshot_date,priority:2" json:"snapshot_date"`
	SnapshotCreatedAt time.Time `gorm:"column:snapshot_created_at" json:"snapshot_created_at"`
}

func (RenewalSnapshot) TableName() string {
	return "renewal_snapshot"
}
