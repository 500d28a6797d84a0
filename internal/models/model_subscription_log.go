package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionLog records before/after snapshots of subscription
// changes, written asynchronously on create, update and delete.
type SubscriptionLog struct {
	ID             string                            `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID         string                            `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	SubscriptionID string                            `gorm:"column:subscription_id;type:uuid;not null;index" json:"subscription_id"`
	Action         string                            `gorm:"column:action;type:varchar(16);not null" json:"action"`
	Before         datatypes.JSONType[*Subscription] `gorm:"column:before;type:jsonb;default:'{}'" json:"before"`
	After          datatypes.JSONType[*Subscription] `gorm:"column:after;type:jsonb;default:'{}'" json:"after"`
	CreatedAt      time.Time                         `json:"created_at"`
}

func (SubscriptionLog) TableName() string {
	return "subscription_log"
}
