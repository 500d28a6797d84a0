package report

import (
	"github.com/shopspring/decimal"

	"github.com/subtrack/subtrack/internal/app/service/recurrence"
	"github.com/subtrack/subtrack/internal/models"
	"github.com/subtrack/subtrack/pkg/types"
)

// SubscriptionView is the flat, validated shape the aggregation
// functions consume. Handlers and the report service build views once
// from storage records; the pure functions below never see partially
// shaped data.
type SubscriptionView struct {
	ID           string
	PlatformID   string
	PlatformName string
	Status       types.SubscriptionStatus
	Rule         recurrence.Rule
	Amount       *decimal.Decimal
	Currency     string
}

// NewSubscriptionView flattens a stored subscription and its platform.
func NewSubscriptionView(sub *models.Subscription, platform *models.Platform) SubscriptionView {
	v := SubscriptionView{
		ID:         sub.ID,
		PlatformID: sub.PlatformID,
		Status:     sub.Status,
		Rule:       sub.Rule(),
		Amount:     sub.Amount,
		Currency:   sub.Currency,
	}
	if platform != nil {
		v.PlatformName = platform.Name
	}
	return v
}
