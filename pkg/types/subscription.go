package types

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPaused   SubscriptionStatus = "PAUSED"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusPaused, SubscriptionStatusCanceled:
		return true
	}
	return false
}

// RepeatUnit is the recurrence step unit of a subscription's repeat rule.
type RepeatUnit string

const (
	RepeatUnitWeek  RepeatUnit = "WEEK"
	RepeatUnitMonth RepeatUnit = "MONTH"
	RepeatUnitYear  RepeatUnit = "YEAR"
)

func (u RepeatUnit) Valid() bool {
	switch u {
	case RepeatUnitWeek, RepeatUnitMonth, RepeatUnitYear:
		return true
	}
	return false
}

// CalendarEventTypeRenewal tags calendar items produced from repeat rules.
const CalendarEventTypeRenewal = "RENEWAL"
