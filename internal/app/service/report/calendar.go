package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/types"
)

// PlatformRef is the platform info attached to a calendar event.
type PlatformRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CalendarEvent is one renewal occurrence inside a requested range,
// shaped for the calendar UI (all-day events keyed by date).
type CalendarEvent struct {
	ID             string                   `json:"id"`
	Title          string                   `json:"title"`
	Date           string                   `json:"date"`
	SubscriptionID string                   `json:"subscriptionId"`
	Type           string                   `json:"type"`
	Status         types.SubscriptionStatus `json:"status"`
	Amount         *decimal.Decimal         `json:"amount"`
	Currency       string                   `json:"currency"`
	Platform       *PlatformRef             `json:"platform"`
}

// BuildCalendarEvents emits one RENEWAL event per occurrence of each
// not-canceled subscription within [from, to], both ends inclusive.
// Callers own the grid-range conversion: an exclusive calendar grid end
// must be turned into the inclusive to by subtracting one day.
//
// Events are ordered by date ascending and, within a date, by
// subscription id so output is deterministic. Always returns a non-nil
// slice.
func BuildCalendarEvents(subs []SubscriptionView, from, to dateutil.Date) []CalendarEvent {
	events := []CalendarEvent{}
	for _, sub := range subs {
		if sub.Status == types.SubscriptionStatusCanceled {
			continue
		}
		for d := range sub.Rule.Occurrences(from, to) {
			key := d.String()
			events = append(events, CalendarEvent{
				ID:             fmt.Sprintf("%s:%s", sub.ID, key),
				Title:          sub.PlatformName,
				Date:           key,
				SubscriptionID: sub.ID,
				Type:           types.CalendarEventTypeRenewal,
				Status:         sub.Status,
				Amount:         sub.Amount,
				Currency:       sub.Currency,
				Platform:       &PlatformRef{ID: sub.PlatformID, Name: sub.PlatformName},
			})
		}
	}
	slices.SortStableFunc(events, func(a, b CalendarEvent) int {
		if c := dateutil.CompareKeys(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.SubscriptionID, b.SubscriptionID)
	})
	return events
}
