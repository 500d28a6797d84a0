package subscription

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/subtrack/subtrack/internal/app/service/recurrence"
	"github.com/subtrack/subtrack/internal/models"
	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/types"
)

// UpsertRequest is the write payload for subscriptions. Dates travel as
// YYYY-MM-DD strings and amounts as decimal strings, matching the read
// side.
type UpsertRequest struct {
	PlatformID     string         `json:"platformId" binding:"required"`
	Status         string         `json:"status"`
	StartDate      string         `json:"startDate" binding:"required"`
	EndDate        string         `json:"endDate"`
	RepeatUnit     string         `json:"repeatUnit" binding:"required"`
	RepeatInterval int            `json:"repeatInterval" binding:"required"`
	Amount         string         `json:"amount"`
	Currency       string         `json:"currency"`
	Fields         map[string]any `json:"fields"`
}

type parsedRequest struct {
	status    types.SubscriptionStatus
	startDate datatypes.Date
	endDate   *datatypes.Date
	unit      types.RepeatUnit
	interval  int
	amount    *decimal.Decimal
	currency  string
}

func (r UpsertRequest) validate(platform *models.Platform) (*parsedRequest, error) {
	out := &parsedRequest{
		status:   types.SubscriptionStatusActive,
		unit:     types.RepeatUnit(r.RepeatUnit),
		interval: r.RepeatInterval,
		currency: r.Currency,
	}
	if r.Status != "" {
		out.status = types.SubscriptionStatus(r.Status)
		if !out.status.Valid() {
			return nil, fmt.Errorf("unknown status %q", r.Status)
		}
	}

	start, err := dateutil.Parse(r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}
	out.startDate = datatypes.Date(start.Time())

	rule := recurrence.Rule{Start: start, Unit: out.unit, Interval: out.interval}
	if r.EndDate != "" {
		end, err := dateutil.Parse(r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		rule.End = &end
		d := datatypes.Date(end.Time())
		out.endDate = &d
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if r.Amount != "" {
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("amount must not be negative")
		}
		if r.Currency == "" {
			return nil, fmt.Errorf("currency is required when amount is set")
		}
		out.amount = &amount
	}

	if err := validateFieldValues(platform, r.Fields); err != nil {
		return nil, err
	}
	return out, nil
}

// validateFieldValues checks the submitted custom field values against
// the platform's schema. Unknown keys are rejected so typos do not get
// silently stored.
func validateFieldValues(platform *models.Platform, values map[string]any) error {
	schema := platform.Fields.Data()
	for key := range values {
		if platform.FieldByKey(key) == nil {
			return fmt.Errorf("unknown field %q for platform %s", key, platform.Name)
		}
	}
	for _, f := range schema {
		v, present := values[f.Key]
		if !present || v == nil || v == "" {
			if f.Required {
				return fmt.Errorf("field %q is required", f.Key)
			}
			continue
		}
		if err := checkFieldValue(f, v); err != nil {
			return err
		}
	}
	return nil
}

func checkFieldValue(f types.PlatformField, v any) error {
	switch f.Type {
	case types.PlatformFieldTypeText:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("field %q must be a string", f.Key)
		}
	case types.PlatformFieldTypeNumber:
		// JSON numbers decode as float64
		switch v.(type) {
		case float64, int:
		default:
			return fmt.Errorf("field %q must be a number", f.Key)
		}
	case types.PlatformFieldTypeDate:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %q must be a date string", f.Key)
		}
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return fmt.Errorf("field %q must be a YYYY-MM-DD date", f.Key)
		}
	case types.PlatformFieldTypeSelect:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %q must be one of its options", f.Key)
		}
		for _, opt := range f.Options {
			if opt == s {
				return nil
			}
		}
		return fmt.Errorf("field %q: %q is not an option", f.Key, s)
	}
	return nil
}
