package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/subtrack/subtrack/internal/models"
	"github.com/subtrack/subtrack/pkg/types"
)

func testPlatform() *models.Platform {
	return &models.Platform{
		ID:   "pf-1",
		Name: "Netflix",
		Fields: datatypes.NewJSONType([]types.PlatformField{
			{Key: "plan", Label: "Plan", Type: types.PlatformFieldTypeSelect, Required: true, Options: []string{"basic", "premium"}},
			{Key: "seats", Label: "Seats", Type: types.PlatformFieldTypeNumber},
			{Key: "renew_note", Label: "Note", Type: types.PlatformFieldTypeText},
		}),
	}
}

func baseRequest() UpsertRequest {
	return UpsertRequest{
		PlatformID:     "pf-1",
		StartDate:      "2024-01-10",
		RepeatUnit:     "MONTH",
		RepeatInterval: 1,
		Amount:         "9.99",
		Currency:       "USD",
		Fields:         map[string]any{"plan": "basic"},
	}
}

func TestUpsertRequestValidate(t *testing.T) {
	pf := testPlatform()

	t.Run("ok", func(t *testing.T) {
		req := baseRequest()
		parsed, err := req.validate(pf)
		require.NoError(t, err)
		assert.Equal(t, types.SubscriptionStatusActive, parsed.status)
		assert.Equal(t, types.RepeatUnitMonth, parsed.unit)
		require.NotNil(t, parsed.amount)
		assert.Equal(t, "9.99", parsed.amount.String())
		assert.Nil(t, parsed.endDate)
	})

	t.Run("explicit status and end date", func(t *testing.T) {
		req := baseRequest()
		req.Status = "PAUSED"
		req.EndDate = "2025-01-10"
		parsed, err := req.validate(pf)
		require.NoError(t, err)
		assert.Equal(t, types.SubscriptionStatusPaused, parsed.status)
		require.NotNil(t, parsed.endDate)
	})

	t.Run("bad date", func(t *testing.T) {
		req := baseRequest()
		req.StartDate = "10/01/2024"
		_, err := req.validate(pf)
		assert.ErrorContains(t, err, "invalid startDate")
	})

	t.Run("end before start", func(t *testing.T) {
		req := baseRequest()
		req.EndDate = "2023-12-01"
		_, err := req.validate(pf)
		assert.Error(t, err)
	})

	t.Run("zero interval", func(t *testing.T) {
		req := baseRequest()
		req.RepeatInterval = 0
		_, err := req.validate(pf)
		assert.Error(t, err)
	})

	t.Run("unknown unit", func(t *testing.T) {
		req := baseRequest()
		req.RepeatUnit = "DAY"
		_, err := req.validate(pf)
		assert.Error(t, err)
	})

	t.Run("negative amount", func(t *testing.T) {
		req := baseRequest()
		req.Amount = "-3"
		_, err := req.validate(pf)
		assert.ErrorContains(t, err, "negative")
	})

	t.Run("amount without currency", func(t *testing.T) {
		req := baseRequest()
		req.Currency = ""
		_, err := req.validate(pf)
		assert.ErrorContains(t, err, "currency")
	})

	t.Run("no amount is fine", func(t *testing.T) {
		req := baseRequest()
		req.Amount = ""
		req.Currency = ""
		parsed, err := req.validate(pf)
		require.NoError(t, err)
		assert.Nil(t, parsed.amount)
	})
}

func TestValidateFieldValues(t *testing.T) {
	pf := testPlatform()

	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{name: "ok", values: map[string]any{"plan": "premium", "seats": float64(4)}},
		{name: "missing required", values: map[string]any{"seats": float64(4)}, wantErr: `"plan" is required`},
		{name: "unknown key", values: map[string]any{"plan": "basic", "color": "red"}, wantErr: "unknown field"},
		{name: "bad option", values: map[string]any{"plan": "family"}, wantErr: "not an option"},
		{name: "number as string", values: map[string]any{"plan": "basic", "seats": "four"}, wantErr: "must be a number"},
		{name: "optional text omitted", values: map[string]any{"plan": "basic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFieldValues(pf, tt.values)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
