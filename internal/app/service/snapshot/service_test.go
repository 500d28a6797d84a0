package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/subtrack/subtrack/internal/models"
	"github.com/subtrack/subtrack/pkg/dateutil"
	"github.com/subtrack/subtrack/pkg/types"
)

func date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(dateutil.New(y, m, d).Time())
}

func TestBuildRow(t *testing.T) {
	svc := &Service{}
	today := dateutil.New(2024, 7, 15)

	sub := models.Subscription{
		ID:             "sub-1",
		UserID:         "user-1",
		Status:         types.SubscriptionStatusActive,
		StartDate:      date(2024, 1, 10),
		RepeatUnit:     types.RepeatUnitMonth,
		RepeatInterval: 1,
	}

	row := svc.buildRow(&sub, today, today.String())
	assert.Equal(t, "sub-1", row.SubscriptionID)
	assert.Equal(t, "2024-07-15", row.SnapshotDate)
	require.NotNil(t, row.NextRenewalDate)
	assert.Equal(t, "2024-08-10", dateutil.FromTime(time.Time(*row.NextRenewalDate)).String())
	require.NotNil(t, row.PeriodStart)
	require.NotNil(t, row.PeriodEnd)
	assert.Equal(t, "2024-07-10", dateutil.FromTime(time.Time(*row.PeriodStart)).String())
	assert.Equal(t, "2024-08-09", dateutil.FromTime(time.Time(*row.PeriodEnd)).String())
}

func TestBuildRow_ExhaustedRule(t *testing.T) {
	svc := &Service{}
	today := dateutil.New(2024, 7, 15)

	end := date(2024, 6, 1)
	sub := models.Subscription{
		ID:             "sub-2",
		UserID:         "user-1",
		Status:         types.SubscriptionStatusPaused,
		StartDate:      date(2024, 1, 1),
		EndDate:        &end,
		RepeatUnit:     types.RepeatUnitMonth,
		RepeatInterval: 1,
	}

	row := svc.buildRow(&sub, today, today.String())
	assert.Nil(t, row.NextRenewalDate)
	assert.Nil(t, row.PeriodStart)
	assert.Nil(t, row.PeriodEnd)
}
