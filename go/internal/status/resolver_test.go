package status_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hypehammer/auctioncore/go/internal/models"
	"github.com/hypehammer/auctioncore/go/internal/status"
)

func lotWithStatus(s models.LotStatus) models.Lot {
	return models.Lot{ID: uuid.New(), Status: s}
}

func TestResolve(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	oneBid := []models.BidRecord{{ID: uuid.New(), Amount: decimal.NewFromInt(100)}}

	tests := []struct {
		name      string
		stored    models.DisplayStatus
		scheduled *time.Time
		lots      []models.Lot
		history   []models.BidRecord
		want      models.DisplayStatus
	}{
		{
			name:      "stored completed is sticky",
			stored:    models.DisplayStatusCompleted,
			scheduled: &future,
			want:      models.DisplayStatusCompleted,
		},
		{
			name:      "all lots settled means completed",
			stored:    models.DisplayStatusSetup,
			scheduled: &past,
			lots: []models.Lot{
				lotWithStatus(models.LotStatusSold),
				lotWithStatus(models.LotStatusUnsold),
				lotWithStatus(models.LotStatusSold),
			},
			want: models.DisplayStatusCompleted,
		},
		{
			name:      "all settled wins even before the scheduled time",
			stored:    models.DisplayStatusSetup,
			scheduled: &future,
			lots:      []models.Lot{lotWithStatus(models.LotStatusUnsold)},
			want:      models.DisplayStatusCompleted,
		},
		{
			name:      "zero lots never counts as completed",
			stored:    models.DisplayStatusSetup,
			scheduled: &past,
			lots:      []models.Lot{},
			want:      models.DisplayStatusSetup,
		},
		{
			name:      "past schedule with bid history is ongoing",
			stored:    models.DisplayStatusSetup,
			scheduled: &past,
			lots:      []models.Lot{lotWithStatus(models.LotStatusPending)},
			history:   oneBid,
			want:      models.DisplayStatusOngoing,
		},
		{
			name:      "past schedule with a sold lot is ongoing",
			stored:    models.DisplayStatusSetup,
			scheduled: &past,
			lots: []models.Lot{
				lotWithStatus(models.LotStatusSold),
				lotWithStatus(models.LotStatusPending),
			},
			want: models.DisplayStatusOngoing,
		},
		{
			name:      "past schedule with stored ongoing stays ongoing",
			stored:    models.DisplayStatusOngoing,
			scheduled: &past,
			lots:      []models.Lot{lotWithStatus(models.LotStatusPending)},
			want:      models.DisplayStatusOngoing,
		},
		{
			name:      "past schedule with no activity stays setup",
			stored:    models.DisplayStatusSetup,
			scheduled: &past,
			lots:      []models.Lot{lotWithStatus(models.LotStatusPending)},
			want:      models.DisplayStatusSetup,
		},
		{
			// Stored ONGOING only takes priority once the scheduled
			// time has passed; a future schedule resolves to SETUP.
			name:      "future schedule overrides stored ongoing",
			stored:    models.DisplayStatusOngoing,
			scheduled: &future,
			history:   oneBid,
			want:      models.DisplayStatusSetup,
		},
		{
			name:    "missing schedule stays setup",
			stored:  models.DisplayStatusSetup,
			history: oneBid,
			want:    models.DisplayStatusSetup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := status.Resolve(tt.stored, tt.scheduled, tt.lots, tt.history, now)
			assert.Equal(t, tt.want, got)
		})
	}
}
