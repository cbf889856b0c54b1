package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/praditya/boardgame-venue/models"
)

func TestComputeCostTiers(t *testing.T) {
	start := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	rate := Rate{FirstHour: 30, ExtraHour: 30}

	tests := []struct {
		name      string
		elapsed   time.Duration
		partySize int
		wantHours float64
		wantCost  float64
	}{
		{"under 30 minutes is free", 25 * time.Minute, 2, 0.5, 0},
		{"first hour tier", 45 * time.Minute, 2, 0.8, 60},
		{"exactly 30 minutes starts billing", 30 * time.Minute, 1, 0.5, 30},
		{"100 minutes adds one extra hour", 100 * time.Minute, 1, 1.7, 60},
		{"exactly 90 minutes adds one extra hour", 90 * time.Minute, 1, 1.5, 60},
		{"three and a half hours", 210 * time.Minute, 2, 3.5, 240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, cost := ComputeCost(start, start.Add(tt.elapsed), tt.partySize, nil, rate)
			assert.Equal(t, tt.wantHours, hours)
			assert.Equal(t, tt.wantCost, cost)
		})
	}
}

func TestComputeCostPromotionOverride(t *testing.T) {
	start := time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	promo := &models.Promotion{
		ID:             "promo-1",
		Name:           "Weekday Evening",
		FirstHourPrice: 20,
		ExtraHourPrice: 15,
		IsActive:       true,
	}

	hours, cost := ComputeCost(start, end, 3, promo, DefaultRate)
	assert.Equal(t, 0.8, hours)
	assert.Equal(t, 60.0, cost) // 20 x 3 orang
}

func TestComputeCostPromotionOutsideWindow(t *testing.T) {
	start := time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)

	windowEnd := start.Add(-24 * time.Hour)
	promo := &models.Promotion{
		ID:             "promo-expired",
		FirstHourPrice: 10,
		ExtraHourPrice: 10,
		IsActive:       true,
		EndDate:        &windowEnd,
	}

	// Promo kadaluarsa -> pakai tarif default
	_, cost := ComputeCost(start, end, 2, promo, DefaultRate)
	assert.Equal(t, 60.0, cost)
}

func TestComputeCostNegativeElapsed(t *testing.T) {
	start := time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)

	hours, cost := ComputeCost(start, start.Add(-5*time.Minute), 2, nil, DefaultRate)
	assert.Equal(t, 0.5, hours)
	assert.Equal(t, 0.0, cost)
}
