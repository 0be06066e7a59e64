package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceRankOnly(t *testing.T) {
	tests := []struct {
		name     string
		rank     Rank
		wantWin  float64
		wantLoss float64
		wantTag  string
	}{
		// Score 39: strongest subject, odds-on favorite.
		{"challenger I", Rank{"CHALLENGER", "I"}, 1.2, 3.8, "CHALLENGER I"},
		// Score 0: weakest subject, biggest win payout.
		{"iron IV", Rank{"IRON", "IV"}, 3.2, 1.8, "IRON IV"},
		// Score 14: 3.2 - 14/39*2.0 = 2.48.
		{"gold II", Rank{"GOLD", "II"}, 2.48, 2.52, "GOLD II"},
		{"unranked default", Unranked, 1.9, 3.1, "UNRANKED"},
		// Unknown tier scores as GOLD, unknown division as IV.
		{"unknown tier", Rank{"WOOD", "IV"}, 2.58, 2.42, "WOOD IV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Price(tt.rank, 0, 0)
			assert.InDelta(t, tt.wantWin, q.Win, 1e-9)
			assert.InDelta(t, tt.wantLoss, q.Loss, 1e-9)
			assert.Equal(t, tt.wantTag, q.Rank)
			assert.Zero(t, q.VolumeTotal)
		})
	}
}

func TestPriceVolumeShift(t *testing.T) {
	// All stake on the win side: maximum shift of 0.3 toward the book.
	q := Price(Unranked, 1000, 0)
	assert.InDelta(t, 1.6, q.Win, 1e-9)
	assert.InDelta(t, 3.4, q.Loss, 1e-9)
	assert.Equal(t, int64(1000), q.VolumeWin)
	assert.Equal(t, int64(1000), q.VolumeTotal)

	// Balanced book: no shift.
	q = Price(Unranked, 500, 500)
	assert.InDelta(t, 1.9, q.Win, 1e-9)
	assert.InDelta(t, 3.1, q.Loss, 1e-9)

	// All stake on the loss side: shift the other way.
	q = Price(Unranked, 0, 1000)
	assert.InDelta(t, 2.2, q.Win, 1e-9)
	assert.InDelta(t, 2.8, q.Loss, 1e-9)
}

func TestPriceFloorClamp(t *testing.T) {
	// Challenger I base 1.2 minus the full 0.3 shift would be 0.9.
	q := Price(Rank{"CHALLENGER", "I"}, 1000, 0)
	assert.InDelta(t, 1.1, q.Win, 1e-9)
	assert.InDelta(t, 4.1, q.Loss, 1e-9)
}

func TestPriceZeroVolumeSkipsAdjustment(t *testing.T) {
	// Zero total volume must be pure rank pricing, not a division by zero.
	q := Price(Rank{"DIAMOND", "III"}, 0, 0)
	assert.InDelta(t, 5.0, q.Win+q.Loss, 1e-9)
}

func TestRankLabel(t *testing.T) {
	assert.Equal(t, "UNRANKED", Unranked.Label())
	assert.Equal(t, "MASTER", Rank{Tier: "MASTER"}.Label())
	assert.Equal(t, "SILVER IV", Rank{"SILVER", "IV"}.Label())
	assert.False(t, Unranked.Ranked())
	assert.True(t, Rank{Tier: "IRON"}.Ranked())
}
