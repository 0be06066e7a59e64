package odds

import (
	"testing"

	"pgregory.net/rapid"
)

var tiers = []string{"IRON", "BRONZE", "SILVER", "GOLD", "PLATINUM", "EMERALD",
	"DIAMOND", "MASTER", "GRANDMASTER", "CHALLENGER"}

var divisions = []string{"I", "II", "III", "IV"}

func genRank(t *rapid.T) Rank {
	if rapid.Bool().Draw(t, "unranked") {
		return Unranked
	}
	return Rank{
		Tier:     rapid.SampledFrom(tiers).Draw(t, "tier"),
		Division: rapid.SampledFrom(divisions).Draw(t, "division"),
	}
}

// With an empty book, the two multipliers always sum to the same constant
// regardless of rank: the house overhead is rank-independent.
func TestPriceConstantSumProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		q := Price(genRank(t), 0, 0)
		sum := q.Win + q.Loss
		if sum < oddsSum-1e-9 || sum > oddsSum+1e-9 {
			t.Fatalf("multipliers sum to %v, want %v (quote %+v)", sum, oddsSum, q)
		}
	})
}

// Shifting stake toward the win side never raises the win multiplier and
// never lowers the loss multiplier, and neither side prices below 1.1.
func TestPriceVolumeMonotonicityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rank := genRank(t)
		total := rapid.Int64Range(2, 1_000_000).Draw(t, "total")
		winA := rapid.Int64Range(0, total).Draw(t, "winA")
		winB := rapid.Int64Range(0, total).Draw(t, "winB")
		if winA > winB {
			winA, winB = winB, winA
		}

		qA := Price(rank, winA, total-winA)
		qB := Price(rank, winB, total-winB)

		if qB.Win > qA.Win+1e-9 {
			t.Fatalf("win multiplier rose with win-side volume: %v -> %v", qA.Win, qB.Win)
		}
		if qB.Loss < qA.Loss-1e-9 {
			t.Fatalf("loss multiplier fell with win-side volume: %v -> %v", qA.Loss, qB.Loss)
		}
		for _, q := range []Quote{qA, qB} {
			if q.Win < minMultiplier || q.Loss < minMultiplier {
				t.Fatalf("multiplier below floor: %+v", q)
			}
		}
	})
}

// Pricing is a pure function: identical inputs yield identical quotes.
func TestPriceDeterminismProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rank := genRank(t)
		volWin := rapid.Int64Range(0, 1_000_000).Draw(t, "volWin")
		volLoss := rapid.Int64Range(0, 1_000_000).Draw(t, "volLoss")

		if Price(rank, volWin, volLoss) != Price(rank, volWin, volLoss) {
			t.Fatal("identical inputs produced different quotes")
		}
	})
}
