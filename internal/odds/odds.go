// Package odds prices the two sides of a wager from the subject player's
// ranked standing and the live stake volume on each side.
package odds

import "math"

// Pricing constants. The two base multipliers sum to oddsSum, which bakes
// in the house overhead; neither side may price below minMultiplier.
const (
	minMultiplier   = 1.1
	oddsSum         = 5.0
	maxBaseWin      = 3.2
	baseWinSpan     = 2.0
	unrankedBaseWin = 1.9
	volumeSwing     = 0.6
	maxSkillScore   = 39
)

// Tier weights, lowest to highest ladder tier.
var tierWeight = map[string]int{
	"IRON":        0,
	"BRONZE":      1,
	"SILVER":      2,
	"GOLD":        3,
	"PLATINUM":    4,
	"EMERALD":     5,
	"DIAMOND":     6,
	"MASTER":      7,
	"GRANDMASTER": 8,
	"CHALLENGER":  9,
}

// Division weights, I is the strongest division within a tier.
var divisionWeight = map[string]int{
	"I":   3,
	"II":  2,
	"III": 1,
	"IV":  0,
}

// Rank is a player's ranked standing. The zero value means unranked; use
// Ranked to distinguish the two instead of sentinel strings.
type Rank struct {
	Tier     string
	Division string
}

// Unranked is the explicit no-rank value.
var Unranked = Rank{}

// Ranked reports whether the rank carries a tier.
func (r Rank) Ranked() bool {
	return r.Tier != ""
}

// Label returns the rank in display form, "UNRANKED" for the zero value.
func (r Rank) Label() string {
	if !r.Ranked() {
		return "UNRANKED"
	}
	if r.Division == "" {
		return r.Tier
	}
	return r.Tier + " " + r.Division
}

// skillScore maps a rank onto a 0-39 scale (tier*4 + division weight).
// Unrecognized tiers score as GOLD, unrecognized divisions as IV.
func skillScore(r Rank) int {
	t, ok := tierWeight[r.Tier]
	if !ok {
		t = tierWeight["GOLD"]
	}
	return t*4 + divisionWeight[r.Division]
}

// Quote is a priced pair of multipliers plus the inputs that produced it.
type Quote struct {
	Win         float64 `json:"win"`
	Loss        float64 `json:"loss"`
	Rank        string  `json:"rank"`
	VolumeWin   int64   `json:"volumeWin"`
	VolumeLoss  int64   `json:"volumeLoss"`
	VolumeTotal int64   `json:"volumeTotal"`
}

// Price computes both multipliers for a subject player. Pure and
// deterministic.
//
// The base win multiplier falls linearly with skill (a Challenger I subject
// is an odds-on favorite at 1.2, an Iron IV underdog pays 3.2); the loss
// multiplier is the remainder of a constant sum. With stake on the book the
// pair shifts toward the heavy side: the win-side stake fraction moves both
// multipliers by up to ±0.3, floored at 1.1.
func Price(rank Rank, volWin, volLoss int64) Quote {
	baseWin := unrankedBaseWin
	if rank.Ranked() {
		score := float64(skillScore(rank))
		baseWin = round2(maxBaseWin - score/maxSkillScore*baseWinSpan)
	}
	baseLoss := round2(oddsSum - baseWin)

	win, loss := baseWin, baseLoss
	total := volWin + volLoss
	if total > 0 {
		winFraction := float64(volWin) / float64(total)
		adjustment := (winFraction - 0.5) * volumeSwing
		win = math.Max(minMultiplier, round2(baseWin-adjustment))
		loss = math.Max(minMultiplier, round2(baseLoss+adjustment))
	}

	return Quote{
		Win:         win,
		Loss:        loss,
		Rank:        rank.Label(),
		VolumeWin:   volWin,
		VolumeLoss:  volLoss,
		VolumeTotal: total,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
