package odds

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riftbook/internal/model"
	"riftbook/internal/riot"
)

type fakeRanks struct {
	entries []riot.LeagueEntry
	err     error
	calls   int
}

func (f *fakeRanks) LeagueEntries(_ context.Context, _ string) ([]riot.LeagueEntry, error) {
	f.calls++
	return f.entries, f.err
}

type fakeVolumes struct {
	volWin, volLoss int64
	err             error
}

func (f *fakeVolumes) PendingVolume(_ context.Context, _ string) (int64, int64, error) {
	return f.volWin, f.volLoss, f.err
}

func summonerPlayer() *model.Player {
	id := "summoner-1"
	return &model.Player{ID: "p1", DisplayName: "Faker#KR1", SummonerID: &id}
}

func TestQuoteForRankedPlayer(t *testing.T) {
	ranks := &fakeRanks{entries: []riot.LeagueEntry{
		{QueueType: "RANKED_FLEX_SR", Tier: "SILVER", Rank: "I"},
		{QueueType: "RANKED_SOLO_5x5", Tier: "CHALLENGER", Rank: "I"},
	}}
	svc := NewService(ranks, &fakeVolumes{}, nil)

	q, err := svc.QuoteFor(context.Background(), summonerPlayer(), "EUW1_1")
	require.NoError(t, err)
	// Solo queue entry wins over the flex entry.
	assert.Equal(t, "CHALLENGER I", q.Rank)
	assert.InDelta(t, 1.2, q.Win, 1e-9)
}

func TestQuoteForRankLookupFailureFallsBackToUnranked(t *testing.T) {
	ranks := &fakeRanks{err: errors.New("rate limited")}
	svc := NewService(ranks, &fakeVolumes{}, nil)

	q, err := svc.QuoteFor(context.Background(), summonerPlayer(), "EUW1_1")
	require.NoError(t, err)
	assert.Equal(t, "UNRANKED", q.Rank)
	assert.InDelta(t, 1.9, q.Win, 1e-9)
}

func TestQuoteForMissingSummonerIDSkipsLookup(t *testing.T) {
	ranks := &fakeRanks{}
	svc := NewService(ranks, &fakeVolumes{}, nil)

	q, err := svc.QuoteFor(context.Background(), &model.Player{ID: "p1"}, "EUW1_1")
	require.NoError(t, err)
	assert.Equal(t, "UNRANKED", q.Rank)
	assert.Zero(t, ranks.calls)
}

func TestQuoteForUsesPendingVolume(t *testing.T) {
	svc := NewService(&fakeRanks{}, &fakeVolumes{volWin: 300, volLoss: 100}, nil)

	q, err := svc.QuoteFor(context.Background(), &model.Player{ID: "p1"}, "EUW1_1")
	require.NoError(t, err)
	assert.Equal(t, int64(400), q.VolumeTotal)
	// 75% of stake on win: shift of (0.75-0.5)*0.6 = 0.15.
	assert.InDelta(t, 1.75, q.Win, 1e-9)
	assert.InDelta(t, 3.25, q.Loss, 1e-9)
}

func TestQuoteForVolumeErrorPropagates(t *testing.T) {
	svc := NewService(&fakeRanks{}, &fakeVolumes{err: errors.New("db down")}, nil)

	_, err := svc.QuoteFor(context.Background(), &model.Player{ID: "p1"}, "EUW1_1")
	assert.Error(t, err)
}
