package odds

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"riftbook/internal/model"
	"riftbook/internal/riot"
)

// RankSource provides ranked standings for summoner ids.
type RankSource interface {
	LeagueEntries(ctx context.Context, summonerID string) ([]riot.LeagueEntry, error)
}

// VolumeSource provides the pending stake totals on each side of a game.
type VolumeSource interface {
	PendingVolume(ctx context.Context, gameID string) (volWin, volLoss int64, err error)
}

// Service produces quotes for a subject player in a bound game. Rank
// lookups fail soft to Unranked; volume lookups are the only hard error.
type Service struct {
	ranks   RankSource
	volumes VolumeSource
	cache   *QuoteCache
}

// NewService creates a quote service. cache may be nil to disable caching.
func NewService(ranks RankSource, volumes VolumeSource, cache *QuoteCache) *Service {
	return &Service{ranks: ranks, volumes: volumes, cache: cache}
}

// QuoteFor prices both sides of a wager on the player in the given game.
func (s *Service) QuoteFor(ctx context.Context, player *model.Player, gameID string) (*Quote, error) {
	if s.cache != nil {
		var cached Quote
		hit, err := s.cache.Get(ctx, player.ID, gameID, &cached)
		if err != nil {
			log.Warn().Err(err).Str("player_id", player.ID).Msg("Quote cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	rank := s.lookupRank(ctx, player)

	volWin, volLoss, err := s.volumes.PendingVolume(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending volume: %w", err)
	}

	quote := Price(rank, volWin, volLoss)

	if s.cache != nil {
		if err := s.cache.Set(ctx, player.ID, gameID, quote); err != nil {
			log.Warn().Err(err).Str("player_id", player.ID).Msg("Quote cache write failed")
		}
	}

	return &quote, nil
}

// lookupRank resolves the player's solo-queue rank. Missing summoner id or
// any provider failure degrades to Unranked rather than failing the quote.
func (s *Service) lookupRank(ctx context.Context, player *model.Player) Rank {
	if player.SummonerID == nil || *player.SummonerID == "" {
		return Unranked
	}

	entries, err := s.ranks.LeagueEntries(ctx, *player.SummonerID)
	if err != nil {
		log.Warn().Err(err).
			Str("player", player.DisplayName).
			Msg("Rank lookup failed, pricing as unranked")
		return Unranked
	}

	entry := riot.SoloQueueEntry(entries)
	if entry == nil {
		return Unranked
	}
	return Rank{Tier: entry.Tier, Division: entry.Rank}
}
