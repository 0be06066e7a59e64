package service

import (
	"context"
	"errors"
	"fmt"

	"riftbook/internal/model"
	"riftbook/internal/repository"
	"riftbook/internal/riot"
)

// Player tracking errors.
var (
	ErrRiotIDNotFound = errors.New("riot id not found")
	ErrAlreadyTracked = errors.New("player already tracked")
)

// defaultProfileIconID is used when the summoner record is unavailable.
const defaultProfileIconID = 29

// AccountSource resolves external accounts. Satisfied by *riot.Client.
type AccountSource interface {
	AccountByRiotID(ctx context.Context, gameName, tagLine string) (*riot.Account, error)
	SummonerByPUUID(ctx context.Context, puuid string) (*riot.Summoner, error)
}

// PlayerService manages the roster of tracked players. Track and Untrack
// are admin actions by contract.
type PlayerService struct {
	players  *repository.PlayerRepository
	accounts AccountSource
}

// NewPlayerService creates a PlayerService.
func NewPlayerService(players *repository.PlayerRepository, accounts AccountSource) *PlayerService {
	return &PlayerService{players: players, accounts: accounts}
}

// Track resolves a riot-id against the provider and persists the player.
// The summoner lookup is best-effort: a missing summoner id only disables
// ranked pricing for this player, it does not block tracking.
func (s *PlayerService) Track(ctx context.Context, gameName, tagLine string) (*model.Player, error) {
	account, err := s.accounts.AccountByRiotID(ctx, gameName, tagLine)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve riot id: %w", err)
	}
	if account == nil {
		return nil, ErrRiotIDNotFound
	}

	player := &model.Player{
		GameName:      account.GameName,
		TagLine:       account.TagLine,
		DisplayName:   account.GameName + "#" + account.TagLine,
		PUUID:         account.PUUID,
		ProfileIconID: defaultProfileIconID,
	}

	summoner, err := s.accounts.SummonerByPUUID(ctx, account.PUUID)
	if err == nil && summoner != nil {
		if summoner.ID != "" {
			id := summoner.ID
			player.SummonerID = &id
		}
		player.ProfileIconID = summoner.ProfileIconID
		player.SummonerLevel = summoner.SummonerLevel
	}

	created, err := s.players.Create(ctx, player)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerExists) {
			return nil, ErrAlreadyTracked
		}
		return nil, fmt.Errorf("failed to store player: %w", err)
	}
	return created, nil
}

// Untrack removes a tracked player.
func (s *PlayerService) Untrack(ctx context.Context, id string) error {
	if err := s.players.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	return nil
}

// Get returns one tracked player.
func (s *PlayerService) Get(ctx context.Context, id string) (*model.Player, error) {
	player, err := s.players.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

// List returns all tracked players.
func (s *PlayerService) List(ctx context.Context) ([]*model.Player, error) {
	return s.players.List(ctx)
}
