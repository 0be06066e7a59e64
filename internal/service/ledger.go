// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"riftbook/internal/metrics"
	"riftbook/internal/model"
	"riftbook/internal/repository"
)

// Ledger-related errors.
var (
	ErrInvalidStake      = errors.New("invalid stake: must be positive")
	ErrInvalidPrediction = errors.New("invalid prediction")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicateWager    = errors.New("wager already placed on this game")
	ErrUserNotFound      = errors.New("user not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrInvalidGrant      = errors.New("invalid grant: must be positive")
)

// WinPayout returns the payout for a correct prediction: floor(stake x 1.9).
// Integer arithmetic keeps the floor exact.
func WinPayout(stake int64) int64 {
	return stake * 19 / 10
}

// Judge returns the settlement outcome for one wager given the subject
// player's result.
func Judge(w model.Wager, subjectWon bool) (model.WagerStatus, int64) {
	if w.Prediction.Correct(subjectWon) {
		return model.WagerWon, WinPayout(w.Amount)
	}
	return model.WagerLost, 0
}

// PlaceWagerInput carries everything the presentation layer supplies at
// placement time.
type PlaceWagerInput struct {
	UserID      string
	DisplayName string
	PlayerID    string
	Prediction  model.Prediction
	Amount      int64
	GameID      string
}

// LedgerService owns wager and balance mutation: placement, duplicate
// rejection, settlement, and admin grants. It performs no internal
// retries; transaction failures surface to the caller (placement) or are
// left for the next reconciliation tick (settlement).
type LedgerService struct {
	wagers       *repository.WagerRepository
	users        *repository.UserRepository
	players      *repository.PlayerRepository
	initialCoins int64
}

// NewLedgerService creates a LedgerService. initialCoins is the starting
// balance granted to first-time users.
func NewLedgerService(
	wagers *repository.WagerRepository,
	users *repository.UserRepository,
	players *repository.PlayerRepository,
	initialCoins int64,
) *LedgerService {
	return &LedgerService{
		wagers:       wagers,
		users:        users,
		players:      players,
		initialCoins: initialCoins,
	}
}

// PlaceWager validates the input, rejects duplicate (user, game) wagers,
// and debits the stake while creating the pending wager in one atomic
// transaction. Returns the new wager id.
func (s *LedgerService) PlaceWager(ctx context.Context, in PlaceWagerInput) (string, error) {
	if in.Amount <= 0 {
		return "", ErrInvalidStake
	}
	if !in.Prediction.Valid() {
		return "", ErrInvalidPrediction
	}

	player, err := s.players.GetByID(ctx, in.PlayerID)
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			return "", ErrPlayerNotFound
		}
		return "", fmt.Errorf("failed to get player: %w", err)
	}

	if _, _, err := s.users.GetOrCreate(ctx, in.UserID, in.DisplayName, s.initialCoins); err != nil {
		return "", fmt.Errorf("failed to ensure user: %w", err)
	}

	// Friendly pre-check; the unique index is the hard guarantee.
	exists, err := s.wagers.HasWagerForGame(ctx, in.UserID, in.GameID)
	if err != nil {
		return "", fmt.Errorf("failed to check duplicate wager: %w", err)
	}
	if exists {
		return "", ErrDuplicateWager
	}

	id, err := s.wagers.Place(ctx, &model.Wager{
		UserID:     in.UserID,
		PlayerID:   player.ID,
		PlayerName: player.DisplayName,
		Prediction: in.Prediction,
		Amount:     in.Amount,
		GameID:     in.GameID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientFunds):
			return "", ErrInsufficientFunds
		case errors.Is(err, repository.ErrDuplicateWager):
			return "", ErrDuplicateWager
		case errors.Is(err, repository.ErrUserNotFound):
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to place wager: %w", err)
	}

	metrics.WagersPlaced.Inc()
	return id, nil
}

// ResolveGame settles every pending wager bound to the game as one
// all-or-nothing transaction and returns the number settled. Settling an
// already-settled game is a no-op returning 0.
func (s *LedgerService) ResolveGame(ctx context.Context, gameID string, subjectWon bool) (int, error) {
	resolved, err := s.wagers.ResolvePending(ctx, gameID, func(w model.Wager) (model.WagerStatus, int64) {
		return Judge(w, subjectWon)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to resolve game %s: %w", gameID, err)
	}
	metrics.WagersResolved.Add(float64(resolved))
	return resolved, nil
}

// HasWagerForGame reports whether the user already wagered on the game.
func (s *LedgerService) HasWagerForGame(ctx context.Context, userID, gameID string) (bool, error) {
	return s.wagers.HasWagerForGame(ctx, userID, gameID)
}

// ListUserWagers returns a user's wagers, newest first.
func (s *LedgerService) ListUserWagers(ctx context.Context, userID string) ([]*model.Wager, error) {
	return s.wagers.ListByUser(ctx, userID)
}

// GetUser returns one user account.
func (s *LedgerService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns all user accounts for the admin overview.
func (s *LedgerService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// GrantCoins credits a user unconditionally. Admin-only by contract;
// authorization is enforced by the calling layer.
func (s *LedgerService) GrantCoins(ctx context.Context, userID string, amount int64) (*model.User, error) {
	if amount <= 0 {
		return nil, ErrInvalidGrant
	}
	user, err := s.users.Credit(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to grant coins: %w", err)
	}
	return user, nil
}
