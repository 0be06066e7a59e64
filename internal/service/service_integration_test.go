// Integration tests exercising the services against a real PostgreSQL
// instance. Docker-only; skipped when the daemon is unreachable.
package service

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"riftbook/internal/model"
	"riftbook/internal/repository"
	"riftbook/internal/riot"
)

func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			coins BIGINT NOT NULL DEFAULT 0 CHECK (coins >= 0),
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE players (
			id TEXT PRIMARY KEY,
			game_name TEXT NOT NULL,
			tag_line TEXT NOT NULL,
			display_name TEXT NOT NULL,
			puuid TEXT NOT NULL UNIQUE,
			summoner_id TEXT,
			profile_icon_id INT NOT NULL DEFAULT 29,
			summoner_level BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE wagers (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			player_id TEXT NOT NULL,
			player_name TEXT NOT NULL DEFAULT '',
			prediction TEXT NOT NULL CHECK (prediction IN ('win', 'loss')),
			amount BIGINT NOT NULL CHECK (amount > 0),
			game_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'won', 'lost')),
			payout BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE UNIQUE INDEX idx_wagers_user_game ON wagers(user_id, game_id);
	`)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return pool, cleanup
}

// stubAccounts is a canned AccountSource for player tracking tests.
type stubAccounts struct {
	account  *riot.Account
	summoner *riot.Summoner
}

func (s *stubAccounts) AccountByRiotID(_ context.Context, _, _ string) (*riot.Account, error) {
	return s.account, nil
}

func (s *stubAccounts) SummonerByPUUID(_ context.Context, _ string) (*riot.Summoner, error) {
	return s.summoner, nil
}

func newLedger(pool *pgxpool.Pool) (*LedgerService, *repository.PlayerRepository) {
	players := repository.NewPlayerRepository(pool)
	ledger := NewLedgerService(
		repository.NewWagerRepository(pool),
		repository.NewUserRepository(pool),
		players,
		10000,
	)
	return ledger, players
}

func trackSubject(t *testing.T, players *repository.PlayerRepository) *model.Player {
	t.Helper()
	player, err := players.Create(context.Background(), &model.Player{
		GameName:    "Subject",
		TagLine:     "EUW",
		DisplayName: "Subject#EUW",
		PUUID:       "puuid-1",
	})
	require.NoError(t, err)
	return player
}

func TestLedgerService_PlaceWagerLifecycle(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ledger, players := newLedger(pool)
	player := trackSubject(t, players)
	ctx := context.Background()

	// First placement creates the user with the starting balance and
	// debits the stake atomically.
	id, err := ledger.PlaceWager(ctx, PlaceWagerInput{
		UserID:      "u1",
		DisplayName: "tester",
		PlayerID:    player.ID,
		Prediction:  model.PredictWin,
		Amount:      500,
		GameID:      "EUW1_100",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	user, err := ledger.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(9500), user.Coins)

	wagers, err := ledger.ListUserWagers(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, wagers, 1)
	assert.Equal(t, model.WagerPending, wagers[0].Status)
	assert.Equal(t, "Subject#EUW", wagers[0].PlayerName)

	// Same user, same game: rejected regardless of side.
	_, err = ledger.PlaceWager(ctx, PlaceWagerInput{
		UserID: "u1", PlayerID: player.ID,
		Prediction: model.PredictLoss, Amount: 100, GameID: "EUW1_100",
	})
	assert.ErrorIs(t, err, ErrDuplicateWager)

	// Settle the game as a subject win.
	resolved, err := ledger.ResolveGame(ctx, "EUW1_100", true)
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	user, err = ledger.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(10450), user.Coins)

	// Replay settles nothing.
	resolved, err = ledger.ResolveGame(ctx, "EUW1_100", true)
	require.NoError(t, err)
	assert.Zero(t, resolved)
}

func TestLedgerService_PlaceWagerValidation(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ledger, players := newLedger(pool)
	player := trackSubject(t, players)
	ctx := context.Background()

	_, err := ledger.PlaceWager(ctx, PlaceWagerInput{
		UserID: "u1", PlayerID: player.ID,
		Prediction: model.PredictWin, Amount: 0, GameID: "EUW1_100",
	})
	assert.ErrorIs(t, err, ErrInvalidStake)

	_, err = ledger.PlaceWager(ctx, PlaceWagerInput{
		UserID: "u1", PlayerID: player.ID,
		Prediction: model.Prediction("draw"), Amount: 100, GameID: "EUW1_100",
	})
	assert.ErrorIs(t, err, ErrInvalidPrediction)

	_, err = ledger.PlaceWager(ctx, PlaceWagerInput{
		UserID: "u1", PlayerID: "not-tracked",
		Prediction: model.PredictWin, Amount: 100, GameID: "EUW1_100",
	})
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	// Stake above the starting balance.
	_, err = ledger.PlaceWager(ctx, PlaceWagerInput{
		UserID: "u1", PlayerID: player.ID,
		Prediction: model.PredictWin, Amount: 10001, GameID: "EUW1_100",
	})
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestLedgerService_GrantCoins(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ledger, players := newLedger(pool)
	player := trackSubject(t, players)
	ctx := context.Background()

	_, err := ledger.PlaceWager(ctx, PlaceWagerInput{
		UserID: "u1", PlayerID: player.ID,
		Prediction: model.PredictWin, Amount: 9999, GameID: "EUW1_100",
	})
	require.NoError(t, err)

	user, err := ledger.GrantCoins(ctx, "u1", 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(5001), user.Coins)

	_, err = ledger.GrantCoins(ctx, "u1", -5)
	assert.ErrorIs(t, err, ErrInvalidGrant)

	_, err = ledger.GrantCoins(ctx, "ghost", 100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPlayerService_TrackAndUntrack(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	summonerID := "summoner-1"
	accounts := &stubAccounts{
		account: &riot.Account{PUUID: "puuid-1", GameName: "Subject", TagLine: "EUW"},
		summoner: &riot.Summoner{
			ID:            summonerID,
			PUUID:         "puuid-1",
			ProfileIconID: 88,
			SummonerLevel: 412,
		},
	}
	svc := NewPlayerService(repository.NewPlayerRepository(pool), accounts)
	ctx := context.Background()

	player, err := svc.Track(ctx, "Subject", "EUW")
	require.NoError(t, err)
	assert.Equal(t, "Subject#EUW", player.DisplayName)
	require.NotNil(t, player.SummonerID)
	assert.Equal(t, summonerID, *player.SummonerID)
	assert.Equal(t, 88, player.ProfileIconID)

	// Tracking the same account again is a conflict.
	_, err = svc.Track(ctx, "Subject", "EUW")
	assert.ErrorIs(t, err, ErrAlreadyTracked)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Untrack(ctx, player.ID))
	assert.ErrorIs(t, svc.Untrack(ctx, player.ID), ErrPlayerNotFound)
}

func TestPlayerService_TrackUnknownRiotID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewPlayerService(repository.NewPlayerRepository(pool), &stubAccounts{})
	_, err := svc.Track(context.Background(), "Nobody", "XX")
	assert.ErrorIs(t, err, ErrRiotIDNotFound)
}

func TestPlayerService_TrackWithoutSummonerRecord(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	accounts := &stubAccounts{
		account: &riot.Account{PUUID: "puuid-2", GameName: "New", TagLine: "Acct"},
	}
	svc := NewPlayerService(repository.NewPlayerRepository(pool), accounts)

	player, err := svc.Track(context.Background(), "New", "Acct")
	require.NoError(t, err)
	assert.Nil(t, player.SummonerID)
	assert.Equal(t, defaultProfileIconID, player.ProfileIconID)
}
