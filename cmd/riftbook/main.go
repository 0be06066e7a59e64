// Package main is the entry point for the riftbook wager service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"riftbook/internal/api"
	"riftbook/internal/config"
	"riftbook/internal/metrics"
	"riftbook/internal/notify"
	"riftbook/internal/odds"
	"riftbook/internal/pkg/db"
	"riftbook/internal/reconcile"
	"riftbook/internal/repository"
	"riftbook/internal/riot"
	"riftbook/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, reading environment directly")
	}

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	wagerRepo := repository.NewWagerRepository(dbPool.Pool)
	playerRepo := repository.NewPlayerRepository(dbPool.Pool)

	// External match-data provider
	riotClient := riot.NewClient(&cfg.Riot)

	// Optional odds quote cache
	var quoteCache *odds.QuoteCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		defer rdb.Close()
		quoteCache = odds.NewQuoteCache(rdb, cfg.Redis.QuoteTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Odds quote cache enabled")
	}

	// Optional settlement event publisher
	var publisher notify.Publisher = notify.Nop{}
	if cfg.Kafka.Brokers != "" {
		kp := notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publisher = kp
		log.Info().
			Str("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Settlement publisher enabled")
	}

	// Services
	ledger := service.NewLedgerService(wagerRepo, userRepo, playerRepo, cfg.Wager.InitialCoins)
	players := service.NewPlayerService(playerRepo, riotClient)
	quotes := odds.NewService(riotClient, wagerRepo, quoteCache)

	// Reconciliation loop
	reconciler := reconcile.New(wagerRepo, playerRepo, riotClient, ledger, publisher, reconcile.Options{
		MatchWindow: cfg.Riot.MatchWindow,
		Concurrency: cfg.Reconcile.Concurrency,
	})
	if err := reconciler.Start(cfg.Reconcile.Interval); err != nil {
		log.Fatal().Err(err).Msg("Failed to start reconciler")
	}
	defer reconciler.Stop()

	// Metrics and health endpoint
	go metrics.Serve(cfg.Metrics.Addr, dbPool)

	// HTTP API
	server := api.NewServer(ledger, players, quotes)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("API server listening")
		if err := server.Listen(cfg.Server.Addr); err != nil {
			log.Fatal().Err(err).Msg("API server failed")
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	reconciler.Stop()
	if err := server.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("API server shutdown error")
	}
	log.Info().Msg("Stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: users table. The non-negative check backs the guarded
	// stake debit at placement.
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			coins BIGINT NOT NULL DEFAULT 0 CHECK (coins >= 0),
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_coins ON users(coins DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: players table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS players (
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
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: players table created")

	// Migration 3: wagers table. The unique (user_id, game_id) index makes
	// duplicate-wager rejection a hard guarantee under concurrency.
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS wagers (
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
		CREATE UNIQUE INDEX IF NOT EXISTS idx_wagers_user_game ON wagers(user_id, game_id);
		CREATE INDEX IF NOT EXISTS idx_wagers_status_game ON wagers(status, game_id);
		CREATE INDEX IF NOT EXISTS idx_wagers_user_time ON wagers(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: wagers table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
