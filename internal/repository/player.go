package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"riftbook/internal/model"
)

const playerColumns = "id, game_name, tag_line, display_name, puuid, summoner_id, profile_icon_id, summoner_level, created_at"

// PlayerRepository handles tracked player persistence.
type PlayerRepository struct {
	pool *pgxpool.Pool
}

// NewPlayerRepository creates a new PlayerRepository instance.
func NewPlayerRepository(pool *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{pool: pool}
}

func scanPlayer(row pgx.Row) (*model.Player, error) {
	var p model.Player
	err := row.Scan(&p.ID, &p.GameName, &p.TagLine, &p.DisplayName, &p.PUUID,
		&p.SummonerID, &p.ProfileIconID, &p.SummonerLevel, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persists a tracked player and assigns its id.
// Returns ErrPlayerExists when the puuid is already tracked.
func (r *PlayerRepository) Create(ctx context.Context, p *model.Player) (*model.Player, error) {
	p.ID = uuid.NewString()

	query := `
		INSERT INTO players (id, game_name, tag_line, display_name, puuid, summoner_id, profile_icon_id, summoner_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING ` + playerColumns

	created, err := scanPlayer(r.pool.QueryRow(ctx, query,
		p.ID, p.GameName, p.TagLine, p.DisplayName, p.PUUID,
		p.SummonerID, p.ProfileIconID, p.SummonerLevel))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrPlayerExists
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return created, nil
}

// GetByID retrieves a tracked player. Returns ErrPlayerNotFound if absent.
func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*model.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`

	p, err := scanPlayer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// List retrieves all tracked players, newest first.
func (r *PlayerRepository) List(ctx context.Context) ([]*model.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}

// Delete removes a tracked player. Returns ErrPlayerNotFound if absent.
func (r *PlayerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}
