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

const wagerColumns = "id, user_id, player_id, player_name, prediction, amount, game_id, status, payout, created_at"

// uniqueViolation is the Postgres error code raised when the (user_id,
// game_id) unique index rejects a concurrent duplicate placement.
const uniqueViolation = "23505"

// WagerRepository handles wager persistence. Placement and settlement each
// run as a single transaction so a wager row is never observed out of step
// with its balance effect.
type WagerRepository struct {
	pool *pgxpool.Pool
}

// NewWagerRepository creates a new WagerRepository instance.
func NewWagerRepository(pool *pgxpool.Pool) *WagerRepository {
	return &WagerRepository{pool: pool}
}

func scanWager(row pgx.Row) (*model.Wager, error) {
	var w model.Wager
	err := row.Scan(&w.ID, &w.UserID, &w.PlayerID, &w.PlayerName, &w.Prediction,
		&w.Amount, &w.GameID, &w.Status, &w.Payout, &w.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Place debits the stake and creates a pending wager in one transaction.
// The debit is guarded (coins >= stake) so an insufficient balance fails
// the whole transaction and no wager row is created.
// Returns ErrInsufficientFunds, ErrUserNotFound, or ErrDuplicateWager when
// the unique (user, game) index rejects the insert.
func (r *WagerRepository) Place(ctx context.Context, w *model.Wager) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin placement: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET coins = coins - $2, updated_at = NOW()
		WHERE id = $1 AND coins >= $2
	`, w.UserID, w.Amount)
	if err != nil {
		return "", fmt.Errorf("failed to debit stake: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, w.UserID,
		).Scan(&exists); err != nil {
			return "", fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return "", ErrUserNotFound
		}
		return "", ErrInsufficientFunds
	}

	id := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO wagers (id, user_id, player_id, player_name, prediction, amount, game_id, status, payout, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', 0, NOW())
	`, id, w.UserID, w.PlayerID, w.PlayerName, w.Prediction, w.Amount, w.GameID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", ErrDuplicateWager
		}
		return "", fmt.Errorf("failed to create wager: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit placement: %w", err)
	}
	return id, nil
}

// HasWagerForGame reports whether the user already holds a wager, in any
// status, on the given game.
func (r *WagerRepository) HasWagerForGame(ctx context.Context, userID, gameID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM wagers WHERE user_id = $1 AND game_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, gameID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing wager: %w", err)
	}
	return exists, nil
}

// ListByUser retrieves all wagers for a user, newest first.
func (r *WagerRepository) ListByUser(ctx context.Context, userID string) ([]*model.Wager, error) {
	query := `SELECT ` + wagerColumns + ` FROM wagers WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wagers: %w", err)
	}
	defer rows.Close()
	return collectWagers(rows)
}

// PendingGroups enumerates games that still have pending wagers, one row
// per game with the subject player of the earliest wager (first-seen wins).
func (r *WagerRepository) PendingGroups(ctx context.Context) ([]model.PendingGroup, error) {
	const query = `
		SELECT DISTINCT ON (game_id) game_id, player_id
		FROM wagers
		WHERE status = 'pending'
		ORDER BY game_id, created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending groups: %w", err)
	}
	defer rows.Close()

	var groups []model.PendingGroup
	for rows.Next() {
		var g model.PendingGroup
		if err := rows.Scan(&g.GameID, &g.PlayerID); err != nil {
			return nil, fmt.Errorf("failed to scan pending group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending groups: %w", err)
	}
	return groups, nil
}

// PendingVolume sums the pending stake on each side of a game.
func (r *WagerRepository) PendingVolume(ctx context.Context, gameID string) (int64, int64, error) {
	const query = `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE prediction = 'win'), 0),
			COALESCE(SUM(amount) FILTER (WHERE prediction = 'loss'), 0)
		FROM wagers
		WHERE game_id = $1 AND status = 'pending'
	`

	var volWin, volLoss int64
	if err := r.pool.QueryRow(ctx, query, gameID).Scan(&volWin, &volLoss); err != nil {
		return 0, 0, fmt.Errorf("failed to sum pending volume: %w", err)
	}
	return volWin, volLoss, nil
}

// ResolvePending settles every pending wager on a game in one transaction.
// The pending set is locked (FOR UPDATE), judged by the supplied function,
// and all status/payout writes plus balance credits commit atomically or
// not at all. A wager can never settle twice: the selection is scoped to
// status = 'pending' and the transition happens inside the same
// transaction. Returns the number of wagers settled; 0 means nothing was
// pending and no writes were issued.
func (r *WagerRepository) ResolvePending(ctx context.Context, gameID string, judge func(model.Wager) (model.WagerStatus, int64)) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT `+wagerColumns+`
		FROM wagers
		WHERE game_id = $1 AND status = 'pending'
		FOR UPDATE
	`, gameID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock pending wagers: %w", err)
	}
	pending, err := collectWagers(rows)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, w := range pending {
		status, payout := judge(*w)
		batch.Queue(
			`UPDATE wagers SET status = $2, payout = $3 WHERE id = $1`,
			w.ID, status, payout,
		)
		if payout > 0 {
			batch.Queue(
				`UPDATE users SET coins = coins + $2, updated_at = NOW() WHERE id = $1`,
				w.UserID, payout,
			)
		}
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("failed to apply settlement: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to close settlement batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit settlement: %w", err)
	}
	return len(pending), nil
}

func collectWagers(rows pgx.Rows) ([]*model.Wager, error) {
	defer rows.Close()

	var wagers []*model.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wager: %w", err)
		}
		wagers = append(wagers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wagers: %w", err)
	}
	return wagers, nil
}
