// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"riftbook/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicateWager    = errors.New("wager already placed for this game")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerExists      = errors.New("player already tracked")
)

const userColumns = "id, display_name, coins, is_admin, created_at, updated_at"

// UserRepository handles user account persistence. Coin balances are only
// ever mutated through atomic increments so concurrent placements and
// settlements never lose an update.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.DisplayName, &u.Coins, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create creates a new user with the given starting balance.
func (r *UserRepository) Create(ctx context.Context, id, displayName string, initialCoins int64) (*model.User, error) {
	query := `
		INSERT INTO users (id, display_name, coins, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, displayName, initialCoins))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by id. Returns ErrUserNotFound if absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetOrCreate retrieves a user, creating one with the starting balance on
// first contact. The boolean reports whether a new account was created.
func (r *UserRepository) GetOrCreate(ctx context.Context, id, displayName string, initialCoins int64) (*model.User, bool, error) {
	user, err := r.GetByID(ctx, id)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err = r.Create(ctx, id, displayName, initialCoins)
	if err != nil {
		// Another request may have created the user concurrently.
		user, err = r.GetByID(ctx, id)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}
	return user, true, nil
}

// Credit atomically adds coins to a user's balance. Used for admin grants;
// settlement credits run inside the settlement transaction instead.
func (r *UserRepository) Credit(ctx context.Context, id string, amount int64) (*model.User, error) {
	query := `
		UPDATE users
		SET coins = coins + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to credit user: %w", err)
	}
	return user, nil
}

// List retrieves all users ordered by balance, for the admin overview.
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY coins DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}
