package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"app/internal/model"
)

const userColumns = `id, username, full_name, email, role, password_hash,
       avatar_public_id, avatar_url, reset_token_hash, reset_token_expires_at,
       subscription_id, subscription_status, created_at, updated_at`

// UserRepository defines persistence for user accounts. Lookup methods
// return (nil, nil) when no row matches.
type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.User, error)
	UpdateProfile(ctx context.Context, id, fullName string) error
	UpdateAvatar(ctx context.Context, id, publicID, url string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	UpdateSubscription(ctx context.Context, id, subscriptionID, status string) error
	CountUsers(ctx context.Context) (int, error)
	CountActiveSubscribers(ctx context.Context) (int, error)
}

type userRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a UserRepository backed by Postgres.
func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Username, &u.FullName, &u.Email, &u.Role, &u.PasswordHash,
		&u.AvatarPublicID, &u.AvatarURL, &u.ResetTokenHash, &u.ResetTokenExp,
		&u.SubscriptionID, &u.SubscriptionSt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	const q = `
        INSERT INTO users (id, username, full_name, email, role, password_hash, avatar_public_id, avatar_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, q,
		u.ID, u.Username, u.FullName, u.Email, u.Role, u.PasswordHash,
		u.AvatarPublicID, u.AvatarURL,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user %s: %w", u.Username, err)
	}
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, q, username))
}

// GetUserByResetToken matches a hashed reset token that has not expired yet.
func (r *userRepo) GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users
          WHERE reset_token_hash = $1 AND reset_token_expires_at > $2`
	return scanUser(r.pool.QueryRow(ctx, q, tokenHash, now))
}

func (r *userRepo) UpdateProfile(ctx context.Context, id, fullName string) error {
	const q = `UPDATE users SET full_name = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id, fullName); err != nil {
		return fmt.Errorf("update profile for user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) UpdateAvatar(ctx context.Context, id, publicID, url string) error {
	const q = `UPDATE users SET avatar_public_id = $2, avatar_url = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id, publicID, url); err != nil {
		return fmt.Errorf("update avatar for user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id, passwordHash); err != nil {
		return fmt.Errorf("update password for user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	const q = `UPDATE users SET reset_token_hash = $2, reset_token_expires_at = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id, tokenHash, expiresAt); err != nil {
		return fmt.Errorf("set reset token for user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) ClearResetToken(ctx context.Context, id string) error {
	const q = `UPDATE users SET reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("clear reset token for user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) UpdateSubscription(ctx context.Context, id, subscriptionID, status string) error {
	const q = `UPDATE users SET subscription_id = $2, subscription_status = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id, subscriptionID, status); err != nil {
		return fmt.Errorf("update subscription for user %s: %w", id, err)
	}
	return nil
}

func (r *userRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *userRepo) CountActiveSubscribers(ctx context.Context) (int, error) {
	var n int
	const q = `SELECT COUNT(*) FROM users WHERE subscription_status = 'active'`
	if err := r.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active subscribers: %w", err)
	}
	return n, nil
}
