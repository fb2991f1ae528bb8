// Package store persists user accounts in Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/adiwidjaja/tokolens/internal/auth"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash,
	oauth_provider, oauth_id, profile_picture, is_oauth_user, is_active,
	last_login, created_at, updated_at`

func (s *Store) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) Create(ctx context.Context, user *auth.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash,
			oauth_provider, oauth_id, profile_picture, is_oauth_user, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.OAuthProvider, user.OAuthID, user.ProfilePicture, user.IsOAuthUser, user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

func (s *Store) LinkOAuth(ctx context.Context, id uuid.UUID, provider, oauthID string, picture *string) error {
	query := `
		UPDATE users
		SET oauth_provider = $2, oauth_id = $3, profile_picture = $4,
			is_oauth_user = TRUE, updated_at = NOW()
		WHERE id = $1`

	if _, err := s.db.ExecContext(ctx, query, id, provider, oauthID, picture); err != nil {
		return fmt.Errorf("linking oauth identity: %w", err)
	}

	return nil
}

func (s *Store) scanUser(row *sql.Row) (*auth.User, error) {
	var (
		user      auth.User
		lastLogin sql.NullTime
	)

	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash,
		&user.OAuthProvider, &user.OAuthID, &user.ProfilePicture, &user.IsOAuthUser, &user.IsActive,
		&lastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}

	return &user, nil
}
