// Package auth implements account registration, password and OAuth
// login, and refresh-token rotation.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidState        = errors.New("invalid state parameter")
	ErrUnsupportedProvider = errors.New("unsupported oauth provider")
)

// oauthPasswordSentinel fills the password column for accounts created
// through a provider; it can never verify as an argon2id hash.
const oauthPasswordSentinel = "OAUTH_USER"

type User struct {
	ID             uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	PasswordHash   string
	OAuthProvider  *string
	OAuthID        *string
	ProfilePicture *string
	IsOAuthUser    bool
	IsActive       bool
	LastLogin      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TokenPair is one issued access/refresh token set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Identity is the profile a provider reports for an authorized user.
type Identity struct {
	ProviderUserID string
	Email          string
	Name           string
	FirstName      string
	LastName       string
	Picture        string
	Provider       string
}

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=auth
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, user *User) error
	// LinkOAuth attaches provider identity to an existing password
	// account so both login paths reach the same user.
	LinkOAuth(ctx context.Context, id uuid.UUID, provider, oauthID string, picture *string) error
}

// SessionStore holds refresh tokens and one-time OAuth state in a
// TTL-expiring key-value store. Losing entries only forces re-login.
type SessionStore interface {
	StoreRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error
	Subject(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	StoreOAuthState(ctx context.Context, state, provider string, ttl time.Duration) error
	// ConsumeOAuthState deletes the state on read, valid or not, so a
	// state value can never be replayed.
	ConsumeOAuthState(ctx context.Context, state string) (string, error)
}

// OAuthClient is the outbound provider boundary.
type OAuthClient interface {
	AuthorizationURL(provider, state string) (string, error)
	Exchange(ctx context.Context, provider, code string) (string, error)
	Identity(ctx context.Context, provider, accessToken string) (*Identity, error)
}
