package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const oauthStateTTL = 10 * time.Minute

type Service struct {
	repo     Repository
	tokens   *Tokens
	sessions SessionStore
	oauth    OAuthClient
	log      *slog.Logger
}

func NewService(repo Repository, tokens *Tokens, sessions SessionStore, oauth OAuthClient, log *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, sessions: sessions, oauth: oauth, log: log}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	existing, err := s.repo.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

type LoginResult struct {
	User   *User
	Tokens TokenPair
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Tokens: *pair}, nil
}

// Refresh rotates the token pair: the presented refresh token is
// revoked and a new pair issued, so a leaked token works at most once.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	subject, err := s.sessions.Subject(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Revoke(ctx, refreshToken); err != nil {
		s.log.Warn("failed to revoke refresh token", "error", err)
	}

	return s.issue(ctx, user.ID)
}

// OAuthBegin stores a fresh one-time state and returns the provider's
// authorization URL for the caller to redirect to.
func (s *Service) OAuthBegin(ctx context.Context, provider string) (url, state string, err error) {
	state, err = newState()
	if err != nil {
		return "", "", fmt.Errorf("generating state: %w", err)
	}

	url, err = s.oauth.AuthorizationURL(provider, state)
	if err != nil {
		return "", "", err
	}

	if err := s.sessions.StoreOAuthState(ctx, state, provider, oauthStateTTL); err != nil {
		return "", "", fmt.Errorf("storing oauth state: %w", err)
	}

	return url, state, nil
}

// OAuthCallback completes the flow: validates and consumes the state,
// exchanges the code, resolves or creates the local account, then
// issues a token pair.
func (s *Service) OAuthCallback(ctx context.Context, provider, code, state string) (*LoginResult, error) {
	storedProvider, err := s.sessions.ConsumeOAuthState(ctx, state)
	if err != nil || storedProvider != provider {
		return nil, ErrInvalidState
	}

	providerToken, err := s.oauth.Exchange(ctx, provider, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	identity, err := s.oauth.Identity(ctx, provider, providerToken)
	if err != nil {
		return nil, fmt.Errorf("fetching provider identity: %w", err)
	}

	if identity.Email == "" {
		return nil, errors.New("email not provided by oauth provider")
	}

	user, err := s.resolveOAuthUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	pair, err := s.issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Tokens: *pair}, nil
}

func (s *Service) resolveOAuthUser(ctx context.Context, identity *Identity) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, identity.Email)

	switch {
	case err == nil:
		if !user.IsOAuthUser {
			var picture *string
			if identity.Picture != "" {
				picture = &identity.Picture
			}

			if err := s.repo.LinkOAuth(ctx, user.ID, identity.Provider, identity.ProviderUserID, picture); err != nil {
				return nil, fmt.Errorf("linking oauth identity: %w", err)
			}

			user.IsOAuthUser = true
			user.OAuthProvider = &identity.Provider
			user.OAuthID = &identity.ProviderUserID
			user.ProfilePicture = picture
		}

		return user, nil

	case errors.Is(err, ErrUserNotFound):
		var picture *string
		if identity.Picture != "" {
			picture = &identity.Picture
		}

		user := &User{
			ID:             uuid.New(),
			FirstName:      identity.FirstName,
			LastName:       identity.LastName,
			Email:          identity.Email,
			PasswordHash:   oauthPasswordSentinel,
			OAuthProvider:  &identity.Provider,
			OAuthID:        &identity.ProviderUserID,
			ProfilePicture: picture,
			IsOAuthUser:    true,
			IsActive:       true,
		}

		if err := s.repo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("creating oauth user: %w", err)
		}

		return user, nil

	default:
		return nil, err
	}
}

func (s *Service) issue(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	pair, err := s.tokens.Pair(userID.String())
	if err != nil {
		return nil, err
	}

	if err := s.sessions.StoreRefreshToken(ctx, pair.RefreshToken, userID.String(), s.tokens.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return pair, nil
}

func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
