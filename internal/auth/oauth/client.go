// Package oauth talks to external identity providers. Google is the
// only configured provider; the provider table keeps the door open for
// more.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/adiwidjaja/tokolens/internal/auth"
)

type providerConfig struct {
	authorizationURL string
	tokenURL         string
	userInfoURL      string
	clientID         string
	clientSecret     string
	redirectURI      string
	scopes           []string
}

type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
}

type Client struct {
	providers map[string]providerConfig
	http      *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		providers: map[string]providerConfig{
			"google": {
				authorizationURL: "https://accounts.google.com/o/oauth2/auth",
				tokenURL:         "https://oauth2.googleapis.com/token",
				userInfoURL:      "https://openidconnect.googleapis.com/v1/userinfo",
				clientID:         cfg.GoogleClientID,
				clientSecret:     cfg.GoogleClientSecret,
				redirectURI:      cfg.GoogleRedirectURI,
				scopes:           []string{"openid", "email", "profile"},
			},
		},
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) provider(name string) (providerConfig, error) {
	p, ok := c.providers[name]
	if !ok {
		return providerConfig{}, fmt.Errorf("%w: %q", auth.ErrUnsupportedProvider, name)
	}

	return p, nil
}

func (c *Client) AuthorizationURL(provider, state string) (string, error) {
	p, err := c.provider(provider)
	if err != nil {
		return "", err
	}

	params := url.Values{
		"client_id":     {p.clientID},
		"redirect_uri":  {p.redirectURI},
		"response_type": {"code"},
		"scope":         {strings.Join(p.scopes, " ")},
		"state":         {state},
	}

	return p.authorizationURL + "?" + params.Encode(), nil
}

// Exchange trades an authorization code for the provider's access
// token.
func (c *Client) Exchange(ctx context.Context, provider, code string) (string, error) {
	p, err := c.provider(provider)
	if err != nil {
		return "", err
	}

	form := url.Values{
		"client_id":     {p.clientID},
		"client_secret": {p.clientSecret},
		"code":          {code},
		"redirect_uri":  {p.redirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return "", fmt.Errorf("token exchange failed with status %d: %s", res.StatusCode, body)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}

	if payload.AccessToken == "" {
		return "", fmt.Errorf("no access token in provider response")
	}

	return payload.AccessToken, nil
}

// Identity fetches the user's profile with the provider access token.
func (c *Client) Identity(ctx context.Context, provider, accessToken string) (*auth.Identity, error) {
	p, err := c.provider(provider)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user info request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, fmt.Errorf("user info request failed with status %d: %s", res.StatusCode, body)
	}

	var payload struct {
		Sub        string `json:"sub"`
		ID         string `json:"id"`
		Email      string `json:"email"`
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding user info: %w", err)
	}

	providerUserID := payload.Sub
	if providerUserID == "" {
		providerUserID = payload.ID
	}

	return &auth.Identity{
		ProviderUserID: providerUserID,
		Email:          payload.Email,
		Name:           payload.Name,
		FirstName:      payload.GivenName,
		LastName:       payload.FamilyName,
		Picture:        payload.Picture,
		Provider:       provider,
	}, nil
}
