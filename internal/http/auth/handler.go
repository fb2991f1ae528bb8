package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/adiwidjaja/tokolens/internal/activity"
	"github.com/adiwidjaja/tokolens/internal/auth"
)

type Handler struct {
	svc              *auth.Service
	log              activity.Logger
	accessTTL        time.Duration
	refreshTTL       time.Duration
	frontendCallback string
}

func NewHandler(svc *auth.Service, log activity.Logger, accessTTL, refreshTTL time.Duration, frontendCallback string) *Handler {
	return &Handler{
		svc:              svc,
		log:              log,
		accessTTL:        accessTTL,
		refreshTTL:       refreshTTL,
		frontendCallback: frontendCallback,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/refresh-token", h.refresh)
	r.Get("/oauth/{provider}/login", h.oauthLogin)
	r.Get("/oauth/{provider}/callback", h.oauthCallback)
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Register(r.Context(), auth.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}

		slog.Error("failed to register user", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.log.Log(r.Context(), activity.Entry{
		Action:  activity.ActionCreate,
		Details: map[string]any{"email_user": user.Email, "first_name": user.FirstName, "last_name": user.LastName},
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toUserResponse(user)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		case errors.Is(err, auth.ErrInvalidCredentials):
			http.Error(w, "invalid password", http.StatusUnauthorized)
		default:
			slog.Error("login failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	userID := result.User.ID.String()

	h.log.Log(r.Context(), activity.Entry{
		UserID:   &userID,
		LastName: &result.User.LastName,
		Action:   activity.ActionCreate,
		Details:  map[string]any{"email_user": result.User.Email},
	})

	h.setTokenCookies(w, result.Tokens)

	writeJSON(w, loginResponse{
		User:         toUserResponse(result.User),
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		http.Error(w, "refresh token not found", http.StatusUnauthorized)
		return
	}

	pair, err := h.svc.Refresh(r.Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			http.Error(w, "invalid or expired refresh token", http.StatusUnauthorized)
		case errors.Is(err, auth.ErrUserNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		default:
			slog.Error("token refresh failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	h.setTokenCookies(w, *pair)

	writeJSON(w, pair)
}

func (h *Handler) oauthLogin(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	authURL, state, err := h.svc.OAuthBegin(r.Context(), provider)
	if err != nil {
		if errors.Is(err, auth.ErrUnsupportedProvider) {
			http.Error(w, "unsupported oauth provider", http.StatusBadRequest)
			return
		}

		slog.Error("failed to initiate oauth", "error", err, "provider", provider)
		http.Error(w, "failed to initiate oauth", http.StatusInternalServerError)

		return
	}

	writeJSON(w, oauthLoginResponse{AuthorizationURL: authURL, State: state})
}

func (h *Handler) oauthCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	if code == "" || state == "" {
		http.Error(w, "code and state are required", http.StatusBadRequest)
		return
	}

	result, err := h.svc.OAuthCallback(r.Context(), provider, code, state)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidState):
			http.Error(w, "invalid state parameter", http.StatusBadRequest)
		case errors.Is(err, auth.ErrUnsupportedProvider):
			http.Error(w, "unsupported oauth provider", http.StatusBadRequest)
		default:
			slog.Error("oauth callback failed", "error", err, "provider", provider)
			http.Error(w, "oauth callback failed", http.StatusInternalServerError)
		}

		return
	}

	h.setTokenCookies(w, result.Tokens)

	params := url.Values{
		"access_token":  {result.Tokens.AccessToken},
		"refresh_token": {result.Tokens.RefreshToken},
	}

	http.Redirect(w, r, h.frontendCallback+"?"+params.Encode(), http.StatusTemporaryRedirect)
}

// setTokenCookies attaches both tokens. The refresh cookie is marked
// Secure; it outlives the access cookie by days and must never travel
// in clear.
func (h *Handler) setTokenCookies(w http.ResponseWriter, pair auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.accessTTL.Seconds()),
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.refreshTTL.Seconds()),
	})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
