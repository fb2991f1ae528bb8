package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiwidjaja/tokolens/internal/auth"
)

type userResponse struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	IsOAuthUser    bool      `json:"is_oauth_user"`
	CreatedAt      time.Time `json:"created_at"`
}

func toUserResponse(user *auth.User) userResponse {
	return userResponse{
		ID:             user.ID,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
		IsOAuthUser:    user.IsOAuthUser,
		CreatedAt:      user.CreatedAt,
	}
}

type loginResponse struct {
	User         userResponse `json:"user_data"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type oauthLoginResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}
