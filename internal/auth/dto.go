package auth

import "github.com/ananyakrishnan/safarnama-backend/internal/users"

// SignupRequest carries the fields a traveler submits to create an account.
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,max=128"`
	DisplayName string `json:"display_name" validate:"omitempty,max=80"`
	Language    string `json:"language" validate:"omitempty,oneof=en hi"`
}

// LoginRequest carries the credentials submitted on login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// RefreshRequest rotates a session using the expired access token and its
// paired refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenPair is the minted access/refresh pair returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned on signup and login: the public user plus tokens.
type AuthResponse struct {
	User   *users.UserDTO `json:"user"`
	Tokens TokenPair      `json:"tokens"`
}
