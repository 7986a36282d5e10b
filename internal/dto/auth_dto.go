package dto

import (
	"time"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// SignupRequest registers a new account.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email,max=255"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=teacher student"`
}

// LoginRequest authenticates with a username or an email address.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"user_role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned after a successful login.
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// NewUserResponse converts a user model into its public view.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:        model.ID,
		Username:  model.Username,
		Email:     model.Email,
		FullName:  model.FullName,
		Role:      string(model.Role),
		CreatedAt: model.CreatedAt,
	}
}
