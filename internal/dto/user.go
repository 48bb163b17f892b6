package dto

import (
	"time"

	"github.com/yukikurage/task-manager-api/internal/models"
)

// UserDTO represents a user in API responses. It never carries the
// password hash, session tokens or avatar bytes.
type UserDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResponse is returned by registration and login
type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Age:       user.Age,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToAuthResponse pairs a user with a freshly issued token
func ToAuthResponse(user models.User, token string) AuthResponse {
	return AuthResponse{
		User:  ToUserDTO(user),
		Token: token,
	}
}
