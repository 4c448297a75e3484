package dto

import (
	"time"

	"github.com/yxngashy/studietid/internal/models"
)

// AddUserRequest captures the /addUser payload. Role and admin flag come
// from the caller here because this surface is an administrative action;
// the OAuth path never accepts them.
type AddUserRequest struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required,min=1"`
	LastName  string `json:"lastName" form:"lastName" validate:"required,min=1"`
	RoleID    int    `json:"idRole" form:"idRole" validate:"gte=0"`
	Email     string `json:"email" form:"email" validate:"required,email"`
}

// UpdateUserRequest updates name fields only; the email selects the row.
type UpdateUserRequest struct {
	Email     string `json:"email" form:"email" validate:"required,email"`
	FirstName string `json:"firstName" form:"firstName" validate:"required,min=1"`
	LastName  string `json:"lastName" form:"lastName" validate:"required,min=1"`
}

// DeleteUserRequest carries the composite match key for /deleteUser.
type DeleteUserRequest struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required"`
	LastName  string `json:"lastName" form:"lastName" validate:"required"`
	IsAdmin   bool   `json:"isAdmin" form:"isAdmin"`
	Email     string `json:"email" form:"email" validate:"required,email"`
}

// GetUserRequest fetches a single user by email.
type GetUserRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// UserResponse serializes a user for API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	RoleID    int       `json:"role_id"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse converts a user model into its API representation.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.PublicID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		RoleID:    user.RoleID,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
	}
}
