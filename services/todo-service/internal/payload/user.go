package payload

import "github.com/vasapolrittideah/todo-api/services/todo-service/internal/model"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserResponse is the only shape in which a user leaves the service.
type UserResponse struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:    user.ID.Hex(),
		Email: user.Email,
	}
}
