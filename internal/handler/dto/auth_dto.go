package dto

import (
	"time"

	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=50"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Role       string `json:"role,omitempty"` // student (по умолчанию) или teacher
	Department string `json:"department,omitempty"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse представляет пользователя в формате для ответа клиенту
type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	ExamsTaken int64     `json:"exams_taken"`
	TotalScore float64   `json:"total_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUserResponse преобразует entity.User в UserResponse
func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       user.Role,
		Department: user.Department,
		ExamsTaken: user.ExamsTaken,
		TotalScore: user.TotalScore,
		CreatedAt:  user.CreatedAt,
	}
}

// AuthResponse представляет ответ на успешную регистрацию/вход
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
