package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// TokenIssuer выпускает токены доступа; реализуется pkg/auth.JWTService
type TokenIssuer interface {
	GenerateToken(user *entity.User) (string, error)
}

// RegisterInput - данные регистрации нового пользователя
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       string
	Department string
}

// AuthService предоставляет методы регистрации и входа
type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register создает нового пользователя и возвращает его вместе с токеном.
// Занятые email/username дают ErrConflict.
func (s *AuthService) Register(input RegisterInput) (*entity.User, string, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, "", fmt.Errorf("username, email and password are required: %w", apperrors.ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, "", fmt.Errorf("password must be at least 8 characters: %w", apperrors.ErrValidation)
	}

	role := input.Role
	if role == "" {
		role = entity.RoleStudent
	}
	if role != entity.RoleStudent && role != entity.RoleTeacher {
		return nil, "", fmt.Errorf("unknown role %q: %w", input.Role, apperrors.ErrValidation)
	}

	user := &entity.User{
		Username:   input.Username,
		Email:      input.Email,
		Password:   input.Password, // Хешируется BeforeSave-хуком
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Role:       role,
		Department: input.Department,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, "", fmt.Errorf("email или имя пользователя уже заняты: %w", apperrors.ErrConflict)
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован пользователь ID=%d role=%s", user.ID, user.Role)
	return user, token, nil
}

// Login проверяет учётные данные и возвращает пользователя с токеном.
// Неверный email и неверный пароль дают одинаковый ErrUnauthorized -
// не раскрываем, что именно не совпало.
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("неверный email или пароль: %w", apperrors.ErrUnauthorized)
		}
		return nil, "", fmt.Errorf("failed to fetch user: %w", err)
	}

	if !user.CheckPassword(password) {
		return nil, "", fmt.Errorf("неверный email или пароль: %w", apperrors.ErrUnauthorized)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("[AuthService] Вход пользователя ID=%d", user.ID)
	return user, token, nil
}
