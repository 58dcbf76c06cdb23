package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Роли пользователей
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User представляет пользователя в системе (студент или преподаватель)
type User struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Username   string  `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email      string  `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password   string  `gorm:"size:100;not null" json:"-"`
	FirstName  string  `gorm:"size:100;not null;default:''" json:"first_name"`
	LastName   string  `gorm:"size:100;not null;default:''" json:"last_name"`
	Role       string  `gorm:"size:20;not null;default:'student'" json:"role"` // "student" или "teacher"
	Department string  `gorm:"size:100;not null;default:''" json:"department"`
	ExamsTaken int64   `gorm:"not null;default:0" json:"exams_taken"`
	TotalScore float64 `gorm:"not null;default:0" json:"total_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// IsTeacher проверяет, является ли пользователь преподавателем
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
