package repository

import (
	"time"

	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// ExamFilters - фильтры для списка экзаменов
type ExamFilters struct {
	Status   string // draft, scheduled, in_progress, completed, cancelled
	Search   string // Поиск по title/description
	DateFrom *time.Time
	DateTo   *time.Time
}

// ExamRepository определяет методы для работы с хранилищем экзаменов
type ExamRepository interface {
	Create(exam *entity.Exam) error
	GetByID(id uint) (*entity.Exam, error)
	// GetWithQuestions возвращает экзамен вместе с ключом ответов (вопросы в порядке создания)
	GetWithQuestions(id uint) (*entity.Exam, error)
	Update(exam *entity.Exam) error
	List(limit, offset int) ([]entity.Exam, int64, error)
	ListWithFilters(limit, offset int, filters ExamFilters) ([]entity.Exam, int64, error)
	// ReplaceQuestions атомарно заменяет набор вопросов экзамена и пересчитанные агрегаты
	ReplaceQuestions(examID uint, questions []entity.Question, totalMarks float64) error
	UpdateStatus(examID uint, status string) error
}
