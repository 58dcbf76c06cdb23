package repository

import (
	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// SubmissionRepository определяет методы для работы с хранилищем решений.
// Insert обязан быть атомарным: либо запись и сопутствующие агрегаты
// сохранены целиком, либо не видно ничего.
type SubmissionRepository interface {
	// Insert сохраняет решение и обновляет агрегаты пользователя в одной транзакции.
	// Возвращает apperrors.ErrConflict при нарушении уникальности (user_id, exam_id, attempt_number).
	Insert(submission *entity.Submission) error
	GetByExam(examID uint, limit, offset int) ([]entity.Submission, int64, error)
	// GetAllByExam возвращает ВСЕ решения экзамена без пагинации (аналитика, экспорт)
	GetAllByExam(examID uint) ([]entity.Submission, error)
	GetUserSubmission(userID, examID uint) (*entity.Submission, error)
	GetByUser(userID uint, limit, offset int) ([]entity.Submission, error)
}
