package postgres

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/examportal-api/internal/domain/entity"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// SubmissionRepo реализует repository.SubmissionRepository
type SubmissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo создает новый репозиторий решений
func NewSubmissionRepo(db *gorm.DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

// Insert сохраняет решение и обновляет агрегаты пользователя (exams_taken, total_score)
// в одной транзакции: либо видно всё, либо ничего.
// Нарушение уникального индекса (user_id, exam_id, attempt_number) транслируется
// в apperrors.ErrConflict - так ловится двойная отправка на уровне базы.
func (r *SubmissionRepo) Insert(submission *entity.Submission) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}

		// Агрегаты обновляем атомарно через gorm.Expr, без read-modify-write
		return tx.Model(&entity.User{}).
			Where("id = ?", submission.UserID).
			Updates(map[string]interface{}{
				"exams_taken": gorm.Expr("exams_taken + 1"),
				"total_score": gorm.Expr("total_score + ?", submission.Score),
			}).Error
	})

	if err != nil {
		if isUniqueViolation(err) {
			log.Printf("[SubmissionRepo] Повторная отправка: user=%d exam=%d attempt=%d",
				submission.UserID, submission.ExamID, submission.AttemptNumber)
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// GetByExam возвращает решения экзамена с пагинацией, отсортированные по баллу
func (r *SubmissionRepo) GetByExam(examID uint, limit, offset int) ([]entity.Submission, int64, error) {
	var submissions []entity.Submission
	var total int64

	// Транзакция для согласованности чтения списка и общего количества
	tx := r.db.Begin()
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	if err := tx.Model(&entity.Submission{}).Where("exam_id = ?", examID).Count(&total).Error; err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err := tx.Where("exam_id = ?", examID).
		Order("score DESC, time_taken_sec ASC").
		Limit(limit).
		Offset(offset).
		Find(&submissions).Error; err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

// GetAllByExam возвращает ВСЕ решения экзамена без пагинации.
// Используется аналитикой и экспортом, где нужна полная картина.
func (r *SubmissionRepo) GetAllByExam(examID uint) ([]entity.Submission, error) {
	var submissions []entity.Submission
	err := r.db.Where("exam_id = ?", examID).
		Order("score DESC, time_taken_sec ASC").
		Find(&submissions).Error
	// Пустой слайс - валидный результат, ErrRecordNotFound здесь не проверяем
	return submissions, err
}

// GetUserSubmission возвращает последнюю попытку пользователя для конкретного экзамена
func (r *SubmissionRepo) GetUserSubmission(userID, examID uint) (*entity.Submission, error) {
	var submission entity.Submission
	err := r.db.Where("user_id = ? AND exam_id = ?", userID, examID).
		Order("attempt_number DESC").
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// GetByUser возвращает все решения пользователя с пагинацией
func (r *SubmissionRepo) GetByUser(userID uint, limit, offset int) ([]entity.Submission, error) {
	var submissions []entity.Submission
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&submissions).Error
	return submissions, err
}
