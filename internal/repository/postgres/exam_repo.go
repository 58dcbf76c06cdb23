package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// ExamRepo реализует repository.ExamRepository
type ExamRepo struct {
	db *gorm.DB
}

// NewExamRepo создает новый репозиторий экзаменов
func NewExamRepo(db *gorm.DB) *ExamRepo {
	return &ExamRepo{db: db}
}

// Create создает новый экзамен
func (r *ExamRepo) Create(exam *entity.Exam) error {
	return r.db.Create(exam).Error
}

// GetByID возвращает экзамен по ID без вопросов
func (r *ExamRepo) GetByID(id uint) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.First(&exam, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// GetWithQuestions возвращает экзамен вместе с вопросами (включая ключ ответов).
// Вопросы загружаются в порядке создания - этот порядок определяет порядок вердиктов.
func (r *ExamRepo) GetWithQuestions(id uint) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id ASC")
	}).First(&exam, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// Update обновляет информацию об экзамене
func (r *ExamRepo) Update(exam *entity.Exam) error {
	return r.db.Save(exam).Error
}

// List возвращает список экзаменов с пагинацией и total count
func (r *ExamRepo) List(limit, offset int) ([]entity.Exam, int64, error) {
	return r.ListWithFilters(limit, offset, repository.ExamFilters{})
}

// ListWithFilters возвращает список экзаменов с фильтрами и total count
func (r *ExamRepo) ListWithFilters(limit, offset int, filters repository.ExamFilters) ([]entity.Exam, int64, error) {
	var exams []entity.Exam
	var total int64

	// Строим базовый запрос
	query := r.db.Model(&entity.Exam{})

	// Применяем фильтры
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.Search != "" {
		search := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR subject ILIKE ?", search, search, search)
	}

	if filters.DateFrom != nil {
		query = query.Where("scheduled_time >= ?", *filters.DateFrom)
	}

	if filters.DateTo != nil {
		query = query.Where("scheduled_time <= ?", *filters.DateTo)
	}

	// Получаем total count
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Без фильтров сохраняем порядок по id DESC, с фильтрами - по времени проведения
	orderBy := "id DESC"
	if filters.Status != "" || filters.Search != "" || filters.DateFrom != nil || filters.DateTo != nil {
		orderBy = "scheduled_time DESC"
	}

	err := query.Limit(limit).Offset(offset).Order(orderBy).Find(&exams).Error
	if err != nil {
		return nil, 0, err
	}

	return exams, total, nil
}

// ReplaceQuestions атомарно заменяет набор вопросов экзамена и обновляет агрегаты.
// Используется при загрузке банка вопросов: старые вопросы удаляются,
// новые вставляются, question_count и total_marks обновляются в одной транзакции.
func (r *ExamRepo) ReplaceQuestions(examID uint, questions []entity.Question, totalMarks float64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exam_id = ?", examID).Delete(&entity.Question{}).Error; err != nil {
			return err
		}

		for i := range questions {
			questions[i].ID = 0 // Новые записи, ID назначает база
			questions[i].ExamID = examID
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}

		return tx.Model(&entity.Exam{}).
			Where("id = ?", examID).
			Updates(map[string]interface{}{
				"question_count": len(questions),
				"total_marks":    totalMarks,
			}).Error
	})
}

// UpdateStatus обновляет статус экзамена
func (r *ExamRepo) UpdateStatus(examID uint, status string) error {
	return r.db.Model(&entity.Exam{}).
		Where("id = ?", examID).
		Update("status", status).
		Error
}
