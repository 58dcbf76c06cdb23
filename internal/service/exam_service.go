package service

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// maxQuestionsPerExam - верхняя граница размера банка вопросов одного экзамена
const maxQuestionsPerExam = 200

// ExamService предоставляет методы для работы с экзаменами
type ExamService struct {
	examRepo repository.ExamRepository
}

// NewExamService создает новый сервис экзаменов
func NewExamService(examRepo repository.ExamRepository) *ExamService {
	return &ExamService{examRepo: examRepo}
}

// CreateExam создает новый экзамен в статусе draft
func (s *ExamService) CreateExam(title, description, subject string, scheduledTime time.Time, durationMin int, createdBy uint) (*entity.Exam, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperrors.ErrValidation)
	}
	if durationMin <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d: %w", durationMin, apperrors.ErrValidation)
	}

	exam := &entity.Exam{
		Title:         title,
		Description:   description,
		Subject:       subject,
		ScheduledTime: scheduledTime,
		DurationMin:   durationMin,
		Status:        entity.ExamStatusDraft,
		CreatedBy:     createdBy,
	}

	if err := s.examRepo.Create(exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	log.Printf("[ExamService] Создан экзамен ID=%d title=%q teacher=%d", exam.ID, exam.Title, createdBy)
	return exam, nil
}

// UploadQuestions заменяет банк вопросов экзамена.
// Разрешено только в статусе draft: после планирования ключ ответов неизменяем.
// Каждый вопрос проходит проверку инвариантов до записи - либо принимается
// весь банк, либо ничего.
func (s *ExamService) UploadQuestions(examID uint, questions []entity.Question) (*entity.Exam, error) {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return nil, err
	}

	if !exam.IsDraft() {
		return nil, fmt.Errorf("нельзя изменить вопросы экзамена в статусе %q: %w", exam.Status, apperrors.ErrConflict)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions provided", apperrors.ErrValidation)
	}
	if len(questions) > maxQuestionsPerExam {
		return nil, fmt.Errorf("%w: максимальное количество вопросов - %d", apperrors.ErrValidation, maxQuestionsPerExam)
	}

	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: question #%d: %v", apperrors.ErrValidation, i+1, err)
		}
	}

	// Пересчитываем агрегаты: единственный авторитетный источник total_marks
	exam.Questions = questions
	totalMarks := exam.ComputeTotalMarks()

	if err := s.examRepo.ReplaceQuestions(examID, questions, totalMarks); err != nil {
		log.Printf("[ExamService] Ошибка замены вопросов экзамена ID=%d: %v", examID, err)
		return nil, fmt.Errorf("failed to replace questions: %w", err)
	}

	log.Printf("[ExamService] Банк вопросов экзамена ID=%d обновлён: %d вопросов, total_marks=%.1f",
		examID, len(questions), totalMarks)

	exam.QuestionCount = len(questions)
	exam.TotalMarks = totalMarks
	return exam, nil
}

// ScheduleExam переводит экзамен draft -> scheduled и фиксирует ключ ответов
func (s *ExamService) ScheduleExam(examID uint, scheduledTime time.Time) error {
	exam, err := s.examRepo.GetWithQuestions(examID)
	if err != nil {
		return err
	}

	if !exam.IsDraft() {
		return fmt.Errorf("нельзя запланировать экзамен в статусе %q: %w", exam.Status, apperrors.ErrConflict)
	}
	if len(exam.Questions) == 0 {
		return fmt.Errorf("нельзя запланировать экзамен без вопросов: %w", apperrors.ErrValidation)
	}
	if scheduledTime.Before(time.Now()) {
		return fmt.Errorf("scheduled time must be in the future: %w", apperrors.ErrValidation)
	}

	exam.ScheduledTime = scheduledTime
	exam.Status = entity.ExamStatusScheduled
	if err := s.examRepo.Update(exam); err != nil {
		return fmt.Errorf("failed to schedule exam: %w", err)
	}

	log.Printf("[ExamService] Экзамен ID=%d запланирован на %v", examID, scheduledTime)
	return nil
}

// StartExam переводит экзамен scheduled -> in_progress
func (s *ExamService) StartExam(examID uint) error {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return err
	}
	if !exam.IsScheduled() {
		return fmt.Errorf("нельзя начать экзамен в статусе %q: %w", exam.Status, apperrors.ErrConflict)
	}
	return s.examRepo.UpdateStatus(examID, entity.ExamStatusInProgress)
}

// CompleteExam переводит экзамен in_progress -> completed
func (s *ExamService) CompleteExam(examID uint) error {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return err
	}
	if exam.Status != entity.ExamStatusInProgress {
		return fmt.Errorf("нельзя завершить экзамен в статусе %q: %w", exam.Status, apperrors.ErrConflict)
	}
	return s.examRepo.UpdateStatus(examID, entity.ExamStatusCompleted)
}

// CancelExam отменяет экзамен; завершённый экзамен отменить нельзя
func (s *ExamService) CancelExam(examID uint) error {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return err
	}
	if exam.IsCompleted() || exam.IsCancelled() {
		return fmt.Errorf("нельзя отменить экзамен в статусе %q: %w", exam.Status, apperrors.ErrConflict)
	}

	log.Printf("[ExamService] Экзамен ID=%d отменён (был в статусе %q)", examID, exam.Status)
	return s.examRepo.UpdateStatus(examID, entity.ExamStatusCancelled)
}

// GetExamByID возвращает экзамен без вопросов
func (s *ExamService) GetExamByID(examID uint) (*entity.Exam, error) {
	return s.examRepo.GetByID(examID)
}

// GetExamWithQuestions возвращает экзамен с вопросами.
// Поле correct_answer скрыто от клиента на уровне сериализации (json:"-"),
// поэтому результат безопасно отдавать студентам.
func (s *ExamService) GetExamWithQuestions(examID uint) (*entity.Exam, error) {
	return s.examRepo.GetWithQuestions(examID)
}

// ListExams возвращает список экзаменов с фильтрацией и пагинацией
func (s *ExamService) ListExams(page, pageSize int, filters repository.ExamFilters) ([]entity.Exam, int64, error) {
	offset := (page - 1) * pageSize
	return s.examRepo.ListWithFilters(pageSize, offset, filters)
}
