package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
	"github.com/yourusername/examportal-api/internal/service/scoring"
)

// Clock - источник серверного времени для оркестратора отправки.
// Выделен в интерфейс, чтобы тесты могли подставить фиксированное время.
type Clock interface {
	Now() time.Time
}

// systemClock - боевая реализация Clock поверх time.Now
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock возвращает Clock на основе системных часов
func SystemClock() Clock { return systemClock{} }

// MonitorNotifier уведомляет подписчиков мониторинга о событиях экзамена.
// Реализуется websocket-хабом; nil-безопасные вызовы через notify().
type MonitorNotifier interface {
	NotifySubmission(examID uint, event interface{})
}

// RequestMeta - метаданные HTTP-запроса, передаваемые хендлером
type RequestMeta struct {
	IPAddress        string
	UserAgent        string
	ScreenResolution string
	Timezone         string
}

// SubmitInput - входные данные одной отправки решения
type SubmitInput struct {
	ExamID     uint
	UserID     uint
	RawAnswers []scoring.RawAnswer
	// ClientStartTime - клиентская отметка начала экзамена; опциональна и
	// используется только как маркер старта, никогда для вычисления "сейчас"
	ClientStartTime *time.Time
	IsAutoSubmitted bool
	// WarningCount - количество предупреждений анти-чит мониторинга по версии клиента
	WarningCount int
	Meta         RequestMeta
}

// SubmitSummary - сводная проекция результата, возвращаемая студенту
type SubmitSummary struct {
	SubmissionID   uint    `json:"submission_id"`
	Score          float64 `json:"score"`
	TotalMarks     float64 `json:"total_marks"`
	Percentage     float64 `json:"percentage"`
	IsPassed       bool    `json:"is_passed"`
	TimeTakenSec   int64   `json:"time_taken_sec"`
	AnsweredCount  int     `json:"answered_count"`
	CorrectCount   int     `json:"correct_count"`
	TotalQuestions int     `json:"total_questions"`
}

// SubmissionService - оркестратор отправки решений.
// Единственное авторитетное место вычисления score/percentage/timeTaken:
// сущность Submission только хранит значения и никогда не пересчитывает их.
type SubmissionService struct {
	examRepo       repository.ExamRepository
	submissionRepo repository.SubmissionRepository
	cacheRepo      repository.CacheRepository
	clock          Clock
	notifier       MonitorNotifier
}

// NewSubmissionService создает новый сервис отправки решений
func NewSubmissionService(
	examRepo repository.ExamRepository,
	submissionRepo repository.SubmissionRepository,
	cacheRepo repository.CacheRepository,
	clock Clock,
	notifier MonitorNotifier,
) *SubmissionService {
	if clock == nil {
		clock = SystemClock()
	}
	return &SubmissionService{
		examRepo:       examRepo,
		submissionRepo: submissionRepo,
		cacheRepo:      cacheRepo,
		clock:          clock,
		notifier:       notifier,
	}
}

// submitGuardKey - ключ redis-замка от двойной отправки
func submitGuardKey(userID, examID uint) string {
	return fmt.Sprintf("submission:guard:%d:%d", userID, examID)
}

// warningCountKey - ключ серверного счётчика предупреждений мониторинга
func warningCountKey(userID, examID uint) string {
	return fmt.Sprintf("exam:warnings:%d:%d", userID, examID)
}

// Submit проверяет решение студента и сохраняет итоговую запись.
//
// Порядок шагов фиксирован: загрузка ключа ответов (ErrNotFound, если экзамена
// нет), проверка движком, вычисление времени от серверных часов, redis-замок от
// двойной отправки, атомарная запись. Нарушение уникальности в базе - вторая
// линия защиты от дублей, если redis недоступен.
func (s *SubmissionService) Submit(input SubmitInput) (*entity.Submission, *SubmitSummary, error) {
	// Шаг 1: ключ ответов
	exam, err := s.examRepo.GetWithQuestions(input.ExamID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("экзамен с ID %d не найден: %w", input.ExamID, apperrors.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("ошибка получения экзамена: %w", err)
	}
	if len(exam.Questions) == 0 {
		return nil, nil, fmt.Errorf("экзамен %d не содержит вопросов: %w", input.ExamID, apperrors.ErrValidation)
	}

	// Шаг 2: проверка движком (чистое вычисление, без I/O)
	outcome := scoring.Score(exam.Questions, input.RawAnswers)

	// Шаг 3-4: время. Серверные часы - единственный источник истины для endTime;
	// клиентская отметка используется только как маркер начала.
	now := s.clock.Now()
	startTime := now.Add(-exam.Duration()) // best-effort, если клиент не прислал старт
	if input.ClientStartTime != nil && !input.ClientStartTime.IsZero() {
		startTime = *input.ClientStartTime
	}
	endTime := now

	// Шаг 5: затраченное время; отрицательное из-за рассинхрона часов клампится в 0
	timeTakenSec := int64(endTime.Sub(startTime).Seconds())
	if timeTakenSec < 0 {
		log.Printf("[SubmissionService] Отрицательное время у user=%d exam=%d (start=%v, end=%v), клампим в 0",
			input.UserID, input.ExamID, startTime, endTime)
		timeTakenSec = 0
	}

	// Серверный счётчик предупреждений имеет приоритет над клиентским:
	// берём максимум из двух источников
	warningCount := input.WarningCount
	if serverCount := s.serverWarningCount(input.UserID, input.ExamID); serverCount > warningCount {
		warningCount = serverCount
	}

	percentage := 0.0
	if outcome.TotalMarks > 0 {
		percentage = outcome.TotalScore / outcome.TotalMarks * 100
	}

	submission := &entity.Submission{
		UserID:        input.UserID,
		ExamID:        input.ExamID,
		AttemptNumber: 1,
		Score:         outcome.TotalScore,
		TotalMarks:    outcome.TotalMarks,
		Answers:       outcome.Verdicts,
		Status:        entity.SubmissionStatusCompleted,

		StartTime:    startTime,
		EndTime:      endTime,
		SubmittedAt:  now,
		TimeTakenSec: timeTakenSec,
		DurationMin:  exam.DurationMin,

		Percentage: percentage,
		IsPassed:   percentage >= entity.PassPercentage,

		IPAddress:       input.Meta.IPAddress,
		UserAgent:       input.Meta.UserAgent,
		IsAutoSubmitted: input.IsAutoSubmitted,
		WarningCount:    warningCount,
		Metadata: entity.SubmissionMetadata{
			ScreenResolution: input.Meta.ScreenResolution,
			Timezone:         input.Meta.Timezone,
		},
	}

	// Redis-замок: первая линия защиты от двойной отправки.
	// При недоступном redis полагаемся на уникальный индекс базы.
	guardAcquired := false
	if s.cacheRepo != nil {
		guardTTL := exam.Duration() + time.Hour
		acquired, guardErr := s.cacheRepo.SetNX(submitGuardKey(input.UserID, input.ExamID), now.Unix(), guardTTL)
		if guardErr != nil {
			log.Printf("[SubmissionService] Redis недоступен для замка отправки (user=%d exam=%d): %v",
				input.UserID, input.ExamID, guardErr)
		} else if !acquired {
			return nil, nil, fmt.Errorf("решение по экзамену %d уже отправлено: %w", input.ExamID, apperrors.ErrConflict)
		} else {
			guardAcquired = true
		}
	}

	// Шаг 7: атомарная запись (решение + агрегаты пользователя в одной транзакции)
	if err := s.submissionRepo.Insert(submission); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, nil, fmt.Errorf("решение по экзамену %d уже отправлено: %w", input.ExamID, apperrors.ErrConflict)
		}
		// Транзиентная ошибка хранилища: освобождаем замок, иначе повторная
		// отправка студента будет отклонена как дубль без сохранённой записи.
		// Жёсткая гарантия "не более одного решения" остаётся за уникальным индексом.
		if guardAcquired {
			if delErr := s.cacheRepo.Delete(submitGuardKey(input.UserID, input.ExamID)); delErr != nil {
				log.Printf("[SubmissionService] Не удалось освободить замок отправки после ошибки записи (user=%d exam=%d): %v",
					input.UserID, input.ExamID, delErr)
			}
		}
		return nil, nil, fmt.Errorf("ошибка сохранения решения: %w", err)
	}

	log.Printf("[SubmissionService] Решение сохранено: user=%d exam=%d score=%.1f/%.1f passed=%v auto=%v",
		input.UserID, input.ExamID, submission.Score, submission.TotalMarks, submission.IsPassed, submission.IsAutoSubmitted)

	s.notifySubmission(exam.ID, submission)

	summary := &SubmitSummary{
		SubmissionID:   submission.ID,
		Score:          submission.Score,
		TotalMarks:     submission.TotalMarks,
		Percentage:     submission.Percentage,
		IsPassed:       submission.IsPassed,
		TimeTakenSec:   submission.TimeTakenSec,
		AnsweredCount:  outcome.AnsweredCount,
		CorrectCount:   outcome.CorrectCount,
		TotalQuestions: len(exam.Questions),
	}
	return submission, summary, nil
}

// RegisterWarning увеличивает серверный счётчик предупреждений мониторинга
// (выход из fullscreen, переключение вкладки). Возвращает новое значение.
func (s *SubmissionService) RegisterWarning(userID, examID uint) (int64, error) {
	if s.cacheRepo == nil {
		return 0, fmt.Errorf("warning counter is unavailable: %w", apperrors.ErrPersistence)
	}

	key := warningCountKey(userID, examID)
	count, err := s.cacheRepo.Increment(key)
	if err != nil {
		return 0, fmt.Errorf("ошибка увеличения счётчика предупреждений: %w", err)
	}

	// Счётчик живёт сутки - достаточно на любой экзамен с запасом
	if count == 1 {
		if err := s.cacheRepo.ExpireAt(key, s.clock.Now().Add(24*time.Hour)); err != nil {
			log.Printf("[SubmissionService] Не удалось установить TTL счётчика предупреждений %s: %v", key, err)
		}
	}

	log.Printf("[SubmissionService] Предупреждение мониторинга: user=%d exam=%d count=%d", userID, examID, count)
	return count, nil
}

// serverWarningCount читает серверный счётчик предупреждений; 0 при любой ошибке
func (s *SubmissionService) serverWarningCount(userID, examID uint) int {
	if s.cacheRepo == nil {
		return 0
	}
	val, err := s.cacheRepo.Get(warningCountKey(userID, examID))
	if err != nil {
		return 0
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return count
}

// notifySubmission шлёт событие в хаб мониторинга; ошибки хаба не влияют на отправку
func (s *SubmissionService) notifySubmission(examID uint, submission *entity.Submission) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifySubmission(examID, map[string]interface{}{
		"type":          "submission",
		"user_id":       submission.UserID,
		"exam_id":       submission.ExamID,
		"score":         submission.Score,
		"total_marks":   submission.TotalMarks,
		"is_passed":     submission.IsPassed,
		"is_auto":       submission.IsAutoSubmitted,
		"warning_count": submission.WarningCount,
		"submitted_at":  submission.SubmittedAt,
	})
}

// GetUserSubmission возвращает последнюю попытку пользователя для экзамена
func (s *SubmissionService) GetUserSubmission(userID, examID uint) (*entity.Submission, error) {
	return s.submissionRepo.GetUserSubmission(userID, examID)
}

// GetExamSubmissions возвращает решения экзамена с пагинацией
func (s *SubmissionService) GetExamSubmissions(examID uint, page, pageSize int) ([]entity.Submission, int64, error) {
	offset := (page - 1) * pageSize
	return s.submissionRepo.GetByExam(examID, pageSize, offset)
}

// GetAllExamSubmissions возвращает все решения экзамена (аналитика, экспорт)
func (s *SubmissionService) GetAllExamSubmissions(examID uint) ([]entity.Submission, error) {
	return s.submissionRepo.GetAllByExam(examID)
}

// GetUserSubmissions возвращает историю решений пользователя
func (s *SubmissionService) GetUserSubmissions(userID uint, page, pageSize int) ([]entity.Submission, error) {
	offset := (page - 1) * pageSize
	return s.submissionRepo.GetByUser(userID, pageSize, offset)
}
