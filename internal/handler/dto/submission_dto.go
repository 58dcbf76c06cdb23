package dto

import (
	"time"

	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// RawAnswerRequest - ответ студента на один вопрос
type RawAnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	AnswerText string `json:"answer_text"`
}

// SubmitRequest представляет запрос на отправку решения
type SubmitRequest struct {
	Answers []RawAnswerRequest `json:"answers"`
	// StartTime - клиентская отметка начала экзамена (опционально)
	StartTime       *time.Time `json:"start_time,omitempty"`
	IsAutoSubmitted bool       `json:"is_auto_submitted,omitempty"`
	// WarningCount - предупреждения мониторинга по версии клиента
	WarningCount     int    `json:"warning_count,omitempty"`
	ScreenResolution string `json:"screen_resolution,omitempty"`
	Timezone         string `json:"timezone,omitempty"`
}

// SubmissionResponse представляет решение в формате для ответа клиенту
type SubmissionResponse struct {
	ID              uint                   `json:"id"`
	UserID          uint                   `json:"user_id"`
	ExamID          uint                   `json:"exam_id"`
	AttemptNumber   int                    `json:"attempt_number"`
	Score           float64                `json:"score"`
	TotalMarks      float64                `json:"total_marks"`
	Percentage      float64                `json:"percentage"`
	IsPassed        bool                   `json:"is_passed"`
	Status          string                 `json:"status"`
	Answers         []entity.AnswerVerdict `json:"answers,omitempty"`
	StartTime       time.Time              `json:"start_time"`
	EndTime         time.Time              `json:"end_time"`
	SubmittedAt     time.Time              `json:"submitted_at"`
	TimeTakenSec    int64                  `json:"time_taken_sec"`
	IsAutoSubmitted bool                   `json:"is_auto_submitted"`
	WarningCount    int                    `json:"warning_count"`
}

// NewSubmissionResponse преобразует entity.Submission в SubmissionResponse
func NewSubmissionResponse(s *entity.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		ExamID:          s.ExamID,
		AttemptNumber:   s.AttemptNumber,
		Score:           s.Score,
		TotalMarks:      s.TotalMarks,
		Percentage:      s.Percentage,
		IsPassed:        s.IsPassed,
		Status:          s.Status,
		Answers:         s.Answers,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		SubmittedAt:     s.SubmittedAt,
		TimeTakenSec:    s.TimeTakenSec,
		IsAutoSubmitted: s.IsAutoSubmitted,
		WarningCount:    s.WarningCount,
	}
}

// SubmissionListResponse представляет страницу списка решений
type SubmissionListResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
}
