package dto

import (
	"time"

	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// CreateExamRequest представляет запрос на создание экзамена
type CreateExamRequest struct {
	Title         string    `json:"title" binding:"required,min=3,max=100"`
	Description   string    `json:"description,omitempty" binding:"max=500"`
	Subject       string    `json:"subject,omitempty" binding:"max=100"`
	ScheduledTime time.Time `json:"scheduled_time,omitempty"`
	DurationMin   int       `json:"duration_min" binding:"required,min=1,max=480"`
}

// QuestionUpload - один вопрос банка при массовой загрузке
type QuestionUpload struct {
	Text          string   `json:"text" binding:"required,min=3,max=1000"`
	Type          string   `json:"type" binding:"required"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer []string `json:"correct_answer" binding:"required,min=1"`
	Mark          float64  `json:"mark,omitempty"` // По умолчанию 1
}

// UploadQuestionsRequest представляет запрос на загрузку банка вопросов
type UploadQuestionsRequest struct {
	Questions []QuestionUpload `json:"questions" binding:"required,min=1"`
}

// ScheduleExamRequest представляет запрос на планирование экзамена
type ScheduleExamRequest struct {
	ScheduledTime time.Time `json:"scheduled_time" binding:"required"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту.
// Правильный ответ намеренно отсутствует.
type QuestionResponse struct {
	ID      uint     `json:"id"`
	ExamID  uint     `json:"exam_id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options"`
	Mark    float64  `json:"mark"`
}

// NewQuestionResponse преобразует entity.Question в QuestionResponse
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	return QuestionResponse{
		ID:      q.ID,
		ExamID:  q.ExamID,
		Text:    q.Text,
		Type:    string(q.Type),
		Options: q.Options,
		Mark:    q.MarkValue(),
	}
}

// ExamResponse представляет экзамен в формате для ответа клиенту
type ExamResponse struct {
	ID            uint               `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Subject       string             `json:"subject,omitempty"`
	ScheduledTime time.Time          `json:"scheduled_time"`
	DurationMin   int                `json:"duration_min"`
	Status        string             `json:"status"`
	QuestionCount int                `json:"question_count"`
	TotalMarks    float64            `json:"total_marks"`
	CreatedBy     uint               `json:"created_by"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewExamResponse преобразует entity.Exam в ExamResponse
func NewExamResponse(exam *entity.Exam) ExamResponse {
	resp := ExamResponse{
		ID:            exam.ID,
		Title:         exam.Title,
		Description:   exam.Description,
		Subject:       exam.Subject,
		ScheduledTime: exam.ScheduledTime,
		DurationMin:   exam.DurationMin,
		Status:        exam.Status,
		QuestionCount: exam.QuestionCount,
		TotalMarks:    exam.TotalMarks,
		CreatedBy:     exam.CreatedBy,
		CreatedAt:     exam.CreatedAt,
		UpdatedAt:     exam.UpdatedAt,
	}
	for i := range exam.Questions {
		resp.Questions = append(resp.Questions, NewQuestionResponse(&exam.Questions[i]))
	}
	return resp
}

// ExamListResponse представляет страницу списка экзаменов
type ExamListResponse struct {
	Exams    []ExamResponse `json:"exams"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}
