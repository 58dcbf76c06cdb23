package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Статусы ответа на отдельный вопрос
const (
	AnswerStatusAnswered    = "answered"
	AnswerStatusNotAnswered = "not-answered"
)

// NotAnsweredText - сентинел, записываемый в вердикт вместо пустого ответа
const NotAnsweredText = "Not Answered"

// Статус отправленного решения
const (
	SubmissionStatusCompleted = "completed"
)

// AnswerVerdict - производный результат проверки одного вопроса.
// Ровно один вердикт на каждый вопрос ключа ответов, в порядке ключа.
type AnswerVerdict struct {
	QuestionID      uint   `json:"question_id"`
	SubmittedAnswer string `json:"submitted_answer"`
	IsCorrect       bool   `json:"is_correct"`
	Status          string `json:"status"` // answered | not-answered
}

// VerdictList - пользовательский тип для хранения вердиктов в JSONB
type VerdictList []AnswerVerdict

// Scan реализует интерфейс sql.Scanner для VerdictList
func (v *VerdictList) Scan(value interface{}) error {
	if value == nil {
		*v = VerdictList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*v = VerdictList{}
		return nil
	}

	return json.Unmarshal(bytes, v)
}

// Value реализует интерфейс driver.Valuer для VerdictList
func (v VerdictList) Value() (driver.Value, error) {
	if v == nil || len(v) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(v)
}

// SubmissionMetadata - опциональные клиентские метаданные запроса
type SubmissionMetadata struct {
	ScreenResolution string `json:"screen_resolution,omitempty"`
	Timezone         string `json:"timezone,omitempty"`
}

// Scan реализует интерфейс sql.Scanner для SubmissionMetadata
func (m *SubmissionMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = SubmissionMetadata{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*m = SubmissionMetadata{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// Value реализует интерфейс driver.Valuer для SubmissionMetadata
func (m SubmissionMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Submission представляет результат одной попытки сдачи экзамена.
// Запись создаётся ровно один раз оркестратором отправки и после этого
// никогда не изменяется (append-only журнал для аудита).
// Уникальный индекс (user_id, exam_id, attempt_number) защищает от двойной отправки.
type Submission struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        uint        `gorm:"not null;index;uniqueIndex:idx_user_exam_attempt" json:"user_id"`
	ExamID        uint        `gorm:"not null;index;uniqueIndex:idx_user_exam_attempt" json:"exam_id"`
	AttemptNumber int         `gorm:"not null;default:1;uniqueIndex:idx_user_exam_attempt" json:"attempt_number"`
	Score         float64     `gorm:"not null;default:0" json:"score"`
	TotalMarks    float64     `gorm:"not null;default:0" json:"total_marks"`
	Answers       VerdictList `gorm:"type:jsonb;not null" json:"answers"`
	Status        string      `gorm:"size:20;not null;default:'completed'" json:"status"`

	StartTime    time.Time `gorm:"not null" json:"start_time"`
	EndTime      time.Time `gorm:"not null" json:"end_time"`
	SubmittedAt  time.Time `gorm:"not null" json:"submitted_at"`
	TimeTakenSec int64     `gorm:"not null;default:0" json:"time_taken_sec"`
	DurationMin  int       `gorm:"not null;default:0" json:"duration_min"`

	Percentage float64 `gorm:"not null;default:0" json:"percentage"`
	IsPassed   bool    `gorm:"not null;default:false" json:"is_passed"`

	IPAddress       string             `gorm:"size:45;not null;default:''" json:"ip_address"`
	UserAgent       string             `gorm:"size:255;not null;default:''" json:"user_agent"`
	IsAutoSubmitted bool               `gorm:"not null;default:false" json:"is_auto_submitted"`
	WarningCount    int                `gorm:"not null;default:0" json:"warning_count"`
	Metadata        SubmissionMetadata `gorm:"type:jsonb" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Submission) TableName() string {
	return "submissions"
}

// AnsweredCount возвращает количество отвеченных вопросов
func (s *Submission) AnsweredCount() int {
	count := 0
	for i := range s.Answers {
		if s.Answers[i].Status == AnswerStatusAnswered {
			count++
		}
	}
	return count
}

// CorrectCount возвращает количество правильных ответов
func (s *Submission) CorrectCount() int {
	count := 0
	for i := range s.Answers {
		if s.Answers[i].IsCorrect {
			count++
		}
	}
	return count
}
