package entity

import (
	"time"
)

// Константы статусов экзамена
const (
	ExamStatusDraft      = "draft"
	ExamStatusScheduled  = "scheduled"
	ExamStatusInProgress = "in_progress"
	ExamStatusCompleted  = "completed"
	ExamStatusCancelled  = "cancelled"
)

// PassPercentage - порог прохождения экзамена в процентах
const PassPercentage = 50.0

// Exam представляет экзамен (тест) с набором вопросов
type Exam struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"size:100;not null" json:"title"`
	Description   string     `gorm:"size:500;not null;default:''" json:"description"`
	Subject       string     `gorm:"size:100;not null;default:''" json:"subject"`
	ScheduledTime time.Time  `gorm:"index" json:"scheduled_time"`
	DurationMin   int        `gorm:"not null;default:60" json:"duration_min"`
	Status        string     `gorm:"size:20;not null;default:'draft';index" json:"status"`
	QuestionCount int        `gorm:"not null;default:0" json:"question_count"`
	TotalMarks    float64    `gorm:"not null;default:0" json:"total_marks"`
	CreatedBy     uint       `gorm:"not null;index" json:"created_by"`
	Questions     []Question `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Exam) TableName() string {
	return "exams"
}

// IsDraft проверяет, редактируем ли ещё экзамен (вопросы можно менять только в draft)
func (e *Exam) IsDraft() bool {
	return e.Status == ExamStatusDraft
}

// IsScheduled проверяет, запланирован ли экзамен
func (e *Exam) IsScheduled() bool {
	return e.Status == ExamStatusScheduled
}

// IsCompleted проверяет, завершён ли экзамен
func (e *Exam) IsCompleted() bool {
	return e.Status == ExamStatusCompleted
}

// IsCancelled проверяет, отменён ли экзамен
func (e *Exam) IsCancelled() bool {
	return e.Status == ExamStatusCancelled
}

// Duration возвращает длительность экзамена как time.Duration
func (e *Exam) Duration() time.Duration {
	return time.Duration(e.DurationMin) * time.Minute
}

// ComputeTotalMarks суммирует веса вопросов.
// Единственный авторитетный источник total_marks: пересчитывается
// при каждом изменении набора вопросов и фиксируется при планировании.
func (e *Exam) ComputeTotalMarks() float64 {
	var total float64
	for i := range e.Questions {
		total += e.Questions[i].MarkValue()
	}
	return total
}
