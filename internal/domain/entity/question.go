package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// QuestionType - закрытый набор типов вопросов.
// Тип определяет интерпретацию correct_answer и формат ответа студента.
type QuestionType string

const (
	// QuestionTypeSingleSelect - один правильный вариант, correct_answer = одна буква ("A").
	QuestionTypeSingleSelect QuestionType = "single-select"
	// QuestionTypeMultiSelect - несколько правильных вариантов, correct_answer = набор букв.
	QuestionTypeMultiSelect QuestionType = "multi-select"
	// QuestionTypeNumerical - числовой ответ, correct_answer = каноническая строка ("42").
	QuestionTypeNumerical QuestionType = "numerical"
)

// IsValid проверяет, что тип вопроса входит в закрытый набор
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeSingleSelect, QuestionTypeMultiSelect, QuestionTypeNumerical:
		return true
	}
	return false
}

// Question представляет вопрос экзамена.
// После планирования экзамена вопросы неизменяемы (ключ ответов фиксируется).
type Question struct {
	ID     uint         `gorm:"primaryKey" json:"id"`
	ExamID uint         `gorm:"not null;index" json:"exam_id"`
	Text   string       `gorm:"size:1000;not null" json:"text"`
	Type   QuestionType `gorm:"size:20;not null" json:"type"`
	// Options - варианты ответа (пусто для numerical)
	Options StringArray `gorm:"type:jsonb;not null" json:"options"`
	// CorrectAnswer - буквы правильных вариантов для select-типов
	// или каноническая строка для numerical. Скрыто от клиента.
	CorrectAnswer StringArray `gorm:"type:jsonb;not null" json:"-"`
	Mark          float64     `gorm:"not null;default:1" json:"mark"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// MarkValue возвращает вес вопроса; если вес не задан, используется 1
func (q *Question) MarkValue() float64 {
	if q.Mark <= 0 {
		return 1
	}
	return q.Mark
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// OptionLetterIndex переводит букву варианта в индекс: "A" -> 0, "B" -> 1 и т.д.
// Возвращает -1 для пустой или не-буквенной строки.
func OptionLetterIndex(letter string) int {
	letter = strings.TrimSpace(letter)
	if len(letter) != 1 {
		return -1
	}
	c := letter[0]
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A')
	case c >= 'a' && c <= 'z':
		return int(c - 'a')
	}
	return -1
}

// OptionTextByLetter возвращает текст варианта по букве.
// Для буквы вне диапазона вариантов возвращает пустую строку (защитное декодирование:
// битый ключ ответов приводит к неверному вердикту, а не к панике).
func (q *Question) OptionTextByLetter(letter string) string {
	idx := OptionLetterIndex(letter)
	if idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return q.Options[idx]
}

// Validate проверяет инварианты вопроса при загрузке банка вопросов:
// известный тип, вес > 0, буквы correct_answer индексируют options.
func (q *Question) Validate() error {
	if !q.Type.IsValid() {
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	if q.Mark <= 0 {
		return fmt.Errorf("mark must be positive, got %v", q.Mark)
	}
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("question text is required")
	}

	switch q.Type {
	case QuestionTypeSingleSelect:
		if len(q.Options) < 2 {
			return errors.New("single-select question requires at least 2 options")
		}
		if len(q.CorrectAnswer) != 1 {
			return fmt.Errorf("single-select question requires exactly one correct answer letter, got %d", len(q.CorrectAnswer))
		}
		return q.validateLetters()
	case QuestionTypeMultiSelect:
		if len(q.Options) < 2 {
			return errors.New("multi-select question requires at least 2 options")
		}
		if len(q.CorrectAnswer) == 0 {
			return errors.New("multi-select question requires at least one correct answer letter")
		}
		return q.validateLetters()
	case QuestionTypeNumerical:
		if len(q.Options) != 0 {
			return errors.New("numerical question must not have options")
		}
		if len(q.CorrectAnswer) != 1 || strings.TrimSpace(q.CorrectAnswer[0]) == "" {
			return errors.New("numerical question requires exactly one correct answer value")
		}
	}
	return nil
}

// validateLetters проверяет, что каждая буква ключа индексирует существующий вариант
func (q *Question) validateLetters() error {
	seen := make(map[int]struct{}, len(q.CorrectAnswer))
	for _, letter := range q.CorrectAnswer {
		idx := OptionLetterIndex(letter)
		if idx < 0 || idx >= len(q.Options) {
			return fmt.Errorf("correct answer letter %q does not index into %d options", letter, len(q.Options))
		}
		if _, dup := seen[idx]; dup {
			return fmt.Errorf("duplicate correct answer letter %q", letter)
		}
		seen[idx] = struct{}{}
	}
	return nil
}
