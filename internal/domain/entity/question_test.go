package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionLetterIndex(t *testing.T) {
	testCases := []struct {
		letter   string
		expected int
	}{
		{"A", 0},
		{"B", 1},
		{"D", 3},
		{"Z", 25},
		{"a", 0},   // Строчные буквы эквивалентны заглавным
		{"c", 2},
		{" B ", 1}, // Пробелы обрезаются
		{"", -1},
		{"AB", -1},
		{"1", -1},
		{"?", -1},
	}

	for _, tc := range testCases {
		t.Run(tc.letter, func(t *testing.T) {
			assert.Equal(t, tc.expected, OptionLetterIndex(tc.letter))
		})
	}
}

func TestOptionTextByLetter(t *testing.T) {
	// Arrange
	q := Question{Options: StringArray{"Paris", "Rome", "Berlin"}}

	// Act & Assert
	assert.Equal(t, "Paris", q.OptionTextByLetter("A"))
	assert.Equal(t, "Berlin", q.OptionTextByLetter("c"))
	assert.Equal(t, "", q.OptionTextByLetter("D"), "Буква вне диапазона вариантов даёт пустую строку")
	assert.Equal(t, "", q.OptionTextByLetter(""), "Пустая буква даёт пустую строку")
}

func TestMarkValue(t *testing.T) {
	assert.Equal(t, 2.5, (&Question{Mark: 2.5}).MarkValue())
	assert.Equal(t, 1.0, (&Question{Mark: 0}).MarkValue(), "Незаданный вес по умолчанию равен 1")
	assert.Equal(t, 1.0, (&Question{Mark: -3}).MarkValue(), "Отрицательный вес по умолчанию равен 1")
}

func TestQuestionTypeIsValid(t *testing.T) {
	assert.True(t, QuestionTypeSingleSelect.IsValid())
	assert.True(t, QuestionTypeMultiSelect.IsValid())
	assert.True(t, QuestionTypeNumerical.IsValid())
	assert.False(t, QuestionType("essay").IsValid())
	assert.False(t, QuestionType("").IsValid())
}

func TestQuestionValidate_SingleSelect(t *testing.T) {
	// Arrange: корректный single-select вопрос
	valid := Question{
		Text:          "Столица Франции?",
		Type:          QuestionTypeSingleSelect,
		Options:       StringArray{"Paris", "Rome", "Berlin"},
		CorrectAnswer: StringArray{"A"},
		Mark:          2,
	}

	// Act & Assert
	assert.NoError(t, valid.Validate())

	// Мало вариантов
	tooFewOptions := valid
	tooFewOptions.Options = StringArray{"Paris"}
	assert.Error(t, tooFewOptions.Validate())

	// Несколько букв в ключе single-select
	multiLetter := valid
	multiLetter.CorrectAnswer = StringArray{"A", "B"}
	assert.Error(t, multiLetter.Validate())

	// Буква вне диапазона вариантов
	outOfRange := valid
	outOfRange.CorrectAnswer = StringArray{"D"}
	assert.Error(t, outOfRange.Validate(), "Буква ключа обязана индексировать существующий вариант")
}

func TestQuestionValidate_MultiSelect(t *testing.T) {
	// Arrange
	valid := Question{
		Text:          "Выберите чётные числа",
		Type:          QuestionTypeMultiSelect,
		Options:       StringArray{"1", "2", "3", "4"},
		CorrectAnswer: StringArray{"B", "D"},
		Mark:          3,
	}

	// Act & Assert
	assert.NoError(t, valid.Validate())

	// Пустой ключ
	emptyKey := valid
	emptyKey.CorrectAnswer = StringArray{}
	assert.Error(t, emptyKey.Validate())

	// Дубликат буквы в ключе
	dupLetter := valid
	dupLetter.CorrectAnswer = StringArray{"B", "b"}
	assert.Error(t, dupLetter.Validate(), "Дубликат буквы ключа должен отклоняться")
}

func TestQuestionValidate_Numerical(t *testing.T) {
	// Arrange
	valid := Question{
		Text:          "2 + 2 = ?",
		Type:          QuestionTypeNumerical,
		CorrectAnswer: StringArray{"4"},
		Mark:          1,
	}

	// Act & Assert
	assert.NoError(t, valid.Validate())

	// Numerical не должен иметь вариантов
	withOptions := valid
	withOptions.Options = StringArray{"4"}
	assert.Error(t, withOptions.Validate())

	// Пустое значение ключа
	emptyValue := valid
	emptyValue.CorrectAnswer = StringArray{"  "}
	assert.Error(t, emptyValue.Validate())
}

func TestQuestionValidate_CommonRules(t *testing.T) {
	base := Question{
		Text:          "Вопрос",
		Type:          QuestionTypeSingleSelect,
		Options:       StringArray{"Да", "Нет"},
		CorrectAnswer: StringArray{"A"},
		Mark:          1,
	}

	unknownType := base
	unknownType.Type = QuestionType("essay")
	assert.Error(t, unknownType.Validate(), "Неизвестный тип должен отклоняться")

	zeroMark := base
	zeroMark.Mark = 0
	assert.Error(t, zeroMark.Validate(), "Нулевой вес должен отклоняться")

	emptyText := base
	emptyText.Text = "   "
	assert.Error(t, emptyText.Validate())
}

func TestStringArrayScanValue(t *testing.T) {
	// Value для nil возвращает пустой JSON массив, а не NULL
	var empty StringArray
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	// Scan NULL значения
	var scanned StringArray
	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, StringArray{}, scanned)

	// Scan валидного JSONB
	require.NoError(t, scanned.Scan([]byte(`["A","C"]`)))
	assert.Equal(t, StringArray{"A", "C"}, scanned)

	// Scan неподдерживаемого типа
	assert.Error(t, scanned.Scan("not bytes"))
}
