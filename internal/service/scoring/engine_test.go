package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// ============================================================================
// Хелперы для построения ключа ответов
// ============================================================================

func singleSelectQuestion(id uint, options []string, correctLetter string, mark float64) entity.Question {
	return entity.Question{
		ID:            id,
		Text:          "Вопрос",
		Type:          entity.QuestionTypeSingleSelect,
		Options:       entity.StringArray(options),
		CorrectAnswer: entity.StringArray{correctLetter},
		Mark:          mark,
	}
}

func multiSelectQuestion(id uint, options []string, correctLetters []string, mark float64) entity.Question {
	return entity.Question{
		ID:            id,
		Text:          "Вопрос",
		Type:          entity.QuestionTypeMultiSelect,
		Options:       entity.StringArray(options),
		CorrectAnswer: entity.StringArray(correctLetters),
		Mark:          mark,
	}
}

func numericalQuestion(id uint, correct string, mark float64) entity.Question {
	return entity.Question{
		ID:            id,
		Text:          "Вопрос",
		Type:          entity.QuestionTypeNumerical,
		CorrectAnswer: entity.StringArray{correct},
		Mark:          mark,
	}
}

// ============================================================================
// Базовые сценарии по типам вопросов
// ============================================================================

func TestScore_SingleSelect_CorrectAnswer(t *testing.T) {
	// Arrange: correct="A" -> options[0]="Paris", вес 2
	questions := []entity.Question{
		singleSelectQuestion(1, []string{"Paris", "Rome", "Berlin", "Madrid"}, "A", 2),
	}
	rawAnswers := []RawAnswer{{QuestionID: 1, AnswerText: "Paris"}}

	// Act
	out := Score(questions, rawAnswers)

	// Assert
	require.Len(t, out.Verdicts, 1)
	assert.True(t, out.Verdicts[0].IsCorrect, "Ответ 'Paris' должен быть засчитан")
	assert.Equal(t, entity.AnswerStatusAnswered, out.Verdicts[0].Status)
	assert.Equal(t, 2.0, out.TotalScore, "Засчитан полный вес вопроса")
	assert.Equal(t, 1, out.CorrectCount)
	assert.Equal(t, 1, out.AnsweredCount)
}

func TestScore_SingleSelect_EmptyAnswer(t *testing.T) {
	// Arrange: тот же вопрос, пустой ответ
	questions := []entity.Question{
		singleSelectQuestion(1, []string{"Paris", "Rome", "Berlin", "Madrid"}, "A", 2),
	}
	rawAnswers := []RawAnswer{{QuestionID: 1, AnswerText: ""}}

	// Act
	out := Score(questions, rawAnswers)

	// Assert: пустой ответ = not-answered с сентинелом
	require.Len(t, out.Verdicts, 1)
	assert.False(t, out.Verdicts[0].IsCorrect)
	assert.Equal(t, entity.AnswerStatusNotAnswered, out.Verdicts[0].Status)
	assert.Equal(t, entity.NotAnsweredText, out.Verdicts[0].SubmittedAnswer)
	assert.Equal(t, 0.0, out.TotalScore)
	assert.Equal(t, 0, out.AnsweredCount)
}

func TestScore_SingleSelect_WhitespaceOnlyAnswer(t *testing.T) {
	// Arrange
	questions := []entity.Question{
		singleSelectQuestion(1, []string{"Paris", "Rome"}, "A", 1),
	}
	rawAnswers := []RawAnswer{{QuestionID: 1, AnswerText: "   \t "}}

	// Act
	out := Score(questions, rawAnswers)

	// Assert: пробельный ответ эквивалентен отсутствию ответа
	require.Len(t, out.Verdicts, 1)
	assert.Equal(t, entity.AnswerStatusNotAnswered, out.Verdicts[0].Status)
	assert.Equal(t, entity.NotAnsweredText, out.Verdicts[0].SubmittedAnswer)
}

func TestScore_SingleSelect_NoCaseFolding(t *testing.T) {
	// Arrange: сравнение без приведения регистра
	questions := []entity.Question{
		singleSelectQuestion(1, []string{"Paris", "Rome"}, "A", 1),
	}
	rawAnswers := []RawAnswer{{QuestionID: 1, AnswerText: "paris"}}

	// Act
	out := Score(questions, rawAnswers)

	// Assert
	assert.False(t, out.Verdicts[0].IsCorrect, "'paris' != 'Paris': регистр значим")
	assert.Equal(t, 0.0, out.TotalScore)
}

func TestScore_SingleSelect_TrimsSubmittedText(t *testing.T) {
	// Arrange
	questions := []entity.Question{
		singleSelectQuestion(1, []string{"Paris", "Rome"}, "B", 1),
	}
	rawAnswers := []RawAnswer{{QuestionID: 1, AnswerText: "  Rome  "}}

	// Act
	out := Score(questions, rawAnswers)

	// Assert: пробелы по краям не мешают совпадению
	assert.True(t, out.Verdicts[0].IsCorrect)
	// В вердикте сохраняется исходный текст ответа, как прислал клиент
	assert.Equal(t, "  Rome  ", out.Verdicts[0].SubmittedAnswer)
}

func TestScore_MultiSelect_OrderIndependent(t *testing.T) {
	// Arrange: correct = {A, C} -> {"X", "Z"}, вес 3
	questions := []entity.Question{
		multiSelectQuestion(1, []string{"X", "Y", "Z"}, []string{"A", "C"}, 3),
	}

	// Act: два порядка выбора
	outZX := Score(questions, []RawAnswer{{QuestionID: 1, AnswerText: "Z,X"}})
	outXZ := Score(questions, []RawAnswer{{QuestionID: 1, AnswerText: "X,Z"}})

	// Assert: порядок не влияет на вердикт
	assert.True(t, outZX.Verdicts[0].IsCorrect, "'Z,X' должен совпасть с {X,Z}")
	assert.True(t, outXZ.Verdicts[0].IsCorrect, "'X,Z' должен совпасть с {X,Z}")
	assert.Equal(t, 3.0, outZX.TotalScore)
	assert.Equal(t, outZX.Verdicts[0].IsCorrect, outXZ.Verdicts[0].IsCorrect)
}

func TestScore_MultiSelect_NoPartialCredit(t *testing.T) {
	// Arrange
	questions := []entity.Question{
		multiSelectQuestion(1, []string{"X", "Y", "Z"}, []string{"A", "C"}, 3),
	}

	testCases := []struct {
		name   string
		answer string
	}{
		{"подмножество", "X"},
		{"надмножество", "X,Y,Z"},
		{"другое множество", "Y,Z"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			out := Score(questions, []RawAnswer{{QuestionID: 1, AnswerText: tc.answer}})

			// Assert: частичных баллов нет
			assert.False(t, out.Verdicts[0].IsCorrect)
			assert.Equal(t, 0.0, out.TotalScore)
		})
	}
}

func TestScore_MultiSelect_TrimsAndDropsEmptyPieces(t *testing.T) {
	// Arrange: лишние запятые и пробелы внутри ответа
	questions := []entity.Question{
		multiSelectQuestion(1, []string{"X", "Y", "Z"}, []string{"A", "C"}, 3),
	}
	rawAnswers := []RawAnswer{{QuestionID: 1, AnswerText: " Z , , X ,"}}

	// Act
	out := Score(questions, rawAnswers)

	// Assert
	assert.True(t, out.Verdicts[0].IsCorrect, "Пустые элементы отбрасываются, пробелы обрезаются")
}

func TestScore_Numerical_ExactMatch(t *testing.T) {
	// Arrange
	questions := []entity.Question{numericalQuestion(1, "42", 1)}
	rawAnswers := []RawAnswer{{QuestionID: 1, AnswerText: " 42 "}}

	// Act
	out := Score(questions, rawAnswers)

	// Assert
	assert.True(t, out.Verdicts[0].IsCorrect)
	assert.Equal(t, 1.0, out.TotalScore)
}

func TestScore_Numerical_NoNumericCoercion(t *testing.T) {
	// Arrange: строгое строковое сравнение - намеренное проектное решение
	questions := []entity.Question{numericalQuestion(1, "42", 1)}
	rawAnswers := []RawAnswer{{QuestionID: 1, AnswerText: "42.0"}}

	// Act
	out := Score(questions, rawAnswers)

	// Assert: "42.0" НЕ равно "42", числовой толерантности нет
	assert.False(t, out.Verdicts[0].IsCorrect, "'42.0' не должен совпасть с '42' (строгое строковое равенство)")
	assert.Equal(t, 0.0, out.TotalScore)
}

// ============================================================================
// Свойства движка
// ============================================================================

func TestScore_Idempotent(t *testing.T) {
	// Arrange
	questions := []entity.Question{
		singleSelectQuestion(1, []string{"Paris", "Rome"}, "A", 2),
		multiSelectQuestion(2, []string{"X", "Y", "Z"}, []string{"A", "C"}, 3),
		numericalQuestion(3, "42", 1),
	}
	rawAnswers := []RawAnswer{
		{QuestionID: 1, AnswerText: "Paris"},
		{QuestionID: 2, AnswerText: "Z,X"},
		{QuestionID: 3, AnswerText: "41"},
	}

	// Act: дважды с теми же входами
	first := Score(questions, rawAnswers)
	second := Score(questions, rawAnswers)

	// Assert: результат полностью детерминирован
	assert.Equal(t, first, second, "Повторный вызов должен дать идентичный результат")
}

func TestScore_Completeness(t *testing.T) {
	// Arrange: один вердикт на вопрос независимо от количества сырых ответов
	questions := []entity.Question{
		singleSelectQuestion(1, []string{"Paris", "Rome"}, "A", 1),
		numericalQuestion(2, "42", 1),
		multiSelectQuestion(3, []string{"X", "Y"}, []string{"B"}, 1),
	}

	testCases := []struct {
		name       string
		rawAnswers []RawAnswer
	}{
		{"нет ответов", nil},
		{"частичные ответы", []RawAnswer{{QuestionID: 2, AnswerText: "42"}}},
		{"точное совпадение", []RawAnswer{
			{QuestionID: 1, AnswerText: "Paris"},
			{QuestionID: 2, AnswerText: "42"},
			{QuestionID: 3, AnswerText: "Y"},
		}},
		{"лишние неизвестные id", []RawAnswer{
			{QuestionID: 1, AnswerText: "Paris"},
			{QuestionID: 999, AnswerText: "мусор"},
			{QuestionID: 1000, AnswerText: "ещё мусор"},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			out := Score(questions, tc.rawAnswers)

			// Assert
			assert.Len(t, out.Verdicts, len(questions), "Ровно один вердикт на каждый вопрос ключа")
			// Вердикты идут в порядке ключа ответов
			for i, q := range questions {
				assert.Equal(t, q.ID, out.Verdicts[i].QuestionID)
			}
		})
	}
}

func TestScore_ScoreBounds(t *testing.T) {
	// Arrange
	questions := []entity.Question{
		singleSelectQuestion(1, []string{"Paris", "Rome"}, "A", 2),
		numericalQuestion(2, "42", 3),
	}
	rawAnswers := []RawAnswer{
		{QuestionID: 1, AnswerText: "Paris"},
		{QuestionID: 2, AnswerText: "42"},
	}

	// Act
	out := Score(questions, rawAnswers)

	// Assert: 0 <= score <= сумма весов
	assert.GreaterOrEqual(t, out.TotalScore, 0.0)
	assert.LessOrEqual(t, out.TotalScore, out.TotalMarks)
	assert.Equal(t, 5.0, out.TotalMarks)
	assert.Equal(t, 5.0, out.TotalScore)
}

func TestScore_DuplicateAnswers_LastOccurrenceWins(t *testing.T) {
	// Arrange: два ответа на один вопрос - учитывается последний
	questions := []entity.Question{
		singleSelectQuestion(1, []string{"Paris", "Rome"}, "A", 1),
	}
	rawAnswers := []RawAnswer{
		{QuestionID: 1, AnswerText: "Rome"},
		{QuestionID: 1, AnswerText: "Paris"},
	}

	// Act
	out := Score(questions, rawAnswers)

	// Assert
	assert.True(t, out.Verdicts[0].IsCorrect, "Должен учитываться последний ответ 'Paris'")
	assert.Equal(t, "Paris", out.Verdicts[0].SubmittedAnswer)
}

func TestScore_DefaultMarkIsOne(t *testing.T) {
	// Arrange: вес не задан (0) - используется 1
	q := singleSelectQuestion(1, []string{"Paris", "Rome"}, "A", 0)
	rawAnswers := []RawAnswer{{QuestionID: 1, AnswerText: "Paris"}}

	// Act
	out := Score([]entity.Question{q}, rawAnswers)

	// Assert
	assert.Equal(t, 1.0, out.TotalScore, "Незаданный вес вопроса по умолчанию равен 1")
	assert.Equal(t, 1.0, out.TotalMarks)
}

// ============================================================================
// Защитное декодирование битого ключа ответов
// ============================================================================

func TestScore_MalformedKey_LetterOutOfRange(t *testing.T) {
	// Arrange: буква "E" при двух вариантах - индекс вне диапазона
	questions := []entity.Question{
		singleSelectQuestion(1, []string{"Paris", "Rome"}, "E", 1),
	}
	rawAnswers := []RawAnswer{{QuestionID: 1, AnswerText: "Paris"}}

	// Act: не должно паниковать
	out := Score(questions, rawAnswers)

	// Assert: битый ключ даёт "неверно", а не ошибку
	require.Len(t, out.Verdicts, 1)
	assert.False(t, out.Verdicts[0].IsCorrect)
	assert.Equal(t, entity.AnswerStatusAnswered, out.Verdicts[0].Status)
}

func TestScore_MalformedKey_NoOptions(t *testing.T) {
	// Arrange: select-вопрос без вариантов - все ответы неверны
	q := entity.Question{
		ID:            1,
		Type:          entity.QuestionTypeSingleSelect,
		Options:       nil,
		CorrectAnswer: entity.StringArray{"A"},
		Mark:          1,
	}
	rawAnswers := []RawAnswer{{QuestionID: 1, AnswerText: "что-нибудь"}}

	// Act
	out := Score([]entity.Question{q}, rawAnswers)

	// Assert
	assert.False(t, out.Verdicts[0].IsCorrect)
}

func TestScore_MalformedKey_MultiSelectOutOfRangeLetters(t *testing.T) {
	// Arrange: часть букв ключа вне диапазона - они отбрасываются при раскрытии
	questions := []entity.Question{
		multiSelectQuestion(1, []string{"X", "Y"}, []string{"A", "Z"}, 2),
	}

	// Act: ответ, совпадающий с уцелевшей частью ключа {X}
	out := Score(questions, []RawAnswer{{QuestionID: 1, AnswerText: "X"}})

	// Assert: пустые раскрытия отброшены, сравнение идёт с {"X"}
	assert.True(t, out.Verdicts[0].IsCorrect)
}

func TestScore_UnknownQuestionType(t *testing.T) {
	// Arrange: тип вне закрытого набора (не прошёл бы Validate)
	q := entity.Question{
		ID:            1,
		Type:          QuestionTypeUnknownForTest,
		CorrectAnswer: entity.StringArray{"A"},
		Mark:          1,
	}

	// Act
	out := Score([]entity.Question{q}, []RawAnswer{{QuestionID: 1, AnswerText: "A"}})

	// Assert: неизвестный тип никогда не даёт балл
	assert.False(t, out.Verdicts[0].IsCorrect)
	assert.Equal(t, 0.0, out.TotalScore)
}

// QuestionTypeUnknownForTest - значение вне закрытого набора типов
const QuestionTypeUnknownForTest = entity.QuestionType("essay")
