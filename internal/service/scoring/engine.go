package scoring

import (
	"sort"
	"strings"

	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// RawAnswer - сырой ответ студента на один вопрос, до проверки.
// AnswerText: текст варианта для single-select, варианты через запятую
// для multi-select, числовая строка для numerical.
// Пустая или пробельная строка означает "не отвечено".
type RawAnswer struct {
	QuestionID uint   `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

// Outcome - результат проверки решения целиком
type Outcome struct {
	// Verdicts - ровно один вердикт на каждый вопрос ключа, в порядке ключа
	Verdicts entity.VerdictList
	// TotalScore - сумма весов полностью правильных ответов
	TotalScore float64
	// TotalMarks - максимально возможный балл (сумма весов всех вопросов)
	TotalMarks    float64
	AnsweredCount int
	CorrectCount  int
}

// Score проверяет сырые ответы студента против ключа ответов экзамена.
//
// Функция чистая и идемпотентная: повторный вызов с теми же аргументами даёт
// тот же результат (безопасно для ретраев). Никогда не паникует на битом ключе:
// буква вне диапазона вариантов или отсутствующие options дают вердикт
// "неверно", а не ошибку.
//
// Неизвестные question_id в rawAnswers игнорируются. Если для одного вопроса
// прислано несколько ответов, учитывается ПОСЛЕДНИЙ по порядку отправки.
func Score(questions []entity.Question, rawAnswers []RawAnswer) Outcome {
	// Индексируем ответы по question_id; поздние вхождения затирают ранние,
	// поэтому при дубликатах побеждает последний ответ
	byQuestion := make(map[uint]string, len(rawAnswers))
	for _, ra := range rawAnswers {
		byQuestion[ra.QuestionID] = ra.AnswerText
	}

	out := Outcome{
		Verdicts: make(entity.VerdictList, 0, len(questions)),
	}

	for i := range questions {
		q := &questions[i]
		out.TotalMarks += q.MarkValue()

		answerText, found := byQuestion[q.ID]
		trimmed := strings.TrimSpace(answerText)
		hasAnswer := found && trimmed != ""

		if !hasAnswer {
			out.Verdicts = append(out.Verdicts, entity.AnswerVerdict{
				QuestionID:      q.ID,
				SubmittedAnswer: entity.NotAnsweredText,
				IsCorrect:       false,
				Status:          entity.AnswerStatusNotAnswered,
			})
			continue
		}

		isCorrect := evaluate(q, trimmed)
		if isCorrect {
			out.TotalScore += q.MarkValue()
			out.CorrectCount++
		}
		out.AnsweredCount++

		out.Verdicts = append(out.Verdicts, entity.AnswerVerdict{
			QuestionID:      q.ID,
			SubmittedAnswer: answerText,
			IsCorrect:       isCorrect,
			Status:          entity.AnswerStatusAnswered,
		})
	}

	return out
}

// evaluate проверяет непустой ответ по типу вопроса.
// Неизвестный тип (не прошедший Validate при загрузке) считается неверным ответом.
func evaluate(q *entity.Question, trimmedAnswer string) bool {
	switch q.Type {
	case entity.QuestionTypeSingleSelect:
		return evaluateSingleSelect(q, trimmedAnswer)
	case entity.QuestionTypeMultiSelect:
		return evaluateMultiSelect(q, trimmedAnswer)
	case entity.QuestionTypeNumerical:
		return evaluateNumerical(q, trimmedAnswer)
	default:
		return false
	}
}

// evaluateSingleSelect сравнивает ответ с текстом правильного варианта.
// Точное строковое равенство после обрезки пробелов, без приведения регистра.
func evaluateSingleSelect(q *entity.Question, trimmedAnswer string) bool {
	if len(q.CorrectAnswer) == 0 {
		return false
	}
	correctText := strings.TrimSpace(q.OptionTextByLetter(q.CorrectAnswer[0]))
	if correctText == "" {
		// Битый ключ (буква вне диапазона) - ответ не засчитывается
		return false
	}
	return trimmedAnswer == correctText
}

// evaluateMultiSelect сравнивает множества текстов: ответ разбивается по запятой,
// ключ раскрывается из букв в тексты вариантов; обе стороны независимо
// обрезаются, чистятся от пустых элементов и сортируются. Равенство множеств
// по содержимому: порядок выбора не важен, частичных баллов нет.
func evaluateMultiSelect(q *entity.Question, trimmedAnswer string) bool {
	submitted := splitTrimSort(strings.Split(trimmedAnswer, ","))

	correct := make([]string, 0, len(q.CorrectAnswer))
	for _, letter := range q.CorrectAnswer {
		correct = append(correct, q.OptionTextByLetter(letter))
	}
	correctSet := splitTrimSort(correct)

	if len(correctSet) == 0 || len(submitted) != len(correctSet) {
		return false
	}
	for i := range submitted {
		if submitted[i] != correctSet[i] {
			return false
		}
	}
	return true
}

// evaluateNumerical - строгое строковое сравнение после обрезки пробелов.
// Без числовой толерантности: "42.0" не равно "42".
func evaluateNumerical(q *entity.Question, trimmedAnswer string) bool {
	if len(q.CorrectAnswer) == 0 {
		return false
	}
	correct := strings.TrimSpace(q.CorrectAnswer[0])
	if correct == "" {
		return false
	}
	return trimmedAnswer == correct
}

// splitTrimSort обрезает элементы, отбрасывает пустые и сортирует лексикографически
func splitTrimSort(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
