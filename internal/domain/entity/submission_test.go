package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerdictListScanValue(t *testing.T) {
	// Value для пустого списка возвращает пустой JSON массив, а не NULL
	var empty VerdictList
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	// Scan NULL значения из базы
	var scanned VerdictList
	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, VerdictList{}, scanned)

	// Scan валидного JSONB
	raw := []byte(`[{"question_id":1,"submitted_answer":"Paris","is_correct":true,"status":"answered"}]`)
	require.NoError(t, scanned.Scan(raw))
	require.Len(t, scanned, 1)
	assert.Equal(t, uint(1), scanned[0].QuestionID)
	assert.True(t, scanned[0].IsCorrect)
	assert.Equal(t, AnswerStatusAnswered, scanned[0].Status)

	// Scan неподдерживаемого типа
	assert.Error(t, scanned.Scan(42))
}

func TestSubmissionMetadataScanValue(t *testing.T) {
	var scanned SubmissionMetadata
	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, SubmissionMetadata{}, scanned)

	require.NoError(t, scanned.Scan([]byte(`{"screen_resolution":"1920x1080","timezone":"Europe/Moscow"}`)))
	assert.Equal(t, "1920x1080", scanned.ScreenResolution)
	assert.Equal(t, "Europe/Moscow", scanned.Timezone)
}

func TestSubmissionCounts(t *testing.T) {
	// Arrange
	s := Submission{
		Answers: VerdictList{
			{QuestionID: 1, SubmittedAnswer: "Paris", IsCorrect: true, Status: AnswerStatusAnswered},
			{QuestionID: 2, SubmittedAnswer: "41", IsCorrect: false, Status: AnswerStatusAnswered},
			{QuestionID: 3, SubmittedAnswer: NotAnsweredText, IsCorrect: false, Status: AnswerStatusNotAnswered},
		},
	}

	// Act & Assert
	assert.Equal(t, 2, s.AnsweredCount(), "Not-answered вердикты не считаются отвеченными")
	assert.Equal(t, 1, s.CorrectCount())
}
