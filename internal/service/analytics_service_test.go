package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/examportal-api/internal/domain/entity"
)

func submissionWithScore(score, percentage float64) entity.Submission {
	return entity.Submission{Score: score, Percentage: percentage}
}

func TestComputeExamAnalytics_EmptyInput(t *testing.T) {
	// Act: пустой вход не должен делить на ноль и не должен ошибаться
	analytics := ComputeExamAnalytics(nil, 10)

	// Assert
	assert.Equal(t, 0, analytics.TotalSubmissions)
	assert.Equal(t, 0.0, analytics.AverageScore)
	assert.Equal(t, 0.0, analytics.HighestScore)
	assert.Equal(t, 0.0, analytics.LowestScore)
	assert.Equal(t, 0.0, analytics.PassRate)
	assert.Empty(t, analytics.ScoreDistribution, "Пустой вход даёт пустое распределение")
}

func TestComputeExamAnalytics_Aggregates(t *testing.T) {
	// Arrange: totalMarks=10, три решения
	submissions := []entity.Submission{
		submissionWithScore(9, 90),  // passed
		submissionWithScore(5, 50),  // passed (ровно на пороге)
		submissionWithScore(1, 10),  // failed
	}

	// Act
	analytics := ComputeExamAnalytics(submissions, 10)

	// Assert
	assert.Equal(t, 3, analytics.TotalSubmissions)
	assert.InDelta(t, 5.0, analytics.AverageScore, 0.001)
	assert.Equal(t, 9.0, analytics.HighestScore)
	assert.Equal(t, 1.0, analytics.LowestScore)
	assert.InDelta(t, 66.67, analytics.PassRate, 0.01, "Процент ровно на пороге считается прохождением")
}

func TestComputeExamAnalytics_Distribution(t *testing.T) {
	// Arrange: totalMarks=10, полосы в баллах: [0,2] [2,4] [4,6] [6,8] [8,10]
	submissions := []entity.Submission{
		submissionWithScore(1, 10),
		submissionWithScore(3, 30),
		submissionWithScore(9, 90),
		submissionWithScore(10, 100),
	}

	// Act
	analytics := ComputeExamAnalytics(submissions, 10)

	// Assert
	require.Len(t, analytics.ScoreDistribution, 5)
	assert.Equal(t, "0-20%", analytics.ScoreDistribution[0].Label)
	assert.Equal(t, 1, analytics.ScoreDistribution[0].Count)
	assert.Equal(t, 1, analytics.ScoreDistribution[1].Count)
	assert.Equal(t, 0, analytics.ScoreDistribution[2].Count)
	assert.Equal(t, 0, analytics.ScoreDistribution[3].Count)
	assert.Equal(t, 2, analytics.ScoreDistribution[4].Count)
}

func TestComputeExamAnalytics_BoundaryDoubleCount(t *testing.T) {
	// Arrange: балл ровно на стыке полос. Обе границы каждой полосы
	// включительны, поэтому балл 2 при totalMarks=10 попадает
	// И в полосу [0,2], И в полосу [2,4]. Это зафиксированная политика,
	// а не ошибка: полосы дают форму распределения, не строгое разбиение.
	submissions := []entity.Submission{
		submissionWithScore(2, 20),
	}

	// Act
	analytics := ComputeExamAnalytics(submissions, 10)

	// Assert
	require.Len(t, analytics.ScoreDistribution, 5)
	assert.Equal(t, 1, analytics.ScoreDistribution[0].Count, "Балл на границе входит в нижнюю полосу")
	assert.Equal(t, 1, analytics.ScoreDistribution[1].Count, "Балл на границе входит и в верхнюю полосу")
	assert.Equal(t, 0, analytics.ScoreDistribution[2].Count)
}

func TestComputeExamAnalytics_AutoSubmitCount(t *testing.T) {
	// Arrange
	submissions := []entity.Submission{
		{Score: 5, Percentage: 50, IsAutoSubmitted: true},
		{Score: 6, Percentage: 60},
	}

	// Act
	analytics := ComputeExamAnalytics(submissions, 10)

	// Assert
	assert.Equal(t, 1, analytics.AutoSubmitCount)
}
