package service

import (
	"errors"
	"fmt"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// ScoreBand - одна полоса распределения баллов
type ScoreBand struct {
	Label string  `json:"label"` // "0-20%", "21-40%" и т.д.
	Min   float64 `json:"min"`   // Нижняя граница в баллах (включительно)
	Max   float64 `json:"max"`   // Верхняя граница в баллах (включительно)
	Count int     `json:"count"`
}

// ExamAnalytics - агрегированная статистика по одному экзамену
type ExamAnalytics struct {
	ExamID            uint        `json:"exam_id"`
	TotalSubmissions  int         `json:"total_submissions"`
	AverageScore      float64     `json:"average_score"`
	HighestScore      float64     `json:"highest_score"`
	LowestScore       float64     `json:"lowest_score"`
	PassRate          float64     `json:"pass_rate"`
	AverageTimeSec    float64     `json:"average_time_sec"`
	AutoSubmitCount   int         `json:"auto_submit_count"`
	ScoreDistribution []ScoreBand `json:"score_distribution"`
}

// bandFractions - границы пяти полос распределения в долях от totalMarks.
// Соседние полосы разделяют граничное значение, и обе границы каждой полосы
// включительны: балл ровно на стыке засчитывается в обе соседние полосы.
// Это осознанная политика, зафиксированная тестами - полосы дают форму
// распределения, а не строгое разбиение.
var bandFractions = []struct {
	label    string
	min, max float64
}{
	{"0-20%", 0.0, 0.20},
	{"21-40%", 0.20, 0.40},
	{"41-60%", 0.40, 0.60},
	{"61-80%", 0.60, 0.80},
	{"81-100%", 0.80, 1.0},
}

// AnalyticsService вычисляет статистику по решениям экзамена
type AnalyticsService struct {
	examRepo       repository.ExamRepository
	submissionRepo repository.SubmissionRepository
}

// NewAnalyticsService создает новый сервис аналитики
func NewAnalyticsService(
	examRepo repository.ExamRepository,
	submissionRepo repository.SubmissionRepository,
) *AnalyticsService {
	return &AnalyticsService{
		examRepo:       examRepo,
		submissionRepo: submissionRepo,
	}
}

// GetExamAnalytics загружает все решения экзамена и агрегирует статистику
func (s *AnalyticsService) GetExamAnalytics(examID uint) (*ExamAnalytics, error) {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("экзамен с ID %d не найден: %w", examID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка получения экзамена: %w", err)
	}

	submissions, err := s.submissionRepo.GetAllByExam(examID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения решений: %w", err)
	}

	analytics := ComputeExamAnalytics(submissions, exam.TotalMarks)
	analytics.ExamID = examID
	return analytics, nil
}

// ComputeExamAnalytics - чистая агрегация статистики по решениям.
// Пустой вход даёт нулевой результат с пустым распределением, никогда не ошибку
// и никогда не делит на ноль.
func ComputeExamAnalytics(submissions []entity.Submission, totalMarks float64) *ExamAnalytics {
	analytics := &ExamAnalytics{
		ScoreDistribution: []ScoreBand{},
	}

	if len(submissions) == 0 {
		return analytics
	}

	analytics.TotalSubmissions = len(submissions)
	analytics.HighestScore = submissions[0].Score
	analytics.LowestScore = submissions[0].Score

	var scoreSum, timeSum float64
	passedCount := 0
	for i := range submissions {
		sub := &submissions[i]
		scoreSum += sub.Score
		timeSum += float64(sub.TimeTakenSec)

		if sub.Score > analytics.HighestScore {
			analytics.HighestScore = sub.Score
		}
		if sub.Score < analytics.LowestScore {
			analytics.LowestScore = sub.Score
		}
		if sub.Percentage >= entity.PassPercentage {
			passedCount++
		}
		if sub.IsAutoSubmitted {
			analytics.AutoSubmitCount++
		}
	}

	n := float64(len(submissions))
	analytics.AverageScore = scoreSum / n
	analytics.AverageTimeSec = timeSum / n
	analytics.PassRate = float64(passedCount) / n * 100

	analytics.ScoreDistribution = computeDistribution(submissions, totalMarks)
	return analytics
}

// computeDistribution раскладывает баллы по пяти полосам [min, max] c
// включительными границами с обеих сторон
func computeDistribution(submissions []entity.Submission, totalMarks float64) []ScoreBand {
	bands := make([]ScoreBand, 0, len(bandFractions))
	for _, bf := range bandFractions {
		band := ScoreBand{
			Label: bf.label,
			Min:   totalMarks * bf.min,
			Max:   totalMarks * bf.max,
		}
		for i := range submissions {
			score := submissions[i].Score
			if score >= band.Min && score <= band.Max {
				band.Count++
			}
		}
		bands = append(bands, band)
	}
	return bands
}
