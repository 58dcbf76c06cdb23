package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

func validQuestions() []entity.Question {
	return []entity.Question{
		{
			Text:          "Столица Франции?",
			Type:          entity.QuestionTypeSingleSelect,
			Options:       entity.StringArray{"Paris", "Rome"},
			CorrectAnswer: entity.StringArray{"A"},
			Mark:          2,
		},
		{
			Text:          "2+2?",
			Type:          entity.QuestionTypeNumerical,
			CorrectAnswer: entity.StringArray{"4"},
			Mark:          1,
		},
	}
}

func TestCreateExam_Validation(t *testing.T) {
	svc := NewExamService(new(MockExamRepoForSubmission))

	_, err := svc.CreateExam("", "", "math", time.Now(), 60, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Пустой title должен отклоняться")

	_, err = svc.CreateExam("Экзамен", "", "math", time.Now(), 0, 1)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Нулевая длительность должна отклоняться")
}

func TestCreateExam_StartsAsDraft(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepoForSubmission)
	examRepo.On("Create", mock.AnythingOfType("*entity.Exam")).Return(nil)
	svc := NewExamService(examRepo)

	// Act
	exam, err := svc.CreateExam("Экзамен", "описание", "math", time.Now().Add(time.Hour), 60, 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.ExamStatusDraft, exam.Status, "Новый экзамен создаётся в статусе draft")
	assert.Equal(t, uint(1), exam.CreatedBy)
}

func TestUploadQuestions_RecomputesTotals(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepoForSubmission)
	examRepo.On("GetByID", uint(5)).Return(&entity.Exam{ID: 5, Status: entity.ExamStatusDraft}, nil)
	// total_marks = 2 + 1 = 3, пересчитан из весов вопросов
	examRepo.On("ReplaceQuestions", uint(5), mock.AnythingOfType("[]entity.Question"), 3.0).Return(nil)

	svc := NewExamService(examRepo)

	// Act
	exam, err := svc.UploadQuestions(5, validQuestions())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, exam.QuestionCount)
	assert.Equal(t, 3.0, exam.TotalMarks)
	examRepo.AssertExpectations(t)
}

func TestUploadQuestions_LockedAfterDraft(t *testing.T) {
	// Arrange: экзамен уже запланирован - ключ ответов неизменяем
	examRepo := new(MockExamRepoForSubmission)
	examRepo.On("GetByID", uint(5)).Return(&entity.Exam{ID: 5, Status: entity.ExamStatusScheduled}, nil)

	svc := NewExamService(examRepo)

	// Act
	_, err := svc.UploadQuestions(5, validQuestions())

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "Изменение вопросов после draft должно отклоняться конфликтом")
	examRepo.AssertNotCalled(t, "ReplaceQuestions", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadQuestions_RejectsInvalidQuestion(t *testing.T) {
	// Arrange: буква ключа вне диапазона вариантов
	examRepo := new(MockExamRepoForSubmission)
	examRepo.On("GetByID", uint(5)).Return(&entity.Exam{ID: 5, Status: entity.ExamStatusDraft}, nil)

	svc := NewExamService(examRepo)

	broken := validQuestions()
	broken[0].CorrectAnswer = entity.StringArray{"Z"}

	// Act
	_, err := svc.UploadQuestions(5, broken)

	// Assert: отклоняется весь банк целиком
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	examRepo.AssertNotCalled(t, "ReplaceQuestions", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleExam_RequiresQuestions(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepoForSubmission)
	examRepo.On("GetWithQuestions", uint(5)).Return(&entity.Exam{ID: 5, Status: entity.ExamStatusDraft}, nil)

	svc := NewExamService(examRepo)

	// Act
	err := svc.ScheduleExam(5, time.Now().Add(time.Hour))

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Экзамен без вопросов нельзя запланировать")
}

func TestScheduleExam_Success(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepoForSubmission)
	exam := &entity.Exam{ID: 5, Status: entity.ExamStatusDraft, Questions: validQuestions()}
	examRepo.On("GetWithQuestions", uint(5)).Return(exam, nil)
	examRepo.On("Update", mock.AnythingOfType("*entity.Exam")).Return(nil)

	svc := NewExamService(examRepo)
	scheduledTime := time.Now().Add(2 * time.Hour)

	// Act
	err := svc.ScheduleExam(5, scheduledTime)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.ExamStatusScheduled, exam.Status)
	assert.Equal(t, scheduledTime, exam.ScheduledTime)
}

func TestCancelExam_CompletedCannotBeCancelled(t *testing.T) {
	// Arrange
	examRepo := new(MockExamRepoForSubmission)
	examRepo.On("GetByID", uint(5)).Return(&entity.Exam{ID: 5, Status: entity.ExamStatusCompleted}, nil)

	svc := NewExamService(examRepo)

	// Act
	err := svc.CancelExam(5)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	examRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}
