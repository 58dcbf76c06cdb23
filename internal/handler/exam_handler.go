package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	"github.com/yourusername/examportal-api/internal/handler/dto"
	"github.com/yourusername/examportal-api/internal/service"
)

// ExamHandler обрабатывает запросы управления экзаменами
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler создает новый обработчик экзаменов
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// CreateExam создает новый экзамен
// POST /api/exams (только teacher)
func (h *ExamHandler) CreateExam(c *gin.Context) {
	var req dto.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createdBy := c.MustGet("user_id").(uint)
	exam, err := h.examService.CreateExam(req.Title, req.Description, req.Subject, req.ScheduledTime, req.DurationMin, createdBy)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewExamResponse(exam))
}

// GetExam возвращает экзамен по ID без вопросов
// GET /api/exams/:id
func (h *ExamHandler) GetExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	exam, err := h.examService.GetExamByID(examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewExamResponse(exam))
}

// GetExamQuestions возвращает вопросы экзамена для прохождения.
// Правильные ответы в DTO не попадают.
// GET /api/exams/:id/questions
func (h *ExamHandler) GetExamQuestions(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	exam, err := h.examService.GetExamWithQuestions(examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	questions := make([]dto.QuestionResponse, 0, len(exam.Questions))
	for i := range exam.Questions {
		questions = append(questions, dto.NewQuestionResponse(&exam.Questions[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"exam_id":      exam.ID,
		"title":        exam.Title,
		"duration_min": exam.DurationMin,
		"total_marks":  exam.TotalMarks,
		"questions":    questions,
	})
}

// UploadQuestions заменяет банк вопросов экзамена
// POST /api/exams/:id/questions (только teacher, только draft)
func (h *ExamHandler) UploadQuestions(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	var req dto.UploadQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := make([]entity.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		mark := q.Mark
		if mark == 0 {
			mark = 1 // Вес по умолчанию
		}
		questions = append(questions, entity.Question{
			Text:          q.Text,
			Type:          entity.QuestionType(q.Type),
			Options:       entity.StringArray(q.Options),
			CorrectAnswer: entity.StringArray(q.CorrectAnswer),
			Mark:          mark,
		})
	}

	exam, err := h.examService.UploadQuestions(examID, questions)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Questions uploaded successfully",
		"question_count": exam.QuestionCount,
		"total_marks":    exam.TotalMarks,
	})
}

// ScheduleExam планирует экзамен и фиксирует ключ ответов
// PUT /api/exams/:id/schedule (только teacher)
func (h *ExamHandler) ScheduleExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	var req dto.ScheduleExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.examService.ScheduleExam(examID, req.ScheduledTime); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exam scheduled successfully"})
}

// StartExam переводит экзамен в in_progress
// PUT /api/exams/:id/start (только teacher)
func (h *ExamHandler) StartExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	if err := h.examService.StartExam(examID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exam started"})
}

// CompleteExam переводит экзамен в completed
// PUT /api/exams/:id/complete (только teacher)
func (h *ExamHandler) CompleteExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	if err := h.examService.CompleteExam(examID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exam completed"})
}

// CancelExam отменяет экзамен
// PUT /api/exams/:id/cancel (только teacher)
func (h *ExamHandler) CancelExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	if err := h.examService.CancelExam(examID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Exam cancelled"})
}

// ListExams возвращает список экзаменов с фильтрацией и пагинацией
// GET /api/exams?page=&page_size=&status=&search=
func (h *ExamHandler) ListExams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filters := repository.ExamFilters{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	exams, total, err := h.examService.ListExams(page, pageSize, filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := dto.ExamListResponse{
		Exams:    make([]dto.ExamResponse, 0, len(exams)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range exams {
		resp.Exams = append(resp.Exams, dto.NewExamResponse(&exams[i]))
	}

	c.JSON(http.StatusOK, resp)
}
