package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/handler/dto"
	"github.com/yourusername/examportal-api/internal/service"
	"github.com/yourusername/examportal-api/internal/service/scoring"
)

// SubmissionHandler обрабатывает отправку решений и их просмотр
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	examService       *service.ExamService
}

// NewSubmissionHandler создает новый обработчик решений
func NewSubmissionHandler(submissionService *service.SubmissionService, examService *service.ExamService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		examService:       examService,
	}
}

// Submit принимает решение студента
// POST /api/exams/:id/submit
func (h *SubmissionHandler) Submit(c *gin.Context) {
	examID := c.MustGet("examID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rawAnswers := make([]scoring.RawAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		rawAnswers = append(rawAnswers, scoring.RawAnswer{
			QuestionID: a.QuestionID,
			AnswerText: a.AnswerText,
		})
	}

	submission, summary, err := h.submissionService.Submit(service.SubmitInput{
		ExamID:          examID,
		UserID:          userID,
		RawAnswers:      rawAnswers,
		ClientStartTime: req.StartTime,
		IsAutoSubmitted: req.IsAutoSubmitted,
		WarningCount:    req.WarningCount,
		Meta: service.RequestMeta{
			IPAddress:        c.ClientIP(),
			UserAgent:        c.Request.UserAgent(),
			ScreenResolution: req.ScreenResolution,
			Timezone:         req.Timezone,
		},
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"summary":    summary,
		"submission": dto.NewSubmissionResponse(submission),
	})
}

// RegisterWarning фиксирует предупреждение анти-чит мониторинга
// POST /api/exams/:id/warnings
func (h *SubmissionHandler) RegisterWarning(c *gin.Context) {
	examID := c.MustGet("examID").(uint)
	userID := c.MustGet("user_id").(uint)

	count, err := h.submissionService.RegisterWarning(userID, examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"warning_count": count})
}

// GetMySubmission возвращает решение текущего пользователя для экзамена
// GET /api/exams/:id/my-submission
func (h *SubmissionHandler) GetMySubmission(c *gin.Context) {
	examID := c.MustGet("examID").(uint)
	userID := c.MustGet("user_id").(uint)

	submission, err := h.submissionService.GetUserSubmission(userID, examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSubmissionResponse(submission))
}

// ListExamSubmissions возвращает решения экзамена с пагинацией
// GET /api/exams/:id/submissions?page=&page_size= (только teacher)
func (h *SubmissionHandler) ListExamSubmissions(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	submissions, total, err := h.submissionService.GetExamSubmissions(examID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	resp := dto.SubmissionListResponse{
		Submissions: make([]dto.SubmissionResponse, 0, len(submissions)),
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}
	for i := range submissions {
		resp.Submissions = append(resp.Submissions, dto.NewSubmissionResponse(&submissions[i]))
	}

	c.JSON(http.StatusOK, resp)
}

// ExportExamSubmissions выгружает все решения экзамена в CSV или XLSX
// GET /api/exams/:id/submissions/export?format=csv|xlsx (только teacher)
func (h *SubmissionHandler) ExportExamSubmissions(c *gin.Context) {
	examID := c.MustGet("examID").(uint)
	format := c.DefaultQuery("format", "csv")

	// Все решения без пагинации
	submissions, err := h.submissionService.GetAllExamSubmissions(examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	exam, err := h.examService.GetExamByID(examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("exam_%d_submissions_%s", examID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, submissions, exam, filename)
	default:
		h.exportCSV(c, submissions, exam, filename)
	}
}

// exportCSV экспортирует решения в CSV с правильным экранированием спецсимволов
func (h *SubmissionHandler) exportCSV(c *gin.Context, submissions []entity.Submission, exam *entity.Exam, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// Название экзамена задаёт преподаватель - экранируем от formula injection
	writer.Write([]string{"Экзамен", sanitizeForExcel(exam.Title)})

	// Заголовки
	writer.Write([]string{"Студент (ID)", "Балл", "Максимум", "Процент", "Сдал", "Отвечено", "Правильных", "Время (сек)", "Автоотправка", "Предупреждения", "Отправлено"})

	for i := range submissions {
		s := &submissions[i]
		passed := "Нет"
		if s.IsPassed {
			passed = "Да"
		}
		auto := "Нет"
		if s.IsAutoSubmitted {
			auto = "Да"
		}

		writer.Write([]string{
			strconv.FormatUint(uint64(s.UserID), 10),
			fmt.Sprintf("%.1f", s.Score),
			fmt.Sprintf("%.1f", s.TotalMarks),
			fmt.Sprintf("%.1f", s.Percentage),
			passed,
			strconv.Itoa(s.AnsweredCount()),
			strconv.Itoa(s.CorrectCount()),
			strconv.FormatInt(s.TimeTakenSec, 10),
			auto,
			strconv.Itoa(s.WarningCount),
			s.SubmittedAt.Format(time.RFC3339),
		})
	}
}

// exportXLSX экспортирует решения в Excel с использованием StreamWriter
func (h *SubmissionHandler) exportXLSX(c *gin.Context, submissions []entity.Submission, exam *entity.Exam, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Решения"
	f.SetSheetName("Sheet1", sheetName)

	// StreamWriter для эффективной работы с большими выгрузками
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[SubmissionHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	if err := sw.SetRow("A1", []interface{}{"Экзамен", exam.Title}); err != nil {
		log.Printf("[SubmissionHandler] Ошибка записи названия экзамена: %v", err)
	}

	headers := []interface{}{"Студент (ID)", "Балл", "Максимум", "Процент", "Сдал", "Отвечено", "Правильных", "Время (сек)", "Автоотправка", "Предупреждения", "Отправлено"}
	if err := sw.SetRow("A2", headers); err != nil {
		log.Printf("[SubmissionHandler] Ошибка записи заголовков: %v", err)
	}

	for i := range submissions {
		s := &submissions[i]
		rowNum := i + 3 // Первая строка - название экзамена, вторая - заголовки
		cell := fmt.Sprintf("A%d", rowNum)

		passed := "Нет"
		if s.IsPassed {
			passed = "Да"
		}
		auto := "Нет"
		if s.IsAutoSubmitted {
			auto = "Да"
		}

		row := []interface{}{
			s.UserID, s.Score, s.TotalMarks, s.Percentage, passed,
			s.AnsweredCount(), s.CorrectCount(), s.TimeTakenSec, auto,
			s.WarningCount, s.SubmittedAt.Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[SubmissionHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[SubmissionHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[SubmissionHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
