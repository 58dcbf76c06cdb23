package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examportal-api/internal/service"
)

// AnalyticsHandler обрабатывает запросы статистики по экзаменам
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler создает новый обработчик аналитики
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetExamAnalytics возвращает агрегированную статистику экзамена
// GET /api/exams/:id/analytics (только teacher)
func (h *AnalyticsHandler) GetExamAnalytics(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	analytics, err := h.analyticsService.GetExamAnalytics(examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, analytics)
}
