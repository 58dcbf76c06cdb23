package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam извлекает числовой параметр URL и кладёт его в контекст Gin.
// Применяется к группе маршрутов /exams/:id, чтобы каждый обработчик
// не парсил параметр заново: хендлеры читают готовый uint через c.MustGet.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      fmt.Sprintf("Invalid %s: must be a positive integer", paramName),
				"error_type": "invalid_param",
			})
			c.Abort()
			return
		}

		c.Set(contextKey, uint(parsed))
		c.Next()
	}
}
