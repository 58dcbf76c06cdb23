package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/websocket"
	"github.com/yourusername/examportal-api/pkg/auth"
)

// WSHandler обрабатывает подключения к мониторингу экзаменов
type WSHandler struct {
	hub        *websocket.Hub
	jwtService *auth.JWTService
	upgrader   gorillaws.Upgrader
}

// NewWSHandler создает новый обработчик websocket-мониторинга
func NewWSHandler(hub *websocket.Hub, jwtService *auth.JWTService) *WSHandler {
	return &WSHandler{
		hub:        hub,
		jwtService: jwtService,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS для websocket проверяется на уровне reverse-proxy
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Monitor подключает преподавателя к ленте событий экзамена.
// Токен передаётся query-параметром, т.к. браузерный WebSocket API
// не позволяет выставить Authorization заголовок.
// GET /ws/monitor?exam_id=&token=
func (h *WSHandler) Monitor(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter is required"})
		return
	}

	claims, err := h.jwtService.ParseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	if claims.Role != entity.RoleTeacher {
		c.JSON(http.StatusForbidden, gin.H{"error": "Teacher rights required"})
		return
	}

	examID, err := strconv.ParseUint(c.Query("exam_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid exam_id"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WSHandler] Ошибка апгрейда соединения user=%d: %v", claims.UserID, err)
		return
	}

	client := websocket.NewClient(h.hub, conn, uint(examID), claims.UserID)
	client.Serve()
}
