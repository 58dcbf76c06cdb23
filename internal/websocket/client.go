package websocket

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Таймаут записи одного сообщения
	writeWait = 10 * time.Second
	// Дедлайн ожидания pong от клиента
	pongWait = 60 * time.Second
	// Интервал пингов; должен быть меньше pongWait
	pingPeriod = (pongWait * 9) / 10
	// Максимальный размер входящего сообщения
	maxMessageSize = 512
)

// Client - одно websocket-подключение преподавателя к мониторингу экзамена
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	examID uint
	userID uint
}

// NewClient создает клиента и регистрирует его в хабе
func NewClient(hub *Hub, conn *websocket.Conn, examID, userID uint) *Client {
	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		examID: examID,
		userID: userID,
	}
	hub.register <- client
	return client
}

// Serve запускает насосы чтения и записи; блокируется до закрытия соединения
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

// readPump читает входящие сообщения только ради обработки pong и закрытия.
// Мониторинг односторонний: клиентские данные игнорируются.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WSClient] Неожиданное закрытие соединения user=%d exam=%d: %v", c.userID, c.examID, err)
			}
			return
		}
	}
}

// writePump отправляет события из канала send и поддерживает соединение пингами
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Хаб закрыл канал - прощаемся
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
