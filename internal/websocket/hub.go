package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub - хаб мониторинга экзаменов в реальном времени.
// Преподаватели подписываются на конкретный экзамен и получают события
// отправки решений и предупреждений мониторинга. Один горутина-цикл
// обслуживает регистрацию, отписку и рассылку; клиенты никогда не
// трогают карту подписчиков напрямую.
type Hub struct {
	// Подписчики по ID экзамена
	subscribers map[uint]map[*Client]bool
	mu          sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan examEvent
}

type examEvent struct {
	examID  uint
	payload []byte
}

// NewHub создает новый хаб мониторинга
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint]map[*Client]bool),
		register:    make(chan *Client, 16),
		unregister:  make(chan *Client, 16),
		broadcast:   make(chan examEvent, 256),
	}
}

// Run запускает цикл обслуживания хаба; вызывается один раз из main в горутине
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.subscribers[client.examID] == nil {
				h.subscribers[client.examID] = make(map[*Client]bool)
			}
			h.subscribers[client.examID][client] = true
			count := len(h.subscribers[client.examID])
			h.mu.Unlock()
			log.Printf("[Hub] Подписчик добавлен: exam=%d user=%d (всего %d)", client.examID, client.userID, count)

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.subscribers[client.examID]; ok {
				if _, subscribed := clients[client]; subscribed {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.subscribers, client.examID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("[Hub] Подписчик удалён: exam=%d user=%d", client.examID, client.userID)

		case event := <-h.broadcast:
			h.mu.RLock()
			for client := range h.subscribers[event.examID] {
				select {
				case client.send <- event.payload:
				default:
					// Медленный клиент: не блокируем рассылку, сообщение теряется
					log.Printf("[Hub] Переполнен буфер клиента user=%d exam=%d, событие пропущено",
						client.userID, event.examID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NotifySubmission рассылает событие всем подписчикам экзамена.
// Реализует service.MonitorNotifier; ошибки сериализации только логируются,
// отправка решения от них не зависит.
func (h *Hub) NotifySubmission(examID uint, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Hub] Ошибка сериализации события для exam=%d: %v", examID, err)
		return
	}

	select {
	case h.broadcast <- examEvent{examID: examID, payload: payload}:
	default:
		log.Printf("[Hub] Переполнен буфер рассылки, событие exam=%d пропущено", examID)
	}
}
