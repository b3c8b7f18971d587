package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"overspeed/internal/logger"
)

const (
	writeWait = 2 * time.Second

	// broadcastQueue is how many undelivered states are held before the oldest is evicted.
	broadcastQueue = 16
)

// HubService fans session state out to every connected viewer. All writes to viewer
// connections happen on the Run goroutine.
type HubService struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logger.Logger

	// greeting, if set, produces the message sent to a viewer right after it registers.
	greeting func() []byte
	onCount  func(n int)
}

// NewHubService creates a hub. Call Run to start delivering messages.
func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, broadcastQueue),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// SetGreeting registers the producer of the first message each new viewer receives.
// Must be called before Run.
func (h *HubService) SetGreeting(fn func() []byte) {
	h.greeting = fn
}

// OnClientCount registers a hook called with the viewer count after every change.
// Must be called before Run.
func (h *HubService) OnClientCount(fn func(n int)) {
	h.onCount = fn
}

// Run delivers messages until ctx is done, then closes every viewer connection.
func (h *HubService) Run(ctx context.Context) {
	defer close(h.done)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Viewer connected. Total: %d", count)
			h.countChanged(count)

			if h.greeting != nil {
				if msg := h.greeting(); msg != nil {
					h.send(client, msg)
				}
			}

		case client := <-h.unregister:
			h.remove(client, "Viewer disconnected")

		case message := <-h.broadcast:
			h.mutex.RLock()
			clients := make([]*websocket.Conn, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mutex.RUnlock()

			for _, client := range clients {
				h.send(client, message)
			}
		}
	}
}

func (h *HubService) send(client *websocket.Conn, message []byte) {
	client.SetWriteDeadline(time.Now().Add(writeWait))
	if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
		h.logger.Warning("Error sending message: %v", err)
		h.remove(client, "Viewer dropped")
	}
}

func (h *HubService) remove(client *websocket.Conn, reason string) {
	h.mutex.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		client.Close()
	}
	count := len(h.clients)
	h.mutex.Unlock()

	if ok {
		h.logger.Info("%s. Total: %d", reason, count)
		h.countChanged(count)
	}
}

func (h *HubService) closeAll() {
	h.mutex.Lock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
	h.mutex.Unlock()
	h.countChanged(0)
}

func (h *HubService) countChanged(n int) {
	if h.onCount != nil {
		h.onCount(n)
	}
}

// Register adds a viewer. It is a no-op once the hub has stopped.
func (h *HubService) Register(client *websocket.Conn) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes a viewer and closes its connection.
func (h *HubService) Unregister(client *websocket.Conn) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues message for every viewer without blocking. When the queue is full the
// oldest queued message is evicted so the newest state is always delivered.
func (h *HubService) Broadcast(message []byte) {
	for {
		select {
		case h.broadcast <- message:
			return
		case <-h.done:
			return
		default:
		}

		select {
		case <-h.broadcast:
		default:
		}
	}
}

// ClientCount returns the number of connected viewers.
func (h *HubService) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
