package evaluation

import (
	"sync"

	"github.com/gorilla/websocket"

	"report-function-service/internal/logging"
)

// WSManager tracks websocket subscribers per template so editors see
// evaluation results as they land.
type WSManager struct {
	connections map[string]map[*websocket.Conn]bool // templateID -> set of connections
	mutex       sync.Mutex
	logger      *logging.Logger
}

func NewWSManager(logger *logging.Logger) *WSManager {
	return &WSManager{
		connections: make(map[string]map[*websocket.Conn]bool),
		logger:      logger,
	}
}

// Register adds a subscriber for a template.
func (m *WSManager) Register(templateID string, conn *websocket.Conn) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.connections[templateID] == nil {
		m.connections[templateID] = make(map[*websocket.Conn]bool)
	}
	m.connections[templateID][conn] = true
	m.logger.Infof("WebSocket registered for template %s (%d active)", templateID, len(m.connections[templateID]))
}

// Unregister removes a subscriber and closes its connection.
func (m *WSManager) Unregister(templateID string, conn *websocket.Conn) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if conns, ok := m.connections[templateID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(m.connections, templateID)
		}
	}
	_ = conn.Close()
}

// Broadcast pushes a JSON payload to every subscriber of a template. Dead
// connections are dropped on write failure.
func (m *WSManager) Broadcast(templateID string, payload any) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for conn := range m.connections[templateID] {
		if err := conn.WriteJSON(payload); err != nil {
			m.logger.Warnf("WebSocket write failed for template %s: %v", templateID, err)
			delete(m.connections[templateID], conn)
			_ = conn.Close()
		}
	}
}
