package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Employer dashboard message types
const (
	MsgScreeningStarted    MessageType = "screening_started"
	MsgProgressUpdate      MessageType = "progress_update"
	MsgClassificationReady MessageType = "classification_ready"
	MsgCreditUpdate        MessageType = "credit_update"
)

// Applicant message types
const (
	MsgSectionUpdate MessageType = "section_update"
	MsgError         MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections: one dashboard connection per employer
// and one portal connection per in-flight screening.
type Hub struct {
	employerConns  map[string]*Connection
	screeningConns map[string]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	EmployerID  string // set for dashboard connections
	ScreeningID string // set for applicant portal connections
	Send        chan []byte
	Hub         *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	EmployerID  string
	ScreeningID string
	Message     *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		employerConns:  make(map[string]*Connection),
		screeningConns: make(map[string]*Connection),
		register:       make(chan *Connection),
		unregister:     make(chan *Connection),
		broadcast:      make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.EmployerID != "" {
				h.employerConns[conn.EmployerID] = conn
				log.Printf("Employer %s dashboard connected", conn.EmployerID)
			} else {
				h.screeningConns[conn.ScreeningID] = conn
				log.Printf("Applicant connected for screening %s", conn.ScreeningID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.EmployerID != "" {
				if existing, ok := h.employerConns[conn.EmployerID]; ok && existing == conn {
					delete(h.employerConns, conn.EmployerID)
					close(conn.Send)
					log.Printf("Employer %s dashboard disconnected", conn.EmployerID)
				}
			} else {
				if existing, ok := h.screeningConns[conn.ScreeningID]; ok && existing == conn {
					delete(h.screeningConns, conn.ScreeningID)
					close(conn.Send)
					log.Printf("Applicant disconnected for screening %s", conn.ScreeningID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.EmployerID != "" {
				if conn, ok := h.employerConns[msg.EmployerID]; ok {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			}
			if msg.ScreeningID != "" {
				if conn, ok := h.screeningConns[msg.ScreeningID]; ok {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToEmployer sends a message to the employer dashboard (implements
// service.Broadcaster)
func (h *Hub) BroadcastToEmployer(employerID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		EmployerID: employerID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToScreening sends a message to the applicant running a screening
// (implements service.Broadcaster)
func (h *Hub) BroadcastToScreening(screeningID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ScreeningID: screeningID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
