package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"taskhub-api/domain/policy"
	"taskhub-api/domain/ports"
	"taskhub-api/pkg/logger"
)

// Conn คือส่วนของ *websocket.Conn ที่ hub ใช้
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

const (
	clientBuffer    = 32
	broadcastBuffer = 256
	directBuffer    = 64
)

type Client struct {
	Conn  Conn
	Actor policy.Actor
	send  chan Message
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type directMessage struct {
	conn    Conn
	message Message
}

// Hub fans task events out to connected clients.
// A client only receives events for tasks its actor may view.
// Each client has its own queue and writer goroutine; Run never writes to a
// socket. A client whose queue is full is disconnected.
type Hub struct {
	clients         map[Conn]*Client
	userConnections map[uuid.UUID]Conn // 1 user = 1 connection
	register        chan *Client
	unregister      chan Conn
	broadcast       chan *ports.TaskEvent
	direct          chan directMessage
	done            chan struct{}
	mutex           sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[Conn]*Client),
		userConnections: make(map[uuid.UUID]Conn),
		register:        make(chan *Client),
		unregister:      make(chan Conn),
		broadcast:       make(chan *ports.TaskEvent, broadcastBuffer),
		direct:          make(chan directMessage, directBuffer),
		done:            make(chan struct{}),
	}
}

// Run ทำงานจนกว่า ctx ถูก cancel แล้วปิดทุก connection
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			return

		case client := <-h.register:
			// ปิด connection เก่าถ้า user เดิมต่อเข้ามาใหม่
			h.mutex.RLock()
			oldConn, exists := h.userConnections[client.Actor.ID]
			h.mutex.RUnlock()
			if exists {
				h.remove(oldConn)
			}

			h.mutex.Lock()
			h.clients[client.Conn] = client
			h.userConnections[client.Actor.ID] = client.Conn
			h.mutex.Unlock()
			go h.writePump(client)

			logger.Info("WebSocket client connected", "user_id", client.Actor.ID, "role", client.Actor.Role)

		case conn := <-h.unregister:
			h.remove(conn)

		case event := <-h.broadcast:
			h.deliver(event)

		case dm := <-h.direct:
			h.mutex.RLock()
			client, ok := h.clients[dm.conn]
			h.mutex.RUnlock()
			if ok && !enqueue(client, dm.message) {
				h.remove(dm.conn)
			}
		}
	}
}

// writePump เขียนทุกข้อความของ client นี้ จนกว่า send ถูกปิดหรือเขียนไม่ได้
func (h *Hub) writePump(client *Client) {
	for message := range client.send {
		if err := client.Conn.WriteJSON(message); err != nil {
			logger.Warn("WebSocket send failed", "user_id", client.Actor.ID, "error", err)
			h.UnregisterClient(client.Conn)
			return
		}
	}
}

func enqueue(client *Client, message Message) bool {
	select {
	case client.send <- message:
		return true
	default:
		return false
	}
}

func (h *Hub) deliver(event *ports.TaskEvent) {
	message := Message{Type: event.Type, Data: event}

	h.mutex.RLock()
	var slow []Conn
	for conn, client := range h.clients {
		if !canReceive(client.Actor, event) {
			continue
		}
		if !enqueue(client, message) {
			logger.Warn("WebSocket client too slow, disconnecting", "user_id", client.Actor.ID)
			slow = append(slow, conn)
		}
	}
	h.mutex.RUnlock()

	for _, conn := range slow {
		h.remove(conn)
	}
}

func canReceive(actor policy.Actor, event *ports.TaskEvent) bool {
	if policy.CanViewTask(actor, event.AssignedTo) {
		return true
	}
	return event.PreviousAssignedTo != nil && policy.CanViewTask(actor, *event.PreviousAssignedTo)
}

func (h *Hub) remove(conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	client, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	if current, exists := h.userConnections[client.Actor.ID]; exists && current == conn {
		delete(h.userConnections, client.Actor.ID)
	}
	close(client.send)
	conn.Close()

	logger.Info("WebSocket client disconnected", "user_id", client.Actor.ID)
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, client := range h.clients {
		close(client.send)
		conn.Close()
	}
	h.clients = make(map[Conn]*Client)
	h.userConnections = make(map[uuid.UUID]Conn)
}

func (h *Hub) RegisterClient(conn Conn, actor policy.Actor) {
	select {
	case h.register <- &Client{Conn: conn, Actor: actor, send: make(chan Message, clientBuffer)}:
	case <-h.done:
		conn.Close()
	}
}

func (h *Hub) UnregisterClient(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Dispatch queues an event for delivery and never blocks the caller.
// It matches ports.TaskEventHandler.
func (h *Hub) Dispatch(event *ports.TaskEvent) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	default:
		logger.Warn("WebSocket broadcast queue full, event dropped", "type", event.Type, "task_id", event.TaskID)
	}
}

// SendTo queues a message for one registered connection without blocking.
func (h *Hub) SendTo(conn Conn, message Message) {
	select {
	case h.direct <- directMessage{conn: conn, message: message}:
	case <-h.done:
	default:
		logger.Warn("WebSocket direct queue full, message dropped", "type", message.Type)
	}
}

func (h *Hub) TotalClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Reply returns the answer to a client message, if any (ตอนนี้มีแค่ ping)
func Reply(data []byte) (Message, bool) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		logger.Debug("WebSocket message ignored", "error", err)
		return Message{}, false
	}

	switch message.Type {
	case "ping":
		return Message{Type: "pong", Data: "pong"}, true
	default:
		logger.Debug("Unknown websocket message type", "type", message.Type)
		return Message{}, false
	}
}
