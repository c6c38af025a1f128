// Package livefeed pushes successful check-ins to connected dashboards over
// WebSocket.
package livefeed

import (
	"context"
	"encoding/json"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/facecheck/attendance-api/internal/core/domain"
	"github.com/facecheck/attendance-api/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64

	EventCheckIn = "attendance:new"
)

// Event is the message sent to every subscriber.
type Event struct {
	Type    string       `json:"type"`
	Payload CheckInEvent `json:"payload"`
}

type CheckInEvent struct {
	ID           string                  `json:"id"`
	EmployeeID   string                  `json:"employee_id"`
	EmployeeName string                  `json:"employee_name"`
	Department   string                  `json:"department,omitempty"`
	Date         string                  `json:"date"`
	CheckInTime  time.Time               `json:"check_in_time"`
	Status       domain.AttendanceStatus `json:"status"`
	Confidence   float64                 `json:"confidence"`
}

// Hub fans out check-in events to subscribed clients. All client bookkeeping
// happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			metrics.LiveFeedClients.Set(float64(len(h.clients)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.log.Warn().Msg("live feed client too slow, disconnecting")
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	metrics.LiveFeedClients.Set(float64(len(h.clients)))
}

// NotifyCheckIn implements ports.CheckInNotifier. It never blocks the
// check-in: when the broadcast buffer is full the event is dropped.
func (h *Hub) NotifyCheckIn(record *domain.AttendanceRecord, employee *domain.Employee) {
	event := Event{
		Type: EventCheckIn,
		Payload: CheckInEvent{
			ID:           record.ID,
			EmployeeID:   record.EmployeeID,
			EmployeeName: employee.FullName,
			Department:   employee.Department,
			Date:         record.Date,
			CheckInTime:  record.CheckInTime,
			Status:       record.Status,
			Confidence:   record.ConfidenceScore,
		},
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to marshal live feed event")
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.log.Warn().Str("attendance_id", record.ID).Msg("live feed backlog full, event dropped")
	}
}

// Serve registers conn with the hub and pumps messages until the peer goes
// away. It blocks for the lifetime of the connection.
func (h *Hub) Serve(conn *ws.Conn) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

// Client is one dashboard connection.
type Client struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte
}

// readPump discards inbound messages; it only exists to process control
// frames and notice disconnects.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseAbnormalClosure) {
				c.hub.log.Debug().Err(err).Msg("live feed read error")
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(ws.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(ws.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
