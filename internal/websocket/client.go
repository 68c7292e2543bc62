package websocket

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Full-document snapshots pass
	// through here, so the limit is generous.
	maxMessageSize = 1024 * 1024 // 1MB
)

// Message types of the markup sync contract. SUBSCRIBE binds the client to a
// plan; REQUEST_STATE/LOAD_PLAN replace the old same-origin iframe events.
const (
	MsgSubscribe    = "SUBSCRIBE"
	MsgRequestState = "REQUEST_STATE"
	MsgLoadPlan     = "LOAD_PLAN"
	MsgStatePatch   = "STATE_PATCH"
	MsgAck          = "ACK"
	MsgError        = "ERROR"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The markup tool may be embedded on a different origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	// Stable connection ID
	ID string

	// Plan the client subscribed to; guarded because the hub reads it
	mu     sync.RWMutex
	planID string
}

// BaseMessage is the basic message structure for routing
type BaseMessage struct {
	Type   string `json:"type"`
	PlanID string `json:"planId,omitempty"`
	MsgID  string `json:"msgId,omitempty"`
}

// PlanID returns the plan the client currently watches.
func (c *Client) PlanID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.planID
}

func (c *Client) setPlanID(planID string) {
	c.mu.Lock()
	c.planID = planID
	c.mu.Unlock()
}

// readPump pumps messages from the websocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS error: %v", err)
			}
			break
		}

		var msg BaseMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case MsgSubscribe:
			if msg.PlanID == "" {
				continue
			}
			c.setPlanID(msg.PlanID)
			c.SendJSON(map[string]string{
				"type":   MsgAck,
				"msgId":  msg.MsgID,
				"planId": msg.PlanID,
			})

		case MsgRequestState:
			planID := msg.PlanID
			if planID == "" {
				planID = c.PlanID()
			}
			state, ok := c.hub.stateProvider(planID)
			if !ok {
				c.SendJSON(map[string]string{
					"type":   MsgError,
					"msgId":  msg.MsgID,
					"planId": planID,
					"error":  "plan not open",
				})
				continue
			}
			c.SendJSON(map[string]interface{}{
				"type":   MsgLoadPlan,
				"msgId":  msg.MsgID,
				"planId": planID,
				"state":  state,
			})
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
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
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
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

// SendJSON queues a JSON message for the client. A full send buffer drops
// the message rather than blocking the caller; readPump calls this, and a
// slow writer must not wedge the read loop.
func (c *Client) SendJSON(v interface{}) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return errors.New("send buffer full, message dropped")
	}
}

// ServeWs handles websocket requests from the peer.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
		ID:   "markup_" + uuid.New().String(),
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
