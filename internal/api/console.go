package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4 * 1024

	processTimeout = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The console binds to localhost by default.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ConsoleMessage is the wire format of the text console, both directions.
type ConsoleMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// consoleClient bridges one websocket connection to the session, bypassing
// the audio path entirely.
type consoleClient struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
	logger *zap.Logger
}

// handleConsole upgrades the connection and starts the read/write pumps.
func (s *Server) handleConsole(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &consoleClient{
		server: s,
		conn:   conn,
		send:   make(chan []byte, 16),
		logger: s.logger,
	}
	s.logger.Info("Console connected", zap.String("remote", conn.RemoteAddr().String()))

	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the session.
func (c *consoleClient) readPump() {
	defer func() {
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("Console read error", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			c.logger.Warn("Ignoring non-text console message", zap.Int("type", messageType))
			continue
		}
		c.processMessage(message)
	}
}

// writePump pumps outbound messages to the websocket connection.
func (c *consoleClient) writePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("Failed to write console message", zap.Error(err))
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

func (c *consoleClient) processMessage(message []byte) {
	var msg ConsoleMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Error("Failed to parse console message", zap.Error(err))
		c.reply(ConsoleMessage{Type: "error", Text: "invalid message format"})
		return
	}

	switch msg.Type {
	case "utterance":
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		reply := c.server.session.Process(ctx, msg.Text)
		cancel()
		c.reply(ConsoleMessage{Type: "reply", Text: reply})

	case "reset":
		c.server.session.Reset()
		c.reply(ConsoleMessage{Type: "reset_done"})

	case "summary":
		summary, err := json.Marshal(c.server.session.Summary())
		if err != nil {
			c.logger.Error("Failed to marshal summary", zap.Error(err))
			return
		}
		c.reply(ConsoleMessage{Type: "summary", Text: string(summary)})

	default:
		c.logger.Warn("Unknown console message type", zap.String("type", msg.Type))
		c.reply(ConsoleMessage{Type: "error", Text: "unknown message type"})
	}
}

func (c *consoleClient) reply(msg ConsoleMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to marshal console reply", zap.Error(err))
		return
	}
	select {
	case c.send <- payload:
	default:
		c.logger.Warn("Console send buffer full, dropping reply")
	}
}
