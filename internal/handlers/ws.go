package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"dailyshapes/internal/game"
	"dailyshapes/internal/ids"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

// socketClient streams pointer events for one game over a websocket. Each
// incoming message is a gestureRequest and gets exactly one gestureReply.
type socketClient struct {
	h        *GameHandler
	game     *game.Game
	conn     *websocket.Conn
	send     chan []byte
	ClientID string
	log      *slog.Logger
}

func (h *GameHandler) socket(w http.ResponseWriter, r *http.Request) {
	instance, ok := h.owned(w, r)
	if !ok {
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.log.Error("websocket accept", "error", err, "game", instance.ID)
		return
	}

	clientID := ids.NewClientID()
	c := &socketClient{
		h:        h,
		game:     instance,
		conn:     conn,
		send:     make(chan []byte, 256),
		ClientID: clientID,
		log:      h.log.With("game", instance.ID, "client", clientID),
	}
	c.log.Debug("websocket connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go c.WritePump(ctx)
	c.ReadPump(ctx)
}

func (c *socketClient) ReadPump(ctx context.Context) {
	defer func() {
		c.conn.Close(websocket.StatusNormalClosure, "")
		c.log.Debug("websocket closed")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			c.log.Debug("read error", "error", err)
			return
		}

		var req gestureRequest
		if err := json.Unmarshal(data, &req); err != nil {
			c.log.Warn("invalid message", "error", err)
			continue
		}
		reply, _ := c.h.applyGesture(c.game, req)
		c.Send(reply)
	}
}

func (c *socketClient) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.log.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *socketClient) Send(reply gestureReply) {
	data, err := json.Marshal(reply)
	if err != nil {
		c.log.Error("marshal reply", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		c.log.Warn("client send buffer full, dropping reply")
	}
}
