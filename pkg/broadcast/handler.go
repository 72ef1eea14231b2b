/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package broadcast

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/carverauto/netpulse/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Control actions accepted from clients.
const (
	actionJoin  = "join"
	actionLeave = "leave"
)

type controlFrame struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

// Handler upgrades HTTP requests to websocket connections registered with a
// Hub. Rooms named in the "room" query parameter are joined on connect.
type Handler struct {
	hub        *Hub
	log        logger.Logger
	upgrader   websocket.Upgrader
	sendBuffer int
}

func NewHandler(hub *Hub, sendBuffer int, log logger.Logger) *Handler {
	return &Handler{
		hub:        hub,
		log:        log,
		sendBuffer: sendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The relay is fronted by the gateway, which enforces origin policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	c := NewClient(uuid.NewString(), h.sendBuffer)

	for _, name := range r.URL.Query()["room"] {
		if name != "" {
			h.hub.Join(c, name)
		}
	}

	h.log.Debug().Str("client_id", c.ID).Str("remote", r.RemoteAddr).Msg("websocket client connected")

	go h.writePump(conn, c)

	h.readPump(conn, c)
}

func (h *Handler) readPump(conn *websocket.Conn, c *Client) {
	defer func() {
		h.hub.Drop(c)
		_ = conn.Close()

		h.log.Debug().Str("client_id", c.ID).Msg("websocket client disconnected")
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var frame controlFrame

		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Str("client_id", c.ID).Msg("unexpected websocket close")
			}

			return
		}

		if frame.Room == "" {
			continue
		}

		switch frame.Action {
		case actionJoin:
			h.hub.Join(c, frame.Room)
		case actionLeave:
			h.hub.Leave(c, frame.Room)
		default:
			h.log.Debug().Str("client_id", c.ID).Str("action", frame.Action).Msg("ignoring unknown action")
		}
	}
}

func (h *Handler) writePump(conn *websocket.Conn, c *Client) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.hub.Drop(c)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.hub.Drop(c)
				return
			}
		}
	}
}
