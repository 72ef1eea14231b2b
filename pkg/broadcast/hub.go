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

// Package broadcast fans domain events out to websocket clients grouped in
// rooms. Delivery is best-effort: a client that cannot keep up is dropped.
package broadcast

import (
	"encoding/json"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/carverauto/netpulse/pkg/logger"
)

const defaultSendBuffer = 64

// Frame is the message written to clients.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client is one connected subscriber. Its send queue is bounded and closed
// exactly once, when the hub drops it.
type Client struct {
	ID string

	mu     sync.Mutex
	send   chan []byte
	rooms  map[string]struct{}
	closed bool
}

func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}

	return &Client{
		ID:    id,
		send:  make(chan []byte, buffer),
		rooms: make(map[string]struct{}),
	}
}

// Send is closed when the client has been dropped.
func (c *Client) Send() <-chan []byte {
	return c.send
}

func (c *Client) trySend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) roomNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.rooms))
	for name := range c.rooms {
		names = append(names, name)
	}

	return names
}

type room struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func (r *room) snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		out = append(out, c)
	}

	return out
}

// Hub tracks room membership. Rooms are created on first join and removed
// when their last client leaves.
type Hub struct {
	rooms cmap.ConcurrentMap[string, *room]
	log   logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{rooms: cmap.New[*room](), log: log}
}

// Join adds c to the named room. Joining a room twice is a no-op.
func (h *Hub) Join(c *Client, name string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.rooms[name] = struct{}{}
	c.mu.Unlock()

	h.rooms.Upsert(name, nil, func(exists bool, current, _ *room) *room {
		if !exists {
			current = &room{clients: make(map[*Client]struct{})}
		}

		current.mu.Lock()
		current.clients[c] = struct{}{}
		current.mu.Unlock()

		return current
	})
}

// Leave removes c from the named room.
func (h *Hub) Leave(c *Client, name string) {
	c.mu.Lock()
	delete(c.rooms, name)
	c.mu.Unlock()

	h.rooms.RemoveCb(name, func(_ string, r *room, exists bool) bool {
		if !exists {
			return false
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		delete(r.clients, c)

		return len(r.clients) == 0
	})
}

// Drop removes c from every room and closes its send queue.
func (h *Hub) Drop(c *Client) {
	for _, name := range c.roomNames() {
		h.Leave(c, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Broadcast sends event to every client in the room without blocking and
// returns how many clients accepted it. Clients whose queue is full are
// dropped.
func (h *Hub) Broadcast(roomName, event string, data any) int {
	r, ok := h.rooms.Get(roomName)
	if !ok {
		return 0
	}

	msg, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		h.log.Warn().Err(err).Str("room", roomName).Str("event", event).Msg("failed to encode frame")
		return 0
	}

	delivered := 0

	for _, c := range r.snapshot() {
		if c.trySend(msg) {
			delivered++
			continue
		}

		h.log.Warn().Str("client_id", c.ID).Str("room", roomName).Msg("dropping slow websocket client")
		h.Drop(c)
	}

	return delivered
}

// RoomSize returns the number of clients in the room.
func (h *Hub) RoomSize(name string) int {
	r, ok := h.rooms.Get(name)
	if !ok {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}

// RoomCount returns the number of non-empty rooms.
func (h *Hub) RoomCount() int {
	return h.rooms.Count()
}
