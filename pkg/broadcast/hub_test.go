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
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netpulse/pkg/logger"
)

func readFrame(t *testing.T, c *Client) Frame {
	t.Helper()

	select {
	case msg, ok := <-c.Send():
		require.True(t, ok, "send queue closed")

		var f Frame
		require.NoError(t, json.Unmarshal(msg, &f))

		return f
	default:
		t.Fatal("no frame queued")
	}

	return Frame{}
}

func TestHub_BroadcastReachesOnlyRoomMembers(t *testing.T) {
	h := NewHub(logger.NewTestLogger())

	a := NewClient("a", 4)
	b := NewClient("b", 4)

	h.Join(a, "org:1:devices")
	h.Join(b, "org:2:devices")

	n := h.Broadcast("org:1:devices", EventDeviceUpdate, map[string]string{"id": "d1"})
	assert.Equal(t, 1, n)

	f := readFrame(t, a)
	assert.Equal(t, EventDeviceUpdate, f.Event)
	assert.Equal(t, map[string]any{"id": "d1"}, f.Data)

	assert.Empty(t, b.Send())
}

func TestHub_BroadcastUnknownRoom(t *testing.T) {
	h := NewHub(logger.NewTestLogger())

	assert.Zero(t, h.Broadcast("nobody", EventAlertUpdate, nil))
}

func TestHub_JoinTwiceIsIdempotent(t *testing.T) {
	h := NewHub(logger.NewTestLogger())
	c := NewClient("a", 4)

	h.Join(c, "r")
	h.Join(c, "r")

	assert.Equal(t, 1, h.RoomSize("r"))
	assert.Equal(t, 1, h.Broadcast("r", "e", 1))
}

func TestHub_LeaveRemovesEmptyRoom(t *testing.T) {
	h := NewHub(logger.NewTestLogger())
	a := NewClient("a", 4)
	b := NewClient("b", 4)

	h.Join(a, "r")
	h.Join(b, "r")
	h.Leave(a, "r")

	assert.Equal(t, 1, h.RoomSize("r"))
	assert.Equal(t, 1, h.RoomCount())

	h.Leave(b, "r")

	assert.Zero(t, h.RoomSize("r"))
	assert.Zero(t, h.RoomCount())

	// leaving a room that no longer exists is harmless
	h.Leave(b, "r")
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := NewHub(logger.NewTestLogger())
	slow := NewClient("slow", 1)
	fast := NewClient("fast", 8)

	h.Join(slow, "r")
	h.Join(slow, "other")
	h.Join(fast, "r")

	assert.Equal(t, 2, h.Broadcast("r", "e", 1))
	assert.Equal(t, 1, h.Broadcast("r", "e", 2))

	assert.Equal(t, 1, h.RoomSize("r"))
	assert.Zero(t, h.RoomSize("other"))

	// the queued frame is still readable, then the queue is closed
	<-slow.Send()

	_, ok := <-slow.Send()
	assert.False(t, ok)

	assert.Zero(t, h.Broadcast("other", "e", 3))
}

func TestHub_DropIsIdempotentAndBlocksRejoin(t *testing.T) {
	h := NewHub(logger.NewTestLogger())
	c := NewClient("a", 1)

	h.Join(c, "r")
	h.Drop(c)
	h.Drop(c)

	h.Join(c, "r")
	assert.Zero(t, h.RoomSize("r"))
}

func TestHub_ConcurrentJoinLeaveBroadcast(t *testing.T) {
	h := NewHub(logger.NewTestLogger())

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			c := NewClient(fmt.Sprintf("c%d", i), 2)
			room := fmt.Sprintf("r%d", i%3)

			for range 50 {
				h.Join(c, room)
				h.Broadcast(room, "e", i)
				h.Leave(c, room)
			}

			h.Drop(c)
		}(i)
	}

	wg.Wait()

	assert.Zero(t, h.RoomCount())
}
