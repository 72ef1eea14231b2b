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
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/carverauto/netpulse/pkg/events"
	"github.com/carverauto/netpulse/pkg/logger"
)

// Relay subscribes to every event channel and forwards events to the hub.
type Relay struct {
	sub events.Subscriber
	hub *Hub
	log logger.Logger

	mu   sync.Mutex
	subs []events.Subscription
}

func NewRelay(sub events.Subscriber, hub *Hub, log logger.Logger) *Relay {
	return &Relay{sub: sub, hub: hub, log: log}
}

// Start subscribes to every channel. On failure the subscriptions made so
// far are released.
func (r *Relay) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, channel := range events.Channels() {
		s, err := r.sub.Subscribe(ctx, channel, r.handlerFor(channel))
		if err != nil {
			_ = r.unsubscribeLocked()
			return fmt.Errorf("relay subscribe %s: %w", channel, err)
		}

		r.subs = append(r.subs, s)
	}

	r.log.Info().Strs("channels", events.Channels()).Msg("relay subscribed")

	return nil
}

func (r *Relay) handlerFor(channel string) events.Handler {
	return func(_ context.Context, evt *events.Event) {
		roomName, name, ok := RoomFor(channel, evt)
		if !ok {
			r.log.Debug().Str("channel", channel).Msg("event has no room scope, skipping")
			return
		}

		n := r.hub.Broadcast(roomName, name, evt)

		r.log.Debug().
			Str("room", roomName).
			Str("event_type", evt.Type).
			Int("delivered", n).
			Msg("relayed event")
	}
}

// Stop releases all subscriptions.
func (r *Relay) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.unsubscribeLocked()
}

func (r *Relay) unsubscribeLocked() error {
	var errs []error

	for _, s := range r.subs {
		if err := s.Unsubscribe(); err != nil {
			errs = append(errs, err)
		}
	}

	r.subs = nil

	return errors.Join(errs...)
}
