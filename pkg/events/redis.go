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

package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/carverauto/netpulse/pkg/logger"
)

// RedisBus uses Redis PUBLISH/SUBSCRIBE. Messages published while no
// subscriber is connected are lost.
type RedisBus struct {
	rdb *redis.Client
	log logger.Logger

	mu     sync.Mutex
	subs   map[*redis.PubSub]struct{}
	closed bool
	wg     sync.WaitGroup
}

var _ Bus = (*RedisBus)(nil)

// NewRedisBus shares rdb with the caller, who keeps ownership of it.
func NewRedisBus(rdb *redis.Client, log logger.Logger) *RedisBus {
	return &RedisBus{rdb: rdb, log: log, subs: make(map[*redis.PubSub]struct{})}
}

func (b *RedisBus) Publish(ctx context.Context, channel string, evt *Event) error {
	data, err := encode(channel, evt)
	if err != nil {
		return err
	}

	if err := b.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s on %s: %w", evt.Type, channel, err)
	}

	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string, handler Handler) (Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}
	b.mu.Unlock()

	ps := b.rdb.Subscribe(ctx, channel)

	// Wait for the subscription confirmation so no message published after
	// Subscribe returns is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	b.mu.Lock()
	b.subs[ps] = struct{}{}
	b.mu.Unlock()

	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		for msg := range ps.Channel() {
			evt, err := decode([]byte(msg.Payload))
			if err != nil {
				b.log.Warn().Err(err).Str("channel", channel).Msg("dropping undecodable event")
				continue
			}

			handler(ctx, evt)
		}
	}()

	return subscriptionFunc(func() error { return b.release(ps) }), nil
}

func (b *RedisBus) release(ps *redis.PubSub) error {
	b.mu.Lock()
	_, ok := b.subs[ps]
	delete(b.subs, ps)
	b.mu.Unlock()

	if !ok {
		return nil
	}

	return ps.Close()
}

// Close ends every subscription and waits for their handlers to return.
func (b *RedisBus) Close() error {
	b.mu.Lock()
	b.closed = true

	subs := make([]*redis.PubSub, 0, len(b.subs))
	for ps := range b.subs {
		subs = append(subs, ps)
	}
	b.mu.Unlock()

	var firstErr error

	for _, ps := range subs {
		if err := b.release(ps); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	b.wg.Wait()

	return firstErr
}
