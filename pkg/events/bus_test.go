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
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

func TestNewBus(t *testing.T) {
	ctx := context.Background()
	log := logger.NewTestLogger()

	t.Run("none", func(t *testing.T) {
		bus, err := NewBus(ctx, models.EventsBackendNone, nil, nil, log)
		require.NoError(t, err)
		assert.IsType(t, NopBus{}, bus)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })

		bus, err := NewBus(ctx, models.EventsBackendRedis, nil, rdb, log)
		require.NoError(t, err)
		assert.IsType(t, &RedisBus{}, bus)
		require.NoError(t, bus.Close())

		_, err = NewBus(ctx, models.EventsBackendRedis, nil, nil, log)
		require.ErrorIs(t, err, errRedisClientRequired)
	})

	t.Run("nats", func(t *testing.T) {
		srv := runJetStreamServer(t)

		bus, err := NewBus(ctx, models.EventsBackendNATS,
			&models.NATSConfig{URL: srv.ClientURL(), Stream: "netpulse-events"}, nil, log)
		require.NoError(t, err)

		natsBus, ok := bus.(*NATSBus)
		require.True(t, ok)
		assert.True(t, natsBus.owned)

		require.NoError(t, bus.Close())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewBus(ctx, "carrier-pigeon", nil, nil, log)
		require.Error(t, err)
	})
}
