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
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

var errRedisClientRequired = errors.New("redis events backend needs a redis client")

// NewBus builds the backend named by backend. A NATS bus dials and owns its
// connection; a Redis bus shares rdb, which the caller closes.
func NewBus(
	ctx context.Context, backend string, natsCfg *models.NATSConfig, rdb *redis.Client, log logger.Logger,
) (Bus, error) {
	switch backend {
	case models.EventsBackendNATS:
		nc, err := ConnectNATS(natsCfg, log)
		if err != nil {
			return nil, err
		}

		bus, err := NewNATSBus(ctx, nc, natsCfg.Domain, natsCfg.Stream, log)
		if err != nil {
			nc.Close()
			return nil, err
		}

		return bus.OwnConnection(), nil
	case models.EventsBackendRedis:
		if rdb == nil {
			return nil, errRedisClientRequired
		}

		return NewRedisBus(rdb, log), nil
	case models.EventsBackendNone, "":
		return NopBus{}, nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", backend)
	}
}
