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

//go:generate mockgen -destination=mock_cache.go -package=cache github.com/carverauto/netpulse/pkg/cache Cache

// Package cache provides the read-through cache used by the device and
// telemetry services. Every backend error is treated as a miss by Helper;
// the store of record is always authoritative.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New("cache miss")
)

// Cache is a TTL key/value store addressed by string keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// InvalidatePattern deletes every key that starts with prefix.
	InvalidatePattern(ctx context.Context, prefix string) error
}

const (
	DeviceTTL          = 300 * time.Second
	DeviceListTTL      = 60 * time.Second
	LatestTelemetryTTL = 60 * time.Second
)

func DeviceKey(id string) string {
	return "device:" + id
}

// DeviceListPrefix covers every cached list page of one organization. The
// trailing separator keeps org "a" from matching org "ab".
func DeviceListPrefix(orgID string) string {
	return "devices:org:" + orgID + ":"
}

func DeviceListKey(orgID, params string) string {
	return DeviceListPrefix(orgID) + "list:" + params
}

func LatestTelemetryKey(deviceID string) string {
	return "telemetry:" + deviceID + ":latest"
}
