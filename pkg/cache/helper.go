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

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/netpulse/pkg/logger"
)

// Helper layers JSON encoding and fail-open error handling over a Cache.
// None of its methods return errors: a broken cache degrades to misses.
type Helper struct {
	c   Cache
	log logger.Logger
}

func NewHelper(c Cache, log logger.Logger) *Helper {
	return &Helper{c: c, log: log}
}

// Lookup decodes the value at key. Any backend or decode error is logged
// and reported as a miss.
func Lookup[T any](ctx context.Context, h *Helper, key string) (*T, bool) {
	raw, err := h.c.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			h.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling back to store")
		}

		return nil, false
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return nil, false
	}

	return &out, true
}

// Store encodes v and writes it with ttl. A failed write is logged and
// noted on the active span.
func (h *Helper) Store(ctx context.Context, key string, v any, ttl time.Duration) {
	raw, err := json.Marshal(v)
	if err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}

	if err := h.c.Set(ctx, key, raw, ttl); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		trace.SpanFromContext(ctx).AddEvent("cache write failed", trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.String("error", err.Error()),
		))
	}
}

// Invalidate deletes keys.
func (h *Helper) Invalidate(ctx context.Context, keys ...string) {
	if err := h.c.Del(ctx, keys...); err != nil {
		h.log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// InvalidatePrefix deletes every key under prefix.
func (h *Helper) InvalidatePrefix(ctx context.Context, prefix string) {
	if err := h.c.InvalidatePattern(ctx, prefix); err != nil {
		h.log.Warn().Err(err).Str("prefix", prefix).Msg("cache prefix invalidation failed")
	}
}
