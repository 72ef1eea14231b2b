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
	"strings"
	"sync"
	"time"
)

// memorySweepInterval bounds how often Set scans for expired entries.
const memorySweepInterval = time.Minute

// Memory is an in-process Cache for single-node deployments and tests.
// Expired entries are dropped when read and, at most once per
// memorySweepInterval, by a sweep on Set.
type Memory struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	nowFn     func() time.Time
	nextSweep time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

var _ Cache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		nowFn:   time.Now,
	}
}

func (m *Memory) setNowFn(now func() time.Time) {
	if now == nil {
		return
	}

	m.mu.Lock()
	m.nowFn = now
	m.mu.Unlock()
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	now := m.nowFn()
	m.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}

	if !entry.expiresAt.After(now) {
		m.mu.Lock()
		if current, still := m.entries[key]; still && !current.expiresAt.After(now) {
			delete(m.entries, key)
		}
		m.mu.Unlock()

		return nil, ErrMiss
	}

	return cloneBytes(entry.value), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFn()
	if !now.Before(m.nextSweep) {
		m.sweepLocked(now)
	}

	m.entries[key] = memoryEntry{
		value:     cloneBytes(value),
		expiresAt: now.Add(ttl),
	}

	return nil
}

func (m *Memory) sweepLocked(now time.Time) {
	for k, entry := range m.entries {
		if !entry.expiresAt.After(now) {
			delete(m.entries, k)
		}
	}

	m.nextSweep = now.Add(memorySweepInterval)
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.entries, k)
	}

	return nil
}

func (m *Memory) InvalidatePattern(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}

	return nil
}

// Len reports live and expired-but-unswept entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}

	out := make([]byte, len(b))
	copy(out, b)

	return out
}
