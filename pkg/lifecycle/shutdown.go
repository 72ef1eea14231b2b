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

package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/carverauto/netpulse/pkg/logger"
)

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

type closer struct {
	name string
	fn   func() error
}

// Shutdown tears down process-wide handles in reverse registration order.
type Shutdown struct {
	mu      sync.Mutex
	log     logger.Logger
	closers []closer
	done    bool
}

func NewShutdown(log logger.Logger) *Shutdown {
	return &Shutdown{log: log}
}

// Add registers fn to run on Close.
func (s *Shutdown) Add(name string, fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closers = append(s.closers, closer{name: name, fn: fn})
}

// Close runs every registered closer once, logging failures.
func (s *Shutdown) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}

	s.done = true

	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		if err := c.fn(); err != nil {
			s.log.Warn().Err(err).Str("resource", c.name).Msg("error during shutdown")
			continue
		}

		s.log.Debug().Str("resource", c.name).Msg("closed")
	}
}
