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
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/netpulse/pkg/logger"
)

const defaultPublishTimeout = 2 * time.Second

// Emitter is the call-site wrapper services use to publish. It never returns
// an error: a failed publish is logged, added as an event on the span in
// ctx, and the caller carries on.
type Emitter struct {
	pub     Publisher
	timeout time.Duration
	log     logger.Logger
	nowFn   func() time.Time
}

func NewEmitter(pub Publisher, timeout time.Duration, log logger.Logger) *Emitter {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	return &Emitter{
		pub:     pub,
		timeout: timeout,
		log:     log,
		nowFn:   func() time.Time { return time.Now().UTC() },
	}
}

// Emit stamps evt with an id and timestamp when missing and publishes it on
// channel. Cancellation of ctx does not abort the publish; only the emitter's
// timeout bounds it.
func (e *Emitter) Emit(ctx context.Context, channel string, evt Event) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}

	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.nowFn()
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	if err := e.pub.Publish(pctx, channel, &evt); err != nil {
		e.log.Warn().
			Err(err).
			Str("channel", channel).
			Str("event_type", evt.Type).
			Str("organization_id", evt.OrganizationID).
			Str("device_id", evt.DeviceID).
			Msg("event publish failed")

		trace.SpanFromContext(ctx).AddEvent("event publish failed", trace.WithAttributes(
			attribute.String("event.channel", channel),
			attribute.String("event.type", evt.Type),
			attribute.String("error", err.Error()),
		))
	}
}
