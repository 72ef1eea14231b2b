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
	"slices"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

// NATSBus publishes into a JetStream stream that captures every channel and
// subscribes with core NATS so live consumers see messages as they arrive.
type NATSBus struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	stream string
	log    logger.Logger
	owned  bool
}

var _ Bus = (*NATSBus)(nil)

// ConnectNATS dials NATS with logging connection handlers.
func ConnectNATS(cfg *models.NATSConfig, log logger.Logger, extraOpts ...nats.Option) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("netpulse"),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	if cfg.TLS != nil {
		tlsConfig, err := TLSConfig(cfg.TLS)
		if err != nil {
			return nil, err
		}

		opts = append(opts, nats.Secure(tlsConfig))
	}

	opts = append(opts, extraOpts...)

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return nc, nil
}

// NewNATSBus binds to streamName, creating it or extending its subjects to
// cover every event channel. The connection stays owned by the caller.
func NewNATSBus(ctx context.Context, nc *nats.Conn, domain, streamName string, log logger.Logger) (*NATSBus, error) {
	var (
		js  jetstream.JetStream
		err error
	)

	if domain != "" {
		js, err = jetstream.NewWithDomain(nc, domain)
	} else {
		js, err = jetstream.New(nc)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	subjects := Channels()

	stream, err := js.Stream(ctx, streamName)

	switch {
	case err == nil:
		info, infoErr := stream.Info(ctx)
		if infoErr != nil {
			return nil, fmt.Errorf("failed to read stream %s: %w", streamName, infoErr)
		}

		subjects = ensureSubjects(info.Config.Subjects, subjects)
		if len(subjects) == len(info.Config.Subjects) {
			break
		}

		cfg := info.Config
		cfg.Subjects = subjects

		if _, err = js.UpdateStream(ctx, cfg); err != nil {
			return nil, fmt.Errorf("failed to update stream %s: %w", streamName, err)
		}
	case errors.Is(err, jetstream.ErrStreamNotFound):
		_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:     streamName,
			Subjects: subjects,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stream %s: %w", streamName, err)
		}

		log.Info().Str("stream", streamName).Msg("created JetStream stream")
	default:
		return nil, fmt.Errorf("failed to look up stream %s: %w", streamName, err)
	}

	return &NATSBus{nc: nc, js: js, stream: streamName, log: log}, nil
}

func ensureSubjects(existing, required []string) []string {
	out := append([]string(nil), existing...)

	for _, s := range required {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}

	return out
}

// OwnConnection makes Close drain the underlying connection.
func (b *NATSBus) OwnConnection() *NATSBus {
	b.owned = true
	return b
}

func (b *NATSBus) Publish(ctx context.Context, channel string, evt *Event) error {
	data, err := encode(channel, evt)
	if err != nil {
		return err
	}

	ack, err := b.js.Publish(ctx, channel, data)
	if err != nil {
		return fmt.Errorf("failed to publish %s on %s: %w", evt.Type, channel, err)
	}

	b.log.Debug().
		Str("channel", channel).
		Str("event_id", evt.ID).
		Uint64("seq", ack.Sequence).
		Msg("published event")

	return nil
}

func (b *NATSBus) Subscribe(ctx context.Context, channel string, handler Handler) (Subscription, error) {
	sub, err := b.nc.Subscribe(channel, func(msg *nats.Msg) {
		evt, err := decode(msg.Data)
		if err != nil {
			b.log.Warn().Err(err).Str("channel", channel).Msg("dropping undecodable event")
			return
		}

		handler(ctx, evt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	return sub, nil
}

func (b *NATSBus) Close() error {
	if !b.owned {
		return nil
	}

	return b.nc.Drain()
}
