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

package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

const (
	fetchRetryDelay = 50 * time.Millisecond
	shutdownFlush   = 5 * time.Second
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaReader builds a consumer-group reader with auto-commit disabled.
func NewKafkaReader(cfg *models.KafkaConfig) (*kafka.Reader, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errNoBrokers
	}

	if cfg.Topic == "" {
		return nil, errNoTopic
	}

	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: 0,
	}), nil
}

// KafkaLoader buffers telemetry records and writes them with BatchIngest.
// Offsets are committed only after the batch holding them was written; a
// failed batch is retried on the next flush tick and fetching pauses while
// the buffer is full.
type KafkaLoader struct {
	reader        messageReader
	ingester      batchIngester
	maxBatch      int
	flushInterval time.Duration
	log           logger.Logger

	inputs  []*models.TelemetryInput
	pending []kafka.Message
}

func NewKafkaLoader(
	reader messageReader, ingester batchIngester, maxBatch int, flushInterval time.Duration, log logger.Logger,
) *KafkaLoader {
	if maxBatch <= 0 || maxBatch > models.MaxBatchSize {
		maxBatch = models.MaxBatchSize
	}

	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}

	return &KafkaLoader{
		reader:        reader,
		ingester:      ingester,
		maxBatch:      maxBatch,
		flushInterval: flushInterval,
		log:           log,
	}
}

// Run consumes until ctx is cancelled, then flushes what is buffered.
func (l *KafkaLoader) Run(ctx context.Context) error {
	msgs := make(chan kafka.Message, l.maxBatch)
	fetchDone := make(chan struct{})

	go func() {
		defer close(fetchDone)
		l.fetch(ctx, msgs)
	}()

	ticker := time.NewTicker(l.flushInterval)
	defer ticker.Stop()

	for {
		in := msgs
		if len(l.inputs) >= l.maxBatch {
			in = nil
		}

		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlush)
			l.flush(flushCtx, "shutdown")
			cancel()
			<-fetchDone

			return nil
		case <-ticker.C:
			l.flush(ctx, "interval")
		case m := <-in:
			l.add(m)

			if len(l.inputs) >= l.maxBatch {
				l.flush(ctx, "size")
			}
		}
	}
}

func (l *KafkaLoader) fetch(ctx context.Context, out chan<- kafka.Message) {
	for {
		m, err := l.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}

			l.log.Warn().Err(err).Msg("kafka fetch failed")

			select {
			case <-ctx.Done():
				return
			case <-time.After(fetchRetryDelay):
			}

			continue
		}

		select {
		case out <- m:
		case <-ctx.Done():
			return
		}
	}
}

func (l *KafkaLoader) add(m kafka.Message) {
	l.pending = append(l.pending, m)

	var input models.TelemetryInput

	if err := json.Unmarshal(m.Value, &input); err != nil {
		l.log.Warn().Err(err).
			Int("partition", m.Partition).
			Int64("offset", m.Offset).
			Msg("dropping malformed telemetry record")

		return
	}

	if input.DeviceID == "" {
		input.DeviceID = string(m.Key)
	}

	if input.DeviceID == "" {
		l.log.Warn().Int("partition", m.Partition).Int64("offset", m.Offset).Msg("dropping telemetry record without device")
		return
	}

	l.inputs = append(l.inputs, &input)
}

func (l *KafkaLoader) flush(ctx context.Context, reason string) {
	if len(l.pending) == 0 {
		return
	}

	if len(l.inputs) > 0 {
		n, err := l.ingester.BatchIngest(ctx, l.inputs)

		switch {
		case errors.Is(err, models.ErrValidation):
			// Retrying a rejected batch cannot succeed.
			l.log.Error().Err(err).Int("records", len(l.inputs)).Msg("kafka batch rejected, skipping")
		case err != nil:
			l.log.Error().Err(err).Str("reason", reason).Int("records", len(l.inputs)).Msg("kafka batch write failed")
			return
		default:
			l.log.Debug().Str("reason", reason).Int("records", n).Msg("kafka batch written")
		}
	}

	if err := l.reader.CommitMessages(ctx, l.pending...); err != nil {
		// The batch is already written; redelivery would duplicate it.
		l.log.Error().Err(err).Int("messages", len(l.pending)).Msg("kafka commit failed")
	}

	l.inputs = nil
	l.pending = nil
}
