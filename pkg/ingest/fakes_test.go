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
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/carverauto/netpulse/pkg/models"
)

type fakeIngester struct {
	mu       sync.Mutex
	single   []*models.TelemetryInput
	batches  [][]*models.TelemetryInput
	batchErr []error
	err      error
}

func (f *fakeIngester) Ingest(_ context.Context, input *models.TelemetryInput) (*models.TelemetrySample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.single = append(f.single, input)

	if f.err != nil {
		return nil, f.err
	}

	return &models.TelemetrySample{TelemetryInput: *input, ID: "s1"}, nil
}

// BatchIngest pops one queued error per call; nil once the queue is empty.
func (f *fakeIngester) BatchIngest(_ context.Context, inputs []*models.TelemetryInput) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var err error
	if len(f.batchErr) > 0 {
		err, f.batchErr = f.batchErr[0], f.batchErr[1:]
	}

	if err != nil {
		return 0, err
	}

	f.batches = append(f.batches, append([]*models.TelemetryInput(nil), inputs...))

	return len(inputs), nil
}

func (f *fakeIngester) Batches() [][]*models.TelemetryInput {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([][]*models.TelemetryInput(nil), f.batches...)
}

type fakeHeartbeater struct {
	ids []string
	err error
}

func (f *fakeHeartbeater) Heartbeat(_ context.Context, id string) (*models.Device, error) {
	f.ids = append(f.ids, id)
	if f.err != nil {
		return nil, f.err
	}

	return &models.Device{ID: id, Status: models.DeviceStatusOnline}, nil
}

type fakeReader struct {
	msgs chan kafka.Message

	mu      sync.Mutex
	commits [][]kafka.Message
}

func newFakeReader() *fakeReader {
	return &fakeReader{msgs: make(chan kafka.Message, 16)}
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-f.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.commits = append(f.commits, msgs)

	return nil
}

func (f *fakeReader) Commits() [][]kafka.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([][]kafka.Message(nil), f.commits...)
}
