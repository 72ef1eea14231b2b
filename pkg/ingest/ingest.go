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

// Package ingest feeds telemetry from message brokers into the ingestion
// service: single samples and heartbeats over MQTT, bulk loads over Kafka.
package ingest

import (
	"context"
	"errors"

	"github.com/carverauto/netpulse/pkg/models"
)

var (
	errNoBroker     = errors.New("mqtt broker is required")
	errNoBrokers    = errors.New("kafka brokers are required")
	errNoTopic      = errors.New("kafka topic is required")
	errTopicInvalid = errors.New("topic does not match prefix/<deviceId>/<kind>")
)

type sampleIngester interface {
	Ingest(ctx context.Context, input *models.TelemetryInput) (*models.TelemetrySample, error)
}

type batchIngester interface {
	BatchIngest(ctx context.Context, inputs []*models.TelemetryInput) (int, error)
}

type heartbeater interface {
	Heartbeat(ctx context.Context, id string) (*models.Device, error)
}
