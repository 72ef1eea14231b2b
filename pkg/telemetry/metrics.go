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

package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/carverauto/netpulse/pkg/models"
)

const (
	meterName = "github.com/carverauto/netpulse/pkg/telemetry"

	metricIngested     = "netpulse.telemetry.ingested"
	metricBatchIngests = "netpulse.telemetry.batch_ingested"
	metricAlerts       = "netpulse.alerts.created"

	ingestModeSingle = "single"
	ingestModeBatch  = "batch"
)

//nolint:gochecknoglobals // instruments are shared across the process
var (
	meterOnce     sync.Once
	ingestCounter metric.Int64Counter
	batchCounter  metric.Int64Counter
	alertCounter  metric.Int64Counter
)

func initMeter() {
	meter := otel.Meter(meterName)

	var err error

	if ingestCounter, err = meter.Int64Counter(
		metricIngested,
		metric.WithDescription("Telemetry samples persisted"),
		metric.WithUnit("{sample}"),
	); err != nil {
		otel.Handle(err)
	}

	if batchCounter, err = meter.Int64Counter(
		metricBatchIngests,
		metric.WithDescription("Bulk ingestion calls that reached the store"),
	); err != nil {
		otel.Handle(err)
	}

	if alertCounter, err = meter.Int64Counter(
		metricAlerts,
		metric.WithDescription("Alerts raised by threshold evaluation"),
	); err != nil {
		otel.Handle(err)
	}
}

func recordIngested(ctx context.Context, count int, mode string) {
	meterOnce.Do(initMeter)

	if ingestCounter != nil && count > 0 {
		ingestCounter.Add(ctx, int64(count), metric.WithAttributes(attribute.String("mode", mode)))
	}

	if mode == ingestModeBatch && batchCounter != nil {
		batchCounter.Add(ctx, 1)
	}
}

func recordAlertCreated(ctx context.Context, severity models.AlertSeverity) {
	meterOnce.Do(initMeter)

	if alertCounter == nil {
		return
	}

	alertCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("severity", string(severity))))
}
