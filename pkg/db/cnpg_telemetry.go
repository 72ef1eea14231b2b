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

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/netpulse/pkg/models"
)

const telemetryColumns = `id, device_id, timestamp, latency_ms, jitter_ms, packet_loss,
	bandwidth_up, bandwidth_down, cpu_usage, memory_usage, disk_usage,
	temperature, signal_strength, connected_clients, metadata`

//nolint:gochecknoglobals // column order for COPY, matches telemetryColumns
var telemetryCopyColumns = []string{
	"id", "device_id", "timestamp", "latency_ms", "jitter_ms", "packet_loss",
	"bandwidth_up", "bandwidth_down", "cpu_usage", "memory_usage", "disk_usage",
	"temperature", "signal_strength", "connected_clients", "metadata",
}

const aggregateColumns = `id, device_id, period, timestamp, avg_latency, min_latency, max_latency,
	avg_packet_loss, avg_bandwidth_up, avg_bandwidth_down, avg_cpu_usage,
	avg_memory_usage, sample_count`

const (
	insertTelemetrySQL = `
INSERT INTO telemetry_data (` + telemetryColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`

	latestTelemetrySQL = `SELECT ` + telemetryColumns + `
FROM telemetry_data WHERE device_id = $1
ORDER BY timestamp DESC LIMIT 1`

	telemetryRangeSQL = `SELECT ` + telemetryColumns + `
FROM telemetry_data
WHERE device_id = $1 AND timestamp >= $2 AND timestamp <= $3
ORDER BY timestamp DESC`

	upsertAggregateSQL = `
INSERT INTO telemetry_aggregates (` + aggregateColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (device_id, period, timestamp) DO UPDATE SET
	avg_latency = EXCLUDED.avg_latency,
	min_latency = EXCLUDED.min_latency,
	max_latency = EXCLUDED.max_latency,
	avg_packet_loss = EXCLUDED.avg_packet_loss,
	avg_bandwidth_up = EXCLUDED.avg_bandwidth_up,
	avg_bandwidth_down = EXCLUDED.avg_bandwidth_down,
	avg_cpu_usage = EXCLUDED.avg_cpu_usage,
	avg_memory_usage = EXCLUDED.avg_memory_usage,
	sample_count = EXCLUDED.sample_count`

	listAggregatesSQL = `SELECT ` + aggregateColumns + `
FROM telemetry_aggregates
WHERE device_id = $1 AND period = $2 AND timestamp >= $3 AND timestamp <= $4
ORDER BY timestamp ASC`
)

//nolint:gochecknoglobals
var orgTelemetrySinceSQL = `SELECT ` + prefixColumns("t", telemetryColumns) + `
FROM telemetry_data t
JOIN network_devices d ON d.id = t.device_id
WHERE d.organization_id = $1 AND t.timestamp >= $2
ORDER BY t.timestamp DESC`

func telemetryArgs(s *models.TelemetrySample) []any {
	return []any{
		s.ID, s.DeviceID, s.Timestamp, s.LatencyMs, s.JitterMs, s.PacketLoss,
		s.BandwidthUp, s.BandwidthDown, s.CPUUsage, s.MemoryUsage, s.DiskUsage,
		s.Temperature, s.SignalStrength, s.ConnectedClients, s.Metadata,
	}
}

func scanTelemetry(row rowScanner) (*models.TelemetrySample, error) {
	var s models.TelemetrySample

	err := row.Scan(
		&s.ID, &s.DeviceID, &s.Timestamp, &s.LatencyMs, &s.JitterMs, &s.PacketLoss,
		&s.BandwidthUp, &s.BandwidthDown, &s.CPUUsage, &s.MemoryUsage, &s.DiskUsage,
		&s.Temperature, &s.SignalStrength, &s.ConnectedClients, &s.Metadata,
	)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func collectTelemetry(rows pgx.Rows) ([]*models.TelemetrySample, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.TelemetrySample, error) {
		return scanTelemetry(row)
	})
}

func newSample(input *models.TelemetryInput, ts time.Time) *models.TelemetrySample {
	return &models.TelemetrySample{TelemetryInput: *input, ID: newID(), Timestamp: ts}
}

func (s *CNPGStore) InsertTelemetry(ctx context.Context, input *models.TelemetryInput) (*models.TelemetrySample, error) {
	sample := newSample(input, nowUTC())

	if _, err := s.pool.Exec(ctx, insertTelemetrySQL, telemetryArgs(sample)...); err != nil {
		return nil, fmt.Errorf("%w telemetry for %s: %w", ErrFailedToInsert, input.DeviceID, err)
	}

	return sample, nil
}

// InsertTelemetryBatch streams every input through COPY; the whole batch
// lands or none of it does.
func (s *CNPGStore) InsertTelemetryBatch(ctx context.Context, inputs []*models.TelemetryInput) (int, error) {
	if len(inputs) == 0 {
		return 0, nil
	}

	now := nowUTC()
	rows := make([][]any, 0, len(inputs))

	for _, input := range inputs {
		rows = append(rows, telemetryArgs(newSample(input, now)))
	}

	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{"telemetry_data"}, telemetryCopyColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("%w telemetry batch: %w", ErrFailedToInsert, err)
	}

	s.log.Debug().Int64("rows", n).Msg("copied telemetry batch")

	return int(n), nil
}

func (s *CNPGStore) LatestTelemetry(ctx context.Context, deviceID string) (*models.TelemetrySample, error) {
	sample, err := scanTelemetry(s.pool.QueryRow(ctx, latestTelemetrySQL, deviceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NotFound("telemetry", deviceID)
	}

	if err != nil {
		return nil, fmt.Errorf("%w latest telemetry for %s: %w", ErrFailedToQuery, deviceID, err)
	}

	return sample, nil
}

func (s *CNPGStore) TelemetryRange(
	ctx context.Context, deviceID string, start, end time.Time, limit int,
) ([]*models.TelemetrySample, error) {
	query := telemetryRangeSQL
	if limit > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, limit)
	}

	rows, err := s.pool.Query(ctx, query, deviceID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w telemetry range for %s: %w", ErrFailedToQuery, deviceID, err)
	}

	samples, err := collectTelemetry(rows)
	if err != nil {
		return nil, fmt.Errorf("%w telemetry range for %s: %w", ErrFailedToScan, deviceID, err)
	}

	return samples, nil
}

func (s *CNPGStore) OrganizationTelemetrySince(
	ctx context.Context, orgID string, since time.Time,
) ([]*models.TelemetrySample, error) {
	rows, err := s.pool.Query(ctx, orgTelemetrySinceSQL, orgID, since)
	if err != nil {
		return nil, fmt.Errorf("%w organization telemetry: %w", ErrFailedToQuery, err)
	}

	samples, err := collectTelemetry(rows)
	if err != nil {
		return nil, fmt.Errorf("%w organization telemetry: %w", ErrFailedToScan, err)
	}

	return samples, nil
}

func (s *CNPGStore) UpsertAggregate(ctx context.Context, agg *models.TelemetryAggregate) error {
	id := agg.ID
	if id == "" {
		id = newID()
	}

	_, err := s.pool.Exec(ctx, upsertAggregateSQL,
		id, agg.DeviceID, agg.Period, agg.Timestamp, agg.AvgLatency, agg.MinLatency, agg.MaxLatency,
		agg.AvgPacketLoss, agg.AvgBandwidthUp, agg.AvgBandwidthDown, agg.AvgCPUUsage,
		agg.AvgMemoryUsage, agg.SampleCount,
	)
	if err != nil {
		return fmt.Errorf("%w %s aggregate for %s: %w", ErrFailedToInsert, agg.Period, agg.DeviceID, err)
	}

	return nil
}

func (s *CNPGStore) ListAggregates(
	ctx context.Context, deviceID string, period models.AggregatePeriod, start, end time.Time,
) ([]*models.TelemetryAggregate, error) {
	rows, err := s.pool.Query(ctx, listAggregatesSQL, deviceID, period, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w aggregates for %s: %w", ErrFailedToQuery, deviceID, err)
	}

	aggs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.TelemetryAggregate, error) {
		var a models.TelemetryAggregate

		err := row.Scan(
			&a.ID, &a.DeviceID, &a.Period, &a.Timestamp, &a.AvgLatency, &a.MinLatency, &a.MaxLatency,
			&a.AvgPacketLoss, &a.AvgBandwidthUp, &a.AvgBandwidthDown, &a.AvgCPUUsage,
			&a.AvgMemoryUsage, &a.SampleCount,
		)

		return &a, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w aggregates for %s: %w", ErrFailedToScan, deviceID, err)
	}

	return aggs, nil
}
