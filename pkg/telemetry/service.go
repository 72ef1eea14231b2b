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

// Package telemetry is the ingestion pipeline: persist a sample, refresh the
// latest-sample cache, publish it, and raise alerts against thresholds.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/netpulse/pkg/aggregate"
	"github.com/carverauto/netpulse/pkg/alerting"
	"github.com/carverauto/netpulse/pkg/cache"
	"github.com/carverauto/netpulse/pkg/db"
	"github.com/carverauto/netpulse/pkg/events"
	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

const (
	maxHistoryLimit            = 1000
	dashboardWindow            = time.Hour
	dashboardLatencyPercentile = 95

	tracerName = "github.com/carverauto/netpulse/pkg/telemetry"
)

type Service struct {
	store  db.Service
	cache  *cache.Helper
	events *events.Emitter
	table  alerting.Table
	log    logger.Logger
	tracer trace.Tracer
	nowFn  func() time.Time
}

// NewService wires the pipeline. A nil table selects alerting.DefaultTable.
func NewService(
	store db.Service, c *cache.Helper, emitter *events.Emitter, table alerting.Table, log logger.Logger,
) *Service {
	if table == nil {
		table = alerting.DefaultTable()
	}

	return &Service{
		store:  store,
		cache:  c,
		events: emitter,
		table:  table,
		log:    log,
		tracer: otel.Tracer(tracerName),
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// Ingest persists one sample and runs alerting on it. Only the persist step
// can fail the call; cache, publish and alert failures are logged and
// recorded on the ingest trace.
func (s *Service) Ingest(ctx context.Context, input *models.TelemetryInput) (*models.TelemetrySample, error) {
	if input == nil || input.DeviceID == "" {
		return nil, models.NewValidationError(nil, "deviceId is required")
	}

	ctx, span := s.tracer.Start(ctx, "telemetry.Ingest", trace.WithAttributes(
		attribute.String("device.id", input.DeviceID),
	))
	defer span.End()

	sample, err := s.persist(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")

		return nil, fmt.Errorf("ingest telemetry for %s: %w", input.DeviceID, err)
	}

	recordIngested(ctx, 1, ingestModeSingle)

	s.traced(ctx, "telemetry.cache", func(ctx context.Context) {
		s.cache.Store(ctx, cache.LatestTelemetryKey(sample.DeviceID), sample, cache.LatestTelemetryTTL)
	})

	s.traced(ctx, "telemetry.publish", func(ctx context.Context) {
		s.events.Emit(ctx, events.ChannelTelemetry, events.Event{
			Type:     events.TypeTelemetryReceived,
			Payload:  sample,
			DeviceID: sample.DeviceID,
		})
	})

	s.traced(ctx, "telemetry.evaluate", func(ctx context.Context) {
		s.raiseAlerts(ctx, sample)
	})

	return sample, nil
}

// traced runs fn under a child span named name.
func (s *Service) traced(ctx context.Context, name string, fn func(context.Context)) {
	ctx, span := s.tracer.Start(ctx, name)
	defer span.End()

	fn(ctx)
}

func (s *Service) persist(ctx context.Context, input *models.TelemetryInput) (*models.TelemetrySample, error) {
	ctx, span := s.tracer.Start(ctx, "telemetry.persist")
	defer span.End()

	sample, err := s.store.InsertTelemetry(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.String("sample.id", sample.ID))

	return sample, nil
}

func (s *Service) raiseAlerts(ctx context.Context, sample *models.TelemetrySample) {
	span := trace.SpanFromContext(ctx)

	device, err := s.store.GetDevice(ctx, sample.DeviceID)
	if errors.Is(err, models.ErrNotFound) {
		s.log.Debug().Str("device_id", sample.DeviceID).Msg("telemetry for unregistered device, skipping alerts")
		span.AddEvent("device not registered")

		return
	}

	if err != nil {
		s.log.Warn().Err(err).Str("device_id", sample.DeviceID).Msg("device lookup failed, skipping alerts")
		span.AddEvent("device lookup failed", trace.WithAttributes(attribute.String("error", err.Error())))

		return
	}

	candidates := alerting.Evaluate(&sample.TelemetryInput, s.table)
	span.SetAttributes(attribute.Int("alert.candidates", len(candidates)))

	for _, c := range candidates {
		s.raiseAlert(ctx, device, c)
	}
}

func (s *Service) raiseAlert(ctx context.Context, device *models.Device, c alerting.Candidate) {
	ctx, span := s.tracer.Start(ctx, "telemetry.alert", trace.WithAttributes(
		attribute.String("alert.type", string(c.Type)),
		attribute.String("alert.severity", string(c.Severity)),
	))
	defer span.End()

	alert, err := s.store.CreateAlert(ctx, &models.Alert{
		Type:           c.Type,
		Severity:       c.Severity,
		Title:          c.Title(device.Name),
		Message:        c.Message,
		DeviceID:       &device.ID,
		OrganizationID: device.OrganizationID,
	})
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("device_id", device.ID).
			Str("alert_type", string(c.Type)).
			Msg("failed to persist alert")

		span.RecordError(err)
		span.SetStatus(codes.Error, "alert persist failed")

		return
	}

	recordAlertCreated(ctx, alert.Severity)

	s.events.Emit(ctx, events.ChannelAlert, events.Event{
		Type:           events.TypeAlertCreated,
		Payload:        alert,
		OrganizationID: device.OrganizationID,
		DeviceID:       device.ID,
	})
}

// BatchIngest bulk-inserts inputs. The batch is validated as a whole before
// anything is written, and no alerting, caching or publishing happens.
func (s *Service) BatchIngest(ctx context.Context, inputs []*models.TelemetryInput) (int, error) {
	if len(inputs) == 0 {
		return 0, models.NewValidationError(nil, "telemetry batch is empty")
	}

	if len(inputs) > models.MaxBatchSize {
		return 0, models.NewValidationError(
			map[string]any{"maxSize": models.MaxBatchSize, "receivedSize": len(inputs)},
			"telemetry batch exceeds %d samples", models.MaxBatchSize)
	}

	for i, in := range inputs {
		if in == nil || in.DeviceID == "" {
			return 0, models.NewValidationError(map[string]any{"index": i}, "deviceId is required")
		}
	}

	n, err := s.store.InsertTelemetryBatch(ctx, inputs)
	if err != nil {
		return 0, fmt.Errorf("batch ingest %d samples: %w", len(inputs), err)
	}

	recordIngested(ctx, n, ingestModeBatch)

	return n, nil
}

// GetLatest returns the newest sample for deviceID, or nil when there is none.
func (s *Service) GetLatest(ctx context.Context, deviceID string) (*models.TelemetrySample, error) {
	key := cache.LatestTelemetryKey(deviceID)

	if sample, ok := cache.Lookup[models.TelemetrySample](ctx, s.cache, key); ok {
		return sample, nil
	}

	sample, err := s.store.LatestTelemetry(ctx, deviceID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	s.cache.Store(ctx, key, sample, cache.LatestTelemetryTTL)

	return sample, nil
}

// GetHistory returns samples in [start, end], newest first. An inverted
// range is empty. The limit is clamped to 1000; zero or negative selects
// the maximum.
func (s *Service) GetHistory(
	ctx context.Context, deviceID string, start, end time.Time, limit int,
) ([]*models.TelemetrySample, error) {
	if end.Before(start) {
		return []*models.TelemetrySample{}, nil
	}

	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	return s.store.TelemetryRange(ctx, deviceID, start, end, limit)
}

// GetAggregated returns stored roll-ups in [start, end], oldest first.
func (s *Service) GetAggregated(
	ctx context.Context, deviceID string, period models.AggregatePeriod, start, end time.Time,
) ([]*models.TelemetryAggregate, error) {
	if _, err := period.Window(); err != nil {
		return nil, models.NewValidationError(map[string]any{"period": period}, "%v", err)
	}

	return s.store.ListAggregates(ctx, deviceID, period, start, end)
}

// CreateAggregates rolls up the trailing period window ending now. It
// returns nil without writing when the window has no samples.
func (s *Service) CreateAggregates(
	ctx context.Context, deviceID string, period models.AggregatePeriod,
) (*models.TelemetryAggregate, error) {
	window, err := period.Window()
	if err != nil {
		return nil, models.NewValidationError(map[string]any{"period": period}, "%v", err)
	}

	end := s.nowFn()
	start := end.Add(-window)

	samples, err := s.store.TelemetryRange(ctx, deviceID, start, end, 0)
	if err != nil {
		return nil, fmt.Errorf("load %s window for %s: %w", period, deviceID, err)
	}

	if len(samples) == 0 {
		return nil, nil
	}

	agg := buildAggregate(deviceID, period, start, samples)

	if err := s.store.UpsertAggregate(ctx, agg); err != nil {
		return nil, err
	}

	return agg, nil
}

func latencyMs(s *models.TelemetrySample) *float64     { return s.LatencyMs }
func packetLoss(s *models.TelemetrySample) *float64    { return s.PacketLoss }
func bandwidthUp(s *models.TelemetrySample) *float64   { return s.BandwidthUp }
func bandwidthDown(s *models.TelemetrySample) *float64 { return s.BandwidthDown }
func cpuUsage(s *models.TelemetrySample) *float64      { return s.CPUUsage }
func memoryUsage(s *models.TelemetrySample) *float64   { return s.MemoryUsage }

func buildAggregate(
	deviceID string, period models.AggregatePeriod, windowStart time.Time, samples []*models.TelemetrySample,
) *models.TelemetryAggregate {
	latency := aggregate.Column(samples, latencyMs)

	return &models.TelemetryAggregate{
		DeviceID:         deviceID,
		Period:           period,
		Timestamp:        windowStart,
		AvgLatency:       aggregate.Avg(latency),
		MinLatency:       aggregate.Min(latency),
		MaxLatency:       aggregate.Max(latency),
		AvgPacketLoss:    aggregate.Avg(aggregate.Column(samples, packetLoss)),
		AvgBandwidthUp:   aggregate.Avg(aggregate.Column(samples, bandwidthUp)),
		AvgBandwidthDown: aggregate.Avg(aggregate.Column(samples, bandwidthDown)),
		AvgCPUUsage:      aggregate.Avg(aggregate.Column(samples, cpuUsage)),
		AvgMemoryUsage:   aggregate.Avg(aggregate.Column(samples, memoryUsage)),
		SampleCount:      len(samples),
	}
}

// GetDashboardMetrics summarizes the organization's trailing hour. The
// sample and alert-count reads run concurrently.
func (s *Service) GetDashboardMetrics(ctx context.Context, orgID string) (*models.DashboardMetrics, error) {
	since := s.nowFn().Add(-dashboardWindow)

	var (
		samples []*models.TelemetrySample
		counts  map[models.AlertSeverity]int
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		samples, err = s.store.OrganizationTelemetrySince(gctx, orgID, since)

		return err
	})

	g.Go(func() error {
		var err error

		counts, err = s.store.CountUnresolvedAlerts(gctx, orgID)

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard metrics for %s: %w", orgID, err)
	}

	bandwidth := models.Bandwidth{
		Up:   valueOrZero(aggregate.Sum(aggregate.Column(samples, bandwidthUp))),
		Down: valueOrZero(aggregate.Sum(aggregate.Column(samples, bandwidthDown))),
	}

	latency := aggregate.Column(samples, latencyMs)

	metrics := &models.DashboardMetrics{
		AvgLatency:     valueOrZero(aggregate.Avg(latency)),
		MedianLatency:  valueOrZero(aggregate.Median(latency)),
		P95Latency:     valueOrZero(aggregate.Percentile(latency, dashboardLatencyPercentile)),
		AvgPacketLoss:  valueOrZero(aggregate.Avg(aggregate.Column(samples, packetLoss))),
		TotalBandwidth: bandwidth,
		AlertCounts:    make(map[models.AlertSeverity]int, len(models.AllAlertSeverities())),
		DataPoints:     len(samples),
	}

	for _, sev := range models.AllAlertSeverities() {
		metrics.AlertCounts[sev] = counts[sev]
	}

	return metrics, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}
