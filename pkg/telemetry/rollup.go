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
	"time"

	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

type aggregator interface {
	CreateAggregates(ctx context.Context, deviceID string, period models.AggregatePeriod) (*models.TelemetryAggregate, error)
}

type deviceIDLister interface {
	ListDeviceIDs(ctx context.Context, orgID string) ([]string, error)
}

// RollupSchedule runs one period's roll-up every Interval.
type RollupSchedule struct {
	Period   models.AggregatePeriod
	Interval time.Duration
}

// SchedulesFromConfig returns the hourly and daily schedules with defaults
// applied for unset intervals.
func SchedulesFromConfig(cfg models.RollupConfig) []RollupSchedule {
	hourly, daily := time.Duration(cfg.HourlyInterval), time.Duration(cfg.DailyInterval)

	if hourly <= 0 {
		hourly = time.Hour
	}

	if daily <= 0 {
		daily = 24 * time.Hour
	}

	return []RollupSchedule{
		{Period: models.PeriodHourly, Interval: hourly},
		{Period: models.PeriodDaily, Interval: daily},
	}
}

// Rollup periodically aggregates every known device.
type Rollup struct {
	agg       aggregator
	devices   deviceIDLister
	schedules []RollupSchedule
	clock     Clock
	log       logger.Logger

	wg sync.WaitGroup
}

func NewRollup(agg aggregator, devices deviceIDLister, schedules []RollupSchedule, clock Clock, log logger.Logger) *Rollup {
	if clock == nil {
		clock = realClock{}
	}

	return &Rollup{
		agg:       agg,
		devices:   devices,
		schedules: schedules,
		clock:     clock,
		log:       log,
	}
}

// Start blocks until ctx is cancelled. Each schedule ticks independently and
// an in-flight run is waited for before returning.
func (r *Rollup) Start(ctx context.Context) error {
	for _, sched := range r.schedules {
		if sched.Interval <= 0 {
			continue
		}

		r.wg.Add(1)

		go r.loop(ctx, sched)
	}

	r.log.Info().Int("schedules", len(r.schedules)).Msg("rollup scheduler started")

	<-ctx.Done()
	r.wg.Wait()

	return nil
}

func (r *Rollup) loop(ctx context.Context, sched RollupSchedule) {
	defer r.wg.Done()

	ticker := r.clock.Ticker(sched.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.RunOnce(ctx, sched.Period)
		}
	}
}

// RunOnce aggregates period for every device and returns how many rows were
// written. A failing device is logged and skipped.
func (r *Rollup) RunOnce(ctx context.Context, period models.AggregatePeriod) int {
	ids, err := r.devices.ListDeviceIDs(ctx, "")
	if err != nil {
		r.log.Error().Err(err).Str("period", string(period)).Msg("rollup: failed to list devices")
		return 0
	}

	started := r.clock.Now()
	written := 0

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		agg, err := r.agg.CreateAggregates(ctx, id, period)
		if err != nil {
			r.log.Warn().Err(err).Str("device_id", id).Str("period", string(period)).Msg("rollup failed for device")
			continue
		}

		if agg != nil {
			written++
		}
	}

	r.log.Info().
		Str("period", string(period)).
		Int("devices", len(ids)).
		Int("written", written).
		Dur("took", r.clock.Now().Sub(started)).
		Msg("rollup complete")

	return written
}
