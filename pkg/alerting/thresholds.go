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

// Package alerting turns telemetry samples into candidate alerts.
package alerting

import (
	"errors"
	"fmt"

	"github.com/carverauto/netpulse/pkg/models"
)

// Metric names a threshold-checked telemetry field.
type Metric string

const (
	MetricLatency        Metric = "latencyMs"
	MetricPacketLoss     Metric = "packetLoss"
	MetricCPU            Metric = "cpuUsage"
	MetricMemory         Metric = "memoryUsage"
	MetricSignalStrength Metric = "signalStrength"
	MetricTemperature    Metric = "temperature"
)

// Direction says which way a value moves as it gets worse.
type Direction int

const (
	// Above alerts when value >= threshold.
	Above Direction = iota
	// Below alerts when value <= threshold (signal strength in dBm).
	Below
)

// Threshold holds one metric's alert levels.
type Threshold struct {
	Warning   float64
	Critical  float64
	Direction Direction
}

func (t Threshold) breaches(value, limit float64) bool {
	if t.Direction == Below {
		return value <= limit
	}

	return value >= limit
}

// Table maps each metric to its levels. Metrics missing from the table are not checked.
type Table map[Metric]Threshold

var errBadThreshold = errors.New("invalid threshold")

// DefaultTable returns the built-in thresholds.
func DefaultTable() Table {
	return Table{
		MetricLatency:        {Warning: 100, Critical: 500},
		MetricPacketLoss:     {Warning: 1, Critical: 5},
		MetricCPU:            {Warning: 80, Critical: 95},
		MetricMemory:         {Warning: 85, Critical: 95},
		MetricSignalStrength: {Warning: -70, Critical: -80, Direction: Below},
		MetricTemperature:    {Warning: 70, Critical: 85},
	}
}

// WithOverrides returns a copy of t with configured levels applied. The
// direction of each metric is fixed and cannot be overridden.
func (t Table) WithOverrides(overrides map[string]models.ThresholdConfig) (Table, error) {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}

	for name, cfg := range overrides {
		metric := Metric(name)

		base, ok := out[metric]
		if !ok {
			return nil, fmt.Errorf("%w: unknown metric %q", errBadThreshold, name)
		}

		base.Warning, base.Critical = cfg.Warning, cfg.Critical

		if base.breaches(base.Warning, base.Critical) && base.Warning != base.Critical {
			return nil, fmt.Errorf("%w: %s warning %v is beyond critical %v",
				errBadThreshold, name, cfg.Warning, cfg.Critical)
		}

		out[metric] = base
	}

	return out, nil
}
