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

package alerting

import (
	"fmt"
	"strconv"

	"github.com/carverauto/netpulse/pkg/models"
)

// Candidate is an alert the evaluator wants raised. Persisting it is the caller's job.
type Candidate struct {
	Type     models.AlertType     `json:"type"`
	Severity models.AlertSeverity `json:"severity"`
	Message  string               `json:"message"`
	Metric   Metric               `json:"metric"`
	Value    float64              `json:"value"`
}

// Title names the alert after the device that raised it.
func (c Candidate) Title(deviceName string) string {
	return fmt.Sprintf("%s on %s", c.Type, deviceName)
}

type check struct {
	metric    Metric
	alertType models.AlertType
	value     func(*models.TelemetryInput) *float64
	critical  string
	warning   string
	unit      string
}

// checks run in this order; the output preserves it.
var checks = []check{ //nolint:gochecknoglobals
	{
		metric: MetricLatency, alertType: models.AlertTypeHighLatency,
		value:    func(in *models.TelemetryInput) *float64 { return in.LatencyMs },
		critical: "Critical latency", warning: "High latency", unit: "ms",
	},
	{
		metric: MetricPacketLoss, alertType: models.AlertTypePacketLoss,
		value:    func(in *models.TelemetryInput) *float64 { return in.PacketLoss },
		critical: "Critical packet loss", warning: "High packet loss", unit: "%",
	},
	{
		metric: MetricCPU, alertType: models.AlertTypeHighCPU,
		value:    func(in *models.TelemetryInput) *float64 { return in.CPUUsage },
		critical: "Critical CPU usage", warning: "High CPU usage", unit: "%",
	},
	{
		metric: MetricMemory, alertType: models.AlertTypeHighMemory,
		value:    func(in *models.TelemetryInput) *float64 { return in.MemoryUsage },
		critical: "Critical memory usage", warning: "High memory usage", unit: "%",
	},
	{
		metric: MetricSignalStrength, alertType: models.AlertTypeLowSignal,
		value:    func(in *models.TelemetryInput) *float64 { return in.SignalStrength },
		critical: "Critical signal strength", warning: "Weak signal strength", unit: " dBm",
	},
	{
		metric: MetricTemperature, alertType: models.AlertTypeCustom,
		value:    func(in *models.TelemetryInput) *float64 { return in.Temperature },
		critical: "Critical temperature", warning: "High temperature", unit: "C",
	},
}

// Evaluate compares the sample against table and returns at most one
// candidate per metric, critical taking precedence over warning. The result
// is deterministic for a given sample and table.
func Evaluate(sample *models.TelemetryInput, table Table) []Candidate {
	if sample == nil {
		return nil
	}

	var out []Candidate

	for _, c := range checks {
		v := c.value(sample)
		if v == nil {
			continue
		}

		th, ok := table[c.metric]
		if !ok {
			continue
		}

		var severity models.AlertSeverity

		var label string

		switch {
		case th.breaches(*v, th.Critical):
			severity, label = models.SeverityCritical, c.critical
		case th.breaches(*v, th.Warning):
			severity, label = models.SeverityHigh, c.warning
		default:
			continue
		}

		out = append(out, Candidate{
			Type:     c.alertType,
			Severity: severity,
			Message:  label + ": " + strconv.FormatFloat(*v, 'f', -1, 64) + c.unit,
			Metric:   c.metric,
			Value:    *v,
		})
	}

	return out
}
