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

package models

import (
	"fmt"
	"time"
)

// TelemetryInput is one sample as reported by a device. Every metric is
// optional; absent metrics are never evaluated or aggregated.
type TelemetryInput struct {
	DeviceID         string   `json:"deviceId"`
	LatencyMs        *float64 `json:"latencyMs,omitempty"`
	JitterMs         *float64 `json:"jitterMs,omitempty"`
	PacketLoss       *float64 `json:"packetLoss,omitempty"`
	BandwidthUp      *float64 `json:"bandwidthUp,omitempty"`
	BandwidthDown    *float64 `json:"bandwidthDown,omitempty"`
	CPUUsage         *float64 `json:"cpuUsage,omitempty"`
	MemoryUsage      *float64 `json:"memoryUsage,omitempty"`
	DiskUsage        *float64 `json:"diskUsage,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	SignalStrength   *float64 `json:"signalStrength,omitempty"`
	ConnectedClients *int     `json:"connectedClients,omitempty"`
	Metadata         Metadata `json:"metadata,omitempty"`
}

// TelemetrySample is a persisted, immutable TelemetryInput with its
// server-assigned identity and timestamp.
type TelemetrySample struct {
	TelemetryInput
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// AggregatePeriod selects the roll-up window.
type AggregatePeriod string

const (
	PeriodHourly AggregatePeriod = "hourly"
	PeriodDaily  AggregatePeriod = "daily"
)

// Window returns the trailing window length covered by one aggregate row.
func (p AggregatePeriod) Window() (time.Duration, error) {
	switch p {
	case PeriodHourly:
		return time.Hour, nil
	case PeriodDaily:
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
	}
}

// TelemetryAggregate is a roll-up keyed by (DeviceID, Period, Timestamp),
// where Timestamp is the window start.
type TelemetryAggregate struct {
	ID               string          `json:"id"`
	DeviceID         string          `json:"deviceId"`
	Period           AggregatePeriod `json:"period"`
	Timestamp        time.Time       `json:"timestamp"`
	AvgLatency       *float64        `json:"avgLatency"`
	MinLatency       *float64        `json:"minLatency"`
	MaxLatency       *float64        `json:"maxLatency"`
	AvgPacketLoss    *float64        `json:"avgPacketLoss"`
	AvgBandwidthUp   *float64        `json:"avgBandwidthUp"`
	AvgBandwidthDown *float64        `json:"avgBandwidthDown"`
	AvgCPUUsage      *float64        `json:"avgCpuUsage"`
	AvgMemoryUsage   *float64        `json:"avgMemoryUsage"`
	SampleCount      int             `json:"sampleCount"`
}

// Bandwidth is a summed up/down pair.
type Bandwidth struct {
	Up   float64 `json:"up"`
	Down float64 `json:"down"`
}

// DashboardMetrics summarizes an organization's trailing hour.
type DashboardMetrics struct {
	AvgLatency     float64               `json:"avgLatency"`
	MedianLatency  float64               `json:"medianLatency"`
	P95Latency     float64               `json:"p95Latency"`
	AvgPacketLoss  float64               `json:"avgPacketLoss"`
	TotalBandwidth Bandwidth             `json:"totalBandwidth"`
	AlertCounts    map[AlertSeverity]int `json:"alertCounts"`
	DataPoints     int                   `json:"dataPoints"`
}
