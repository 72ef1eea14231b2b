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

import "time"

type AlertType string

const (
	AlertTypeDeviceOffline  AlertType = "DEVICE_OFFLINE"
	AlertTypeHighLatency    AlertType = "HIGH_LATENCY"
	AlertTypePacketLoss     AlertType = "PACKET_LOSS"
	AlertTypeHighCPU        AlertType = "HIGH_CPU"
	AlertTypeHighMemory     AlertType = "HIGH_MEMORY"
	AlertTypeLowSignal      AlertType = "LOW_SIGNAL"
	AlertTypeFirmwareUpdate AlertType = "FIRMWARE_UPDATE"
	AlertTypeSecurity       AlertType = "SECURITY"
	AlertTypeCustom         AlertType = "CUSTOM"
)

type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "CRITICAL"
	SeverityHigh     AlertSeverity = "HIGH"
	SeverityMedium   AlertSeverity = "MEDIUM"
	SeverityLow      AlertSeverity = "LOW"
	SeverityInfo     AlertSeverity = "INFO"
)

// AllAlertSeverities returns severities from most to least severe.
func AllAlertSeverities() []AlertSeverity {
	return []AlertSeverity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
}

// Rank orders severities; higher is more severe. Unknown values rank 0.
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Alert is raised by threshold evaluation and mutated only by
// acknowledge or resolve. Alerts are never deleted.
type Alert struct {
	ID             string        `json:"id"`
	Type           AlertType     `json:"type"`
	Severity       AlertSeverity `json:"severity"`
	Title          string        `json:"title"`
	Message        string        `json:"message"`
	DeviceID       *string       `json:"deviceId,omitempty"`
	OrganizationID string        `json:"organizationId"`
	AcknowledgedAt *time.Time    `json:"acknowledgedAt,omitempty"`
	AcknowledgedBy *string       `json:"acknowledgedBy,omitempty"`
	ResolvedAt     *time.Time    `json:"resolvedAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// AlertFilter narrows alert listings.
type AlertFilter struct {
	Severity   *AlertSeverity `json:"severity,omitempty"`
	DeviceID   *string        `json:"deviceId,omitempty"`
	Unresolved bool           `json:"unresolved,omitempty"`
	Limit      int            `json:"limit,omitempty"`
}
