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

//go:generate mockgen -destination=mock_db.go -package=db github.com/carverauto/netpulse/pkg/db Service

package db

import (
	"context"
	"time"

	"github.com/carverauto/netpulse/pkg/models"
)

// Service is the persistence collaborator for devices, telemetry, aggregates
// and alerts. Each call is atomic on its own; no call spans a transaction
// across another.
type Service interface {
	// Device operations.

	// CreateDevice assigns the id and timestamps and returns the stored row.
	CreateDevice(ctx context.Context, device *models.Device) (*models.Device, error)
	GetDevice(ctx context.Context, id string) (*models.Device, error)
	// ListDevices returns one page plus the total row count for the filter.
	ListDevices(ctx context.Context, orgID string, params models.ListParams) ([]*models.Device, int, error)
	// ListOrganizationDevices returns every device of orgID, unpaginated.
	ListOrganizationDevices(ctx context.Context, orgID string) ([]*models.Device, error)
	// ListDeviceIDs returns every device id; an empty orgID means all organizations.
	ListDeviceIDs(ctx context.Context, orgID string) ([]string, error)
	UpdateDevice(ctx context.Context, device *models.Device) (*models.Device, error)
	DeleteDevice(ctx context.Context, id, orgID string) error
	// SetDeviceStatus writes status and, when lastSeenAt is non-nil, last_seen_at.
	SetDeviceStatus(ctx context.Context, id string, status models.DeviceStatus, lastSeenAt *time.Time) (*models.Device, error)
	CountDevicesByStatus(ctx context.Context, orgID string) (map[models.DeviceStatus]int, error)
	CountDevicesByType(ctx context.Context, orgID string) (map[models.DeviceType]int, error)

	// Telemetry operations.

	// InsertTelemetry assigns the id and server timestamp.
	InsertTelemetry(ctx context.Context, input *models.TelemetryInput) (*models.TelemetrySample, error)
	InsertTelemetryBatch(ctx context.Context, inputs []*models.TelemetryInput) (int, error)
	LatestTelemetry(ctx context.Context, deviceID string) (*models.TelemetrySample, error)
	// TelemetryRange returns samples in [start, end] newest first. A
	// non-positive limit returns every match.
	TelemetryRange(ctx context.Context, deviceID string, start, end time.Time, limit int) ([]*models.TelemetrySample, error)
	// OrganizationTelemetrySince returns every sample at or after since for
	// the devices of orgID, newest first.
	OrganizationTelemetrySince(ctx context.Context, orgID string, since time.Time) ([]*models.TelemetrySample, error)

	// Aggregate operations.

	// UpsertAggregate overwrites the row keyed by (device, period, timestamp).
	UpsertAggregate(ctx context.Context, agg *models.TelemetryAggregate) error
	// ListAggregates returns rows in [start, end] oldest first.
	ListAggregates(ctx context.Context, deviceID string, period models.AggregatePeriod, start, end time.Time) ([]*models.TelemetryAggregate, error)

	// Alert operations.

	CreateAlert(ctx context.Context, alert *models.Alert) (*models.Alert, error)
	ListAlerts(ctx context.Context, orgID string, filter models.AlertFilter) ([]*models.Alert, error)
	AcknowledgeAlert(ctx context.Context, id, orgID, by string, at time.Time) (*models.Alert, error)
	// ResolveAlert keeps an earlier resolved_at if one is already set.
	ResolveAlert(ctx context.Context, id, orgID string, at time.Time) (*models.Alert, error)
	CountUnresolvedAlerts(ctx context.Context, orgID string) (map[models.AlertSeverity]int, error)
}
