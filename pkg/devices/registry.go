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

// Package devices manages the device registry: CRUD under tenant isolation,
// status tracking, statistics and topology.
package devices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/netpulse/pkg/cache"
	"github.com/carverauto/netpulse/pkg/db"
	"github.com/carverauto/netpulse/pkg/events"
	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

// Registry is the device service. Every read and write is scoped to the
// caller's organization; a device from another organization is treated as
// absent.
type Registry struct {
	store  db.Service
	cache  *cache.Helper
	events *events.Emitter
	log    logger.Logger
	nowFn  func() time.Time
}

func NewRegistry(store db.Service, c *cache.Helper, emitter *events.Emitter, log logger.Logger) *Registry {
	return &Registry{
		store:  store,
		cache:  c,
		events: emitter,
		log:    log,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

func validateInput(input *models.DeviceInput) error {
	if input == nil {
		return models.NewValidationError(nil, "device input is required")
	}

	if strings.TrimSpace(input.Name) == "" {
		return models.NewValidationError(map[string]any{"field": "name"}, "name is required")
	}

	if !input.Type.Valid() {
		return models.NewValidationError(map[string]any{"field": "type", "value": input.Type},
			"unknown device type %q", input.Type)
	}

	return nil
}

// Create registers a device in orgID. The status is always UNKNOWN until the
// device reports in.
func (r *Registry) Create(ctx context.Context, orgID string, input *models.DeviceInput) (*models.Device, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	created, err := r.store.CreateDevice(ctx, &models.Device{
		Name:            input.Name,
		Type:            input.Type,
		Status:          models.DeviceStatusUnknown,
		IPAddress:       input.IPAddress,
		MACAddress:      input.MACAddress,
		FirmwareVersion: input.FirmwareVersion,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		LocationName:    input.LocationName,
		ParentDeviceID:  input.ParentDeviceID,
		OrganizationID:  orgID,
		Metadata:        input.Metadata.Clone(),
		Config:          input.Config.Clone(),
	})
	if err != nil {
		return nil, fmt.Errorf("create device: %w", err)
	}

	r.cache.InvalidatePrefix(ctx, cache.DeviceListPrefix(orgID))

	r.events.Emit(ctx, events.ChannelDevice, events.Event{
		Type:           events.TypeDeviceRegistered,
		Payload:        map[string]any{"device": created},
		OrganizationID: orgID,
		DeviceID:       created.ID,
	})

	r.log.Info().Str("device_id", created.ID).Str("organization_id", orgID).Msg("device registered")

	return created, nil
}

// GetByID returns the device, or nil when it does not exist or belongs to
// another organization.
func (r *Registry) GetByID(ctx context.Context, id, orgID string) (*models.Device, error) {
	device, err := r.load(ctx, id)
	if err != nil || device == nil {
		return nil, err
	}

	if device.OrganizationID != orgID {
		return nil, nil
	}

	return device, nil
}

// load reads through the entity cache without the tenant check.
func (r *Registry) load(ctx context.Context, id string) (*models.Device, error) {
	key := cache.DeviceKey(id)

	if device, ok := cache.Lookup[models.Device](ctx, r.cache, key); ok {
		return device, nil
	}

	device, err := r.store.GetDevice(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("get device %s: %w", id, err)
	}

	r.cache.Store(ctx, key, device, cache.DeviceTTL)

	return device, nil
}

// List returns one page of orgID's devices.
func (r *Registry) List(ctx context.Context, orgID string, params models.ListParams) (*models.DevicePage, error) {
	params = params.Normalize()

	if params.Type != nil && !params.Type.Valid() {
		return nil, models.NewValidationError(map[string]any{"type": *params.Type}, "unknown device type %q", *params.Type)
	}

	if params.Status != nil && !params.Status.Valid() {
		return nil, models.NewValidationError(map[string]any{"status": *params.Status}, "unknown device status %q", *params.Status)
	}

	key := cache.DeviceListKey(orgID, params.CacheKey())

	if page, ok := cache.Lookup[models.DevicePage](ctx, r.cache, key); ok {
		return page, nil
	}

	devices, total, err := r.store.ListDevices(ctx, orgID, params)
	if err != nil {
		return nil, err
	}

	if devices == nil {
		devices = []*models.Device{}
	}

	page := &models.DevicePage{
		Data:       devices,
		Pagination: models.NewPagination(params.Page, params.Limit, total),
	}

	r.cache.Store(ctx, key, page, cache.DeviceListTTL)

	return page, nil
}

func validatePatch(patch *models.DevicePatch) error {
	if patch == nil {
		return models.NewValidationError(nil, "device patch is required")
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return models.NewValidationError(map[string]any{"field": "name"}, "name must not be empty")
	}

	if patch.Type != nil && !patch.Type.Valid() {
		return models.NewValidationError(map[string]any{"field": "type"}, "unknown device type %q", *patch.Type)
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return models.NewValidationError(map[string]any{"field": "status"}, "unknown device status %q", *patch.Status)
	}

	return nil
}

// Update merges patch into the device. A device outside orgID is reported
// as not found.
func (r *Registry) Update(ctx context.Context, id, orgID string, patch *models.DevicePatch) (*models.Device, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	existing, err := r.store.GetDevice(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.OrganizationID != orgID {
		return nil, models.NotFound("device", id)
	}

	patch.Apply(existing)

	updated, err := r.store.UpdateDevice(ctx, existing)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id, orgID)

	r.events.Emit(ctx, events.ChannelDevice, events.Event{
		Type:           events.TypeDeviceUpdated,
		Payload:        map[string]any{"device": updated},
		OrganizationID: orgID,
		DeviceID:       id,
	})

	return updated, nil
}

// Delete removes the device along with its cached record and latest
// sample. Children keep their parent reference.
func (r *Registry) Delete(ctx context.Context, id, orgID string) error {
	if err := r.store.DeleteDevice(ctx, id, orgID); err != nil {
		return err
	}

	r.invalidate(ctx, id, orgID)
	r.cache.Invalidate(ctx, cache.LatestTelemetryKey(id))

	r.events.Emit(ctx, events.ChannelDevice, events.Event{
		Type:           events.TypeDeviceDeleted,
		Payload:        map[string]any{"deviceId": id},
		OrganizationID: orgID,
		DeviceID:       id,
	})

	r.log.Info().Str("device_id", id).Str("organization_id", orgID).Msg("device deleted")

	return nil
}

// UpdateStatus records a status change. Moving to ONLINE also stamps
// lastSeenAt.
func (r *Registry) UpdateStatus(ctx context.Context, id string, status models.DeviceStatus) (*models.Device, error) {
	if !status.Valid() {
		return nil, models.NewValidationError(map[string]any{"status": status}, "unknown device status %q", status)
	}

	var lastSeen *time.Time

	if status == models.DeviceStatusOnline {
		now := r.nowFn()
		lastSeen = &now
	}

	device, err := r.store.SetDeviceStatus(ctx, id, status, lastSeen)
	if err != nil {
		return nil, err
	}

	r.invalidate(ctx, id, device.OrganizationID)

	r.events.Emit(ctx, events.ChannelDevice, events.Event{
		Type:           events.TypeDeviceStatusChanged,
		Payload:        map[string]any{"deviceId": id, "status": status},
		OrganizationID: device.OrganizationID,
		DeviceID:       id,
	})

	return device, nil
}

// Heartbeat marks the device ONLINE.
func (r *Registry) Heartbeat(ctx context.Context, id string) (*models.Device, error) {
	return r.UpdateStatus(ctx, id, models.DeviceStatusOnline)
}

func (r *Registry) invalidate(ctx context.Context, id, orgID string) {
	r.cache.Invalidate(ctx, cache.DeviceKey(id))
	r.cache.InvalidatePrefix(ctx, cache.DeviceListPrefix(orgID))
}

// GetStats counts orgID's devices by status and by type.
func (r *Registry) GetStats(ctx context.Context, orgID string) (*models.DeviceStats, error) {
	byStatus, err := r.store.CountDevicesByStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}

	byType, err := r.store.CountDevicesByType(ctx, orgID)
	if err != nil {
		return nil, err
	}

	stats := models.NewDeviceStats()

	for status, n := range byStatus {
		stats.ByStatus[status] = n
		stats.Total += n
	}

	for typ, n := range byType {
		stats.ByType[typ] = n
	}

	return stats, nil
}

// GetTopology returns every device as a node and one parent-to-child edge
// per device with a parent. Parent references are not checked for cycles
// or dangling ids.
func (r *Registry) GetTopology(ctx context.Context, orgID string) (*models.Topology, error) {
	devices, err := r.store.ListOrganizationDevices(ctx, orgID)
	if err != nil {
		return nil, err
	}

	topo := &models.Topology{
		Nodes: make([]models.TopologyNode, 0, len(devices)),
		Edges: []models.TopologyEdge{},
	}

	for _, d := range devices {
		node := models.TopologyNode{ID: d.ID, Name: d.Name, Type: d.Type, Status: d.Status}

		if d.Latitude != nil && d.Longitude != nil {
			node.Position = &models.Position{Lat: *d.Latitude, Lng: *d.Longitude}
		}

		topo.Nodes = append(topo.Nodes, node)

		if d.ParentDeviceID != nil && *d.ParentDeviceID != "" {
			topo.Edges = append(topo.Edges, models.TopologyEdge{Source: *d.ParentDeviceID, Target: d.ID})
		}
	}

	return topo, nil
}
