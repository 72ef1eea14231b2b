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

// DeviceType enumerates the kinds of network equipment NetPulse tracks.
type DeviceType string

const (
	DeviceTypeRouter      DeviceType = "ROUTER"
	DeviceTypeAccessPoint DeviceType = "ACCESS_POINT"
	DeviceTypeGateway     DeviceType = "GATEWAY"
	DeviceTypeMeshNode    DeviceType = "MESH_NODE"
	DeviceTypeSwitch      DeviceType = "SWITCH"
	DeviceTypeModem       DeviceType = "MODEM"
	DeviceTypeRepeater    DeviceType = "REPEATER"
)

// AllDeviceTypes returns every device type in declaration order.
func AllDeviceTypes() []DeviceType {
	return []DeviceType{
		DeviceTypeRouter,
		DeviceTypeAccessPoint,
		DeviceTypeGateway,
		DeviceTypeMeshNode,
		DeviceTypeSwitch,
		DeviceTypeModem,
		DeviceTypeRepeater,
	}
}

// Valid reports whether t is one of the known device types.
func (t DeviceType) Valid() bool {
	for _, known := range AllDeviceTypes() {
		if t == known {
			return true
		}
	}

	return false
}

// DeviceStatus is the operational state of a device.
type DeviceStatus string

const (
	DeviceStatusOnline      DeviceStatus = "ONLINE"
	DeviceStatusOffline     DeviceStatus = "OFFLINE"
	DeviceStatusDegraded    DeviceStatus = "DEGRADED"
	DeviceStatusMaintenance DeviceStatus = "MAINTENANCE"
	DeviceStatusUnknown     DeviceStatus = "UNKNOWN"
)

// AllDeviceStatuses returns every device status in declaration order.
func AllDeviceStatuses() []DeviceStatus {
	return []DeviceStatus{
		DeviceStatusOnline,
		DeviceStatusOffline,
		DeviceStatusDegraded,
		DeviceStatusMaintenance,
		DeviceStatusUnknown,
	}
}

// Valid reports whether s is one of the known statuses.
func (s DeviceStatus) Valid() bool {
	for _, known := range AllDeviceStatuses() {
		if s == known {
			return true
		}
	}

	return false
}

// Device is a managed piece of network equipment owned by an organization.
// ParentDeviceID forms a tree that is not checked for cycles.
type Device struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Type            DeviceType   `json:"type"`
	Status          DeviceStatus `json:"status"`
	IPAddress       *string      `json:"ipAddress,omitempty"`
	MACAddress      *string      `json:"macAddress,omitempty"`
	FirmwareVersion *string      `json:"firmwareVersion,omitempty"`
	Latitude        *float64     `json:"latitude,omitempty"`
	Longitude       *float64     `json:"longitude,omitempty"`
	LocationName    *string      `json:"locationName,omitempty"`
	ParentDeviceID  *string      `json:"parentDeviceId,omitempty"`
	OrganizationID  string       `json:"organizationId"`
	Metadata        Metadata     `json:"metadata,omitempty"`
	Config          Metadata     `json:"config,omitempty"`
	LastSeenAt      *time.Time   `json:"lastSeenAt,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// DeviceInput carries the caller-supplied fields for a new device.
// Status is accepted for wire compatibility but never applied on create.
type DeviceInput struct {
	Name            string       `json:"name"`
	Type            DeviceType   `json:"type"`
	Status          DeviceStatus `json:"status,omitempty"`
	IPAddress       *string      `json:"ipAddress,omitempty"`
	MACAddress      *string      `json:"macAddress,omitempty"`
	FirmwareVersion *string      `json:"firmwareVersion,omitempty"`
	Latitude        *float64     `json:"latitude,omitempty"`
	Longitude       *float64     `json:"longitude,omitempty"`
	LocationName    *string      `json:"locationName,omitempty"`
	ParentDeviceID  *string      `json:"parentDeviceId,omitempty"`
	Metadata        Metadata     `json:"metadata,omitempty"`
	Config          Metadata     `json:"config,omitempty"`
}

// DevicePatch is a partial update. Nil fields are left untouched.
type DevicePatch struct {
	Name            *string       `json:"name,omitempty"`
	Type            *DeviceType   `json:"type,omitempty"`
	Status          *DeviceStatus `json:"status,omitempty"`
	IPAddress       *string       `json:"ipAddress,omitempty"`
	MACAddress      *string       `json:"macAddress,omitempty"`
	FirmwareVersion *string       `json:"firmwareVersion,omitempty"`
	Latitude        *float64      `json:"latitude,omitempty"`
	Longitude       *float64      `json:"longitude,omitempty"`
	LocationName    *string       `json:"locationName,omitempty"`
	ParentDeviceID  *string       `json:"parentDeviceId,omitempty"`
	Metadata        Metadata      `json:"metadata,omitempty"`
	Config          Metadata      `json:"config,omitempty"`
}

// Apply merges the patch into d in place.
func (p *DevicePatch) Apply(d *Device) {
	if p == nil || d == nil {
		return
	}

	if p.Name != nil {
		d.Name = *p.Name
	}

	if p.Type != nil {
		d.Type = *p.Type
	}

	if p.Status != nil {
		d.Status = *p.Status
	}

	if p.IPAddress != nil {
		d.IPAddress = p.IPAddress
	}

	if p.MACAddress != nil {
		d.MACAddress = p.MACAddress
	}

	if p.FirmwareVersion != nil {
		d.FirmwareVersion = p.FirmwareVersion
	}

	if p.Latitude != nil {
		d.Latitude = p.Latitude
	}

	if p.Longitude != nil {
		d.Longitude = p.Longitude
	}

	if p.LocationName != nil {
		d.LocationName = p.LocationName
	}

	if p.ParentDeviceID != nil {
		d.ParentDeviceID = p.ParentDeviceID
	}

	if p.Metadata != nil {
		d.Metadata = p.Metadata.Clone()
	}

	if p.Config != nil {
		d.Config = p.Config.Clone()
	}
}

// DeviceStats is the per-organization breakdown. Every known status and
// type is always present, zero when no device matches.
type DeviceStats struct {
	Total    int                  `json:"total"`
	ByStatus map[DeviceStatus]int `json:"byStatus"`
	ByType   map[DeviceType]int   `json:"byType"`
}

// NewDeviceStats returns stats with every bucket initialized to zero.
func NewDeviceStats() *DeviceStats {
	stats := &DeviceStats{
		ByStatus: make(map[DeviceStatus]int, len(AllDeviceStatuses())),
		ByType:   make(map[DeviceType]int, len(AllDeviceTypes())),
	}

	for _, s := range AllDeviceStatuses() {
		stats.ByStatus[s] = 0
	}

	for _, t := range AllDeviceTypes() {
		stats.ByType[t] = 0
	}

	return stats
}

// Position is a geographic coordinate pair.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TopologyNode is one device in a topology view.
type TopologyNode struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     DeviceType   `json:"type"`
	Status   DeviceStatus `json:"status"`
	Position *Position    `json:"position"`
}

// TopologyEdge links a parent (Source) to a child (Target).
type TopologyEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Topology is the node/edge graph of an organization's devices.
type Topology struct {
	Nodes []TopologyNode `json:"nodes"`
	Edges []TopologyEdge `json:"edges"`
}
