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

package broadcast

import "github.com/carverauto/netpulse/pkg/events"

// Client-facing event names.
const (
	EventDeviceUpdate    = "device:update"
	EventTelemetryUpdate = "telemetry:update"
	EventAlertUpdate     = "alert:update"
)

func OrgDevicesRoom(orgID string) string   { return "org:" + orgID + ":devices" }
func OrgAlertsRoom(orgID string) string    { return "org:" + orgID + ":alerts" }
func DeviceTelemetryRoom(id string) string { return "device:" + id + ":telemetry" }

// RoomFor maps an event on channel to the room and client event name it is
// broadcast under. ok is false when the event lacks the scope its channel
// routes on.
func RoomFor(channel string, evt *events.Event) (roomName, event string, ok bool) {
	if evt == nil {
		return "", "", false
	}

	switch channel {
	case events.ChannelDevice:
		if evt.OrganizationID != "" {
			return OrgDevicesRoom(evt.OrganizationID), EventDeviceUpdate, true
		}
	case events.ChannelTelemetry:
		if evt.DeviceID != "" {
			return DeviceTelemetryRoom(evt.DeviceID), EventTelemetryUpdate, true
		}
	case events.ChannelAlert:
		if evt.OrganizationID != "" {
			return OrgAlertsRoom(evt.OrganizationID), EventAlertUpdate, true
		}
	}

	return "", "", false
}
