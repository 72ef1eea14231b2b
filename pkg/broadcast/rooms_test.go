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

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carverauto/netpulse/pkg/events"
)

func TestRoomFor(t *testing.T) {
	tests := []struct {
		name      string
		channel   string
		evt       *events.Event
		wantRoom  string
		wantEvent string
		wantOK    bool
	}{
		{
			name:      "device event routes on organization",
			channel:   events.ChannelDevice,
			evt:       &events.Event{Type: events.TypeDeviceUpdated, OrganizationID: "org-1", DeviceID: "d1"},
			wantRoom:  "org:org-1:devices",
			wantEvent: EventDeviceUpdate,
			wantOK:    true,
		},
		{
			name:      "telemetry event routes on device",
			channel:   events.ChannelTelemetry,
			evt:       &events.Event{Type: events.TypeTelemetryReceived, DeviceID: "d1"},
			wantRoom:  "device:d1:telemetry",
			wantEvent: EventTelemetryUpdate,
			wantOK:    true,
		},
		{
			name:      "alert event routes on organization",
			channel:   events.ChannelAlert,
			evt:       &events.Event{Type: events.TypeAlertCreated, OrganizationID: "org-1"},
			wantRoom:  "org:org-1:alerts",
			wantEvent: EventAlertUpdate,
			wantOK:    true,
		},
		{
			name:    "device event without organization",
			channel: events.ChannelDevice,
			evt:     &events.Event{Type: events.TypeDeviceDeleted, DeviceID: "d1"},
		},
		{
			name:    "telemetry event without device",
			channel: events.ChannelTelemetry,
			evt:     &events.Event{Type: events.TypeTelemetryReceived, OrganizationID: "org-1"},
		},
		{
			name:    "unknown channel",
			channel: "metrics:events",
			evt:     &events.Event{OrganizationID: "org-1", DeviceID: "d1"},
		},
		{
			name:    "nil event",
			channel: events.ChannelAlert,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room, event, ok := RoomFor(tt.channel, tt.evt)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRoom, room)
			assert.Equal(t, tt.wantEvent, event)
		})
	}
}
