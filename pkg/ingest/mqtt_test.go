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

package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

func newTestListener(ing *fakeIngester, hb *fakeHeartbeater) *MQTTListener {
	cfg := &models.MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "netpulse-test", TopicPrefix: "netpulse", QoS: 1}

	return NewMQTTListener(cfg, ing, hb, logger.NewTestLogger())
}

func TestParseTopic(t *testing.T) {
	tests := []struct {
		topic    string
		deviceID string
		kind     string
		wantErr  bool
	}{
		{topic: "netpulse/dev-1/telemetry", deviceID: "dev-1", kind: "telemetry"},
		{topic: "netpulse/dev-1/heartbeat", deviceID: "dev-1", kind: "heartbeat"},
		{topic: "other/dev-1/telemetry", wantErr: true},
		{topic: "netpulse//telemetry", wantErr: true},
		{topic: "netpulse/dev-1", wantErr: true},
		{topic: "netpulse/dev-1/telemetry/extra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			id, kind, err := parseTopic("netpulse", tt.topic)
			if tt.wantErr {
				require.ErrorIs(t, err, errTopicInvalid)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.deviceID, id)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestMQTTListener_TelemetryUsesTopicDevice(t *testing.T) {
	ing := &fakeIngester{}
	l := newTestListener(ing, &fakeHeartbeater{})

	l.handle("netpulse/dev-1/telemetry", []byte(`{"deviceId":"spoofed","latencyMs":42.5,"connectedClients":3}`))

	require.Len(t, ing.single, 1)
	assert.Equal(t, "dev-1", ing.single[0].DeviceID)
	require.NotNil(t, ing.single[0].LatencyMs)
	assert.InDelta(t, 42.5, *ing.single[0].LatencyMs, 0.0001)
	require.NotNil(t, ing.single[0].ConnectedClients)
	assert.Equal(t, 3, *ing.single[0].ConnectedClients)
}

func TestMQTTListener_DropsMalformedMessages(t *testing.T) {
	ing := &fakeIngester{}
	hb := &fakeHeartbeater{}
	l := newTestListener(ing, hb)

	l.handle("netpulse/dev-1/telemetry", []byte(`{not json`))
	l.handle("elsewhere/dev-1/telemetry", []byte(`{}`))
	l.handle("netpulse/dev-1/config", []byte(`{}`))

	assert.Empty(t, ing.single)
	assert.Empty(t, hb.ids)
}

func TestMQTTListener_IngestFailureIsSwallowed(t *testing.T) {
	ing := &fakeIngester{err: errors.New("db down")}
	l := newTestListener(ing, &fakeHeartbeater{})

	assert.NotPanics(t, func() {
		l.handle("netpulse/dev-1/telemetry", []byte(`{}`))
	})
	assert.Len(t, ing.single, 1)
}

func TestMQTTListener_Heartbeat(t *testing.T) {
	hb := &fakeHeartbeater{}
	l := newTestListener(&fakeIngester{}, hb)

	l.handle("netpulse/dev-1/heartbeat", nil)

	assert.Equal(t, []string{"dev-1"}, hb.ids)

	hb.err = models.NotFound("device", "dev-2")
	l.handle("netpulse/dev-2/heartbeat", nil)

	assert.Equal(t, []string{"dev-1", "dev-2"}, hb.ids)
}

func TestMQTTListener_Options(t *testing.T) {
	l := newTestListener(&fakeIngester{}, &fakeHeartbeater{})
	l.cfg.Username = "user"
	l.cfg.Password = "secret"

	opts := l.clientOptions()

	assert.Equal(t, "netpulse-test", opts.ClientID)
	assert.Equal(t, "user", opts.Username)
	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "localhost:1883", opts.Servers[0].Host)

	assert.Equal(t, map[string]byte{
		"netpulse/+/telemetry": 1,
		"netpulse/+/heartbeat": 1,
	}, l.topicFilters())
}

func TestMQTTListener_StartRequiresBroker(t *testing.T) {
	l := newTestListener(&fakeIngester{}, &fakeHeartbeater{})
	l.cfg.Broker = ""

	require.ErrorIs(t, l.Start(context.Background()), errNoBroker)

	l.Stop()
}
