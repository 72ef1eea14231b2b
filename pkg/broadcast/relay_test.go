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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/netpulse/pkg/events"
	"github.com/carverauto/netpulse/pkg/logger"
)

type fakeSubscription struct {
	err      error
	released int
}

func (f *fakeSubscription) Unsubscribe() error {
	f.released++
	return f.err
}

func TestRelay_ForwardsEventsToRooms(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := events.NewMockSubscriber(ctrl)

	handlers := make(map[string]events.Handler)
	subs := make(map[string]*fakeSubscription)

	sub.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, channel string, h events.Handler) (events.Subscription, error) {
			handlers[channel] = h
			subs[channel] = &fakeSubscription{}

			return subs[channel], nil
		}).Times(3)

	hub := NewHub(logger.NewTestLogger())
	orgClient := NewClient("org", 8)
	deviceClient := NewClient("dev", 8)

	hub.Join(orgClient, OrgAlertsRoom("org-1"))
	hub.Join(orgClient, OrgDevicesRoom("org-1"))
	hub.Join(deviceClient, DeviceTelemetryRoom("d1"))

	relay := NewRelay(sub, hub, logger.NewTestLogger())
	require.NoError(t, relay.Start(context.Background()))
	require.Len(t, handlers, 3)

	ctx := context.Background()

	handlers[events.ChannelAlert](ctx, &events.Event{Type: events.TypeAlertCreated, OrganizationID: "org-1"})
	handlers[events.ChannelTelemetry](ctx, &events.Event{Type: events.TypeTelemetryReceived, DeviceID: "d1"})
	handlers[events.ChannelDevice](ctx, &events.Event{Type: events.TypeDeviceDeleted})

	f := readFrame(t, orgClient)
	assert.Equal(t, EventAlertUpdate, f.Event)
	assert.Equal(t, events.TypeAlertCreated, f.Data.(map[string]any)["type"])
	assert.Empty(t, orgClient.Send())

	f = readFrame(t, deviceClient)
	assert.Equal(t, EventTelemetryUpdate, f.Event)

	require.NoError(t, relay.Stop())

	for _, s := range subs {
		assert.Equal(t, 1, s.released)
	}
}

func TestRelay_StartFailureReleasesSubscriptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := events.NewMockSubscriber(ctrl)
	first := &fakeSubscription{}

	gomock.InOrder(
		sub.EXPECT().Subscribe(gomock.Any(), events.ChannelDevice, gomock.Any()).Return(first, nil),
		sub.EXPECT().Subscribe(gomock.Any(), events.ChannelTelemetry, gomock.Any()).
			Return(nil, errors.New("bus down")),
	)

	relay := NewRelay(sub, NewHub(logger.NewTestLogger()), logger.NewTestLogger())

	err := relay.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), events.ChannelTelemetry)
	assert.Equal(t, 1, first.released)

	require.NoError(t, relay.Stop())
	assert.Equal(t, 1, first.released)
}

func TestRelay_StopJoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	sub := events.NewMockSubscriber(ctrl)

	sub.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&fakeSubscription{err: errors.New("gone")}, nil).Times(3)

	relay := NewRelay(sub, NewHub(logger.NewTestLogger()), logger.NewTestLogger())
	require.NoError(t, relay.Start(context.Background()))

	assert.ErrorContains(t, relay.Stop(), "gone")
}
