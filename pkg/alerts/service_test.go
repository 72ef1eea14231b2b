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

package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/netpulse/pkg/db"
	"github.com/carverauto/netpulse/pkg/events"
	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

var testNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *db.MockService, *events.MockPublisher) {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := logger.NewTestLogger()
	store := db.NewMockService(ctrl)
	pub := events.NewMockPublisher(ctrl)

	svc := NewService(store, events.NewEmitter(pub, time.Second, log), log)
	svc.nowFn = func() time.Time { return testNow }

	return svc, store, pub
}

func TestList(t *testing.T) {
	svc, store, _ := newTestService(t)

	sev := models.SeverityCritical
	filter := models.AlertFilter{Severity: &sev, Unresolved: true}

	store.EXPECT().ListAlerts(gomock.Any(), "org-1", filter).Return(nil, nil)

	got, err := svc.List(context.Background(), "org-1", filter)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	bad := models.AlertSeverity("SEVERE")

	_, err = svc.List(context.Background(), "org-1", models.AlertFilter{Severity: &bad})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestAcknowledge(t *testing.T) {
	svc, store, pub := newTestService(t)

	deviceID := "d1"
	store.EXPECT().AcknowledgeAlert(gomock.Any(), "a1", "org-1", "ops@example.com", testNow).
		Return(&models.Alert{ID: "a1", DeviceID: &deviceID, OrganizationID: "org-1"}, nil)

	pub.EXPECT().Publish(gomock.Any(), events.ChannelAlert, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, evt *events.Event) error {
			assert.Equal(t, events.TypeAlertAcknowledged, evt.Type)
			assert.Equal(t, "d1", evt.DeviceID)
			assert.Equal(t, map[string]any{"alertId": "a1", "acknowledgedBy": "ops@example.com"}, evt.Payload)

			return nil
		})

	alert, err := svc.Acknowledge(context.Background(), "a1", "org-1", "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", alert.ID)
}

func TestAcknowledge_RequiresUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Acknowledge(context.Background(), "a1", "org-1", " ")
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestAcknowledge_NotFound(t *testing.T) {
	svc, store, _ := newTestService(t)

	store.EXPECT().AcknowledgeAlert(gomock.Any(), "a1", "org-2", "ops", testNow).
		Return(nil, models.NotFound("alert", "a1"))

	_, err := svc.Acknowledge(context.Background(), "a1", "org-2", "ops")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolve(t *testing.T) {
	svc, store, pub := newTestService(t)

	earlier := testNow.Add(-time.Hour)
	store.EXPECT().ResolveAlert(gomock.Any(), "a1", "org-1", testNow).
		Return(&models.Alert{ID: "a1", OrganizationID: "org-1", ResolvedAt: &earlier}, nil)

	pub.EXPECT().Publish(gomock.Any(), events.ChannelAlert, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, evt *events.Event) error {
			assert.Equal(t, events.TypeAlertResolved, evt.Type)
			assert.Empty(t, evt.DeviceID)
			assert.Equal(t, map[string]any{"alertId": "a1"}, evt.Payload)

			return nil
		})

	alert, err := svc.Resolve(context.Background(), "a1", "org-1")
	require.NoError(t, err)
	assert.Equal(t, earlier, *alert.ResolvedAt)
}

func TestResolve_NotFound(t *testing.T) {
	svc, store, _ := newTestService(t)

	store.EXPECT().ResolveAlert(gomock.Any(), "missing", "org-1", testNow).Return(nil, models.NotFound("alert", "missing"))

	_, err := svc.Resolve(context.Background(), "missing", "org-1")
	require.ErrorIs(t, err, models.ErrNotFound)
}
