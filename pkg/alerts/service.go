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

// Package alerts exposes the alert lifecycle: listing, acknowledging and
// resolving alerts raised by the ingestion pipeline.
package alerts

import (
	"context"
	"strings"
	"time"

	"github.com/carverauto/netpulse/pkg/db"
	"github.com/carverauto/netpulse/pkg/events"
	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

type Service struct {
	store  db.Service
	events *events.Emitter
	log    logger.Logger
	nowFn  func() time.Time
}

func NewService(store db.Service, emitter *events.Emitter, log logger.Logger) *Service {
	return &Service{
		store:  store,
		events: emitter,
		log:    log,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// List returns orgID's alerts newest first.
func (s *Service) List(ctx context.Context, orgID string, filter models.AlertFilter) ([]*models.Alert, error) {
	if filter.Severity != nil && filter.Severity.Rank() == 0 {
		return nil, models.NewValidationError(map[string]any{"severity": *filter.Severity},
			"unknown severity %q", *filter.Severity)
	}

	alerts, err := s.store.ListAlerts(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}

	if alerts == nil {
		alerts = []*models.Alert{}
	}

	return alerts, nil
}

// Acknowledge records who acknowledged the alert. Acknowledging again
// overwrites the previous acknowledgement.
func (s *Service) Acknowledge(ctx context.Context, id, orgID, user string) (*models.Alert, error) {
	if strings.TrimSpace(user) == "" {
		return nil, models.NewValidationError(map[string]any{"field": "acknowledgedBy"}, "acknowledging user is required")
	}

	alert, err := s.store.AcknowledgeAlert(ctx, id, orgID, user, s.nowFn())
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.ChannelAlert, events.Event{
		Type:           events.TypeAlertAcknowledged,
		Payload:        map[string]any{"alertId": alert.ID, "acknowledgedBy": user},
		OrganizationID: orgID,
		DeviceID:       deviceID(alert),
	})

	return alert, nil
}

// Resolve closes the alert. The first resolution time is kept.
func (s *Service) Resolve(ctx context.Context, id, orgID string) (*models.Alert, error) {
	alert, err := s.store.ResolveAlert(ctx, id, orgID, s.nowFn())
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.ChannelAlert, events.Event{
		Type:           events.TypeAlertResolved,
		Payload:        map[string]any{"alertId": alert.ID},
		OrganizationID: orgID,
		DeviceID:       deviceID(alert),
	})

	s.log.Debug().Str("alert_id", alert.ID).Str("organization_id", orgID).Msg("alert resolved")

	return alert, nil
}

func deviceID(a *models.Alert) string {
	if a.DeviceID == nil {
		return ""
	}

	return *a.DeviceID
}
