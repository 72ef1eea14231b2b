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

package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/netpulse/pkg/models"
)

const (
	defaultAlertLimit = 50
	maxAlertLimit     = 500
)

const alertColumns = `id, type, severity, title, message, device_id, organization_id,
	acknowledged_at, acknowledged_by, resolved_at, created_at`

const (
	insertAlertSQL = `
INSERT INTO alerts (` + alertColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING ` + alertColumns

	acknowledgeAlertSQL = `
UPDATE alerts SET acknowledged_at = $3, acknowledged_by = $4
WHERE id = $1 AND organization_id = $2
RETURNING ` + alertColumns

	resolveAlertSQL = `
UPDATE alerts SET resolved_at = COALESCE(resolved_at, $3)
WHERE id = $1 AND organization_id = $2
RETURNING ` + alertColumns

	countUnresolvedSQL = `SELECT severity, count(*) FROM alerts
WHERE organization_id = $1 AND resolved_at IS NULL
GROUP BY severity`
)

func scanAlert(row rowScanner) (*models.Alert, error) {
	var a models.Alert

	err := row.Scan(
		&a.ID, &a.Type, &a.Severity, &a.Title, &a.Message, &a.DeviceID, &a.OrganizationID,
		&a.AcknowledgedAt, &a.AcknowledgedBy, &a.ResolvedAt, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (s *CNPGStore) CreateAlert(ctx context.Context, alert *models.Alert) (*models.Alert, error) {
	a := *alert
	if a.ID == "" {
		a.ID = newID()
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = nowUTC()
	}

	created, err := scanAlert(s.pool.QueryRow(ctx, insertAlertSQL,
		a.ID, a.Type, a.Severity, a.Title, a.Message, a.DeviceID, a.OrganizationID,
		a.AcknowledgedAt, a.AcknowledgedBy, a.ResolvedAt, a.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("%w alert: %w", ErrFailedToInsert, err)
	}

	return created, nil
}

func buildListAlertsQuery(orgID string, f models.AlertFilter) (string, []any) {
	clauses := []string{"organization_id = $1"}
	args := []any{orgID}

	if f.Severity != nil {
		args = append(args, string(*f.Severity))
		clauses = append(clauses, fmt.Sprintf("severity = $%d", len(args)))
	}

	if f.DeviceID != nil {
		args = append(args, *f.DeviceID)
		clauses = append(clauses, fmt.Sprintf("device_id = $%d", len(args)))
	}

	if f.Unresolved {
		clauses = append(clauses, "resolved_at IS NULL")
	}

	limit := f.Limit

	switch {
	case limit <= 0:
		limit = defaultAlertLimit
	case limit > maxAlertLimit:
		limit = maxAlertLimit
	}

	query := fmt.Sprintf("SELECT %s FROM alerts WHERE %s ORDER BY created_at DESC, id DESC LIMIT %d",
		alertColumns, strings.Join(clauses, " AND "), limit)

	return query, args
}

func (s *CNPGStore) ListAlerts(ctx context.Context, orgID string, filter models.AlertFilter) ([]*models.Alert, error) {
	query, args := buildListAlertsQuery(orgID, filter)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w alerts: %w", ErrFailedToQuery, err)
	}

	alerts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Alert, error) {
		return scanAlert(row)
	})
	if err != nil {
		return nil, fmt.Errorf("%w alerts: %w", ErrFailedToScan, err)
	}

	return alerts, nil
}

func (s *CNPGStore) AcknowledgeAlert(ctx context.Context, id, orgID, by string, at time.Time) (*models.Alert, error) {
	a, err := scanAlert(s.pool.QueryRow(ctx, acknowledgeAlertSQL, id, orgID, at, by))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NotFound("alert", id)
	}

	if err != nil {
		return nil, fmt.Errorf("%w alert %s: %w", ErrFailedToUpdate, id, err)
	}

	return a, nil
}

func (s *CNPGStore) ResolveAlert(ctx context.Context, id, orgID string, at time.Time) (*models.Alert, error) {
	a, err := scanAlert(s.pool.QueryRow(ctx, resolveAlertSQL, id, orgID, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NotFound("alert", id)
	}

	if err != nil {
		return nil, fmt.Errorf("%w alert %s: %w", ErrFailedToUpdate, id, err)
	}

	return a, nil
}

func (s *CNPGStore) CountUnresolvedAlerts(ctx context.Context, orgID string) (map[models.AlertSeverity]int, error) {
	return countGrouped[models.AlertSeverity](ctx, s, countUnresolvedSQL, orgID)
}
