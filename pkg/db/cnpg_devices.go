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

const deviceColumns = `id, name, type, status, ip_address, mac_address, firmware_version,
	latitude, longitude, location_name, parent_device_id, organization_id,
	metadata, config, last_seen_at, created_at, updated_at`

const (
	insertDeviceSQL = `
INSERT INTO network_devices (` + deviceColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
RETURNING ` + deviceColumns

	getDeviceSQL = `SELECT ` + deviceColumns + ` FROM network_devices WHERE id = $1`

	updateDeviceSQL = `
UPDATE network_devices SET
	name = $3,
	type = $4,
	status = $5,
	ip_address = $6,
	mac_address = $7,
	firmware_version = $8,
	latitude = $9,
	longitude = $10,
	location_name = $11,
	parent_device_id = $12,
	metadata = $13,
	config = $14,
	updated_at = $15
WHERE id = $1 AND organization_id = $2
RETURNING ` + deviceColumns

	deleteDeviceSQL = `DELETE FROM network_devices WHERE id = $1 AND organization_id = $2`

	setDeviceStatusSQL = `
UPDATE network_devices SET
	status = $2,
	last_seen_at = COALESCE($3::timestamptz, last_seen_at),
	updated_at = $4
WHERE id = $1
RETURNING ` + deviceColumns

	listOrgDevicesSQL = `SELECT ` + deviceColumns + `
FROM network_devices WHERE organization_id = $1 ORDER BY created_at, id`

	listAllDeviceIDsSQL = `SELECT id FROM network_devices ORDER BY id`
	listOrgDeviceIDsSQL = `SELECT id FROM network_devices WHERE organization_id = $1 ORDER BY id`

	countByStatusSQL = `SELECT status, count(*) FROM network_devices WHERE organization_id = $1 GROUP BY status`
	countByTypeSQL   = `SELECT type, count(*) FROM network_devices WHERE organization_id = $1 GROUP BY type`
)

// sortColumns maps the API sort field to its column.
//
//nolint:gochecknoglobals
var sortColumns = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"lastSeenAt": "last_seen_at",
	"name":       "name",
	"type":       "type",
	"status":     "status",
	"ipAddress":  "ip_address",
}

func scanDevice(row rowScanner) (*models.Device, error) {
	var d models.Device

	err := row.Scan(
		&d.ID, &d.Name, &d.Type, &d.Status, &d.IPAddress, &d.MACAddress, &d.FirmwareVersion,
		&d.Latitude, &d.Longitude, &d.LocationName, &d.ParentDeviceID, &d.OrganizationID,
		&d.Metadata, &d.Config, &d.LastSeenAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func collectDevices(rows pgx.Rows) ([]*models.Device, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Device, error) {
		return scanDevice(row)
	})
}

func (s *CNPGStore) CreateDevice(ctx context.Context, device *models.Device) (*models.Device, error) {
	now := nowUTC()

	d := *device
	if d.ID == "" {
		d.ID = newID()
	}

	d.CreatedAt, d.UpdatedAt = now, now

	created, err := scanDevice(s.pool.QueryRow(ctx, insertDeviceSQL,
		d.ID, d.Name, d.Type, d.Status, d.IPAddress, d.MACAddress, d.FirmwareVersion,
		d.Latitude, d.Longitude, d.LocationName, d.ParentDeviceID, d.OrganizationID,
		d.Metadata, d.Config, d.LastSeenAt, d.CreatedAt, d.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("%w device: %w", ErrFailedToInsert, err)
	}

	return created, nil
}

func (s *CNPGStore) GetDevice(ctx context.Context, id string) (*models.Device, error) {
	d, err := scanDevice(s.pool.QueryRow(ctx, getDeviceSQL, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NotFound("device", id)
	}

	if err != nil {
		return nil, fmt.Errorf("%w device %s: %w", ErrFailedToQuery, id, err)
	}

	return d, nil
}

// buildDeviceFilter renders the WHERE clause shared by the count and page
// queries. Placeholders start at $1 with the organization id.
func buildDeviceFilter(orgID string, p models.ListParams) (string, []any) {
	clauses := []string{"organization_id = $1"}
	args := []any{orgID}

	if p.Type != nil {
		args = append(args, string(*p.Type))
		clauses = append(clauses, fmt.Sprintf("type = $%d", len(args)))
	}

	if p.Status != nil {
		args = append(args, string(*p.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	if p.Search != nil {
		if term := strings.TrimSpace(*p.Search); term != "" {
			args = append(args, "%"+escapeLike(term)+"%")
			n := len(args)
			clauses = append(clauses, fmt.Sprintf(`(name ILIKE $%d ESCAPE '\' OR ip_address ILIKE $%d ESCAPE '\')`, n, n))
		}
	}

	return strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildListDevicesQueries expects normalized params.
func buildListDevicesQueries(orgID string, p models.ListParams) (countSQL, pageSQL string, args []any, err error) {
	column, ok := sortColumns[p.SortBy]
	if !ok {
		return "", "", nil, models.NewValidationError(
			map[string]any{"sortBy": p.SortBy},
			"unsupported sort field %q", p.SortBy)
	}

	dir := "DESC"
	if p.SortOrder == models.SortAscending {
		dir = "ASC"
	}

	where, args := buildDeviceFilter(orgID, p)

	countSQL = "SELECT count(*) FROM network_devices WHERE " + where
	pageSQL = fmt.Sprintf("SELECT %s FROM network_devices WHERE %s ORDER BY %s %s, id %s LIMIT %d OFFSET %d",
		deviceColumns, where, column, dir, dir, p.Limit, p.Offset())

	return countSQL, pageSQL, args, nil
}

// ListDevices runs the count and page queries in a single round trip.
func (s *CNPGStore) ListDevices(ctx context.Context, orgID string, params models.ListParams) (devices []*models.Device, total int, err error) {
	countSQL, pageSQL, args, err := buildListDevicesQueries(orgID, params)
	if err != nil {
		return nil, 0, err
	}

	batch := &pgx.Batch{}
	batch.Queue(countSQL, args...)
	batch.Queue(pageSQL, args...)

	br := s.pool.SendBatch(ctx, batch)

	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w devices: %w", ErrFailedToQuery, closeErr)
		}
	}()

	if err := br.QueryRow().Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w device count: %w", ErrFailedToQuery, err)
	}

	rows, err := br.Query()
	if err != nil {
		return nil, 0, fmt.Errorf("%w devices: %w", ErrFailedToQuery, err)
	}

	devices, err = collectDevices(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("%w devices: %w", ErrFailedToScan, err)
	}

	return devices, total, nil
}

func (s *CNPGStore) ListOrganizationDevices(ctx context.Context, orgID string) ([]*models.Device, error) {
	rows, err := s.pool.Query(ctx, listOrgDevicesSQL, orgID)
	if err != nil {
		return nil, fmt.Errorf("%w organization devices: %w", ErrFailedToQuery, err)
	}

	devices, err := collectDevices(rows)
	if err != nil {
		return nil, fmt.Errorf("%w organization devices: %w", ErrFailedToScan, err)
	}

	return devices, nil
}

func (s *CNPGStore) ListDeviceIDs(ctx context.Context, orgID string) ([]string, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if orgID == "" {
		rows, err = s.pool.Query(ctx, listAllDeviceIDsSQL)
	} else {
		rows, err = s.pool.Query(ctx, listOrgDeviceIDsSQL, orgID)
	}

	if err != nil {
		return nil, fmt.Errorf("%w device ids: %w", ErrFailedToQuery, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w device ids: %w", ErrFailedToScan, err)
	}

	return ids, nil
}

func (s *CNPGStore) UpdateDevice(ctx context.Context, device *models.Device) (*models.Device, error) {
	d := device

	updated, err := scanDevice(s.pool.QueryRow(ctx, updateDeviceSQL,
		d.ID, d.OrganizationID, d.Name, d.Type, d.Status, d.IPAddress, d.MACAddress,
		d.FirmwareVersion, d.Latitude, d.Longitude, d.LocationName, d.ParentDeviceID,
		d.Metadata, d.Config, nowUTC(),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NotFound("device", d.ID)
	}

	if err != nil {
		return nil, fmt.Errorf("%w device %s: %w", ErrFailedToUpdate, d.ID, err)
	}

	return updated, nil
}

func (s *CNPGStore) DeleteDevice(ctx context.Context, id, orgID string) error {
	tag, err := s.pool.Exec(ctx, deleteDeviceSQL, id, orgID)
	if err != nil {
		return fmt.Errorf("%w device %s: %w", ErrFailedToDelete, id, err)
	}

	if tag.RowsAffected() == 0 {
		return models.NotFound("device", id)
	}

	return nil
}

func (s *CNPGStore) SetDeviceStatus(
	ctx context.Context, id string, status models.DeviceStatus, lastSeenAt *time.Time,
) (*models.Device, error) {
	d, err := scanDevice(s.pool.QueryRow(ctx, setDeviceStatusSQL, id, status, lastSeenAt, nowUTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.NotFound("device", id)
	}

	if err != nil {
		return nil, fmt.Errorf("%w device status %s: %w", ErrFailedToUpdate, id, err)
	}

	return d, nil
}

func countGrouped[K ~string](ctx context.Context, s *CNPGStore, sql, orgID string) (map[K]int, error) {
	rows, err := s.pool.Query(ctx, sql, orgID)
	if err != nil {
		return nil, fmt.Errorf("%w grouped count: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	out := make(map[K]int)

	for rows.Next() {
		var (
			key   string
			count int
		)

		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("%w grouped count: %w", ErrFailedToScan, err)
		}

		out[K(key)] = count
	}

	return out, rows.Err()
}

func (s *CNPGStore) CountDevicesByStatus(ctx context.Context, orgID string) (map[models.DeviceStatus]int, error) {
	return countGrouped[models.DeviceStatus](ctx, s, countByStatusSQL, orgID)
}

func (s *CNPGStore) CountDevicesByType(ctx context.Context, orgID string) (map[models.DeviceType]int, error) {
	return countGrouped[models.DeviceType](ctx, s, countByTypeSQL, orgID)
}
