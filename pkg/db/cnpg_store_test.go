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
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, exec *fakeExecutor) *CNPGStore {
	t.Helper()

	prevNow, prevID := nowUTC, newID
	seq := 0

	nowUTC = func() time.Time { return fixedNow }
	newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	t.Cleanup(func() { nowUTC, newID = prevNow, prevID })

	return &CNPGStore{pool: exec, log: logger.NewTestLogger()}
}

func deviceRow(id, name string) []any {
	return []any{
		id, name, "ROUTER", "ONLINE", nil, nil, nil,
		nil, nil, nil, nil, "org-1",
		nil, nil, nil, fixedNow, fixedNow,
	}
}

func ptr[T any](v T) *T { return &v }

func TestBuildListDevicesQueries(t *testing.T) {
	params := models.ListParams{
		SortBy:    "name",
		SortOrder: models.SortAscending,
		Type:      ptr(models.DeviceTypeRouter),
		Status:    ptr(models.DeviceStatusOnline),
		Search:    ptr(" 10.0_1% "),
	}
	params = params.Normalize()

	countSQL, pageSQL, args, err := buildListDevicesQueries("org-1", params)
	require.NoError(t, err)

	assert.Equal(t, []any{"org-1", "ROUTER", "ONLINE", `%10.0\_1\%%`}, args)
	assert.Contains(t, countSQL, "SELECT count(*) FROM network_devices WHERE organization_id = $1 AND type = $2 AND status = $3")
	assert.Contains(t, pageSQL, `(name ILIKE $4 ESCAPE '\' OR ip_address ILIKE $4 ESCAPE '\')`)
	assert.Contains(t, pageSQL, "ORDER BY name ASC, id ASC LIMIT 20 OFFSET 0")
}

func TestBuildListDevicesQueries_DefaultsAndPaging(t *testing.T) {
	params := models.ListParams{Page: 3, Limit: 10}
	params = params.Normalize()

	countSQL, pageSQL, args, err := buildListDevicesQueries("org-1", params)
	require.NoError(t, err)

	assert.Equal(t, []any{"org-1"}, args)
	assert.Equal(t, "SELECT count(*) FROM network_devices WHERE organization_id = $1", countSQL)
	assert.Contains(t, pageSQL, "ORDER BY created_at DESC, id DESC LIMIT 10 OFFSET 20")
}

func TestBuildListDevicesQueries_RejectsUnknownSort(t *testing.T) {
	params := models.ListParams{SortBy: "password"}
	params = params.Normalize()

	_, _, _, err := buildListDevicesQueries("org-1", params)
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestBuildDeviceFilter_BlankSearchIgnored(t *testing.T) {
	where, args := buildDeviceFilter("org-1", models.ListParams{Search: ptr("   ")})

	assert.Equal(t, "organization_id = $1", where)
	assert.Len(t, args, 1)
}

func TestCNPGStore_ListDevices(t *testing.T) {
	rows := &fakeRows{data: [][]any{deviceRow("d1", "core"), deviceRow("d2", "edge")}}
	exec := &fakeExecutor{batch: &fakeBatchResults{
		rows:      []pgx.Row{fakeRow{values: []any{7}}},
		queryRows: rows,
	}}
	store := newTestStore(t, exec)

	params := models.ListParams{}
	params = params.Normalize()

	devices, total, err := store.ListDevices(context.Background(), "org-1", params)
	require.NoError(t, err)

	assert.Equal(t, 7, total)
	require.Len(t, devices, 2)
	assert.Equal(t, "core", devices[0].Name)
	assert.Equal(t, models.DeviceTypeRouter, devices[1].Type)
	assert.Equal(t, 2, exec.batches[0].Len())
	assert.Equal(t, 1, exec.batch.closeCalls)
	assert.True(t, rows.closed)
}

func TestCNPGStore_GetDeviceNotFound(t *testing.T) {
	store := newTestStore(t, &fakeExecutor{row: fakeRow{err: pgx.ErrNoRows}})

	_, err := store.GetDevice(context.Background(), "missing")
	require.ErrorIs(t, err, models.ErrNotFound)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCNPGStore_CreateDeviceAssignsIdentity(t *testing.T) {
	exec := &fakeExecutor{row: fakeRow{values: deviceRow("id-1", "core")}}
	store := newTestStore(t, exec)

	d, err := store.CreateDevice(context.Background(), &models.Device{Name: "core", OrganizationID: "org-1"})
	require.NoError(t, err)

	assert.Equal(t, "id-1", d.ID)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, "id-1", exec.calls[0].args[0])
	assert.Equal(t, fixedNow, exec.calls[0].args[15])
	assert.Equal(t, fixedNow, exec.calls[0].args[16])
}

func TestCNPGStore_DeleteDevice(t *testing.T) {
	exec := &fakeExecutor{execTag: pgconn.NewCommandTag("DELETE 0")}
	store := newTestStore(t, exec)

	err := store.DeleteDevice(context.Background(), "d1", "org-1")
	require.ErrorIs(t, err, models.ErrNotFound)

	exec.execTag = pgconn.NewCommandTag("DELETE 1")
	require.NoError(t, store.DeleteDevice(context.Background(), "d1", "org-1"))
	assert.Equal(t, []any{"d1", "org-1"}, exec.calls[1].args)
}

func TestCNPGStore_ListDeviceIDs(t *testing.T) {
	exec := &fakeExecutor{rows: [][]any{{"a"}, {"b"}}}
	store := newTestStore(t, exec)

	ids, err := store.ListDeviceIDs(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.Equal(t, listAllDeviceIDsSQL, exec.calls[0].sql)
	assert.Empty(t, exec.calls[0].args)

	_, err = store.ListDeviceIDs(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, listOrgDeviceIDsSQL, exec.calls[1].sql)
}

func TestCNPGStore_CountDevicesByStatus(t *testing.T) {
	exec := &fakeExecutor{rows: [][]any{{"ONLINE", 2}, {"OFFLINE", 1}}}
	store := newTestStore(t, exec)

	counts, err := store.CountDevicesByStatus(context.Background(), "org-1")
	require.NoError(t, err)

	assert.Equal(t, map[models.DeviceStatus]int{
		models.DeviceStatusOnline:  2,
		models.DeviceStatusOffline: 1,
	}, counts)
}

func TestCNPGStore_InsertTelemetryBatchUsesCopy(t *testing.T) {
	exec := &fakeExecutor{}
	store := newTestStore(t, exec)

	n, err := store.InsertTelemetryBatch(context.Background(), []*models.TelemetryInput{
		{DeviceID: "d1", LatencyMs: ptr(12.5)},
		{DeviceID: "d2"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, pgx.Identifier{"telemetry_data"}, exec.copyTable)
	assert.Equal(t, telemetryCopyColumns, exec.copyColumns)
	require.Len(t, exec.copyRows, 2)
	assert.Equal(t, "id-1", exec.copyRows[0][0])
	assert.Equal(t, "d2", exec.copyRows[1][1])
	assert.Equal(t, fixedNow, exec.copyRows[1][2])
	assert.Len(t, exec.copyRows[0], len(telemetryCopyColumns))
}

func TestCNPGStore_InsertTelemetryBatchEmpty(t *testing.T) {
	exec := &fakeExecutor{copyErr: errConnReset}
	store := newTestStore(t, exec)

	n, err := store.InsertTelemetryBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCNPGStore_InsertTelemetryAssignsTimestamp(t *testing.T) {
	exec := &fakeExecutor{}
	store := newTestStore(t, exec)

	sample, err := store.InsertTelemetry(context.Background(), &models.TelemetryInput{DeviceID: "d1", CPUUsage: ptr(40.0)})
	require.NoError(t, err)

	assert.Equal(t, "id-1", sample.ID)
	assert.Equal(t, fixedNow, sample.Timestamp)
	assert.InDelta(t, 40.0, *sample.CPUUsage, 0.0001)
	assert.Equal(t, insertTelemetrySQL, exec.calls[0].sql)
}

func TestCNPGStore_TelemetryRangeLimit(t *testing.T) {
	exec := &fakeExecutor{}
	store := newTestStore(t, exec)

	start, end := fixedNow.Add(-time.Hour), fixedNow

	_, err := store.TelemetryRange(context.Background(), "d1", start, end, 25)
	require.NoError(t, err)
	assert.Equal(t, telemetryRangeSQL+" LIMIT 25", exec.calls[0].sql)

	_, err = store.TelemetryRange(context.Background(), "d1", start, end, 0)
	require.NoError(t, err)
	assert.Equal(t, telemetryRangeSQL, exec.calls[1].sql)
}

func TestCNPGStore_LatestTelemetryNotFound(t *testing.T) {
	store := newTestStore(t, &fakeExecutor{row: fakeRow{err: pgx.ErrNoRows}})

	_, err := store.LatestTelemetry(context.Background(), "d1")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestCNPGStore_UpsertAggregate(t *testing.T) {
	exec := &fakeExecutor{}
	store := newTestStore(t, exec)

	err := store.UpsertAggregate(context.Background(), &models.TelemetryAggregate{
		DeviceID:    "d1",
		Period:      models.PeriodHourly,
		Timestamp:   fixedNow,
		SampleCount: 4,
	})
	require.NoError(t, err)

	assert.Contains(t, exec.calls[0].sql, "ON CONFLICT (device_id, period, timestamp) DO UPDATE")
	assert.Equal(t, "id-1", exec.calls[0].args[0])
	assert.Equal(t, 4, exec.calls[0].args[12])
}

func TestBuildListAlertsQuery(t *testing.T) {
	query, args := buildListAlertsQuery("org-1", models.AlertFilter{
		Severity:   ptr(models.SeverityCritical),
		DeviceID:   ptr("d1"),
		Unresolved: true,
		Limit:      10_000,
	})

	assert.Equal(t, []any{"org-1", "CRITICAL", "d1"}, args)
	assert.Contains(t, query, "WHERE organization_id = $1 AND severity = $2 AND device_id = $3 AND resolved_at IS NULL")
	assert.Contains(t, query, "LIMIT 500")

	query, _ = buildListAlertsQuery("org-1", models.AlertFilter{})
	assert.Contains(t, query, "LIMIT 50")
}

func TestCNPGStore_ResolveAlertNotFound(t *testing.T) {
	exec := &fakeExecutor{row: fakeRow{err: pgx.ErrNoRows}}
	store := newTestStore(t, exec)

	_, err := store.ResolveAlert(context.Background(), "a1", "org-1", fixedNow)
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Contains(t, exec.calls[0].sql, "COALESCE(resolved_at, $3)")
}

func TestCNPGStore_AcknowledgeAlert(t *testing.T) {
	exec := &fakeExecutor{row: fakeRow{values: []any{
		"a1", "HIGH_LATENCY", "HIGH", "HIGH_LATENCY on core", "High latency: 120ms", ptr("d1"), "org-1",
		ptr(fixedNow), ptr("ops"), nil, fixedNow,
	}}}
	store := newTestStore(t, exec)

	a, err := store.AcknowledgeAlert(context.Background(), "a1", "org-1", "ops", fixedNow)
	require.NoError(t, err)

	assert.Equal(t, models.SeverityHigh, a.Severity)
	assert.Equal(t, "ops", *a.AcknowledgedBy)
	assert.Nil(t, a.ResolvedAt)
	assert.Equal(t, []any{"a1", "org-1", fixedNow, "ops"}, exec.calls[0].args)
}

func TestPrefixColumns(t *testing.T) {
	assert.Equal(t, "t.id, t.device_id, t.metadata", prefixColumns("t", "id, device_id,\n\tmetadata"))
}
