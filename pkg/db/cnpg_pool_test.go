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
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netpulse/pkg/models"
)

func TestBuildCNPGURL_Defaults(t *testing.T) {
	t.Parallel()

	u, err := url.Parse(buildCNPGURL(&models.CNPGDatabase{Host: "cnpg-rw", Database: "netpulse"}))
	require.NoError(t, err)

	assert.Equal(t, "cnpg-rw:5432", u.Host)
	assert.Equal(t, "/netpulse", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "netpulse", u.Query().Get("application_name"))
	assert.Nil(t, u.User)
}

func TestBuildCNPGURL_Credentials(t *testing.T) {
	t.Parallel()

	u, err := url.Parse(buildCNPGURL(&models.CNPGDatabase{
		Host:            "db",
		Port:            6543,
		Database:        "telemetry",
		Username:        "netpulse",
		Password:        "p@ss:word",
		SSLMode:         "require",
		ApplicationName: "ingest",
	}))
	require.NoError(t, err)

	pw, ok := u.User.Password()
	require.True(t, ok)
	assert.Equal(t, "netpulse", u.User.Username())
	assert.Equal(t, "p@ss:word", pw)
	assert.Equal(t, "db:6543", u.Host)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
	assert.Equal(t, "ingest", u.Query().Get("application_name"))
}

func TestNewCNPGPoolConfig(t *testing.T) {
	t.Parallel()

	_, err := newCNPGPoolConfig(nil)
	require.ErrorIs(t, err, ErrCNPGConfigMissing)

	cfg, err := newCNPGPoolConfig(&models.CNPGDatabase{
		Host:              "db",
		Database:          "netpulse",
		MaxConnections:    12,
		MinConnections:    2,
		MaxConnLifetime:   models.Duration(time.Hour),
		HealthCheckPeriod: models.Duration(30 * time.Second),
		StatementTimeout:  models.Duration(5 * time.Second),
		RuntimeParams:     map[string]string{"search_path": "netpulse", "": "ignored"},
	})
	require.NoError(t, err)

	assert.Equal(t, int32(12), cfg.MaxConns)
	assert.Equal(t, int32(2), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 30*time.Second, cfg.HealthCheckPeriod)
	assert.Equal(t, "netpulse", cfg.ConnConfig.RuntimeParams["search_path"])
	assert.Equal(t, "5000", cfg.ConnConfig.RuntimeParams["statement_timeout"])
	assert.NotContains(t, cfg.ConnConfig.RuntimeParams, "")
}
