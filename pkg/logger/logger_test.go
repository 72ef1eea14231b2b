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

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    zerolog.Level
		wantErr bool
	}{
		{name: "default", cfg: Config{}, want: zerolog.InfoLevel},
		{name: "explicit", cfg: Config{Level: "warn"}, want: zerolog.WarnLevel},
		{name: "debug wins", cfg: Config{Level: "error", Debug: true}, want: zerolog.DebugLevel},
		{name: "bad level", cfg: Config{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ResolveLevel()
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer

	zl, err := New(&Config{Level: "info"}, &buf)
	require.NoError(t, err)

	log := Wrap(zl)
	log.Info().Str("device_id", "d1").Msg("sample stored")
	log.Debug().Msg("suppressed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "sample stored", line["message"])
	assert.Equal(t, "d1", line["device_id"])
	assert.Equal(t, "info", line["level"])
}

func TestSetDebug(t *testing.T) {
	var buf bytes.Buffer

	zl, err := New(&Config{Level: "info"}, &buf)
	require.NoError(t, err)

	log := Wrap(zl)
	log.SetDebug(true)
	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	log.SetDebug(false)
	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	zl, err := New(&Config{}, &buf)
	require.NoError(t, err)

	child := Wrap(zl).WithComponent("telemetry")
	child.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"component":"telemetry"`)
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "yes")

	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestNewTestLoggerDiscards(t *testing.T) {
	log := NewTestLogger()
	log.Error().Msg("nothing happens")
	assert.Equal(t, zerolog.Disabled, log.WithComponent("x").GetLevel())
}
