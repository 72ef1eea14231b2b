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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
)

const yamlConfig = `
logging:
  level: debug
cnpg:
  host: db.internal
  port: 5432
  database: netpulse
  username: netpulse
  password: hunter2
  max_conn_lifetime: 30m
redis:
  addr: redis:6379
events:
  backend: nats
nats:
  url: nats://nats:4222
kafka:
  enabled: true
  brokers: [kafka-1:9092]
  topic: telemetry
thresholds:
  latency:
    warning: 150
    critical: 400
`

const jsonConfig = `{
  "cnpg": {"host": "db.internal", "port": 5432, "statement_timeout": "5s"},
  "redis": {"addr": "redis:6379"},
  "events": {"backend": "redis"}
}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadAndValidate_YAML(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")

	path := writeFile(t, "netpulse.yaml", yamlConfig)

	var cfg models.ServiceConfig
	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg))

	require.NotNil(t, cfg.CNPG)
	assert.Equal(t, "db.internal", cfg.CNPG.Host)
	assert.Equal(t, models.Duration(30*time.Minute), cfg.CNPG.MaxConnLifetime)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "netpulse-events", cfg.NATS.Stream, "validation fills defaults")
	assert.Equal(t, models.MaxBatchSize, cfg.Kafka.MaxBatch)
	assert.Equal(t, models.ThresholdConfig{Warning: 150, Critical: 400}, cfg.Thresholds["latency"])
	assert.Nil(t, cfg.MQTT)
}

func TestLoadAndValidate_JSON(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "file")

	path := writeFile(t, "netpulse.json", jsonConfig)

	var cfg models.ServiceConfig
	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, models.Duration(5*time.Second), cfg.CNPG.StatementTimeout)
	assert.Equal(t, models.EventsBackendRedis, cfg.Events.Backend)
	assert.Equal(t, models.Duration(2*time.Second), cfg.Events.PublishTimeout)
}

func TestLoadAndValidate_EnvOverridesFile(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "")
	t.Setenv("NETPULSE_CNPG_HOST", "override.internal")
	t.Setenv("NETPULSE_CNPG_MAX_CONNECTIONS", "32")
	t.Setenv("NETPULSE_EVENTS_PUBLISH_TIMEOUT", "750ms")
	t.Setenv("NETPULSE_MQTT_BROKER", "tcp://mqtt:1883")
	t.Setenv("NETPULSE_MQTT_QOS", "1")
	t.Setenv("NETPULSE_KAFKA_BROKERS", "k1:9092, k2:9092")

	path := writeFile(t, "netpulse.json", jsonConfig)

	var cfg models.ServiceConfig
	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg))

	assert.Equal(t, "override.internal", cfg.CNPG.Host)
	assert.Equal(t, 5432, cfg.CNPG.Port, "unset fields keep file values")
	assert.Equal(t, int32(32), cfg.CNPG.MaxConnections)
	assert.Equal(t, models.Duration(750*time.Millisecond), cfg.Events.PublishTimeout)

	require.NotNil(t, cfg.MQTT)
	assert.Equal(t, "tcp://mqtt:1883", cfg.MQTT.Broker)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, "netpulse", cfg.MQTT.TopicPrefix)

	require.NotNil(t, cfg.Kafka)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)

	assert.Nil(t, cfg.NATS, "sections without variables stay nil")
}

func TestLoadAndValidate_EnvSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("NETPULSE_CNPG_HOST", "db")
	t.Setenv("NETPULSE_REDIS_ADDR", "redis:6379")
	t.Setenv("NETPULSE_EVENTS_BACKEND", "none")
	t.Setenv("NETPULSE_THRESHOLDS", `{"cpu":{"warning":70,"critical":90}}`)

	var cfg models.ServiceConfig
	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", &cfg))

	assert.Equal(t, "db", cfg.CNPG.Host)
	assert.Equal(t, models.EventsBackendNone, cfg.Events.Backend)
	assert.InDelta(t, 90, cfg.Thresholds["cpu"].Critical, 0.0001)
}

func TestLoadAndValidate_EnvConfigJSON(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("NETPULSE_CONFIG_JSON", jsonConfig)

	var cfg models.ServiceConfig
	require.NoError(t, NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), "", &cfg))

	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoadAndValidate_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown source", func(t *testing.T) {
		t.Setenv("CONFIG_SOURCE", "kv")

		var cfg models.ServiceConfig
		require.ErrorIs(t, NewConfig(nil).LoadAndValidate(ctx, "x.json", &cfg), errInvalidConfigSource)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("CONFIG_SOURCE", "")

		var cfg models.ServiceConfig
		require.Error(t, NewConfig(nil).LoadAndValidate(ctx, filepath.Join(t.TempDir(), "nope.json"), &cfg))
	})

	t.Run("bad override", func(t *testing.T) {
		t.Setenv("CONFIG_SOURCE", "")
		t.Setenv("NETPULSE_CNPG_PORT", "not-a-port")

		var cfg models.ServiceConfig
		err := NewConfig(nil).LoadAndValidate(ctx, writeFile(t, "c.json", jsonConfig), &cfg)
		require.ErrorContains(t, err, "NETPULSE_CNPG_PORT")
	})

	t.Run("validation", func(t *testing.T) {
		t.Setenv("CONFIG_SOURCE", "")

		var cfg models.ServiceConfig
		err := NewConfig(nil).LoadAndValidate(ctx, writeFile(t, "c.yml", "redis:\n  addr: r:6379\n"), &cfg)
		require.ErrorContains(t, err, "invalid configuration")
	})

	t.Run("nil destination", func(t *testing.T) {
		require.ErrorIs(t, NewConfig(nil).LoadAndValidate(ctx, "x.json", nil), errInvalidConfigPtr)
	})
}

func TestEnvConfigLoader_RejectsNonStruct(t *testing.T) {
	l := NewEnvConfigLoader(logger.NewTestLogger(), DefaultEnvPrefix)

	var s string
	require.ErrorIs(t, l.Overlay(&s), ErrDstMustBePointerToStruct)
	require.ErrorIs(t, l.Overlay(models.ServiceConfig{}), ErrDstMustBeNonNilPointer)
}

func TestRedacted(t *testing.T) {
	cfg := &models.ServiceConfig{
		CNPG:  &models.CNPGDatabase{Host: "db", Password: "hunter2"},
		Redis: &models.RedisConfig{Addr: "redis:6379", Password: "secret"},
		Kafka: &models.KafkaConfig{Brokers: []string{"k1"}},
	}

	out := Redacted(cfg)

	cnpg := out["cnpg"].(map[string]interface{})
	assert.Equal(t, "db", cnpg["host"])
	assert.NotContains(t, cnpg, "password")

	assert.NotContains(t, out["redis"].(map[string]interface{}), "password")
	assert.Equal(t, []interface{}{"k1"}, out["kafka"].(map[string]interface{})["brokers"])
	assert.Nil(t, out["mqtt"])

	assert.Empty(t, Redacted(nil))
}
