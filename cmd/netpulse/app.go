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

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/netpulse/pkg/alerting"
	"github.com/carverauto/netpulse/pkg/cache"
	"github.com/carverauto/netpulse/pkg/config"
	"github.com/carverauto/netpulse/pkg/db"
	"github.com/carverauto/netpulse/pkg/devices"
	"github.com/carverauto/netpulse/pkg/events"
	"github.com/carverauto/netpulse/pkg/ingest"
	"github.com/carverauto/netpulse/pkg/lifecycle"
	"github.com/carverauto/netpulse/pkg/logger"
	"github.com/carverauto/netpulse/pkg/models"
	"github.com/carverauto/netpulse/pkg/telemetry"
	"github.com/carverauto/netpulse/pkg/version"
)

const metricsShutdownTimeout = 5 * time.Second

// Run boots the ingestion process and blocks until SIGINT/SIGTERM.
func Run(ctx context.Context, configPath string) error {
	ctx, stop := lifecycle.SignalContext(ctx)
	defer stop()

	var cfg models.ServiceConfig
	if err := config.NewConfig(nil).LoadAndValidate(ctx, configPath, &cfg); err != nil {
		return err
	}

	mainLog, err := lifecycle.CreateComponentLogger("netpulse", cfg.Logging)
	if err != nil {
		return err
	}

	mainLog.Info().
		Str("version", version.GetFullVersion()).
		Interface("config", config.Redacted(&cfg)).
		Msg("starting netpulse")

	var otelCfg *logger.OTelConfig
	if cfg.Logging != nil {
		otelCfg = cfg.Logging.OTel
	}

	_, metricsErr := logger.InitializeMetrics(ctx, logger.MetricsConfig{
		ServiceName:    "netpulse",
		ServiceVersion: version.GetVersion(),
		OTel:           otelCfg,
	})
	if metricsErr != nil && !errors.Is(metricsErr, logger.ErrOTelMetricsDisabled) {
		return metricsErr
	}

	tp, err := logger.InitializeTracing(ctx, logger.TracingConfig{
		ServiceName:    "netpulse",
		ServiceVersion: version.GetVersion(),
		OTel:           otelCfg,
		Logger:         mainLog,
	})
	if err != nil {
		return err
	}

	shutdown := lifecycle.NewShutdown(mainLog)
	defer shutdown.Close()

	shutdown.Add("metrics", func() error {
		sctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		return logger.ShutdownMetrics(sctx)
	})

	shutdown.Add("tracing", func() error {
		sctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		return tp.Shutdown(sctx)
	})

	pool, err := db.NewCNPGPool(ctx, cfg.CNPG, lifecycle.Component(mainLog, "cnpg"))
	if err != nil {
		return err
	}

	shutdown.Add("cnpg", func() error {
		pool.Close()
		return nil
	})

	if cfg.CNPG.Migrate {
		if err := db.RunMigrations(ctx, pool, lifecycle.Component(mainLog, "migrate")); err != nil {
			return err
		}
	}

	store := db.NewCNPGStore(pool, lifecycle.Component(mainLog, "store"))

	var rdb *redis.Client

	if cfg.Redis != nil {
		rdb = cache.NewRedisClient(cfg.Redis)
		shutdown.Add("redis", rdb.Close)
	}

	bus, err := events.NewBus(ctx, cfg.Events.Backend, cfg.NATS, rdb, lifecycle.Component(mainLog, "events"))
	if err != nil {
		return err
	}

	shutdown.Add("events", bus.Close)

	table, err := alerting.DefaultTable().WithOverrides(cfg.Thresholds)
	if err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}

	helper := cache.NewHelper(buildCache(rdb), lifecycle.Component(mainLog, "cache"))
	emitter := events.NewEmitter(bus, time.Duration(cfg.Events.PublishTimeout), lifecycle.Component(mainLog, "emitter"))

	ingestion := telemetry.NewService(store, helper, emitter, table, lifecycle.Component(mainLog, "telemetry"))
	registry := devices.NewRegistry(store, helper, emitter, lifecycle.Component(mainLog, "devices"))

	var listener *ingest.MQTTListener

	if cfg.MQTT != nil && cfg.MQTT.Enabled {
		listener = ingest.NewMQTTListener(cfg.MQTT, ingestion, registry, lifecycle.Component(mainLog, "mqtt"))
		if err := listener.Start(ctx); err != nil {
			return err
		}

		shutdown.Add("mqtt", func() error {
			listener.Stop()
			return nil
		})
	}

	var loader *ingest.KafkaLoader

	if cfg.Kafka != nil && cfg.Kafka.Enabled {
		reader, err := ingest.NewKafkaReader(cfg.Kafka)
		if err != nil {
			return err
		}

		shutdown.Add("kafka", reader.Close)

		loader = ingest.NewKafkaLoader(reader, ingestion, cfg.Kafka.MaxBatch, time.Duration(cfg.Kafka.FlushInterval),
			lifecycle.Component(mainLog, "kafka"))
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Rollup.Enabled {
		rollup := telemetry.NewRollup(ingestion, store, telemetry.SchedulesFromConfig(cfg.Rollup), nil,
			lifecycle.Component(mainLog, "rollup"))

		g.Go(func() error { return rollup.Start(gctx) })
	}

	if loader != nil {
		g.Go(func() error { return loader.Run(gctx) })
	}

	mainLog.Info().
		Bool("rollup", cfg.Rollup.Enabled).
		Bool("mqtt", listener != nil).
		Bool("kafka", loader != nil).
		Str("events_backend", cfg.Events.Backend).
		Msg("netpulse running")

	<-gctx.Done()

	mainLog.Info().Msg("shutting down")

	return g.Wait()
}

func buildCache(rdb *redis.Client) cache.Cache {
	if rdb == nil {
		return cache.NewMemory()
	}

	return cache.NewRedis(rdb)
}
