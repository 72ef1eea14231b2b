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

// Command relay rebroadcasts NetPulse domain events to websocket clients
// grouped in organization and device rooms.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carverauto/netpulse/pkg/broadcast"
	"github.com/carverauto/netpulse/pkg/cache"
	"github.com/carverauto/netpulse/pkg/config"
	"github.com/carverauto/netpulse/pkg/events"
	"github.com/carverauto/netpulse/pkg/lifecycle"
	"github.com/carverauto/netpulse/pkg/models"
	"github.com/carverauto/netpulse/pkg/version"
)

const (
	readHeaderTimeout = 5 * time.Second
	drainTimeout      = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/netpulse/relay.yaml", "Path to relay config file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetFullVersion())

		return nil
	}

	ctx, stop := lifecycle.SignalContext(context.Background())
	defer stop()

	var cfg models.RelayServiceConfig
	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return err
	}

	mainLog, err := lifecycle.CreateComponentLogger("relay", cfg.Logging)
	if err != nil {
		return err
	}

	shutdown := lifecycle.NewShutdown(mainLog)
	defer shutdown.Close()

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

	hub := broadcast.NewHub(lifecycle.Component(mainLog, "hub"))

	relay := broadcast.NewRelay(bus, hub, lifecycle.Component(mainLog, "relay"))
	if err := relay.Start(ctx); err != nil {
		return err
	}

	shutdown.Add("relay", relay.Stop)

	mux := http.NewServeMux()
	mux.Handle(cfg.Relay.Path, broadcast.NewHandler(hub, 0, lifecycle.Component(mainLog, "websocket")))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              cfg.Relay.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		mainLog.Info().
			Str("version", version.GetFullVersion()).
			Str("listen_addr", cfg.Relay.ListenAddr).
			Str("path", cfg.Relay.Path).
			Msg("relay listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("relay server: %w", err)
		}
	case <-ctx.Done():
	}

	mainLog.Info().Msg("shutting down relay")

	sctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	return srv.Shutdown(sctx)
}
