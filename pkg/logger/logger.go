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

// Package logger provides JSON structured logging using zerolog
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level      string `json:"level" yaml:"level"`
	Debug      bool   `json:"debug" yaml:"debug"`
	Output     string `json:"output" yaml:"output"`
	TimeFormat string `json:"time_format" yaml:"time_format"`

	// OTel enables metric and trace export; logs always go to Output.
	OTel *OTelConfig `json:"otel,omitempty" yaml:"otel,omitempty"`
}

// ResolveLevel returns the zerolog level implied by cfg. Debug wins over Level.
func (c *Config) ResolveLevel() (zerolog.Level, error) {
	if c.Debug {
		return zerolog.DebugLevel, nil
	}

	if c.Level == "" {
		return zerolog.InfoLevel, nil
	}

	return zerolog.ParseLevel(c.Level)
}

// Writer returns the configured output stream.
func (c *Config) Writer() io.Writer {
	if c.Output == "stderr" {
		return os.Stderr
	}

	return os.Stdout
}

// New builds a zerolog logger from cfg, writing to w. A nil w uses cfg's Output.
func New(cfg *Config, w io.Writer) (zerolog.Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level, err := cfg.ResolveLevel()
	if err != nil {
		return zerolog.Nop(), err
	}

	if w == nil {
		w = cfg.Writer()
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
