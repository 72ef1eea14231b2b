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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeMetrics_Disabled(t *testing.T) {
	tests := []struct {
		name string
		otel *OTelConfig
	}{
		{name: "no config"},
		{name: "not enabled", otel: &OTelConfig{Endpoint: "collector:4317"}},
		{name: "no endpoint", otel: &OTelConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mp, err := InitializeMetrics(context.Background(), MetricsConfig{OTel: tt.otel})

			require.ErrorIs(t, err, ErrOTelMetricsDisabled)
			assert.Nil(t, mp)
		})
	}
}

func TestShutdownMetrics_NoProvider(t *testing.T) {
	require.NoError(t, ShutdownMetrics(context.Background()))
}
