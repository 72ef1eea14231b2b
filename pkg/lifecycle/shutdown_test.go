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

package lifecycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/netpulse/pkg/logger"
)

func TestShutdownRunsInReverseOnce(t *testing.T) {
	s := NewShutdown(logger.NewTestLogger())

	var order []string

	s.Add("db", func() error { order = append(order, "db"); return nil })
	s.Add("cache", func() error { order = append(order, "cache"); return errors.New("boom") })
	s.Add("bus", func() error { order = append(order, "bus"); return nil })

	s.Close()
	s.Close()

	assert.Equal(t, []string{"bus", "cache", "db"}, order)
}

func TestCreateComponentLogger(t *testing.T) {
	log, err := CreateComponentLogger("registry", &logger.Config{Level: "debug"})
	require.NoError(t, err)
	require.NotNil(t, log)

	_, err = CreateComponentLogger("registry", &logger.Config{Level: "nope"})
	assert.Error(t, err)
}
