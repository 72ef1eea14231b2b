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

// Package version exposes build metadata stamped at link time:
//
//	go build -ldflags "-X github.com/carverauto/netpulse/pkg/version.version=1.2.3 \
//	  -X github.com/carverauto/netpulse/pkg/version.buildID=$(git rev-parse --short HEAD)"
package version

import "runtime/debug"

//nolint:gochecknoglobals // set through -ldflags
var (
	version = "dev"
	buildID = "unknown"
)

// GetVersion returns the release version, falling back to the module
// version recorded by the toolchain when no -ldflags value was stamped.
func GetVersion() string {
	if version != "dev" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return version
}

func GetBuildID() string {
	return buildID
}

// GetFullVersion returns version with build ID.
func GetFullVersion() string {
	return GetVersion() + " (build: " + buildID + ")"
}
