// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the single configuration surface this pass
// exposes (spec §6): whether to emit frame-condition assertions.
package config

import (
	"flag"
	"os"

	"sigs.k8s.io/yaml"
)

// FlagSet should be used by callers that want a -heap-config flag the
// way the teacher's analyzers share a -config flag.
var FlagSet flag.FlagSet

var configFile string

func init() {
	FlagSet.StringVar(&configFile, "heap-config", "", "path to an effect-elaboration config file (optional)")
}

// Config is the pass's configuration. The zero value is not valid;
// use Default().
type Config struct {
	// CheckHeapContracts controls whether the four frame-condition
	// assertions of spec §4.4/§4.6 are emitted. Default true.
	CheckHeapContracts bool `json:"checkHeapContracts"`
}

// Default returns the default configuration (spec §6: "One option,
// check-heap-contracts, default true").
func Default() Config {
	return Config{CheckHeapContracts: true}
}

// Load reads a YAML (or JSON, which is a YAML subset) configuration
// file at path and overlays it onto Default(). An empty path returns
// Default() unchanged, mirroring the teacher's ReadConfig treating a
// missing -config flag as "use built-in defaults".
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromFlags loads the config named by the -heap-config flag, if Parse
// has been called on FlagSet.
func FromFlags() (Config, error) {
	return Load(configFile)
}
