// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config implements the analyzer configuration file and the leveled
// logging it controls.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// The global config file
	configFile string
)

// SetGlobalConfig sets the global config filename
func SetGlobalConfig(filename string) {
	configFile = filename
}

// LoadGlobal loads the config file that has been set by SetGlobalConfig
func LoadGlobal() (*Config, error) {
	return Load(configFile)
}

// Config holds the tool settings. If some field is not defined in the config
// file, it will be empty/zero in the struct.
type Config struct {
	// LogLevel controls the verbosity of the tool
	LogLevel int `yaml:"log-level"`

	// DotDir is the directory graphviz exports are written into when set
	DotDir string `yaml:"dot-dir"`

	sourceFile string
}

// NewDefault returns an empty default config.
func NewDefault() *Config {
	return &Config{
		LogLevel: int(InfoLevel),
	}
}

// Load reads a config from the file specified by filename.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %q: %w", filename, err)
	}
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %q: %w", filename, err)
	}
	cfg.sourceFile = filename
	if cfg.LogLevel < int(ErrLevel) || cfg.LogLevel > int(TraceLevel) {
		return nil, fmt.Errorf("config file %q: log-level must be between %d and %d",
			filename, ErrLevel, TraceLevel)
	}
	return cfg, nil
}

// RelPath returns the path of the config file the config was loaded from, or
// the empty string for a default config.
func (c *Config) RelPath() string {
	return c.sourceFile
}
