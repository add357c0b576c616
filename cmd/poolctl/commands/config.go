/*
   Copyright The typepool Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package commands holds configuration and file helpers shared by the
// poolctl subcommands.
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v2"
)

// Config is the poolctl configuration, loaded from a TOML file.
type Config struct {
	Version int         `toml:"version"`
	Store   StoreConfig `toml:"store"`
	Output  OutConfig   `toml:"output"`
}

// StoreConfig configures the durable pool store.
type StoreConfig struct {
	// Path of the bbolt database file.
	Path string `toml:"path"`
}

// OutConfig configures written pool files.
type OutConfig struct {
	// Compress enables zstd compression of written pool files.
	Compress bool `toml:"compress"`
}

func defaultConfig() *Config {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "."
	}
	return &Config{
		Version: 1,
		Store: StoreConfig{
			Path: filepath.Join(dir, "poolctl", "pools.db"),
		},
		Output: OutConfig{Compress: true},
	}
}

// LoadConfig reads a configuration file over the defaults. An empty path
// returns the defaults; a missing file at an explicit path is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// GetConfig returns the configuration resolved by the app's Before hook.
func GetConfig(cliContext *cli.Context) *Config {
	if cfg, ok := cliContext.App.Metadata["config"].(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
