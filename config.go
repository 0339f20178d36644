// Copyright 2025 Proposive Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rfpbase

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Blob backend selectors for Config.BlobBackend.
const (
	BlobBackendFS     = "fs"
	BlobBackendBadger = "badger"
)

// Config is the environment-driven configuration of a knowledge base.
type Config struct {
	DataDir     string  `yaml:"data_dir"     env:"RFPBASE_DATA_DIR"     env-default:"./data"`
	BlobBackend string  `yaml:"blob_backend" env:"RFPBASE_BLOB_BACKEND" env-default:"fs"`
	CacheSize   int     `yaml:"cache_size"   env:"RFPBASE_CACHE_SIZE"   env-default:"100"`
	AIHost      string  `yaml:"ai_host"      env:"RFPBASE_AI_HOST"      env-default:"http://localhost:11434/v1"`
	AIModel     string  `yaml:"ai_model"     env:"RFPBASE_AI_MODEL"     env-default:"gpt-4.1"`
	AIToken     string  `yaml:"ai_token"     env:"RFPBASE_AI_TOKEN"     env-default:"none"`
	Temperature float64 `yaml:"temperature"  env:"RFPBASE_TEMPERATURE"  env-default:"0.7"`
	LogLevel    string  `yaml:"log_level"    env:"RFPBASE_LOG_LEVEL"    env-default:"info"`
}

// LoadConfig reads configuration from a YAML file when path is given,
// otherwise from the environment.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s not found", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values that would fail later.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data dir required")
	}
	if c.BlobBackend != BlobBackendFS && c.BlobBackend != BlobBackendBadger {
		return fmt.Errorf("config: unknown blob backend %q", c.BlobBackend)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("config: cache size must be positive")
	}
	return nil
}
