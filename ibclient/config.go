/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ibclient

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries everything Connect needs to dial and identify
// itself to a TWS/Gateway instance. There is no env/flag binding in the
// library itself; callers assemble a Config however suits their program.
type Config struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	ClientID int64        `yaml:"client_id"`

	ConnectTimeout       time.Duration `yaml:"connect_timeout"`
	HeartbeatInterval    time.Duration `yaml:"heartbeat_interval"`
	OptionalCapabilities string        `yaml:"optional_capabilities"`

	WriteQueueDepth        int `yaml:"write_queue_depth"`
	RegistrationQueueDepth int `yaml:"registration_queue_depth"`

	Logger *slog.Logger `yaml:"-"`
}

// NewConfig builds a Config with the library's defaults filled in, matching
// the teacher's constructor-over-zero-value convention.
func NewConfig(host string, port int, clientID int64) Config {
	return Config{
		Host:                   host,
		Port:                   port,
		ClientID:               clientID,
		ConnectTimeout:         10 * time.Second,
		HeartbeatInterval:      60 * time.Second,
		WriteQueueDepth:        256,
		RegistrationQueueDepth: 256,
	}
}

func (c Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) withDefaults() Config {
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = 60 * time.Second
	}
	if c.WriteQueueDepth == 0 {
		c.WriteQueueDepth = 256
	}
	if c.RegistrationQueueDepth == 0 {
		c.RegistrationQueueDepth = 256
	}
	return c
}

// LoadConfigFile reads a YAML-encoded Config from path. This is an ambient
// convenience for callers that prefer file-based configuration over
// constructing a Config in code; the library itself never calls it.
func LoadConfigFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("ibclient: reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("ibclient: parsing config file: %w", err)
	}
	return cfg.withDefaults(), nil
}
