// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package confengine

import "github.com/redpipe/redpipe/logger"

// TransportSettings configures one *transport.Transport.
type TransportSettings struct {
	Addr         string `config:"addr"`
	ReadBufSize  int    `config:"readBufSize"`
	WriteBufSize int    `config:"writeBufSize"`
}

// AdminSettings configures redpipe's admin HTTP surface.
type AdminSettings struct {
	Enabled bool   `config:"enabled"`
	Addr    string `config:"addr"`
}

// Settings is the top-level shape of redpipe.yaml.
type Settings struct {
	Transport TransportSettings `config:"transport"`
	Admin     AdminSettings     `config:"admin"`
	Logger    logger.Options    `config:"logger"`
}

// DefaultSettings returns Settings with redpipe's built-in defaults.
// LoadSettings starts from these, so any field or section a config file
// omits keeps its default.
func DefaultSettings() Settings {
	return Settings{
		Transport: TransportSettings{
			Addr:         "127.0.0.1:6379",
			ReadBufSize:  1 << 20,
			WriteBufSize: 1 << 20,
		},
		Admin: AdminSettings{
			Enabled: false,
			Addr:    "127.0.0.1:6380",
		},
		Logger: logger.Options{
			Stdout: true,
			Level:  string(logger.LevelInfo),
		},
	}
}

// LoadSettings reads path as YAML and unpacks it over DefaultSettings, so a
// config file only needs to specify the fields it wants to override.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	cfg, err := LoadConfigPath(path)
	if err != nil {
		return Settings{}, err
	}
	if err := cfg.Unpack(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
