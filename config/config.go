// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package config loads the node's on-disk TOML configuration (ambient
// stack: store limits, bloom filter sizing, ADD retry cap, aggregate
// min/R), read through an afero filesystem so tests can substitute an
// in-memory one instead of touching disk, the way Erigon's datadir
// handling does.
package config

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// StoreConfig bounds the reference in-memory EntryStore.
type StoreConfig struct {
	// MaxEntries is read from max_entries but is not applied anywhere:
	// the reference store this module ships accepts any number of live
	// entries whatever its value. (The production, on-disk store's own
	// limits are out of scope per §1.)
	MaxEntries int `toml:"max_entries"`
}

// BloomConfig sizes the bloom filters DIGEST builds for its bloom responses.
type BloomConfig struct {
	FalsePositiveRate float64 `toml:"false_positive_rate"`
}

// AddConfig bounds ADD's list-mode retry loop (§4.3, §9).
type AddConfig struct {
	MaxListModeRetries int `toml:"max_list_mode_retries"`
}

// AggregateConfig parameterizes the DHT-level put-future (§4.8).
type AggregateConfig struct {
	ReplicationFactor int `toml:"replication_factor"`
	Min               int `toml:"min"`
	ResultCacheSize   int `toml:"result_cache_size"`
}

// Config is the full node configuration, read from a single TOML file.
type Config struct {
	ListenAddr string `toml:"listen_addr"`
	LogLevel   string `toml:"log_level"`

	Store     StoreConfig     `toml:"store"`
	Bloom     BloomConfig     `toml:"bloom"`
	Add       AddConfig       `toml:"add"`
	Aggregate AggregateConfig `toml:"aggregate"`
}

// Default returns the configuration dhtstored starts from before a TOML
// file or CLI flags override it.
func Default() Config {
	return Config{
		ListenAddr: "127.0.0.1:7654",
		LogLevel:   "info",
		Bloom:      BloomConfig{FalsePositiveRate: 0.01},
		Add:        AddConfig{MaxListModeRetries: 64},
		Aggregate: AggregateConfig{
			ReplicationFactor: 5,
			Min:               3,
			ResultCacheSize:   1024,
		},
	}
}

// Load reads and parses the TOML file at path through fs, overlaying it
// onto Default().
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config: read %s", path)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: parse %s", path)
	}
	return cfg, nil
}
