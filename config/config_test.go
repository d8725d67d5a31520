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

package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLoadOverlaysDefaultsFromTOML(t *testing.T) {
	fs := afero.NewMemMapFs()
	const doc = `
listen_addr = "0.0.0.0:9000"

[bloom]
false_positive_rate = 0.001

[aggregate]
replication_factor = 7
min = 4
`
	require.NoError(t, afero.WriteFile(fs, "/etc/dhtstore.toml", []byte(doc), 0o644))

	cfg, err := Load(fs, "/etc/dhtstore.toml")
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	require.Equal(t, 0.001, cfg.Bloom.FalsePositiveRate)
	require.Equal(t, 7, cfg.Aggregate.ReplicationFactor)
	require.Equal(t, 4, cfg.Aggregate.Min)
	// Untouched defaults survive the overlay.
	require.Equal(t, 64, cfg.Add.MaxListModeRetries)
}

func TestLoadMissingFileErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Load(fs, "/nonexistent.toml")
	require.Error(t, err)
}
