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

package store

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/key"
)

// PutOptions carries the optional modifiers a PUT/ADD call may attach to a
// single-key write (§6's put contract, extended per SPEC_FULL's
// versioned-CAS supplement).
type PutOptions struct {
	PutIfAbsent    bool
	ProtectDomain  bool
	ProtectEntry   bool
	PublicKey      *secp256k1.PublicKey
	CompareVersion *key.Number160 // SPEC_FULL: versioned CAS, nil disables the check
}

// DigestInfo is the summary the DIGEST handler's store contract returns
// (§4.5, §6). Either Digests or the bloom fields are populated, depending
// on whether the request asked for a bloom response. A bloom response
// always fills the content and version key sets; the location and domain
// key sets are filled only for a key-collection digest and stay nil for a
// range or bucket scan.
type DigestInfo struct {
	Digests *data.KeyMap640

	ContentKeyBloomKeys  []key.Number160
	VersionKeyBloomKeys  []key.Number160
	LocationKeyBloomKeys []key.Number160
	DomainKeyBloomKeys   []key.Number160
}

// EntryStore is the persistence and query contract the RPC layer consumes
// (§6). Implementations must be safe for concurrent use (§5): the RPC
// layer holds no mutable state of its own between requests.
type EntryStore interface {
	// Put writes v at k subject to opts, returning the resulting status.
	Put(k key.Number640, v data.Data, opts PutOptions) Status

	// GetOne returns the entry at k, or ok=false if absent.
	GetOne(k key.Number640) (data.Data, bool)

	// GetRange returns entries with keys in [min, max], ordered ascending
	// or descending, truncated to limit (limit < 0 means unlimited).
	// Used by §4.4 query shapes 1 and 4.
	GetRange(min, max key.Number640, limit int, ascending bool) *data.DataMap

	// GetFiltered is GetRange additionally restricted to entries passing
	// every non-nil bloom predicate (§4.4 query shape 3). keyBloom filters
	// by contentKey hash, contentBloom by payload hash.
	GetFiltered(min, max key.Number640, keyBloom, contentBloom func(key.Number160) bool, limit int, ascending bool) *data.DataMap

	// GetCollection returns the entries whose key appears in keys,
	// skipping missing ones, preserving keys' order (§4.4 query shape 2).
	GetCollection(keys data.KeyCollection) *data.DataMap

	// RemoveOne removes the entry at k if pub satisfies its protection,
	// returning the removed Data, or ok=false if absent or denied.
	RemoveOne(k key.Number640, pub *secp256k1.PublicKey) (data.Data, bool)

	// RemoveRange removes every entry in [min, max] that pub may remove,
	// returning the removed entries.
	RemoveRange(min, max key.Number640, pub *secp256k1.PublicKey) *data.DataMap

	// Digest summarizes the entries matched by keys (SPEC_FULL's bulk
	// digest-over-collection supplement).
	Digest(keys data.KeyCollection, returnBloom bool) DigestInfo

	// DigestRange summarizes entries in [min, max] (§4.5 non-bloom scans,
	// plus the bucket-scoped bloom-filtered and bucket-scan shapes).
	DigestRange(min, max key.Number640, keyBloom, contentBloom func(key.Number160) bool, limit int, ascending bool, returnBloom bool) DigestInfo

	// ReplicationNotifier returns the replication subsystem collaborator,
	// or nil if none is wired (§4.2, §6).
	ReplicationNotifier() ReplicationNotifier
}

// ReplicationNotifier is the external replication subsystem's entry point
// (§6, out of scope per §1 beyond this single method).
type ReplicationNotifier interface {
	UpdateAndNotifyResponsibilities(location key.Number160)
}
