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

// Package memstore is a reference EntryStore (§6) backed by an ordered
// in-memory btree. The on-disk store is out of scope per spec.md §1; this
// implementation exists so the RPC core (§4) has a real collaborator to
// run against in tests and in the example cmd/dhtstored binary.
package memstore

import (
	"sync"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/tidwall/btree"

	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/store"
)

type entryItem struct {
	key key.Number640
	val data.Data
}

func lessEntry(a, b entryItem) bool { return a.key.Less(b.key) }

// protection records the public key guarding a domain or an entry (§3).
type protection struct {
	domainKeys map[key.Number320]*secp256k1.PublicKey
	entryKeys  map[key.Number640]*secp256k1.PublicKey
}

// Store is a concurrency-safe, ordered EntryStore. The btree gives range
// scans and ascending/descending iteration for free instead of a
// sort-then-slice pass over a map (SPEC_FULL's tidwall/btree wiring).
type Store struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[entryItem]
	prot protection
	repl store.ReplicationNotifier
}

// New builds an empty Store. notifier may be nil (§6: "or nil if none is
// wired").
func New(notifier store.ReplicationNotifier) *Store {
	return &Store{
		tree: btree.NewBTreeG(lessEntry),
		prot: protection{
			domainKeys: make(map[key.Number320]*secp256k1.PublicKey),
			entryKeys:  make(map[key.Number640]*secp256k1.PublicKey),
		},
		repl: notifier,
	}
}

// ProtectDomainWith marks bucket as protected by pub (test/setup helper;
// production stores would derive this from prior protected writes).
func (s *Store) ProtectDomainWith(bucket key.Number320, pub *secp256k1.PublicKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prot.domainKeys[bucket] = pub
}

func keysEqual(a, b *secp256k1.PublicKey) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.IsEqual(b)
}

func (s *Store) domainGuard(bucket key.Number320) *secp256k1.PublicKey {
	return s.prot.domainKeys[bucket]
}

func (s *Store) entryGuard(k key.Number640) *secp256k1.PublicKey {
	return s.prot.entryKeys[k]
}

// Put implements store.EntryStore.
func (s *Store) Put(k key.Number640, v data.Data, opts store.PutOptions) store.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.tree.Get(entryItem{key: k})

	if exists && opts.PutIfAbsent {
		return store.FailedNotAbsent
	}

	if guard := s.domainGuard(k.Bucket()); guard != nil {
		if !keysEqual(guard, opts.PublicKey) {
			return store.FailedSecurity
		}
	}
	if guard := s.entryGuard(k); guard != nil {
		if !keysEqual(guard, opts.PublicKey) {
			return store.FailedSecurity
		}
	}

	if opts.CompareVersion != nil {
		if !exists || existing.key.Version != *opts.CompareVersion {
			return store.FailedVersionConflict
		}
	}

	s.tree.Set(entryItem{key: k, val: v.Clone()})

	if opts.ProtectDomain && opts.PublicKey != nil {
		s.prot.domainKeys[k.Bucket()] = opts.PublicKey
	}
	if opts.ProtectEntry && opts.PublicKey != nil {
		s.prot.entryKeys[k] = opts.PublicKey
	}

	return store.OK
}

func (s *Store) GetOne(k key.Number640) (data.Data, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.tree.Get(entryItem{key: k})
	if !ok {
		return data.Data{}, false
	}
	return item.val.Clone(), true
}

func (s *Store) GetRange(min, max key.Number640, limit int, ascending bool) *data.DataMap {
	return s.GetFiltered(min, max, nil, nil, limit, ascending)
}

func (s *Store) GetFiltered(min, max key.Number640, keyBloom, contentBloom func(key.Number160) bool, limit int, ascending bool) *data.DataMap {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := data.NewDataMap()
	visit := func(item entryItem) bool {
		if keyBloom != nil && !keyBloom(item.key.Content) {
			return true
		}
		if contentBloom != nil && !contentBloom(item.val.Hash()) {
			return true
		}
		if limit >= 0 && result.Len() >= limit {
			return false
		}
		result.Put(item.key, item.val.Clone())
		return true
	}

	if ascending {
		s.tree.Ascend(entryItem{key: min}, func(item entryItem) bool {
			if item.key.Cmp(max) > 0 {
				return false
			}
			return visit(item)
		})
	} else {
		s.tree.Descend(entryItem{key: max}, func(item entryItem) bool {
			if item.key.Cmp(min) < 0 {
				return false
			}
			return visit(item)
		})
	}
	return result
}

func (s *Store) GetCollection(keys data.KeyCollection) *data.DataMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := data.NewDataMap()
	for _, k := range keys {
		if item, ok := s.tree.Get(entryItem{key: k}); ok {
			result.Put(k, item.val.Clone())
		}
	}
	return result
}

func (s *Store) RemoveOne(k key.Number640, pub *secp256k1.PublicKey) (data.Data, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(k, pub)
}

func (s *Store) removeLocked(k key.Number640, pub *secp256k1.PublicKey) (data.Data, bool) {
	if guard := s.entryGuard(k); guard != nil && !keysEqual(guard, pub) {
		return data.Data{}, false
	}
	if guard := s.domainGuard(k.Bucket()); guard != nil && !keysEqual(guard, pub) {
		return data.Data{}, false
	}
	item, ok := s.tree.Delete(entryItem{key: k})
	if !ok {
		return data.Data{}, false
	}
	delete(s.prot.entryKeys, k)
	return item.val, true
}

func (s *Store) RemoveRange(min, max key.Number640, pub *secp256k1.PublicKey) *data.DataMap {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []key.Number640
	s.tree.Ascend(entryItem{key: min}, func(item entryItem) bool {
		if item.key.Cmp(max) > 0 {
			return false
		}
		matched = append(matched, item.key)
		return true
	})

	result := data.NewDataMap()
	for _, k := range matched {
		if v, ok := s.removeLocked(k, pub); ok {
			result.Put(k, v)
		}
	}
	return result
}

func (s *Store) Digest(keys data.KeyCollection, returnBloom bool) store.DigestInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []entryItem
	for _, k := range keys {
		if item, ok := s.tree.Get(entryItem{key: k}); ok {
			matched = append(matched, item)
		}
	}
	return s.buildDigest(matched, returnBloom, true /* global: key-collection mode */)
}

func (s *Store) DigestRange(min, max key.Number640, keyBloom, contentBloom func(key.Number160) bool, limit int, ascending bool, returnBloom bool) store.DigestInfo {
	scanned := s.GetFiltered(min, max, keyBloom, contentBloom, limit, ascending)
	var matched []entryItem
	scanned.Each(func(k key.Number640, v data.Data) {
		matched = append(matched, entryItem{key: k, val: v})
	})
	return s.buildDigest(matched, returnBloom, false /* bucket-scoped */)
}

func (s *Store) buildDigest(matched []entryItem, returnBloom, global bool) store.DigestInfo {
	if !returnBloom {
		digests := data.NewKeyMap640()
		for _, item := range matched {
			digests.Put(item.key, item.val.Hash())
		}
		return store.DigestInfo{Digests: digests}
	}

	info := store.DigestInfo{
		ContentKeyBloomKeys: make([]key.Number160, 0, len(matched)),
		VersionKeyBloomKeys: make([]key.Number160, 0, len(matched)),
	}
	if global {
		info.LocationKeyBloomKeys = make([]key.Number160, 0, len(matched))
		info.DomainKeyBloomKeys = make([]key.Number160, 0, len(matched))
	}
	for _, item := range matched {
		info.ContentKeyBloomKeys = append(info.ContentKeyBloomKeys, item.key.Content)
		info.VersionKeyBloomKeys = append(info.VersionKeyBloomKeys, item.key.Version)
		if global {
			info.LocationKeyBloomKeys = append(info.LocationKeyBloomKeys, item.key.Location)
			info.DomainKeyBloomKeys = append(info.DomainKeyBloomKeys, item.key.Domain)
		}
	}
	return info
}

func (s *Store) ReplicationNotifier() store.ReplicationNotifier { return s.repl }

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}
