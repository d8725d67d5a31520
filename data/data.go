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

// Package data holds the value types carried by the storage RPC core's
// message slots: Data, DataMap, KeyCollection and KeyMapByte (§3, §6).
package data

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/erigontech/dhtstore/key"
)

// Data is a stored value: opaque payload bytes plus the metadata the RPC
// core is allowed to look at. Timestamps/TTL bookkeeping beyond the single
// pass-through TTLSeconds field belong to the store (§3).
type Data struct {
	Payload []byte

	// PublicKey records the protection owner, if the entry is protected.
	PublicKey *secp256k1.PublicKey

	// TTLSeconds is forwarded opaquely to the store; nil means "no TTL"
	// (SPEC_FULL's TomP2P-derived TTL pass-through).
	TTLSeconds *int64
}

// Hash returns the content-addressed Number160 of the payload, used by
// ADD's hashed mode (§4.3) to key entries by content.
func (d Data) Hash() key.Number160 {
	return key.HashContent(d.Payload)
}

func (d Data) Clone() Data {
	cp := Data{PublicKey: d.PublicKey, TTLSeconds: d.TTLSeconds}
	if d.Payload != nil {
		cp.Payload = append([]byte(nil), d.Payload...)
	}
	if d.TTLSeconds != nil {
		v := *d.TTLSeconds
		cp.TTLSeconds = &v
	}
	return cp
}

// DataMap is an ordered mapping Number640 -> Data; iteration order is
// insertion order and must be preserved on the wire (§3).
type DataMap struct {
	keys   []key.Number640
	values map[key.Number640]Data
}

func NewDataMap() *DataMap {
	return &DataMap{values: make(map[key.Number640]Data)}
}

// Put appends k to the insertion order the first time it is seen, and
// always overwrites the stored value.
func (m *DataMap) Put(k key.Number640, v Data) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

func (m *DataMap) Get(k key.Number640) (Data, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *DataMap) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order. Callers must not mutate the
// returned slice.
func (m *DataMap) Keys() []key.Number640 { return m.keys }

// Each iterates entries in insertion order.
func (m *DataMap) Each(fn func(k key.Number640, v Data)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Clone returns a fresh DataMap with copied Data values, so the result can
// be handed to a codec without aliasing the source's internal storage
// (required by REMOVE's echo response, see §4.6 and design note in §9).
func (m *DataMap) Clone() *DataMap {
	cp := NewDataMap()
	for _, k := range m.keys {
		cp.Put(k, m.values[k].Clone())
	}
	return cp
}

// KeyCollection is a finite, order-preserving sequence of Number640. It may
// contain duplicates; handlers that need multiset semantics say so.
type KeyCollection []key.Number640

func (c KeyCollection) Contains(k key.Number640) bool {
	for _, e := range c {
		if e == k {
			return true
		}
	}
	return false
}

// KeyMapByte is an ordered mapping Number640 -> byte, used to report
// per-entry status ordinals in PUT/ADD responses (§3, §4.2).
type KeyMapByte struct {
	keys   []key.Number640
	values map[key.Number640]byte
}

func NewKeyMapByte() *KeyMapByte {
	return &KeyMapByte{values: make(map[key.Number640]byte)}
}

func (m *KeyMapByte) Put(k key.Number640, status byte) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = status
}

func (m *KeyMapByte) Get(k key.Number640) (byte, bool) {
	v, ok := m.values[k]
	return v, ok
}

func (m *KeyMapByte) Len() int { return len(m.keys) }

func (m *KeyMapByte) Keys() []key.Number640 { return m.keys }

func (m *KeyMapByte) Each(fn func(k key.Number640, status byte)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// KeyMap640 is an ordered mapping Number640 -> Number160, used by DIGEST's
// non-bloom response to carry a digest value per matched key (§4.5).
type KeyMap640 struct {
	keys   []key.Number640
	values map[key.Number640]key.Number160
}

func NewKeyMap640() *KeyMap640 {
	return &KeyMap640{values: make(map[key.Number640]key.Number160)}
}

func (m *KeyMap640) Put(k key.Number640, digest key.Number160) {
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = digest
}

func (m *KeyMap640) Len() int { return len(m.keys) }

func (m *KeyMap640) Keys() []key.Number640 { return m.keys }

func (m *KeyMap640) Each(fn func(k key.Number640, digest key.Number160)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}
