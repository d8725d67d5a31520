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

// Package store defines the EntryStore contract the RPC handlers consume
// (§6), plus the per-entry Status taxonomy whose ordinals are frozen on the
// wire (§9 "Per-entry status ordinals on the wire").
package store

// Status is a per-entry outcome ordinal. The numeric values are frozen:
// a rewrite of the wire format must never renumber them (§9).
type Status byte

const (
	// OK - the entry was written/removed as requested.
	OK Status = iota
	// FailedNotAbsent - PutIfAbsent found an existing entry (§3).
	FailedNotAbsent
	// FailedSecurity - the signing key did not satisfy domain/entry
	// protection (§3, §7).
	FailedSecurity
	// Failed - the store reported an internal failure (§7).
	Failed
	// FailedVersionConflict - SPEC_FULL's compare-and-swap PUT extension:
	// the caller's expected previous version did not match (see
	// SPEC_FULL.md "Versioned CAS on PUT").
	FailedVersionConflict
)

func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case FailedNotAbsent:
		return "FAILED_NOT_ABSENT"
	case FailedSecurity:
		return "FAILED_SECURITY"
	case Failed:
		return "FAILED"
	case FailedVersionConflict:
		return "FAILED_VERSION_CONFLICT"
	default:
		return "UNKNOWN"
	}
}

// StatusIndex answers "which offsets in a KeyMapByte carry status X" in
// O(1) using a roaring bitmap per status ordinal, rather than a second
// linear scan over a potentially large PUT/ADD response (SPEC_FULL's
// RoaringBitmap/roaring/v2 wiring).
type StatusIndex struct {
	byStatus map[Status]*roaringBitmap
}

// NewStatusIndex builds an index over statuses, where statuses[i] is the
// status recorded for offset i.
func NewStatusIndex(statuses []Status) *StatusIndex {
	idx := &StatusIndex{byStatus: make(map[Status]*roaringBitmap)}
	for i, s := range statuses {
		b, ok := idx.byStatus[s]
		if !ok {
			b = newRoaringBitmap()
			idx.byStatus[s] = b
		}
		b.add(uint32(i))
	}
	return idx
}

// Offsets returns the offsets (in the original statuses slice) carrying s,
// in ascending order.
func (idx *StatusIndex) Offsets(s Status) []uint32 {
	b, ok := idx.byStatus[s]
	if !ok {
		return nil
	}
	return b.toSlice()
}

// Count returns how many offsets carry status s.
func (idx *StatusIndex) Count(s Status) int {
	b, ok := idx.byStatus[s]
	if !ok {
		return 0
	}
	return b.count()
}
