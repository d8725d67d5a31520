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

package key

import (
	"sort"

	"github.com/holiman/uint256"
)

// Distance returns the Kademlia XOR distance between a and b as a uint256.Int.
// A Number160 only occupies the low 160 bits of the 256-bit word; the
// remaining high bits are always zero, which is why uint256.Int (not a
// hand-rolled 160-bit accumulator) is the natural type here: the DHT-level
// put future (§4.8) compares distances, not raw key bytes, when it picks
// which peers a replication fan-out should prefer.
func Distance(a, b Number160) *uint256.Int {
	var x [Number160Bytes]byte
	for i := range x {
		x[i] = a[i] ^ b[i]
	}
	var padded [32]byte
	copy(padded[32-Number160Bytes:], x[:])
	return new(uint256.Int).SetBytes(padded[:])
}

// Closer reports whether a is strictly closer to target than b is.
func Closer(target, a, b Number160) bool {
	return Distance(target, a).Lt(Distance(target, b))
}

// SortByDistance orders peers ascending by XOR distance to target, the
// routing order the aggregate package's replication fan-out uses to prefer
// the peers most likely to already be responsible for the key (§4.8).
func SortByDistance(target Number160, peers []Number160) {
	sort.Slice(peers, func(i, j int) bool {
		return Closer(target, peers[i], peers[j])
	})
}
