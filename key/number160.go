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

// Package key implements the composite identifier types that index every
// stored entry in the overlay: Number160, Number320 and Number640.
package key

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Number160Bytes is the width of a Number160 in bytes (160 bits).
const Number160Bytes = 20

// Number160 is a 160-bit unsigned identifier stored big-endian, used as a
// location key, domain key, content key, version key, and peer identifier.
// The zero value is ZERO.
type Number160 [Number160Bytes]byte

// Zero and MaxValue are the two Number160 bounds used to express a whole
// bucket scan (§4.4 of the storage RPC spec).
var (
	Zero     = Number160{}
	MaxValue = func() Number160 {
		var n Number160
		for i := range n {
			n[i] = 0xff
		}
		return n
	}()
)

// Number160FromBytes copies b (which must be exactly Number160Bytes long)
// into a new Number160.
func Number160FromBytes(b []byte) (Number160, error) {
	var n Number160
	if len(b) != Number160Bytes {
		return n, fmt.Errorf("key: Number160 requires %d bytes, got %d", Number160Bytes, len(b))
	}
	copy(n[:], b)
	return n, nil
}

// HashContent derives a Number160 from arbitrary content using Keccak-256
// truncated to the low 160 bits, the same hash construction Erigon already
// depends on golang.org/x/crypto/sha3 for elsewhere.
func HashContent(payload []byte) Number160 {
	h := sha3.NewLegacyKeccak256()
	h.Write(payload)
	full := h.Sum(nil)
	var n Number160
	copy(n[:], full[len(full)-Number160Bytes:])
	return n
}

// RandomNumber160 draws a cryptographically uniform Number160, used by the
// ADD handler's list mode to mint fresh content keys (§4.3).
func RandomNumber160() (Number160, error) {
	var n Number160
	if _, err := rand.Read(n[:]); err != nil {
		return n, err
	}
	return n, nil
}

// Cmp returns -1, 0 or 1 as n is less than, equal to, or greater than o,
// comparing as big-endian unsigned integers.
func (n Number160) Cmp(o Number160) int {
	for i := 0; i < Number160Bytes; i++ {
		if n[i] != o[i] {
			if n[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (n Number160) Less(o Number160) bool { return n.Cmp(o) < 0 }
func (n Number160) IsZero() bool          { return n == Zero }

func (n Number160) Bytes() []byte {
	b := make([]byte, Number160Bytes)
	copy(b, n[:])
	return b
}

func (n Number160) String() string { return hex.EncodeToString(n[:]) }
