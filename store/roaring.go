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

import "github.com/RoaringBitmap/roaring/v2"

// roaringBitmap is a thin rename so StatusIndex reads naturally; the
// compressed bitmap only pays off once a PUT/ADD response carries
// thousands of entries, which is exactly when a linear status scan starts
// to hurt (SPEC_FULL's RoaringBitmap/roaring/v2 wiring).
type roaringBitmap struct {
	bm *roaring.Bitmap
}

func newRoaringBitmap() *roaringBitmap {
	return &roaringBitmap{bm: roaring.New()}
}

func (r *roaringBitmap) add(x uint32)      { r.bm.Add(x) }
func (r *roaringBitmap) count() int        { return int(r.bm.GetCardinality()) }
func (r *roaringBitmap) toSlice() []uint32 { return r.bm.ToArray() }
