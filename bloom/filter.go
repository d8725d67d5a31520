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

// Package bloom wraps github.com/holiman/bloomfilter/v2 for approximate
// membership queries over Number160 keys (§4.4 query shape 3, §4.5's
// bloom response). Bloom filters never produce false negatives, only
// false positives, as required by §4.4.
package bloom

import (
	"encoding/binary"

	"github.com/holiman/bloomfilter/v2"

	"github.com/erigontech/dhtstore/key"
)

// DefaultFalsePositiveRate is the sizing target used when a caller does not
// know the exact element count ahead of time (e.g. a response-side filter
// built over an already-materialized digest set, see §4.5).
const DefaultFalsePositiveRate = 0.01

// keyHasher adapts a Number160 to the Sum64-only hash interface
// holiman/bloomfilter/v2 expects.
type keyHasher uint64

func (h keyHasher) Sum64() uint64 { return uint64(h) }

func sum64(n key.Number160) keyHasher {
	// Fold the 160-bit key down to 64 bits; collisions only affect the
	// false-positive rate, which bloom filters already tolerate.
	b := n.Bytes()
	return keyHasher(binary.BigEndian.Uint64(b[0:8]) ^
		binary.BigEndian.Uint64(b[8:16]) ^
		uint64(binary.BigEndian.Uint32(b[16:20])))
}

// Filter is an approximate-membership set over Number160 keys.
type Filter struct {
	inner *bloomfilter.Filter
}

// NewFilter builds a Filter sized for expectedElements at the given false
// positive rate, following the sizing helper Erigon uses for its own
// on-disk existence filters.
func NewFilter(expectedElements uint64, falsePositiveRate float64) (*Filter, error) {
	if expectedElements == 0 {
		expectedElements = 1
	}
	m := bloomfilter.OptimalM(expectedElements, falsePositiveRate)
	inner, err := bloomfilter.New(m, bloomfilter.OptimalK(m, expectedElements))
	if err != nil {
		return nil, err
	}
	return &Filter{inner: inner}, nil
}

func (f *Filter) Add(n key.Number160) { f.inner.Add(sum64(n)) }

// MarshalBinary serializes the filter for the wire (transport/dhtrpc's
// bloom-response encoding), delegating to holiman/bloomfilter/v2's own
// binary format.
func (f *Filter) MarshalBinary() ([]byte, error) {
	if f == nil || f.inner == nil {
		return nil, nil
	}
	return f.inner.MarshalBinary()
}

// UnmarshalBinary reconstructs a filter previously produced by
// MarshalBinary.
func (f *Filter) UnmarshalBinary(data []byte) error {
	inner := new(bloomfilter.Filter)
	if err := inner.UnmarshalBinary(data); err != nil {
		return err
	}
	f.inner = inner
	return nil
}

func (f *Filter) Contains(n key.Number160) bool {
	if f == nil || f.inner == nil {
		return false
	}
	return f.inner.Contains(sum64(n))
}

// Factory builds Filter instances sized for a known or estimated element
// count; the RPC handlers hold one Factory (stateless, shared across
// requests per §5) and call BuildFor at digest-response time.
type Factory struct {
	FalsePositiveRate float64
}

func NewFactory(falsePositiveRate float64) *Factory {
	if falsePositiveRate <= 0 {
		falsePositiveRate = DefaultFalsePositiveRate
	}
	return &Factory{FalsePositiveRate: falsePositiveRate}
}

// BuildFor constructs a filter populated with every key in keys.
func (f *Factory) BuildFor(keys []key.Number160) (*Filter, error) {
	filter, err := NewFilter(uint64(len(keys)), f.FalsePositiveRate)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		filter.Add(k)
	}
	return filter, nil
}
