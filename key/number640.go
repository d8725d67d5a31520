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

import "fmt"

// Number640 is the tuple (locationKey, domainKey, contentKey, versionKey);
// the primary key of every stored entry (§3). Total order is lexicographic
// in that field order.
type Number640 struct {
	Location Number160
	Domain   Number160
	Content  Number160
	Version  Number160
}

// Bucket returns the Number320 this key belongs to.
func (n Number640) Bucket() Number320 {
	return Number320{Location: n.Location, Domain: n.Domain}
}

// Cmp orders lexicographically: Location, Domain, Content, Version.
func (n Number640) Cmp(o Number640) int {
	if c := n.Location.Cmp(o.Location); c != 0 {
		return c
	}
	if c := n.Domain.Cmp(o.Domain); c != 0 {
		return c
	}
	if c := n.Content.Cmp(o.Content); c != 0 {
		return c
	}
	return n.Version.Cmp(o.Version)
}

func (n Number640) Less(o Number640) bool { return n.Cmp(o) < 0 }

// Between reports whether n falls in the inclusive range [min, max].
func (n Number640) Between(min, max Number640) bool {
	return n.Cmp(min) >= 0 && n.Cmp(max) <= 0
}

func (n Number640) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", n.Location, n.Domain, n.Content, n.Version)
}

// Number480 is (locationKey, domainKey, contentKey) — the unit of
// acknowledgement the DHT-level put future tracks per peer (§4.8).
type Number480 struct {
	Location Number160
	Domain   Number160
	Content  Number160
}

func (n Number640) ToNumber480() Number480 {
	return Number480{Location: n.Location, Domain: n.Domain, Content: n.Content}
}

func (n Number480) Cmp(o Number480) int {
	if c := n.Location.Cmp(o.Location); c != 0 {
		return c
	}
	if c := n.Domain.Cmp(o.Domain); c != 0 {
		return c
	}
	return n.Content.Cmp(o.Content)
}

func (n Number480) String() string {
	return fmt.Sprintf("%s/%s/%s", n.Location, n.Domain, n.Content)
}
