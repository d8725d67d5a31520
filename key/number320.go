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

// Number320 identifies a bucket: the (locationKey, domainKey) pair over
// which bloom-filter digests are computed (§3).
type Number320 struct {
	Location Number160
	Domain   Number160
}

// Cmp orders lexicographically by (Location, Domain).
func (n Number320) Cmp(o Number320) int {
	if c := n.Location.Cmp(o.Location); c != 0 {
		return c
	}
	return n.Domain.Cmp(o.Domain)
}

func (n Number320) String() string {
	return fmt.Sprintf("%s/%s", n.Location, n.Domain)
}

// MinKey and MaxKey bound the full bucket scan range for this Number320
// (§4.4 query shape 3 and 4): [{loc,dom,ZERO,ZERO}, {loc,dom,MAX,MAX}].
func (n Number320) MinKey() Number640 {
	return Number640{Location: n.Location, Domain: n.Domain, Content: Zero, Version: Zero}
}

func (n Number320) MaxKey() Number640 {
	return Number640{Location: n.Location, Domain: n.Domain, Content: MaxValue, Version: MaxValue}
}
