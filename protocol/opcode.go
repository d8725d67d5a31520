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

// Package protocol fixes the wire-visible opcode space and the four
// request-type variants each command encodes (§4.1, §6), and decodes them
// into the semantic predicates the handlers actually branch on (§9
// "Multiple-flag to variant encoding").
package protocol

// Opcode identifies the command carried by a message. Values are
// wire-visible and normative (§6).
type Opcode byte

const (
	OpPut    Opcode = 1
	OpGet    Opcode = 2
	OpAdd    Opcode = 3
	OpRemove Opcode = 4
	OpDigest Opcode = 11
)

func (o Opcode) String() string {
	switch o {
	case OpPut:
		return "PUT"
	case OpGet:
		return "GET"
	case OpAdd:
		return "ADD"
	case OpRemove:
		return "REMOVE"
	case OpDigest:
		return "DIGEST"
	default:
		return "UNKNOWN"
	}
}

// RequestType is one of the four wire-encoded variants a command carries,
// a compact encoding of two orthogonal booleans (§4.1).
type RequestType byte

const (
	R1 RequestType = 1
	R2 RequestType = 2
	R3 RequestType = 3
	R4 RequestType = 4
)

// PutFlags is the decoded semantic meaning of a PUT/ADD RequestType (§4.1).
type PutFlags struct {
	PutIfAbsent   bool
	ProtectDomain bool
}

// DecodePutFlags implements the PUT column of §4.1's table:
// R1 plain overwrite, R2 overwrite+protect, R3 put-if-absent,
// R4 put-if-absent+protect.
func DecodePutFlags(t RequestType, hasPublicKey bool) PutFlags {
	return PutFlags{
		PutIfAbsent:   t == R3 || t == R4,
		ProtectDomain: hasPublicKey && (t == R2 || t == R4),
	}
}

// AddFlags is the decoded semantic meaning of an ADD RequestType (§4.1).
type AddFlags struct {
	ListMode      bool
	ProtectDomain bool
}

// DecodeAddFlags implements the ADD column: R1 hashed+plain, R2
// hashed+protect, R3 list-mode+plain, R4 list-mode+protect.
func DecodeAddFlags(t RequestType, hasPublicKey bool) AddFlags {
	return AddFlags{
		ListMode:      t == R3 || t == R4,
		ProtectDomain: hasPublicKey && (t == R2 || t == R4),
	}
}

// ScanFlags is the decoded semantic meaning of a GET/DIGEST RequestType
// (§4.1).
type ScanFlags struct {
	Ascending   bool
	ReturnBloom bool
}

// DecodeScanFlags implements the GET/DIGEST column: R1 ascending+no-bloom,
// R2 ascending+bloom, R3 descending+no-bloom, R4 descending+bloom.
func DecodeScanFlags(t RequestType) ScanFlags {
	return ScanFlags{
		Ascending:   t == R1 || t == R2,
		ReturnBloom: t == R2 || t == R4,
	}
}

// EchoRemoved is the decoded semantic meaning of a REMOVE RequestType:
// R1 no echo, R2 echo removed data (§4.1).
func EchoRemoved(t RequestType) bool { return t == R2 }
