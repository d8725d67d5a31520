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

// Package message fixes the semantics of the slotted payload-carrying
// message the storage RPC core consumes (§3 "Message Codec Contract",
// §6 "Message slots consumed by this core"). Wire framing (how slots are
// serialized byte-for-byte) is an external concern; this package only
// defines the in-memory slot contract the handlers and builders agree on.
package message

import (
	"encoding/binary"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/erigontech/dhtstore/bloom"
	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/protocol"
)

// Message is the slotted request/response envelope (§6's "Message slots
// consumed by this core").
type Message struct {
	Opcode      protocol.Opcode
	RequestType protocol.RequestType

	// Key[0], Key[1]: locationKey, domainKey, when present.
	Key [2]*key.Number160

	// KeyCollection[0]: either the query's key list, the range pair, or
	// the removal target list.
	KeyCollection data.KeyCollection

	// Integer[0]: limit / returnNr. Its absence (nil, not zero)
	// distinguishes range-vs-collection in GET/DIGEST (§4.4).
	Integer *int64

	// BloomFilter[0], BloomFilter[1]: keyBloomFilter, contentBloomFilter.
	BloomFilter [2]*bloom.Filter

	DataMap    *data.DataMap
	KeyMapByte *data.KeyMapByte
	KeyMap640  *data.KeyMap640

	// Bloom fields carried by a DIGEST bloom response (§4.5).
	ContentKeyBloom  *bloom.Filter
	VersionKeyBloom  *bloom.Filter
	LocationKeyBloom *bloom.Filter
	DomainKeyBloom   *bloom.Filter

	PublicKey *secp256k1.PublicKey
	Signature *ecdsa.Signature

	// CompareVersion is SPEC_FULL's TomP2P-derived versioned-CAS PUT
	// supplement: when set, the handler rejects the write unless the
	// entry's current version matches (nil disables the check).
	CompareVersion *key.Number160

	Sign     bool
	ForceUDP bool
}

// ResponseType is one of the message-level outcomes (§6).
type ResponseType byte

const (
	ResponseOK ResponseType = iota
	ResponsePartiallyOK
	ResponseException
	ResponseDenied
)

func (r ResponseType) String() string {
	switch r {
	case ResponseOK:
		return "OK"
	case ResponsePartiallyOK:
		return "PARTIALLY_OK"
	case ResponseException:
		return "EXCEPTION"
	case ResponseDenied:
		return "DENIED"
	default:
		return "UNKNOWN"
	}
}

// Response is the message the server hands back to the client (§4.9).
type Response struct {
	Type          ResponseType
	KeyMapByte    *data.KeyMapByte
	KeyMap640     *data.KeyMap640
	DataMap       *data.DataMap
	KeyCollection data.KeyCollection

	ContentKeyBloom  *bloom.Filter
	VersionKeyBloom  *bloom.Filter
	LocationKeyBloom *bloom.Filter
	DomainKeyBloom   *bloom.Filter

	Err error

	Signed bool
}

// HasLocationDomain reports whether both bucket-identifying key slots are
// populated (§4.4's "errors" clause, §4.6's bucket-removal precondition).
func (m *Message) HasLocationDomain() bool {
	return m.Key[0] != nil && m.Key[1] != nil
}

func (m *Message) Location() key.Number160 {
	if m.Key[0] == nil {
		return key.Zero
	}
	return *m.Key[0]
}

func (m *Message) Domain() key.Number160 {
	if m.Key[1] == nil {
		return key.Zero
	}
	return *m.Key[1]
}

// Limit returns the decoded limit slot, and whether it was present at all
// (§4.4: absence distinguishes range-vs-collection queries).
func (m *Message) Limit() (limit int, present bool) {
	if m.Integer == nil {
		return 0, false
	}
	return int(*m.Integer), true
}

// SigningDigest returns the canonical hash signed over by Sign (§4.7 step
// 2) and checked by the server before honoring a protected write (§3). The
// wire encoding of the signed bytes is a transport concern (§1); only the
// set of fields covered is normative here.
func (m *Message) SigningDigest() [32]byte {
	h := sha3.New256()
	h.Write([]byte{byte(m.Opcode), byte(m.RequestType)})
	for _, k := range m.Key {
		if k != nil {
			h.Write(k[:])
		}
	}
	for _, k := range m.KeyCollection {
		h.Write(k.Location[:])
		h.Write(k.Domain[:])
		h.Write(k.Content[:])
		h.Write(k.Version[:])
	}
	if m.Integer != nil {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(*m.Integer))
		h.Write(buf[:])
	}
	if m.CompareVersion != nil {
		h.Write(m.CompareVersion[:])
	}
	if m.DataMap != nil {
		m.DataMap.Each(func(k key.Number640, v data.Data) {
			h.Write(k.Content[:])
			h.Write(v.Payload)
		})
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Sign computes SigningDigest and attaches priv's signature plus the
// corresponding public key, implementing §4.7 step 2.
func (m *Message) Sign(priv *secp256k1.PrivateKey) {
	digest := m.SigningDigest()
	m.Signature = ecdsa.Sign(priv, digest[:])
	m.PublicKey = priv.PubKey()
}

// VerifySignature reports whether the message is unsigned (true, trivially
// satisfied), or signed and the signature verifies against the attached
// public key. It does NOT check whether that public key satisfies a given
// entry/domain's protection — that is the store's job (§3).
func (m *Message) VerifySignature() bool {
	if m.Signature == nil {
		return true
	}
	if m.PublicKey == nil {
		return false
	}
	digest := m.SigningDigest()
	return m.Signature.Verify(digest[:], m.PublicKey)
}
