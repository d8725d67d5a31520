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

// Package dhtrpc binds the storage RPC core (§1's "external collaborator"
// transport) to gRPC for TCP delivery and a minimal net.PacketConn sender
// for forceUDP (§4.7). The wire format here is this module's own
// length-prefixed binary encoding of the Message/Response slot contract,
// carried inside a protobuf BytesValue envelope so the service still
// round-trips through google.golang.org/grpc's codec machinery.
package dhtrpc

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"

	"github.com/erigontech/dhtstore/bloom"
	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/protocol"
	"github.com/erigontech/dhtstore/protocol/message"
)

type enc struct {
	buf bytes.Buffer
}

func (e *enc) u8(v byte)    { e.buf.WriteByte(v) }
func (e *enc) boolean(v bool) {
	if v {
		e.u8(1)
	} else {
		e.u8(0)
	}
}
func (e *enc) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}
func (e *enc) i64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	e.buf.Write(b[:])
}
func (e *enc) raw(b []byte) { e.buf.Write(b) }
func (e *enc) bytesField(b []byte) {
	e.u32(uint32(len(b)))
	e.raw(b)
}
func (e *enc) optionalBytes(b []byte) {
	if b == nil {
		e.boolean(false)
		return
	}
	e.boolean(true)
	e.bytesField(b)
}
func (e *enc) number160(n key.Number160) { e.raw(n.Bytes()) }
func (e *enc) number640(k key.Number640) {
	e.number160(k.Location)
	e.number160(k.Domain)
	e.number160(k.Content)
	e.number160(k.Version)
}

type dec struct {
	b   []byte
	off int
}

func (d *dec) u8() (byte, error) {
	if d.off+1 > len(d.b) {
		return 0, io.ErrUnexpectedEOF
	}
	v := d.b[d.off]
	d.off++
	return v, nil
}
func (d *dec) boolean() (bool, error) {
	v, err := d.u8()
	return v == 1, err
}
func (d *dec) u32() (uint32, error) {
	if d.off+4 > len(d.b) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint32(d.b[d.off:])
	d.off += 4
	return v, nil
}
func (d *dec) i64() (int64, error) {
	if d.off+8 > len(d.b) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint64(d.b[d.off:])
	d.off += 8
	return int64(v), nil
}
func (d *dec) raw(n int) ([]byte, error) {
	if d.off+n > len(d.b) {
		return nil, io.ErrUnexpectedEOF
	}
	v := d.b[d.off : d.off+n]
	d.off += n
	return v, nil
}
func (d *dec) bytesField() ([]byte, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	return d.raw(int(n))
}
func (d *dec) optionalBytes() ([]byte, error) {
	present, err := d.boolean()
	if err != nil || !present {
		return nil, err
	}
	return d.bytesField()
}
func (d *dec) number160() (key.Number160, error) {
	b, err := d.raw(key.Number160Bytes)
	if err != nil {
		return key.Number160{}, err
	}
	return key.Number160FromBytes(b)
}
func (d *dec) number640() (key.Number640, error) {
	var k key.Number640
	var err error
	if k.Location, err = d.number160(); err != nil {
		return k, err
	}
	if k.Domain, err = d.number160(); err != nil {
		return k, err
	}
	if k.Content, err = d.number160(); err != nil {
		return k, err
	}
	if k.Version, err = d.number160(); err != nil {
		return k, err
	}
	return k, nil
}

func encodePublicKey(e *enc, pub *secp256k1.PublicKey) {
	if pub == nil {
		e.boolean(false)
		return
	}
	e.boolean(true)
	e.raw(pub.SerializeCompressed())
}

func decodePublicKey(d *dec) (*secp256k1.PublicKey, error) {
	present, err := d.boolean()
	if err != nil || !present {
		return nil, err
	}
	b, err := d.raw(33)
	if err != nil {
		return nil, err
	}
	return secp256k1.ParsePubKey(b)
}

func encodeSignature(e *enc, sig *ecdsa.Signature) {
	if sig == nil {
		e.boolean(false)
		return
	}
	e.boolean(true)
	e.bytesField(sig.Serialize())
}

func decodeSignature(d *dec) (*ecdsa.Signature, error) {
	present, err := d.boolean()
	if err != nil || !present {
		return nil, err
	}
	b, err := d.bytesField()
	if err != nil {
		return nil, err
	}
	return ecdsa.ParseDERSignature(b)
}

func encodeFilter(e *enc, f *bloom.Filter) error {
	if f == nil {
		e.boolean(false)
		return nil
	}
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	e.boolean(true)
	e.bytesField(b)
	return nil
}

func decodeFilter(d *dec) (*bloom.Filter, error) {
	present, err := d.boolean()
	if err != nil || !present {
		return nil, err
	}
	b, err := d.bytesField()
	if err != nil {
		return nil, err
	}
	f := &bloom.Filter{}
	if err := f.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return f, nil
}

func encodeData(e *enc, v data.Data) {
	e.bytesField(v.Payload)
	encodePublicKey(e, v.PublicKey)
	if v.TTLSeconds == nil {
		e.boolean(false)
	} else {
		e.boolean(true)
		e.i64(*v.TTLSeconds)
	}
}

func decodeData(d *dec) (data.Data, error) {
	var v data.Data
	payload, err := d.bytesField()
	if err != nil {
		return v, err
	}
	v.Payload = payload
	if v.PublicKey, err = decodePublicKey(d); err != nil {
		return v, err
	}
	hasTTL, err := d.boolean()
	if err != nil {
		return v, err
	}
	if hasTTL {
		ttl, err := d.i64()
		if err != nil {
			return v, err
		}
		v.TTLSeconds = &ttl
	}
	return v, nil
}

func encodeDataMap(e *enc, dm *data.DataMap) {
	if dm == nil {
		e.boolean(false)
		return
	}
	e.boolean(true)
	e.u32(uint32(dm.Len()))
	dm.Each(func(k key.Number640, v data.Data) {
		e.number640(k)
		encodeData(e, v)
	})
}

func decodeDataMap(d *dec) (*data.DataMap, error) {
	present, err := d.boolean()
	if err != nil || !present {
		return nil, err
	}
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	dm := data.NewDataMap()
	for i := uint32(0); i < n; i++ {
		k, err := d.number640()
		if err != nil {
			return nil, err
		}
		v, err := decodeData(d)
		if err != nil {
			return nil, err
		}
		dm.Put(k, v)
	}
	return dm, nil
}

func encodeKeyCollection(e *enc, kc data.KeyCollection) {
	e.u32(uint32(len(kc)))
	for _, k := range kc {
		e.number640(k)
	}
}

func decodeKeyCollection(d *dec) (data.KeyCollection, error) {
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	kc := make(data.KeyCollection, n)
	for i := range kc {
		if kc[i], err = d.number640(); err != nil {
			return nil, err
		}
	}
	return kc, nil
}

func encodeKeyMapByte(e *enc, m *data.KeyMapByte) {
	if m == nil {
		e.boolean(false)
		return
	}
	e.boolean(true)
	e.u32(uint32(m.Len()))
	m.Each(func(k key.Number640, status byte) {
		e.number640(k)
		e.u8(status)
	})
}

func decodeKeyMapByte(d *dec) (*data.KeyMapByte, error) {
	present, err := d.boolean()
	if err != nil || !present {
		return nil, err
	}
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	m := data.NewKeyMapByte()
	for i := uint32(0); i < n; i++ {
		k, err := d.number640()
		if err != nil {
			return nil, err
		}
		status, err := d.u8()
		if err != nil {
			return nil, err
		}
		m.Put(k, status)
	}
	return m, nil
}

func encodeKeyMap640(e *enc, m *data.KeyMap640) {
	if m == nil {
		e.boolean(false)
		return
	}
	e.boolean(true)
	e.u32(uint32(m.Len()))
	m.Each(func(k key.Number640, v key.Number160) {
		e.number640(k)
		e.number160(v)
	})
}

func decodeKeyMap640(d *dec) (*data.KeyMap640, error) {
	present, err := d.boolean()
	if err != nil || !present {
		return nil, err
	}
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	m := data.NewKeyMap640()
	for i := uint32(0); i < n; i++ {
		k, err := d.number640()
		if err != nil {
			return nil, err
		}
		v, err := d.number160()
		if err != nil {
			return nil, err
		}
		m.Put(k, v)
	}
	return m, nil
}

// EncodeMessage serializes msg into this transport's wire format.
func EncodeMessage(msg *message.Message) ([]byte, error) {
	e := &enc{}
	e.u8(byte(msg.Opcode))
	e.u8(byte(msg.RequestType))
	for _, k := range msg.Key {
		if k == nil {
			e.boolean(false)
			continue
		}
		e.boolean(true)
		e.number160(*k)
	}
	encodeKeyCollection(e, msg.KeyCollection)
	if msg.Integer == nil {
		e.boolean(false)
	} else {
		e.boolean(true)
		e.i64(*msg.Integer)
	}
	for _, f := range msg.BloomFilter {
		if err := encodeFilter(e, f); err != nil {
			return nil, err
		}
	}
	encodeDataMap(e, msg.DataMap)
	encodeKeyMapByte(e, msg.KeyMapByte)
	encodeKeyMap640(e, msg.KeyMap640)
	encodePublicKey(e, msg.PublicKey)
	encodeSignature(e, msg.Signature)
	if msg.CompareVersion == nil {
		e.boolean(false)
	} else {
		e.boolean(true)
		e.number160(*msg.CompareVersion)
	}
	e.boolean(msg.Sign)
	e.boolean(msg.ForceUDP)
	return e.buf.Bytes(), nil
}

// DecodeMessage reconstructs a Message previously produced by
// EncodeMessage.
func DecodeMessage(b []byte) (*message.Message, error) {
	d := &dec{b: b}
	msg := &message.Message{}

	op, err := d.u8()
	if err != nil {
		return nil, errors.Wrap(err, "dhtrpc: decode opcode")
	}
	msg.Opcode = protocol.Opcode(op)

	rt, err := d.u8()
	if err != nil {
		return nil, errors.Wrap(err, "dhtrpc: decode request type")
	}
	msg.RequestType = protocol.RequestType(rt)

	for i := range msg.Key {
		present, err := d.boolean()
		if err != nil {
			return nil, err
		}
		if present {
			n, err := d.number160()
			if err != nil {
				return nil, err
			}
			msg.Key[i] = &n
		}
	}

	if msg.KeyCollection, err = decodeKeyCollection(d); err != nil {
		return nil, err
	}

	hasInt, err := d.boolean()
	if err != nil {
		return nil, err
	}
	if hasInt {
		v, err := d.i64()
		if err != nil {
			return nil, err
		}
		msg.Integer = &v
	}

	for i := range msg.BloomFilter {
		if msg.BloomFilter[i], err = decodeFilter(d); err != nil {
			return nil, err
		}
	}

	if msg.DataMap, err = decodeDataMap(d); err != nil {
		return nil, err
	}
	if msg.KeyMapByte, err = decodeKeyMapByte(d); err != nil {
		return nil, err
	}
	if msg.KeyMap640, err = decodeKeyMap640(d); err != nil {
		return nil, err
	}
	if msg.PublicKey, err = decodePublicKey(d); err != nil {
		return nil, err
	}
	if msg.Signature, err = decodeSignature(d); err != nil {
		return nil, err
	}
	hasCompareVersion, err := d.boolean()
	if err != nil {
		return nil, err
	}
	if hasCompareVersion {
		v, err := d.number160()
		if err != nil {
			return nil, err
		}
		msg.CompareVersion = &v
	}
	if msg.Sign, err = d.boolean(); err != nil {
		return nil, err
	}
	if msg.ForceUDP, err = d.boolean(); err != nil {
		return nil, err
	}
	return msg, nil
}

// EncodeResponse serializes resp into this transport's wire format.
func EncodeResponse(resp *message.Response) ([]byte, error) {
	e := &enc{}
	e.u8(byte(resp.Type))
	encodeKeyMapByte(e, resp.KeyMapByte)
	encodeKeyMap640(e, resp.KeyMap640)
	encodeDataMap(e, resp.DataMap)
	e.boolean(resp.KeyCollection != nil)
	if resp.KeyCollection != nil {
		encodeKeyCollection(e, resp.KeyCollection)
	}
	for _, f := range []*bloom.Filter{resp.ContentKeyBloom, resp.VersionKeyBloom, resp.LocationKeyBloom, resp.DomainKeyBloom} {
		if err := encodeFilter(e, f); err != nil {
			return nil, err
		}
	}
	if resp.Err == nil {
		e.boolean(false)
	} else {
		e.boolean(true)
		e.bytesField([]byte(resp.Err.Error()))
	}
	e.boolean(resp.Signed)
	return e.buf.Bytes(), nil
}

// DecodeResponse reconstructs a Response previously produced by
// EncodeResponse.
func DecodeResponse(b []byte) (*message.Response, error) {
	d := &dec{b: b}
	resp := &message.Response{}

	t, err := d.u8()
	if err != nil {
		return nil, errors.Wrap(err, "dhtrpc: decode response type")
	}
	resp.Type = message.ResponseType(t)

	if resp.KeyMapByte, err = decodeKeyMapByte(d); err != nil {
		return nil, err
	}
	if resp.KeyMap640, err = decodeKeyMap640(d); err != nil {
		return nil, err
	}
	if resp.DataMap, err = decodeDataMap(d); err != nil {
		return nil, err
	}
	hasKC, err := d.boolean()
	if err != nil {
		return nil, err
	}
	if hasKC {
		if resp.KeyCollection, err = decodeKeyCollection(d); err != nil {
			return nil, err
		}
	}
	filters := make([]*bloom.Filter, 4)
	for i := range filters {
		if filters[i], err = decodeFilter(d); err != nil {
			return nil, err
		}
	}
	resp.ContentKeyBloom, resp.VersionKeyBloom, resp.LocationKeyBloom, resp.DomainKeyBloom = filters[0], filters[1], filters[2], filters[3]

	hasErr, err := d.boolean()
	if err != nil {
		return nil, err
	}
	if hasErr {
		msg, err := d.bytesField()
		if err != nil {
			return nil, err
		}
		resp.Err = errors.New(string(msg))
	}
	if resp.Signed, err = d.boolean(); err != nil {
		return nil, err
	}
	return resp, nil
}
