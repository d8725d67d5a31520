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

package dhtrpc

import (
	"context"
	"encoding/binary"
	"net"

	"github.com/pkg/errors"

	"github.com/erigontech/dhtstore/protocol/message"
)

// MaxDatagramSize bounds a single UDP send; requests that would not fit
// fall back to an error rather than silently fragmenting (§1 excludes a
// UDP retry/fragmentation stack; forceUDP only needs an observable,
// best-effort path here).
const MaxDatagramSize = 16 * 1024

// UDPSender is the minimal net.PacketConn-based path forceUDP selects
// (§4.7). It is fire-and-forget for whatever message it is given (the
// Transport routes any opcode here when forceUDP is set): the caller does
// not get a response over this path, matching TomP2P's original "fire
// over UDP, best effort" semantics.
type UDPSender struct {
	conn net.PacketConn
	addr net.Addr
}

func NewUDPSender(conn net.PacketConn, addr net.Addr) *UDPSender {
	return &UDPSender{conn: conn, addr: addr}
}

// Send encodes msg and writes it as a single datagram.
func (s *UDPSender) Send(ctx context.Context, msg *message.Message) error {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return errors.Wrap(err, "dhtrpc: encode message for UDP send")
	}
	if len(payload) > MaxDatagramSize {
		return errors.Errorf("dhtrpc: message %d bytes exceeds UDP datagram cap %d", len(payload), MaxDatagramSize)
	}

	framed := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(framed, uint32(len(payload)))
	copy(framed[4:], payload)

	if deadline, ok := ctx.Deadline(); ok {
		if err := s.conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}
	_, err = s.conn.WriteTo(framed, s.addr)
	return err
}
