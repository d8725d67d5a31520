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

package rpc

import (
	"go.uber.org/zap"

	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/internal/rpcerr"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/protocol"
	"github.com/erigontech/dhtstore/protocol/message"
	"github.com/erigontech/dhtstore/rpc/replication"
	"github.com/erigontech/dhtstore/store"
)

// handlePut implements §4.2: for each (k, v) in message-insertion order,
// invoke the store's put and record its status ordinal. The response type
// is OK iff every entry returned OK, otherwise PARTIALLY_OK.
func (s *Server) handlePut(msg *message.Message) *message.Response {
	if msg.DataMap == nil || msg.DataMap.Len() == 0 {
		return &message.Response{
			Type: message.ResponseException,
			Err:  rpcerr.NewDecodeError(protocol.OpPut, "PUT requires a non-empty data set"),
		}
	}

	flags := protocol.DecodePutFlags(msg.RequestType, msg.PublicKey != nil)

	notifier := replication.NewCoalescingNotifier(s.store.ReplicationNotifier(), s.logger)
	batch := notifier.NewBatch()

	statuses := data.NewKeyMapByte()
	var ordinals []store.Status
	msg.DataMap.Each(func(k key.Number640, v data.Data) {
		status := s.store.Put(k, v, store.PutOptions{
			PutIfAbsent:    flags.PutIfAbsent,
			ProtectDomain:  flags.ProtectDomain,
			ProtectEntry:   v.PublicKey != nil,
			PublicKey:      msg.PublicKey,
			CompareVersion: msg.CompareVersion,
		})
		statuses.Put(k, byte(status))
		ordinals = append(ordinals, status)
		if status == store.OK {
			batch.Touch(k.Location)
		}
	})
	batch.Flush()

	// A roaring-bitmap index over the per-entry statuses answers "did every
	// entry succeed" and "how many failed for reason X" without a second
	// linear pass over statuses, which matters once a single PUT carries
	// thousands of entries (SPEC_FULL's RoaringBitmap/roaring/v2 wiring).
	idx := store.NewStatusIndex(ordinals)
	respType := message.ResponseOK
	if idx.Count(store.OK) != len(ordinals) {
		respType = message.ResponsePartiallyOK
		for _, failure := range []store.Status{store.FailedNotAbsent, store.FailedSecurity, store.Failed, store.FailedVersionConflict} {
			if n := idx.Count(failure); n > 0 {
				s.logger.Debug("put partially failed", zap.Stringer("status", failure), zap.Int("count", n))
			}
		}
	}
	return &message.Response{Type: respType, KeyMapByte: statuses}
}
