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
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"go.uber.org/zap"

	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/internal/rpcerr"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/protocol"
	"github.com/erigontech/dhtstore/protocol/message"
	"github.com/erigontech/dhtstore/rpc/replication"
	"github.com/erigontech/dhtstore/store"
)

// handleAdd implements §4.3. Hashed mode is a plain put with
// putIfAbsent=false (duplicate payloads collapse onto one key); list mode
// rolls a fresh random content key per entry and retries putIfAbsent=true
// until the store returns a status other than FailedNotAbsent, bounded by
// MaxListModeRetries.
//
// ADD always returns response type OK (§4.3); the per-entry status is
// still carried in the KeyMapByte.
func (s *Server) handleAdd(msg *message.Message) *message.Response {
	if msg.DataMap == nil || msg.DataMap.Len() == 0 {
		return &message.Response{
			Type: message.ResponseException,
			Err:  rpcerr.NewDecodeError(protocol.OpAdd, "ADD requires a non-empty data set"),
		}
	}

	flags := protocol.DecodeAddFlags(msg.RequestType, msg.PublicKey != nil)

	notifier := replication.NewCoalescingNotifier(s.store.ReplicationNotifier(), s.logger)
	batch := notifier.NewBatch()

	statuses := data.NewKeyMapByte()
	var ordinals []store.Status
	var addErr error
	msg.DataMap.Each(func(k key.Number640, v data.Data) {
		if addErr != nil {
			return
		}
		var finalKey key.Number640
		var status store.Status
		if flags.ListMode {
			finalKey, status, addErr = s.addListMode(k, v, flags.ProtectDomain, msg.PublicKey)
		} else {
			finalKey = k
			status = s.store.Put(k, v, store.PutOptions{
				PutIfAbsent:   false,
				ProtectDomain: flags.ProtectDomain,
				PublicKey:     msg.PublicKey,
			})
		}
		statuses.Put(finalKey, byte(status))
		ordinals = append(ordinals, status)
		if status == store.OK {
			batch.Touch(finalKey.Location)
		}
	})
	batch.Flush()

	if addErr != nil {
		return &message.Response{Type: message.ResponseException, Err: addErr}
	}

	// See handlePut: a roaring-bitmap index over the per-entry statuses
	// avoids a second linear pass when logging which entries failed.
	idx := store.NewStatusIndex(ordinals)
	if failed := len(ordinals) - idx.Count(store.OK); failed > 0 {
		s.logger.Debug("add produced non-OK entries", zap.Int("failed", failed), zap.Int("total", len(ordinals)))
	}
	return &message.Response{Type: message.ResponseOK, KeyMapByte: statuses}
}

// addListMode draws fresh random content keys, keeping the same location,
// domain and version, until the store accepts the put-if-absent write or
// MaxListModeRetries is exhausted, in which case the last observed status
// is surfaced (§4.3, §9).
func (s *Server) addListMode(seed key.Number640, v data.Data, protectDomain bool, pub *secp256k1.PublicKey) (key.Number640, store.Status, error) {
	var last store.Status
	for attempt := 0; attempt < s.maxListModeRetries; attempt++ {
		contentKey, err := key.RandomNumber160()
		if err != nil {
			return seed, store.Failed, err
		}
		candidate := key.Number640{
			Location: seed.Location,
			Domain:   seed.Domain,
			Content:  contentKey,
			Version:  seed.Version,
		}
		last = s.store.Put(candidate, v, store.PutOptions{
			PutIfAbsent:   true,
			ProtectDomain: protectDomain,
			PublicKey:     pub,
		})
		if last != store.FailedNotAbsent {
			s.metrics.observeAddListRetries(attempt)
			return candidate, last, nil
		}
	}
	s.metrics.observeAddListRetries(s.maxListModeRetries)
	return seed, last, nil
}
