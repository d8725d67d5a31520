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

// Package replication wraps the external replication subsystem's
// UpdateAndNotifyResponsibilities call (§6) with per-message coalescing:
// §9 permits coalescing by locationKey within one message as long as
// delivery stays at-least-once per distinct locationKey touched.
package replication

import (
	"go.uber.org/zap"

	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/store"
)

// CoalescingNotifier batches the per-entry notifications a single PUT/ADD
// request produces into one call per distinct locationKey (§9).
type CoalescingNotifier struct {
	inner  store.ReplicationNotifier
	logger *zap.Logger
}

func NewCoalescingNotifier(inner store.ReplicationNotifier, logger *zap.Logger) *CoalescingNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoalescingNotifier{inner: inner, logger: logger}
}

// Batch collects locationKeys over the lifetime of a single request and
// flushes each distinct key exactly once.
type Batch struct {
	n    *CoalescingNotifier
	seen map[key.Number160]struct{}
}

func (n *CoalescingNotifier) NewBatch() *Batch {
	return &Batch{n: n, seen: make(map[key.Number160]struct{})}
}

// Touch records that location was written successfully (§4.2: "After
// every successful OK, notify the replication subsystem").
func (b *Batch) Touch(location key.Number160) {
	if b.n.inner == nil {
		return
	}
	if _, ok := b.seen[location]; ok {
		return
	}
	b.seen[location] = struct{}{}
}

// Flush delivers exactly one notification per distinct locationKey touched
// since NewBatch.
func (b *Batch) Flush() {
	if b.n.inner == nil {
		return
	}
	for location := range b.seen {
		b.n.inner.UpdateAndNotifyResponsibilities(location)
		b.n.logger.Debug("notified responsibilities", zap.Stringer("location", location))
	}
}
