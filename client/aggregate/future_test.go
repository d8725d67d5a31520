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

package aggregate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/dhtstore/key"
)

func peers(n int) []key.Number160 {
	out := make([]key.Number160, n)
	for i := range out {
		out[i] = key.Number160{byte(i + 1)}
	}
	return out
}

func TestPutFutureSucceedsOnceMinReached(t *testing.T) {
	routing := &RoutingFuture{Peers: peers(3)}
	f := New(context.Background(), routing, 3, 2, func(_ context.Context, peer key.Number160) ([]key.Number480, error) {
		return []key.Number480{{Location: peer}}, nil
	})

	outcome, err := f.Join(context.Background())
	require.NoError(t, err)
	require.Equal(t, OK, outcome)
	require.True(t, f.MinReached())
	require.Len(t, f.Results(), 3)
}

func TestPutFutureFailsWhenFewerThanMinSucceed(t *testing.T) {
	routing := &RoutingFuture{Peers: peers(3)}
	f := New(context.Background(), routing, 3, 3, func(_ context.Context, peer key.Number160) ([]key.Number480, error) {
		if peer == (key.Number160{0x01}) {
			return nil, errors.New("transport failure")
		}
		return []key.Number480{{Location: peer}}, nil
	})

	outcome, err := f.Join(context.Background())
	require.NoError(t, err)
	require.Equal(t, Failed, outcome)
}

func TestPutFutureConcurrencyBoundedByR(t *testing.T) {
	routing := &RoutingFuture{Peers: peers(5)}
	var mu chanCounter
	mu.max = 0
	f := New(context.Background(), routing, 2, 1, func(ctx context.Context, _ key.Number160) ([]key.Number480, error) {
		mu.inc()
		defer mu.dec()
		select {
		case <-time.After(20 * time.Millisecond):
		case <-ctx.Done():
		}
		return nil, nil
	})
	_, err := f.Join(context.Background())
	require.NoError(t, err)
	require.LessOrEqual(t, mu.maxSeen(), 2)
}

// chanCounter tracks the maximum number of concurrently in-flight calls.
type chanCounter struct {
	cur, max int
	mu       sync.Mutex
}

func (c *chanCounter) inc() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur++
	if c.cur > c.max {
		c.max = c.cur
	}
}

func (c *chanCounter) dec() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur--
}

func (c *chanCounter) maxSeen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.max
}

func TestRegistryDedupesJoinAfterCompletion(t *testing.T) {
	reg, err := NewRegistry(8)
	require.NoError(t, err)

	routing := &RoutingFuture{Peers: peers(1)}
	f := New(context.Background(), routing, 1, 1, func(_ context.Context, peer key.Number160) ([]key.Number480, error) {
		return []key.Number480{{Location: peer}}, nil
	})
	reg.Track("op-1", f)

	_, err = f.Join(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, outcome, found := reg.Lookup("op-1")
		return found && outcome == OK
	}, time.Second, time.Millisecond)
}

func TestCancelIsIdempotentAfterSettling(t *testing.T) {
	routing := &RoutingFuture{Peers: peers(1)}
	f := New(context.Background(), routing, 1, 1, func(_ context.Context, peer key.Number160) ([]key.Number480, error) {
		return []key.Number480{{Location: peer}}, nil
	})
	_, err := f.Join(context.Background())
	require.NoError(t, err)

	f.Cancel()
	f.Cancel()
}
