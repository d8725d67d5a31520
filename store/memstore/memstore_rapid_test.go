package memstore

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/store"
)

func genByteKey(t *rapid.T) key.Number640 {
	return k(
		byte(rapid.IntRange(0, 255).Draw(t, "loc")),
		byte(rapid.IntRange(0, 255).Draw(t, "dom")),
		byte(rapid.IntRange(0, 255).Draw(t, "content")),
		0,
	)
}

// TestPutIfAbsentIdempotentUnderRepetition is the §8 property behind
// TestPutIfAbsentIdempotence: repeating a PutIfAbsent write against the
// same key any number of times never changes the stored value past the
// first acceptance.
func TestPutIfAbsentIdempotentUnderRepetition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(nil)
		target := genByteKey(t)
		first := data.Data{Payload: rapid.SliceOfN(rapid.Byte(), 1, 8).Draw(t, "first")}

		if s.Put(target, first, store.PutOptions{PutIfAbsent: true}) != store.OK {
			t.Fatalf("expected first PutIfAbsent to succeed")
		}

		attempts := rapid.IntRange(1, 5).Draw(t, "attempts")
		for i := 0; i < attempts; i++ {
			replacement := data.Data{Payload: rapid.SliceOfN(rapid.Byte(), 1, 8).Draw(t, "replacement")}
			status := s.Put(target, replacement, store.PutOptions{PutIfAbsent: true})
			if status != store.FailedNotAbsent {
				t.Fatalf("expected FailedNotAbsent on repeat, got %v", status)
			}
		}

		got, ok := s.GetOne(target)
		if !ok {
			t.Fatalf("entry vanished after PutIfAbsent")
		}
		if string(got.Payload) != string(first.Payload) {
			t.Fatalf("PutIfAbsent let a later write overwrite the first one")
		}
	})
}

// TestGetRangeLimitTruncatesWithoutReordering is the §8 property behind
// TestGetRangeDescendingWithLimitTwo: truncating to limit never returns
// more than limit entries, and the entries it does return stay in the
// requested ascending/descending order.
func TestGetRangeLimitTruncatesWithoutReordering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New(nil)
		n := rapid.IntRange(1, 12).Draw(t, "n")
		contents := make([]byte, 0, n)
		seen := make(map[byte]bool)
		for len(contents) < n {
			c := byte(rapid.IntRange(0, 255).Draw(t, "content"))
			if seen[c] {
				continue
			}
			seen[c] = true
			contents = append(contents, c)
			s.Put(k(1, 1, c, 0), data.Data{Payload: []byte{c}}, store.PutOptions{})
		}

		limit := rapid.IntRange(1, n+2).Draw(t, "limit")
		ascending := rapid.Bool().Draw(t, "ascending")

		got := s.GetRange(k(1, 1, 0x00, 0), k(1, 1, 0xff, 0), limit, ascending)
		if got.Len() > limit {
			t.Fatalf("GetRange returned %d entries, limit was %d", got.Len(), limit)
		}

		var keys []key.Number640
		got.Each(func(kk key.Number640, _ data.Data) { keys = append(keys, kk) })
		for i := 1; i < len(keys); i++ {
			if ascending && !keys[i-1].Less(keys[i]) {
				t.Fatalf("ascending GetRange out of order at %d: %s then %s", i, keys[i-1], keys[i])
			}
			if !ascending && !keys[i].Less(keys[i-1]) {
				t.Fatalf("descending GetRange out of order at %d: %s then %s", i, keys[i-1], keys[i])
			}
		}
	})
}
