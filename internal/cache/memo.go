package cache

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Memo computes a value at most once per key. Concurrent callers for the
// same key wait for the single computation. With a backing Cache the result
// is also stored as JSON and reused by later Memo instances.
type Memo[T any] struct {
	store Cache
	ttl   time.Duration
	calls sync.Map // key -> *memoCall[T]

	hits   atomic.Int64
	misses atomic.Int64
}

type memoCall[T any] struct {
	once sync.Once
	val  T
	err  error
}

// NewMemo creates a memo. store may be nil for a purely in-process memo.
func NewMemo[T any](store Cache, ttl time.Duration) *Memo[T] {
	return &Memo[T]{store: store, ttl: ttl}
}

// Do returns the value for key, running compute only if no other caller
// has and the backing store has no entry.
func (m *Memo[T]) Do(key string, compute func() (T, error)) (T, error) {
	v, _ := m.calls.LoadOrStore(key, &memoCall[T]{})
	call := v.(*memoCall[T])

	call.once.Do(func() {
		if m.store != nil {
			if data, ok := m.store.Get(key); ok {
				if err := json.Unmarshal(data, &call.val); err == nil {
					m.hits.Add(1)
					return
				}
			}
		}

		m.misses.Add(1)
		call.val, call.err = compute()
		if call.err != nil || m.store == nil {
			return
		}
		if data, err := json.Marshal(call.val); err == nil {
			_ = m.store.Set(key, data, m.ttl)
		}
	})

	return call.val, call.err
}

// Stats returns how many keys were served from the store and how many computed
func (m *Memo[T]) Stats() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}
