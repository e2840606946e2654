// Package keylock provides a fixed-shard mutex map keyed by string. The
// engine serializes Login, Connect, and Logout per token/login through it:
// under a preemptive scheduler, concurrent flows on the same credential can
// otherwise interleave between store calls.
//
// # What this package must NOT do
//
//   - Grow state per key (shards are fixed; unrelated keys may share a
//     shard, which only costs contention, never correctness).
//   - Be imported outside the sessauth module.
package keylock

import (
	"hash/fnv"
	"sync"
)

const shardCount = 64

// Map is a sharded key mutex. The zero value is ready to use.
type Map struct {
	shards [shardCount]sync.Mutex
}

func (m *Map) shard(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &m.shards[h.Sum32()%shardCount]
}

// Lock acquires the shard owning key.
func (m *Map) Lock(key string) {
	m.shard(key).Lock()
}

// Unlock releases the shard owning key.
func (m *Map) Unlock(key string) {
	m.shard(key).Unlock()
}
