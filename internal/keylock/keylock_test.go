package keylock

import (
	"sync"
	"testing"
)

func TestSameKeySerializes(t *testing.T) {
	var m Map
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("token-a")
			counter++
			m.Unlock("token-a")
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Fatalf("counter = %d, want 100", counter)
	}
}

func TestUnlockReleases(t *testing.T) {
	var m Map

	m.Lock("token-a")
	m.Unlock("token-a")

	done := make(chan struct{})
	go func() {
		m.Lock("token-a")
		m.Unlock("token-a")
		close(done)
	}()
	<-done
}

func TestShardIsStablePerKey(t *testing.T) {
	var m Map
	for _, key := range []string{"", "token-a", "alice", "a-much-longer-key-value"} {
		if m.shard(key) != m.shard(key) {
			t.Fatalf("key %q mapped to different shards", key)
		}
	}
}
