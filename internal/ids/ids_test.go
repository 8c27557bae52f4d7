package ids_test

import (
	"sync"
	"testing"

	"github.com/sable-lang/sable/internal/ids"
)

func TestSequenceIsMonotonic(t *testing.T) {
	gen := ids.NewSequence()
	prev := gen.NextID()
	for i := 0; i < 100; i++ {
		next := gen.NextID()
		if next <= prev {
			t.Fatalf("expected strictly increasing IDs, got %d after %d", next, prev)
		}
		prev = next
	}
}

func TestSequenceConcurrentUniqueness(t *testing.T) {
	gen := ids.NewSequence()

	const workers = 8
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[int32]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int32, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, gen.NextID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if seen[id] {
					t.Errorf("duplicate ID %d", id)
				}
				seen[id] = true
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d unique IDs, got %d", workers*perWorker, len(seen))
	}
}
