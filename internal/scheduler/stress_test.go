package scheduler

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestEngineStressConcurrentSchedule(t *testing.T) {
	engine := NewEngine(4096)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 200
	total := workers * perWorker

	now := time.Now()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				delay := time.Duration((w+i)%50+10) * time.Millisecond
				a := Alarm{Name: fmt.Sprintf("w%d-%d", w, i), FireAt: now.Add(delay)}
				if err := engine.Schedule(a); err != nil {
					t.Errorf("schedule failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	deadline := time.After(5 * time.Second)
	received := 0
	for received < total {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting alarms: received=%d total=%d dropped=%d", received, total, engine.Dropped())
		case <-engine.C():
			received++
		}
	}

	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got=%d", engine.Dropped())
	}
}

func TestEngineStressRescheduleSameName(t *testing.T) {
	engine := NewEngine(16)
	engine.Start()
	defer engine.Stop()

	far := time.Now().Add(time.Hour)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = engine.Schedule(Alarm{Name: "midnight", FireAt: far.Add(time.Duration(w*100+i) * time.Millisecond)})
			}
		}()
	}
	wg.Wait()

	engine.mu.Lock()
	pending := len(engine.queue)
	engine.mu.Unlock()
	if pending != 1 {
		t.Fatalf("expected exactly one pending midnight alarm, got %d", pending)
	}
}
