package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWorkerPool_Workers(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"explicit", 3, 3},
		{"zero", 0, runtime.GOMAXPROCS(0)},
		{"negative", -2, runtime.GOMAXPROCS(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewWorkerPool(tt.workers)
			defer pool.Close()

			if got := pool.Workers(); got != tt.want {
				t.Errorf("Workers() = %d, want %d", got, tt.want)
			}
			if !pool.IsRunning() {
				t.Error("IsRunning() = false for a new pool")
			}
		})
	}
}

func TestWorkerPool_ExecuteAllRunsEveryItem(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// More items than the queues hold, so ExecuteAll has to wait for room.
	const n = 500
	var ran [n]atomic.Int32
	work := make([]func(), n)
	for i := range work {
		work[i] = func() { ran[i].Add(1) }
	}

	pool.ExecuteAll(work)

	for i := range ran {
		if got := ran[i].Load(); got != 1 {
			t.Fatalf("item %d ran %d times, want 1", i, got)
		}
	}
}

func TestWorkerPool_ExecuteAllSkipsNil(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	var count atomic.Int32
	pool.ExecuteAll(nil)
	pool.ExecuteAll([]func(){nil, func() { count.Add(1) }, nil})

	if got := count.Load(); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
}

func TestWorkerPool_SlotReusedAfterPreviousItem(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	// Items 0 and 2 share worker 0; item 2 must see item 0 finished.
	var slow, sawSlow atomic.Bool
	work := []func(){
		func() {
			time.Sleep(20 * time.Millisecond)
			slow.Store(true)
		},
		func() {},
		func() { sawSlow.Store(slow.Load()) },
		func() {},
	}
	pool.ExecuteAll(work)

	if !sawSlow.Load() {
		t.Error("item 2 started before item 0 finished on the same worker")
	}
}

func TestWorkerPool_BoundedConcurrency(t *testing.T) {
	const workers = 3
	pool := NewWorkerPool(workers)
	defer pool.Close()

	var active, peak atomic.Int32
	work := make([]func(), 48)
	for i := range work {
		work[i] = func() {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		}
	}
	pool.ExecuteAll(work)

	if got := peak.Load(); got > workers {
		t.Errorf("peak concurrency = %d, want <= %d", got, workers)
	}
	if got := active.Load(); got != 0 {
		t.Errorf("active = %d after ExecuteAll returned, want 0", got)
	}
}

func TestWorkerPool_Close(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("IsRunning() = true after Close")
	}

	var ran atomic.Bool
	pool.ExecuteAll([]func(){func() { ran.Store(true) }})
	if ran.Load() {
		t.Error("closed pool ran work")
	}
}

func TestWorkerPool_CloseStopsWorkers(t *testing.T) {
	before := runtime.NumGoroutine()

	for range 10 {
		pool := NewWorkerPool(4)
		pool.ExecuteAll([]func(){func() {}, func() {}})
		pool.Close()
	}

	deadline := time.Now().Add(time.Second)
	for runtime.NumGoroutine() > before+2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if after := runtime.NumGoroutine(); after > before+2 {
		t.Errorf("goroutines: %d before, %d after closing the pools", before, after)
	}
}

func BenchmarkWorkerPool_ExecuteAll(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	work := make([]func(), 240) // 64x64 tiles of a 1280x720 frame, rounded up
	for i := range work {
		work[i] = func() {}
	}

	b.ResetTimer()
	for range b.N {
		pool.ExecuteAll(work)
	}
}
