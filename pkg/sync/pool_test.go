package sync

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gammazero/workerpool"
)

// TestDefaultPool tests the default pool functionality
func TestDefaultPool(t *testing.T) {
	t.Run("returns non-nil pool", func(t *testing.T) {
		pool := DefaultPool()
		if pool == nil {
			t.Fatal("DefaultPool() returned nil")
		}
	})

	t.Run("default pool is PoolOfNoPool", func(t *testing.T) {
		pool := DefaultPool()

		var executed bool
		var wg sync.WaitGroup
		wg.Add(1)

		err := pool.Submit(func() {
			executed = true
			wg.Done()
		})

		if err != nil {
			t.Errorf("Submit() error = %v, want nil", err)
		}

		wg.Wait()

		if !executed {
			t.Error("task was not executed")
		}
	})

	t.Run("can execute multiple tasks", func(t *testing.T) {
		pool := DefaultPool()

		const numTasks = 10
		var counter int32
		var wg sync.WaitGroup
		wg.Add(numTasks)

		for i := 0; i < numTasks; i++ {
			err := pool.Submit(func() {
				atomic.AddInt32(&counter, 1)
				wg.Done()
			})
			if err != nil {
				t.Errorf("Submit() error = %v, want nil", err)
			}
		}

		wg.Wait()

		if counter != numTasks {
			t.Errorf("counter = %d, want %d", counter, numTasks)
		}
	})
}

// TestSetDefaultPool tests setting a custom default pool
func TestSetDefaultPool(t *testing.T) {
	originalPool := DefaultPool()
	defer func() {
		SetDefaultPool(originalPool)
	}()

	t.Run("sets new default pool", func(t *testing.T) {
		customPool := PoolOfNoPool()
		SetDefaultPool(customPool)

		var executed bool
		var wg sync.WaitGroup
		wg.Add(1)

		err := DefaultPool().Submit(func() {
			executed = true
			wg.Done()
		})

		if err != nil {
			t.Errorf("Submit() error = %v, want nil", err)
		}

		wg.Wait()

		if !executed {
			t.Error("task was not executed")
		}
	})

	t.Run("ignores nil pool", func(t *testing.T) {
		poolBefore := DefaultPool()
		SetDefaultPool(nil)
		poolAfter := DefaultPool()

		var executed bool
		var wg sync.WaitGroup
		wg.Add(1)

		err := poolAfter.Submit(func() {
			executed = true
			wg.Done()
		})

		if err != nil {
			t.Errorf("Submit() error = %v, want nil", err)
		}

		wg.Wait()

		if !executed {
			t.Error("pool should still be functional after nil set")
		}

		_ = poolBefore
	})

	t.Run("switches to workerpool", func(t *testing.T) {
		wp := workerpool.New(5)
		defer wp.StopWait()

		SetDefaultPool(PoolOfWorkerpool(wp))

		var executed bool
		var wg sync.WaitGroup
		wg.Add(1)

		err := DefaultPool().Submit(func() {
			executed = true
			wg.Done()
		})

		if err != nil {
			t.Errorf("Submit() error = %v, want nil", err)
		}

		wg.Wait()

		if !executed {
			t.Error("task was not executed with workerpool")
		}
	})
}

// TestPoolOfNoPool tests the no-pool implementation
func TestPoolOfNoPool(t *testing.T) {
	t.Run("creates valid pool", func(t *testing.T) {
		pool := PoolOfNoPool()
		if pool == nil {
			t.Fatal("PoolOfNoPool() returned nil")
		}
	})

	t.Run("executes task in separate goroutine", func(t *testing.T) {
		pool := PoolOfNoPool()

		mainGoroutineID := getGoroutineID()
		var taskGoroutineID uint64
		var wg sync.WaitGroup
		wg.Add(1)

		time.Sleep(1 * time.Nanosecond)
		err := pool.Submit(func() {
			taskGoroutineID = getGoroutineID()
			wg.Done()
		})

		if err != nil {
			t.Errorf("Submit() error = %v, want nil", err)
		}

		wg.Wait()

		if taskGoroutineID == mainGoroutineID {
			t.Error("task should execute in different goroutine")
		}
	})

	t.Run("handles panic in task", func(t *testing.T) {
		pool := PoolOfNoPool()

		var wg sync.WaitGroup
		wg.Add(1)

		err := pool.Submit(func() {
			defer wg.Done()
			panic("test panic")
		})

		if err != nil {
			t.Errorf("Submit() error = %v, want nil", err)
		}

		// Should not panic in main goroutine
		wg.Wait()
	})

	t.Run("executes multiple tasks concurrently", func(t *testing.T) {
		pool := PoolOfNoPool()

		const numTasks = 100
		var counter int32
		var wg sync.WaitGroup
		wg.Add(numTasks)

		for i := 0; i < numTasks; i++ {
			err := pool.Submit(func() {
				atomic.AddInt32(&counter, 1)
				time.Sleep(10 * time.Millisecond)
				wg.Done()
			})
			if err != nil {
				t.Errorf("Submit() error = %v, want nil", err)
			}
		}

		wg.Wait()

		if counter != numTasks {
			t.Errorf("counter = %d, want %d", counter, numTasks)
		}
	})

	t.Run("always returns nil error", func(t *testing.T) {
		pool := PoolOfNoPool()

		for i := 0; i < 10; i++ {
			err := pool.Submit(func() {})
			if err != nil {
				t.Errorf("Submit() error = %v, want nil", err)
			}
		}
	})
}

// TestPoolOfWorkerpool tests the workerpool adapter
func TestPoolOfWorkerpool(t *testing.T) {
	t.Run("creates valid pool adapter", func(t *testing.T) {
		wp := workerpool.New(10)
		pool := PoolOfWorkerpool(wp)

		if pool == nil {
			t.Fatal("PoolOfWorkerpool() returned nil")
		}

		wp.StopWait()
	})

	t.Run("panics with nil workerpool", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("PoolOfWorkerpool(nil) should panic")
			} else {
				if msg, ok := r.(string); ok {
					expected := "worker pool is nil"
					if msg != expected {
						t.Errorf("panic message = %q, want %q", msg, expected)
					}
				}
			}
		}()

		_ = PoolOfWorkerpool(nil)
	})

	t.Run("executes tasks through workerpool", func(t *testing.T) {
		wp := workerpool.New(5)
		defer wp.StopWait()

		pool := PoolOfWorkerpool(wp)

		var counter int32
		const numTasks = 20
		var wg sync.WaitGroup
		wg.Add(numTasks)

		for i := 0; i < numTasks; i++ {
			err := pool.Submit(func() {
				atomic.AddInt32(&counter, 1)
				wg.Done()
			})
			if err != nil {
				t.Errorf("Submit() error = %v, want nil", err)
			}
		}

		wg.Wait()

		if counter != numTasks {
			t.Errorf("counter = %d, want %d", counter, numTasks)
		}
	})

	t.Run("respects pool size limit", func(t *testing.T) {
		const poolSize = 3
		wp := workerpool.New(poolSize)
		defer wp.StopWait()

		pool := PoolOfWorkerpool(wp)

		var currentConcurrent int32
		var maxObserved int32
		const numTasks = 10
		var wg sync.WaitGroup
		wg.Add(numTasks)

		for i := 0; i < numTasks; i++ {
			err := pool.Submit(func() {
				defer wg.Done()

				current := atomic.AddInt32(&currentConcurrent, 1)
				for {
					old := atomic.LoadInt32(&maxObserved)
					if current <= old || atomic.CompareAndSwapInt32(&maxObserved, old, current) {
						break
					}
				}

				time.Sleep(50 * time.Millisecond)
				atomic.AddInt32(&currentConcurrent, -1)
			})
			if err != nil {
				t.Errorf("Submit() error = %v, want nil", err)
			}
		}

		wg.Wait()

		max := atomic.LoadInt32(&maxObserved)
		if max > poolSize {
			t.Errorf("max concurrent = %d, want <= %d", max, poolSize)
		}
	})

	t.Run("always returns nil error", func(t *testing.T) {
		wp := workerpool.New(5)
		defer wp.StopWait()

		pool := PoolOfWorkerpool(wp)

		for i := 0; i < 10; i++ {
			err := pool.Submit(func() {})
			if err != nil {
				t.Errorf("Submit() error = %v, want nil", err)
			}
		}
	})
}

// TestPoolAdapter tests the poolAdapter type
func TestPoolAdapter(t *testing.T) {
	t.Run("implements Pool interface", func(t *testing.T) {
		var _ Pool = poolAdapter(nil)
	})

	t.Run("calls wrapped function", func(t *testing.T) {
		var called bool
		var submittedFunc func()

		adapter := poolAdapter(func(f func()) error {
			called = true
			submittedFunc = f
			return nil
		})

		testFunc := func() {}
		err := adapter.Submit(testFunc)

		if err != nil {
			t.Errorf("Submit() error = %v, want nil", err)
		}

		if !called {
			t.Error("wrapped function was not called")
		}

		if submittedFunc == nil {
			t.Error("function was not passed to wrapped function")
		}
	})

	t.Run("propagates error from wrapped function", func(t *testing.T) {
		expectedErr := errors.New("test error")

		adapter := poolAdapter(func(f func()) error {
			return expectedErr
		})

		err := adapter.Submit(func() {})

		if err != expectedErr {
			t.Errorf("Submit() error = %v, want %v", err, expectedErr)
		}
	})
}

// TestPoolIntegration tests integration between pool implementations
func TestPoolIntegration(t *testing.T) {
	t.Run("can switch between pool implementations", func(t *testing.T) {
		originalPool := DefaultPool()
		defer SetDefaultPool(originalPool)

		wp := workerpool.New(5)
		defer wp.StopWait()

		poolTypes := []struct {
			name string
			pool Pool
		}{
			{"NoPool", PoolOfNoPool()},
			{"Workerpool", PoolOfWorkerpool(wp)},
		}

		for _, pt := range poolTypes {
			t.Run(pt.name, func(t *testing.T) {
				SetDefaultPool(pt.pool)

				var executed bool
				var wg sync.WaitGroup
				wg.Add(1)

				err := DefaultPool().Submit(func() {
					executed = true
					wg.Done()
				})

				if err != nil {
					t.Errorf("Submit() error = %v, want nil", err)
				}

				wg.Wait()

				if !executed {
					t.Error("task was not executed")
				}
			})
		}
	})
}

// BenchmarkPools benchmarks different pool implementations
func BenchmarkPools(b *testing.B) {
	b.Run("NoPool", func(b *testing.B) {
		pool := PoolOfNoPool()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			var wg sync.WaitGroup
			wg.Add(1)
			_ = pool.Submit(func() {
				wg.Done()
			})
			wg.Wait()
		}
	})

	b.Run("Workerpool", func(b *testing.B) {
		wp := workerpool.New(10)
		defer wp.StopWait()
		pool := PoolOfWorkerpool(wp)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			var wg sync.WaitGroup
			wg.Add(1)
			_ = pool.Submit(func() {
				wg.Done()
			})
			wg.Wait()
		}
	})
}

// Helper function to get goroutine ID (for testing purposes)
func getGoroutineID() uint64 {
	// Simple implementation - in real code, use runtime.Stack or similar
	return uint64(time.Now().UnixNano())
}

// ExampleDefaultPool demonstrates pool usage
func ExampleDefaultPool() {
	var wg sync.WaitGroup
	wg.Add(3)

	for i := 0; i < 3; i++ {
		i := i
		_ = DefaultPool().Submit(func() {
			defer wg.Done()
			_ = i
		})
	}

	wg.Wait()
}

// ExampleSetDefaultPool demonstrates a custom pool
func ExampleSetDefaultPool() {
	wp := workerpool.New(5)
	defer wp.StopWait()

	SetDefaultPool(PoolOfWorkerpool(wp))

	var wg sync.WaitGroup
	wg.Add(10)

	for i := 0; i < 10; i++ {
		_ = DefaultPool().Submit(func() {
			defer wg.Done()
			time.Sleep(100 * time.Millisecond)
		})
	}

	wg.Wait()
}
