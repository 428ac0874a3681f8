// Package leaktest checks that tests do not leave goroutines behind.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

const (
	settleDelay  = 10 * time.Millisecond
	pollInterval = 10 * time.Millisecond
	// DefaultTimeout bounds how long Check waits for goroutines to exit.
	DefaultTimeout = 2 * time.Second
)

// GoroutineChecker records a goroutine baseline and later waits for the
// count to fall back to it.
type GoroutineChecker struct {
	t       testing.TB
	before  int
	timeout time.Duration
	count   func() int
}

// NewGoroutineChecker records the current goroutine count.
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	return newChecker(t, runtime.NumGoroutine)
}

func newChecker(t testing.TB, count func() int) *GoroutineChecker {
	runtime.Gosched()
	time.Sleep(settleDelay)
	return &GoroutineChecker{t: t, before: count(), timeout: DefaultTimeout, count: count}
}

// Baseline is the count recorded at construction.
func (g *GoroutineChecker) Baseline() int { return g.before }

// Check polls until at most tolerance extra goroutines remain, failing the
// test when the timeout passes first.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	limit := g.before + tolerance
	deadline := time.Now().Add(g.timeout)
	for {
		after := g.count()
		if after <= limit {
			return
		}
		if time.Now().After(deadline) {
			g.t.Errorf("goroutine leak: before=%d after=%d tolerance=%d", g.before, after, tolerance)
			return
		}
		runtime.Gosched()
		time.Sleep(pollInterval)
	}
}

// Run executes fn and fails t if it leaves goroutines running.
func Run(t testing.TB, fn func()) {
	t.Helper()
	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
