// Package scheduler feeds periodic jobs to the worker pool.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/worker"
)

// Enqueuer accepts jobs without blocking
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Scheduler ticks each registered job onto an Enqueuer. Ticks that find
// the queue full are dropped; the next tick tries again.
type Scheduler struct {
	target Enqueuer
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(target Enqueuer) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{target: target, ctx: ctx, cancel: cancel}
}

// Schedule enqueues job every interval until Stop. Non-positive intervals
// are ignored.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	if interval <= 0 {
		logger.FromContext(s.ctx).Warn("Ignoring job with non-positive interval", "job", job.Name(), "interval", interval)
		return
	}
	s.wg.Add(1)
	go s.tick(interval, job)
}

func (s *Scheduler) tick(interval time.Duration, job worker.Job) {
	defer s.wg.Done()
	t := time.NewTicker(interval)
	defer t.Stop()

	skipped := 0
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
		}
		if s.target.Enqueue(job) {
			skipped = 0
			continue
		}
		skipped++
		logger.FromContext(s.ctx).Debug("Scheduled tick skipped", "job", job.Name(), "consecutive", skipped)
	}
}

// Stop halts every ticker and waits for them. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
