package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/logger"
	"github.com/osse101/RewardEngine_Go/internal/metrics"
)

// Job is a unit of background work
type Job interface {
	Name() string
	Process(ctx context.Context) error
}

// Pool runs queued jobs on a fixed set of goroutines. Each run gets its
// own deadline and a panicking job does not take its worker down.
type Pool struct {
	size       int
	queue      chan Job
	jobTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewPool(size, queueSize int) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		size:       max(size, 1),
		queue:      make(chan Job, queueSize),
		jobTimeout: DefaultJobTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (p *Pool) Start() {
	p.wg.Add(p.size)
	for id := range p.size {
		go p.loop(id)
	}
}

func (p *Pool) loop(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.queue:
			p.run(id, job)
		}
	}
}

func (p *Pool) run(id int, job Job) {
	ctx, cancel := context.WithTimeout(p.ctx, p.jobTimeout)
	defer cancel()
	log := logger.FromContext(ctx).With("job", job.Name(), "worker", id)

	outcome := metrics.OutcomeOK
	defer func() {
		if r := recover(); r != nil {
			outcome = metrics.OutcomePanic
			log.Error(LogMsgWorkerJobPanicked, "panic", fmt.Sprint(r))
		}
		metrics.BackgroundJobs.WithLabelValues(job.Name(), outcome).Inc()
	}()

	if err := job.Process(ctx); err != nil {
		outcome = metrics.OutcomeError
		log.Error(LogMsgWorkerJobFailed, "error", err)
	}
}

// Enqueue hands job to the pool without blocking. It reports false when
// the queue is full or the pool has stopped.
func (p *Pool) Enqueue(job Job) bool {
	if p.ctx.Err() == nil {
		select {
		case p.queue <- job:
			return true
		default:
			logger.FromContext(p.ctx).Warn(LogMsgWorkerQueueFull, "job", job.Name())
		}
	}
	metrics.BackgroundJobs.WithLabelValues(job.Name(), metrics.OutcomeRejected).Inc()
	return false
}

// Stop cancels in-flight jobs, waits for the workers and drops anything
// still queued. It is safe to call more than once.
func (p *Pool) Stop() {
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
		logger.FromContext(p.ctx).Info(LogMsgWorkerPoolStopped, "dropped", len(p.queue))
	})
}
