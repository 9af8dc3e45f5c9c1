package hooks

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Defaults used when NewAsyncQueue is given non-positive sizes
const (
	DefaultWorkers   = 4
	DefaultQueueSize = 100
)

// AsyncTask represents a task to be executed asynchronously
type AsyncTask struct {
	ID   string
	Name string
	Fn   func(ctx context.Context) error
}

// AsyncQueue runs tasks on a fixed pool of workers
type AsyncQueue struct {
	tasks       chan AsyncTask
	workerCount int
	logger      *zap.Logger
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	started     bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewAsyncQueue creates a new async task queue
func NewAsyncQueue(workerCount, queueSize int, logger *zap.Logger) *AsyncQueue {
	if workerCount <= 0 {
		workerCount = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &AsyncQueue{
		tasks:       make(chan AsyncTask, queueSize),
		workerCount: workerCount,
		logger:      logger.Named("async_queue"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the worker pool
func (q *AsyncQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}

	for i := 0; i < q.workerCount; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	q.started = true
}

func (q *AsyncQueue) worker(id int) {
	defer q.wg.Done()

	for {
		select {
		case <-q.ctx.Done():
			return
		case task, ok := <-q.tasks:
			if !ok {
				return
			}
			q.run(id, task)
		}
	}
}

func (q *AsyncQueue) run(worker int, task AsyncTask) {
	fields := []zap.Field{
		zap.Int("worker", worker),
		zap.String("task", task.Name),
		zap.String("task_id", task.ID),
	}

	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("task panicked", append(fields, zap.Any("panic", r))...)
		}
	}()

	if err := task.Fn(q.ctx); err != nil {
		q.logger.Warn("task failed", append(fields, zap.Error(err))...)
	}
}

// Enqueue adds a task to the queue. Tasks without an ID get one.
// The read lock is held across the send so Shutdown cannot close the
// channel underneath it.
func (q *AsyncQueue) Enqueue(task AsyncTask) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if !q.started {
		return fmt.Errorf("queue not started")
	}
	if q.shutdown {
		return fmt.Errorf("queue shutdown")
	}

	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	select {
	case q.tasks <- task:
		return nil
	case <-q.ctx.Done():
		return fmt.Errorf("queue closed")
	}
}

// Shutdown stops accepting new tasks and waits for queued ones to finish
func (q *AsyncQueue) Shutdown() {
	q.mu.Lock()
	if !q.started || q.shutdown {
		q.mu.Unlock()
		return
	}
	q.shutdown = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
}

// Stop immediately stops the queue without waiting for queued tasks
func (q *AsyncQueue) Stop() {
	q.cancel()
	q.wg.Wait()
}
