package worker

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Task is a background job, typically a best-effort save.
type Task func(ctx context.Context) error

// Runner is what the autosave coordinator needs for fire-and-forget saves.
// The pool satisfies it; tests use a synchronous runner for deterministic
// ordering.
type Runner interface {
	Submit(t Task)
}

// Pool runs tasks on a fixed set of workers with a bounded queue. Each
// task gets its own deadline so a hung backend call cannot pin a worker.
type Pool struct {
	taskQueue   chan Task
	wg          sync.WaitGroup
	isClosing   atomic.Bool
	taskTimeout time.Duration
}

func NewPool(size int, taskTimeout time.Duration) *Pool {
	p := &Pool{
		taskQueue:   make(chan Task, 256),
		taskTimeout: taskTimeout,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.startWorker()
	}

	return p
}

func (p *Pool) startWorker() {
	defer p.wg.Done()
	for task := range p.taskQueue {
		ctx, cancel := context.WithTimeout(context.Background(), p.taskTimeout)
		if err := task(ctx); err != nil {
			log.Printf("[WORKER ERROR] background task failed: %v", err)
		}
		cancel()
	}
}

func (p *Pool) Submit(t Task) {
	if p.isClosing.Load() {
		log.Println("[WORKER] task submitted during shutdown, dropping")
		return
	}
	select {
	case p.taskQueue <- t:
	default:
		log.Println("[WORKER] task queue full, dropping task")
	}
}

// Shutdown stops accepting tasks and waits for in-flight work to finish.
func (p *Pool) Shutdown() {
	if p.isClosing.Swap(true) {
		return
	}
	close(p.taskQueue)
	p.wg.Wait()
}

// Sync runs every task inline on the caller's goroutine. The logout path
// uses it where a flush must complete before sign-out proceeds, and tests
// use it everywhere ordering matters.
type Sync struct{}

func (Sync) Submit(t Task) {
	if err := t(context.Background()); err != nil {
		log.Printf("[WORKER ERROR] task failed: %v", err)
	}
}
