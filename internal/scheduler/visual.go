package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

type visualTask struct {
	at  time.Time
	seq uint64
	fn  func()
}

// taskHeap orders tasks by fire time, then by insertion
type taskHeap []visualTask

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(visualTask)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}

// visualQueue runs delayed presentation callbacks from a single goroutine
// and a single timer.
type visualQueue struct {
	mu    sync.Mutex
	tasks taskHeap
	seq   uint64
	wake  chan struct{}
	now   func() time.Time
}

func newVisualQueue() *visualQueue {
	return &visualQueue{
		wake: make(chan struct{}, 1),
		now:  time.Now,
	}
}

func (q *visualQueue) push(delay time.Duration, fn func()) {
	q.mu.Lock()
	q.seq++
	heap.Push(&q.tasks, visualTask{at: q.now().Add(delay), seq: q.seq, fn: fn})
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *visualQueue) clear() {
	q.mu.Lock()
	q.tasks = nil
	q.mu.Unlock()
}

func (q *visualQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// popDue removes every task whose time has come and reports how long to
// wait for the next one. wait is negative when the queue is empty.
func (q *visualQueue) popDue() (due []func(), wait time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	for len(q.tasks) > 0 && !q.tasks[0].at.After(now) {
		due = append(due, heap.Pop(&q.tasks).(visualTask).fn)
	}
	if len(q.tasks) == 0 {
		return due, -1
	}
	return due, q.tasks[0].at.Sub(now)
}

func (q *visualQueue) run(done <-chan struct{}, onPanic func(any)) {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		due, wait := q.popDue()
		for _, fn := range due {
			runGuarded(fn, onPanic)
		}
		if wait >= 0 {
			timer.Reset(wait)
		}

		select {
		case <-done:
			return
		case <-q.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

func runGuarded(fn func(), onPanic func(any)) {
	defer func() {
		if r := recover(); r != nil && onPanic != nil {
			onPanic(r)
		}
	}()
	fn()
}
