/*
queue.go - Single-flight FIFO queue

PURPOSE:
  Serializes every operation against the remote backend: jobs execute
  strictly one at a time, in submission order, even though each is
  independently asynchronous. The backend client mutates shared
  connection/auth state and concurrent calls race; serialization trades
  throughput for correctness under one shared client.

SHAPE:
  A mutex-guarded job list plus a single drainer goroutine that is
  started lazily and exits when the list empties. Submit enqueues and
  returns; Do enqueues and blocks for the result; Wait blocks until the
  queue is fully drained (shutdown, tests).
*/
package gateway

import "sync"

// Queue executes submitted jobs one at a time in FIFO order.
type Queue struct {
	mu       sync.Mutex
	idle     *sync.Cond
	jobs     []func()
	draining bool
}

func NewQueue() *Queue {
	q := &Queue{}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Submit enqueues job and returns immediately. Jobs run in submission
// order on a single drainer goroutine.
func (q *Queue) Submit(job func()) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	if !q.draining {
		q.draining = true
		go q.drain()
	}
	q.mu.Unlock()
}

// Do enqueues job and blocks until it has run, returning its error.
func (q *Queue) Do(job func() error) error {
	errc := make(chan error, 1)
	q.Submit(func() { errc <- job() })
	return <-errc
}

// Wait blocks until every submitted job has finished.
func (q *Queue) Wait() {
	q.mu.Lock()
	for q.draining || len(q.jobs) > 0 {
		q.idle.Wait()
	}
	q.mu.Unlock()
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.jobs) == 0 {
			q.draining = false
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		job()
	}
}
