package refresh

import (
	"context"
	"sync"
	"time"
)

// Job names one unit of background work. Jobs with the same Key are
// coalesced while one is queued or running.
type Job struct {
	Key string
}

type Refresher struct {
	ch      chan Job
	inFly   sync.Map // key -> struct{}
	timeout time.Duration
	wg      sync.WaitGroup
	Do      func(ctx context.Context, j Job)
}

// New starts workerCount workers draining a queue of the given capacity.
// Each job runs with the given timeout (15s when zero).
func New(capacity int, workerCount int, timeout time.Duration, do func(ctx context.Context, j Job)) *Refresher {
	if capacity <= 0 {
		capacity = 256
	}
	if workerCount <= 0 {
		workerCount = 2
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	r := &Refresher{ch: make(chan Job, capacity), Do: do, timeout: timeout}
	r.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go r.worker()
	}
	return r
}

// Enqueue schedules j and reports whether it was accepted. Duplicate keys and
// a saturated queue are dropped.
func (r *Refresher) Enqueue(j Job) bool {
	if _, exists := r.inFly.LoadOrStore(j.Key, struct{}{}); exists {
		return false
	}
	select {
	case r.ch <- j:
		return true
	default:
		r.inFly.Delete(j.Key)
		return false
	}
}

// Close stops accepting work and waits for running jobs. Enqueue must not be
// called after Close.
func (r *Refresher) Close() {
	close(r.ch)
	r.wg.Wait()
}

func (r *Refresher) worker() {
	defer r.wg.Done()
	for j := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		func() {
			defer func() {
				r.inFly.Delete(j.Key)
				cancel()
			}()
			if r.Do != nil {
				r.Do(ctx, j)
			}
		}()
	}
}
