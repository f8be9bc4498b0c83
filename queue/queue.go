// Package queue provides the in-memory work queue behind long running
// jobs (dataset refreshes). Jobs run one at a time on a single worker,
// progress updates fan out to subscribers.
package queue

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/insightdash/insight"
)

// subscriber channels are buffered; a subscriber that stops reading drops
// intermediate updates rather than stalling the worker.
const subscriptionBuffer = 16

// Runner executes one transaction. report publishes a progress update
// (progress in [0,1]) to subscribers. Returning ctx.Err() after a cancel
// marks the transaction Cancelled rather than Failed.
type Runner func(ctx context.Context, t *insight.Transaction, report func(progress float64, message string)) error

var _ insight.WorkQueue = (*Queue)(nil)

// Queue is an in-memory insight.WorkQueue.
type Queue struct {
	runner Runner

	mu     sync.Mutex
	last   map[string]insight.TransactionStatus
	subs   map[string][]*subscription
	closed bool

	// publishing tracks Publish calls past the closed check so Close can
	// wait them out before closing the jobs channel.
	publishing sync.WaitGroup

	jobs chan *insight.Transaction
	done chan struct{}
}

// New creates a queue running jobs with the provided runner and starts
// its worker.
func New(runner Runner) *Queue {
	q := &Queue{
		runner: runner,
		last:   make(map[string]insight.TransactionStatus),
		subs:   make(map[string][]*subscription),
		jobs:   make(chan *insight.Transaction, 64),
		done:   make(chan struct{}),
	}
	go q.work()
	return q
}

// Publish schedules the transaction, populating its ID. A rejected
// publish leaves the transaction untouched.
//
// returns EINVALID after the queue has been closed.
func (q *Queue) Publish(t *insight.Transaction) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return insight.Errorf(insight.EINVALID, "work queue closed")
	}

	if t.Ctx == nil {
		t.Ctx = context.Background()
	}
	t.ID = uuid.NewString()
	q.last[t.ID] = insight.TransactionStatus{ID: t.ID, State: insight.TransactionQueued}
	q.publishing.Add(1)
	q.mu.Unlock()

	defer q.publishing.Done()
	q.jobs <- t
	return nil
}

// Subscribe opens a subscription to the transaction with the given id and
// immediately replays its latest status. Subscriptions to finished
// transactions receive the terminal status and close.
//
// returns ENOTFOUND if the transaction isnt known.
func (q *Queue) Subscribe(ctx context.Context, id string) (insight.Subscription, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	status, ok := q.last[id]
	if !ok {
		return nil, insight.Errorf(insight.ENOTFOUND, "transaction not found")
	}

	sub := &subscription{
		q:  q,
		id: id,
		c:  make(chan insight.TransactionStatus, subscriptionBuffer),
	}
	sub.c <- status

	if terminal(status.State) {
		close(sub.c)
		sub.closed = true
		return sub, nil
	}

	q.subs[id] = append(q.subs[id], sub)
	return sub, nil
}

// Close stops accepting transactions, waits for the in-flight one and
// closes all subscriptions. no-op when already closed.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()

	// in-flight publishes passed the closed check with a live queue, let
	// them land before closing the channel under them.
	q.publishing.Wait()
	close(q.jobs)
	<-q.done

	q.mu.Lock()
	defer q.mu.Unlock()
	for id, subs := range q.subs {
		for _, sub := range subs {
			sub.shutdown()
		}
		delete(q.subs, id)
	}
	return nil
}

func (q *Queue) work() {
	defer close(q.done)

	for t := range q.jobs {
		q.publish(insight.TransactionStatus{ID: t.ID, State: insight.TransactionRunning})

		report := func(progress float64, message string) {
			q.publish(insight.TransactionStatus{
				ID:       t.ID,
				State:    insight.TransactionRunning,
				Progress: progress,
				Message:  message,
			})
		}

		err := q.runner(t.Ctx, t, report)
		switch {
		case t.Ctx.Err() != nil:
			q.publish(insight.TransactionStatus{ID: t.ID, State: insight.TransactionCancelled})
		case err != nil:
			q.publish(insight.TransactionStatus{ID: t.ID, State: insight.TransactionFailed, Message: insight.ErrorMessage(err)})
		default:
			q.publish(insight.TransactionStatus{ID: t.ID, State: insight.TransactionDone, Progress: 1})
		}
	}
}

// publish records the status as latest and fans it out. Terminal statuses
// close the transaction's subscriptions.
func (q *Queue) publish(status insight.TransactionStatus) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.last[status.ID] = status
	for _, sub := range q.subs[status.ID] {
		select {
		case sub.c <- status:
		default:
		}
	}

	if terminal(status.State) {
		for _, sub := range q.subs[status.ID] {
			sub.shutdown()
		}
		delete(q.subs, status.ID)
	}
}

func terminal(state string) bool {
	switch state {
	case insight.TransactionDone, insight.TransactionCancelled, insight.TransactionFailed:
		return true
	}
	return false
}

type subscription struct {
	q  *Queue
	id string

	c      chan insight.TransactionStatus
	closed bool
}

func (s *subscription) C() <-chan insight.TransactionStatus { return s.c }

// Close detaches the subscription from the queue.
func (s *subscription) Close() error {
	s.q.mu.Lock()
	defer s.q.mu.Unlock()

	subs := s.q.subs[s.id]
	for i, sub := range subs {
		if sub == s {
			s.q.subs[s.id] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	s.shutdown()
	return nil
}

// shutdown closes the channel once. Callers hold q.mu.
func (s *subscription) shutdown() {
	if !s.closed {
		s.closed = true
		close(s.c)
	}
}
