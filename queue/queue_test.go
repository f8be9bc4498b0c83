package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/insightdash/insight"
	"github.com/insightdash/insight/queue"
)

// drain reads updates until the subscription closes and returns the
// observed states in order.
func drain(t *testing.T, sub insight.Subscription) []insight.TransactionStatus {
	t.Helper()

	var out []insight.TransactionStatus
	timeout := time.After(5 * time.Second)
	for {
		select {
		case status, ok := <-sub.C():
			if !ok {
				return out
			}
			out = append(out, status)
		case <-timeout:
			t.Fatalf("subscription never closed, got %+v", out)
		}
	}
}

func TestPublishAssignsUniqueIDs(t *testing.T) {
	q := queue.New(func(context.Context, *insight.Transaction, func(float64, string)) error { return nil })
	defer q.Close()

	a, b := &insight.Transaction{}, &insight.Transaction{}
	if err := q.Publish(a); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := q.Publish(b); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids not unique: %q %q", a.ID, b.ID)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	release := make(chan struct{})
	q := queue.New(func(ctx context.Context, tr *insight.Transaction, report func(float64, string)) error {
		<-release
		report(0.5, "halfway")
		return nil
	})
	defer q.Close()

	tr := &insight.Transaction{}
	if err := q.Publish(tr); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	sub, err := q.Subscribe(context.Background(), tr.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	close(release)

	statuses := drain(t, sub)
	last := statuses[len(statuses)-1]
	if last.State != insight.TransactionDone || last.Progress != 1 {
		t.Errorf("terminal status = %+v, want Done with progress 1", last)
	}

	var sawHalfway bool
	for _, s := range statuses {
		if s.State == insight.TransactionRunning && s.Message == "halfway" {
			sawHalfway = true
		}
	}
	if !sawHalfway {
		t.Errorf("progress report missing from %+v", statuses)
	}
}

func TestFailedTransactionCarriesMessage(t *testing.T) {
	q := queue.New(func(context.Context, *insight.Transaction, func(float64, string)) error {
		return insight.Errorf(insight.EINTERNAL, "generator blew up")
	})
	defer q.Close()

	tr := &insight.Transaction{}
	if err := q.Publish(tr); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	sub, err := q.Subscribe(context.Background(), tr.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	statuses := drain(t, sub)
	last := statuses[len(statuses)-1]
	if last.State != insight.TransactionFailed {
		t.Fatalf("terminal state = %s, want Failed", last.State)
	}
	if last.Message != "generator blew up" {
		t.Errorf("message = %q", last.Message)
	}
}

func TestCancelledTransaction(t *testing.T) {
	started := make(chan struct{})
	q := queue.New(func(ctx context.Context, tr *insight.Transaction, report func(float64, string)) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	tr := &insight.Transaction{Ctx: ctx}
	if err := q.Publish(tr); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	sub, err := q.Subscribe(context.Background(), tr.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	<-started
	cancel()

	statuses := drain(t, sub)
	if last := statuses[len(statuses)-1]; last.State != insight.TransactionCancelled {
		t.Errorf("terminal state = %s, want Cancelled", last.State)
	}
}

func TestSubscribeUnknownTransaction(t *testing.T) {
	q := queue.New(func(context.Context, *insight.Transaction, func(float64, string)) error { return nil })
	defer q.Close()

	_, err := q.Subscribe(context.Background(), "no-such-id")
	if insight.ErrorCode(err) != insight.ENOTFOUND {
		t.Errorf("error code = %s, want ENOTFOUND", insight.ErrorCode(err))
	}
}

// A late subscriber still learns the outcome: the terminal status is
// replayed and the channel closes immediately.
func TestSubscribeAfterCompletion(t *testing.T) {
	q := queue.New(func(context.Context, *insight.Transaction, func(float64, string)) error { return nil })
	defer q.Close()

	tr := &insight.Transaction{}
	if err := q.Publish(tr); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// wait for the worker to finish the job.
	first, err := q.Subscribe(context.Background(), tr.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	drain(t, first)

	late, err := q.Subscribe(context.Background(), tr.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	statuses := drain(t, late)
	if len(statuses) != 1 || statuses[0].State != insight.TransactionDone {
		t.Errorf("late subscriber got %+v, want single Done", statuses)
	}
}

func TestCloseIdempotentAndRejectsPublish(t *testing.T) {
	q := queue.New(func(context.Context, *insight.Transaction, func(float64, string)) error { return nil })

	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	tr := &insight.Transaction{}
	err := q.Publish(tr)
	if insight.ErrorCode(err) != insight.EINVALID {
		t.Errorf("publish after close: code = %s, want EINVALID", insight.ErrorCode(err))
	}
	// a rejected publish leaves the transaction untouched.
	if tr.ID != "" {
		t.Errorf("rejected publish assigned id %q", tr.ID)
	}
}

// Publish racing Close either lands the job or reports the queue closed,
// it never panics on a closed channel.
func TestPublishCloseRace(t *testing.T) {
	q := queue.New(func(context.Context, *insight.Transaction, func(float64, string)) error { return nil })

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if err := q.Publish(&insight.Transaction{}); err != nil {
					if insight.ErrorCode(err) != insight.EINVALID {
						t.Errorf("publish: code = %s, want EINVALID", insight.ErrorCode(err))
					}
					return
				}
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	wg.Wait()
}

func TestSubscriptionCloseDetaches(t *testing.T) {
	release := make(chan struct{})
	q := queue.New(func(ctx context.Context, tr *insight.Transaction, report func(float64, string)) error {
		<-release
		return nil
	})
	defer q.Close()

	tr := &insight.Transaction{}
	if err := q.Publish(tr); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	sub, err := q.Subscribe(context.Background(), tr.ID)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := sub.Close(); err != nil {
		t.Fatalf("subscription Close: %v", err)
	}
	close(release)

	// the channel is closed, reads never block.
	if _, ok := <-sub.C(); ok {
		// a buffered replay may still be pending, but the channel must
		// drain to closed.
		for range sub.C() {
		}
	}
}
