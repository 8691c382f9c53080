package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/crossjudge/internal/adapters/mq/queue"
	"github.com/okian/crossjudge/internal/adapters/mq/worker"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeWarmer struct {
	mu    sync.Mutex
	texts []string
	fail  map[string]bool
	block chan struct{}
}

func (f *fakeWarmer) Warm(ctx context.Context, texts []string) error {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range texts {
		if f.fail[t] {
			return errors.New("embedding backend down")
		}
	}
	f.texts = append(f.texts, texts...)
	return nil
}

func (f *fakeWarmer) warmed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestPool(t *testing.T) {
	Convey("Given a pool of warmup workers", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		Reset(cancel)

		q := queue.NewInMemoryQueue(queue.WithCapacity(64))
		warmer := &fakeWarmer{fail: map[string]bool{"broken": true}}

		var (
			failMu sync.Mutex
			failed []string
		)
		p := worker.NewPool(3, q, warmer, worker.WithFailureHandler(func(_ context.Context, j worker.Job, _ error) {
			failMu.Lock()
			failed = append(failed, j.ID)
			failMu.Unlock()
		}))
		So(p.Size(), ShouldEqual, 3)
		p.Start(ctx)

		Convey("When jobs are enqueued", func() {
			for i := range 10 {
				So(q.Enqueue(ctx, queue.Job{ID: fmt.Sprintf("job-%d", i), Texts: []string{fmt.Sprintf("t%d", i), "x"}}), ShouldBeNil)
			}
			So(q.Enqueue(ctx, queue.Job{ID: "bad", Texts: []string{"broken"}}), ShouldBeNil)

			Convey("Then every healthy text is warmed and the failure is reported", func() {
				So(eventually(func() bool { return warmer.warmed() == 20 }), ShouldBeTrue)
				So(eventually(func() bool {
					failMu.Lock()
					defer failMu.Unlock()
					return len(failed) == 1
				}), ShouldBeTrue)
				So(failed, ShouldResemble, []string{"bad"})
			})

			Convey("Then shutdown drains and closes the queue", func() {
				So(p.Shutdown(context.Background()), ShouldBeNil)
				So(q.IsClosed(), ShouldBeTrue)
				So(warmer.warmed(), ShouldEqual, 20)
			})
		})
	})
}

func TestWorker_JobTimeout(t *testing.T) {
	Convey("Given a worker whose warmer hangs", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		Reset(cancel)

		q := queue.NewInMemoryQueue()
		warmer := &fakeWarmer{block: make(chan struct{})}
		errs := make(chan error, 1)
		w := worker.NewInMemoryWorker(q, warmer,
			worker.WithJobTimeout(20*time.Millisecond),
			worker.WithFailureHandler(func(_ context.Context, _ worker.Job, err error) { errs <- err }))
		go w.Run(ctx)

		So(q.Enqueue(ctx, queue.Job{ID: "slow", Texts: []string{"a"}}), ShouldBeNil)

		Convey("Then the job is cut off by its deadline", func() {
			select {
			case err := <-errs:
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			case <-time.After(2 * time.Second):
				So("no failure reported", ShouldBeEmpty)
			}
		})

		Convey("Then shutdown returns once the loop exits", func() {
			So(w.Shutdown(context.Background()), ShouldBeNil)
			So(w.Shutdown(context.Background()), ShouldBeNil)
			select {
			case <-w.Done():
			default:
				So("worker still running", ShouldBeEmpty)
			}
		})
	})
}
