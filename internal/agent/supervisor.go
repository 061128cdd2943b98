package agent

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Supervisor executes one handler invocation under a time budget. The
// handler runs on its own goroutine while the caller blocks up to the
// deadline; this is the only concurrency in the system.
type Supervisor struct {
	// KillOnTimeout cancels the worker's context when the deadline
	// passes. Cancellation is cooperative and best-effort: a handler
	// that never checks its context keeps running, and its eventual
	// result is discarded either way.
	KillOnTimeout bool
	Log           *logrus.Entry
}

type outcome struct {
	result string
	err    error
}

// Run starts fn on a worker goroutine and waits up to deadline for it
// to finish. A deadline of zero or less means wait indefinitely.
//
// ok is false only when the deadline passed and the worker was
// abandoned. A failure returned by fn before the deadline is re-raised
// to the caller, never swallowed.
func (s *Supervisor) Run(ctx context.Context, deadline time.Duration, fn func(context.Context) (string, error)) (result string, ok bool, err error) {
	workerCtx, cancel := context.WithCancel(ctx)

	done := make(chan outcome, 1)
	go func() {
		r, e := fn(workerCtx)
		done <- outcome{result: r, err: e}
	}()

	if deadline <= 0 {
		o := <-done
		cancel()
		return o.result, o.err == nil, o.err
	}

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case o := <-done:
		cancel()
		return o.result, o.err == nil, o.err
	case <-timer.C:
		s.Log.WithField("deadline", deadline).Warn("action timed out")
		if s.KillOnTimeout {
			cancel()
			s.Log.Warn("cancelled the overrunning action")
		} else {
			// The worker is abandoned: it keeps its context and runs to
			// completion, writing into the buffered channel nobody reads.
			// Release the child context's registration on the parent once
			// it does, so a long-running session doesn't accumulate one
			// per timed-out action.
			go func() {
				<-done
				cancel()
			}()
		}
		return "", false, nil
	}
}
