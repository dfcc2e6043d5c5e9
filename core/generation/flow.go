package generation

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/llamalearn/llamalearn/core"
)

// Flow states: idle -> streaming -> succeeded | failed. A failed flow can
// return to idle through Reset for a user retry; success is terminal for
// the submission.
type State int

const (
	StateIdle State = iota
	StateStreaming
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

var (
	ErrIncomplete = errors.New("generation stream ended before all stages completed")
	ErrNotIdle    = errors.New("generation flow already consumed")
)

// Flow drives one course-generation submission: it consumes records in
// arrival order, folds them into a Progress, captures the course id as soon
// as it is seen, and transitions to success only after all three stages
// complete, following a short reveal delay. Any transport error, premature
// end of stream or context cancellation fails the flow; partial progress is
// discarded on Reset, never resumed.
//
// A Flow is owned by a single goroutine. Tearing the owner down cancels the
// context, which both aborts the delay and (through the transport closing
// the body) unblocks the decoder, so no state is mutated after the owner is
// gone.
type Flow struct {
	log         core.Logger
	onUpdate    func(*Progress)
	revealDelay time.Duration
	sleep       func(context.Context, time.Duration) error // mockable

	state    State
	progress *Progress
	courseID string
}

func NewFlow(log core.Logger, revealDelay time.Duration, onUpdate func(*Progress)) *Flow {
	return &Flow{
		log:         log,
		onUpdate:    onUpdate,
		revealDelay: revealDelay,
		sleep:       sleepCtx,
		state:       StateIdle,
		progress:    NewProgress(),
	}
}

func (f *Flow) State() State        { return f.state }
func (f *Flow) Progress() *Progress { return f.progress }

// CourseID is the identifier captured from the stream, needed to navigate
// to the finished course. Empty until the stream has reported it.
func (f *Flow) CourseID() string { return f.courseID }

// Run consumes the stream to completion. It returns nil exactly when the
// flow reached success; every non-nil return leaves the flow failed.
func (f *Flow) Run(ctx context.Context, dec Decoder) error {
	if f.state != StateIdle {
		return ErrNotIdle
	}
	f.state = StateStreaming

	for {
		if err := ctx.Err(); err != nil {
			return f.fail(err)
		}

		rec, err := dec.Next()
		if err == io.EOF {
			if f.progress.Done() {
				return f.succeed(ctx)
			}
			return f.fail(ErrIncomplete)
		}
		if err != nil {
			return f.fail(err)
		}

		if rec.CourseID != "" {
			if f.courseID == "" {
				f.courseID = rec.CourseID
			} else if f.courseID != rec.CourseID {
				f.log.Warn("stream reported a different course id; keeping the first", f.courseID, rec.CourseID)
			}
		}

		f.progress.Apply(rec)
		if f.onUpdate != nil {
			f.onUpdate(f.progress)
		}

		if f.progress.Done() {
			return f.succeed(ctx)
		}
	}
}

// Reset returns a failed flow to idle for a retry, discarding partial
// progress. Resetting a succeeded or streaming flow is a no-op.
func (f *Flow) Reset() {
	if f.state != StateFailed {
		return
	}
	f.state = StateIdle
	f.progress = NewProgress()
	f.courseID = ""
}

// succeed holds the in-progress display for the reveal delay before
// reporting success, so the transition is not an abrupt jump.
func (f *Flow) succeed(ctx context.Context) error {
	if err := f.sleep(ctx, f.revealDelay); err != nil {
		return f.fail(err)
	}
	f.state = StateSucceeded
	return nil
}

func (f *Flow) fail(err error) error {
	f.state = StateFailed
	f.log.Warn("course generation aborted", err)
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
