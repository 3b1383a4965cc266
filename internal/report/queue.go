// Package report collects non-fatal startup errors for a single summary.
//
// Plugin imports may fail without aborting the program. Each failure is
// logged as it happens and queued here, so that the end of the startup
// sequence can present all of them at once instead of only the first.
package report

import (
	"context"
	"fmt"

	"github.com/cernml/geoff/internal/ctxlog"
)

// Entry is one recorded failure with the context it occurred in.
type Entry struct {
	// Context describes what was being attempted, e.g. "could not load
	// 'sps_blowup' plugin".
	Context string
	// Err is the underlying failure.
	Err error
}

func (e Entry) String() string {
	if e.Context == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Context, e.Err)
}

// Queue accumulates failures in arrival order. It is not safe for
// concurrent use; the import phase is single-threaded.
type Queue struct {
	entries []Entry
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Append logs the failure and records it for the final summary. The
// context message describes the attempted operation.
func (q *Queue) Append(ctx context.Context, err error, contextMsg string) {
	logger := ctxlog.FromContext(ctx)
	logger.Error("Recorded startup failure.", "context", contextMsg, "error", err)
	q.entries = append(q.entries, Entry{Context: contextMsg, Err: err})
}

// Len returns the number of recorded failures.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Entries returns the recorded failures in arrival order.
func (q *Queue) Entries() []Entry {
	return q.entries
}

// Summarize renders the first failure, annotated with how many more
// followed it. It returns the empty string when nothing was recorded.
func (q *Queue) Summarize() string {
	switch len(q.entries) {
	case 0:
		return ""
	case 1:
		return q.entries[0].String()
	default:
		return fmt.Sprintf("%s (+%d more)", q.entries[0], len(q.entries)-1)
	}
}
