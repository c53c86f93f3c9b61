package executor

import (
	"context"
	"time"
)

// Result is the outcome of one invoked action. It carries no identity
// beyond the invocation that produced it.
type Result struct {
	Success bool
	Elapsed time.Duration
}

// Options control how a single action is invoked.
type Options struct {
	// Silent suppresses the action's own output from the operator's
	// view. The action still runs to completion either way.
	Silent bool
}

// Executor runs one external action to completion and folds any
// failure into the returned Result. Implementations block until the
// action finishes, measure wall-clock duration around the invocation,
// and never propagate a failure as an error: a nonzero exit, a broken
// connection or a deadline all come back as Success=false.
type Executor interface {
	Execute(ctx context.Context, action, description string, opts Options) Result
}
