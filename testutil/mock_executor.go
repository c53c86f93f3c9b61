package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/haatos/deckhand/internal/executor"
)

// ScriptedExecutor replays canned results keyed by description and
// records every invocation in order. Unknown descriptions succeed.
type ScriptedExecutor struct {
	mu       sync.Mutex
	results  map[string]executor.Result
	Invoked  []string
	Silenced map[string]bool
}

func NewScriptedExecutor() *ScriptedExecutor {
	return &ScriptedExecutor{
		results:  make(map[string]executor.Result),
		Silenced: make(map[string]bool),
	}
}

// Fail scripts a failing result for the given description.
func (s *ScriptedExecutor) Fail(description string) *ScriptedExecutor {
	s.results[description] = executor.Result{Success: false, Elapsed: time.Millisecond}
	return s
}

// Pass scripts a passing result for the given description.
func (s *ScriptedExecutor) Pass(description string) *ScriptedExecutor {
	s.results[description] = executor.Result{Success: true, Elapsed: time.Millisecond}
	return s
}

func (s *ScriptedExecutor) Execute(
	ctx context.Context,
	action, description string,
	opts executor.Options,
) executor.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Invoked = append(s.Invoked, description)
	s.Silenced[description] = opts.Silent

	if res, ok := s.results[description]; ok {
		return res
	}
	return executor.Result{Success: true, Elapsed: time.Millisecond}
}
