package executor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Shell runs actions through `sh -c` against the local environment.
type Shell struct {
	// Timeout bounds a single action; zero means no bound.
	Timeout time.Duration
	// Stdout/Stderr receive the action's output when not silent.
	// They default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	logger *slog.Logger
}

func NewShell(timeout time.Duration, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Shell{
		Timeout: timeout,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		logger:  logger,
	}
}

func (s *Shell) Execute(ctx context.Context, action, description string, opts Options) Result {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	s.logger.Info("running", "step", description)
	started := time.Now()

	cmd := exec.CommandContext(ctx, "sh", "-c", action)
	if !opts.Silent {
		cmd.Stdout = s.Stdout
		cmd.Stderr = s.Stderr
	}
	cmd.Stdin = os.Stdin

	err := cmd.Run()
	elapsed := time.Since(started)

	if err != nil {
		s.logger.Error("step failed",
			"step", description,
			"elapsed", elapsed.Round(time.Millisecond),
			"error", err,
		)
		return Result{Success: false, Elapsed: elapsed}
	}

	s.logger.Info("step passed",
		"step", description,
		"elapsed", elapsed.Round(time.Millisecond),
	)
	return Result{Success: true, Elapsed: elapsed}
}
