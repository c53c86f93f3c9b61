package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/haatos/deckhand/internal/engine"
	"github.com/haatos/deckhand/internal/registry"
	"github.com/haatos/deckhand/internal/status"
)

// Loop is the interactive operator mode: one blocking line read at a
// time, each line either a registry key or a built-in command.
type Loop struct {
	registry *registry.Registry
	engine   *engine.Engine
	source   engine.StatusSource
	renderer *Renderer

	in  io.Reader
	out io.Writer
}

func NewLoop(
	reg *registry.Registry,
	eng *engine.Engine,
	source engine.StatusSource,
	in io.Reader,
	out io.Writer,
) *Loop {
	return &Loop{
		registry: reg,
		engine:   eng,
		source:   source,
		renderer: NewRenderer(out),
		in:       in,
		out:      out,
	}
}

// Run reads operator commands until quit or EOF. It returns nil
// regardless of individual run outcomes; the operator sees those
// inline and decides what to do next.
func (l *Loop) Run(ctx context.Context) error {
	l.renderer.Keys(l.registry.PipelineKeys(), l.registry.WorkflowKeys())
	fmt.Fprintln(l.out, `type a key to run it, "status", "list", or "quit"`)

	scanner := bufio.NewScanner(l.in)
	for {
		fmt.Fprint(l.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(l.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit", "q":
			return nil
		case "help":
			l.renderer.Keys(l.registry.PipelineKeys(), l.registry.WorkflowKeys())
			fmt.Fprintln(l.out, `commands: <key>, status, list, help, quit`)
		case "list":
			l.renderer.Keys(l.registry.PipelineKeys(), l.registry.WorkflowKeys())
		case "status":
			if l.source == nil {
				fmt.Fprintln(l.out, "no deployment platform configured")
				continue
			}
			l.renderer.StatusLabel(status.Reconcile(l.source.Collect(ctx)))
		default:
			l.runKey(ctx, line)
		}
	}
}

// RunKey executes the named workflow or pipeline and renders its
// report. It reports false when the run failed.
func (l *Loop) RunKey(ctx context.Context, key string) (bool, error) {
	report, err := l.engine.RunWorkflow(ctx, key)
	if err == nil {
		l.renderer.WorkflowReport(report)
		return report.Success, nil
	}

	res, perr := l.engine.RunPipeline(ctx, key)
	if perr != nil {
		return false, fmt.Errorf("no pipeline or workflow named %q", key)
	}
	l.renderer.PipelineResult(key, res)
	return res.Success, nil
}

func (l *Loop) runKey(ctx context.Context, key string) {
	if _, err := l.RunKey(ctx, key); err != nil {
		fmt.Fprintln(l.out, err.Error())
	}
}
