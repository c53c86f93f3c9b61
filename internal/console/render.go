// Package console renders run reports and drives the interactive
// operator loop.
package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/haatos/deckhand/internal/engine"
	"github.com/haatos/deckhand/internal/executor"
	"github.com/haatos/deckhand/internal/status"
)

var (
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Renderer writes human-readable report output.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func verdict(success bool) string {
	if success {
		return passStyle.Render("PASS")
	}
	return failStyle.Render("FAIL")
}

func elapsed(d time.Duration) string {
	return dimStyle.Render(d.Round(time.Millisecond).String())
}

// PipelineResult prints the aggregate outcome of a pipeline run.
func (r *Renderer) PipelineResult(key string, res executor.Result) {
	fmt.Fprintf(r.out, "%s  %s  %s\n", verdict(res.Success), key, elapsed(res.Elapsed))
}

// WorkflowReport prints per-step outcomes, the overall verdict and,
// when present, the deployment-status label.
func (r *Renderer) WorkflowReport(report engine.Report) {
	for _, step := range report.Steps {
		line := fmt.Sprintf("  %s  %s (%s)  %s",
			verdict(step.Success),
			step.Name,
			step.Kind,
			elapsed(step.Elapsed),
		)
		if !step.Success && !step.Fatal {
			line += "  " + warnStyle.Render("non-fatal")
		}
		fmt.Fprintln(r.out, line)
	}

	fmt.Fprintf(r.out, "%s  %s  %s\n", verdict(report.Success), report.Key, elapsed(report.Elapsed))

	if report.Status != "" {
		r.StatusLabel(report.Status)
	}
}

// StatusLabel prints a deployment-status label on its own line.
func (r *Renderer) StatusLabel(label status.Label) {
	fmt.Fprintf(r.out, "deployment status: %s\n", labelStyle.Render(label.String()))
}

// Keys prints the available pipeline and workflow keys.
func (r *Renderer) Keys(pipelines, workflows []string) {
	fmt.Fprintf(r.out, "pipelines:  %s\n", strings.Join(pipelines, ", "))
	fmt.Fprintf(r.out, "workflows:  %s\n", strings.Join(workflows, ", "))
}
