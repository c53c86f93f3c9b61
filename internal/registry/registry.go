package registry

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPipeline = errors.New("unknown pipeline key")
	ErrUnknownWorkflow = errors.New("unknown workflow key")
	ErrInvalidRegistry = errors.New("invalid registry")
)

// StepKind tags a workflow step as either a pipeline reference or a
// direct command.
type StepKind string

const (
	StepKindPipeline StepKind = "pipeline"
	StepKindCommand  StepKind = "command"
)

// Command is the leaf unit of work: a named shell action.
type Command struct {
	Name   string `yaml:"name"`
	Run    string `yaml:"run"`
	Silent bool   `yaml:"silent"`
}

// Pipeline is a named, ordered, fail-fast sequence of commands.
type Pipeline struct {
	Key      string
	Commands []Command
}

// WorkflowStep is one unit of work inside a workflow. Kind selects
// which of Pipeline or Command is populated. Fatal defaults to true;
// only explicitly designated best-effort steps carry false.
type WorkflowStep struct {
	Kind     StepKind
	Pipeline string
	Command  Command
	Fatal    bool
}

// Workflow is a named, ordered sequence of steps. StatusCheck marks
// workflows that end with a deployment-status reconciliation.
type Workflow struct {
	Key         string
	Steps       []WorkflowStep
	StatusCheck bool
}

// Registry holds every pipeline and workflow definition. It is built
// once at startup and never mutated afterwards; all lookups are
// against a closed key space validated at construction.
type Registry struct {
	pipelines    map[string]Pipeline
	workflows    map[string]Workflow
	pipelineKeys []string
	workflowKeys []string
}

// New validates the given definitions and builds an immutable
// registry. Declaration order of keys is preserved for listing.
func New(pipelines []Pipeline, workflows []Workflow) (*Registry, error) {
	r := &Registry{
		pipelines: make(map[string]Pipeline, len(pipelines)),
		workflows: make(map[string]Workflow, len(workflows)),
	}

	for _, p := range pipelines {
		if p.Key == "" {
			return nil, fmt.Errorf("%w: pipeline with empty key", ErrInvalidRegistry)
		}
		if len(p.Commands) == 0 {
			return nil, fmt.Errorf("%w: pipeline %q has no commands", ErrInvalidRegistry, p.Key)
		}
		if _, ok := r.pipelines[p.Key]; ok {
			return nil, fmt.Errorf("%w: duplicate pipeline key %q", ErrInvalidRegistry, p.Key)
		}
		for _, c := range p.Commands {
			if c.Run == "" {
				return nil, fmt.Errorf(
					"%w: pipeline %q command %q has no action",
					ErrInvalidRegistry, p.Key, c.Name,
				)
			}
		}
		r.pipelines[p.Key] = p
		r.pipelineKeys = append(r.pipelineKeys, p.Key)
	}

	for _, w := range workflows {
		if w.Key == "" {
			return nil, fmt.Errorf("%w: workflow with empty key", ErrInvalidRegistry)
		}
		if len(w.Steps) == 0 {
			return nil, fmt.Errorf("%w: workflow %q has no steps", ErrInvalidRegistry, w.Key)
		}
		if _, ok := r.workflows[w.Key]; ok {
			return nil, fmt.Errorf("%w: duplicate workflow key %q", ErrInvalidRegistry, w.Key)
		}
		if _, ok := r.pipelines[w.Key]; ok {
			return nil, fmt.Errorf(
				"%w: workflow key %q collides with a pipeline key",
				ErrInvalidRegistry, w.Key,
			)
		}
		for i, s := range w.Steps {
			switch s.Kind {
			case StepKindPipeline:
				if _, ok := r.pipelines[s.Pipeline]; !ok {
					return nil, fmt.Errorf(
						"%w: workflow %q step %d references unknown pipeline %q",
						ErrInvalidRegistry, w.Key, i+1, s.Pipeline,
					)
				}
			case StepKindCommand:
				if s.Command.Run == "" {
					return nil, fmt.Errorf(
						"%w: workflow %q step %d has no action",
						ErrInvalidRegistry, w.Key, i+1,
					)
				}
			default:
				return nil, fmt.Errorf(
					"%w: workflow %q step %d has unknown kind %q",
					ErrInvalidRegistry, w.Key, i+1, s.Kind,
				)
			}
		}
		r.workflows[w.Key] = w
		r.workflowKeys = append(r.workflowKeys, w.Key)
	}

	return r, nil
}

func (r *Registry) Pipeline(key string) (Pipeline, error) {
	p, ok := r.pipelines[key]
	if !ok {
		return Pipeline{}, fmt.Errorf("%w: %q", ErrUnknownPipeline, key)
	}
	return p, nil
}

func (r *Registry) Workflow(key string) (Workflow, error) {
	w, ok := r.workflows[key]
	if !ok {
		return Workflow{}, fmt.Errorf("%w: %q", ErrUnknownWorkflow, key)
	}
	return w, nil
}

// HasKey reports whether key names either a pipeline or a workflow.
func (r *Registry) HasKey(key string) bool {
	if _, ok := r.pipelines[key]; ok {
		return true
	}
	_, ok := r.workflows[key]
	return ok
}

// PipelineKeys returns pipeline keys in declaration order.
func (r *Registry) PipelineKeys() []string {
	keys := make([]string, len(r.pipelineKeys))
	copy(keys, r.pipelineKeys)
	return keys
}

// WorkflowKeys returns workflow keys in declaration order.
func (r *Registry) WorkflowKeys() []string {
	keys := make([]string, len(r.workflowKeys))
	copy(keys, r.workflowKeys)
	return keys
}
