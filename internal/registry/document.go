package registry

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Document is the structural representation of a registry file.
type Document struct {
	Pipelines []PipelineDocument `yaml:"pipelines"`
	Workflows []WorkflowDocument `yaml:"workflows"`
}

type PipelineDocument struct {
	Key      string    `yaml:"key"`
	Commands []Command `yaml:"commands"`
}

type WorkflowDocument struct {
	Key         string         `yaml:"key"`
	StatusCheck bool           `yaml:"status_check"`
	Steps       []StepDocument `yaml:"steps"`
}

// StepDocument declares either a pipeline reference or a direct
// command. Fatal is a pointer so that omitting it defaults to true.
type StepDocument struct {
	Pipeline string `yaml:"pipeline"`
	Name     string `yaml:"name"`
	Run      string `yaml:"run"`
	Silent   bool   `yaml:"silent"`
	Fatal    *bool  `yaml:"fatal"`
}

// FromYAML parses a registry document and builds a validated Registry.
func FromYAML(contents []byte) (*Registry, error) {
	var doc Document
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("parsing registry document: %w", err)
	}

	pipelines := make([]Pipeline, 0, len(doc.Pipelines))
	for _, pd := range doc.Pipelines {
		pipelines = append(pipelines, Pipeline{Key: pd.Key, Commands: pd.Commands})
	}

	workflows := make([]Workflow, 0, len(doc.Workflows))
	for _, wd := range doc.Workflows {
		steps := make([]WorkflowStep, 0, len(wd.Steps))
		for _, sd := range wd.Steps {
			steps = append(steps, sd.step())
		}
		workflows = append(workflows, Workflow{
			Key:         wd.Key,
			Steps:       steps,
			StatusCheck: wd.StatusCheck,
		})
	}

	return New(pipelines, workflows)
}

// FromFile parses the registry document at path. Falling back to the
// embedded default document is the caller's concern.
func FromFile(path string) (*Registry, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry file: %w", err)
	}
	return FromYAML(contents)
}

func (sd StepDocument) step() WorkflowStep {
	fatal := true
	if sd.Fatal != nil {
		fatal = *sd.Fatal
	}
	if sd.Pipeline != "" {
		return WorkflowStep{Kind: StepKindPipeline, Pipeline: sd.Pipeline, Fatal: fatal}
	}
	return WorkflowStep{
		Kind:    StepKindCommand,
		Command: Command{Name: sd.Name, Run: sd.Run, Silent: sd.Silent},
		Fatal:   fatal,
	}
}
