// Package workflow recognizes GitHub Actions YAML documents and extracts the shell scripts of their steps.
// A document is either a workflow (`jobs: {...}`) or a composite action (`runs: {steps: [...]}`).
// Anything else is rejected with ErrUnsupportedDocument, and YAML that can't be parsed
// at all is rejected with ErrYAMLSyntax so that callers can treat the two differently.
package workflow

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

var (
	ErrYAMLSyntax          = errors.New("invalid YAML syntax")
	ErrUnsupportedDocument = errors.New("unsupported YAML document")
)

// Kind is the kind of a GitHub Actions YAML document.
type Kind int

const (
	KindWorkflow Kind = iota + 1
	KindAction
)

func (k Kind) String() string {
	switch k {
	case KindWorkflow:
		return "workflow"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "workflow":
		*k = KindWorkflow
	case "action":
		*k = KindAction
	default:
		return fmt.Errorf("unknown kind: %s", string(b))
	}
	return nil
}

// Document is a resolved GitHub Actions YAML document.
// It's implemented by *Workflow and *Action.
type Document interface {
	Kind() Kind
	// Snippets returns the shell scripts of the document in the order they appear.
	// The sequence can be iterated more than once.
	Snippets() iter.Seq[*Snippet]
}

// File is a YAML file whose syntax has been validated.
type File struct {
	Path    string
	ast     *ast.File
	lines   []string
	anchors map[string][]*ast.AnchorNode
}

// Parse parses content as YAML.
// It returns an error wrapping ErrYAMLSyntax if content isn't valid YAML.
func Parse(path string, content []byte) (*File, error) {
	f, err := parser.ParseBytes(content, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrYAMLSyntax, err)
	}
	collector := collectAnchors(f)
	file := &File{
		Path:    path,
		ast:     f,
		lines:   strings.Split(string(content), "\n"),
		anchors: collector.anchors,
	}
	for _, alias := range collector.aliases {
		if file.alias(alias) == nil {
			return nil, fmt.Errorf("%w: undefined alias: %s", ErrYAMLSyntax, alias.String())
		}
	}
	return file, nil
}

func (f *File) body() ast.Node {
	if f.ast == nil {
		return nil
	}
	for _, doc := range f.ast.Docs {
		if doc != nil && doc.Body != nil {
			return doc.Body
		}
	}
	return nil
}

// Step is a step of a job or a composite action.
type Step struct {
	// Index is the zero-based position of the step in its job or action.
	Index int
	ID    string
	Uses  string
	Run   string
	Shell string

	location scriptLocation
}

type Job struct {
	ID    string
	Steps []*Step
}

// Workflow is a document having `jobs`.
type Workflow struct {
	Path string
	Jobs []*Job
}

func (w *Workflow) Kind() Kind {
	return KindWorkflow
}

func (w *Workflow) Snippets() iter.Seq[*Snippet] {
	return func(yield func(*Snippet) bool) {
		for _, job := range w.Jobs {
			for _, step := range job.Steps {
				s := newSnippet(w.Path, KindWorkflow, job.ID, step)
				if s == nil {
					continue
				}
				if !yield(s) {
					return
				}
			}
		}
	}
}

// Action is a composite action, a document having `runs`.
type Action struct {
	Path  string
	Steps []*Step
}

func (a *Action) Kind() Kind {
	return KindAction
}

func (a *Action) Snippets() iter.Seq[*Snippet] {
	return func(yield func(*Snippet) bool) {
		for _, step := range a.Steps {
			s := newSnippet(a.Path, KindAction, "", step)
			if s == nil {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Resolve validates the first document of the file as a workflow or a composite action.
// `jobs` takes precedence over `runs`.
// It returns an error wrapping ErrUnsupportedDocument if the document is neither.
func Resolve(file *File) (Document, error) {
	values, ok := file.mappingValues(file.body())
	if !ok {
		return nil, fmt.Errorf("%w: the document must be a mapping", ErrUnsupportedDocument)
	}
	if jobs := findNodeByKey(values, "jobs"); jobs != nil {
		return file.resolveWorkflow(jobs)
	}
	if runs := findNodeByKey(values, "runs"); runs != nil {
		return file.resolveAction(runs)
	}
	return nil, fmt.Errorf("%w: the YAML file should contain either 'jobs' or 'runs'", ErrUnsupportedDocument)
}

func (f *File) resolveWorkflow(jobsNode *ast.MappingValueNode) (*Workflow, error) {
	// jobs:
	//   <job_id>:
	//     steps:
	values, ok := f.mappingValues(jobsNode.Value)
	if !ok {
		return nil, fmt.Errorf("%w: jobs must be a mapping", ErrUnsupportedDocument)
	}
	wf := &Workflow{
		Path: f.Path,
		Jobs: make([]*Job, 0, len(values)),
	}
	for _, value := range values {
		jobID := keyName(value)
		jobValues, ok := f.mappingValues(value.Value)
		if !ok {
			return nil, fmt.Errorf("%w: jobs.%s must be a mapping", ErrUnsupportedDocument, jobID)
		}
		steps, err := f.resolveSteps(findNodeByKey(jobValues, "steps"), "jobs."+jobID+".steps")
		if err != nil {
			return nil, err
		}
		wf.Jobs = append(wf.Jobs, &Job{
			ID:    jobID,
			Steps: steps,
		})
	}
	return wf, nil
}

func (f *File) resolveAction(runsNode *ast.MappingValueNode) (*Action, error) {
	// runs:
	//   using: composite
	//   steps:
	values, ok := f.mappingValues(runsNode.Value)
	if !ok {
		return nil, fmt.Errorf("%w: runs must be a mapping", ErrUnsupportedDocument)
	}
	steps, err := f.resolveSteps(findNodeByKey(values, "steps"), "runs.steps")
	if err != nil {
		return nil, err
	}
	return &Action{
		Path:  f.Path,
		Steps: steps,
	}, nil
}

func (f *File) resolveSteps(stepsNode *ast.MappingValueNode, path string) ([]*Step, error) {
	if stepsNode == nil || f.isNull(stepsNode.Value) {
		return nil, nil
	}
	seq, ok := f.unwrap(stepsNode.Value).(*ast.SequenceNode)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a sequence", ErrUnsupportedDocument, path)
	}
	steps := make([]*Step, 0, len(seq.Values))
	for i, node := range seq.Values {
		step, err := f.resolveStep(node, i)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %w", ErrUnsupportedDocument, path, i, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (f *File) resolveStep(node ast.Node, index int) (*Step, error) {
	values, ok := f.mappingValues(node)
	if !ok {
		return nil, errors.New("a step must be a mapping")
	}
	step := &Step{
		Index: index,
	}
	fields := []struct {
		key string
		dst *string
	}{
		{key: "id", dst: &step.ID},
		{key: "uses", dst: &step.Uses},
		{key: "run", dst: &step.Run},
		{key: "shell", dst: &step.Shell},
	}
	for _, field := range fields {
		value := findNodeByKey(values, field.key)
		if value == nil {
			continue
		}
		s, ok := f.scalar(value.Value)
		if !ok {
			return nil, fmt.Errorf("%s must be a scalar", field.key)
		}
		*field.dst = s
		if field.key == "run" {
			step.location = f.scriptLocation(value.Value, s)
		}
	}
	return step, nil
}
