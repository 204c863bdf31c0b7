package workflow

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Position is a 1-based location in a YAML file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Snippet is the shell script of a step and where it comes from.
type Snippet struct {
	Path      string `json:"path"`
	Kind      Kind   `json:"kind"`
	JobID     string `json:"job_id,omitempty"`
	StepID    string `json:"step_id,omitempty"`
	StepIndex int    `json:"step_index"`
	Script    string `json:"script"`
	// Shell is the shell declared by the step. It's empty if the step doesn't declare it.
	Shell     string   `json:"shell,omitempty"`
	CodeLines []string `json:"-"`
	// Position is where the first line of the script starts in the YAML file.
	Position Position `json:"position"`
	Block    bool     `json:"-"`
	// SourceLines is the YAML line of each line of a folded block scalar.
	SourceLines []int `json:"-"`
}

func newSnippet(path string, kind Kind, jobID string, step *Step) *Snippet {
	if strings.TrimSpace(step.Run) == "" {
		return nil
	}
	return &Snippet{
		Path:        path,
		Kind:        kind,
		JobID:       jobID,
		StepID:      step.ID,
		StepIndex:   step.Index,
		Script:      step.Run,
		Shell:       step.Shell,
		CodeLines:   splitLines(step.Run),
		Position:    step.location.position,
		Block:       step.location.block,
		SourceLines: step.location.lines,
	}
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Location returns the path of the step in the document, e.g. `jobs.build.steps[0]`.
func (s *Snippet) Location() string {
	if s.Kind == KindAction {
		return fmt.Sprintf("runs.steps[%d]", s.StepIndex)
	}
	return fmt.Sprintf("jobs.%s.steps[%d]", s.JobID, s.StepIndex)
}

func (s *Snippet) String() string {
	return s.Path + ":" + s.Location()
}

// EffectiveShell returns the declared shell or defaultShell.
func (s *Snippet) EffectiveShell(defaultShell string) string {
	if s.Shell != "" {
		return s.Shell
	}
	return defaultShell
}

// Lines returns the lines between start and end (1-based, inclusive).
// The range is clamped to the script, so the result isn't empty as long as the script has a line.
func (s *Snippet) Lines(start, end int) []string {
	n := len(s.CodeLines)
	if n == 0 {
		return nil
	}
	start = min(max(start, 1), n)
	end = min(max(end, start), n)
	return s.CodeLines[start-1 : end]
}

// SourceLine converts a 1-based line of the script to the line of the YAML file.
// Lines of a flow scalar are folded, so they're all mapped to the first line.
func (s *Snippet) SourceLine(line int) int {
	if s.Position.Line == 0 {
		return line
	}
	if line >= 1 && line <= len(s.SourceLines) {
		return s.SourceLines[line-1]
	}
	if !s.Block {
		return s.Position.Line
	}
	return s.Position.Line + line - 1
}

// SourceColumn converts a 1-based column of the script to the column of the YAML file.
// Only the first line of a flow scalar is shifted.
func (s *Snippet) SourceColumn(line, column int) int {
	if s.Position.Column == 0 {
		return column
	}
	if s.Block || line == 1 {
		return s.Position.Column + column - 1
	}
	return column
}

// RelPath returns the path of the YAML file relative to base.
// It returns the path as is if it can't be made relative.
func (s *Snippet) RelPath(base string) string {
	if base == "" {
		return s.Path
	}
	p, err := filepath.Rel(base, s.Path)
	if err != nil {
		return s.Path
	}
	return filepath.ToSlash(p)
}
