package run

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/shellcheck"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/workflow"
)

func newTestFinding() *Finding {
	return &Finding{
		Snippet: &workflow.Snippet{
			Path:      ".github/workflows/test.yaml",
			Kind:      workflow.KindWorkflow,
			JobID:     "build",
			StepIndex: 1,
			Script:    "echo $FOO\n",
			CodeLines: []string{"echo $FOO"},
			Position:  workflow.Position{Line: 8, Column: 11},
			Block:     true,
		},
		Comments: []*shellcheck.Comment{
			{
				File:      "-",
				Line:      1,
				EndLine:   1,
				Column:    6,
				EndColumn: 10,
				Level:     shellcheck.LevelInfo,
				Code:      2086,
				Message:   "Double quote to prevent globbing and word splitting.",
			},
		},
	}
}

func Test_sanitize(t *testing.T) {
	t.Parallel()
	data := []struct {
		name string
		s    string
		exp  string
	}{
		{
			name: "plain",
			s:    "echo $FOO",
			exp:  "echo $FOO",
		},
		{
			name: "escape sequence",
			s:    "\x1b[31mred\x1b[0m",
			exp:  "[31mred[0m",
		},
		{
			name: "control characters",
			s:    "a\tb\rc\x7fd\ne",
			exp:  "abcde",
		},
		{
			name: "multibyte",
			s:    "echo こんにちは",
			exp:  "echo こんにちは",
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			if s := sanitize(d.s); s != d.exp {
				t.Fatalf("wanted %q, got %q", d.exp, s)
			}
		})
	}
}

func Test_underline(t *testing.T) {
	t.Parallel()
	data := []struct {
		name    string
		comment *shellcheck.Comment
		exp     string
	}{
		{
			name:    "range",
			comment: &shellcheck.Comment{Line: 1, EndLine: 1, Column: 6, EndColumn: 10},
			exp:     "     ^^^^",
		},
		{
			name:    "first column",
			comment: &shellcheck.Comment{Line: 1, EndLine: 1, Column: 1, EndColumn: 2},
			exp:     "^",
		},
		{
			name:    "empty range",
			comment: &shellcheck.Comment{Line: 2, EndLine: 2, Column: 3, EndColumn: 3},
			exp:     "  ^",
		},
		{
			name:    "multiple lines",
			comment: &shellcheck.Comment{Line: 1, EndLine: 3, Column: 2, EndColumn: 10},
			exp:     " ^",
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			if s := underline(d.comment); s != d.exp {
				t.Fatalf("wanted %q, got %q", d.exp, s)
			}
		})
	}
}

func TestLogger_Output(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	NewLogger(buf, "", true).Output(&Result{
		FilesScanned:    1,
		SnippetsScanned: 2,
		Findings:        []*Finding{newTestFinding()},
	})
	exp := `=== Results: 1 file(s) have findings ===
Scanned 1 files (2 shell scripts)
[INFO] In .github/workflows/test.yaml:8 (jobs.build.steps[1]):
    Message: Double quote to prevent globbing and word splitting.
    More information: https://www.shellcheck.net/wiki/SC2086
    Code:
        echo $FOO
             ^^^^
`
	if diff := cmp.Diff(exp, buf.String()); diff != "" {
		t.Fatal(diff)
	}
}

func TestLogger_Output_noFinding(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	NewLogger(buf, "", true).Output(&Result{
		FilesScanned:    3,
		SnippetsScanned: 5,
		Findings:        []*Finding{},
	})
	exp := "=== Results: 0 file(s) have findings ===\nScanned 3 files (5 shell scripts)\n"
	if diff := cmp.Diff(exp, buf.String()); diff != "" {
		t.Fatal(diff)
	}
}

func TestLogger_level(t *testing.T) {
	t.Parallel()
	logger := NewLogger(&bytes.Buffer{}, "", true)
	for level, exp := range map[shellcheck.Level]string{
		shellcheck.LevelError:   "ERROR",
		shellcheck.LevelWarning: "WARNING",
		shellcheck.LevelInfo:    "INFO",
		shellcheck.LevelStyle:   "STYLE",
	} {
		if s := logger.level(level); s != exp {
			t.Errorf("wanted %s, got %s", exp, s)
		}
	}
}
