package run_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/config"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/controller/run"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/shellcheck"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/workflow"
)

const dir = ".github/workflows"

// fakeLinter reports SC2086 for every `echo $` in a script.
type fakeLinter struct {
	mutex  sync.Mutex
	calls  []string
	shells []string
	errs   map[string]error
	delay  func(script string) time.Duration
}

func (l *fakeLinter) Lint(ctx context.Context, script, shell string) ([]*shellcheck.Comment, error) {
	l.mutex.Lock()
	l.calls = append(l.calls, script)
	l.shells = append(l.shells, shell)
	l.mutex.Unlock()
	if l.delay != nil {
		select {
		case <-time.After(l.delay(script)):
		case <-ctx.Done():
			return nil, &shellcheck.InvocationError{ExitCode: -1, Err: ctx.Err()}
		}
	}
	if err, ok := l.errs[script]; ok {
		return nil, err
	}
	var comments []*shellcheck.Comment
	for i, line := range strings.Split(script, "\n") {
		idx := strings.Index(line, "echo $")
		if idx == -1 {
			continue
		}
		col := idx + len("echo ") + 1
		end := col + len(strings.Fields(line[idx+len("echo "):])[0])
		comments = append(comments, &shellcheck.Comment{
			File:      "-",
			Line:      i + 1,
			EndLine:   i + 1,
			Column:    col,
			EndColumn: end,
			Level:     shellcheck.LevelInfo,
			Code:      2086,
			Message:   "Double quote to prevent globbing and word splitting.",
		})
	}
	return comments, nil
}

func newLogE() *logrus.Entry {
	logger := logrus.New()
	logger.Out = &bytes.Buffer{}
	return logrus.NewEntry(logger)
}

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for p, content := range files {
		if err := fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fs, p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

type findingSummary struct {
	Path     string
	Location string
	Codes    []int
}

func summarize(result *run.Result) []findingSummary {
	arr := make([]findingSummary, 0, len(result.Findings))
	for _, finding := range result.Findings {
		codes := make([]int, 0, len(finding.Comments))
		for _, comment := range finding.Comments {
			codes = append(codes, comment.Code)
		}
		arr = append(arr, findingSummary{
			Path:     filepath.ToSlash(finding.Snippet.Path),
			Location: finding.Snippet.Location(),
			Codes:    codes,
		})
	}
	return arr
}

const twoJobs = `on: push
jobs:
  foo:
    runs-on: ubuntu-latest
    steps:
      - run: echo $VAR
  bar:
    runs-on: ubuntu-latest
    steps:
      - run: echo $VAR
`

const dependabot = `version: 2
updates:
  - package-ecosystem: github-actions
    directory: /
    schedule:
      interval: weekly
`

func TestController_Scan(t *testing.T) { //nolint:funlen,maintidx
	t.Parallel()
	data := []struct {
		name      string
		files     map[string]string
		cfg       *config.Config
		scanned   int
		snippets  int
		exp       []findingSummary
		expErr    error
		expShells []string
	}{
		{
			name:     "two jobs",
			files:    map[string]string{dir + "/test.yaml": twoJobs},
			scanned:  1,
			snippets: 2,
			exp: []findingSummary{
				{Path: dir + "/test.yaml", Location: "jobs.foo.steps[0]", Codes: []int{2086}},
				{Path: dir + "/test.yaml", Location: "jobs.bar.steps[0]", Codes: []int{2086}},
			},
		},
		{
			name: "anchors and aliases",
			files: map[string]string{dir + "/test.yaml": `x-step: &step
  run: echo $VAR
jobs:
  foo:
    steps:
      - run: &script echo $VAR
  bar:
    steps:
      - run: *script
      - *step
      - <<: *step
        shell: sh
`},
			scanned:  1,
			snippets: 4,
			exp: []findingSummary{
				{Path: dir + "/test.yaml", Location: "jobs.foo.steps[0]", Codes: []int{2086}},
				{Path: dir + "/test.yaml", Location: "jobs.bar.steps[0]", Codes: []int{2086}},
				{Path: dir + "/test.yaml", Location: "jobs.bar.steps[1]", Codes: []int{2086}},
				{Path: dir + "/test.yaml", Location: "jobs.bar.steps[2]", Codes: []int{2086}},
			},
		},
		{
			name:   "syntax error",
			files:  map[string]string{dir + "/test.yaml": "jobs: \"unterminated\n"},
			expErr: workflow.ErrYAMLSyntax,
		},
		{
			name:   "syntax error with strict_schema",
			files:  map[string]string{dir + "/test.yaml": "jobs: \"unterminated\n"},
			cfg:    &config.Config{StrictSchema: true},
			expErr: workflow.ErrYAMLSyntax,
		},
		{
			name:  "dependabot is skipped",
			files: map[string]string{dir + "/dependabot.yml": dependabot},
			exp:   []findingSummary{},
		},
		{
			name: "dependabot is skipped and other files are scanned",
			files: map[string]string{
				dir + "/dependabot.yml": dependabot,
				dir + "/test.yaml":      twoJobs,
			},
			scanned:  1,
			snippets: 2,
			exp: []findingSummary{
				{Path: dir + "/test.yaml", Location: "jobs.foo.steps[0]", Codes: []int{2086}},
				{Path: dir + "/test.yaml", Location: "jobs.bar.steps[0]", Codes: []int{2086}},
			},
		},
		{
			name: "dependabot with strict_schema",
			files: map[string]string{
				dir + "/dependabot.yml": dependabot,
				dir + "/test.yaml":      twoJobs,
			},
			cfg:    &config.Config{StrictSchema: true},
			expErr: workflow.ErrUnsupportedDocument,
		},
		{
			name: "unsupported shell",
			files: map[string]string{dir + "/test.yaml": `jobs:
  windows:
    runs-on: windows-latest
    steps:
      - run: echo $env:FOO
        shell: pwsh
      - run: echo $FOO
        shell: bash -e {0}
      - run: echo $BAR
        shell: cmd
`},
			scanned:  1,
			snippets: 3,
			exp: []findingSummary{
				{Path: dir + "/test.yaml", Location: "jobs.windows.steps[1]", Codes: []int{2086}},
			},
			expShells: []string{"bash"},
		},
		{
			name: "default shell unsupported by shellcheck",
			files: map[string]string{dir + "/test.yaml": `jobs:
  windows:
    runs-on: windows-latest
    steps:
      - run: echo $env:FOO
      - run: echo $FOO
        shell: bash
`},
			cfg:      &config.Config{DefaultShell: "pwsh"},
			scanned:  1,
			snippets: 2,
			exp: []findingSummary{
				{Path: dir + "/test.yaml", Location: "jobs.windows.steps[1]", Codes: []int{2086}},
			},
			expShells: []string{"bash"},
		},
		{
			name: "default shell",
			files: map[string]string{dir + "/test.yaml": `jobs:
  foo:
    steps:
      - run: echo "$FOO"
`},
			cfg:       &config.Config{DefaultShell: "sh"},
			scanned:   1,
			snippets:  1,
			exp:       []findingSummary{},
			expShells: []string{"sh"},
		},
		{
			name: "uses and empty run",
			files: map[string]string{dir + "/test.yaml": `jobs:
  foo:
    steps:
      - uses: actions/checkout@v4
      - run: ""
      - run: echo "$GOOD"
`},
			scanned:  1,
			snippets: 1,
			exp:      []findingSummary{},
		},
		{
			name: "files are sorted and nested directories and composite actions are scanned",
			files: map[string]string{
				dir + "/z.yml":                  "jobs:\n  foo:\n    steps:\n      - run: echo $Z\n",
				dir + "/a.yaml":                 "jobs:\n  foo:\n    steps:\n      - run: echo $A\n",
				dir + "/actions/foo/action.yml": "runs:\n  using: composite\n  steps:\n    - run: echo $ACTION\n      shell: bash\n",
				dir + "/README.md":              "echo $README",
			},
			scanned:  3,
			snippets: 3,
			exp: []findingSummary{
				{Path: dir + "/a.yaml", Location: "jobs.foo.steps[0]", Codes: []int{2086}},
				{Path: dir + "/actions/foo/action.yml", Location: "runs.steps[0]", Codes: []int{2086}},
				{Path: dir + "/z.yml", Location: "jobs.foo.steps[0]", Codes: []int{2086}},
			},
		},
		{
			name: "ignore_files",
			files: map[string]string{
				dir + "/generated/foo.yaml": "jobs: \"unterminated\n",
				dir + "/test.yaml":          twoJobs,
			},
			cfg:      &config.Config{IgnoreFiles: []*config.File{{Pattern: "generated/*"}}},
			scanned:  1,
			snippets: 2,
			exp: []findingSummary{
				{Path: dir + "/test.yaml", Location: "jobs.foo.steps[0]", Codes: []int{2086}},
				{Path: dir + "/test.yaml", Location: "jobs.bar.steps[0]", Codes: []int{2086}},
			},
		},
		{
			name:  "empty directory",
			files: map[string]string{},
			exp:   []findingSummary{},
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			fs := newFs(t, d.files)
			linter := &fakeLinter{}
			ctrl := run.New(fs, linter, nil, d.cfg, &run.ParamRun{
				Dir: dir,
			})
			result, err := ctrl.Scan(t.Context(), newLogE())
			if d.expErr != nil {
				if !errors.Is(err, d.expErr) {
					t.Fatalf("wanted %v, got %v", d.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if result.FilesScanned != d.scanned {
				t.Errorf("FilesScanned: wanted %d, got %d", d.scanned, result.FilesScanned)
			}
			if result.SnippetsScanned != d.snippets {
				t.Errorf("SnippetsScanned: wanted %d, got %d", d.snippets, result.SnippetsScanned)
			}
			if diff := cmp.Diff(d.exp, summarize(result)); diff != "" {
				t.Error(diff)
			}
			if d.expShells != nil {
				if diff := cmp.Diff(d.expShells, linter.shells); diff != "" {
					t.Error(diff)
				}
			}
		})
	}
}

func TestController_Scan_unsupportedShellIsNotLinted(t *testing.T) {
	t.Parallel()
	fs := newFs(t, map[string]string{dir + "/test.yaml": `jobs:
  foo:
    steps:
      - run: Write-Output $env:FOO
        shell: powershell
`})
	linter := &fakeLinter{}
	ctrl := run.New(fs, linter, nil, nil, &run.ParamRun{Dir: dir})
	result, err := ctrl.Scan(t.Context(), newLogE())
	if err != nil {
		t.Fatal(err)
	}
	if len(linter.calls) != 0 {
		t.Fatalf("the linter shouldn't be called: %v", linter.calls)
	}
	if result.SnippetsScanned != 1 || len(result.Findings) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestController_Scan_idempotent(t *testing.T) {
	t.Parallel()
	var b strings.Builder
	b.WriteString("jobs:\n")
	for _, job := range []string{"a", "b", "c", "d", "e", "f"} {
		b.WriteString("  " + job + ":\n    steps:\n")
		for range 3 {
			b.WriteString("      - run: echo $" + strings.ToUpper(job) + "\n")
		}
	}
	fs := newFs(t, map[string]string{
		dir + "/test.yaml":  b.String(),
		dir + "/test2.yaml": twoJobs,
	})
	// Earlier jobs take longer so that workers finish in the reverse order.
	delays := map[string]time.Duration{
		"echo $A": 30 * time.Millisecond,
		"echo $B": 20 * time.Millisecond,
		"echo $C": 10 * time.Millisecond,
	}
	linter := &fakeLinter{
		delay: func(script string) time.Duration {
			return delays[script]
		},
	}
	ctrl := run.New(fs, linter, nil, &config.Config{Concurrency: 8}, &run.ParamRun{Dir: dir})
	first, err := ctrl.Scan(t.Context(), newLogE())
	if err != nil {
		t.Fatal(err)
	}
	second, err := ctrl.Scan(t.Context(), newLogE())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatal(diff)
	}
	summary := summarize(first)
	if len(summary) != 20 {
		t.Fatalf("wanted 20 findings, got %d", len(summary))
	}
	if summary[0].Location != "jobs.a.steps[0]" || summary[17].Location != "jobs.f.steps[2]" || summary[18].Location != "jobs.foo.steps[0]" {
		t.Fatalf("findings aren't ordered: %+v", summary)
	}
}

func TestController_Scan_linterError(t *testing.T) {
	t.Parallel()
	data := []struct {
		name      string
		keepGoing bool
		err       error
		isErr     bool
	}{
		{
			name:  "invocation failed",
			err:   &shellcheck.InvocationError{ExitCode: 3, Stderr: "invalid option"},
			isErr: true,
		},
		{
			name:  "malformed output",
			err:   shellcheck.ErrMalformedOutput,
			isErr: true,
		},
		{
			name:      "keep going",
			keepGoing: true,
			err:       &shellcheck.InvocationError{ExitCode: 3, Stderr: "invalid option"},
		},
		{
			name:      "version check failure is fatal even if keep going",
			keepGoing: true,
			err:       shellcheck.ErrVersionCheck,
			isErr:     true,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			fs := newFs(t, map[string]string{dir + "/test.yaml": `jobs:
  foo:
    steps:
      - run: echo $BROKEN
      - run: echo $FOO
`})
			linter := &fakeLinter{
				errs: map[string]error{"echo $BROKEN": d.err},
			}
			ctrl := run.New(fs, linter, nil, &config.Config{Concurrency: 1}, &run.ParamRun{
				Dir:       dir,
				KeepGoing: d.keepGoing,
			})
			result, err := ctrl.Scan(t.Context(), newLogE())
			if d.isErr {
				if !errors.Is(err, d.err) {
					t.Fatalf("wanted %v, got %v", d.err, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			exp := []findingSummary{
				{Path: dir + "/test.yaml", Location: "jobs.foo.steps[1]", Codes: []int{2086}},
			}
			if diff := cmp.Diff(exp, summarize(result)); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestController_Scan_canceled(t *testing.T) {
	t.Parallel()
	fs := newFs(t, map[string]string{dir + "/test.yaml": twoJobs})
	linter := &fakeLinter{
		delay: func(string) time.Duration {
			return time.Minute
		},
	}
	ctrl := run.New(fs, linter, nil, nil, &run.ParamRun{Dir: dir, KeepGoing: true})
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	if _, err := ctrl.Scan(ctx, newLogE()); err == nil {
		t.Fatal("an error should be returned")
	}
}

func TestController_Scan_notDirectory(t *testing.T) {
	t.Parallel()
	fs := newFs(t, map[string]string{"foo.yaml": twoJobs})
	for _, p := range []string{"foo.yaml", "nonexistent"} {
		ctrl := run.New(fs, &fakeLinter{}, nil, nil, &run.ParamRun{Dir: p})
		if _, err := ctrl.Scan(t.Context(), newLogE()); err == nil {
			t.Fatalf("an error should be returned for %s", p)
		}
	}
}
