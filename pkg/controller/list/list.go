package list

import (
	"context"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/controller/run"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/workflow"
)

// List outputs the shell scripts under the directory.
func (c *Controller) List(_ context.Context, logE *logrus.Entry) error {
	tmpl, err := c.parseTemplate()
	if err != nil {
		return err
	}
	extractor := run.New(c.fs, nil, nil, c.cfg, &run.ParamRun{Dir: c.param.Dir})
	_, snippets, err := extractor.Extract(logE)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defaultShell := extractor.DefaultShell()
	for _, snippet := range snippets {
		if c.excluded(logE, snippet) {
			continue
		}
		if err := c.output(c.newSnippetInfo(snippet, defaultShell), tmpl); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) parseTemplate() (*template.Template, error) {
	if c.param.LineTemplate == "" {
		return nil, nil //nolint:nilnil
	}
	tmpl, err := template.New("line").Parse(c.param.LineTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse line template: %w", err)
	}
	return tmpl, nil
}

func (c *Controller) excluded(logE *logrus.Entry, snippet *workflow.Snippet) bool {
	if c.param.Job != "" && snippet.JobID != c.param.Job {
		return true
	}
	s := snippet.String()
	for _, exclude := range c.param.Excludes {
		if exclude.MatchString(s) {
			logE.WithField("step", s).Debug("exclude the step")
			return true
		}
	}
	if len(c.param.Includes) == 0 {
		return false
	}
	for _, include := range c.param.Includes {
		if include.MatchString(s) {
			return false
		}
	}
	logE.WithField("step", s).Debug("exclude the step by includes")
	return true
}

func (c *Controller) newSnippetInfo(snippet *workflow.Snippet, defaultShell string) *SnippetInfo {
	return &SnippetInfo{
		FilePath:  snippet.Path,
		FileName:  filepath.Base(snippet.Path),
		Line:      snippet.SourceLine(1),
		Kind:      snippet.Kind.String(),
		JobID:     snippet.JobID,
		StepIndex: snippet.StepIndex,
		StepID:    snippet.StepID,
		Shell:     snippet.EffectiveShell(defaultShell),
		Location:  snippet.Location(),
		Script:    snippet.Script,
	}
}

func (c *Controller) output(info *SnippetInfo, tmpl *template.Template) error {
	if tmpl != nil {
		if err := tmpl.Execute(c.stdout, info); err != nil {
			return fmt.Errorf("execute template: %w", err)
		}
		fmt.Fprintln(c.stdout)
		return nil
	}
	// <FilePath>,<Line>,<Kind>,<JobID>,<StepIndex>,<StepID>,<Shell>
	fmt.Fprintf(c.stdout, "%s,%d,%s,%s,%d,%s,%s\n", info.FilePath, info.Line, info.Kind, info.JobID, info.StepIndex, info.StepID, info.Shell)
	return nil
}
