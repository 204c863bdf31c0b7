package run

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/shellcheck"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/workflow"
	"golang.org/x/sync/errgroup"
)

// Scan lints the shell scripts of workflows and composite actions under the directory.
// Findings are ordered by file, job, and step regardless of the concurrency.
func (c *Controller) Scan(ctx context.Context, logE *logrus.Entry) (*Result, error) {
	filesScanned, snippets, err := c.Extract(logE)
	if err != nil {
		return nil, err
	}
	findings, err := c.lint(ctx, logE, snippets)
	if err != nil {
		return nil, err
	}
	return &Result{
		FilesScanned:    filesScanned,
		SnippetsScanned: len(snippets),
		Findings:        findings,
	}, nil
}

// Extract returns the number of scanned files and the shell scripts of their steps.
//
// A YAML syntax error always fails.
// A YAML file which is neither a workflow nor a composite action fails if strict_schema is true,
// otherwise the file is skipped and isn't counted.
func (c *Controller) Extract(logE *logrus.Entry) (int, []*workflow.Snippet, error) {
	files, err := c.searchFiles(logE)
	if err != nil {
		return 0, nil, fmt.Errorf("search target files: %w", err)
	}
	filesScanned := 0
	var snippets []*workflow.Snippet
	for _, p := range files {
		logE := logE.WithField("workflow_file", p)
		doc, err := c.readDocument(p)
		if err != nil {
			if errors.Is(err, workflow.ErrUnsupportedDocument) && !c.cfg.StrictSchema {
				logerr.WithError(logE, err).Warn("skip a file because it's neither a workflow nor a composite action")
				continue
			}
			return 0, nil, fmt.Errorf("scan a file: %w", logerr.WithFields(err, logrus.Fields{
				"workflow_file": p,
			}))
		}
		filesScanned++
		snippets = slices.AppendSeq(snippets, doc.Snippets())
	}
	logE.WithFields(logrus.Fields{
		"files":    filesScanned,
		"snippets": len(snippets),
	}).Debug("extracted shell scripts")
	return filesScanned, snippets, nil
}

func (c *Controller) readDocument(p string) (workflow.Document, error) {
	b, err := afero.ReadFile(c.fs, p)
	if err != nil {
		return nil, fmt.Errorf("read a file: %w", err)
	}
	f, err := workflow.Parse(p, b)
	if err != nil {
		return nil, fmt.Errorf("parse a file as YAML: %w", err)
	}
	doc, err := workflow.Resolve(f)
	if err != nil {
		return nil, fmt.Errorf("resolve a YAML file: %w", err)
	}
	return doc, nil
}

// DefaultShell returns the shell used for steps which don't set shell.
func (c *Controller) DefaultShell() string {
	if c.cfg.DefaultShell != "" {
		return c.cfg.DefaultShell
	}
	return shellcheck.DefaultShell
}

func (c *Controller) concurrency() int {
	if c.cfg.Concurrency > 0 {
		return c.cfg.Concurrency
	}
	return runtime.NumCPU()
}

// lint runs the linter against snippets in parallel.
// Each worker writes its finding to the slot of the snippet so that the order of snippets is kept.
func (c *Controller) lint(ctx context.Context, logE *logrus.Entry, snippets []*workflow.Snippet) ([]*Finding, error) {
	slots := make([]*Finding, len(snippets))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.concurrency())
	for i, snippet := range snippets {
		if egCtx.Err() != nil {
			break
		}
		logE := logE.WithFields(logrus.Fields{
			"workflow_file": snippet.Path,
			"step":          snippet.Location(),
		})
		shell := shellcheck.NormalizeShell(snippet.EffectiveShell(c.DefaultShell()))
		if !shellcheck.IsSupportedShell(shell) {
			logE.WithField("shell", snippet.EffectiveShell(c.DefaultShell())).Warn("skip a step because shellcheck doesn't support the shell")
			continue
		}
		eg.Go(func() error {
			finding, err := c.lintSnippet(egCtx, snippet, shell)
			if err != nil {
				if c.param.KeepGoing && egCtx.Err() == nil && !errors.Is(err, shellcheck.ErrVersionCheck) {
					logerr.WithError(logE, err).Error("lint a shell script")
					return nil
				}
				return err
			}
			slots[i] = finding
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err //nolint:wrapcheck
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("lint shell scripts: %w", err)
	}
	findings := make([]*Finding, 0, len(slots))
	for _, finding := range slots {
		if finding != nil {
			findings = append(findings, finding)
		}
	}
	return findings, nil
}

func (c *Controller) lintSnippet(ctx context.Context, snippet *workflow.Snippet, shell string) (*Finding, error) {
	comments, err := c.linter.Lint(ctx, snippet.Script, shell)
	if err != nil {
		return nil, fmt.Errorf("lint a shell script of %s: %w", snippet, err)
	}
	if len(comments) == 0 {
		return nil, nil //nolint:nilnil
	}
	return &Finding{
		Snippet:  snippet,
		Comments: comments,
	}, nil
}
