// Package run implements the core business logic of shellcheck-gha.
// The controller searches GitHub Actions workflows and composite actions,
// extracts the shell scripts of their steps, lints them with ShellCheck
// through a bounded worker pool, and reports the findings in text, JSON, or SARIF.
// It can also post the findings to a pull request as review comments.
package run

import (
	"context"

	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/config"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/github"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/shellcheck"
)

type Controller struct {
	fs                  afero.Fs
	linter              Linter
	pullRequestsService PullRequestsService
	cfg                 *config.Config
	param               *ParamRun
}

// Linter lints a shell script.
// It returns no comment if the script has no problem.
type Linter interface {
	Lint(ctx context.Context, script, shell string) ([]*shellcheck.Comment, error)
}

type PullRequestsService interface {
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.PullRequestComment) (*github.PullRequestComment, *github.Response, error)
}

func New(fs afero.Fs, linter Linter, pullRequestsService PullRequestsService, cfg *config.Config, param *ParamRun) *Controller {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Controller{
		fs:                  fs,
		linter:              linter,
		pullRequestsService: pullRequestsService,
		cfg:                 cfg,
		param:               param,
	}
}
