// Package di wires the dependencies of the run command.
// It reads the configuration, merges flags into it, and creates the ShellCheck client,
// the GitHub client, and the controller.
package di

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/config"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/controller/run"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/github"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/log"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/shellcheck"
)

// Run executes the run command.
func Run(ctx context.Context, logE *logrus.Entry, flags *Flags, secrets *Secrets, stdout, stderr io.Writer) error {
	if flags.IsGitHubActions {
		color.NoColor = false
	}
	if err := log.Set(logE, flags.LogLevel, flags.LogColor); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	fs := afero.NewOsFs()

	cfg, err := readConfig(fs, flags.Config)
	if err != nil {
		return err
	}
	flags.MergeConfig(cfg)
	if err := cfg.Init(); err != nil {
		return fmt.Errorf("validate configuration: %w", err)
	}

	client := shellcheck.NewVersionCheckedClient(logE, newShellCheckClient(cfg))

	review := setupReview(fs, logE, flags)
	var prService run.PullRequestsService
	if review != nil {
		gh, err := github.New(ctx, logE, &github.ParamNew{
			Token:          secrets.GitHubToken,
			KeyringEnabled: flags.KeyringEnabled,
			APIURL:         flags.GitHubAPIURL,
		})
		if err != nil {
			return fmt.Errorf("create a GitHub client: %w", err)
		}
		prService = gh.PullRequests
	}

	ctrl := run.New(fs, client, prService, cfg, buildParam(flags, review, stdout, stderr))
	return ctrl.Run(ctx, logE) //nolint:wrapcheck
}

func readConfig(fs afero.Fs, configFilePath string) (*config.Config, error) {
	cfgFinder := config.NewFinder(fs)
	cfgReader := config.NewReader(fs)
	configPath, err := cfgFinder.Find(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("find configuration file: %w", err)
	}
	cfg := &config.Config{}
	if err := cfgReader.Read(cfg, configPath); err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}
	return cfg, nil
}

func newShellCheckClient(cfg *config.Config) *shellcheck.Client {
	param := &shellcheck.ParamNew{
		Timeout: cfg.GetTimeout(),
	}
	if sc := cfg.ShellCheck; sc != nil {
		param.Path = sc.Path
		param.Severity = sc.Severity
		param.Exclude = sc.Exclude
	}
	return shellcheck.New(param)
}

func buildParam(flags *Flags, review *run.Review, stdout, stderr io.Writer) *run.ParamRun {
	return &run.ParamRun{
		Dir:       flags.Dir(),
		PWD:       flags.PWD,
		KeepGoing: flags.KeepGoing,
		Format:    flags.Format,
		NoColor:   flags.NoColor || color.NoColor,
		Stdout:    stdout,
		Stderr:    stderr,
		Review:    review,
	}
}
