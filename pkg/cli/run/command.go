// Package run implements the 'shellcheck-gha run' command.
package run

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/cli/flag"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/di"
	"github.com/urfave/cli/v3"
)

type runner struct {
	logE        *logrus.Entry
	globalFlags *flag.GlobalFlags
}

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	r := &runner{
		logE:        logE,
		globalFlags: globalFlags,
	}
	return r.Command()
}

func (r *runner) Command() *cli.Command { //nolint:funlen
	flags := &di.Flags{
		GlobalFlags: r.globalFlags,
	}
	return &cli.Command{
		Name:  "run",
		Usage: "Lint shell scripts in GitHub Actions workflows and composite actions",
		Description: `If no argument is passed, shellcheck-gha searches YAML files from .github/workflows.

$ shellcheck-gha run

You can also pass a directory.

$ shellcheck-gha run .github

The exit code is 0 if no problem is found, 2 if problems are found, and 1 if the command fails.
`,
		Action: func(ctx context.Context, _ *cli.Command) error {
			return r.action(ctx, flags)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Output format (text, json, sarif)",
				Value:       "text",
				Sources:     cli.EnvVars("SHELLCHECK_GHA_FORMAT"),
				Destination: &flags.Format,
			},
			&cli.BoolFlag{
				Name:        "keep-going",
				Aliases:     []string{"k"},
				Usage:       "Keep linting other scripts even if shellcheck fails",
				Destination: &flags.KeepGoing,
			},
			&cli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colors of the text output",
				Destination: &flags.NoColor,
			},
			&cli.StringFlag{
				Name:        "default-shell",
				Usage:       "The shell used when a step doesn't set shell (sh, bash, dash, ksh)",
				Destination: &flags.DefaultShell,
			},
			&cli.BoolFlag{
				Name:        "strict-schema",
				Usage:       "Fail if YAML files are neither workflows nor composite actions",
				Destination: &flags.StrictSchema,
			},
			&cli.IntFlag{
				Name:        "concurrency",
				Aliases:     []string{"j"},
				Usage:       "The maximum number of shellcheck processes run in parallel",
				Destination: &flags.Concurrency,
			},
			&cli.StringFlag{
				Name:        "timeout",
				Usage:       "The timeout of each shellcheck process (e.g. 30s)",
				Destination: &flags.Timeout,
			},
			&cli.StringFlag{
				Name:        "shellcheck",
				Usage:       "The path to the shellcheck command",
				Sources:     cli.EnvVars("SHELLCHECK_GHA_SHELLCHECK"),
				Destination: &flags.ShellCheckPath,
			},
			&cli.StringFlag{
				Name:        "severity",
				Aliases:     []string{"S"},
				Usage:       "The minimum severity of comments (error, warning, info, style)",
				Destination: &flags.Severity,
			},
			&cli.StringSliceFlag{
				Name:        "exclude",
				Aliases:     []string{"e"},
				Usage:       "Codes of comments excluded (e.g. SC2086)",
				Destination: &flags.Exclude,
			},
			&cli.BoolFlag{
				Name:        "review",
				Usage:       "Create pull request review comments",
				Destination: &flags.Review,
			},
			&cli.StringFlag{
				Name:        "repo-owner",
				Usage:       "GitHub repository owner",
				Sources:     cli.EnvVars("GITHUB_REPOSITORY_OWNER"),
				Destination: &flags.RepoOwner,
			},
			&cli.StringFlag{
				Name:        "repo-name",
				Usage:       "GitHub repository name",
				Destination: &flags.RepoName,
			},
			&cli.StringFlag{
				Name:        "sha",
				Usage:       "Commit SHA to be reviewed",
				Destination: &flags.SHA,
			},
			&cli.IntFlag{
				Name:        "pr",
				Usage:       "GitHub pull request number",
				Destination: &flags.PR,
			},
		},
		Arguments: []cli.Argument{
			&cli.StringArgs{
				Name:        "dir",
				Max:         1,
				Destination: &flags.Args,
			},
		},
	}
}

func (r *runner) action(ctx context.Context, flags *di.Flags) error {
	pwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get the current directory: %w", err)
	}
	flags.PWD = pwd
	di.SetEnv(flags, os.Getenv)
	secrets := &di.Secrets{}
	secrets.SetFromEnv(os.Getenv)
	return di.Run(ctx, r.logE, flags, secrets, os.Stdout, os.Stderr) //nolint:wrapcheck
}
