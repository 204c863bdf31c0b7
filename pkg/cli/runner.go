// Package cli builds the command line interface of shellcheck-gha.
package cli

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/go-stdutil"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/cli/flag"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/cli/initcmd"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/cli/list"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/cli/run"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/cli/token"
	"github.com/suzuki-shunsuke/urfave-cli-v3-util/urfave"
	"github.com/urfave/cli/v3"
)

// Run runs the root command.
func Run(ctx context.Context, logE *logrus.Entry, ldFlags *stdutil.LDFlags, args ...string) error {
	return New(logE, ldFlags).Run(ctx, args) //nolint:wrapcheck
}

// New returns the root command.
// The version and help-all commands are added by urfave.Command.
func New(logE *logrus.Entry, ldFlags *stdutil.LDFlags) *cli.Command {
	globalFlags := &flag.GlobalFlags{}
	return urfave.Command(ldFlags, &cli.Command{
		Name:  "shellcheck-gha",
		Usage: "Lint shell scripts in GitHub Actions workflows and composite actions with ShellCheck. https://github.com/suzuki-shunsuke/shellcheck-gha",
		Flags: globalFlags.Flags(),
		Commands: []*cli.Command{
			run.New(logE, globalFlags),
			list.New(logE, globalFlags),
			initcmd.New(logE, globalFlags),
			token.New(logE, globalFlags),
		},
	})
}
