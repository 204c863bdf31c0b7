// Package initcmd implements the 'shellcheck-gha init' command.
package initcmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/cli/flag"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/controller/initcmd"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/log"
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

func (r *runner) Command() *cli.Command {
	var args []string
	return &cli.Command{
		Name:  "init",
		Usage: "Create .shellcheck-gha.yaml if it doesn't exist",
		Description: `Create .shellcheck-gha.yaml if it doesn't exist

$ shellcheck-gha init

You can also pass configuration file path.

e.g.

$ shellcheck-gha init .github/shellcheck-gha.yaml
`,
		Action: func(_ context.Context, _ *cli.Command) error {
			return r.action(args)
		},
		Arguments: []cli.Argument{
			&cli.StringArgs{
				Name:        "config",
				Max:         1,
				Destination: &args,
			},
		},
	}
}

func (r *runner) action(args []string) error {
	if err := log.Set(r.logE, r.globalFlags.LogLevel, r.globalFlags.LogColor); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	configFilePath := r.globalFlags.Config
	if len(args) != 0 && args[0] != "" {
		configFilePath = args[0]
	}
	return initcmd.New(afero.NewOsFs()).Init(r.logE, configFilePath) //nolint:wrapcheck
}
