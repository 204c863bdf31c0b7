// Package token implements the 'shellcheck-gha token' command.
// The GitHub access token is stored in the OS keyring (Windows Credential Manager,
// macOS Keychain, or GNOME Keyring) and used if SHELLCHECK_GHA_KEYRING_ENABLED is true.
package token

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/cli/flag"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/github"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/log"
	"github.com/suzuki-shunsuke/urfave-cli-v3-util/keyring/ghtoken"
	"github.com/urfave/cli/v3"
)

func New(logE *logrus.Entry, globalFlags *flag.GlobalFlags) *cli.Command {
	cmd := ghtoken.Command(ghtoken.NewActor(log.NewSlog(logE), github.KeyService))
	cmd.Before = func(ctx context.Context, _ *cli.Command) (context.Context, error) {
		if err := log.Set(logE, globalFlags.LogLevel, globalFlags.LogColor); err != nil {
			return ctx, fmt.Errorf("configure logger: %w", err)
		}
		return ctx, nil
	}
	return cmd
}
