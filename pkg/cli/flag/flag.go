package flag

import "github.com/urfave/cli/v3"

// GlobalFlags are the flags shared by all subcommands.
type GlobalFlags struct {
	LogLevel string
	LogColor string
	Config   string
}

func (gf *GlobalFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Sources:     cli.EnvVars("SHELLCHECK_GHA_LOG_LEVEL"),
			Destination: &gf.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-color",
			Usage:       "log color (auto, always, never)",
			Value:       "auto",
			Sources:     cli.EnvVars("SHELLCHECK_GHA_LOG_COLOR"),
			Destination: &gf.LogColor,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "configuration file path",
			Sources:     cli.EnvVars("SHELLCHECK_GHA_CONFIG"),
			Destination: &gf.Config,
		},
	}
}
