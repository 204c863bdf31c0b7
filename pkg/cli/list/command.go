// Package list implements the 'shellcheck-gha list' command.
package list

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/cli/flag"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/config"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/controller/list"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/di"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/log"
	"github.com/urfave/cli/v3"
)

type Flags struct {
	Job          string
	LineTemplate string
	Include      []string
	Exclude      []string
	Args         []string
}

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
	flags := &Flags{}
	return &cli.Command{
		Name:  "list",
		Usage: "List shell scripts in GitHub Actions workflows and composite actions",
		Description: `List shell scripts which shellcheck-gha lints. shellcheck isn't run.

$ shellcheck-gha list

Output format (default CSV):
<FilePath>,<Line>,<Kind>,<JobID>,<StepIndex>,<StepID>,<Shell>

Filter by job:
$ shellcheck-gha list --job build

Custom output format using Go template:
$ shellcheck-gha list --line-template "{{.FilePath}}:{{.Line}} {{.Location}}"

Available template fields:
  FilePath  - File path
  FileName  - Base file name
  Line      - Line number where the script starts
  Kind      - workflow or action
  JobID     - Job ID (empty for composite actions)
  StepIndex - 0-based index of the step
  StepID    - Step ID
  Shell     - Shell of the step
  Location  - e.g. jobs.build.steps[0]
  Script    - Shell script
`,
		Action: func(ctx context.Context, _ *cli.Command) error {
			return r.action(ctx, flags)
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "job",
				Usage:       "Filter steps by job ID",
				Destination: &flags.Job,
			},
			&cli.StringFlag{
				Name:        "line-template",
				Usage:       "Go text/template format for each line",
				Destination: &flags.LineTemplate,
			},
			&cli.StringSliceFlag{
				Name:        "include",
				Aliases:     []string{"i"},
				Usage:       "A regular expression to include steps. It's matched with <file>:<location>",
				Destination: &flags.Include,
			},
			&cli.StringSliceFlag{
				Name:        "exclude",
				Aliases:     []string{"e"},
				Usage:       "A regular expression to exclude steps. It's matched with <file>:<location>",
				Destination: &flags.Exclude,
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

func (r *runner) action(ctx context.Context, flags *Flags) error {
	if err := log.Set(r.logE, r.globalFlags.LogLevel, r.globalFlags.LogColor); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	includes, err := compilePatterns(flags.Include)
	if err != nil {
		return fmt.Errorf("compile include patterns: %w", err)
	}
	excludes, err := compilePatterns(flags.Exclude)
	if err != nil {
		return fmt.Errorf("compile exclude patterns: %w", err)
	}

	fs := afero.NewOsFs()
	cfg, err := readConfig(fs, r.globalFlags.Config)
	if err != nil {
		return err
	}
	dir := di.DefaultDir
	if len(flags.Args) != 0 && flags.Args[0] != "" {
		dir = flags.Args[0]
	}
	ctrl := list.New(fs, cfg, &list.Param{
		Dir:          dir,
		Job:          flags.Job,
		LineTemplate: flags.LineTemplate,
		Includes:     includes,
		Excludes:     excludes,
	}, os.Stdout)
	return ctrl.List(ctx, r.logE) //nolint:wrapcheck
}

func readConfig(fs afero.Fs, configFilePath string) (*config.Config, error) {
	cfgPath, err := config.NewFinder(fs).Find(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("find configuration file: %w", err)
	}
	cfg := &config.Config{}
	if err := config.NewReader(fs).Read(cfg, cfgPath); err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}
	return cfg, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	result := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile regex %q: %w", pattern, err)
		}
		result = append(result, re)
	}
	return result, nil
}
