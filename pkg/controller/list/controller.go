// Package list implements the 'shellcheck-gha list' command.
// It prints the shell scripts extracted from workflows and composite actions
// without running ShellCheck, which helps to check what is linted.
package list

import (
	"io"
	"regexp"

	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/config"
)

type Controller struct {
	fs     afero.Fs
	cfg    *config.Config
	param  *Param
	stdout io.Writer
}

type Param struct {
	Dir          string
	Job          string
	LineTemplate string
	// Includes and Excludes are matched against `<file>:<location>`.
	Includes []*regexp.Regexp
	Excludes []*regexp.Regexp
}

func New(fs afero.Fs, cfg *config.Config, param *Param, stdout io.Writer) *Controller {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Controller{
		fs:     fs,
		cfg:    cfg,
		param:  param,
		stdout: stdout,
	}
}

// SnippetInfo is passed to the line template.
type SnippetInfo struct {
	FilePath  string
	FileName  string
	Line      int
	Kind      string
	JobID     string
	StepIndex int
	StepID    string
	Shell     string
	Location  string
	Script    string
}
