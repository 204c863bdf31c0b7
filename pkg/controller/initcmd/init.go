// Package initcmd creates a configuration file of shellcheck-gha.
package initcmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultConfigPath is created if no path is passed.
const DefaultConfigPath = ".shellcheck-gha.yaml"

const (
	templateConfig = `# yaml-language-server: $schema=https://raw.githubusercontent.com/suzuki-shunsuke/shellcheck-gha/refs/heads/main/json-schema/shellcheck-gha.json
# shellcheck-gha - https://github.com/suzuki-shunsuke/shellcheck-gha
# default_shell: bash
# strict_schema: false
# concurrency: 0
# timeout: 1m
# ignore_files:
#   - pattern: "generated/*.yaml"
# shellcheck:
#   path: shellcheck
#   severity: style
#   exclude:
#     - SC2086
`
	filePermission os.FileMode = 0o644
)

type Controller struct {
	fs afero.Fs
}

func New(fs afero.Fs) *Controller {
	return &Controller{fs: fs}
}

// Init creates a configuration file if it doesn't exist.
func (c *Controller) Init(logE *logrus.Entry, configFilePath string) error {
	if configFilePath == "" {
		configFilePath = DefaultConfigPath
	}
	f, err := afero.Exists(c.fs, configFilePath)
	if err != nil {
		return fmt.Errorf("check if a configuration file exists: %w", err)
	}
	if f {
		logE.WithField("config", configFilePath).Info("the configuration file already exists")
		return nil
	}
	if err := afero.WriteFile(c.fs, configFilePath, []byte(templateConfig), filePermission); err != nil {
		return fmt.Errorf("create a configuration file: %w", err)
	}
	logE.WithField("config", configFilePath).Info("created a configuration file")
	return nil
}
