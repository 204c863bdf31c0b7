package config

import (
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/shellcheck"
	"gopkg.in/yaml.v3"
)

const DefaultTimeout = time.Minute

type Config struct {
	DefaultShell string      `json:"default_shell,omitempty" yaml:"default_shell" jsonschema:"description=The shell used when a step doesn't set shell. Steps whose shell isn't supported by ShellCheck are skipped. The default value is bash"`
	StrictSchema bool        `json:"strict_schema,omitempty" yaml:"strict_schema" jsonschema:"description=If true, YAML files which are neither workflows nor composite actions make the scan fail"`
	Concurrency  int         `json:"concurrency,omitempty" jsonschema:"minimum=0,description=The maximum number of shellcheck processes run in parallel. The default value is the number of CPUs"`
	Timeout      string      `json:"timeout,omitempty" jsonschema:"description=The timeout of each shellcheck process. The format is Go's time.Duration such as 30s. 0 disables the timeout. The default value is 1m"`
	IgnoreFiles  []*File     `json:"ignore_files,omitempty" yaml:"ignore_files" jsonschema:"description=Files shellcheck-gha ignores"`
	ShellCheck   *ShellCheck `json:"shellcheck,omitempty"`
	timeout      time.Duration
}

type File struct {
	Pattern string `json:"pattern" jsonschema:"description=A glob pattern of files relative to the scanned directory."`
}

type ShellCheck struct {
	Path     string   `json:"path,omitempty" jsonschema:"description=The path to the shellcheck command"`
	Severity string   `json:"severity,omitempty" jsonschema:"enum=error,enum=warning,enum=info,enum=style,description=The minimum severity of comments"`
	Exclude  []string `json:"exclude,omitempty" jsonschema:"description=Codes of comments excluded. e.g. SC2086"`
}

func (f *File) Init() error {
	if f.Pattern == "" {
		return errors.New("pattern is required")
	}
	_, err := path.Match(f.Pattern, "a")
	if err != nil {
		return fmt.Errorf("parse pattern as a glob: %w", err)
	}
	return nil
}

// Match reports whether the slash-separated path p matches the pattern.
func (f *File) Match(p string) bool {
	b, err := path.Match(f.Pattern, p)
	return err == nil && b
}

func (sc *ShellCheck) Init() error {
	if sc == nil {
		return nil
	}
	switch sc.Severity {
	case "", string(shellcheck.LevelError), string(shellcheck.LevelWarning), string(shellcheck.LevelInfo), string(shellcheck.LevelStyle):
	default:
		return errors.New("severity must be error, warning, info, or style")
	}
	return nil
}

func (c *Config) Init() error {
	if c.Concurrency < 0 {
		return errors.New("concurrency must not be negative")
	}
	c.timeout = DefaultTimeout
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("parse timeout as a duration: %w", err)
		}
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = d
	}
	for _, file := range c.IgnoreFiles {
		if err := file.Init(); err != nil {
			return fmt.Errorf("initialize ignore_files: %w", err)
		}
	}
	if err := c.ShellCheck.Init(); err != nil {
		return fmt.Errorf("initialize shellcheck: %w", err)
	}
	return nil
}

// GetTimeout returns the parsed timeout. Init must be called in advance.
func (c *Config) GetTimeout() time.Duration {
	return c.timeout
}

// Ignored reports whether the slash-separated path p matches ignore_files.
func (c *Config) Ignored(p string) bool {
	for _, file := range c.IgnoreFiles {
		if file.Match(p) {
			return true
		}
	}
	return false
}

func getConfigPath(fs afero.Fs) (string, error) {
	for _, path := range []string{".shellcheck-gha.yaml", ".github/shellcheck-gha.yaml", ".shellcheck-gha.yml", ".github/shellcheck-gha.yml"} {
		f, err := afero.Exists(fs, path)
		if err != nil {
			return "", fmt.Errorf("check if %s exists: %w", path, err)
		}
		if f {
			return path, nil
		}
	}
	return "", nil
}

type Finder struct {
	fs afero.Fs
}

func NewFinder(fs afero.Fs) *Finder {
	return &Finder{fs: fs}
}

func (f *Finder) Find(configFilePath string) (string, error) {
	if configFilePath != "" {
		return configFilePath, nil
	}
	p, err := getConfigPath(f.fs)
	if err != nil {
		return "", err
	}
	return p, nil
}

type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// Read reads and validates a configuration file.
// If configFilePath is empty, cfg is validated with the default values.
func (r *Reader) Read(cfg *Config, configFilePath string) error {
	if configFilePath != "" {
		f, err := r.fs.Open(configFilePath)
		if err != nil {
			return fmt.Errorf("open a configuration file: %w", err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode a configuration file as YAML: %w", err)
		}
	}
	if err := cfg.Init(); err != nil {
		return fmt.Errorf("validate a configuration file: %w", err)
	}
	return nil
}
