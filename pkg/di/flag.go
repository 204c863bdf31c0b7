package di

import (
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/cli/flag"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/config"
)

// DefaultDir is the directory scanned if no argument is passed.
const DefaultDir = ".github/workflows"

// Flags holds all command-line flags for the run command.
type Flags struct {
	*flag.GlobalFlags

	Format    string
	Review    bool
	KeepGoing bool
	NoColor   bool

	DefaultShell   string
	StrictSchema   bool
	Concurrency    int
	Timeout        string
	ShellCheckPath string
	Severity       string
	Exclude        []string

	IsGitHubActions bool
	KeyringEnabled  bool

	RepoOwner string
	RepoName  string
	SHA       string
	PR        int

	GitHubRepository string
	GitHubEventPath  string
	GitHubAPIURL     string

	PWD  string
	Args []string
}

// Dir returns the directory to scan.
func (f *Flags) Dir() string {
	if len(f.Args) == 0 || f.Args[0] == "" {
		return DefaultDir
	}
	return f.Args[0]
}

// MergeConfig overrides the configuration with flags which are set.
func (f *Flags) MergeConfig(cfg *config.Config) {
	if f.DefaultShell != "" {
		cfg.DefaultShell = f.DefaultShell
	}
	if f.StrictSchema {
		cfg.StrictSchema = true
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.Timeout != "" {
		cfg.Timeout = f.Timeout
	}
	if f.ShellCheckPath == "" && f.Severity == "" && len(f.Exclude) == 0 {
		return
	}
	if cfg.ShellCheck == nil {
		cfg.ShellCheck = &config.ShellCheck{}
	}
	if f.ShellCheckPath != "" {
		cfg.ShellCheck.Path = f.ShellCheckPath
	}
	if f.Severity != "" {
		cfg.ShellCheck.Severity = f.Severity
	}
	cfg.ShellCheck.Exclude = append(cfg.ShellCheck.Exclude, f.Exclude...)
}
