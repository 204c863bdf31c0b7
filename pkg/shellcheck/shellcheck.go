// Package shellcheck runs ShellCheck as a subprocess and parses its json1 output.
// Scripts are passed via stdin, so no temporary file is created.
package shellcheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"strings"
	"time"
)

var (
	ErrUnsupportedShell = errors.New("the shell isn't supported by shellcheck")
	ErrInvocationFailed = errors.New("shellcheck failed")
)

// InvocationError is returned when ShellCheck exits with a status other than 0 and 1,
// fails to start, or is killed because of a timeout or cancellation.
type InvocationError struct {
	// ExitCode is -1 if the process didn't exit normally.
	ExitCode int
	Stderr   string
	Err      error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("shellcheck failed (exit code: %d)", e.ExitCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

func (e *InvocationError) Is(target error) bool {
	return target == ErrInvocationFailed
}

const DefaultShell = "bash"

var supportedShells = map[string]struct{}{
	"sh":   {},
	"bash": {},
	"dash": {},
	"ksh":  {},
}

// IsSupportedShell reports whether ShellCheck can lint scripts of the shell.
func IsSupportedShell(shell string) bool {
	_, ok := supportedShells[shell]
	return ok
}

// NormalizeShell returns the executable name of a shell of GitHub Actions.
// e.g. `bash -e {0}` and `/bin/sh` are converted to `bash` and `sh`.
func NormalizeShell(shell string) string {
	fields := strings.Fields(shell)
	if len(fields) == 0 {
		return ""
	}
	return path.Base(fields[0])
}

type Client struct {
	path     string
	severity string
	exclude  []string
	timeout  time.Duration
}

type ParamNew struct {
	// Path is the path to the shellcheck command. By default, shellcheck is looked up from PATH.
	Path     string
	Severity string
	Exclude  []string
	// Timeout bounds each invocation. Zero means no timeout.
	Timeout time.Duration
}

func New(param *ParamNew) *Client {
	p := param.Path
	if p == "" {
		p = "shellcheck"
	}
	return &Client{
		path:     p,
		severity: param.Severity,
		exclude:  param.Exclude,
		timeout:  param.Timeout,
	}
}

func (c *Client) args(shell string) []string {
	args := []string{"--shell=" + shell, "--format=json1"}
	if c.severity != "" {
		args = append(args, "--severity="+c.severity)
	}
	if len(c.exclude) != 0 {
		args = append(args, "--exclude="+strings.Join(c.exclude, ","))
	}
	return append(args, "-")
}

// Lint runs ShellCheck against script.
// It returns no comment if ShellCheck exits with 0.
// If ShellCheck exits with 1, the output is parsed and the comments are returned.
func (c *Client) Lint(ctx context.Context, script, shell string) ([]*Comment, error) {
	if !IsSupportedShell(shell) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedShell, shell)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, c.path, c.args(shell)...)
	cmd.Stdin = strings.NewReader(script)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	if err == nil {
		return nil, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &InvocationError{
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      ctxErr,
		}
	}
	exitErr := &exec.ExitError{}
	if !errors.As(err, &exitErr) {
		return nil, &InvocationError{
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	if code := exitErr.ExitCode(); code != 1 {
		return nil, &InvocationError{
			ExitCode: code,
			Stderr:   stderr.String(),
		}
	}
	comments, err := ParseOutput(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	return comments, nil
}
