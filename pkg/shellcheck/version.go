package shellcheck

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-version"
)

// json1 was added in ShellCheck v0.7.0.
const versionConstraint = ">= 0.7.0"

var ErrVersionUnsupported = errors.New("the version of shellcheck isn't supported")

// Version returns the version of ShellCheck.
// It returns an error wrapping ErrVersionUnsupported if the version doesn't support json1.
func (c *Client) Version(ctx context.Context) (*version.Version, error) {
	stderr := &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, c.path, "--version")
	cmd.Stderr = stderr
	out, err := cmd.Output()
	if err != nil {
		code := -1
		exitErr := &exec.ExitError{}
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return nil, &InvocationError{
			ExitCode: code,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	v, err := ParseVersion(out)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(v); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseVersion parses the output of `shellcheck --version`.
//
//	ShellCheck - shell script analysis tool
//	version: 0.10.0
//	license: GNU General Public License, version 3
//	website: https://www.shellcheck.net
func ParseVersion(out []byte) (*version.Version, error) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		s, ok := strings.CutPrefix(strings.TrimSpace(scanner.Text()), "version:")
		if !ok {
			continue
		}
		v, err := version.NewVersion(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("parse the version of shellcheck: %w", err)
		}
		return v, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read the output of shellcheck --version: %w", err)
	}
	return nil, errors.New("the output of shellcheck --version doesn't contain the version")
}

func checkVersion(v *version.Version) error {
	constraints, err := version.NewConstraint(versionConstraint)
	if err != nil {
		return fmt.Errorf("parse a version constraint: %w", err)
	}
	if !constraints.Check(v) {
		return fmt.Errorf("%w: %s doesn't satisfy %s", ErrVersionUnsupported, v, versionConstraint)
	}
	return nil
}
