package run

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

type ParamRun struct {
	// Dir is the directory searched for YAML files.
	Dir string
	// PWD is the base directory of file paths in outputs.
	PWD       string
	KeepGoing bool
	Format    string
	NoColor   bool
	Stdout    io.Writer
	Stderr    io.Writer
	Review    *Review
}

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

var ErrFindings = errors.New("shellcheck found problems")

// Run scans files, outputs the result, and creates review comments if it's enabled.
// It returns ErrFindings if any finding is found.
func (c *Controller) Run(ctx context.Context, logE *logrus.Entry) error {
	result, err := c.Scan(ctx, logE)
	if err != nil {
		return err
	}
	if err := c.output(result); err != nil {
		return err
	}
	if c.param.Review != nil {
		c.review(ctx, logE, result)
	}
	if len(result.Findings) != 0 {
		return ErrFindings
	}
	return nil
}

func (c *Controller) output(result *Result) error {
	switch c.param.Format {
	case FormatJSON:
		return c.outputJSON(result)
	case FormatSARIF:
		return c.outputSARIF(result)
	case "", FormatText:
		return c.outputText(result)
	default:
		return fmt.Errorf("unsupported format: %s", c.param.Format)
	}
}
