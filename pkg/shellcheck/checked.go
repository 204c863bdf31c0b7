package shellcheck

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrVersionCheck is returned by VersionCheckedClient if ShellCheck is missing or too old.
var ErrVersionCheck = errors.New("check the version of shellcheck")

// VersionCheckedClient checks the version of ShellCheck on the first Lint call.
// Nothing is run if no script is linted.
type VersionCheckedClient struct {
	client *Client
	logE   *logrus.Entry
	once   sync.Once
	err    error
}

func NewVersionCheckedClient(logE *logrus.Entry, client *Client) *VersionCheckedClient {
	return &VersionCheckedClient{
		client: client,
		logE:   logE,
	}
}

func (c *VersionCheckedClient) Lint(ctx context.Context, script, shell string) ([]*Comment, error) {
	c.once.Do(func() {
		v, err := c.client.Version(ctx)
		if err != nil {
			c.err = fmt.Errorf("%w: %w", ErrVersionCheck, err)
			return
		}
		c.logE.WithField("shellcheck_version", v.String()).Debug("found shellcheck")
	})
	if c.err != nil {
		return nil, c.err
	}
	return c.client.Lint(ctx, script, shell)
}
