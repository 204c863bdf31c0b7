// Package github creates GitHub API clients.
// The access token is read from the environment variable GITHUB_TOKEN,
// or from the OS keyring if SHELLCHECK_GHA_KEYRING_ENABLED is true.
package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v74/github"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/log"
	"github.com/suzuki-shunsuke/urfave-cli-v3-util/keyring/ghtoken"
	"golang.org/x/oauth2"
)

type (
	Response           = github.Response
	Client             = github.Client
	PullRequestComment = github.PullRequestComment
)

const (
	defaultAPIURL = "https://api.github.com"
	// KeyService is the service name of the GitHub access token in the OS keyring.
	KeyService = "suzuki-shunsuke/shellcheck-gha"
)

type ParamNew struct {
	Token          string
	KeyringEnabled bool
	// APIURL is the REST API endpoint of GitHub Enterprise Server.
	// github.com is used if it's empty.
	APIURL string
}

func New(ctx context.Context, logE *logrus.Entry, param *ParamNew) (*Client, error) {
	client := github.NewClient(getHTTPClientForGitHub(ctx, logE, param.Token, param.KeyringEnabled))
	if param.APIURL == "" || param.APIURL == defaultAPIURL {
		return client, nil
	}
	c, err := client.WithEnterpriseURLs(param.APIURL, param.APIURL)
	if err != nil {
		return nil, fmt.Errorf("configure GitHub Enterprise Server API URL: %w", err)
	}
	return c, nil
}

func Ptr[T any](v T) *T {
	return github.Ptr(v)
}

func getHTTPClientForGitHub(ctx context.Context, logE *logrus.Entry, token string, keyringEnabled bool) *http.Client {
	if token == "" {
		if keyringEnabled {
			return oauth2.NewClient(ctx, ghtoken.NewTokenSource(log.NewSlog(logE), KeyService))
		}
		return http.DefaultClient
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))
}
