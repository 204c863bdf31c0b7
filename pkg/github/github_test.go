package github_test

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/github"
)

func newLogE() *logrus.Entry {
	logger := logrus.New()
	logger.Out = &bytes.Buffer{}
	return logrus.NewEntry(logger)
}

func TestNew(t *testing.T) {
	t.Parallel()
	data := []struct {
		name   string
		apiURL string
		exp    string
	}{
		{
			name: "github.com",
			exp:  "https://api.github.com/",
		},
		{
			name:   "GITHUB_API_URL of github.com",
			apiURL: "https://api.github.com",
			exp:    "https://api.github.com/",
		},
		{
			name:   "GitHub Enterprise Server",
			apiURL: "https://ghes.example.com/api/v3",
			exp:    "https://ghes.example.com/api/v3/",
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			client, err := github.New(t.Context(), newLogE(), &github.ParamNew{
				Token:  "xxx",
				APIURL: d.apiURL,
			})
			if err != nil {
				t.Fatal(err)
			}
			if s := client.BaseURL.String(); s != d.exp {
				t.Fatalf("wanted %s, got %s", d.exp, s)
			}
		})
	}
}
