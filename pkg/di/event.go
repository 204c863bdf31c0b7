package di

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
)

// Event is the part of a GitHub Actions event payload used to locate the pull request.
type Event struct {
	PullRequest *PullRequest `json:"pull_request"`
	Issue       *Issue       `json:"issue"`
}

type PullRequest struct {
	Number int   `json:"number"`
	Head   *Head `json:"head"`
}

type Head struct {
	SHA string `json:"sha"`
}

type Issue struct {
	Number int `json:"number"`
}

// PRNumber returns the number of the pull request or the issue.
func (e *Event) PRNumber() int {
	switch {
	case e == nil:
		return 0
	case e.PullRequest != nil:
		return e.PullRequest.Number
	case e.Issue != nil:
		return e.Issue.Number
	default:
		return 0
	}
}

// SHA returns the head commit of the pull request.
func (e *Event) SHA() string {
	if e == nil || e.PullRequest == nil || e.PullRequest.Head == nil {
		return ""
	}
	return e.PullRequest.Head.SHA
}

func readEvent(fs afero.Fs, eventPath string) (*Event, error) {
	b, err := afero.ReadFile(fs, eventPath)
	if err != nil {
		return nil, fmt.Errorf("read GITHUB_EVENT_PATH: %w", err)
	}
	ev := &Event{}
	if err := json.Unmarshal(b, ev); err != nil {
		return nil, fmt.Errorf("unmarshal GITHUB_EVENT_PATH: %w", err)
	}
	return ev, nil
}
