package di

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/controller/run"
)

// populateReviewFromGitHubActionsEnv fills missing review fields from GITHUB_REPOSITORY and the event payload.
func populateReviewFromGitHubActionsEnv(fs afero.Fs, review *run.Review, flags *Flags) error {
	if review.RepoOwner == "" || review.RepoName == "" {
		repo := flags.GitHubRepository
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" {
			return fmt.Errorf("GITHUB_REPOSITORY is not set or invalid: %s", repo)
		}
		if review.RepoOwner == "" {
			review.RepoOwner = owner
		}
		if review.RepoName == "" {
			review.RepoName = name
		}
	}
	if flags.GitHubEventPath == "" || (review.PullRequest != 0 && review.SHA != "") {
		return nil
	}
	ev, err := readEvent(fs, flags.GitHubEventPath)
	if err != nil {
		return err
	}
	if review.PullRequest == 0 {
		review.PullRequest = ev.PRNumber()
	}
	if review.SHA == "" {
		review.SHA = ev.SHA()
	}
	return nil
}

// setupReview returns nil if --review isn't set or the pull request can't be determined.
func setupReview(fs afero.Fs, logE *logrus.Entry, flags *Flags) *run.Review {
	if !flags.Review {
		return nil
	}
	review := &run.Review{
		RepoOwner:   flags.RepoOwner,
		RepoName:    flags.RepoName,
		PullRequest: flags.PR,
		SHA:         flags.SHA,
	}
	if flags.IsGitHubActions {
		if err := populateReviewFromGitHubActionsEnv(fs, review, flags); err != nil {
			logerr.WithError(logE, err).Error("set review information")
		}
	}
	if !review.Valid() {
		logE.Warn("skip creating reviews because the review information is invalid")
		return nil
	}
	return review
}
