package run

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/github"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/shellcheck"
)

// Review is the pull request review comments are posted to.
type Review struct {
	RepoOwner   string
	RepoName    string
	PullRequest int
	SHA         string
}

func (r *Review) Valid() bool {
	return r != nil && r.RepoOwner != "" && r.RepoName != "" && r.PullRequest > 0 && r.SHA != ""
}

// review posts every comment as a pull request review comment.
// Failures are logged and don't fail the command.
func (c *Controller) review(ctx context.Context, logE *logrus.Entry, result *Result) {
	for _, finding := range result.Findings {
		for _, comment := range finding.Comments {
			code, err := c.createReviewComment(ctx, finding, comment)
			if err != nil {
				logerr.WithError(logE, err).WithFields(logrus.Fields{
					"workflow_file": finding.Snippet.Path,
					"step":          finding.Snippet.Location(),
					"code":          comment.RuleID(),
					"status_code":   code,
				}).Error("create a review comment")
			}
		}
	}
}

func reviewCommentBody(comment *shellcheck.Comment) string {
	const header = "Reviewed by [shellcheck-gha](https://github.com/suzuki-shunsuke/shellcheck-gha)"
	return fmt.Sprintf("%s\n[%s](%s) (%s): %s", header, comment.RuleID(), comment.WikiURL(), comment.Level, sanitize(comment.Message))
}

func (c *Controller) newReviewComment(finding *Finding, comment *shellcheck.Comment) *github.PullRequestComment {
	snippet := finding.Snippet
	startLine := snippet.SourceLine(comment.Line)
	endLine := snippet.SourceLine(comment.EndLine)
	cmt := &github.PullRequestComment{
		Body:     github.Ptr(reviewCommentBody(comment)),
		Path:     github.Ptr(snippet.RelPath(c.param.PWD)),
		Line:     github.Ptr(endLine),
		Side:     github.Ptr("RIGHT"),
		CommitID: github.Ptr(c.param.Review.SHA),
	}
	// lines of a flow scalar are mapped to the same line
	if endLine > startLine {
		cmt.StartLine = github.Ptr(startLine)
		cmt.StartSide = github.Ptr("RIGHT")
	}
	return cmt
}

func (c *Controller) createReviewComment(ctx context.Context, finding *Finding, comment *shellcheck.Comment) (int, error) {
	review := c.param.Review
	_, resp, err := c.pullRequestsService.CreateComment(ctx, review.RepoOwner, review.RepoName, review.PullRequest, c.newReviewComment(finding, comment))
	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	if err != nil {
		return code, fmt.Errorf("create a review comment: %w", err)
	}
	return code, nil
}
