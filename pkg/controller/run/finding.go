package run

import (
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/shellcheck"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/workflow"
)

// Finding is a snippet and the comments ShellCheck reported for it.
// Comments is never empty.
type Finding struct {
	Snippet  *workflow.Snippet     `json:"snippet"`
	Comments []*shellcheck.Comment `json:"comments"`
}

// Result is the result of a scan.
type Result struct {
	// FilesScanned is the number of files recognized as workflows or composite actions.
	FilesScanned int `json:"files_scanned"`
	// SnippetsScanned is the number of extracted scripts.
	// Scripts skipped because of unsupported shells are also counted.
	SnippetsScanned int        `json:"snippets_scanned"`
	Findings        []*Finding `json:"findings"`
}

// FilesWithFindings returns the number of files having findings.
func (r *Result) FilesWithFindings() int {
	m := map[string]struct{}{}
	for _, f := range r.Findings {
		m[f.Snippet.Path] = struct{}{}
	}
	return len(m)
}
