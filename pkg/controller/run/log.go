package run

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/shellcheck"
)

type colorFunc func(a ...any) string

// Logger outputs findings in a human readable format.
type Logger struct {
	stdout io.Writer
	pwd    string
	red    colorFunc
	yellow colorFunc
	cyan   colorFunc
	green  colorFunc
}

func newColor(noColor bool, attr color.Attribute) colorFunc {
	c := color.New(attr)
	if noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c.SprintFunc()
}

func NewLogger(stdout io.Writer, pwd string, noColor bool) *Logger {
	return &Logger{
		stdout: stdout,
		pwd:    pwd,
		red:    newColor(noColor, color.FgRed),
		yellow: newColor(noColor, color.FgYellow),
		cyan:   newColor(noColor, color.FgCyan),
		green:  newColor(noColor, color.FgGreen),
	}
}

func (l *Logger) level(level shellcheck.Level) string {
	s := strings.ToUpper(sanitize(string(level)))
	switch level {
	case shellcheck.LevelError:
		return l.red(s)
	case shellcheck.LevelWarning:
		return l.yellow(s)
	case shellcheck.LevelInfo:
		return l.cyan(s)
	default:
		return l.green(s)
	}
}

// sanitize strips ASCII control characters from untrusted text such as scripts and messages.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

func underline(comment *shellcheck.Comment) string {
	n := comment.EndColumn - comment.Column
	if comment.EndLine != comment.Line || n < 1 {
		n = 1
	}
	return strings.Repeat(" ", max(comment.Column-1, 0)) + strings.Repeat("^", n)
}

// Output outputs the summary and all comments.
//
//	=== Results: 1 file(s) have findings ===
//	Scanned 1 files (2 shell scripts)
//	[INFO] In .github/workflows/test.yaml:8 (jobs.build.steps[1]):
//	    Message: Double quote to prevent globbing and word splitting.
//	    More information: https://www.shellcheck.net/wiki/SC2086
//	    Code:
//	        echo $FOO
//	             ^^^^
func (l *Logger) Output(result *Result) {
	fmt.Fprintf(l.stdout, "=== Results: %d file(s) have findings ===\n", result.FilesWithFindings())
	fmt.Fprintf(l.stdout, "Scanned %d files (%d shell scripts)\n", result.FilesScanned, result.SnippetsScanned)
	for _, finding := range result.Findings {
		for _, comment := range finding.Comments {
			l.outputComment(finding, comment)
		}
	}
}

func (l *Logger) outputComment(finding *Finding, comment *shellcheck.Comment) {
	snippet := finding.Snippet
	fmt.Fprintf(l.stdout, "[%s] In %s:%d (%s):\n", l.level(comment.Level), sanitize(snippet.RelPath(l.pwd)), snippet.SourceLine(comment.Line), sanitize(snippet.Location()))
	fmt.Fprintf(l.stdout, "    Message: %s\n", sanitize(comment.Message))
	fmt.Fprintf(l.stdout, "    More information: %s\n", comment.WikiURL())
	fmt.Fprintln(l.stdout, "    Code:")
	for _, line := range snippet.Lines(comment.Line, comment.EndLine) {
		fmt.Fprintf(l.stdout, "        %s\n", sanitize(line))
	}
	fmt.Fprintf(l.stdout, "        %s\n", underline(comment))
}

func (c *Controller) outputText(result *Result) error {
	NewLogger(c.param.Stdout, c.param.PWD, c.param.NoColor).Output(result)
	return nil
}
