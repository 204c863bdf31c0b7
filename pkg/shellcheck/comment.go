package shellcheck

import "strconv"

// Level is the severity of a comment.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
	LevelStyle   Level = "style"
)

// Comment is a diagnostic of ShellCheck's json1 format.
// Lines and columns are 1-based and relative to the script passed to ShellCheck.
type Comment struct {
	File      string `json:"file"`
	Line      int    `json:"line"`
	EndLine   int    `json:"endLine"`
	Column    int    `json:"column"`
	EndColumn int    `json:"endColumn"`
	Level     Level  `json:"level"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Fix       *Fix   `json:"fix"`
}

// WikiURL returns the URL of the wiki page of the comment's code.
func (c *Comment) WikiURL() string {
	return "https://www.shellcheck.net/wiki/" + c.RuleID()
}

// RuleID returns the code with the SC prefix, e.g. SC2086.
func (c *Comment) RuleID() string {
	return "SC" + strconv.Itoa(c.Code)
}

type Fix struct {
	Replacements []*Replacement `json:"replacements"`
}

type Replacement struct {
	Line           int    `json:"line"`
	EndLine        int    `json:"endLine"`
	Precedence     int    `json:"precedence"`
	InsertionPoint string `json:"insertionPoint"`
	Column         int    `json:"column"`
	EndColumn      int    `json:"endColumn"`
	Replacement    string `json:"replacement"`
}
