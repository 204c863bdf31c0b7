package run

import (
	"fmt"

	"github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/suzuki-shunsuke/shellcheck-gha/pkg/shellcheck"
)

const (
	toolName           = "shellcheck-gha"
	toolInformationURI = "https://github.com/suzuki-shunsuke/shellcheck-gha"
)

func sarifLevel(level shellcheck.Level) string {
	switch level {
	case shellcheck.LevelError:
		return "error"
	case shellcheck.LevelWarning:
		return "warning"
	default:
		return "note"
	}
}

// buildSARIF converts the result to a SARIF report.
// Regions point to the YAML files, not to the extracted scripts.
func (c *Controller) buildSARIF(result *Result) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("create a SARIF report: %w", err)
	}
	run := sarif.NewRunWithInformationURI(toolName, toolInformationURI)
	rules := map[string]*sarif.ReportingDescriptor{}
	for _, finding := range result.Findings {
		snippet := finding.Snippet
		for _, comment := range finding.Comments {
			// the description of a rule is the message of its first comment
			rule, ok := rules[comment.RuleID()]
			if !ok {
				rule = run.AddRule(comment.RuleID()).
					WithDescription(comment.Message).
					WithHelpURI(comment.WikiURL())
				rules[comment.RuleID()] = rule
			}
			region := sarif.NewRegion().
				WithStartLine(snippet.SourceLine(comment.Line)).
				WithEndLine(snippet.SourceLine(comment.EndLine)).
				WithStartColumn(snippet.SourceColumn(comment.Line, comment.Column)).
				WithEndColumn(snippet.SourceColumn(comment.EndLine, comment.EndColumn))
			location := sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(snippet.RelPath(c.param.PWD))).
					WithRegion(region),
			)
			run.AddResult(sarif.NewRuleResult(rule.ID).
				WithMessage(sarif.NewTextMessage(comment.Message)).
				WithLevel(sarifLevel(comment.Level)).
				WithLocations([]*sarif.Location{location}))
		}
	}
	report.AddRun(run)
	return report, nil
}

func (c *Controller) outputSARIF(result *Result) error {
	report, err := c.buildSARIF(result)
	if err != nil {
		return err
	}
	if err := report.PrettyWrite(c.param.Stdout); err != nil {
		return fmt.Errorf("write a SARIF report: %w", err)
	}
	return nil
}
