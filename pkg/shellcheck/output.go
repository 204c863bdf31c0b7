package shellcheck

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedOutput = errors.New("the output of shellcheck doesn't conform to the json1 format")

// The wire types use pointers so that missing fields can be told apart from zero values.

type wireOutput struct {
	Comments *[]*wireComment `json:"comments"`
}

type wireComment struct {
	File      *string  `json:"file"`
	Line      *int     `json:"line"`
	EndLine   *int     `json:"endLine"`
	Column    *int     `json:"column"`
	EndColumn *int     `json:"endColumn"`
	Level     *string  `json:"level"`
	Code      *int     `json:"code"`
	Message   *string  `json:"message"`
	Fix       *wireFix `json:"fix"`
}

type wireFix struct {
	Replacements *[]*wireReplacement `json:"replacements"`
}

type wireReplacement struct {
	Line           *int    `json:"line"`
	EndLine        *int    `json:"endLine"`
	Precedence     *int    `json:"precedence"`
	InsertionPoint *string `json:"insertionPoint"`
	Column         *int    `json:"column"`
	EndColumn      *int    `json:"endColumn"`
	Replacement    *string `json:"replacement"`
}

// ParseOutput parses the output of `shellcheck --format=json1`.
// It returns an error wrapping ErrMalformedOutput if data violates the format.
func ParseOutput(data []byte) ([]*Comment, error) {
	out := &wireOutput{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}
	if out.Comments == nil {
		return nil, fmt.Errorf("%w: comments is required", ErrMalformedOutput)
	}
	comments := make([]*Comment, 0, len(*out.Comments))
	for i, wc := range *out.Comments {
		c, err := wc.convert()
		if err != nil {
			return nil, fmt.Errorf("%w: comments[%d]: %w", ErrMalformedOutput, i, err)
		}
		comments = append(comments, c)
	}
	return comments, nil
}

func required[T any](name string, v *T) (T, error) {
	if v == nil {
		var zero T
		return zero, fmt.Errorf("%s is required", name)
	}
	return *v, nil
}

func position(name string, v *int) (int, error) {
	n, err := required(name, v)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be greater than 0", name)
	}
	return n, nil
}

func (wc *wireComment) convert() (*Comment, error) { //nolint:cyclop
	if wc == nil {
		return nil, errors.New("a comment must be an object")
	}
	c := &Comment{}
	var err error
	if c.File, err = required("file", wc.File); err != nil {
		return nil, err
	}
	if c.Line, err = position("line", wc.Line); err != nil {
		return nil, err
	}
	if c.EndLine, err = position("endLine", wc.EndLine); err != nil {
		return nil, err
	}
	if c.Column, err = position("column", wc.Column); err != nil {
		return nil, err
	}
	if c.EndColumn, err = position("endColumn", wc.EndColumn); err != nil {
		return nil, err
	}
	level, err := required("level", wc.Level)
	if err != nil {
		return nil, err
	}
	c.Level = Level(level)
	switch c.Level {
	case LevelError, LevelWarning, LevelInfo, LevelStyle:
	default:
		return nil, fmt.Errorf("unknown level: %s", level)
	}
	if c.Code, err = required("code", wc.Code); err != nil {
		return nil, err
	}
	if c.Message, err = required("message", wc.Message); err != nil {
		return nil, err
	}
	if wc.Fix == nil {
		return c, nil
	}
	fix, err := wc.Fix.convert()
	if err != nil {
		return nil, fmt.Errorf("fix: %w", err)
	}
	c.Fix = fix
	return c, nil
}

func (wf *wireFix) convert() (*Fix, error) {
	if wf.Replacements == nil {
		return nil, errors.New("replacements is required")
	}
	fix := &Fix{
		Replacements: make([]*Replacement, 0, len(*wf.Replacements)),
	}
	for i, wr := range *wf.Replacements {
		r, err := wr.convert()
		if err != nil {
			return nil, fmt.Errorf("replacements[%d]: %w", i, err)
		}
		fix.Replacements = append(fix.Replacements, r)
	}
	return fix, nil
}

func (wr *wireReplacement) convert() (*Replacement, error) {
	if wr == nil {
		return nil, errors.New("a replacement must be an object")
	}
	r := &Replacement{}
	var err error
	if r.Line, err = position("line", wr.Line); err != nil {
		return nil, err
	}
	if r.EndLine, err = position("endLine", wr.EndLine); err != nil {
		return nil, err
	}
	if r.Column, err = position("column", wr.Column); err != nil {
		return nil, err
	}
	if r.EndColumn, err = position("endColumn", wr.EndColumn); err != nil {
		return nil, err
	}
	if r.Precedence, err = required("precedence", wr.Precedence); err != nil {
		return nil, err
	}
	if r.InsertionPoint, err = required("insertionPoint", wr.InsertionPoint); err != nil {
		return nil, err
	}
	if r.Replacement, err = required("replacement", wr.Replacement); err != nil {
		return nil, err
	}
	return r, nil
}
