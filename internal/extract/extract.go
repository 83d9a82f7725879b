package extract

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ppiankov/delphia/internal/textutil"
)

// ErrFieldNotFound reports that a template found nothing in the text.
var ErrFieldNotFound = errors.New("field not found")

// FieldError carries the template's diagnostic label for a failed
// extraction. It unwraps to ErrFieldNotFound.
type FieldError struct {
	Label string
}

func (e *FieldError) Error() string { return e.Label }

func (e *FieldError) Unwrap() error { return ErrFieldNotFound }

// Template pulls one named field out of a block of reference text.
type Template struct {
	re    *regexp.Regexp
	group string
	label string
}

// NewTemplate compiles expr in case-insensitive, dot-matches-newline mode and
// checks that it defines the named capture group. The label is the diagnostic
// surfaced when extraction fails.
func NewTemplate(expr, group, label string) (*Template, error) {
	re, err := regexp.Compile("(?is)" + expr)
	if err != nil {
		return nil, fmt.Errorf("compile template: %w", err)
	}
	if re.SubexpIndex(group) < 0 {
		return nil, fmt.Errorf("template has no capture group %q", group)
	}
	return &Template{re: re, group: group, label: label}, nil
}

// MustTemplate is NewTemplate for the built-in tables; it panics on error.
func MustTemplate(expr, group, label string) *Template {
	t, err := NewTemplate(expr, group, label)
	if err != nil {
		panic(err)
	}
	return t
}

// Label returns the template's diagnostic label.
func (t *Template) Label() string { return t.label }

// Extract cleans text and returns the named group of the first match,
// searching anywhere in the cleaned text.
func (t *Template) Extract(text string) (string, error) {
	m := t.re.FindStringSubmatch(textutil.Clean(text))
	if m == nil {
		return "", &FieldError{Label: t.label}
	}
	return m[t.re.SubexpIndex(t.group)], nil
}
