package repository

import (
	"fmt"
	"net/http"
)

// TransportError reports that the source could not be read, including
// non-success HTTP responses.
type TransportError struct {
	Source string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d %s", e.Source, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("fetching %s: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError reports a body that is not a valid posts document.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DataQualityWarning describes a non-fatal defect of a single post. Affected
// posts still render with fallback values.
type DataQualityWarning struct {
	Post    string
	Field   string
	Problem string
	Value   string
}

func (w DataQualityWarning) String() string {
	if w.Value != "" {
		return fmt.Sprintf("post %s: %s %s (%q)", w.Post, w.Field, w.Problem, w.Value)
	}
	return fmt.Sprintf("post %s: %s %s", w.Post, w.Field, w.Problem)
}
