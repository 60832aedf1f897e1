// Package model defines core data structures and types for the blog post pipeline.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// UntitledPost is displayed for posts whose source record has no title.
const UntitledPost = "Untitled Post"

// ErrNotFound is returned when no post matches a requested id.
var ErrNotFound = errors.New("post not found")

// PostID is an opaque identifier. The data source may encode it as a JSON
// string or number; both decode to the same textual form.
type PostID string

func (id *PostID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = PostID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = PostID(n.String())
	return nil
}

type Post struct {
	ID PostID `json:"id,omitempty"`

	Title string `json:"title,omitempty"`
	// Untitled is set when the source record carried no title and Title
	// holds the placeholder.
	Untitled bool `json:"-"`

	Summary string `json:"summary,omitempty"`
	Content string `json:"content,omitempty"`

	// Date is kept as the raw source string; see package postdate.
	Date string `json:"date,omitempty"`
}

// SortTitle is the title used for ordering. Untitled posts compare as the
// empty string even though they display the placeholder.
func (p *Post) SortTitle() string {
	if p.Untitled {
		return ""
	}
	return p.Title
}

// DisplayTitle returns the title to render.
func (p *Post) DisplayTitle() string {
	if p.Title == "" {
		return UntitledPost
	}
	return p.Title
}

// HasID reports whether the post carries an identifier.
func (p *Post) HasID() bool {
	return p.ID != ""
}

// Label identifies a post in log lines.
func (p *Post) Label() string {
	if p.HasID() {
		return string(p.ID)
	}
	return strconv.Quote(p.DisplayTitle())
}
