package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/debemdeboas/insights/internal/model"
)

type rawPost struct {
	ID      json.RawMessage `json:"id"`
	Title   json.RawMessage `json:"title"`
	Summary json.RawMessage `json:"summary"`
	Content json.RawMessage `json:"content"`
	Date    json.RawMessage `json:"date"`
}

// DecodePosts parses a posts document. A document that is valid JSON but
// not an array yields an empty collection. Fields that are neither strings
// nor numbers are treated as absent.
func DecodePosts(data []byte) (model.Collection, error) {
	data = bytes.TrimSpace(data)

	var top json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	if len(top) == 0 || top[0] != '[' {
		repoLogger.Debug().Msg("Posts document is not an array, using an empty collection")
		return model.Collection{}, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(top, &elements); err != nil {
		return nil, err
	}

	posts := make(model.Collection, 0, len(elements))
	for i, el := range elements {
		if len(el) == 0 || el[0] != '{' {
			return nil, fmt.Errorf("element %d is not an object", i)
		}

		var raw rawPost
		if err := json.Unmarshal(el, &raw); err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}

		posts = append(posts, model.Post{
			ID:      model.PostID(text(raw.ID)),
			Title:   text(raw.Title),
			Summary: text(raw.Summary),
			Content: text(raw.Content),
			Date:    text(raw.Date),
		})
	}
	return posts, nil
}

// text returns the string form of a JSON string or number, and "" for
// anything else.
func text(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
