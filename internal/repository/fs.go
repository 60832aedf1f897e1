package repository

import (
	"context"
	"os"

	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/util/compression"
)

// FSSource reads the posts document from the local filesystem.
type FSSource struct { // implements Source
	path string
}

func NewFSSource(path string) *FSSource {
	return &FSSource{path: path}
}

func (s *FSSource) String() string {
	return s.path
}

func (s *FSSource) Fetch(ctx context.Context) (model.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Source: s.path, Err: err}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &TransportError{Source: s.path, Err: err}
	}

	return decodeDocument(s.path, data)
}

// decodeDocument decompresses and parses a fetched posts document.
func decodeDocument(name string, data []byte) (model.Collection, error) {
	data, err := compression.Decode(name, data)
	if err != nil {
		return nil, &ParseError{Source: name, Err: err}
	}

	posts, err := DecodePosts(data)
	if err != nil {
		return nil, &ParseError{Source: name, Err: err}
	}
	return posts, nil
}
