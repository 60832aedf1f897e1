package repository

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/debemdeboas/insights/internal/model"
)

// HTTPSource fetches the posts document with a single GET request.
type HTTPSource struct { // implements Source
	url    string
	client *http.Client
}

// NewHTTPSource builds a source for url. A zero timeout leaves the request
// bounded only by the caller's context.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) String() string {
	return s.url
}

func (s *HTTPSource) Fetch(ctx context.Context) (model.Collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &TransportError{Source: s.url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Source: s.url, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return nil, &TransportError{Source: s.url, Status: res.StatusCode}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Source: s.url, Err: err}
	}

	return decodeDocument(s.url, data)
}
