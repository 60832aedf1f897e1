// Package repository loads the posts collection from its configured source.
package repository

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/postdate"
)

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

// Source performs a single read of the posts document. Returned posts carry
// the source values as-is; defaulting happens in Store.
type Source interface {
	Fetch(ctx context.Context) (model.Collection, error)
	String() string
}

// IDPolicy decides what happens to posts that arrive without an id.
// The listing and summary pages deliberately use different policies.
type IDPolicy int

const (
	// KeepMissingID leaves the id empty; such posts have no working link.
	KeepMissingID IDPolicy = iota
	// SynthesizeMissingID assigns a best-effort unique id.
	SynthesizeMissingID
)

func (p IDPolicy) String() string {
	switch p {
	case KeepMissingID:
		return "keep-missing"
	case SynthesizeMissingID:
		return "synthesize"
	}
	return fmt.Sprintf("IDPolicy(%d)", int(p))
}

// Store loads and normalizes the collection for one page view.
type Store struct {
	source Source
	policy IDPolicy
	now    func() time.Time
	newID  func() string
}

func NewStore(source Source, policy IDPolicy) *Store {
	return &Store{
		source: source,
		policy: policy,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *Store) Source() Source {
	return s.source
}

// Load reads the source once and returns the defaulted collection.
// Failures are returned as *TransportError or *ParseError and are not retried.
func (s *Store) Load(ctx context.Context) (model.Collection, error) {
	posts, err := s.source.Fetch(ctx)
	if err != nil {
		repoLogger.Error().Err(err).Str("source", s.source.String()).Msg("Failed to load posts")
		return nil, err
	}
	if posts == nil {
		posts = model.Collection{}
	}

	s.normalize(posts)
	logWarnings(posts, Audit(posts))

	repoLogger.Debug().
		Str("source", s.source.String()).
		Int("count", len(posts)).
		Stringer("id_policy", s.policy).
		Msg("Posts loaded")

	return posts, nil
}

func (s *Store) normalize(posts model.Collection) {
	for i := range posts {
		p := &posts[i]
		if p.Title == "" {
			p.Title = model.UntitledPost
			p.Untitled = true
		}
		if p.ID == "" && s.policy == SynthesizeMissingID {
			p.ID = model.PostID(fmt.Sprintf("post-%d-%s", s.now().UnixMilli(), s.newID()))
		}
	}
}

// Audit reports the data quality defects of a collection.
func Audit(posts model.Collection) []DataQualityWarning {
	var warnings []DataQualityWarning
	for i := range posts {
		p := &posts[i]
		switch {
		case strings.TrimSpace(p.Date) == "":
			warnings = append(warnings, DataQualityWarning{Post: p.Label(), Field: "date", Problem: "is missing"})
		case !postdate.Valid(p.Date):
			warnings = append(warnings, DataQualityWarning{Post: p.Label(), Field: "date", Problem: "could not be parsed", Value: p.Date})
		}
		if p.Summary == "" {
			warnings = append(warnings, DataQualityWarning{Post: p.Label(), Field: "summary", Problem: "is missing"})
		}
	}
	return warnings
}

func logWarnings(posts model.Collection, warnings []DataQualityWarning) {
	var badDates, missingSummaries int
	for _, w := range warnings {
		switch w.Field {
		case "date":
			badDates++
			repoLogger.Warn().
				Str("post", w.Post).
				Str("date", w.Value).
				Msgf("Date %s, date sorting will place this post last", w.Problem)
		case "summary":
			missingSummaries++
		}
	}

	if badDates > 0 {
		ev := repoLogger.Warn().Int("posts", badDates)
		if badDates == len(posts) {
			ev.Msg("No posts have valid date information, date sorting will not change the order")
		} else {
			ev.Msg("Posts without a valid date")
		}
	}
	if missingSummaries > 0 {
		repoLogger.Info().Int("posts", missingSummaries).Msg("Posts without a summary, summaries will be derived from content")
	}
}

// SourceOptions configures OpenSource.
type SourceOptions struct {
	Timeout    time.Duration
	S3Region   string
	S3Endpoint string
}

// OpenSource picks a Source implementation from the location's scheme:
// http(s)://, s3://bucket/key, sqlite://path or a plain file path.
func OpenSource(ctx context.Context, location string, opts SourceOptions) (Source, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain paths, including Windows drive letters.
		return NewFSSource(location), nil
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTPSource(location, opts.Timeout), nil
	case "file":
		return NewFSSource(u.Path), nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("s3 location %q needs a bucket and key", location)
		}
		return NewS3Source(ctx, u.Host, key, opts.S3Region, opts.S3Endpoint)
	case "sqlite":
		path := strings.TrimPrefix(location, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("sqlite location %q needs a path", location)
		}
		return NewDBSource(path), nil
	}
	return nil, fmt.Errorf("unsupported posts source scheme %q", u.Scheme)
}
