// Package postbuild compiles a directory of Markdown posts into the posts
// document served by the site.
package postbuild

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/render"
	"github.com/debemdeboas/insights/internal/repository"
	"github.com/debemdeboas/insights/internal/sorting"
	"github.com/debemdeboas/insights/internal/util"
	"github.com/debemdeboas/insights/internal/util/compression"
)

var buildLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	buildLogger = l
}

type Options struct {
	// SyntaxTheme is the chroma style used for code blocks.
	SyntaxTheme   string
	IncludeDrafts bool
}

// Result is the outcome of a build.
type Result struct {
	Posts    model.Collection
	Drafts   int
	Files    int
	Warnings []repository.DataQualityWarning
}

// Build reads every .md file in dir and returns the posts newest first.
// A post's id defaults to its file name, its title to its file name.
func Build(ctx context.Context, dir string, opts Options) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	res := &Result{Posts: model.Collection{}}
	seen := make(map[model.PostID]string)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		res.Files++

		path := filepath.Join(dir, entry.Name())
		md, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		post, draft := compile(entry.Name(), md, opts)
		if draft && !opts.IncludeDrafts {
			res.Drafts++
			buildLogger.Debug().Str("file", entry.Name()).Msg("Skipping draft")
			continue
		}

		if other, dup := seen[post.ID]; dup {
			return nil, fmt.Errorf("duplicate post id %q in %s and %s", post.ID, other, entry.Name())
		}
		seen[post.ID] = entry.Name()

		res.Posts = append(res.Posts, post)
		buildLogger.Debug().
			Str("file", entry.Name()).
			Str("id", string(post.ID)).
			Str("content_hash", util.ContentHash(md)).
			Msg("Compiled post")
	}

	res.Posts = sorting.Sort(res.Posts, model.NewestFirst)
	res.Warnings = repository.Audit(res.Posts)
	return res, nil
}

func compile(name string, md []byte, opts Options) (model.Post, bool) {
	slug := strings.TrimSuffix(name, filepath.Ext(name))
	post := model.Post{ID: model.PostID(slug), Title: slug}

	body := md
	fm, err := util.GetFrontMatter(md)
	if err != nil {
		buildLogger.Debug().Err(err).Str("file", name).Msg("No front matter")
		fm = nil
	} else {
		body = bytes.TrimLeft(markdownAfter(md, fm.Consumed), "\n")
		if fm.ID != "" {
			post.ID = model.PostID(fm.ID)
		}
		if fm.Title != "" {
			post.Title = fm.Title
		}
		post.Summary = fm.Summary
		post.Date = fm.PostDate()
	}

	html, _ := render.RenderMarkdown(body, opts.SyntaxTheme)
	post.Content = string(html)

	return post, fm != nil && fm.Draft
}

// markdownAfter returns the body following the front matter. Consumed is an
// offset into the normalized, left-trimmed document.
func markdownAfter(md []byte, consumed int) []byte {
	normalized := bytes.TrimLeft(markdown.NormalizeNewlines(md), "\n \t\r")
	if consumed >= len(normalized) {
		return nil
	}
	return normalized[consumed:]
}

// Encode writes posts as an indented JSON array, compressed when c is set.
func Encode(w io.Writer, posts model.Collection, c compression.Compressor) error {
	if posts == nil {
		posts = model.Collection{}
	}

	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding posts: %w", err)
	}
	data = append(data, '\n')

	if c != nil {
		if data, err = c.Compress(data); err != nil {
			return fmt.Errorf("compressing posts: %w", err)
		}
	}

	_, err = w.Write(data)
	return err
}

// WriteFile encodes posts to path, replacing it atomically.
func WriteFile(path string, posts model.Collection, c compression.Compressor) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".posts-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, posts, c); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
