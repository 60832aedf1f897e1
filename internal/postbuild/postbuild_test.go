package postbuild

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/repository"
	"github.com/debemdeboas/insights/internal/util/compression"
)

func writePosts(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}

func ids(posts model.Collection) []model.PostID {
	out := make([]model.PostID, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestBuild(t *testing.T) {
	dir := writePosts(t, map[string]string{
		"hello-world.md": `%%%
title = "Hello World"
date = 2025-01-01 00:00:00Z
summary = "A first post."
%%%
# Content

Some *text*.
`,
		"older.md": `%%%
title = "Older"
id = "custom-id"
date = 2024-06-01 00:00:00Z
%%%
Body of the older post.
`,
		"no-front-matter.md": "Just text.\n",
		"draft.md": `%%%
title = "Draft"
draft = true
%%%
Not yet.
`,
		"notes.txt": "ignored",
	})
	if err := os.Mkdir(filepath.Join(dir, "images"), 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Build(context.Background(), dir, Options{SyntaxTheme: "github"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if diff := cmp.Diff([]model.PostID{"hello-world", "custom-id", "no-front-matter"}, ids(res.Posts)); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if res.Files != 4 || res.Drafts != 1 {
		t.Errorf("Expected 4 files and 1 draft, got %d and %d", res.Files, res.Drafts)
	}

	first := res.Posts[0]
	if first.Title != "Hello World" || first.Date != "2025-01-01" || first.Summary != "A first post." {
		t.Errorf("Unexpected metadata %+v", first)
	}
	if !strings.Contains(first.Content, "Content</h1>") || !strings.Contains(first.Content, "<em>text</em>") {
		t.Errorf("Expected rendered HTML, got %q", first.Content)
	}
	if strings.Contains(first.Content, "%%%") || strings.Contains(first.Content, "summary =") {
		t.Errorf("Front matter leaked into content: %q", first.Content)
	}

	plain := res.Posts[2]
	if plain.Title != "no-front-matter" || plain.Date != "" {
		t.Errorf("Expected file name defaults, got %+v", plain)
	}

	// Missing dates and summaries are reported.
	var fields []string
	for _, w := range res.Warnings {
		fields = append(fields, w.Post+":"+w.Field)
	}
	if diff := cmp.Diff([]string{"custom-id:summary", "no-front-matter:date", "no-front-matter:summary"}, fields); diff != "" {
		t.Errorf("Warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_IncludeDrafts(t *testing.T) {
	dir := writePosts(t, map[string]string{
		"draft.md": "%%%\ntitle = \"Draft\"\ndraft = true\n%%%\nNot yet.\n",
	})

	res, err := Build(context.Background(), dir, Options{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(res.Posts) != 1 || res.Drafts != 0 {
		t.Errorf("Expected the draft to be included, got %d posts", len(res.Posts))
	}
}

func TestBuild_DuplicateIDs(t *testing.T) {
	dir := writePosts(t, map[string]string{
		"a.md": "%%%\ntitle = \"A\"\nid = \"same\"\n%%%\nA\n",
		"b.md": "%%%\ntitle = \"B\"\nid = \"same\"\n%%%\nB\n",
	})

	if _, err := Build(context.Background(), dir, Options{}); err == nil || !strings.Contains(err.Error(), "duplicate post id") {
		t.Errorf("Expected duplicate id error, got %v", err)
	}
}

func TestBuild_MissingDir(t *testing.T) {
	if _, err := Build(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{}); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	posts := model.Collection{
		{ID: "1", Title: "One", Date: "2024-01-05", Content: "<p>one</p>"},
		{ID: "2", Title: "Two", Summary: "second"},
	}

	for _, name := range []string{"none", "gzip", "zstd"} {
		t.Run(name, func(t *testing.T) {
			c, ok := compression.ByName(name)
			if !ok {
				t.Fatalf("Unknown compressor %q", name)
			}
			path := filepath.Join(t.TempDir(), "posts.json")
			if err := WriteFile(path, posts, c); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			got, err := repository.NewFSSource(path).Fetch(context.Background())
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if diff := cmp.Diff(posts, got); diff != "" {
				t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil, nil); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Expected empty array, got %q", buf.String())
	}
}
