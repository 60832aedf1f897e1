package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"

	"github.com/debemdeboas/insights/internal/db"
	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/util/compression"
)

const samplePosts = `[
  {"id": 1, "title": "First", "date": "2024-03-01", "summary": "one"},
  {"id": 2, "title": "Second", "date": "2024-01-01", "content": "<p>two</p>"}
]`

var sampleCollection = model.Collection{
	{ID: "1", Title: "First", Date: "2024-03-01", Summary: "one"},
	{ID: "2", Title: "Second", Date: "2024-01-01", Content: "<p>two</p>"},
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestFSSource(t *testing.T) {
	ctx := context.Background()

	t.Run("Plain JSON", func(t *testing.T) {
		path := writeFile(t, "posts.json", []byte(samplePosts))
		got, err := NewFSSource(path).Fetch(ctx)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := cmp.Diff(sampleCollection, got); diff != "" {
			t.Errorf("Fetch mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Zstd compressed", func(t *testing.T) {
		compressed, err := compression.ZstdCompressor{}.Compress([]byte(samplePosts))
		if err != nil {
			t.Fatalf("Compress failed: %v", err)
		}
		path := writeFile(t, "posts.json.zst", compressed)
		got, err := NewFSSource(path).Fetch(ctx)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected 2 posts, got %d", len(got))
		}
	})

	t.Run("Missing file is a transport error", func(t *testing.T) {
		_, err := NewFSSource(filepath.Join(t.TempDir(), "missing.json")).Fetch(ctx)
		var terr *TransportError
		if !errors.As(err, &terr) {
			t.Fatalf("Expected TransportError, got %v", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Expected wrapped ErrNotExist, got %v", err)
		}
	})

	t.Run("Malformed file is a parse error", func(t *testing.T) {
		path := writeFile(t, "posts.json", []byte("{oops"))
		_, err := NewFSSource(path).Fetch(ctx)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Expected ParseError, got %v", err)
		}
	})
}

func TestHTTPSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/posts.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePosts))
	})
	mux.HandleFunc("/broken.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	})
	mux.HandleFunc("/object.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"posts": "elsewhere"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		got, err := NewHTTPSource(server.URL+"/posts.json", time.Second).Fetch(ctx)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if diff := cmp.Diff(sampleCollection, got); diff != "" {
			t.Errorf("Fetch mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := NewHTTPSource(server.URL+"/missing.json", time.Second).Fetch(ctx)
		var terr *TransportError
		if !errors.As(err, &terr) {
			t.Fatalf("Expected TransportError, got %v", err)
		}
		if terr.Status != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", terr.Status)
		}
	})

	t.Run("Malformed body", func(t *testing.T) {
		_, err := NewHTTPSource(server.URL+"/broken.json", time.Second).Fetch(ctx)
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Expected ParseError, got %v", err)
		}
	})

	t.Run("Non-array body is empty", func(t *testing.T) {
		got, err := NewHTTPSource(server.URL+"/object.json", time.Second).Fetch(ctx)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected empty collection, got %d posts", len(got))
		}
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewHTTPSource(server.URL+"/posts.json", time.Second).Fetch(cancelled)
		var terr *TransportError
		if !errors.As(err, &terr) {
			t.Fatalf("Expected TransportError, got %v", err)
		}
	})
}

type fakeObjectGetter struct {
	body   []byte
	err    error
	bucket string
	key    string
}

func (f *fakeObjectGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = *in.Bucket, *in.Key
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func TestS3Source(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		getter := &fakeObjectGetter{body: []byte(samplePosts)}
		src := newS3Source(getter, "blog", "data/posts.json")

		got, err := src.Fetch(ctx)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if getter.bucket != "blog" || getter.key != "data/posts.json" {
			t.Errorf("Unexpected object %s/%s", getter.bucket, getter.key)
		}
		if diff := cmp.Diff(sampleCollection, got); diff != "" {
			t.Errorf("Fetch mismatch (-want +got):\n%s", diff)
		}
		if src.String() != "s3://blog/data/posts.json" {
			t.Errorf("Unexpected String() %q", src.String())
		}
	})

	t.Run("Gzip object", func(t *testing.T) {
		compressed, err := compression.GzipCompressor{}.Compress([]byte(samplePosts))
		if err != nil {
			t.Fatalf("Compress failed: %v", err)
		}
		got, err := newS3Source(&fakeObjectGetter{body: compressed}, "blog", "posts.json.gz").Fetch(ctx)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected 2 posts, got %d", len(got))
		}
	})

	t.Run("Request failure", func(t *testing.T) {
		inner := errors.New("NoSuchKey")
		_, err := newS3Source(&fakeObjectGetter{err: inner}, "blog", "posts.json").Fetch(ctx)
		var terr *TransportError
		if !errors.As(err, &terr) || !errors.Is(err, inner) {
			t.Fatalf("Expected wrapped TransportError, got %v", err)
		}
	})
}

func TestDBSource(t *testing.T) {
	ctx := context.Background()
	database := db.NewSQLite(filepath.Join(t.TempDir(), "posts.db"))
	if err := database.InitDB(); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer database.Close()

	posts := model.Collection{
		{ID: "b", Title: "Second", Date: "2024-01-01", Content: "<p>content</p>"},
		{ID: "a", Title: "First", Summary: "sum", Date: "2024-03-01"},
		{Title: ""},
	}
	if err := WritePosts(ctx, database, posts); err != nil {
		t.Fatalf("WritePosts failed: %v", err)
	}

	got, err := NewDBSourceWith(database).Fetch(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff(posts, got); diff != "" {
		t.Errorf("Fetch mismatch (-want +got):\n%s", diff)
	}

	// Rewriting replaces the table wholesale.
	if err := WritePosts(ctx, database, posts[:1]); err != nil {
		t.Fatalf("WritePosts failed: %v", err)
	}
	got, err = NewDBSourceWith(database).Fetch(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Expected 1 post after rewrite, got %d", len(got))
	}
}

func TestDBSource_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.db")
	src := NewDBSource(path)
	if src.String() != "sqlite://"+path {
		t.Errorf("Unexpected String() %q", src.String())
	}

	_, err := NewStore(src, KeepMissingID).Load(context.Background())
	var te *TransportError
	if !errors.As(err, &te) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Expected TransportError wrapping os.ErrNotExist, got %v", err)
	}
	if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("Loading must not create %s", path)
	}
}

func TestDBSource_MissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewDBSource(path).Fetch(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Expected TransportError for a database without posts, got %v", err)
	}
}

func TestDBSource_ConcurrentFetch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "posts.db")
	writer := db.NewSQLite(path)
	if err := writer.InitDB(); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	if err := WritePosts(ctx, writer, sampleCollection); err != nil {
		t.Fatalf("WritePosts failed: %v", err)
	}
	writer.Close()

	src := NewDBSource(path)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			posts, err := src.Fetch(ctx)
			if err == nil && len(posts) != len(sampleCollection) {
				err = fmt.Errorf("got %d posts, want %d", len(posts), len(sampleCollection))
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Fetch failed: %v", err)
		}
	}
}
