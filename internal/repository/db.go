package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/debemdeboas/insights/internal/db"
	"github.com/debemdeboas/insights/internal/model"
	"github.com/debemdeboas/insights/internal/util"
	"github.com/debemdeboas/insights/internal/util/compression"
)

// DBSource reads posts from the SQLite posts table written by build-posts.
type DBSource struct { // implements Source
	db         db.DB
	compressor compression.Compressor
}

func NewDBSource(path string) *DBSource {
	return NewDBSourceWith(db.NewSQLite(path))
}

func NewDBSourceWith(database db.DB) *DBSource {
	return &DBSource{
		db:         database,
		compressor: compression.ZstdCompressor{},
	}
}

func (s *DBSource) String() string {
	if p, ok := s.db.(interface{ Path() string }); ok {
		return "sqlite://" + p.Path()
	}
	return "sqlite"
}

func (s *DBSource) Fetch(ctx context.Context) (model.Collection, error) {
	// The source is never written to, so a missing file or table is a
	// load failure rather than an empty collection.
	if err := s.db.OpenReadOnly(); err != nil {
		return nil, &TransportError{Source: s.String(), Err: err}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, title, summary, content, date FROM posts ORDER BY position`)
	if err != nil {
		return nil, &TransportError{Source: s.String(), Err: fmt.Errorf("error querying posts: %w", err)}
	}
	defer rows.Close()

	posts := make(model.Collection, 0)
	for rows.Next() {
		var id, title, summary, date sql.NullString
		var compressed []byte

		if err := rows.Scan(&id, &title, &summary, &compressed, &date); err != nil {
			return nil, &ParseError{Source: s.String(), Err: fmt.Errorf("error scanning post: %w", err)}
		}

		var content []byte
		if len(compressed) > 0 {
			content, err = s.compressor.Decompress(compressed)
			if err != nil {
				return nil, &ParseError{Source: s.String(), Err: fmt.Errorf("error decompressing content: %w", err)}
			}
		}

		posts = append(posts, model.Post{
			ID:      model.PostID(id.String),
			Title:   title.String,
			Summary: summary.String,
			Content: string(content),
			Date:    date.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &TransportError{Source: s.String(), Err: err}
	}

	return posts, nil
}

// WritePosts replaces the posts table with posts, preserving their order.
func WritePosts(ctx context.Context, database db.DB, posts model.Collection) error {
	compressor := compression.ZstdCompressor{}

	tx, err := database.Get().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return fmt.Errorf("error clearing posts: %w", err)
	}

	for i, p := range posts {
		compressed, err := compressor.Compress([]byte(p.Content))
		if err != nil {
			return fmt.Errorf("error compressing content: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO posts (position, id, title, summary, content, content_hash, date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, string(p.ID), p.Title, p.Summary, compressed, util.ContentHashString(p.Content), p.Date,
		)
		if err != nil {
			return fmt.Errorf("error saving post %s: %w", p.Label(), err)
		}
	}

	return tx.Commit()
}
