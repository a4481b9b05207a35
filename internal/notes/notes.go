// Package notes is a small sqlite-backed store the notes tools write to.
// It holds facts the agent chooses to keep, not conversation history.
package notes

import (
	"context"
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

type Note struct {
	ID        int64
	SessionID string
	Category  string
	Content   string
	CreatedAt time.Time
}

type Store struct {
	conn *sql.DB
}

func Open(path string) (*Store, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, path[2:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, err
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, err
	}

	return &Store{conn: conn}, nil
}

// Add stores a note. sessionID may be empty for notes that are not scoped
// to one conversation.
func (s *Store) Add(ctx context.Context, sessionID, category, content string) (int64, error) {
	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO notes (session_id, category, content) VALUES (?, ?, ?)`,
		nullable(sessionID), category, content,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Search returns notes matching query by substring, newest first. Notes
// scoped to a different session are excluded; unscoped notes always match.
func (s *Store) Search(ctx context.Context, query, sessionID string, limit int) ([]Note, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, COALESCE(session_id, ''), category, content, created_at
		   FROM notes
		  WHERE content LIKE ?
		    AND (session_id IS NULL OR session_id = ?)
		  ORDER BY created_at DESC, id DESC
		  LIMIT ?`,
		"%"+query+"%", sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

// Recent returns the newest notes regardless of content.
func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]Note, error) {
	return s.Search(ctx, "", sessionID, limit)
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func scanNotes(rows *sql.Rows) ([]Note, error) {
	var out []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.SessionID, &n.Category, &n.Content, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
