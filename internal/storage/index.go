package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mworkman/reef/internal/task"
)

// Index is a SQLite mirror of the searchable task columns. It is derived
// data: every commit rebuilds it wholesale from the snapshot, so it can
// always be thrown away and recreated.
type Index struct {
	db *sql.DB
}

const indexSchema = `
CREATE TABLE IF NOT EXISTS task_index (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS task_index_created ON task_index(created_at);
`

// OpenIndex opens (or creates) a search index at the given path.
// Use ":memory:" for an ephemeral index in tests.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Rebuild replaces the index contents with the given task set in one
// transaction.
func (ix *Index) Rebuild(tasks []*task.Task) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM task_index`); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO task_index (id, name, description, status, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		if _, err := stmt.Exec(t.ID, t.Name, t.Description, string(t.Status), t.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("index task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// SearchIDs returns the IDs of tasks whose name or description contains
// the query as a substring, ordered by creation time. An empty query
// matches everything.
func (ix *Index) SearchIDs(query string) ([]string, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := ix.db.Query(
		`SELECT id FROM task_index
		 WHERE name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'
		 ORDER BY created_at, id`,
		pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close releases the database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// escapeLike escapes LIKE metacharacters so queries match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
