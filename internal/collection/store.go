// Package collection persists Collection metadata (spec.md §3) across
// restarts: declared vector dimension, lifecycle status, and running
// counters, backed by modernc.org/sqlite.
package collection

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO

	svcerrors "github.com/doylet/docsearch/internal/errors"
	"github.com/doylet/docsearch/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name             TEXT PRIMARY KEY,
	vector_dimension INTEGER NOT NULL,
	status           TEXT NOT NULL,
	vector_count     INTEGER NOT NULL DEFAULT 0,
	size_bytes       INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMP NOT NULL,
	last_modified    TIMESTAMP NOT NULL
);

-- Durable chunk store backing the Open Question #1 decision: the BM25
-- inverted index is rebuilt by replaying these rows on startup instead of
-- being persisted itself, so BM25 and the vector store always agree on
-- DocIds by construction.
CREATE TABLE IF NOT EXISTS chunks (
	id           TEXT PRIMARY KEY,
	collection   TEXT NOT NULL,
	document_id  TEXT NOT NULL,
	content      TEXT NOT NULL,
	chunk_index  INTEGER NOT NULL,
	heading_path TEXT NOT NULL DEFAULT '',
	start_offset INTEGER NOT NULL,
	end_offset   INTEGER NOT NULL,
	quality      REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_chunks_collection ON chunks(collection);
`

// Store is the durable Collection registry (spec.md §4 / §5's
// "reader-writer map" requirement, persisted across process restarts).
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite-backed collection store at
// path. A single-writer pragma set mirrors the teacher's BM25 index store
// since collection metadata writes are rare and serialized by nature.
func Open(path string) (*Store, error) {
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, svcerrors.Internal("open collection store", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, svcerrors.Internal("set collection store pragma", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, svcerrors.Internal("create collection schema", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Create declares a new collection with the given name and dimension,
// failing if one already exists with that name.
func (s *Store) Create(ctx context.Context, name string, dimension int) (model.Collection, error) {
	now := time.Now()
	c := model.Collection{
		Name:            name,
		VectorDimension: dimension,
		Status:          model.CollectionActive,
		CreatedAt:       now,
		LastModified:    now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, vector_dimension, status, vector_count, size_bytes, created_at, last_modified)
		VALUES (?, ?, ?, 0, 0, ?, ?)
	`, c.Name, c.VectorDimension, string(c.Status), c.CreatedAt, c.LastModified)
	if err != nil {
		return model.Collection{}, svcerrors.Internal(fmt.Sprintf("create collection %q", name), err)
	}
	return c, nil
}

// Get fetches one collection by name.
func (s *Store) Get(ctx context.Context, name string) (model.Collection, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, vector_dimension, status, vector_count, size_bytes, created_at, last_modified
		FROM collections WHERE name = ?
	`, name)
	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return model.Collection{}, false, nil
	}
	if err != nil {
		return model.Collection{}, false, svcerrors.Internal(fmt.Sprintf("get collection %q", name), err)
	}
	return c, true, nil
}

// List returns all known collections ordered by name.
func (s *Store) List(ctx context.Context) ([]model.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, vector_dimension, status, vector_count, size_bytes, created_at, last_modified
		FROM collections ORDER BY name
	`)
	if err != nil {
		return nil, svcerrors.Internal("list collections", err)
	}
	defer rows.Close()

	var out []model.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, svcerrors.Internal("scan collection row", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a collection's metadata record. It does not touch the
// vector store or BM25 index; callers are responsible for clearing those
// first.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name)
	if err != nil {
		return svcerrors.Internal(fmt.Sprintf("delete collection %q", name), err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return svcerrors.NotFound("collection", name)
	}
	return nil
}

// SetStatus transitions a collection's lifecycle status, honoring
// Collection.CanTransitionTo (the Error-is-sticky rule of spec.md §3).
func (s *Store) SetStatus(ctx context.Context, name string, next model.CollectionStatus) error {
	current, ok, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return svcerrors.NotFound("collection", name)
	}
	if !current.CanTransitionTo(next) {
		return svcerrors.Validation("status", fmt.Sprintf("collection %q cannot transition from %s to %s", name, current.Status, next))
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE collections SET status = ?, last_modified = ? WHERE name = ?
	`, string(next), time.Now(), name)
	if err != nil {
		return svcerrors.Internal(fmt.Sprintf("set status for collection %q", name), err)
	}
	return nil
}

// AdjustCounters applies a delta to a collection's vector_count and
// size_bytes, used after an indexing batch commits.
func (s *Store) AdjustCounters(ctx context.Context, name string, vectorDelta int, sizeDelta int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE collections
		SET vector_count = vector_count + ?, size_bytes = size_bytes + ?, last_modified = ?
		WHERE name = ?
	`, vectorDelta, sizeDelta, time.Now(), name)
	if err != nil {
		return svcerrors.Internal(fmt.Sprintf("adjust counters for collection %q", name), err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return svcerrors.NotFound("collection", name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCollection(row scanner) (model.Collection, error) {
	var c model.Collection
	var status string
	err := row.Scan(&c.Name, &c.VectorDimension, &status, &c.VectorCount, &c.SizeBytes, &c.CreatedAt, &c.LastModified)
	if err != nil {
		return model.Collection{}, err
	}
	c.Status = model.CollectionStatus(status)
	return c, nil
}

// SaveChunks upserts a batch of chunks for a collection in one
// transaction, the durable source an indexing batch writes to before BM25
// and the vector store are populated from the same rows.
func (s *Store) SaveChunks(ctx context.Context, collectionName string, chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return svcerrors.Internal("begin save-chunks transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, collection, document_id, content, chunk_index, heading_path, start_offset, end_offset, quality)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			chunk_index = excluded.chunk_index,
			heading_path = excluded.heading_path,
			start_offset = excluded.start_offset,
			end_offset = excluded.end_offset,
			quality = excluded.quality
	`)
	if err != nil {
		return svcerrors.Internal("prepare save-chunks statement", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		heading := strings.Join(c.HeadingPath, "/")
		if _, err := stmt.ExecContext(ctx, c.ID, collectionName, c.DocumentID, c.Content, c.ChunkIndex, heading, c.StartOffset, c.EndOffset, c.Quality); err != nil {
			return svcerrors.Internal(fmt.Sprintf("save chunk %q", c.ID), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return svcerrors.Internal("commit save-chunks transaction", err)
	}
	return nil
}

// LoadChunks streams every chunk for a collection, ordered by document
// and chunk index, for replaying into a freshly built BM25 index on
// startup.
func (s *Store) LoadChunks(ctx context.Context, collectionName string) ([]model.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, content, chunk_index, heading_path, start_offset, end_offset, quality
		FROM chunks WHERE collection = ?
		ORDER BY document_id, chunk_index
	`, collectionName)
	if err != nil {
		return nil, svcerrors.Internal(fmt.Sprintf("load chunks for collection %q", collectionName), err)
	}
	defer rows.Close()

	var out []model.Chunk
	for rows.Next() {
		var c model.Chunk
		var heading string
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Content, &c.ChunkIndex, &heading, &c.StartOffset, &c.EndOffset, &c.Quality); err != nil {
			return nil, svcerrors.Internal("scan chunk row", err)
		}
		if heading != "" {
			c.HeadingPath = strings.Split(heading, "/")
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteChunksByDocument removes all chunks belonging to a document,
// used when a document is reindexed or deleted.
func (s *Store) DeleteChunksByDocument(ctx context.Context, collectionName, documentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE collection = ? AND document_id = ?`, collectionName, documentID)
	if err != nil {
		return svcerrors.Internal(fmt.Sprintf("delete chunks for document %q", documentID), err)
	}
	return nil
}
