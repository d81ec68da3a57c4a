package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
)

// UpsertParams holds the row written by UpsertDocument.
type UpsertParams struct {
	ID        string
	Content   string
	Embedding pgvector.Vector
	Metadata  []byte
	CreatedAt pgtype.Timestamptz
}

// SearchParams holds the inputs for a vector search.
type SearchParams struct {
	QueryEmbedding pgvector.Vector
	FilterMetadata []byte // JSONB containment filter, nil for unfiltered
	ResultLimit    int32
}

// DocumentRow is one row returned by SearchDocuments.
type DocumentRow struct {
	ID         string
	Content    string
	Metadata   []byte
	CreatedAt  pgtype.Timestamptz
	Similarity float64
}

// Querier defines the database operations Store depends on. The interface
// is consumer-defined so tests can substitute a mock.
type Querier interface {
	UpsertDocument(ctx context.Context, arg UpsertParams) error
	SearchDocuments(ctx context.Context, arg SearchParams) ([]DocumentRow, error)
	CountDocuments(ctx context.Context, filterMetadata []byte) (int64, error)
	DeleteDocument(ctx context.Context, id string) error
	DistinctMetaValues(ctx context.Context, key string) ([]string, error)
}

// DB abstracts the subset of pgxpool.Pool the query layer needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries is the PostgreSQL implementation of Querier.
type Queries struct {
	db DB
}

// NewQueries wraps a connection pool with the use-case queries.
func NewQueries(db DB) *Queries {
	return &Queries{db: db}
}

const upsertDocumentSQL = `
INSERT INTO use_cases (id, content, embedding, metadata, created_at)
VALUES ($1, $2, $3, $4, COALESCE($5, now()))
ON CONFLICT (id) DO UPDATE SET
    content = EXCLUDED.content,
    embedding = EXCLUDED.embedding,
    metadata = EXCLUDED.metadata`

// UpsertDocument inserts or replaces a document row.
func (q *Queries) UpsertDocument(ctx context.Context, arg UpsertParams) error {
	var createdAt any
	if arg.CreatedAt.Valid {
		createdAt = arg.CreatedAt
	}
	_, err := q.db.Exec(ctx, upsertDocumentSQL,
		arg.ID, arg.Content, arg.Embedding, arg.Metadata, createdAt)
	return err
}

const searchDocumentsSQL = `
SELECT id, content, metadata, created_at,
       1 - (embedding <=> $1) AS similarity
FROM use_cases
ORDER BY embedding <=> $1
LIMIT $2`

const searchDocumentsFilteredSQL = `
SELECT id, content, metadata, created_at,
       1 - (embedding <=> $1) AS similarity
FROM use_cases
WHERE metadata @> $2
ORDER BY embedding <=> $1
LIMIT $3`

// SearchDocuments runs a cosine-distance search, optionally restricted by a
// JSONB containment filter. The filter value always comes from json.Marshal,
// never raw user input, and all values bind as parameters.
func (q *Queries) SearchDocuments(ctx context.Context, arg SearchParams) ([]DocumentRow, error) {
	var rows pgx.Rows
	var err error
	if len(arg.FilterMetadata) > 0 {
		rows, err = q.db.Query(ctx, searchDocumentsFilteredSQL,
			arg.QueryEmbedding, arg.FilterMetadata, arg.ResultLimit)
	} else {
		rows, err = q.db.Query(ctx, searchDocumentsSQL,
			arg.QueryEmbedding, arg.ResultLimit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocumentRow
	for rows.Next() {
		var r DocumentRow
		if err := rows.Scan(&r.ID, &r.Content, &r.Metadata, &r.CreatedAt, &r.Similarity); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const countDocumentsSQL = `SELECT count(*) FROM use_cases`
const countDocumentsFilteredSQL = `SELECT count(*) FROM use_cases WHERE metadata @> $1`

// CountDocuments counts rows, optionally restricted by a metadata filter.
func (q *Queries) CountDocuments(ctx context.Context, filterMetadata []byte) (int64, error) {
	var count int64
	var err error
	if len(filterMetadata) > 0 {
		err = q.db.QueryRow(ctx, countDocumentsFilteredSQL, filterMetadata).Scan(&count)
	} else {
		err = q.db.QueryRow(ctx, countDocumentsSQL).Scan(&count)
	}
	return count, err
}

const deleteDocumentSQL = `DELETE FROM use_cases WHERE id = $1`

// DeleteDocument removes a row by ID.
func (q *Queries) DeleteDocument(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, deleteDocumentSQL, id)
	return err
}

const distinctMetaSQL = `
SELECT DISTINCT metadata->>$1 AS value
FROM use_cases
WHERE metadata->>$1 IS NOT NULL AND metadata->>$1 <> ''
ORDER BY value`

// DistinctMetaValues returns the sorted distinct values of a metadata key.
func (q *Queries) DistinctMetaValues(ctx context.Context, key string) ([]string, error) {
	rows, err := q.db.Query(ctx, distinctMetaSQL, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning metadata value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
