package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/metrodocs/docflow/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026040201)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL,
	file_path TEXT NOT NULL,
	file_type TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	tags JSONB NOT NULL DEFAULT '[]'::jsonb,
	priority TEXT NOT NULL,
	status TEXT NOT NULL,
	created_by TEXT NOT NULL DEFAULT '',
	assigned_to TEXT NOT NULL DEFAULT '',
	ai_summary TEXT NOT NULL DEFAULT '',
	ai_key_insights JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_department ON documents(department);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);

CREATE TABLE IF NOT EXISTS document_processing_events (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	stage TEXT NOT NULL,
	status TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_processing_events_document
	ON document_processing_events(document_id, created_at);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const documentColumns = `id, title, description, source, file_path, file_type, language, department, category, tags, priority, status, created_by, assigned_to, ai_summary, ai_key_insights, created_at, updated_at`

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	tagsJSON, err := json.Marshal(emptyIfNil(doc.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	insightsJSON, err := json.Marshal(emptyIfNil(doc.AIInsights))
	if err != nil {
		return fmt.Errorf("marshal key insights: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (`+documentColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
`,
		doc.ID, doc.Title, doc.Description, doc.Source, doc.FilePath, doc.FileType, doc.Language,
		doc.Department, doc.Category, tagsJSON, string(doc.Priority), string(doc.Status),
		doc.CreatedBy, doc.AssignedTo, doc.AISummary, insightsJSON, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, updated_at = $3
WHERE id = $1
`, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "update document status", fmt.Errorf("id %s", id))
	}
	return nil
}

// ApplyResult is the single combined write that ends a pipeline run and
// returns the refreshed row.
func (r *DocumentRepository) ApplyResult(ctx context.Context, id string, res domain.ProcessingResult) (*domain.Document, error) {
	tagsJSON, err := json.Marshal(emptyIfNil(res.Tags))
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	insightsJSON, err := json.Marshal(emptyIfNil(res.AIInsights))
	if err != nil {
		return nil, fmt.Errorf("marshal key insights: %w", err)
	}

	row := r.db.QueryRowContext(ctx, `
UPDATE documents
SET category = $2, tags = $3, department = $4, priority = $5, status = $6,
	ai_summary = $7, ai_key_insights = $8, updated_at = $9
WHERE id = $1
RETURNING `+documentColumns+`
`, id, res.Category, tagsJSON, res.Department, string(res.Priority), string(res.Status),
		res.AISummary, insightsJSON, time.Now().UTC())

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "apply processing result", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan updated document: %w", err)
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var tagsRaw, insightsRaw []byte
	var priority, status string

	err := row.Scan(
		&doc.ID, &doc.Title, &doc.Description, &doc.Source, &doc.FilePath, &doc.FileType,
		&doc.Language, &doc.Department, &doc.Category, &tagsRaw, &priority, &status,
		&doc.CreatedBy, &doc.AssignedTo, &doc.AISummary, &insightsRaw, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsRaw, &doc.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	if err := json.Unmarshal(insightsRaw, &doc.AIInsights); err != nil {
		return nil, fmt.Errorf("unmarshal key insights: %w", err)
	}
	doc.Priority = domain.Priority(priority)
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
