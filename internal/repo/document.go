package repo

import (
	"context"
	"errors"
	"fmt"

	"praxis-api/internal/database"
	"praxis-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrDocumentNotFound covers both a missing row and a row in another
	// tenant; the two are indistinguishable on purpose (IDOR protection).
	ErrDocumentNotFound = errors.New("document not found in tenant")
)

// DocumentRepository handles read access to the documents table. Every
// query is tenant-scoped in SQL; row-level security on the pinned session
// connection is the second line of defense.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

const documentColumns = `
	id, tenant_id, title, file_name, uploaded_by, owner_id,
	privacy_level, matter_id, folder_path, created_at, updated_at, deleted_at
`

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	err := row.Scan(
		&d.ID, &d.TenantID, &d.Title, &d.FileName, &d.UploadedBy, &d.OwnerID,
		&d.PrivacyLevel, &d.MatterID, &d.FolderPath, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Get retrieves a single document by ID, scoped to the tenant.
func (r *DocumentRepository) Get(ctx context.Context, tenantID, documentID string) (*domain.Document, error) {
	q := database.From(ctx, r.pool)
	doc, err := scanDocument(q.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents
		 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`,
		documentID, tenantID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("query document: %w", err)
	}
	return doc, nil
}

// List retrieves live documents for a tenant. Authorization filtering is the
// service layer's job; the repo only applies tenant scope and basic filters.
// Limit zero means no cap, so the service can paginate after filtering.
func (r *DocumentRepository) List(ctx context.Context, params domain.ListDocumentsParams) ([]domain.Document, error) {
	q := database.From(ctx, r.pool)

	query := `SELECT ` + documentColumns + ` FROM documents
		 WHERE tenant_id = $1 AND deleted_at IS NULL
		   AND ($2::text IS NULL OR matter_id = $2)
		 ORDER BY created_at DESC
		 LIMIT NULLIF($3, 0)`

	rows, err := q.Query(ctx, query, params.TenantID, params.MatterID, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}
