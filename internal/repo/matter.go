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

var ErrMatterNotFound = errors.New("matter not found in tenant")

// MatterRepository handles read access to the matters table.
type MatterRepository struct {
	pool *pgxpool.Pool
}

func NewMatterRepository(pool *pgxpool.Pool) *MatterRepository {
	return &MatterRepository{pool: pool}
}

const matterColumns = `
	id, tenant_id, title, client_id, responsible_attorney, originating_attorney,
	visibility, blocked_user_ids, created_at, updated_at, deleted_at
`

func scanMatter(row pgx.Row) (*domain.Matter, error) {
	var m domain.Matter
	err := row.Scan(
		&m.ID, &m.TenantID, &m.Title, &m.ClientID, &m.ResponsibleAttorney, &m.OriginatingAttorney,
		&m.Visibility, &m.BlockedUserIDs, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Get retrieves a single matter by ID, scoped to the tenant.
func (r *MatterRepository) Get(ctx context.Context, tenantID, matterID string) (*domain.Matter, error) {
	q := database.From(ctx, r.pool)
	m, err := scanMatter(q.QueryRow(ctx,
		`SELECT `+matterColumns+` FROM matters
		 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`,
		matterID, tenantID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatterNotFound
		}
		return nil, fmt.Errorf("query matter: %w", err)
	}
	return m, nil
}

// ListAll retrieves every live matter in the tenant. The matter evaluator
// derives per-principal accessible sets from this, and the service list path
// filters and paginates it after authorization.
func (r *MatterRepository) ListAll(ctx context.Context, tenantID string) ([]domain.Matter, error) {
	q := database.From(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT `+matterColumns+` FROM matters
		 WHERE tenant_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("query matters: %w", err)
	}
	defer rows.Close()

	var matters []domain.Matter
	for rows.Next() {
		m, err := scanMatter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan matter: %w", err)
		}
		matters = append(matters, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matters: %w", err)
	}
	return matters, nil
}
