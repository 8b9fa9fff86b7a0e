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

var ErrClientNotFound = errors.New("client not found in tenant")

// ClientRepository handles read access to the clients table.
type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

const clientColumns = `
	id, tenant_id, name, assigned_attorney, created_by, visibility,
	created_at, updated_at, deleted_at
`

func scanClient(row pgx.Row) (*domain.Client, error) {
	var c domain.Client
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.AssignedAttorney, &c.CreatedBy, &c.Visibility,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Get retrieves a single client by ID, scoped to the tenant.
func (r *ClientRepository) Get(ctx context.Context, tenantID, clientID string) (*domain.Client, error) {
	q := database.From(ctx, r.pool)
	c, err := scanClient(q.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients
		 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`,
		clientID, tenantID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("query client: %w", err)
	}
	return c, nil
}

// List retrieves live client records for a tenant.
func (r *ClientRepository) List(ctx context.Context, params domain.ListClientsParams) ([]domain.Client, error) {
	q := database.From(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT `+clientColumns+` FROM clients
		 WHERE tenant_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC
		 LIMIT NULLIF($2, 0)`,
		params.TenantID, params.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, nil
}
