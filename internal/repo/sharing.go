package repo

import (
	"context"
	"fmt"

	"praxis-api/internal/database"
	"praxis-api/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SharingRepository handles read access to sharing groups and hidden items.
type SharingRepository struct {
	pool *pgxpool.Pool
}

func NewSharingRepository(pool *pgxpool.Pool) *SharingRepository {
	return &SharingRepository{pool: pool}
}

// SharingGroupsForUser returns the active sharing groups the user belongs
// to, with the full member list aggregated per group.
func (r *SharingRepository) SharingGroupsForUser(ctx context.Context, tenantID, userID string) ([]domain.SharingGroup, error) {
	q := database.From(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT g.id, g.tenant_id, g.name,
		        g.share_documents, g.share_matters, g.share_clients,
		        g.default_permission_level, g.active, g.created_at,
		        ARRAY(SELECT m2.user_id FROM sharing_group_members m2 WHERE m2.sharing_group_id = g.id)
		 FROM sharing_groups g
		 JOIN sharing_group_members m ON m.sharing_group_id = g.id
		 WHERE g.tenant_id = $1 AND g.active AND m.user_id = $2`,
		tenantID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query sharing groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.SharingGroup
	for rows.Next() {
		var g domain.SharingGroup
		err := rows.Scan(
			&g.ID, &g.TenantID, &g.Name,
			&g.ShareDocuments, &g.ShareMatters, &g.ShareClients,
			&g.DefaultPermissionLevel, &g.Active, &g.CreatedAt,
			&g.MemberIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sharing group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sharing groups: %w", err)
	}
	return groups, nil
}

// HiddenItemsForGroups returns hidden-item suppressions of the given kind
// for the given sharing groups.
func (r *SharingRepository) HiddenItemsForGroups(ctx context.Context, tenantID string, sharingGroupIDs []string, kind domain.ResourceKind) ([]domain.HiddenItem, error) {
	if len(sharingGroupIDs) == 0 {
		return nil, nil
	}

	q := database.From(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT sharing_group_id, tenant_id, owner_id, item_kind, item_id, created_at
		 FROM hidden_items
		 WHERE tenant_id = $1 AND item_kind = $2 AND sharing_group_id = ANY($3)`,
		tenantID, string(kind), sharingGroupIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query hidden items: %w", err)
	}
	defer rows.Close()

	var items []domain.HiddenItem
	for rows.Next() {
		var h domain.HiddenItem
		if err := rows.Scan(&h.SharingGroupID, &h.TenantID, &h.OwnerID, &h.ItemKind, &h.ItemID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan hidden item: %w", err)
		}
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hidden items: %w", err)
	}
	return items, nil
}
