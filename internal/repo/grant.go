package repo

import (
	"context"
	"fmt"

	"praxis-api/internal/database"
	"praxis-api/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GrantRepository handles read access to the grant tables: grants, group
// memberships, folder grants, and matter assignments.
type GrantRepository struct {
	pool *pgxpool.Pool
}

func NewGrantRepository(pool *pgxpool.Pool) *GrantRepository {
	return &GrantRepository{pool: pool}
}

// GroupIDsForUser returns the IDs of permission groups the user belongs to
// within the tenant.
func (r *GrantRepository) GroupIDsForUser(ctx context.Context, tenantID, userID string) ([]string, error) {
	q := database.From(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT m.group_id
		 FROM permission_group_members m
		 JOIN permission_groups g ON g.id = m.group_id
		 WHERE m.user_id = $1 AND g.tenant_id = $2`,
		userID, tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("query group memberships: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group memberships: %w", err)
	}
	return ids, nil
}

// GrantsForPrincipal returns every grant of the given kind targeting the
// user, one of their groups, or their role. Expired rows are excluded in
// SQL; evaluation re-checks expiry against its own clock.
func (r *GrantRepository) GrantsForPrincipal(ctx context.Context, tenantID string, kind domain.ResourceKind, userID string, groupIDs []string, role domain.Role) ([]domain.Grant, error) {
	q := database.From(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT id, tenant_id, resource_kind, resource_id,
		        principal_id, group_id, role_slug,
		        can_view, can_download, can_edit, can_delete, can_share, can_manage_permissions,
		        permission_level, expires_at, granted_by, created_at
		 FROM grants
		 WHERE tenant_id = $1 AND resource_kind = $2
		   AND (principal_id = $3 OR group_id = ANY($4) OR role_slug = $5)
		   AND (expires_at IS NULL OR expires_at > now())`,
		tenantID, string(kind), userID, groupIDs, string(role),
	)
	if err != nil {
		return nil, fmt.Errorf("query grants: %w", err)
	}
	defer rows.Close()

	var grants []domain.Grant
	for rows.Next() {
		var g domain.Grant
		err := rows.Scan(
			&g.ID, &g.TenantID, &g.Kind, &g.ResourceID,
			&g.PrincipalID, &g.GroupID, &g.RoleSlug,
			&g.CanView, &g.CanDownload, &g.CanEdit, &g.CanDelete, &g.CanShare, &g.CanManagePermissions,
			&g.PermissionLevel, &g.ExpiresAt, &g.GrantedBy, &g.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grants: %w", err)
	}
	return grants, nil
}

// FolderGrantsForPrincipal returns folder grants targeting the user
// directly or via one of their groups.
func (r *GrantRepository) FolderGrantsForPrincipal(ctx context.Context, tenantID, userID string, groupIDs []string) ([]domain.FolderGrant, error) {
	q := database.From(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT id, tenant_id, folder_path, principal_id, group_id,
		        can_view, can_download, can_edit, can_delete, can_share, created_at
		 FROM folder_grants
		 WHERE tenant_id = $1 AND (principal_id = $2 OR group_id = ANY($3))`,
		tenantID, userID, groupIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query folder grants: %w", err)
	}
	defer rows.Close()

	var grants []domain.FolderGrant
	for rows.Next() {
		var f domain.FolderGrant
		err := rows.Scan(
			&f.ID, &f.TenantID, &f.FolderPath, &f.PrincipalID, &f.GroupID,
			&f.CanView, &f.CanDownload, &f.CanEdit, &f.CanDelete, &f.CanShare, &f.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder grant: %w", err)
		}
		grants = append(grants, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder grants: %w", err)
	}
	return grants, nil
}

// DeleteExpiredGrants removes grants whose expiry has passed. Evaluation
// already ignores them; this is housekeeping run from the cleanup command.
func (r *GrantRepository) DeleteExpiredGrants(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM grants WHERE expires_at IS NOT NULL AND expires_at <= now()`,
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired grants: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AssignmentsForUser returns the user's matter assignments in the tenant.
func (r *GrantRepository) AssignmentsForUser(ctx context.Context, tenantID, userID string) ([]domain.Assignment, error) {
	q := database.From(ctx, r.pool)
	rows, err := q.Query(ctx,
		`SELECT id, tenant_id, matter_id, user_id, role, created_at
		 FROM matter_assignments
		 WHERE tenant_id = $1 AND user_id = $2`,
		tenantID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.ID, &a.TenantID, &a.MatterID, &a.UserID, &a.Role, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return assignments, nil
}
